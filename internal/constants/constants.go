// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Canvas constants
const (
	// CanvasWidth is the fixed width of every rendered OG image in pixels
	CanvasWidth = 1200

	// CanvasHeight is the fixed height of every rendered OG image in pixels
	CanvasHeight = 628
)

// Publishing constants
const (
	// DefaultOGDirectory is the storage directory rendered images are published under
	DefaultOGDirectory = ".afilmory/og-images"

	// DefaultContentType is the content type used when uploading rendered images
	DefaultContentType = "image/png"

	// HomeImageName is the base name of the homepage-level OG image
	HomeImageName = "home"

	// DefaultSiteConfigPath is the site metadata file, relative to the working directory
	DefaultSiteConfigPath = "config.json"

	// DefaultSiteName is used when neither config nor site metadata provide a name
	DefaultSiteName = "Photo Gallery"

	// DefaultAccentColor is used when neither config nor site metadata provide a color
	DefaultAccentColor = "#007bff"

	// DefaultManifestPath is the photo manifest read and written back by a run
	DefaultManifestPath = "photos-manifest.json"

	// DefaultPresignTTLMinutes is the validity of signed URLs when a provider presigns
	DefaultPresignTTLMinutes = 7 * 24 * 60
)

// Asset constants
const (
	// FontRegularFile is the filename of the regular-weight typeface
	FontRegularFile = "Geist-Regular.ttf"

	// FontBoldFile is the filename of the bold-weight typeface
	FontBoldFile = "Geist-Bold.ttf"

	// ThumbnailFetchTimeoutSeconds bounds remote thumbnail and avatar downloads
	ThumbnailFetchTimeoutSeconds = 30

	// DefaultFontTTLMinutes is how long a loaded font bundle is reused before it is re-read
	DefaultFontTTLMinutes = 10
)

// PhotoPrism constants
const (
	// DefaultPageSize is the default number of items to fetch per API page
	DefaultPageSize = 1000

	// ThumbnailSize is the PhotoPrism thumbnail variant used as render source
	ThumbnailSize = "fit_1280"
)
