package photoprism

import (
	"context"
	"fmt"
	"net/url"
	"slices"
)

// GetPhotosWithQuery retrieves photos from PhotoPrism with an optional search query
// Query examples: "label:cat", "year:2024", "public:true"
func (pp *PhotoPrism) GetPhotosWithQuery(ctx context.Context, count int, offset int, query string) ([]Photo, error) {
	endpoint := fmt.Sprintf("photos?count=%d&offset=%d&merged=true&order=newest", count, offset)
	if query != "" {
		endpoint += "&q=" + url.QueryEscape(query)
	}

	result, err := doGetJSON[[]Photo](ctx, pp, endpoint)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// GetPhotoLabels returns the label names attached to a photo, most certain first
func (pp *PhotoPrism) GetPhotoLabels(ctx context.Context, photoUID string) ([]string, error) {
	details, err := doGetJSON[photoDetails](ctx, pp, "photos/"+photoUID)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(details.Labels))
	for _, l := range sortByCertainty(details.Labels) {
		if l.Label.Name != "" {
			names = append(names, l.Label.Name)
		}
	}
	return names, nil
}

func sortByCertainty(labels []PhotoLabel) []PhotoLabel {
	sorted := slices.Clone(labels)
	slices.SortStableFunc(sorted, func(a, b PhotoLabel) int {
		return a.Uncertainty - b.Uncertainty
	})
	return sorted
}

// GetPhotoThumbnail downloads a thumbnail for a photo
// size can be one of: tile_500, fit_720, fit_1280, fit_1920, fit_2048, ...
// Returns the image data as bytes and the content type.
func (pp *PhotoPrism) GetPhotoThumbnail(ctx context.Context, thumbHash string, size string) ([]byte, string, error) {
	thumbURL := fmt.Sprintf("%s/t/%s/%s/%s", pp.Url, thumbHash, pp.downloadToken, size)
	return doGetBytes(ctx, pp, thumbURL)
}
