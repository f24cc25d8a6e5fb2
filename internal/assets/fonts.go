package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kozaktomas/photo-og/internal/constants"
)

// ErrFontNotFound is returned when a required font file exists in none of the search directories.
var ErrFontNotFound = errors.New("font file not found")

// FontFiles holds the raw bytes of the two required typefaces.
type FontFiles struct {
	Regular     []byte
	Bold        []byte
	RegularPath string
	BoldPath    string
}

// DefaultFontDirs are searched after any configured directories.
var DefaultFontDirs = []string{
	"fonts",
	filepath.Join("assets", "fonts"),
	"/usr/share/fonts/truetype/geist",
}

// FontDirs returns the ordered search list: configured dirs, the defaults,
// then a fonts directory next to the executable.
func FontDirs(configured []string) []string {
	dirs := make([]string, 0, len(configured)+len(DefaultFontDirs)+1)
	dirs = append(dirs, configured...)
	dirs = append(dirs, DefaultFontDirs[:2]...)
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "fonts"))
	}
	dirs = append(dirs, DefaultFontDirs[2:]...)
	return dirs
}

// FindFont returns the path of the first dir containing name.
func FindFont(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrFontNotFound)
}

// LoadFontFiles finds and reads both required fonts.
func LoadFontFiles(dirs []string) (*FontFiles, error) {
	regularPath, err := FindFont(constants.FontRegularFile, dirs)
	if err != nil {
		return nil, err
	}
	boldPath, err := FindFont(constants.FontBoldFile, dirs)
	if err != nil {
		return nil, err
	}

	regular, err := os.ReadFile(regularPath) //nolint:gosec // path found in configured font dirs
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", regularPath, err)
	}
	bold, err := os.ReadFile(boldPath) //nolint:gosec // path found in configured font dirs
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", boldPath, err)
	}

	return &FontFiles{Regular: regular, Bold: bold, RegularPath: regularPath, BoldPath: boldPath}, nil
}
