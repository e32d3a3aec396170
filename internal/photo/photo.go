// Package photo loads garment photos for annotation sessions.
package photo

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Photo is a loaded garment image plus its source path.
type Photo struct {
	Path  string
	Image image.Image
}

// supportedExtensions lists the image formats the annotator opens.
var supportedExtensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// Load reads and decodes an image file.
func Load(path string) (*Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode photo %s: %w", filepath.Base(path), err)
	}
	return &Photo{Path: path, Image: img}, nil
}

// Width returns the photo width in pixels.
func (p *Photo) Width() int {
	return p.Image.Bounds().Dx()
}

// Height returns the photo height in pixels.
func (p *Photo) Height() int {
	return p.Image.Bounds().Dy()
}

// IsSupportedFormat reports whether the file extension is an image
// format the annotator can open.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range supportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FileFilter returns the extension list for open-file dialogs.
func FileFilter() []string {
	return append([]string(nil), supportedExtensions...)
}
