package imageprocessor

import (
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrEmptyImage is returned when a file decodes to no pixels
var ErrEmptyImage = errors.New("empty image")

// JPEGLoader loads JPEG files with their channels unchanged
type JPEGLoader struct{}

// NewJPEGLoader creates a loader for JPEG files
func NewJPEGLoader() *JPEGLoader {
	return &JPEGLoader{}
}

// CanLoad checks the extension and that the file is readable
func (l *JPEGLoader) CanLoad(path string) bool {
	return IsJPEGFile(path) && fileExists(path)
}

// LoadImage decodes the file keeping its channel count (gray stays gray)
func (l *JPEGLoader) LoadImage(path string) (gocv.Mat, error) {
	if !fileExists(path) {
		return gocv.NewMat(), errors.Wrapf(os.ErrNotExist, "cannot open %s", path)
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return gocv.NewMat(), errors.Wrapf(err, "cannot read %s", path)
	}
	img, err := DecodeImage(buf)
	if err != nil {
		return gocv.NewMat(), errors.Wrapf(err, "failed to decode %s", path)
	}
	return img, nil
}

// LoadImage loads an image with the default JPEG loader
func LoadImage(path string) (gocv.Mat, error) {
	return NewJPEGLoader().LoadImage(path)
}

// DecodeImage decodes in-memory JPEG bytes keeping the channel count
func DecodeImage(buf []byte) (gocv.Mat, error) {
	img, err := gocv.IMDecode(buf, gocv.IMReadUnchanged)
	if err != nil {
		return gocv.NewMat(), errors.Wrap(err, "failed to decode image bytes")
	}
	if img.Empty() {
		img.Close()
		return gocv.NewMat(), ErrEmptyImage
	}
	return img, nil
}

// fileExists checks if a regular file exists and is accessible
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
