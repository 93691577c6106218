// Package imageprocessor provides the gocv-based image operations used by the
// dataset passes: loading, normalizing, color-mode conversion, JPEG encoding
// and perceptual fingerprinting.
package imageprocessor

import "gocv.io/x/gocv"

// ImageLoader is the interface that all image loaders must implement
type ImageLoader interface {
	// CanLoad checks if the loader can handle the given file
	CanLoad(path string) bool

	// LoadImage loads and returns the image
	LoadImage(path string) (gocv.Mat, error)
}
