package imageprocessor

import (
	"image"

	"datasetprep/config"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CenterCropRect returns the crop box of a cropW x cropH window centered in a
// w x h image. Offsets use floor division, so odd differences leave the
// extra pixel on the right/bottom edge.
func CenterCropRect(w, h, cropW, cropH int) image.Rectangle {
	return image.Rect((w-cropW)/2, (h-cropH)/2, (w+cropW)/2, (h+cropH)/2)
}

// MaxSquareRect returns the largest centered square inside a w x h image
func MaxSquareRect(w, h int) image.Rectangle {
	side := w
	if h < side {
		side = h
	}
	return CenterCropRect(w, h, side, side)
}

// Normalize brings one image to the target size and mode.
//
// It returns ok=false without an error when the image is smaller than the
// target and upscaling is not allowed. An image already at the target size is
// not resampled. The returned Mat is owned by the caller.
func Normalize(src gocv.Mat, opts config.NormalizeOptions) (gocv.Mat, bool, error) {
	if src.Empty() {
		return gocv.NewMat(), false, ErrEmptyImage
	}

	w, h := src.Cols(), src.Rows()
	if !opts.AllowUpscale && (w < opts.Width || h < opts.Height) {
		return gocv.NewMat(), false, nil
	}

	var resized gocv.Mat
	switch {
	case w == opts.Width && h == opts.Height:
		resized = src.Clone()
	case opts.CropBeforeResize:
		square := src.Region(MaxSquareRect(w, h))
		resized = resample(square, opts.Width, opts.Height)
		square.Close()
	default:
		resized = resample(src, opts.Width, opts.Height)
	}

	if resized.Empty() {
		resized.Close()
		return gocv.NewMat(), false, errors.Errorf("resize to %dx%d produced an empty image", opts.Width, opts.Height)
	}

	result, err := ConvertMode(resized, opts.Mode)
	resized.Close()
	if err != nil {
		return gocv.NewMat(), false, err
	}
	return result, true, nil
}

// resample scales to exactly width x height, ignoring aspect ratio
func resample(src gocv.Mat, width, height int) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Resize(src, &dst, image.Point{X: width, Y: height}, 0, 0, gocv.InterpolationCubic)
	return dst
}
