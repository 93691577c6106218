package imageprocessor

import (
	"os"
	"path/filepath"

	"datasetprep/types"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SaveJPEG encodes img as JPEG at the given quality and writes it to path.
// The parent directory must exist.
func SaveJPEG(path string, img gocv.Mat, quality int) error {
	if img.Empty() {
		return errors.Wrapf(ErrEmptyImage, "cannot save %s", path)
	}
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return errors.Wrapf(err, "cannot encode %s", path)
	}
	defer buf.Close()

	if err := os.WriteFile(path, buf.GetBytes(), 0644); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}
	return nil
}

// SaveJPEGAll creates the parent directory of path and saves img there
func SaveJPEGAll(path string, img gocv.Mat, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "cannot create directory for %s", path)
	}
	return SaveJPEG(path, img, quality)
}

// MatToRaster copies an 8-bit Mat into a Raster with channels in RGB(A) order
func MatToRaster(img gocv.Mat) (types.Raster, error) {
	if img.Empty() {
		return types.Raster{}, ErrEmptyImage
	}

	var code gocv.ColorConversionCode
	reorder := true
	switch img.Type() {
	case gocv.MatTypeCV8UC1:
		reorder = false
	case gocv.MatTypeCV8UC3:
		code = gocv.ColorBGRToRGB
	case gocv.MatTypeCV8UC4:
		code = gocv.ColorBGRAToRGBA
	default:
		return types.Raster{}, errors.Errorf("unsupported pixel type %v", img.Type())
	}

	ordered := gocv.NewMat()
	defer ordered.Close()
	if reorder {
		gocv.CvtColor(img, &ordered, code)
	} else {
		img.CopyTo(&ordered)
	}

	return types.Raster{
		Height:   ordered.Rows(),
		Width:    ordered.Cols(),
		Channels: ordered.Channels(),
		Pix:      ordered.ToBytes(),
	}, nil
}
