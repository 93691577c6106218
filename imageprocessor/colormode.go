package imageprocessor

import (
	"datasetprep/config"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// MatMode returns the color mode of a Mat from its channel count.
// gocv keeps color Mats in BGR(A) order; the mode names the layout only.
func MatMode(img gocv.Mat) (config.Mode, error) {
	mode, ok := config.ModeForChannels(img.Channels())
	if !ok {
		return "", errors.Errorf("unsupported channel count %d", img.Channels())
	}
	return mode, nil
}

// conversionCodes maps (from, to) modes onto OpenCV conversions
var conversionCodes = map[[2]config.Mode]gocv.ColorConversionCode{
	{config.ModeGray, config.ModeRGB}:  gocv.ColorGrayToBGR,
	{config.ModeGray, config.ModeRGBA}: gocv.ColorGrayToBGRA,
	{config.ModeRGB, config.ModeGray}:  gocv.ColorBGRToGray,
	{config.ModeRGB, config.ModeRGBA}:  gocv.ColorBGRToBGRA,
	{config.ModeRGBA, config.ModeGray}: gocv.ColorBGRAToGray,
	{config.ModeRGBA, config.ModeRGB}:  gocv.ColorBGRAToBGR,
}

// ConvertMode returns a new Mat in the target mode. A Mat already in the
// target mode is cloned without touching its pixels.
func ConvertMode(src gocv.Mat, target config.Mode) (gocv.Mat, error) {
	from, err := MatMode(src)
	if err != nil {
		return gocv.NewMat(), err
	}
	if from == target {
		return src.Clone(), nil
	}

	code, ok := conversionCodes[[2]config.Mode{from, target}]
	if !ok {
		return gocv.NewMat(), errors.Errorf("no conversion from %s to %s", from, target)
	}

	dst := gocv.NewMat()
	gocv.CvtColor(src, &dst, code)
	if dst.Empty() {
		dst.Close()
		return gocv.NewMat(), errors.Errorf("conversion from %s to %s produced an empty image", from, target)
	}
	return dst, nil
}
