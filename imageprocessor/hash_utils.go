package imageprocessor

import (
	"datasetprep/config"
	"datasetprep/types"

	"github.com/corona10/goimagehash"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ComputeFingerprint calculates the perceptual hash of the image on a
// hashSize x hashSize grid and returns it in string form.
//
// The average hash thresholds the downsampled grayscale image at its mean;
// the difference hash thresholds the horizontal gradient between neighbors.
func ComputeFingerprint(img gocv.Mat, hashSize int, kind config.HashKindType) (types.Fingerprint, error) {
	if img.Empty() {
		return "", errors.Wrap(ErrEmptyImage, "cannot compute hash")
	}

	goImg, err := img.ToImage()
	if err != nil {
		return "", errors.Wrap(err, "cannot convert image for hashing")
	}

	var hash *goimagehash.ExtImageHash
	switch kind {
	case config.HashAverage:
		hash, err = goimagehash.ExtAverageHash(goImg, hashSize, hashSize)
	case config.HashDifference:
		hash, err = goimagehash.ExtDifferenceHash(goImg, hashSize, hashSize)
	default:
		return "", errors.Errorf("unknown hash kind %q", kind)
	}
	if err != nil {
		return "", errors.Wrapf(err, "cannot compute %s hash", kind)
	}

	return types.Fingerprint(hash.ToString()), nil
}

// FingerprintFile loads the file and computes its fingerprint
func FingerprintFile(loader ImageLoader, path string, hashSize int, kind config.HashKindType) (types.Fingerprint, error) {
	if !loader.CanLoad(path) {
		return "", errors.Errorf("cannot load %s", path)
	}
	img, err := loader.LoadImage(path)
	if err != nil {
		return "", err
	}
	defer img.Close()

	fp, err := ComputeFingerprint(img, hashSize, kind)
	if err != nil {
		return "", errors.Wrapf(err, "cannot fingerprint %s", path)
	}
	return fp, nil
}
