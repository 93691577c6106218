package dataset

import (
	"fmt"
	"time"

	"datasetprep/archive"
	"datasetprep/config"
	"datasetprep/imageprocessor"
	"datasetprep/logging"
	"datasetprep/scanner"
	"datasetprep/types"

	"github.com/pkg/errors"
)

// Archive keys, positional as numpy.savez names them
const (
	ImagesKey = "arr_0"
	LabelsKey = "arr_1"
)

// Result is what ended up in the archive
type Result struct {
	Images   []types.Raster
	Labels   []int64
	Shape    []int
	Rejected int
	Path     string
}

// GenerateDataset packages every labeled image under opts.Root into one
// archive. Files with an unknown label, an unreadable body or a shape that
// differs from the first accepted image are skipped with a warning. Only a
// failure to write the archive is returned.
func GenerateDataset(opts config.PackageOptions, vocab *Vocabulary, loader imageprocessor.ImageLoader, recorder types.Recorder) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if vocab == nil {
		vocab = NewVocabulary(config.Labels)
	}
	if loader == nil {
		loader = imageprocessor.NewJPEGLoader()
	}

	paths, err := scanner.ListImageFiles(opts.Root, opts.Pattern)
	if err != nil {
		logging.LogWarning("No images listed: %v", err)
	}

	result := &Result{Path: opts.ArchivePath}
	startTime := time.Now()

	for _, path := range paths {
		outcome := types.Outcome{Stage: types.StagePackage, Path: path, Status: types.StatusRejected, Label: -1}

		label, name, ok := vocab.Label(path)
		if !ok {
			logging.LogWarning("Invalid label %q for %s", name, path)
			outcome.Detail = fmt.Sprintf("invalid label %q", name)
			result.Rejected++
			scanner.RecordOutcome(recorder, outcome)
			continue
		}
		outcome.Label = label

		raster, err := loadRaster(loader, path)
		if err != nil {
			// logged as a skipped file by RecordOutcome
			outcome.Status = types.StatusError
			outcome.Detail = err.Error()
			result.Rejected++
			scanner.RecordOutcome(recorder, outcome)
			continue
		}
		outcome.Width, outcome.Height = raster.Width, raster.Height

		if len(result.Images) > 0 && !raster.SameShape(result.Images[0]) {
			logging.LogWarning("Shape mismatch: %s has shape %v, expected %v", path, raster.Shape(), result.Shape)
			outcome.Detail = fmt.Sprintf("shape %v, expected %v", raster.Shape(), result.Shape)
			result.Rejected++
			scanner.RecordOutcome(recorder, outcome)
			continue
		}
		if len(result.Images) == 0 {
			result.Shape = raster.Shape()
		}

		result.Images = append(result.Images, raster)
		result.Labels = append(result.Labels, int64(label))
		outcome.Status = types.StatusPackaged
		scanner.RecordOutcome(recorder, outcome)
	}

	images, labels, err := stack(result)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(startTime)
	fmt.Printf("Created a dataset of %d images in %.2fs\n", len(result.Images), elapsed.Seconds())

	err = archive.Save(opts.ArchivePath,
		archive.Entry{Name: ImagesKey, Array: images},
		archive.Entry{Name: LabelsKey, Array: labels},
	)
	if err != nil {
		return nil, errors.Wrap(err, "cannot save dataset")
	}
	fmt.Printf("Saved to %s\n", opts.ArchivePath)
	return result, nil
}

func loadRaster(loader imageprocessor.ImageLoader, path string) (types.Raster, error) {
	if !loader.CanLoad(path) {
		return types.Raster{}, errors.Errorf("cannot load %s", path)
	}
	img, err := loader.LoadImage(path)
	if err != nil {
		return types.Raster{}, err
	}
	defer img.Close()
	return imageprocessor.MatToRaster(img)
}

// stack flattens the accepted rasters into an (N,H,W,C) array and the
// labels into an (N,) array. With no images both arrays have shape (0,).
func stack(result *Result) (*archive.Array, *archive.Array, error) {
	n := len(result.Images)
	if n == 0 {
		images, err := archive.NewUint8Array([]int{0}, nil)
		if err != nil {
			return nil, nil, err
		}
		labels, err := archive.NewInt64Array([]int{0}, nil)
		if err != nil {
			return nil, nil, err
		}
		return images, labels, nil
	}

	size := len(result.Images[0].Pix)
	pix := make([]uint8, 0, n*size)
	for _, r := range result.Images {
		pix = append(pix, r.Pix...)
	}
	shape := append([]int{n}, result.Shape...)
	images, err := archive.NewUint8Array(shape, pix)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot stack images")
	}
	labels, err := archive.NewInt64Array([]int{n}, result.Labels)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot stack labels")
	}
	return images, labels, nil
}
