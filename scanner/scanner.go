package scanner

import (
	"fmt"
	"time"

	"datasetprep/config"
	"datasetprep/imageprocessor"
	"datasetprep/logging"
	"datasetprep/types"

	"github.com/pkg/errors"
)

// ProcessAll normalizes every image under options.InDir and writes the
// results below options.OutDir. Per-file failures are recorded and skipped;
// only invalid options abort the pass.
func ProcessAll(options config.NormalizeOptions, loader imageprocessor.ImageLoader, recorder types.Recorder) (*NormalizeResult, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		loader = imageprocessor.NewJPEGLoader()
	}

	paths, err := ListImageFiles(options.InDir, options.Pattern)
	if err != nil {
		logging.LogWarning("No images listed: %v", err)
	}

	logging.DebugLog("Normalizing %d files from %s into %s", len(paths), options.InDir, options.OutDir)

	result := &NormalizeResult{Found: len(paths)}
	outputs := newOutputTracker(options.Collision)
	progress := NewProgressTracker(len(paths), "Normalizing", options.PrintEvery, options.Verbose)

	startTime := time.Now()
	for _, path := range paths {
		outcome := processImage(path, options, loader, outputs)
		switch outcome.Status {
		case types.StatusProcessed:
			result.Processed++
			result.Outputs = append(result.Outputs, outcome.OutputPath)
			progress.Processed()
		case types.StatusDiscarded:
			result.Discarded++
		default:
			result.Failed++
		}
		RecordOutcome(recorder, outcome)
		progress.Step()
	}
	progress.Stop()

	elapsed := time.Since(startTime)
	fmt.Printf("Processed %d images in %.2fs\n", result.Processed, elapsed.Seconds())
	if result.Failed > 0 {
		fmt.Printf("Encountered %d errors during normalization.\n", result.Failed)
	}
	return result, nil
}

// processImage loads, normalizes and writes one file
func processImage(path string, options config.NormalizeOptions, loader imageprocessor.ImageLoader, outputs *outputTracker) types.Outcome {
	outcome := types.Outcome{Stage: types.StageNormalize, Path: path, Status: types.StatusError}

	if !loader.CanLoad(path) {
		outcome.Detail = "unsupported or unreadable file"
		return outcome
	}
	img, err := loader.LoadImage(path)
	if err != nil {
		outcome.Detail = err.Error()
		return outcome
	}
	defer img.Close()
	outcome.Width, outcome.Height = img.Cols(), img.Rows()

	normalized, ok, err := imageprocessor.Normalize(img, options)
	if err != nil {
		outcome.Detail = errors.Wrapf(err, "cannot normalize %s", path).Error()
		return outcome
	}
	if !ok {
		outcome.Status = types.StatusDiscarded
		outcome.Detail = fmt.Sprintf("%dx%d is smaller than %dx%d", outcome.Width, outcome.Height, options.Width, options.Height)
		logging.DebugLog("Discarding %s: %s", path, outcome.Detail)
		return outcome
	}
	defer normalized.Close()

	out, err := OutputPath(path, options.InDir, options.OutDir, options.GroupByLastFolder)
	if err != nil {
		outcome.Detail = err.Error()
		return outcome
	}
	out, err = outputs.claim(path, out)
	if err != nil {
		outcome.Detail = err.Error()
		return outcome
	}

	if err := imageprocessor.SaveJPEGAll(out, normalized, options.Quality); err != nil {
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Status = types.StatusProcessed
	outcome.OutputPath = out
	return outcome
}
