package scanner

import (
	"fmt"
	"os"
	"time"

	"datasetprep/config"
	"datasetprep/imageprocessor"
	"datasetprep/logging"
	"datasetprep/types"
)

// FindDuplicates fingerprints every image under options.Root once and
// returns, in traversal order, the paths whose fingerprint was already seen.
// The first path to produce a fingerprint is always the one kept.
func FindDuplicates(options config.DedupeOptions, loader imageprocessor.ImageLoader, recorder types.Recorder) (*DedupeResult, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}
	if loader == nil {
		loader = imageprocessor.NewJPEGLoader()
	}

	paths, err := ListImageFiles(options.Root, options.Pattern)
	if err != nil {
		logging.LogWarning("No images listed: %v", err)
	}

	hashes := make(map[types.Fingerprint]string, len(paths))
	result := &DedupeResult{Kept: make(map[string]string)}

	startTime := time.Now()
	for _, path := range paths {
		result.Scanned++
		outcome := types.Outcome{Stage: types.StageDedupe, Path: path}

		fp, err := imageprocessor.FingerprintFile(loader, path, options.HashSize, options.HashKind)
		if err != nil {
			result.Failed++
			outcome.Status = types.StatusError
			outcome.Detail = err.Error()
			RecordOutcome(recorder, outcome)
			continue
		}
		outcome.Fingerprint = fp

		if first, seen := hashes[fp]; seen {
			if options.Verbose {
				logging.LogInfo("%s is a duplicate of %s", ShortenPath(path), ShortenPath(first))
			}
			result.Duplicates = append(result.Duplicates, path)
			result.Kept[path] = first
			outcome.Status = types.StatusDuplicate
			outcome.DuplicateOf = first
		} else {
			hashes[fp] = path
			outcome.Status = types.StatusUnique
		}
		RecordOutcome(recorder, outcome)
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Found %d duplicates in %.2fs\n", len(result.Duplicates), elapsed.Seconds())
	return result, nil
}

// DeleteFiles removes the given .jpg files and returns how many were removed.
// Paths without a .jpg suffix are reported and left in place.
func DeleteFiles(files []string, recorder types.Recorder) int {
	if len(files) == 0 {
		return 0
	}

	deleted := 0
	for _, path := range files {
		outcome := types.Outcome{Stage: types.StageDedupe, Path: path, Status: types.StatusError}
		if !IsJPGPath(path) {
			fmt.Printf("%s is not an image!\n", path)
			outcome.Status = types.StatusRejected
			outcome.Detail = "not a .jpg file"
			RecordOutcome(recorder, outcome)
			continue
		}
		if err := os.Remove(path); err != nil {
			outcome.Detail = err.Error()
			RecordOutcome(recorder, outcome)
			continue
		}
		deleted++
		outcome.Status = types.StatusDeleted
		RecordOutcome(recorder, outcome)
	}

	fmt.Printf("Deleted %d files\n", deleted)
	return deleted
}
