package scanner

import (
	"io"
	"os"

	"datasetprep/logging"

	"github.com/schollz/progressbar/v3"
)

// ProgressTracker reports pass progress on a bar and every N processed images
type ProgressTracker struct {
	bar        *progressbar.ProgressBar
	printEvery int
	verbose    bool
	processed  int
}

// NewProgressTracker sets up a bar over totalFiles files
func NewProgressTracker(totalFiles int, description string, printEvery int, verbose bool) *ProgressTracker {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	bar := progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressTracker{bar: bar, printEvery: printEvery, verbose: verbose}
}

// Step advances the bar by one visited file
func (p *ProgressTracker) Step() {
	_ = p.bar.Add(1)
}

// Processed counts one written image and logs every printEvery images
func (p *ProgressTracker) Processed() {
	p.processed++
	if p.verbose && p.printEvery > 0 && p.processed%p.printEvery == 0 {
		logging.LogInfo("%d images processed", p.processed)
	}
}

// Stop ends the progress display
func (p *ProgressTracker) Stop() {
	_ = p.bar.Finish()
}
