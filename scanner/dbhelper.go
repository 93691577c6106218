package scanner

import (
	"datasetprep/logging"
	"datasetprep/types"
)

// RecordOutcome logs an outcome and hands it to the recorder, if any.
// Rejections are already reported by the pass that made them, so they only
// reach the debug log here. Recorder failures are logged and never stop a pass.
func RecordOutcome(recorder types.Recorder, outcome types.Outcome) {
	switch outcome.Status {
	case types.StatusRejected:
		logging.DebugLog("%s rejected %s: %s", outcome.Stage, outcome.Path, outcome.Detail)
	case types.StatusError:
		logging.LogImageProcessed(string(outcome.Stage), outcome.Path, false, outcome.Detail)
	default:
		logging.LogImageProcessed(string(outcome.Stage), outcome.Path, true, "")
	}

	if recorder == nil {
		return
	}
	if err := recorder.Record(outcome); err != nil {
		logging.LogError("Cannot record outcome for %s: %v", outcome.Path, err)
	}
}
