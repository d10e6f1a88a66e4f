package recorder

import "RSIDashboard/internal/model"

// Recorder persists pipeline run history for later analysis.
type Recorder interface {
	RecordRun(run *model.RunSummary) error
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(limit int) ([]model.RunSummary, error)
	Close() error
}
