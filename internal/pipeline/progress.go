package pipeline

// Stage names the session lifecycle stages reported via ProgressReporter
// (spec.md §4.9).
type Stage string

const (
	StageOpeningVideo      Stage = "Opening video"
	StageSamplingFrames    Stage = "Sampling frames"
	StageScoringFrames     Stage = "Scoring frames"
	StageSelectingTop      Stage = "Selecting top candidates"
	StageFetchingNeighbors Stage = "Fetching neighbors"
	StageWritingManifest   Stage = "Writing manifest"
	StageCompleted         Stage = "Completed"
	StageConfigWarning     Stage = "Configuration warning"
)

// ProgressReporter is the narrow capability the session reports progress
// through (spec.md §9) — a CLI bar, a GUI model, or a test spy.
type ProgressReporter interface {
	// Report is called at each progress event. maximum <= 0 signals
	// indeterminate progress (spec.md §4.9). detail carries optional
	// context: a warning message, or the manifest path on StageCompleted.
	Report(stage Stage, processed, maximum int, detail string)
}

// NopReporter discards every progress event. It is the default when a
// caller does not supply one.
type NopReporter struct{}

func (NopReporter) Report(Stage, int, int, string) {}
