// Package driver orchestrates expansion runs over real files: tokenizing
// input, invoking registered entries, caching results, and fanning out over
// directories. Each invocation stays fully isolated; the driver only
// parallelizes across independent files.
package driver

// Stage identifies a step of the per-file pipeline.
type Stage uint8

const (
	StageLoad Stage = iota
	StageTokenize
	StageExpand
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageTokenize:
		return "tokenize"
	case StageExpand:
		return "expand"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Event reports batch progress. Index counts completed pipeline steps,
// Total is the overall step count for the run.
type Event struct {
	Stage  Stage
	Path   string
	Index  int
	Total  int
	Cached bool
	Failed bool // meaningful at StageDone
}

// Observer receives events from a batch run. Calls may come from multiple
// goroutines; implementations must be safe for concurrent use.
type Observer func(Event)

func (o Observer) emit(ev Event) {
	if o != nil {
		o(ev)
	}
}
