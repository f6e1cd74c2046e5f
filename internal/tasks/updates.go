package tasks

import "fmt"

// Phase identifies a stage of a synchronization run.
type Phase string

const (
	PhaseResolveLocation Phase = "resolve_location"
	PhaseFetchSnapshot   Phase = "fetch_snapshot"
	PhaseExport          Phase = "export"
)

// ProgressUpdate is sent over a progress channel as a run advances. Sends are
// non-blocking so a slow or absent consumer never stalls the run.
type ProgressUpdate struct {
	Phase   Phase
	Message string
	Current int
	Total   int
	Err     error
}

func NewProgressUpdate(phase Phase, format string, args ...any) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Message: fmt.Sprintf(format, args...)}
}

func NewProgressError(phase Phase, err error) ProgressUpdate {
	return ProgressUpdate{Phase: phase, Err: err, Message: err.Error()}
}

func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}

	select {
	case progress <- update:
	default:
	}
}
