// package tasks contains the synchronization pipeline and long-running jobs.
package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"lunarview/internal/location"
	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// State describes where the pipeline currently is.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateFetching
	StateReady
	StateLocationFailed
	StateDataFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateLocationFailed:
		return "location failed"
	case StateDataFailed:
		return "data failed"
	default:
		return "unknown"
	}
}

// LocationResolver turns a resolution request into a resolved location.
type LocationResolver interface {
	Resolve(ctx context.Context, req location.Request) (*models.ResolvedLocation, error)
}

// AstronomyAPI fetches a snapshot for a coordinate.
type AstronomyAPI interface {
	Astronomy(ctx context.Context, coord models.Coordinate) (*models.AstronomySnapshot, error)
}

// Notifier delivers a user-visible alert. Delivery is best effort and never
// affects pipeline state.
type Notifier interface {
	Notify(title, body string) error
}

// Outcome is the result of one pipeline run, tagged with the sequence number
// of the request that produced it.
type Outcome struct {
	Seq      uint64
	Location models.ResolvedLocation
	Snapshot *models.AstronomySnapshot
	Err      error
	stage    Phase
}

// LocationFailed reports whether the run died before a location was resolved.
func (o Outcome) LocationFailed() bool {
	return o.Err != nil && o.stage == PhaseResolveLocation
}

// Run is a single in-flight synchronization attempt.
type Run struct {
	seq      uint64
	req      location.Request
	resolved *models.ResolvedLocation
	orc      *Orchestrator
}

// Orchestrator drives the resolve-then-fetch pipeline and holds its published
// state. It is owned by a single event loop: runs execute on background
// goroutines, but Begin and Apply must be called from the owning loop, so no
// lock is taken here.
type Orchestrator struct {
	resolver LocationResolver
	api      AstronomyAPI
	notifier Notifier
	logger   *log.Logger

	seq        uint64
	appliedSeq uint64

	state       State
	location    *models.ResolvedLocation
	snapshot    *models.AstronomySnapshot
	snapshotLoc *models.ResolvedLocation
}

func NewOrchestrator(resolver LocationResolver, api AstronomyAPI, notifier Notifier, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Orchestrator{
		resolver: resolver,
		api:      api,
		notifier: notifier,
		logger:   logger,
		state:    StateIdle,
	}
}

// State returns the current pipeline state.
func (orc *Orchestrator) State() State { return orc.state }

// Location returns the last applied location, or nil.
func (orc *Orchestrator) Location() *models.ResolvedLocation { return orc.location }

// Snapshot returns the last applied snapshot, or nil. A data failure keeps
// the previous snapshot visible, so this can be non-nil in StateDataFailed.
func (orc *Orchestrator) Snapshot() *models.AstronomySnapshot { return orc.snapshot }

// SnapshotLocation returns the location the current snapshot was fetched for.
// After a data failure it stays with the stale snapshot while Location already
// points at the request that failed.
func (orc *Orchestrator) SnapshotLocation() *models.ResolvedLocation { return orc.snapshotLoc }

// Begin starts a new run that resolves req before fetching. Any outcome from
// an earlier run still in flight will be dropped by Apply.
func (orc *Orchestrator) Begin(req location.Request) *Run {
	orc.seq++
	orc.state = StateResolving
	return &Run{seq: orc.seq, req: req, orc: orc}
}

// BeginAt starts a run for an already-resolved location, such as a favorite
// the user selected. The resolve phase is skipped.
func (orc *Orchestrator) BeginAt(loc models.ResolvedLocation) *Run {
	orc.seq++
	orc.state = StateFetching
	return &Run{seq: orc.seq, resolved: &loc, orc: orc}
}

// Do executes the run. Safe to call from a goroutine; the returned Outcome is
// handed back to the owning loop for Apply.
func (r *Run) Do(ctx context.Context, progress chan<- ProgressUpdate) Outcome {
	out := Outcome{Seq: r.seq}

	if r.resolved != nil {
		out.Location = *r.resolved
	} else {
		sendProgress(progress, NewProgressUpdate(PhaseResolveLocation, "resolving %s", r.req.Mode))

		loc, err := r.orc.resolver.Resolve(ctx, r.req)
		if err != nil {
			out.Err = fmt.Errorf("location resolution failed: %w", err)
			out.stage = PhaseResolveLocation
			sendProgress(progress, NewProgressError(PhaseResolveLocation, err))
			return out
		}
		out.Location = *loc
	}

	sendProgress(progress, NewProgressUpdate(PhaseFetchSnapshot, "fetching astronomy for %s", out.Location.DisplayLabel()))

	snapshot, err := r.orc.api.Astronomy(ctx, out.Location.Coordinate)
	if err != nil {
		out.Err = fmt.Errorf("astronomy fetch failed: %w", err)
		out.stage = PhaseFetchSnapshot
		sendProgress(progress, NewProgressError(PhaseFetchSnapshot, err))
		return out
	}

	out.Snapshot = snapshot
	return out
}

// Apply publishes a finished outcome. Outcomes from superseded runs are
// dropped so the newest request always wins, regardless of completion order.
// Returns whether the outcome was applied.
func (orc *Orchestrator) Apply(out Outcome) bool {
	if out.Seq <= orc.appliedSeq {
		orc.logger.Debug("dropping stale outcome", "seq", out.Seq, "applied", orc.appliedSeq)
		return false
	}
	orc.appliedSeq = out.Seq

	if out.Err != nil {
		if out.LocationFailed() {
			orc.state = StateLocationFailed
		} else {
			// The snapshot from the previous successful run stays visible
			// alongside the error.
			orc.state = StateDataFailed
			loc := out.Location
			orc.location = &loc
		}
		orc.logger.Error("sync failed", "state", orc.state, "error", out.Err)
		return true
	}

	loc := out.Location
	orc.location = &loc
	orc.snapshot = out.Snapshot
	orc.snapshotLoc = &loc
	orc.state = StateReady

	if orc.notifier != nil && out.Snapshot != nil {
		body := fmt.Sprintf("%s. Sunrise %s, sunset %s.",
			out.Snapshot.SunStatus, out.Snapshot.Sunrise, out.Snapshot.Sunset)
		if err := orc.notifier.Notify("Sky update for "+out.Location.DisplayLabel(), body); err != nil {
			orc.logger.Warn("notification failed", "error", err)
		}
	}

	return true
}
