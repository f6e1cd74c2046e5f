package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lunarview/internal/location"
	"lunarview/internal/models"
	"lunarview/internal/shared"
	tu "lunarview/internal/testing"
)

type stubResolver struct {
	loc *models.ResolvedLocation
	err error
}

func (s *stubResolver) Resolve(ctx context.Context, req location.Request) (*models.ResolvedLocation, error) {
	return s.loc, s.err
}

type stubAPI struct {
	snapshots []*models.AstronomySnapshot
	errs      []error
	calls     int
}

func (s *stubAPI) Astronomy(ctx context.Context, coord models.Coordinate) (*models.AstronomySnapshot, error) {
	i := s.calls
	s.calls++
	var snapshot *models.AstronomySnapshot
	var err error
	if i < len(s.snapshots) {
		snapshot = s.snapshots[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return snapshot, err
}

func amsterdamLocation() *models.ResolvedLocation {
	return &models.ResolvedLocation{
		Coordinate: models.Coordinate{Latitude: 52.3676, Longitude: 4.9041},
		Label:      "Amsterdam",
	}
}

func snapshotFor(date string) *models.AstronomySnapshot {
	return &models.AstronomySnapshot{
		Date:      date,
		Sunrise:   "06:45",
		Sunset:    "20:32",
		SunStatus: "Above horizon",
	}
}

func TestOrchestrator(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path reaches Ready and notifies", func(t *testing.T) {
		notifier := &tu.MockNotifier{}
		orc := NewOrchestrator(
			&stubResolver{loc: amsterdamLocation()},
			&stubAPI{snapshots: []*models.AstronomySnapshot{snapshotFor("2026-08-30")}},
			notifier,
			nil,
		)

		run := orc.Begin(location.Request{Mode: location.ModeDevice})
		if orc.State() != StateResolving {
			t.Errorf("expected StateResolving, got %v", orc.State())
		}

		out := run.Do(ctx, nil)
		if out.Err != nil {
			t.Fatalf("expected no error, got %v", out.Err)
		}

		if !orc.Apply(out) {
			t.Fatal("expected outcome to be applied")
		}
		if orc.State() != StateReady {
			t.Errorf("expected StateReady, got %v", orc.State())
		}
		if orc.Snapshot() == nil || orc.Snapshot().Date != "2026-08-30" {
			t.Error("expected snapshot to be published")
		}
		if len(notifier.Bodies) != 1 {
			t.Fatalf("expected one notification, got %d", len(notifier.Bodies))
		}
		for _, want := range []string{"Above horizon", "06:45", "20:32"} {
			if !strings.Contains(notifier.Bodies[0], want) {
				t.Errorf("expected notification to mention %q, got %q", want, notifier.Bodies[0])
			}
		}
	})

	t.Run("resolver failure lands in LocationFailed", func(t *testing.T) {
		orc := NewOrchestrator(
			&stubResolver{err: fmt.Errorf("%w: gps refused", shared.ErrPermissionDenied)},
			&stubAPI{},
			nil,
			nil,
		)

		run := orc.Begin(location.Request{Mode: location.ModeDevice})
		out := run.Do(ctx, nil)

		if !errors.Is(out.Err, shared.ErrPermissionDenied) {
			t.Fatalf("expected ErrPermissionDenied, got %v", out.Err)
		}
		orc.Apply(out)
		if orc.State() != StateLocationFailed {
			t.Errorf("expected StateLocationFailed, got %v", orc.State())
		}
		if orc.Snapshot() != nil {
			t.Error("expected no snapshot")
		}
	})

	t.Run("fetch failure keeps the previous snapshot visible", func(t *testing.T) {
		api := &stubAPI{
			snapshots: []*models.AstronomySnapshot{snapshotFor("2026-08-29"), nil},
			errs:      []error{nil, fmt.Errorf("%w: token expired", shared.ErrUnauthorized)},
		}
		orc := NewOrchestrator(&stubResolver{loc: amsterdamLocation()}, api, nil, nil)

		first := orc.Begin(location.Request{Mode: location.ModeDevice})
		orc.Apply(first.Do(ctx, nil))
		if orc.State() != StateReady {
			t.Fatalf("expected StateReady after first run, got %v", orc.State())
		}

		second := orc.Begin(location.Request{Mode: location.ModeDevice})
		out := second.Do(ctx, nil)
		if !errors.Is(out.Err, shared.ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", out.Err)
		}

		orc.Apply(out)
		if orc.State() != StateDataFailed {
			t.Errorf("expected StateDataFailed, got %v", orc.State())
		}
		if orc.Snapshot() == nil || orc.Snapshot().Date != "2026-08-29" {
			t.Error("expected stale snapshot to remain visible")
		}
	})

	t.Run("stale snapshot keeps its own location after a fetch failure", func(t *testing.T) {
		api := &stubAPI{
			snapshots: []*models.AstronomySnapshot{snapshotFor("2026-08-29"), nil},
			errs:      []error{nil, fmt.Errorf("%w: backend down", shared.ErrService)},
		}
		orc := NewOrchestrator(&stubResolver{}, api, nil, nil)

		first := orc.BeginAt(*amsterdamLocation())
		orc.Apply(first.Do(ctx, nil))

		reykjavik := models.ResolvedLocation{
			Coordinate: models.Coordinate{Latitude: 64.1466, Longitude: -21.9426},
			Label:      "Reykjavik",
		}
		second := orc.BeginAt(reykjavik)
		orc.Apply(second.Do(ctx, nil))

		if orc.State() != StateDataFailed {
			t.Fatalf("expected StateDataFailed, got %v", orc.State())
		}
		if orc.Location() == nil || orc.Location().Label != "Reykjavik" {
			t.Error("expected Location to point at the failed request")
		}
		if orc.SnapshotLocation() == nil || orc.SnapshotLocation().Label != "Amsterdam" {
			t.Error("expected the stale snapshot to keep the location it was fetched for")
		}
	})

	t.Run("newest request wins regardless of completion order", func(t *testing.T) {
		api := &stubAPI{
			snapshots: []*models.AstronomySnapshot{snapshotFor("first"), snapshotFor("second")},
		}
		orc := NewOrchestrator(&stubResolver{loc: amsterdamLocation()}, api, nil, nil)

		run1 := orc.Begin(location.Request{Mode: location.ModeDevice})
		run2 := orc.Begin(location.Request{Mode: location.ModeDevice})

		out1 := run1.Do(ctx, nil)
		out2 := run2.Do(ctx, nil)

		// Second request finishes first; the late first outcome must be dropped.
		if !orc.Apply(out2) {
			t.Fatal("expected newest outcome to apply")
		}
		if orc.Apply(out1) {
			t.Error("expected superseded outcome to be dropped")
		}

		if orc.Snapshot().Date != "second" {
			t.Errorf("expected newest snapshot to win, got %s", orc.Snapshot().Date)
		}
	})

	t.Run("manual selection skips resolution", func(t *testing.T) {
		api := &stubAPI{snapshots: []*models.AstronomySnapshot{snapshotFor("manual")}}
		orc := NewOrchestrator(&stubResolver{err: errors.New("should not be called")}, api, nil, nil)

		run := orc.BeginAt(*amsterdamLocation())
		if orc.State() != StateFetching {
			t.Errorf("expected StateFetching, got %v", orc.State())
		}

		out := run.Do(ctx, nil)
		if out.Err != nil {
			t.Fatalf("expected no error, got %v", out.Err)
		}
		orc.Apply(out)

		if orc.Location() == nil || orc.Location().Label != "Amsterdam" {
			t.Error("expected manual location to be published")
		}
	})

	t.Run("notification failure never reverts Ready", func(t *testing.T) {
		notifier := &tu.MockNotifier{Err: errors.New("notify-send missing")}
		orc := NewOrchestrator(
			&stubResolver{loc: amsterdamLocation()},
			&stubAPI{snapshots: []*models.AstronomySnapshot{snapshotFor("2026-08-30")}},
			notifier,
			nil,
		)

		run := orc.Begin(location.Request{Mode: location.ModeDevice})
		orc.Apply(run.Do(ctx, nil))

		if orc.State() != StateReady {
			t.Errorf("expected StateReady despite notification failure, got %v", orc.State())
		}
	})

	t.Run("progress updates never block without a consumer", func(t *testing.T) {
		orc := NewOrchestrator(
			&stubResolver{loc: amsterdamLocation()},
			&stubAPI{snapshots: []*models.AstronomySnapshot{snapshotFor("2026-08-30")}},
			nil,
			nil,
		)

		run := orc.Begin(location.Request{Mode: location.ModeDevice})
		progress := make(chan ProgressUpdate) // unbuffered, nobody reading
		out := run.Do(ctx, progress)
		if out.Err != nil {
			t.Fatalf("expected run to finish, got %v", out.Err)
		}
	})
}
