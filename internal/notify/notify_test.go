package notify

import (
	"context"
	"errors"
	"testing"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

type fakePlatform struct {
	supported bool
	grant     models.Permission
	grantErr  error
	prompts   int
	titles    []string
	bodies    []string
	showErr   error
}

func (f *fakePlatform) Supported() bool { return f.supported }

func (f *fakePlatform) RequestPermission(ctx context.Context) (models.Permission, error) {
	f.prompts++
	return f.grant, f.grantErr
}

func (f *fakePlatform) Show(title, body string) error {
	if f.showErr != nil {
		return f.showErr
	}
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
	return nil
}

type fakePrefStore struct {
	pref  models.NotificationPreference
	saves int
	err   error
}

func (f *fakePrefStore) NotificationPreference() (models.NotificationPreference, error) {
	return f.pref, f.err
}

func (f *fakePrefStore) SaveNotificationPreference(pref models.NotificationPreference) error {
	f.saves++
	f.pref = pref
	return nil
}

func TestGate(t *testing.T) {
	ctx := context.Background()

	t.Run("enable prompts for an undecided grant", func(t *testing.T) {
		platform := &fakePlatform{supported: true, grant: models.PermissionGranted}
		store := &fakePrefStore{}

		gate, err := NewGate(platform, store, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ok, err := gate.RequestEnable(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !ok {
			t.Error("expected notifications to be deliverable")
		}
		if platform.prompts != 1 {
			t.Errorf("expected one permission prompt, got %d", platform.prompts)
		}
		if store.saves != 1 {
			t.Errorf("expected preference to be persisted once, got %d saves", store.saves)
		}
		if !store.pref.Enabled || store.pref.Permission != models.PermissionGranted {
			t.Errorf("unexpected persisted preference: %+v", store.pref)
		}
	})

	t.Run("enable sends a confirmation notification", func(t *testing.T) {
		platform := &fakePlatform{supported: true, grant: models.PermissionGranted}
		gate, _ := NewGate(platform, &fakePrefStore{}, nil)

		if _, err := gate.RequestEnable(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(platform.bodies) != 1 || platform.bodies[0] != "Notifications are now enabled!" {
			t.Errorf("unexpected confirmation: %v", platform.bodies)
		}
	})

	t.Run("granted permission is not re-prompted", func(t *testing.T) {
		platform := &fakePlatform{supported: true}
		store := &fakePrefStore{pref: models.NotificationPreference{
			Permission: models.PermissionGranted,
		}}

		gate, _ := NewGate(platform, store, nil)
		if _, err := gate.RequestEnable(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if platform.prompts != 0 {
			t.Errorf("expected no prompt, got %d", platform.prompts)
		}
	})

	t.Run("denied grant leaves notifications off", func(t *testing.T) {
		platform := &fakePlatform{supported: true, grant: models.PermissionDenied}
		store := &fakePrefStore{}

		gate, _ := NewGate(platform, store, nil)
		ok, err := gate.RequestEnable(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if ok {
			t.Error("expected notifications to stay off")
		}
		if store.pref.Enabled {
			t.Error("expected enabled to remain false after denial")
		}
		if len(platform.bodies) != 0 {
			t.Errorf("expected no confirmation, got %v", platform.bodies)
		}
	})

	t.Run("unsupported platform is rejected", func(t *testing.T) {
		gate, _ := NewGate(&fakePlatform{supported: false}, &fakePrefStore{}, nil)

		ok, err := gate.RequestEnable(ctx)
		if !errors.Is(err, shared.ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
		if ok {
			t.Error("expected false for an unsupported platform")
		}
	})

	t.Run("disable keeps the platform grant", func(t *testing.T) {
		store := &fakePrefStore{pref: models.NotificationPreference{
			Enabled:    true,
			Permission: models.PermissionGranted,
		}}

		gate, _ := NewGate(&fakePlatform{supported: true}, store, nil)
		if err := gate.Disable(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.pref.Enabled {
			t.Error("expected enabled to be cleared")
		}
		if store.pref.Permission != models.PermissionGranted {
			t.Errorf("expected grant to persist, got %s", store.pref.Permission)
		}
	})

	t.Run("notify is a no-op unless enabled and granted", func(t *testing.T) {
		cases := []struct {
			name string
			pref models.NotificationPreference
			want int
		}{
			{"enabled and granted", models.NotificationPreference{Enabled: true, Permission: models.PermissionGranted}, 1},
			{"enabled but denied", models.NotificationPreference{Enabled: true, Permission: models.PermissionDenied}, 0},
			{"granted but disabled", models.NotificationPreference{Permission: models.PermissionGranted}, 0},
			{"neither", models.NotificationPreference{}, 0},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				platform := &fakePlatform{supported: true}
				gate, _ := NewGate(platform, &fakePrefStore{pref: tc.pref}, nil)

				if err := gate.Notify("Title", "Body"); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if len(platform.titles) != tc.want {
					t.Errorf("expected %d deliveries, got %d", tc.want, len(platform.titles))
				}
			})
		}
	})

	t.Run("preference load failure is surfaced", func(t *testing.T) {
		store := &fakePrefStore{err: errors.New("db closed")}
		if _, err := NewGate(&fakePlatform{supported: true}, store, nil); err == nil {
			t.Error("expected error from NewGate")
		}
	})
}
