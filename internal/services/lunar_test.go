package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

func TestLunarService(t *testing.T) {
	amsterdam := models.Coordinate{Latitude: 52.3676, Longitude: 4.9041}

	t.Run("Astronomy", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/astronomy" {
					t.Errorf("unexpected path: %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("lat"); got != "52.3676" {
					t.Errorf("unexpected lat: %s", got)
				}
				if got := r.URL.Query().Get("long"); got != "4.9041" {
					t.Errorf("unexpected long: %s", got)
				}
				if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
					t.Errorf("unexpected auth header: %s", auth)
				}

				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"location": {"latitude": 52.3676, "longitude": 4.9041},
					"date": "2026-08-30",
					"sunrise": "06:45",
					"sunset": "20:32",
					"sun_status": "Above horizon",
					"moon_status": "Below horizon",
					"moon_distance": 384400
				}`))
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			if err := svc.Authenticate(context.Background(), "test-token"); err != nil {
				t.Fatalf("authenticate failed: %v", err)
			}

			snapshot, err := svc.Astronomy(context.Background(), amsterdam)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if snapshot.Sunrise != "06:45" {
				t.Errorf("unexpected sunrise: %s", snapshot.Sunrise)
			}
			if snapshot.Location.Latitude != 52.3676 {
				t.Errorf("unexpected latitude: %v", snapshot.Location.Latitude)
			}
			if snapshot.FetchedAt.IsZero() {
				t.Error("expected FetchedAt to be set")
			}
		})

		t.Run("rejects invalid coordinate before any request", func(t *testing.T) {
			called := false
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			_, err := svc.Astronomy(context.Background(), models.Coordinate{Latitude: 91, Longitude: 0})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if called {
				t.Error("expected no HTTP request for invalid coordinate")
			}
		})

		t.Run("unauthorized carries the server detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail": "Could not validate credentials"}`))
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			_, err := svc.Astronomy(context.Background(), amsterdam)
			if !errors.Is(err, shared.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
			if want := "Could not validate credentials"; !contains(err.Error(), want) {
				t.Errorf("expected error to contain %q, got %q", want, err.Error())
			}
		})

		t.Run("server error maps to ErrService", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(`{"detail": "astronomy provider unavailable"}`))
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			_, err := svc.Astronomy(context.Background(), amsterdam)
			if !errors.Is(err, shared.ErrService) {
				t.Fatalf("expected ErrService, got %v", err)
			}
			if want := "astronomy provider unavailable"; !contains(err.Error(), want) {
				t.Errorf("expected error to contain %q, got %q", want, err.Error())
			}
		})

		t.Run("transport failure maps to ErrNetwork", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			server.Close()

			svc := NewLunarService(server.URL, nil, time.Second)
			_, err := svc.Astronomy(context.Background(), amsterdam)
			if !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
				t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"access_token": "abc123",
				"token_type": "bearer",
				"user": {"id": "u1", "email": "user@example.com", "name": "User"}
			}`))
		}))
		defer server.Close()

		svc := NewLunarService(server.URL, nil, 5*time.Second)
		token, err := svc.Login(context.Background(), "user@example.com", "secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if token.AccessToken != "abc123" {
			t.Errorf("unexpected token: %s", token.AccessToken)
		}
		if token.User.Email != "user@example.com" {
			t.Errorf("unexpected user email: %s", token.User.Email)
		}
	})

	t.Run("Favorites", func(t *testing.T) {
		t.Run("create posts name and coordinates", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/favorites" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{
					"id": "f1",
					"location_name": "Amsterdam",
					"latitude": 52.3676,
					"longitude": 4.9041
				}`))
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			entry, err := svc.CreateFavorite(context.Background(), "Amsterdam", amsterdam)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if entry.ID != "f1" || entry.LocationName != "Amsterdam" {
				t.Errorf("unexpected entry: %+v", entry)
			}
		})

		t.Run("delete targets the entry id", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/api/favorites/f1" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			svc := NewLunarService(server.URL, nil, 5*time.Second)
			if err := svc.DeleteFavorite(context.Background(), "f1"); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})
}

func contains(haystack, needle string) bool {
	return strings.Contains(haystack, needle)
}
