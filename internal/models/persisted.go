package models

import (
	"fmt"
	"strings"
	"time"

	"lunarview/internal/shared"
)

// Session is the persisted bearer token from the most recent login or register.
type Session struct {
	id        string
	token     string
	email     string
	userID    string
	createdAt time.Time
	updatedAt time.Time
}

// NewSession creates a session for the given token and account identity.
func NewSession(token, email, userID string) *Session {
	now := time.Now()
	return &Session{
		token:     token,
		email:     email,
		userID:    userID,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) Token() string        { return s.token }
func (s *Session) Email() string        { return s.email }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

func (s *Session) SetID(id string)          { s.id = id }
func (s *Session) SetUpdatedAt(t time.Time) { s.updatedAt = t }
func (s *Session) SetCreatedAt(t time.Time) { s.createdAt = t }

// Validate checks that the session carries a token and account identity.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.token) == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(s.email) == "" {
		return fmt.Errorf("%w: empty email", shared.ErrInvalidInput)
	}
	return nil
}

// CachedFavorite is the local, soft-deletable mirror of one server favorite.
// The server owns identity; the cache only reconciles against server responses.
type CachedFavorite struct {
	id        string
	sequence  int
	remoteID  string
	entry     FavoriteEntry
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedFavorite wraps a server favorite for local persistence.
func NewCachedFavorite(sequence int, entry FavoriteEntry) *CachedFavorite {
	now := time.Now()
	return &CachedFavorite{
		sequence:  sequence,
		remoteID:  entry.ID,
		entry:     entry,
		createdAt: now,
		updatedAt: now,
	}
}

func (f *CachedFavorite) ID() string            { return f.id }
func (f *CachedFavorite) Sequence() int         { return f.sequence }
func (f *CachedFavorite) RemoteID() string      { return f.remoteID }
func (f *CachedFavorite) Entry() FavoriteEntry  { return f.entry }
func (f *CachedFavorite) CreatedAt() time.Time  { return f.createdAt }
func (f *CachedFavorite) UpdatedAt() time.Time  { return f.updatedAt }
func (f *CachedFavorite) DeletedAt() *time.Time { return f.deletedAt }

func (f *CachedFavorite) SetID(id string)           { f.id = id }
func (f *CachedFavorite) SetUpdatedAt(t time.Time)  { f.updatedAt = t }
func (f *CachedFavorite) SetDeletedAt(t *time.Time) { f.deletedAt = t }

// Validate checks entry identity and coordinate ranges.
func (f *CachedFavorite) Validate() error {
	if strings.TrimSpace(f.remoteID) == "" {
		return fmt.Errorf("%w: empty remote id", shared.ErrInvalidInput)
	}
	if strings.TrimSpace(f.entry.LocationName) == "" {
		return fmt.Errorf("%w: empty location name", shared.ErrInvalidInput)
	}
	return f.entry.Coordinate().Validate()
}
