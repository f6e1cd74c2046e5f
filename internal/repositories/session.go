package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"lunarview/internal/models"
	"lunarview/internal/shared"
)

// SessionRepository persists the active bearer token. The client keeps at most
// one session; saving a new one replaces any previous row.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save stores a session, replacing any existing one.
func (r *SessionRepository) Save(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if session.ID() == "" {
		session.SetID(shared.GenerateID())
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear previous sessions: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, email, user_id, created_at) VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query, session.ID(), session.Token(), session.Email(), session.UserID(), session.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}

	return nil
}

// Current retrieves the active session, or ErrNotAuthenticated when none exists.
func (r *SessionRepository) Current() (*models.Session, error) {
	query := `
		SELECT id, token, email, user_id, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		id        string
		token     string
		email     string
		userID    string
		createdAt time.Time
	)

	err := r.db.QueryRow(query).Scan(&id, &token, &email, &userID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: no stored session", shared.ErrNotAuthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.NewSession(token, email, userID)
	session.SetID(id)
	session.SetCreatedAt(createdAt)

	return session, nil
}

// Clear removes all stored sessions (logout).
func (r *SessionRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}
