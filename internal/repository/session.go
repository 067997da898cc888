package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guillsango/marketplace/internal/models"
)

// PostgresSessionRepository implements session persistence against a
// PostgreSQL database, so sessions survive restarts and are shared
// across processes.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository with
// the given database connection.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// Create persists a new session.
func (s *PostgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, session.ID, session.UserID, session.ExpiresAt, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByID retrieves the session bound to the given marker. Expired or
// unknown markers yield (nil, nil); the caller decides how to report
// the missing session.
func (s *PostgresSessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at, created_at
		  FROM sessions
		 WHERE id = $1 AND expires_at > now()
	`, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

// DeleteByID removes the session bound to the given marker. Deleting an
// unknown marker is not an error.
func (s *PostgresSessionRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
