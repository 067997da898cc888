// Package repository provides persistence implementations for the
// marketplace services backed by a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
)

// PostgresAllowListRepository implements the identity allow-list lookup
// against a PostgreSQL database. The underlying records are seeded
// out-of-band and are never written by the application.
type PostgresAllowListRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAllowListRepository creates a new PostgresAllowListRepository
// with the given database connection.
func NewPostgresAllowListRepository(db *sql.DB) *PostgresAllowListRepository {
	return &PostgresAllowListRepository{DB: db}
}

// Exists checks whether the given id number is present in the allow-list.
// It returns true if the id number exists, false otherwise.
// If an error occurs during the query, it is returned.
func (s *PostgresAllowListRepository) Exists(ctx context.Context, idNumber string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM identity_numbers WHERE id_number = $1)`,
		idNumber,
	).Scan(&exists)
	return exists, err
}
