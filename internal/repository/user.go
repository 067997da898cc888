package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/guillsango/marketplace/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation, used to detect duplicate emails at insert time.
const uniqueViolation = "23505"

// PostgresUserRepository implements user account persistence against a
// PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// Create persists a new user account. Email uniqueness is enforced by
// the store's unique index; a violation is reported as
// models.ErrDuplicateEmail rather than a raw database error.
func (s *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, id_number, product_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.PasswordHash, user.IDNumber, pq.Array(user.ProductIDs), user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByID retrieves a user account by its identifier.
// Returns models.ErrAccountNotFound if no account matches.
func (s *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, email, password_hash, id_number, product_ids, created_at
		  FROM users WHERE id = $1
	`, id)
}

// FindByEmail retrieves a user account by its email.
// Returns models.ErrAccountNotFound if no account matches.
func (s *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, email, password_hash, id_number, product_ids, created_at
		  FROM users WHERE email = $1
	`, email)
}

// FindByIDNumber retrieves a user account by the identity number it was
// registered with. Returns models.ErrAccountNotFound if no account matches.
// If several accounts share an id number, the earliest registration wins
// so the lookup stays deterministic.
func (s *PostgresUserRepository) FindByIDNumber(ctx context.Context, idNumber string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, email, password_hash, id_number, product_ids, created_at
		  FROM users WHERE id_number = $1
		 ORDER BY created_at ASC
		 LIMIT 1
	`, idNumber)
}

func (s *PostgresUserRepository) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	user := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.IDNumber,
		pq.Array(&user.ProductIDs),
		&user.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// AppendProduct appends a product id to the user's owned-products list.
// Returns models.ErrAccountNotFound if the account does not resolve.
func (s *PostgresUserRepository) AppendProduct(ctx context.Context, userID, productID string) error {
	return appendProduct(ctx, s.DB, userID, productID)
}

// execer is the subset of *sql.DB and *sql.Tx needed for writes, so the
// append can also run inside the product-add transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendProduct(ctx context.Context, db execer, userID, productID string) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET product_ids = array_append(product_ids, $2) WHERE id = $1
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("append product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append product: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

// RebuildProductList recomputes the cached owned-products list from the
// authoritative owner field on products, ordered by listing time. The
// cached list can drift if a past partial write was abandoned; this
// restores the invariant.
func (s *PostgresUserRepository) RebuildProductList(ctx context.Context, userID string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE users SET product_ids = COALESCE(
			(SELECT array_agg(p.id ORDER BY p.created_at)
			   FROM products p WHERE p.owner_id = users.id),
			'{}'
		) WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("rebuild product list: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rebuild product list: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}
