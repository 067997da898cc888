package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guillsango/marketplace/internal/models"
)

// PostgresProductRepository implements product persistence against a
// PostgreSQL database.
type PostgresProductRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository with
// the given database connection.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// CreateWithOwner persists a new product and appends its id to the
// owner's product list in a single transaction, so a failure in either
// step cannot leave an orphaned product or a dangling back-reference.
// Returns models.ErrAccountNotFound if the owner does not resolve.
func (s *PostgresProductRepository) CreateWithOwner(ctx context.Context, product *models.Product) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, name, price, description, status, category, owner_id, image_data, image_content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, product.ID, product.Name, product.Price, product.Description,
		product.Status, product.Category, product.OwnerID,
		product.Image.Data, product.Image.ContentType, product.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	if err := appendProduct(ctx, tx, product.OwnerID, product.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// FindByID retrieves a product by its identifier together with the
// owner's email for display. Returns models.ErrProductNotFound if no
// product matches.
func (s *PostgresProductRepository) FindByID(ctx context.Context, id string) (*models.Product, string, error) {
	product := &models.Product{}
	var ownerEmail string
	err := s.DB.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.price, p.description, p.status, p.category,
		       p.owner_id, p.image_data, p.image_content_type, p.created_at,
		       u.email
		  FROM products p
		  JOIN users u ON u.id = p.owner_id
		 WHERE p.id = $1
	`, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.Status,
		&product.Category,
		&product.OwnerID,
		&product.Image.Data,
		&product.Image.ContentType,
		&product.CreatedAt,
		&ownerEmail,
	)
	if err == sql.ErrNoRows {
		return nil, "", models.ErrProductNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("find product: %w", err)
	}
	return product, ownerEmail, nil
}

// FindByOwner retrieves all products owned by the given user, ordered
// by listing time. A user without products yields an empty slice.
func (s *PostgresProductRepository) FindByOwner(ctx context.Context, ownerID string) ([]models.Product, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, price, description, status, category, owner_id, image_data, image_content_type, created_at
		  FROM products
		 WHERE owner_id = $1
		 ORDER BY created_at ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("find products by owner: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Price,
			&p.Description,
			&p.Status,
			&p.Category,
			&p.OwnerID,
			&p.Image.Data,
			&p.Image.ContentType,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find products by owner: %w", err)
	}
	return products, nil
}
