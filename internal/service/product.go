package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/guillsango/marketplace/internal/imagecodec"
	"github.com/guillsango/marketplace/internal/models"
)

// ProductRepository defines the product persistence operations required
// by the catalog.
type ProductRepository interface {
	// CreateWithOwner persists the product and appends it to the
	// owner's list atomically.
	CreateWithOwner(ctx context.Context, product *models.Product) error
	// FindByID retrieves a product and its owner's email.
	FindByID(ctx context.Context, id string) (*models.Product, string, error)
}

// AddProductInput carries the fields of an add-product request.
type AddProductInput struct {
	Name             string
	Price            float64
	Description      string
	Status           string
	Category         string
	ImageText        string
	ImageContentType string
}

// ProductService implements the product catalog.
type ProductService struct {
	products ProductRepository
}

// NewProductService constructs a ProductService using the provided
// repository.
func NewProductService(products ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// Add validates the input, decodes the embedded image, and persists the
// product bound to its owner. Validation failures surface before any
// write: status and category must be enum members, the price must be a
// non-negative finite number, the content type must be an accepted image
// format, and the image text must be valid base64.
func (s *ProductService) Add(ctx context.Context, ownerID string, in AddProductInput) (*models.Product, error) {
	if !models.ValidStatus(in.Status) {
		return nil, models.ErrInvalidStatus
	}
	if !models.ValidCategory(in.Category) {
		return nil, models.ErrInvalidCategory
	}
	if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		return nil, models.ErrInvalidPrice
	}

	contentType, err := imagecodec.ValidateContentType(in.ImageContentType)
	if err != nil {
		return nil, err
	}
	imageData, err := imagecodec.Decode(in.ImageText)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Price:       in.Price,
		Description: in.Description,
		Status:      in.Status,
		Category:    in.Category,
		OwnerID:     ownerID,
		Image: models.ProductImage{
			Data:        imageData,
			ContentType: contentType,
		},
		CreatedAt: time.Now(),
	}
	if err := s.products.CreateWithOwner(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Details retrieves a product with the owner's email and the image in
// its base64 wire form.
func (s *ProductService) Details(ctx context.Context, productID string) (*models.ProductDetails, error) {
	product, ownerEmail, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &models.ProductDetails{
		ID:          product.ID,
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		Status:      product.Status,
		Category:    product.Category,
		OwnerEmail:  ownerEmail,
		Image:       imagecodec.Encode(product.Image.Data),
	}, nil
}
