package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/guillsango/marketplace/internal/imagecodec"
	"github.com/guillsango/marketplace/internal/models"
)

// AllowList defines the identity allow-list lookup required by
// registration.
type AllowList interface {
	// Exists returns true if the id number is pre-provisioned.
	Exists(ctx context.Context, idNumber string) (bool, error)
}

// UserRepository defines the account persistence operations required by
// the user service.
type UserRepository interface {
	// Create persists a new account; a duplicate email surfaces as
	// models.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) error
	// FindByID retrieves an account by id.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// AppendProduct appends a product id to the account's owned list.
	AppendProduct(ctx context.Context, userID, productID string) error
	// RebuildProductList recomputes the cached owned list from the
	// authoritative owner field on products.
	RebuildProductList(ctx context.Context, userID string) error
}

// OwnedProductsReader lists the products owned by an account.
type OwnedProductsReader interface {
	FindByOwner(ctx context.Context, ownerID string) ([]models.Product, error)
}

// PasswordHasher produces a one-way hash of a plaintext password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// UserService implements account registration and profile reads.
type UserService struct {
	allowList AllowList
	users     UserRepository
	products  OwnedProductsReader
	hasher    PasswordHasher
}

// NewUserService constructs a UserService using the provided collaborators.
func NewUserService(allowList AllowList, users UserRepository, products OwnedProductsReader, hasher PasswordHasher) *UserService {
	return &UserService{allowList: allowList, users: users, products: products, hasher: hasher}
}

// Register creates a new account. The id number must be present in the
// allow-list (models.ErrUnknownIdentity otherwise) and the email must be
// unused (models.ErrDuplicateEmail otherwise). The password is hashed
// before it is persisted; the plaintext never reaches the store.
func (s *UserService) Register(ctx context.Context, email, password, idNumber string) (*models.User, error) {
	allowed, err := s.allowList.Exists(ctx, idNumber)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.ErrUnknownIdentity
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		IDNumber:     idNumber,
		ProductIDs:   []string{},
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID retrieves an account by id.
func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// AppendOwnedProduct appends a product id to the account's owned list.
func (s *UserService) AppendOwnedProduct(ctx context.Context, userID, productID string) error {
	return s.users.AppendProduct(ctx, userID, productID)
}

// Profile resolves an account's owned products into a profile view with
// base64-encoded images. The summaries follow the order of the account's
// cached product list; products missing from the cache are appended in
// listing order. When the cached list disagrees with the authoritative
// owner field (a stale, duplicate, or missing entry), the cache is
// rebuilt before the profile is returned.
func (s *UserService) Profile(ctx context.Context, accountID string) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByOwner(ctx, accountID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	drift := false
	summaries := make([]models.ProductSummary, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, id := range user.ProductIDs {
		p, ok := byID[id]
		if !ok || seen[id] {
			drift = true
			continue
		}
		summaries = append(summaries, summarize(p))
		seen[id] = true
	}
	for _, p := range products {
		if !seen[p.ID] {
			drift = true
			summaries = append(summaries, summarize(p))
		}
	}

	if drift {
		if err := s.users.RebuildProductList(ctx, accountID); err != nil {
			return nil, err
		}
	}

	return &models.UserProfile{
		Email:    user.Email,
		IDNumber: user.IDNumber,
		Products: summaries,
	}, nil
}

func summarize(p models.Product) models.ProductSummary {
	return models.ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Status:      p.Status,
		Category:    p.Category,
		Image:       imagecodec.Encode(p.Image.Data),
	}
}
