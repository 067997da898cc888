// Package models defines the core data structures for user accounts,
// products, and login sessions.
package models

import "time"

// User represents a registered marketplace account.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Email is the login email, unique across all accounts.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string
	// IDNumber is the identity token the account was registered with.
	IDNumber string
	// ProductIDs is the ordered list of product IDs the user owns.
	// It is a cached back-reference; the authoritative owner field
	// lives on each product.
	ProductIDs []string
	// CreatedAt is when the account was registered.
	CreatedAt time.Time
}

// ProductImage holds the raw image bytes of a product together with
// the content type they were uploaded as.
type ProductImage struct {
	Data        []byte
	ContentType string
}

// Product represents a marketplace listing owned by exactly one user.
type Product struct {
	// ID is the unique identifier for the product.
	ID string
	// Name is the display name of the product.
	Name string
	// Price is the asking price; never negative.
	Price float64
	// Description is the seller-provided description.
	Description string
	// Status is one of the ProductStatus values.
	Status string
	// Category is one of the ProductCategory values.
	Category string
	// OwnerID references the user the product belongs to.
	OwnerID string
	// Image is the embedded product image.
	Image ProductImage
	// CreatedAt is when the product was listed.
	CreatedAt time.Time
}

// Session represents a login session bound to an opaque marker.
type Session struct {
	// ID is the opaque session marker handed to the client.
	ID string
	// UserID is the account the session authenticates.
	UserID string
	// ExpiresAt is when the session stops being valid.
	ExpiresAt time.Time
	// CreatedAt is when the session was issued.
	CreatedAt time.Time
}

// ProductSummary is the shape of a product inside a profile response.
// The image travels as a base64 string.
type ProductSummary struct {
	ID          string  `json:"productId"`
	Name        string  `json:"productName"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	Image       string  `json:"productImage"`
}

// UserProfile is the response shape of a profile read.
type UserProfile struct {
	Email    string           `json:"email"`
	IDNumber string           `json:"id_number"`
	Products []ProductSummary `json:"productList"`
}

// ProductDetails is the response shape of a product detail read,
// including the owner's email for display.
type ProductDetails struct {
	ID          string  `json:"productId"`
	Name        string  `json:"productName"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	OwnerEmail  string  `json:"ownerEmail"`
	Image       string  `json:"productImage"`
}

// ProductStatuses is the set of valid product status values.
var ProductStatuses = []string{
	"New",
	"Sports Equipment",
}

// ProductCategories is the set of valid product category values.
var ProductCategories = []string{
	"Sneaker",
	"Books",
	"Clothing",
	"Bags",
	"Technology",
	"Sports Equipment",
	"Sneakers",
}

// ValidStatus reports whether status is a member of ProductStatuses.
func ValidStatus(status string) bool {
	for _, s := range ProductStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ValidCategory reports whether category is a member of ProductCategories.
func ValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}
