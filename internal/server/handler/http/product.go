package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/guillsango/marketplace/internal/middleware"
	"github.com/guillsango/marketplace/internal/models"
	"github.com/guillsango/marketplace/internal/service"
)

// ProductCatalog defines the catalog operations required by the product
// handlers.
type ProductCatalog interface {
	// Add validates and persists a new product for the owner.
	Add(ctx context.Context, ownerID string, in service.AddProductInput) (*models.Product, error)
	// Details retrieves a product with the owner's email.
	Details(ctx context.Context, productID string) (*models.ProductDetails, error)
}

// ProductMetrics counts catalog outcomes.
type ProductMetrics interface {
	RecordProductAdded()
}

// ProductHandler handles HTTP requests for adding products and reading
// product details.
type ProductHandler struct {
	// Catalog performs the catalog operations.
	Catalog ProductCatalog
	// Metrics counts added products.
	Metrics ProductMetrics
	// Logger reports handler failures.
	Logger *zap.Logger
}

// AddProductRequest represents the JSON payload for adding a product.
// The image travels as padded base64 text; the content type is optional
// and defaults to image/png.
type AddProductRequest struct {
	Name             string  `json:"productName"`
	Price            float64 `json:"price"`
	Description      string  `json:"description"`
	Status           string  `json:"status"`
	Category         string  `json:"category"`
	Image            string  `json:"productImage"`
	ImageContentType string  `json:"imageContentType"`
}

// Add handles add-product requests. The owner is the authenticated
// account injected by the session middleware; requests reaching this
// handler without one are rejected.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetAccountIDFromContext(r.Context())
	if ownerID == "" {
		writeError(w, models.ErrUnauthenticated)
		return
	}

	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	_, err := h.Catalog.Add(r.Context(), ownerID, service.AddProductInput{
		Name:             req.Name,
		Price:            req.Price,
		Description:      req.Description,
		Status:           req.Status,
		Category:         req.Category,
		ImageText:        req.Image,
		ImageContentType: req.ImageContentType,
	})
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.Logger.Error("failed to add product", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	h.Metrics.RecordProductAdded()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product added successfully"})
}

// Details handles product detail requests. The product is identified by
// the productId query parameter.
func (h *ProductHandler) Details(w http.ResponseWriter, r *http.Request) {
	productID := r.URL.Query().Get("productId")
	if productID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "productId is required"})
		return
	}

	details, err := h.Catalog.Details(r.Context(), productID)
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.Logger.Error("failed to fetch product details", zap.Error(err))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}
