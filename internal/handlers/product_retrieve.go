package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// ProductGetter defines the interface that the service must implement.
type ProductGetter interface {
	Get(ctx context.Context, productID uuid.UUID) (*models.ProductDB, error)
}

// ProductResponse represents a product in API responses
// swagger:model ProductResponse
type ProductResponse struct {
	// Product identifier
	ID uuid.UUID `json:"id"`

	// Unique product name
	// default: Test Product1
	Name string `json:"name"`

	// Optional description
	Description *string `json:"description"`

	// Price, always >= 1
	// default: 1111
	Price float64 `json:"price"`

	// Identifier of the owning user
	CreatedBy uuid.UUID `json:"created_by"`

	// Creation timestamp
	CreatedAt time.Time `json:"created_at"`
}

// ProductErrorResponse represents an error response for product operations
// swagger:model ProductErrorResponse
type ProductErrorResponse struct {
	// Error message
	// default: Product not found
	Error string `json:"error"`
}

func toProductResponse(p *models.ProductDB) ProductResponse {
	return ProductResponse{
		ID:          p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
	}
}

// parseProductID extracts and parses the product id URL parameter.
// A malformed id is indistinguishable from a missing product for callers.
func parseProductID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "productID"))
}

// NewProductRetrieveHandler returns an HTTP handler for fetching a single product.
// @Summary Retrieve a product
// @Description Returns a single product by id. No authentication required.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} handlers.ProductResponse "The product"
// @Failure 404 {object} handlers.ProductErrorResponse "Product not found"
// @Router /products/{id}/ [get]
func NewProductRetrieveHandler(svc ProductGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseProductID(r)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Product not found"})
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProductNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Product not found"})
			default:
				logger.Log.Errorw("failed to retrieve product", "productID", productID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(toProductResponse(product))
	}
}
