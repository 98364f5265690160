package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// ProductUpdater defines the interface that the service must implement.
type ProductUpdater interface {
	Update(ctx context.Context, principal, productID uuid.UUID, name *string, description *string, price *float64) (*models.ProductDB, error)
}

// ProductUpdateRequest represents the JSON body for a partial product update.
// Omitted fields keep their stored values.
// swagger:model ProductUpdateRequest
type ProductUpdateRequest struct {
	// New product name, max 120 characters
	// default: Updated Product
	Name *string `json:"name"`

	// New description
	Description *string `json:"description"`

	// New price, must be >= 1
	Price *float64 `json:"price"`
}

// NewProductUpdateHandler returns an HTTP handler for updating a product.
// Only the product's owner may update it.
// @Summary Update a product
// @Description Applies a partial update to a product. Fields omitted from the payload are left unchanged.
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param productUpdateRequest body handlers.ProductUpdateRequest true "Product update request"
// @Success 200 {object} handlers.ProductAckResponse "Product updated"
// @Failure 400 {object} handlers.ProductValidationErrorResponse "Validation failed"
// @Failure 401 {object} handlers.ProductErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ProductErrorResponse "Caller is not the owner"
// @Failure 404 {object} handlers.ProductErrorResponse "Product not found"
// @Router /products/{id}/ [put]
// @Security BearerAuth
func NewProductUpdateHandler(svc ProductUpdater, tokenGetter ClaimsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := resolveClaims(ctx, w, r, tokenGetter)
		if !ok {
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Product not found"})
			return
		}

		var req ProductUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode update request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Invalid request body"})
			return
		}

		_, err = svc.Update(ctx, claims.UserID, productID, req.Name, req.Description, req.Price)
		if err != nil {
			var vErr *services.ValidationError
			switch {
			case errors.Is(err, services.ErrProductNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Product not found"})
			case errors.Is(err, services.ErrNotProductOwner):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Only the owner of the product can edit it"})
			case errors.As(err, &vErr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ProductValidationErrorResponse{Errors: vErr.Fields})
			default:
				logger.Log.Errorw("failed to update product", "productID", productID, "principal", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProductAckResponse{Message: "Product is updated successfully!"})
	}
}
