package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// ProductDeleter defines the interface that the service must implement.
type ProductDeleter interface {
	Delete(ctx context.Context, principal, productID uuid.UUID) error
}

// NewProductDeleteHandler returns an HTTP handler for deleting a product.
// Only the product's owner may delete it. Returns 200 with an ack body.
// @Summary Delete a product
// @Description Deletes a product owned by the authenticated user.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} handlers.ProductAckResponse "Product deleted"
// @Failure 401 {object} handlers.ProductErrorResponse "Unauthorized"
// @Failure 403 {object} handlers.ProductErrorResponse "Caller is not the owner"
// @Failure 404 {object} handlers.ProductErrorResponse "Product not found"
// @Router /products/{id}/ [delete]
// @Security BearerAuth
func NewProductDeleteHandler(svc ProductDeleter, tokenGetter ClaimsGetter) http.HandlerFunc {
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

		if err := svc.Delete(ctx, claims.UserID, productID); err != nil {
			switch {
			case errors.Is(err, services.ErrProductNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Product not found"})
			case errors.Is(err, services.ErrNotProductOwner):
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Only the owner of the product can edit it"})
			default:
				logger.Log.Errorw("failed to delete product", "productID", productID, "principal", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(ProductAckResponse{Message: "Product is deleted successfully!"})
	}
}
