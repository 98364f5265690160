package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ekurmanov/product-catalog/internal/jwt"
	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// ClaimsGetter resolves the authenticated principal from a request.
// Protected product handlers receive the principal explicitly instead of
// reading it from any request-global state.
type ClaimsGetter interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// ProductCreator defines the interface that the service must implement.
type ProductCreator interface {
	Create(ctx context.Context, principal uuid.UUID, name string, description *string, price *float64) (*models.ProductDB, error)
}

// ProductCreateRequest represents the JSON body for creating a product.
// Ownership is taken from the authenticated caller; a created_by field in
// the payload is ignored.
// swagger:model ProductCreateRequest
type ProductCreateRequest struct {
	// Unique product name, max 120 characters
	// required: true
	// default: Test Product1
	Name string `json:"name"`

	// Optional description
	Description *string `json:"description"`

	// Price, must be >= 1
	// required: true
	// default: 1111
	Price *float64 `json:"price"`
}

// ProductAckResponse represents a success acknowledgment
// swagger:model ProductAckResponse
type ProductAckResponse struct {
	// Success message
	// default: New product is created successfully!
	Message string `json:"message"`
}

// ProductValidationErrorResponse carries field-level validation messages
// swagger:model ProductValidationErrorResponse
type ProductValidationErrorResponse struct {
	// Field name to message
	Errors map[string]string `json:"errors"`
}

// NewProductCreateHandler returns an HTTP handler for creating a product.
// @Summary Create a product
// @Description Validates and persists a new product owned by the authenticated user.
// @Tags products
// @Accept json
// @Produce json
// @Param productCreateRequest body handlers.ProductCreateRequest true "Product create request"
// @Success 201 {object} handlers.ProductAckResponse "Product created"
// @Failure 400 {object} handlers.ProductValidationErrorResponse "Validation failed"
// @Failure 401 {object} handlers.ProductErrorResponse "Unauthorized"
// @Router /products/ [post]
// @Security BearerAuth
func NewProductCreateHandler(svc ProductCreator, tokenGetter ClaimsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		claims, ok := resolveClaims(ctx, w, r, tokenGetter)
		if !ok {
			return
		}

		var req ProductCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Log.Errorw("failed to decode create request", "error", err)
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Invalid request body"})
			return
		}

		_, err := svc.Create(ctx, claims.UserID, req.Name, req.Description, req.Price)
		if err != nil {
			var vErr *services.ValidationError
			switch {
			case errors.As(err, &vErr):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ProductValidationErrorResponse{Errors: vErr.Fields})
			default:
				logger.Log.Errorw("failed to create product", "principal", claims.UserID, "error", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Internal server error"})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ProductAckResponse{Message: "New product is created successfully!"})
	}
}

// resolveClaims extracts and parses the bearer token, writing a 401
// response on failure.
func resolveClaims(ctx context.Context, w http.ResponseWriter, r *http.Request, tokenGetter ClaimsGetter) (*jwt.Claims, bool) {
	tokenStr, err := tokenGetter.GetTokenFromRequest(ctx, r)
	if err != nil {
		logger.Log.Errorw("failed to get token from request", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	claims, err := tokenGetter.GetClaims(ctx, tokenStr)
	if err != nil {
		logger.Log.Errorw("failed to get claims from token", "error", err)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	return claims, true
}
