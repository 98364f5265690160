package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// TokenIssuer defines the interface that the login service must implement.
type TokenIssuer interface {
	Login(ctx context.Context, username, password string) (access string, refresh string, err error)
}

// TokenObtainRequest represents the JSON body for obtaining a token pair
// swagger:model TokenObtainRequest
type TokenObtainRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// TokenPairResponse represents a successful token obtain response
// swagger:model TokenPairResponse
type TokenPairResponse struct {
	// Access token
	Access string `json:"access"`

	// Refresh token
	Refresh string `json:"refresh"`
}

// TokenErrorResponse represents an error response for token operations
// swagger:model TokenErrorResponse
type TokenErrorResponse struct {
	// Error message
	// default: Invalid username or password
	Error string `json:"error"`
}

// NewTokenObtainHandler returns an HTTP handler that exchanges credentials
// for an access/refresh token pair.
// @Summary Obtain token pair
// @Description Authenticate user and return access and refresh JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param tokenObtainRequest body handlers.TokenObtainRequest true "Token obtain request"
// @Success 200 {object} handlers.TokenPairResponse "Token pair returned"
// @Failure 400 {object} handlers.TokenErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.TokenErrorResponse "Invalid username or password"
// @Router /token/ [post]
func NewTokenObtainHandler(svc TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenObtainRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TokenErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		access, refresh, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: "Invalid username or password",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(TokenPairResponse{
			Access:  access,
			Refresh: refresh,
		})
	}
}
