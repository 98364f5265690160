package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/services"
)

// TokenRefresher defines the interface that the refresh service must implement.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// TokenRefreshRequest represents the JSON body for refreshing an access token
// swagger:model TokenRefreshRequest
type TokenRefreshRequest struct {
	// Refresh token
	// required: true
	Refresh string `json:"refresh"`
}

// TokenRefreshResponse represents a successful token refresh response
// swagger:model TokenRefreshResponse
type TokenRefreshResponse struct {
	// New access token
	Access string `json:"access"`
}

// NewTokenRefreshHandler returns an HTTP handler that exchanges a refresh
// token for a new access token.
// @Summary Refresh access token
// @Description Exchange a valid refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param tokenRefreshRequest body handlers.TokenRefreshRequest true "Token refresh request"
// @Success 200 {object} handlers.TokenRefreshResponse "New access token returned"
// @Failure 400 {object} handlers.TokenErrorResponse "Invalid request body"
// @Failure 401 {object} handlers.TokenErrorResponse "Invalid or expired refresh token"
// @Router /token/refresh/ [post]
func NewTokenRefreshHandler(svc TokenRefresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRefreshRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Refresh == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(TokenErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		access, err := svc.Refresh(r.Context(), req.Refresh)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidRefreshToken):
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(TokenErrorResponse{
					Error: "Invalid or expired refresh token",
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
		json.NewEncoder(w).Encode(TokenRefreshResponse{
			Access: access,
		})
	}
}
