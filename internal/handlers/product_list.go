package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
)

// ProductLister defines the interface that the service must implement.
type ProductLister interface {
	List(ctx context.Context, page, pageSize int) ([]models.ProductDB, int64, error)
}

// ProductListResponse represents one page of products with pagination metadata
// swagger:model ProductListResponse
type ProductListResponse struct {
	// Total number of products
	// default: 3
	Count int64 `json:"count"`

	// Link to the next page, null on the last page
	Next *string `json:"next"`

	// Link to the previous page, null on the first page
	Previous *string `json:"previous"`

	// Products on this page
	Results []ProductResponse `json:"results"`
}

// NewProductListHandler returns an HTTP handler for listing products.
// Pages are numbered from 1; a page past the end yields an empty result
// set rather than an error.
// @Summary List products
// @Description Returns products ordered by creation time descending, paginated. No authentication required.
// @Tags products
// @Produce json
// @Param page query int false "Page number, starting at 1"
// @Success 200 {object} handlers.ProductListResponse "One page of products"
// @Failure 400 {object} handlers.ProductErrorResponse "Invalid page number"
// @Router /products/ [get]
func NewProductListHandler(svc ProductLister, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if raw := r.URL.Query().Get("page"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Invalid page number"})
				return
			}
			page = parsed
		}

		products, count, err := svc.List(r.Context(), page, pageSize)
		if err != nil {
			logger.Log.Errorw("failed to list products", "page", page, "error", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(ProductErrorResponse{Error: "Internal server error"})
			return
		}

		results := make([]ProductResponse, 0, len(products))
		for i := range products {
			results = append(results, toProductResponse(&products[i]))
		}

		resp := ProductListResponse{
			Count:   count,
			Results: results,
		}
		if int64(page*pageSize) < count {
			next := fmt.Sprintf("%s?page=%d", r.URL.Path, page+1)
			resp.Next = &next
		}
		if page > 1 {
			previous := fmt.Sprintf("%s?page=%d", r.URL.Path, page-1)
			resp.Previous = &previous
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}
}
