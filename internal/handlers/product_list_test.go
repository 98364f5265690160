package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ekurmanov/product-catalog/internal/models"
)

func TestProductListHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	owner := uuid.New()
	newest := models.ProductDB{
		ProductID: uuid.New(),
		Name:      "Newest",
		Price:     10,
		CreatedBy: owner,
		CreatedAt: time.Now(),
	}
	middle := models.ProductDB{
		ProductID: uuid.New(),
		Name:      "Middle",
		Price:     20,
		CreatedBy: owner,
		CreatedAt: time.Now().Add(-time.Hour),
	}

	tests := []struct {
		name             string
		url              string
		mockSetup        func(m *MockProductLister)
		expectedCode     int
		expectedCount    int64
		expectedNames    []string
		expectedNext     *string
		expectedPrevious *string
	}{
		{
			name: "first page with next link",
			url:  "/api/products/",
			mockSetup: func(m *MockProductLister) {
				m.EXPECT().
					List(gomock.Any(), 1, 1).
					Return([]models.ProductDB{newest}, int64(3), nil)
			},
			expectedCode:  http.StatusOK,
			expectedCount: 3,
			expectedNames: []string{"Newest"},
			expectedNext:  strPtr("/api/products/?page=2"),
		},
		{
			name: "middle page has both links",
			url:  "/api/products/?page=2",
			mockSetup: func(m *MockProductLister) {
				m.EXPECT().
					List(gomock.Any(), 2, 1).
					Return([]models.ProductDB{middle}, int64(3), nil)
			},
			expectedCode:     http.StatusOK,
			expectedCount:    3,
			expectedNames:    []string{"Middle"},
			expectedNext:     strPtr("/api/products/?page=3"),
			expectedPrevious: strPtr("/api/products/?page=1"),
		},
		{
			name: "out of range page yields empty results",
			url:  "/api/products/?page=9",
			mockSetup: func(m *MockProductLister) {
				m.EXPECT().
					List(gomock.Any(), 9, 1).
					Return([]models.ProductDB{}, int64(3), nil)
			},
			expectedCode:     http.StatusOK,
			expectedCount:    3,
			expectedNames:    []string{},
			expectedPrevious: strPtr("/api/products/?page=8"),
		},
		{
			name: "no products",
			url:  "/api/products/",
			mockSetup: func(m *MockProductLister) {
				m.EXPECT().
					List(gomock.Any(), 1, 1).
					Return([]models.ProductDB{}, int64(0), nil)
			},
			expectedCode:  http.StatusOK,
			expectedCount: 0,
			expectedNames: []string{},
		},
		{
			name:         "invalid page param",
			url:          "/api/products/?page=abc",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "zero page param",
			url:          "/api/products/?page=0",
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "internal server error",
			url:  "/api/products/",
			mockSetup: func(m *MockProductLister) {
				m.EXPECT().
					List(gomock.Any(), 1, 1).
					Return(nil, int64(0), errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockProductLister(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewProductListHandler(mockSvc, 1)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode != http.StatusOK {
				return
			}

			var resp ProductListResponse
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)

			assert.Equal(t, tt.expectedCount, resp.Count)
			names := make([]string, 0, len(resp.Results))
			for _, p := range resp.Results {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
			assert.Equal(t, tt.expectedNext, resp.Next)
			assert.Equal(t, tt.expectedPrevious, resp.Previous)
		})
	}
}
