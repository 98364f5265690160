package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ekurmanov/product-catalog/internal/jwt"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/services"
)

func expectAuthorized(m *MockClaimsGetter, userID uuid.UUID) {
	m.EXPECT().
		GetTokenFromRequest(gomock.Any(), gomock.Any()).
		Return("token", nil)
	m.EXPECT().
		GetClaims(gomock.Any(), "token").
		Return(&jwt.Claims{UserID: userID, TokenType: jwt.TokenTypeAccess}, nil)
}

func TestProductCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	principal := uuid.New()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(tokener *MockClaimsGetter, svc *MockProductCreator)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"name":"Test Product1","price":1111}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				expectAuthorized(tokener, principal)
				svc.EXPECT().
					Create(gomock.Any(), principal, "Test Product1", gomock.Nil(), gomock.Any()).
					DoAndReturn(func(_ any, createdBy uuid.UUID, name string, _ *string, price *float64) (*models.ProductDB, error) {
						assert.Equal(t, float64(1111), *price)
						return &models.ProductDB{ProductID: uuid.New(), Name: name, Price: *price, CreatedBy: createdBy}, nil
					})
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"New product is created successfully!"}`,
		},
		{
			name: "client supplied created_by is ignored",
			body: `{"name":"Sneaky","price":5,"created_by":"` + uuid.NewString() + `"}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				expectAuthorized(tokener, principal)
				// Owner must be the principal regardless of the payload
				svc.EXPECT().
					Create(gomock.Any(), principal, "Sneaky", gomock.Nil(), gomock.Any()).
					Return(&models.ProductDB{ProductID: uuid.New(), Name: "Sneaky", Price: 5, CreatedBy: principal}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"New product is created successfully!"}`,
		},
		{
			name: "validation failure",
			body: `{"price":0.5}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				expectAuthorized(tokener, principal)
				svc.EXPECT().
					Create(gomock.Any(), principal, "", gomock.Nil(), gomock.Any()).
					Return(nil, &services.ValidationError{Fields: map[string]string{
						"name":  "This field is required.",
						"price": "Ensure this value is greater than or equal to 1.",
					}})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errors":{"name":"This field is required.","price":"Ensure this value is greater than or equal to 1."}}`,
		},
		{
			name: "unauthorized",
			body: `{"name":"Test","price":10}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"Unauthorized"}`,
		},
		{
			name: "invalid token",
			body: `{"name":"Test","price":10}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("bad", nil)
				tokener.EXPECT().
					GetClaims(gomock.Any(), "bad").
					Return(nil, errors.New("invalid token"))
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"Unauthorized"}`,
		},
		{
			name: "invalid json",
			body: `{broken`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				expectAuthorized(tokener, principal)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name: "internal server error",
			body: `{"name":"Test","price":10}`,
			mockSetup: func(tokener *MockClaimsGetter, svc *MockProductCreator) {
				expectAuthorized(tokener, principal)
				svc.EXPECT().
					Create(gomock.Any(), principal, "Test", gomock.Nil(), gomock.Any()).
					Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := NewMockClaimsGetter(ctrl)
			mockSvc := NewMockProductCreator(ctrl)
			tt.mockSetup(mockTokener, mockSvc)

			handler := NewProductCreateHandler(mockSvc, mockTokener)

			req := httptest.NewRequest(http.MethodPost, "/api/products/", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
