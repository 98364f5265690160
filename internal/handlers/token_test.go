package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/ekurmanov/product-catalog/internal/services"
)

func TestTokenObtainHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         any
		rawBody      string
		mockSetup    func(m *MockTokenIssuer)
		expectedCode int
		expectedBody map[string]string
	}{
		{
			name: "success",
			body: TokenObtainRequest{Username: "john", Password: "secret"},
			mockSetup: func(m *MockTokenIssuer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "secret").
					Return("ACCESS", "REFRESH", nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: map[string]string{"access": "ACCESS", "refresh": "REFRESH"},
		},
		{
			name: "invalid credentials",
			body: TokenObtainRequest{Username: "john", Password: "wrong"},
			mockSetup: func(m *MockTokenIssuer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "wrong").
					Return("", "", services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: map[string]string{"error": "Invalid username or password"},
		},
		{
			name: "unknown user",
			body: TokenObtainRequest{Username: "ghost", Password: "pass"},
			mockSetup: func(m *MockTokenIssuer) {
				m.EXPECT().
					Login(gomock.Any(), "ghost", "pass").
					Return("", "", services.ErrUserDoesNotExist)
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: map[string]string{"error": "Invalid username or password"},
		},
		{
			name: "internal server error",
			body: TokenObtainRequest{Username: "john", Password: "secret"},
			mockSetup: func(m *MockTokenIssuer) {
				m.EXPECT().
					Login(gomock.Any(), "john", "secret").
					Return("", "", errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]string{"error": "Internal server error"},
		},
		{
			name:         "invalid json",
			rawBody:      "{invalid",
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{"error": "Invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockTokenIssuer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewTokenObtainHandler(mockSvc)

			var req *http.Request
			if tt.rawBody != "" {
				req = httptest.NewRequest(http.MethodPost, "/api/token/", bytes.NewBufferString(tt.rawBody))
			} else {
				bodyBytes, _ := json.Marshal(tt.body)
				req = httptest.NewRequest(http.MethodPost, "/api/token/", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			var resp map[string]string
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}
