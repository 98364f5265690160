package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims holds the parsed identity claims of a token.
type Claims struct {
	UserID    uuid.UUID // Identifier of the authenticated user
	TokenType string    // "access" or "refresh"
}

// JWT provides methods to generate and validate HS256 tokens.
type JWT struct {
	secretKey  string
	accessExp  time.Duration
	refreshExp time.Duration
}

// Opt configures a JWT instance.
type Opt func(*JWT)

// WithSecretKey sets the signing secret.
func WithSecretKey(secret string) Opt {
	return func(j *JWT) { j.secretKey = secret }
}

// WithAccessExpiration sets the access token lifetime.
func WithAccessExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.accessExp = d }
}

// WithRefreshExpiration sets the refresh token lifetime.
func WithRefreshExpiration(d time.Duration) Opt {
	return func(j *JWT) { j.refreshExp = d }
}

// New creates a new JWT instance.
func New(opts ...Opt) *JWT {
	j := &JWT{
		secretKey:  "secret",
		accessExp:  time.Minute,
		refreshExp: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// GenerateAccessToken creates a short-lived access token for the given user.
func (j *JWT) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(userID, TokenTypeAccess, j.accessExp)
}

// GenerateRefreshToken creates a refresh token for the given user.
func (j *JWT) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return j.generate(userID, TokenTypeRefresh, j.refreshExp)
}

func (j *JWT) generate(userID uuid.UUID, tokenType string, exp time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID.String(),
		"token_type": tokenType,
		"exp":        time.Now().Add(exp).Unix(),
		"iat":        time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// GetClaims parses the token string and returns its claims if the
// signature and expiry are valid.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("user_id not found in token")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid user_id format")
	}

	tokenType, ok := claims["token_type"].(string)
	if !ok {
		return nil, errors.New("token_type not found in token")
	}

	return &Claims{UserID: userID, TokenType: tokenType}, nil
}

// Validate checks that the token string is a valid access token.
// Refresh tokens are rejected so they cannot be used on protected routes.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	claims, err := j.GetClaims(ctx, tokenString)
	if err != nil {
		return err
	}
	if claims.TokenType != TokenTypeAccess {
		return errors.New("not an access token")
	}
	return nil
}

// GetTokenFromRequest extracts the token string from the Authorization header
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
