package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekurmanov/product-catalog/internal/jwt"
	"github.com/ekurmanov/product-catalog/internal/logger"
	"github.com/ekurmanov/product-catalog/internal/models"
	"github.com/ekurmanov/product-catalog/internal/repositories"
)

// Error variables
var (
	ErrUserAlreadyExists   = errors.New("username or email already exists")
	ErrUserDoesNotExist    = errors.New("username does not exist")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username string, passwordHash string, email *string) error
}

// TokenGenerator defines an interface for issuing and parsing JWT tokens.
type TokenGenerator interface {
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error)
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    TokenGenerator
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt TokenGenerator) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
	}
}

// Register registers a new user.
func (svc *AuthService) Register(ctx context.Context, username, password string, email *string) error {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return err
	}

	if err := svc.writer.Save(ctx, username, string(hashedPassword), email); err != nil {
		// Concurrent registration of the same username lands here.
		if errors.Is(err, repositories.ErrUserConflict) {
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	return nil
}

// Login authenticates a user and returns an access/refresh token pair.
func (svc *AuthService) Login(ctx context.Context, username, password string) (access string, refresh string, err error) {
	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", "", err
	}
	if user == nil {
		logger.Log.Errorw("user does not exist", "username", username)
		return "", "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", "", ErrInvalidCredentials
	}

	access, err = svc.jwt.GenerateAccessToken(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return "", "", err
	}
	refresh, err = svc.jwt.GenerateRefreshToken(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate refresh token", "err", err)
		return "", "", err
	}

	return access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (svc *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := svc.jwt.GetClaims(ctx, refreshToken)
	if err != nil {
		logger.Log.Errorw("failed to parse refresh token", "err", err)
		return "", ErrInvalidRefreshToken
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		logger.Log.Errorw("token is not a refresh token", "token_type", claims.TokenType)
		return "", ErrInvalidRefreshToken
	}

	access, err := svc.jwt.GenerateAccessToken(ctx, claims.UserID)
	if err != nil {
		logger.Log.Errorw("failed to generate access token", "err", err)
		return "", err
	}

	return access, nil
}
