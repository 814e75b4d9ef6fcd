package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openplanner/gradplan-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalidated = errors.New("session has been invalidated")
)

// TokenType distinguishes student vs advisor tokens.
type TokenType string

const (
	TokenTypeStudent TokenType = "student"
	TokenTypeAdvisor TokenType = "advisor"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	UserID    uuid.UUID `json:"user_id"`
}

// AuthService handles authentication, JWT signing and session tracking.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a JWT for a student or advisor and registers its jti
// in Redis so logout can invalidate it before expiry.
func (s *AuthService) GenerateToken(ctx context.Context, userID uuid.UUID, tokenType TokenType) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: tokenType,
		UserID:    userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, s.sessionKey(userID, tokenType), jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and verifies a JWT, checking its jti is still the
// registered session for the user.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	current, err := s.rdb.Get(ctx, s.sessionKey(claims.UserID, claims.TokenType)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("check session: %w", err)
	}
	if current != claims.ID {
		return nil, ErrSessionInvalidated
	}

	return claims, nil
}

// Logout removes the registered session, invalidating outstanding tokens.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenType TokenType) error {
	return s.rdb.Del(ctx, s.sessionKey(userID, tokenType)).Err()
}

func (s *AuthService) sessionKey(userID uuid.UUID, tokenType TokenType) string {
	if tokenType == TokenTypeAdvisor {
		return config.CacheKey.AdvisorSessionKey(userID.String())
	}
	return config.CacheKey.StudentSessionKey(userID.String())
}
