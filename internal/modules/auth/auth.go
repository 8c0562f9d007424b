package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Authenticate checks credentials, matching login against username or email.
	Authenticate(ctx context.Context, login, password string) (*user.User, error)
	// Login authenticates and issues a signed access token.
	Login(ctx context.Context, login, password string) (*TokenResponse, error)
	// ParseToken validates an access token and returns its principal.
	ParseToken(token string) (*Principal, error)
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *user.User `json:"user"`
}

// Claims are the JWT claims of an access token. The subject is the user id.
type Claims struct {
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
	jwt.StandardClaims
}

type service struct {
	userRepo user.Repository
	jwtKey   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new auth service signing tokens with secret.
func NewService(userRepo user.Repository, secret string, ttl time.Duration) Service {
	return &service{userRepo: userRepo, jwtKey: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Authenticate(ctx context.Context, login, password string) (*user.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.userRepo.GetUserByLogin(ctx, login)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !user.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *service) Login(ctx context.Context, login, password string) (*TokenResponse, error) {
	u, err := s.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expirationTime := now.Add(s.ttl)
	claims := &Claims{
		Username: u.Username,
		Role:     u.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			IssuedAt:  now.Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResponse{AccessToken: tokenString, TokenType: "Bearer", ExpiresAt: expirationTime, User: u}, nil
}

func (s *service) ParseToken(tokenString string) (*Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	return &Principal{UserID: id, Username: claims.Username, Role: claims.Role}, nil
}
