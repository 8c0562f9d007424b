package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

var (
	ErrTokenInvalid = apperr.New(apperr.KindValidation, "token_invalid", "reset link is invalid or has already been used")
	ErrTokenExpired = apperr.New(apperr.KindGone, "token_expired", "reset link has expired")
)

var tracer = otel.Tracer("github.com/georgemunganga/marketplace-backend/internal/modules/auth")

// ResetToken is a stored password-reset token. Only the SHA-256 of the
// mailed token is persisted.
type ResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// ResetRepository persists reset tokens.
type ResetRepository interface {
	CreateResetToken(ctx context.Context, t *ResetToken) error
	// GetUnusedResetToken returns ErrTokenInvalid when no unused token has hash.
	GetUnusedResetToken(ctx context.Context, hash string) (*ResetToken, error)
	DeleteResetToken(ctx context.Context, id uuid.UUID) error
	// ConsumeResetToken marks the token used and sets the user's password
	// hash in one transaction. It returns ErrTokenInvalid if the token was
	// consumed concurrently.
	ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) error
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

// ResetService runs the password-reset lifecycle.
type ResetService interface {
	// RequestReset never reports failure, so registered and unknown emails
	// look the same to the caller.
	RequestReset(ctx context.Context, email string)
	ValidateToken(ctx context.Context, token string) error
	CompleteReset(ctx context.Context, token, newPassword string) error
	PurgeExpired(ctx context.Context) (int64, error)
}

type resetService struct {
	users   user.Repository
	tokens  ResetRepository
	events  events.Publisher
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

// NewResetService creates the reset workflow. Reset links point at baseURL.
func NewResetService(users user.Repository, tokens ResetRepository, pub events.Publisher, baseURL string, ttl time.Duration) ResetService {
	return &resetService{
		users:   users,
		tokens:  tokens,
		events:  pub,
		baseURL: strings.TrimRight(baseURL, "/"),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *resetService) RequestReset(ctx context.Context, email string) {
	ctx, span := tracer.Start(ctx, "auth.RequestReset")
	defer span.End()

	if err := s.requestReset(ctx, strings.TrimSpace(email)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request reset failed")
		log.Printf("[reset] request failed: %v", err)
	}
}

func (s *resetService) requestReset(ctx context.Context, email string) error {
	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, user.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	token, err := newToken()
	if err != nil {
		return err
	}
	rt := &ResetToken{
		ID:        uuid.New(),
		UserID:    u.ID,
		TokenHash: hashToken(token),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.tokens.CreateResetToken(ctx, rt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.events.Publish(ctx, events.PasswordResetRequested{
		UserID:   u.ID,
		Email:    u.Email,
		ResetURL: s.baseURL + "/password-reset/" + token,
	})
	return nil
}

func (s *resetService) ValidateToken(ctx context.Context, token string) error {
	_, err := s.lookup(ctx, token)
	return err
}

// lookup resolves a caller-visible token to its live row. Expired rows are
// deleted on sight.
func (s *resetService) lookup(ctx context.Context, token string) (*ResetToken, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}
	rt, err := s.tokens.GetUnusedResetToken(ctx, hashToken(token))
	if err != nil {
		return nil, err
	}
	if !s.now().Before(rt.ExpiresAt) {
		if err := s.tokens.DeleteResetToken(ctx, rt.ID); err != nil {
			log.Printf("[reset] delete expired token %s: %v", rt.ID, err)
		}
		return nil, ErrTokenExpired
	}
	return rt, nil
}

func (s *resetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	ctx, span := tracer.Start(ctx, "auth.CompleteReset")
	defer span.End()

	if err := user.ValidatePassword(newPassword); err != nil {
		return err
	}
	rt, err := s.lookup(ctx, token)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("user.id", rt.UserID.String()))

	hash, err := user.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.tokens.ConsumeResetToken(ctx, rt.ID, rt.UserID, hash); err != nil {
		if !errors.Is(err, ErrTokenInvalid) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "consume token failed")
		}
		return err
	}
	return nil
}

func (s *resetService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.tokens.DeleteExpiredResetTokens(ctx, s.now())
}

// RunJanitor purges expired tokens every interval until ctx is done.
func RunJanitor(ctx context.Context, svc ResetService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				log.Printf("[reset] purge expired tokens: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[reset] purged %d expired tokens", n)
			}
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
