package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/events"
)

type captureSender struct {
	to, subject, body string
}

func (c *captureSender) Send(_ context.Context, to, subject, body string) error {
	c.to, c.subject, c.body = to, subject, body
	return nil
}

func TestResetMailHandler(t *testing.T) {
	s := &captureSender{}
	h := ResetMailHandler(s)
	err := h(context.Background(), events.PasswordResetRequested{
		UserID: uuid.New(), Email: "bea@example.com", ResetURL: "https://shop.example/password-reset/abc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.to != "bea@example.com" || !strings.Contains(s.body, "https://shop.example/password-reset/abc") {
		t.Fatalf("sent %+v", s)
	}
}
