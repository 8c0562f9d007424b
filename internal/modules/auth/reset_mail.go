package auth

import (
	"context"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/events"
	"github.com/georgemunganga/marketplace-backend/internal/mail"
)

// ResetMailHandler mails the reset link of a password_reset.requested event.
func ResetMailHandler(sender mail.Sender) events.Handler {
	return func(ctx context.Context, ev events.Event) error {
		req, ok := ev.(events.PasswordResetRequested)
		if !ok {
			return nil
		}
		body := fmt.Sprintf("Someone asked to reset the password for your account.\n\n"+
			"Open the link below to choose a new password:\n%s\n\n"+
			"The link can be used once. If you did not ask for this, ignore this email.\n", req.ResetURL)
		if err := sender.Send(ctx, req.Email, "Reset your password", body); err != nil {
			return fmt.Errorf("send reset mail to user %s: %w", req.UserID, err)
		}
		return nil
	}
}
