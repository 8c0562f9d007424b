package mail

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
)

func TestNewFallsBackToLogSender(t *testing.T) {
	s := New("", 587, "", "", "noreply@marketplace.local")
	if _, ok := s.(LogSender); !ok {
		t.Fatalf("New without host = %T, want LogSender", s)
	}
	if err := s.Send(context.Background(), "a@b.c", "hi", "body"); err != nil {
		t.Fatalf("LogSender.Send: %v", err)
	}
	if _, ok := New("smtp.example.com", 587, "u", "p", "f@x").(*SMTPSender); !ok {
		t.Fatal("New with host should build an SMTP sender")
	}
}

func TestSMTPSenderHonoursCancelledContext(t *testing.T) {
	s := NewSMTPSender("127.0.0.1", 1, "", "", "f@x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Send(ctx, "a@b.c", "hi", "body"); err != context.Canceled {
		t.Fatalf("Send = %v, want context.Canceled", err)
	}
}

func TestLogSenderOmitsBody(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	body := "Reset your password: https://shop.example/password-reset/s3cr3t-token"
	if err := (LogSender{}).Send(context.Background(), "bob@example.com", "Password reset", body); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "s3cr3t-token") {
		t.Fatalf("log leaked the message body: %s", out)
	}
	if !strings.Contains(out, "bob@example.com") || !strings.Contains(out, `"Password reset"`) {
		t.Fatalf("log = %s", out)
	}
}
