package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi/v5"

	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

func newAuthService(t *testing.T) (Service, *user.User) {
	t.Helper()
	users := &fakeUsers{}
	u := users.add("vera", "vera@example.com", "correcthorse", user.RoleVendor)
	return NewService(users, "test-secret", time.Hour), u
}

func TestLoginIssuesParsableToken(t *testing.T) {
	svc, u := newAuthService(t)

	for _, login := range []string{"vera", "VERA@example.com"} {
		resp, err := svc.Login(context.Background(), login, "correcthorse")
		if err != nil {
			t.Fatalf("Login(%q): %v", login, err)
		}
		p, err := svc.ParseToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if p.UserID != u.ID || p.Role != user.RoleVendor || p.Username != "vera" {
			t.Fatalf("principal = %+v", p)
		}
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	for _, tc := range [][2]string{{"vera", "wrong"}, {"nobody", "correcthorse"}, {"", ""}} {
		_, err := svc.Login(context.Background(), tc[0], tc[1])
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login(%q) err = %v, want ErrInvalidCredentials", tc[0], err)
		}
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	svc, u := newAuthService(t)
	other := NewService(&fakeUsers{}, "another-secret", time.Hour)

	claims := &Claims{Username: u.Username, Role: u.Role, StandardClaims: jwt.StandardClaims{
		Subject: u.ID.String(), ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("another-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ParseToken(signed); err != nil {
		t.Fatalf("own token rejected: %v", err)
	}
	if _, err := svc.ParseToken(signed); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	users := &fakeUsers{}
	users.add("vera", "vera@example.com", "correcthorse", user.RoleVendor)
	svc := NewService(users, "s", -time.Minute)
	resp, err := svc.Login(context.Background(), "vera", "correcthorse")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ParseToken(resp.AccessToken); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestMiddleware(t *testing.T) {
	svc, u := newAuthService(t)
	resp, err := svc.Login(context.Background(), "vera", "correcthorse")
	if err != nil {
		t.Fatal(err)
	}

	r := chi.NewRouter()
	r.Use(Middleware(svc))
	var seen *Principal
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	})

	tests := []struct {
		name   string
		header string
		status int
		authed bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"bearer", "Bearer " + resp.AccessToken, http.StatusOK, true},
		{"garbage", "Bearer nope", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.authed && (seen == nil || seen.UserID != u.ID) {
				t.Fatalf("principal = %+v", seen)
			}
			if !tt.authed && seen != nil {
				t.Fatalf("unexpected principal %+v", seen)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	svc, _ := newAuthService(t)
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"vera","password":"correcthorse"}`)))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "access_token") {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"username":"vera","password":"nope"}`)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
