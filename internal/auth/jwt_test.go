package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/ejfii/beginners-luck-sub000/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	m := NewJWTManager("test-secret", time.Hour).WithClock(func() time.Time { return now })

	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	token, expires, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if !expires.Equal(now.Add(time.Hour)) {
		t.Errorf("expires = %v, want %v", expires, now.Add(time.Hour))
	}

	session, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if session.UserID != "user-1" || session.Email != "alice@example.com" {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.TokenID == "" {
		t.Error("expected a token ID")
	}
	if !session.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", session.ExpiresAt, expires)
	}
}

func TestJWTRejects(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	issuing := NewJWTManager("test-secret", time.Hour).WithClock(func() time.Time { return now })
	token, _, err := issuing.Generate(&models.User{ID: "user-1"})
	if err != nil {
		t.Fatal(err)
	}

	anonymous, _, err := issuing.Generate(&models.User{})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		manager *JWTManager
		token   string
	}{
		{"garbage", issuing, "not-a-token"},
		{"missing subject", issuing, anonymous},
		{"wrong secret", NewJWTManager("other", time.Hour).WithClock(func() time.Time { return now }), token},
		{"expired", NewJWTManager("test-secret", time.Hour).WithClock(func() time.Time { return now.Add(2 * time.Hour) }), token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.manager.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
