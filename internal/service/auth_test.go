package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
)

type mockUsers struct {
	users map[string]domain.User
}

func (m *mockUsers) Get(ctx context.Context, id string) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *mockUsers) ListStaff(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func newAuth(t *testing.T) (*AuthService, *mockUsers) {
	t.Helper()
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	users := &mockUsers{users: map[string]domain.User{
		"seller-1": {ID: "seller-1", Email: "asha@example.com", PasswordHash: hash, IsActiveSeller: true, IsActiveBroker: true},
	}}
	return NewAuthService(AuthConfig{Secret: "test-secret", TokenTTL: time.Hour}, users), users
}

func TestLoginAndAuthJwt(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	token, user, err := auth.Login(ctx, "asha@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "seller-1" {
		t.Fatalf("expected seller-1, got %s", user.ID)
	}

	viewer, err := auth.AuthJwt(ctx, token)
	if err != nil {
		t.Fatalf("AuthJwt: %v", err)
	}
	if viewer.UserID != "seller-1" || !viewer.IsActiveSeller || !viewer.IsActiveBroker || viewer.IsStaff {
		t.Fatalf("unexpected viewer %+v", viewer)
	}
}

func TestLoginFailures(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, password string }{
		{"asha@example.com", "wrong"},
		{"nobody@example.com", "correct horse"},
	} {
		_, _, err := auth.Login(ctx, tc.email, tc.password)
		if !errors.Is(err, domain.ErrAuthExpired) {
			t.Errorf("%s/%s: expected auth error, got %v", tc.email, tc.password, err)
		}
	}
}

func TestAuthJwtRejectsExpiredAndForeignTokens(t *testing.T) {
	auth, users := newAuth(t)
	ctx := context.Background()

	token, err := auth.Issue("seller-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := auth.AuthJwt(ctx, token); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
	auth.now = time.Now

	other := NewAuthService(AuthConfig{Secret: "other-secret"}, users)
	foreign, err := other.Issue("seller-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := auth.AuthJwt(ctx, foreign); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected foreign token to fail, got %v", err)
	}

	ghost, err := auth.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := auth.AuthJwt(ctx, ghost); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected unknown user to fail, got %v", err)
	}
}
