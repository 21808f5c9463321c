package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/ejfii/beginners-luck-sub000/internal/api"
	"github.com/ejfii/beginners-luck-sub000/internal/auth"
	"github.com/ejfii/beginners-luck-sub000/internal/middleware"
	"github.com/ejfii/beginners-luck-sub000/internal/storage/sqlite"
)

// setupAuthServer wires the real bearer-token interceptor in front of the
// auth and negotiation services.
func setupAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager, api.PublicProcedures...))

	mux := http.NewServeMux()
	NewAuthService(authenticator, jwtManager, store, logger).Mount(mux, interceptors)
	NewNegotiationService(store, logger).Mount(mux, interceptors)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func TestRegisterLoginAndCall(t *testing.T) {
	server := setupAuthServer(t)
	anon := api.NewClient(server.Client(), server.URL)
	ctx := context.Background()

	reg, err := anon.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Alice@Example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" {
		t.Fatal("expected a token")
	}
	if reg.Msg.User.Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized", reg.Msg.User.Email)
	}

	_, err = anon.Register.CallUnary(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice again",
		Password:    "correct horse",
	}))
	requireCode(t, err, connect.CodeAlreadyExists)

	_, err = anon.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong password"}))
	requireCode(t, err, connect.CodeUnauthenticated)

	login, err := anon.Login.CallUnary(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "correct horse"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	_, err = anon.ListNegotiations.CallUnary(ctx, connect.NewRequest(&api.ListNegotiationsRequest{}))
	requireCode(t, err, connect.CodeUnauthenticated)

	alice := api.NewClient(server.Client(), server.URL, connect.WithInterceptors(api.BearerToken(login.Msg.Token)))
	me, err := alice.GetCurrentUser.CallUnary(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if me.Msg.User.ID != reg.Msg.User.ID {
		t.Errorf("GetCurrentUser ID = %q, want %q", me.Msg.User.ID, reg.Msg.User.ID)
	}

	created, err := alice.CreateNegotiation.CallUnary(ctx, connect.NewRequest(&api.CreateNegotiationRequest{Title: "Doe v. Roe"}))
	if err != nil {
		t.Fatalf("CreateNegotiation failed: %v", err)
	}
	list, err := alice.ListNegotiations.CallUnary(ctx, connect.NewRequest(&api.ListNegotiationsRequest{}))
	if err != nil {
		t.Fatalf("ListNegotiations failed: %v", err)
	}
	if len(list.Msg.Negotiations) != 1 || list.Msg.Negotiations[0].ID != created.Msg.Negotiation.ID {
		t.Errorf("unexpected negotiations: %+v", list.Msg.Negotiations)
	}
}

func TestRegisterValidation(t *testing.T) {
	server := setupAuthServer(t)
	anon := api.NewClient(server.Client(), server.URL)

	tests := []struct {
		name string
		req  *api.RegisterRequest
		want connect.Code
	}{
		{"missing email", &api.RegisterRequest{DisplayName: "A", Password: "long enough"}, connect.CodeInvalidArgument},
		{"missing display name", &api.RegisterRequest{Email: "a@example.com", Password: "long enough"}, connect.CodeInvalidArgument},
		{"short password", &api.RegisterRequest{Email: "a@example.com", DisplayName: "A", Password: "short"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := anon.Register.CallUnary(context.Background(), connect.NewRequest(tt.req))
			requireCode(t, err, tt.want)
		})
	}
}
