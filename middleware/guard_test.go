package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrEthical07/authcore"
)

func newGuardTestEngine(t *testing.T) (*authcore.Engine, string) {
	t.Helper()

	cfg := authcore.DefaultConfig()
	cfg.Secret = "middleware-test-secret-0123456789"
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1

	engine, err := authcore.New().WithConfig(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close(context.Background()) })

	ctx := context.Background()
	if err := engine.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, err := engine.Login(ctx, "alice", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	return engine, token
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := authcore.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "no claims", http.StatusInternalServerError)
		return
	}
	_, _ = io.WriteString(w, claims.Username())
}

func TestGuardAllowsValidBearer(t *testing.T) {
	engine, token := newGuardTestEngine(t)
	handler := Guard(engine)(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Fatalf("expected alice, got %q", rec.Body.String())
	}
	if engine.MetricsSnapshot().Counters[authcore.MetricGateAllowed] != 1 {
		t.Fatal("expected gate allowed counter")
	}
}

func TestGuardRejectsUniformly(t *testing.T) {
	engine, token := newGuardTestEngine(t)
	called := false
	handler := Guard(engine)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	headers := []string{
		"",
		"Basic abc",
		"Bearer ",
		"Bearer not-a-token",
		"Bearer " + token + "x",
	}

	var bodies []string
	for _, h := range headers {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", h, rec.Code)
		}
		bodies = append(bodies, rec.Body.String())
	}

	if called {
		t.Fatal("downstream handler must not run")
	}
	for _, b := range bodies[1:] {
		if b != bodies[0] {
			t.Fatalf("rejection bodies differ: %q vs %q", bodies[0], b)
		}
	}
}

type stubVerifier struct{ err error }

func (s stubVerifier) Verify(context.Context, string) (*authcore.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &authcore.Claims{Subject: "stub"}, nil
}

func TestGuardWithPlainVerifier(t *testing.T) {
	handler := Guard(stubVerifier{})(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "stub" {
		t.Fatalf("expected stub identity, got %d %q", rec.Code, rec.Body.String())
	}

	handler = Guard(stubVerifier{err: errors.New("boom")})(http.HandlerFunc(whoAmI))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer  abc ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := bearerToken(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("bearerToken(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
