package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-0123456789abcdef")

func newTestManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	if cfg.Secret == nil {
		cfg.Secret = testSecret
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueParseRoundTrip(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Hour, Issuer: "authcore"})

	issuedAt := time.Now().Truncate(time.Second)
	token, err := m.Issue("alice", issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected three segments, got %q", token)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if !claims.IssuedAt.Time.Equal(issuedAt) {
		t.Fatalf("expected iat %v, got %v", issuedAt, claims.IssuedAt.Time)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected exp: %v", claims.ExpiresAt)
	}
	if claims.ID == "" {
		t.Fatal("expected jti to be set")
	}
}

func TestIssueWithoutTTLOmitsExpiry(t *testing.T) {
	m := newTestManager(t, Config{})

	token, err := m.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("expected no exp claim, got %v", claims.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := newTestManager(t, Config{Secret: []byte("S1"), TTL: time.Minute})
	verifier := newTestManager(t, Config{Secret: []byte("S2"), TTL: time.Minute})

	token, err := signer.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseRejectsTamperedSegments(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Minute})

	token, err := m.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	for seg, part := range parts {
		for pos := range part {
			mutated := append([]string(nil), parts...)
			mutated[seg] = flipAt(part, pos)
			tampered := strings.Join(mutated, ".")
			if _, err := m.Parse(tampered); !errors.Is(err, ErrInvalid) {
				t.Fatalf("segment %d position %d: expected ErrInvalid, got %v", seg, pos, err)
			}
		}
	}
}

func TestParseRejectsNonCanonicalSignatureTail(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Minute})

	token, err := m.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Flipping the lowest bit of the final character only touches padding bits
	// of the decoded signature.
	parts := strings.Split(token, ".")
	parts[2] = flipAt(parts[2], len(parts[2])-1)
	if _, err := m.Parse(strings.Join(parts, ".")); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

const base64URLAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// flipAt replaces the character at pos with its alphabet neighbour (index^1).
func flipAt(s string, pos int) string {
	b := []byte(s)
	idx := strings.IndexByte(base64URLAlphabet, b[pos])
	b[pos] = base64URLAlphabet[idx^1]
	return string(b)
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Minute})

	claims := SessionClaims{RegisteredClaims: gjwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  gjwt.NewNumericDate(time.Now()),
		ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS512, claims)
	token, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected wrong algorithm to be rejected, got %v", err)
	}
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t, Config{})

	tok := gjwt.NewWithClaims(gjwt.SigningMethodNone, SessionClaims{RegisteredClaims: gjwt.RegisteredClaims{
		Subject:  "alice",
		IssuedAt: gjwt.NewNumericDate(time.Now()),
	}})
	token, err := tok.SignedString(gjwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected none algorithm to be rejected, got %v", err)
	}
}

func TestParseExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := issuedAt
	m := newTestManager(t, Config{
		TTL:    time.Minute,
		Leeway: 30 * time.Second,
		Now:    func() time.Time { return now },
	})

	token, err := m.Issue("alice", issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = issuedAt.Add(time.Minute + 15*time.Second)
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("expected token within leeway to pass: %v", err)
	}

	now = issuedAt.Add(2 * time.Minute)
	if _, err := m.Parse(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestParseExpiredWithWrongSecretIsInvalid(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	signer := newTestManager(t, Config{Secret: []byte("S1"), TTL: time.Minute})
	verifier := newTestManager(t, Config{Secret: []byte("S2"), TTL: time.Minute})

	token, err := signer.Issue("alice", issuedAt)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestParseIssuerAndAudience(t *testing.T) {
	m := newTestManager(t, Config{TTL: time.Minute, Issuer: "authcore", Audience: "api"})

	token, err := m.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); err != nil {
		t.Fatalf("expected valid token to parse: %v", err)
	}

	other := newTestManager(t, Config{TTL: time.Minute, Issuer: "other", Audience: "api"})
	foreign, err := other.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(foreign); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected wrong issuer to fail, got %v", err)
	}

	otherAud := newTestManager(t, Config{TTL: time.Minute, Issuer: "authcore", Audience: "other-api"})
	foreign, err = otherAud.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(foreign); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected wrong audience to fail, got %v", err)
	}
}

func TestParseRejectsFutureIssuedAt(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, Config{MaxFutureIAT: time.Minute, Now: fixedClock(now)})

	token, err := m.Issue("alice", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected future iat to be rejected, got %v", err)
	}
}

func TestParseKeyRotation(t *testing.T) {
	oldKey := []byte("old-secret-0123456789")
	newKey := []byte("new-secret-0123456789")

	previous := newTestManager(t, Config{Secret: oldKey, KeyID: "k1"})
	current := newTestManager(t, Config{
		Secret:     newKey,
		KeyID:      "k2",
		VerifyKeys: map[string][]byte{"k1": oldKey, "k2": newKey},
	})

	token, err := previous.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := current.Parse(token); err != nil {
		t.Fatalf("expected rotated key to verify: %v", err)
	}

	unknown := newTestManager(t, Config{Secret: oldKey, KeyID: "k9"})
	token, err = unknown.Issue("alice", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := current.Parse(token); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected unknown kid to fail, got %v", err)
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	cases := map[string]Config{
		"empty secret":   {},
		"negative ttl":   {Secret: testSecret, TTL: -time.Second},
		"large leeway":   {Secret: testSecret, Leeway: time.Hour},
		"unknown method": {Secret: testSecret, SigningMethod: "rs256"},
		"kid not in set": {Secret: testSecret, KeyID: "k2", VerifyKeys: map[string][]byte{"k1": testSecret}},
	}
	for name, cfg := range cases {
		if _, err := NewManager(cfg); err == nil {
			t.Fatalf("%s: expected NewManager to fail", name)
		}
	}
}

func TestSigningMethods(t *testing.T) {
	for _, method := range []SigningMethod{MethodHS256, MethodHS384, MethodHS512} {
		m := newTestManager(t, Config{SigningMethod: method})
		token, err := m.Issue("alice", time.Now())
		if err != nil {
			t.Fatalf("%s issue: %v", method, err)
		}
		if _, err := m.Parse(token); err != nil {
			t.Fatalf("%s parse: %v", method, err)
		}
	}
}
