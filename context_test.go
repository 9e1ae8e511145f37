package authcore

import (
	"context"
	"testing"
)

func TestClaimsContextRoundTrip(t *testing.T) {
	claims := &Claims{Subject: "alice"}
	ctx := WithClaims(context.Background(), claims)

	got, ok := ClaimsFromContext(ctx)
	if !ok || got != claims {
		t.Fatalf("expected claims from context, got %v %v", got, ok)
	}
}

func TestClaimsFromContextMissing(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Fatal("expected no claims")
	}
	if _, ok := ClaimsFromContext(WithClaims(context.Background(), nil)); ok {
		t.Fatal("expected nil claims to be reported missing")
	}
	//nolint:staticcheck // nil context is part of the contract
	if _, ok := ClaimsFromContext(nil); ok {
		t.Fatal("expected nil context to have no claims")
	}
}
