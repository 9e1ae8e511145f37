package middleware

import (
	"context"
	"net/http"
	"strings"
)

type httpRequest struct {
	r *http.Request
}

func (h httpRequest) Context() context.Context { return h.r.Context() }

func (h httpRequest) Token() (string, bool) {
	return bearerToken(h.r.Header.Get("Authorization"))
}

type httpResponder struct {
	w http.ResponseWriter
}

func (h httpResponder) Unauthorized() {
	http.Error(h.w, "unauthorized", http.StatusUnauthorized)
}

// Guard returns net/http middleware that admits only requests carrying a valid
// "Authorization: Bearer" token.
func Guard(v Verifier, opts ...Option) func(http.Handler) http.Handler {
	gate := NewGate(v, opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gate.Handle(httpRequest{r: r}, httpResponder{w: w}, func(ctx context.Context) {
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
