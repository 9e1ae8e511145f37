package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ginRequest struct {
	c *gin.Context
}

func (g ginRequest) Context() context.Context { return g.c.Request.Context() }

func (g ginRequest) Token() (string, bool) {
	return bearerToken(g.c.GetHeader("Authorization"))
}

type ginResponder struct {
	c *gin.Context
}

func (g ginResponder) Unauthorized() {
	g.c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// Gin returns a gin handler that aborts with 401 unless the request carries a
// valid bearer token. Downstream handlers read the identity with
// authcore.ClaimsFromContext(c.Request.Context()).
func Gin(v Verifier, opts ...Option) gin.HandlerFunc {
	gate := NewGate(v, opts...)

	return func(c *gin.Context) {
		gate.Handle(ginRequest{c: c}, ginResponder{c: c}, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
