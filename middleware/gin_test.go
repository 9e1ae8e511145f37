package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/authcore"
)

func newGinRouter(v Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Gin(v), func(c *gin.Context) {
		claims, ok := authcore.ClaimsFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, claims.Username())
	})
	return r
}

func TestGinAllowsValidBearer(t *testing.T) {
	engine, token := newGuardTestEngine(t)
	router := newGinRouter(engine)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "alice" {
		t.Fatalf("expected 200 alice, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestGinRejectsMissingToken(t *testing.T) {
	engine, _ := newGuardTestEngine(t)
	router := newGinRouter(engine)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"unauthorized"}` {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if engine.MetricsSnapshot().Counters[authcore.MetricGateMissingToken] != 1 {
		t.Fatal("expected missing token counter")
	}
}
