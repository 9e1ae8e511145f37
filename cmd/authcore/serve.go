package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/authcore"
	"github.com/MrEthical07/authcore/internal/config"
	"github.com/MrEthical07/authcore/internal/logging"
	"github.com/MrEthical07/authcore/metrics/export/prometheus"
	"github.com/MrEthical07/authcore/middleware"
	"github.com/MrEthical07/authcore/store"
)

const (
	shutdownTimeout = 10 * time.Second
	storeDialTries  = 5
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP register/login/verify service",
		Long: `Run an HTTP service exposing POST /register, POST /login, a gated
GET /me, GET /healthz and Prometheus metrics on GET /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, cfg authcore.Config, addr string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "authcore",
	})
	logger.Info().Interface("config", cfg.Redacted()).Msg("starting")

	credentials, err := dialStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closer, ok := credentials.(store.Closer); ok {
			_ = closer.Close(context.Background())
		}
	}()

	engine, err := authcore.New().
		WithConfig(cfg).
		WithStore(credentials).
		WithLogger(logger).
		Build()
	if err != nil {
		return oops.Code("ENGINE_BUILD_FAILED").Wrap(err)
	}
	defer engine.Close(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(engine, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return oops.Code("SERVE_FAILED").With("addr", addr).Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// dialStore opens the configured store, retrying while it is unreachable.
func dialStore(ctx context.Context, cfg authcore.Config, logger zerolog.Logger) (authcore.CredentialStore, error) {
	var credentials authcore.CredentialStore

	backoff := retry.WithMaxRetries(storeDialTries-1, retry.NewExponential(250*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		s, err := authcore.OpenStore(ctx, cfg)
		if errors.Is(err, authcore.ErrStoreUnavailable) {
			logger.Warn().Err(err).Str("storage_type", string(cfg.StorageType)).Msg("credential store not reachable, retrying")
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		credentials = s
		return nil
	})
	if err != nil {
		return nil, oops.Code("STORE_DIAL_FAILED").With("storage_type", cfg.StorageType).Wrap(err)
	}
	return credentials, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func newRouter(engine *authcore.Engine, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/register", func(c *gin.Context) {
		var body credentialsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
		if err := engine.Register(c.Request.Context(), body.Username, body.Password); err != nil {
			status, msg := registerStatus(err)
			c.JSON(status, gin.H{"error": msg})
			return
		}
		c.Status(http.StatusCreated)
	})

	r.POST("/login", func(c *gin.Context) {
		var body credentialsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
		token, err := engine.Login(c.Request.Context(), body.Username, body.Password)
		if errors.Is(err, authcore.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	r.GET("/me", middleware.Gin(engine, middleware.WithLogger(logger)), func(c *gin.Context) {
		claims, _ := authcore.ClaimsFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"username":   claims.Username(),
			"token_id":   claims.TokenID,
			"issued_at":  claims.IssuedAt,
			"expires_at": claims.ExpiresAt,
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := engine.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(prometheus.NewPrometheusExporter(engine).Handler()))

	return r
}

func registerStatus(err error) (int, string) {
	switch {
	case errors.Is(err, authcore.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, authcore.ErrDuplicateUser):
		return http.StatusConflict, "user already exists"
	default:
		return http.StatusServiceUnavailable, "unavailable"
	}
}
