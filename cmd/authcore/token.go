package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/authcore"
	"github.com/MrEthical07/authcore/internal/config"
)

// NewTokenCmd creates the token subcommand.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Inspect session tokens",
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token against the configured secret and print its claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runTokenVerify(cmd, cfg, args[0])
		},
	})

	return cmd
}

type tokenClaims struct {
	Username  string    `json:"username"`
	TokenID   string    `json:"token_id"`
	Issuer    string    `json:"issuer,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func runTokenVerify(cmd *cobra.Command, cfg authcore.Config, token string) error {
	// Verification never reads credentials, so no store connection is opened.
	cfg.StorageType = authcore.StorageMemory
	cfg.DBURI = ""
	cfg.Log.Level = "disabled"

	engine, err := authcore.New().WithConfig(cfg).Build()
	if err != nil {
		return err
	}
	defer engine.Close(context.Background())

	claims, err := engine.Verify(cmd.Context(), token)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(tokenClaims{
		Username:  claims.Username(),
		TokenID:   claims.TokenID,
		Issuer:    claims.Issuer,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	})
}
