package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MrEthical07/authcore"
	"github.com/MrEthical07/authcore/internal/config"
)

// secretEnv is consulted when --secret is not given.
const secretEnv = "AUTHCORE_SECRET"

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the authcore CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authcore",
		Short: "authcore - minimal credential and session token service",
		Long: `authcore registers users, checks passwords and issues signed
session tokens backed by a memory, mongo, postgres or redis credential store.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewTokenCmd())

	return cmd
}

// loadConfig resolves configuration for a subcommand whose flags were
// registered with config.RegisterFlags.
func loadConfig(fs *pflag.FlagSet) (authcore.Config, error) {
	if secret := os.Getenv(secretEnv); secret != "" && !fs.Changed("secret") {
		if err := fs.Set("secret", secret); err != nil {
			return authcore.Config{}, err
		}
	}
	return config.Load(configFile, fs)
}
