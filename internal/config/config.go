// Package config loads authcore.Config from defaults, an optional YAML file
// and command-line flags, in that order of precedence.
package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/MrEthical07/authcore"
)

// flagKeys maps CLI flag names to koanf keys. Flags not listed here are not
// configuration.
var flagKeys = map[string]string{
	"secret":          "secret",
	"storage-type":    "storage_type",
	"db-uri":          "db_uri",
	"jwt-ttl":         "jwt.ttl",
	"jwt-issuer":      "jwt.issuer",
	"jwt-audience":    "jwt.audience",
	"password-algo":   "password.algorithm",
	"auto-migrate":    "store.auto_migrate",
	"audit":           "audit.enabled",
	"latency-metrics": "metrics.enable_latency_histograms",
	"log-level":       "log.level",
	"log-format":      "log.format",
}

// RegisterFlags adds the configuration flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	defaults := authcore.DefaultConfig()

	fs.String("secret", "", "HMAC signing secret")
	fs.String("storage-type", string(defaults.StorageType), "credential store: memory, mongo, postgres or redis")
	fs.String("db-uri", "", "credential store connection URI")
	fs.Duration("jwt-ttl", defaults.JWT.TTL, "token lifetime, 0 for tokens that never expire")
	fs.String("jwt-issuer", defaults.JWT.Issuer, "token issuer claim")
	fs.String("jwt-audience", "", "token audience claim")
	fs.String("password-algo", defaults.Password.Algorithm, "password hasher: argon2id or bcrypt")
	fs.Bool("auto-migrate", defaults.Store.AutoMigrate, "apply postgres migrations on startup")
	fs.Bool("audit", defaults.Audit.Enabled, "emit audit events to the log")
	fs.Bool("latency-metrics", defaults.Metrics.EnableLatencyHistograms, "record verify latency histogram")
	fs.String("log-level", defaults.Log.Level, "log level")
	fs.String("log-format", defaults.Log.Format, "log format: json or console")
}

// Load builds a Config. path may be empty; fs may be nil. Only flags the user
// actually set override file values. The result is validated.
func Load(path string, fs *pflag.FlagSet) (authcore.Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return authcore.Config{}, oops.
				Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrapf(err, "read config file")
		}
	}

	if fs != nil {
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return authcore.Config{}, oops.
				Code("CONFIG_LOAD_FAILED").
				Wrapf(err, "read flags")
		}
	}

	cfg := authcore.DefaultConfig()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return authcore.Config{}, oops.
			Code("CONFIG_INVALID").
			Wrapf(err, "decode config")
	}
	cfg.StorageType = authcore.StorageType(strings.ToLower(string(cfg.StorageType)))

	if err := cfg.Validate(); err != nil {
		return authcore.Config{}, oops.
			Code("CONFIG_INVALID").
			Wrap(err)
	}
	return cfg, nil
}
