package authcore

import (
	"fmt"
	"net/url"
	"time"

	"github.com/MrEthical07/authcore/internal/validation"
)

// StorageType selects the credential store adapter opened by CreateAuth.
type StorageType string

const (
	StorageMemory   StorageType = "memory"
	StorageMongo    StorageType = "mongo"
	StoragePostgres StorageType = "postgres"
	StorageRedis    StorageType = "redis"
)

// Password hashing algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

const redactedValue = "[REDACTED]"

// Config is the process-wide configuration consumed once at construction.
// The Engine keeps a private copy; mutating a Config after Build has no effect.
//
// Secret, StorageType and DBURI are the required core. DBURI may be empty only
// for the memory store.
type Config struct {
	Secret      string         `koanf:"secret" validate:"required,notblank"`
	StorageType StorageType    `koanf:"storage_type" validate:"required,oneof=memory mongo postgres redis"`
	DBURI       string         `koanf:"db_uri" validate:"required_unless=StorageType memory"`
	JWT         JWTConfig      `koanf:"jwt"`
	Password    PasswordConfig `koanf:"password"`
	Store       StoreConfig    `koanf:"store"`
	Audit       AuditConfig    `koanf:"audit"`
	Metrics     MetricsConfig  `koanf:"metrics"`
	Log         LogConfig      `koanf:"log"`
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls token issuance. A TTL of zero issues tokens that never expire.
type JWTConfig struct {
	TTL           time.Duration `koanf:"ttl" validate:"gte=0"`
	SigningMethod string        `koanf:"signing_method" validate:"oneof=hs256 hs384 hs512"`
	Issuer        string        `koanf:"issuer"`
	Audience      string        `koanf:"audience"`
	Leeway        time.Duration `koanf:"leeway" validate:"gte=0"`
	MaxFutureIAT  time.Duration `koanf:"max_future_iat" validate:"gte=0"`
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig selects the hasher and the length policy enforced by Register.
// Lengths are counted in characters.
type PasswordConfig struct {
	Algorithm   string `koanf:"algorithm" validate:"oneof=argon2id bcrypt"`
	Memory      uint32 `koanf:"memory"` // in KB
	Time        uint32 `koanf:"time"`
	Parallelism uint8  `koanf:"parallelism"`
	SaltLength  uint32 `koanf:"salt_length"`
	KeyLength   uint32 `koanf:"key_length"`
	BcryptCost  int    `koanf:"bcrypt_cost"`
	MinLength   int    `koanf:"min_length" validate:"gte=1"`
	MaxLength   int    `koanf:"max_length" validate:"gtefield=MinLength"`
}

/*
====================================
STORE CONFIG
====================================
*/

// StoreConfig carries adapter-specific settings. Fields irrelevant to the
// selected StorageType are ignored.
type StoreConfig struct {
	Database       string        `koanf:"database"`
	Collection     string        `koanf:"collection"`
	KeyPrefix      string        `koanf:"key_prefix"`
	AutoMigrate    bool          `koanf:"auto_migrate"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool `koanf:"enabled"`
	BufferSize int  `koanf:"buffer_size" validate:"gte=0"`
	DropIfFull bool `koanf:"drop_if_full"`
}

// MetricsConfig controls in-process counters and the verify latency histogram.
type MetricsConfig struct {
	Enabled                 bool `koanf:"enabled"`
	EnableLatencyHistograms bool `koanf:"enable_latency_histograms"`
}

// LogConfig configures the logger built by CreateAuth.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// DefaultConfig returns a configuration with every optional field populated.
// Secret and StorageType still need to be set by the caller.
func DefaultConfig() Config {
	return Config{
		StorageType: StorageMemory,
		JWT: JWTConfig{
			TTL:           time.Hour,
			SigningMethod: "hs256",
			Issuer:        "authcore",
			MaxFutureIAT:  10 * time.Minute,
		},
		Password: PasswordConfig{
			Algorithm:   AlgorithmArgon2id,
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
			BcryptCost:  12,
			MinLength:   1,
			MaxLength:   1024,
		},
		Store: StoreConfig{
			Database:       "authcore",
			Collection:     "credentials",
			KeyPrefix:      "authcore",
			AutoMigrate:    true,
			ConnectTimeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate checks the configuration and reports every violation wrapped in
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.StorageType != StorageMemory {
		u, err := url.Parse(c.DBURI)
		// "host:port" parses as scheme "host" with an opaque port.
		if err != nil || u.Scheme == "" || u.Opaque != "" {
			return fmt.Errorf("%w: db_uri must be a URI with a scheme", ErrInvalidConfig)
		}
	}
	if c.JWT.Leeway > 2*time.Minute {
		return fmt.Errorf("%w: jwt.leeway must be <= 2m", ErrInvalidConfig)
	}
	if c.Password.Algorithm == AlgorithmBcrypt && c.Password.MaxLength > 72 {
		return fmt.Errorf("%w: password.max_length must be <= 72 for bcrypt", ErrInvalidConfig)
	}
	return nil
}

// Redacted returns a copy safe to log: the secret is masked and any password
// embedded in DBURI is replaced.
func (c Config) Redacted() Config {
	out := c
	if out.Secret != "" {
		out.Secret = redactedValue
	}
	if out.DBURI != "" {
		if u, err := url.Parse(out.DBURI); err == nil {
			out.DBURI = u.Redacted()
		} else {
			out.DBURI = redactedValue
		}
	}
	return out
}
