package authcore

import "time"

const minRecommendedSecretBytes = 32

// SecurityReport summarises the security-relevant settings an Engine was
// built with. It never includes the secret itself.
type SecurityReport struct {
	SigningAlgorithm  string
	TokenTTL          time.Duration
	TokensExpire      bool
	Issuer            string
	Audience          string
	Leeway            time.Duration
	PasswordAlgorithm string
	Argon2            PasswordConfigReport
	BcryptCost        int
	MinPasswordLength int
	MaxPasswordLength int
	StorageType       StorageType
	WeakSecret        bool
	AuditEnabled      bool
	MetricsEnabled    bool
}

type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	report := SecurityReport{
		SigningAlgorithm:  e.tokens.Algorithm(),
		TokenTTL:          e.config.JWT.TTL,
		TokensExpire:      e.config.JWT.TTL > 0,
		Issuer:            e.config.JWT.Issuer,
		Audience:          e.config.JWT.Audience,
		Leeway:            e.config.JWT.Leeway,
		PasswordAlgorithm: e.config.Password.Algorithm,
		MinPasswordLength: e.config.Password.MinLength,
		MaxPasswordLength: e.config.Password.MaxLength,
		StorageType:       e.config.StorageType,
		WeakSecret:        len(e.config.Secret) < minRecommendedSecretBytes,
		AuditEnabled:      e.config.Audit.Enabled,
		MetricsEnabled:    e.metrics.Enabled(),
	}

	if report.PasswordAlgorithm == AlgorithmBcrypt {
		report.BcryptCost = e.config.Password.BcryptCost
	} else {
		report.Argon2 = PasswordConfigReport{
			Memory:      e.config.Password.Memory,
			Time:        e.config.Password.Time,
			Parallelism: e.config.Password.Parallelism,
			SaltLength:  e.config.Password.SaltLength,
			KeyLength:   e.config.Password.KeyLength,
		}
	}
	return report
}
