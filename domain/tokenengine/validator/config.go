package validator

import (
	"github.com/cashtokens/cashtokend/domain/tokenengine/utils/constants"
	"github.com/pkg/errors"
)

// Config holds the protocol-version constants the engine validates against.
// It is passed in explicitly rather than read from process-wide state, so
// different protocol versions (e.g. pre/post a commitment-length upgrade)
// can be validated concurrently in the same process.
type Config struct {
	// MaxCommitmentLength is the upper bound on NFT commitment length in
	// bytes.
	MaxCommitmentLength int

	// MaxAmount is the maximum fungible amount for a single output and
	// for per-category sums.
	MaxAmount uint64

	// DustThreshold is the satoshi value under which a token-carrying
	// output draws an advisory warning. It never affects acceptance.
	DustThreshold uint64
}

// DefaultConfig returns a Config carrying the current protocol defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxCommitmentLength: constants.DefaultMaxCommitmentLength,
		MaxAmount:           constants.MaxTokenAmount,
		DustThreshold:       constants.DefaultDustThreshold,
	}
}

// validateConfig rejects configurations that no transaction could ever
// satisfy. Misconfiguration is a programming error and surfaces here, at
// construction, never during validation.
func validateConfig(cfg *Config) error {
	if cfg.MaxCommitmentLength < 0 {
		return errors.Errorf("MaxCommitmentLength is %d, but it may not be negative", cfg.MaxCommitmentLength)
	}
	if cfg.MaxAmount == 0 {
		return errors.New("MaxAmount may not be zero")
	}
	if cfg.MaxAmount > constants.MaxTokenAmount {
		return errors.Errorf("MaxAmount is %d, which exceeds the protocol maximum of %d",
			cfg.MaxAmount, constants.MaxTokenAmount)
	}
	return nil
}
