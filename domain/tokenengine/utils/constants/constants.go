package constants

import "math"

const (
	// DefaultMaxCommitmentLength is the protocol's current upper bound on
	// NFT commitment length in bytes. The bound is protocol-versioned, so
	// it is carried in the engine configuration rather than read from here
	// directly; this is only the default.
	DefaultMaxCommitmentLength = 40

	// MaxTokenAmount is the maximum fungible token amount representable by
	// the protocol, for a single output as well as for per-category sums.
	MaxTokenAmount uint64 = math.MaxInt64

	// DefaultDustThreshold is the satoshi value under which a
	// token-carrying output draws an advisory warning. It is never
	// enforced by the engine.
	DefaultDustThreshold uint64 = 546
)
