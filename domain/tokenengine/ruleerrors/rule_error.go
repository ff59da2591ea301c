package ruleerrors

import (
	"fmt"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/pkg/errors"
)

// RuleError identifies a token rule violation. It is used to indicate that
// processing of a transaction failed due to one of the token validation
// rules. The caller can use type assertions on the wrapped inner error to
// determine which rule was violated and extract its details.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

// TokenFormatError indicates a malformed token field on a single UTXO:
// an out-of-range amount, an over-long commitment, or an undefined
// capability byte.
type TokenFormatError struct {
	Field  string
	Reason string
}

func (e TokenFormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewErrTokenFormat creates a new TokenFormatError wrapped in a RuleError
func NewErrTokenFormat(field string, reason string) error {
	return errors.WithStack(RuleError{
		message: "ErrTokenFormat",
		inner:   TokenFormatError{Field: field, Reason: reason},
	})
}

// UnknownCategoryError indicates a category that appears in the outputs of a
// transaction with neither genesis nor input provenance. Tokens cannot
// appear out of nowhere, so this is fatal to the transaction.
type UnknownCategoryError struct {
	Category externalapi.TokenCategoryID
}

func (e UnknownCategoryError) Error() string {
	return fmt.Sprintf("category %s is neither a genesis category nor present in any input", e.Category)
}

// NewErrUnknownCategory creates a new UnknownCategoryError wrapped in a RuleError
func NewErrUnknownCategory(category externalapi.TokenCategoryID) error {
	return errors.WithStack(RuleError{
		message: "ErrUnknownCategory",
		inner:   UnknownCategoryError{Category: category},
	})
}

// Reasons a capability transition can be rejected. These are stable strings
// carried inside CapabilityViolationError.
const (
	// ReasonMutableAuthorityExceeded is reported when a category whose
	// strongest input authority is Mutable produces more than one output
	// NFT, or any output NFT with Minting capability.
	ReasonMutableAuthorityExceeded = "mutable-authority-exceeded"

	// ReasonImmutableNFTMutatedOrFabricated is reported when, with no
	// Minting or Mutable authority, the output NFTs are not an exact
	// sub-multiset of the immutable input NFTs.
	ReasonImmutableNFTMutatedOrFabricated = "immutable-nft-mutated-or-fabricated"
)

// CapabilityViolationError indicates an illegal NFT authority escalation,
// excess output count, or fabricated commitment for a category.
type CapabilityViolationError struct {
	Category externalapi.TokenCategoryID
	Reason   string
}

func (e CapabilityViolationError) Error() string {
	return fmt.Sprintf("illegal NFT transition for category %s: %s", e.Category, e.Reason)
}

// NewErrCapabilityViolation creates a new CapabilityViolationError wrapped in a RuleError
func NewErrCapabilityViolation(category externalapi.TokenCategoryID, reason string) error {
	return errors.WithStack(RuleError{
		message: "ErrCapabilityViolation",
		inner:   CapabilityViolationError{Category: category, Reason: reason},
	})
}

// SupplyConservationError indicates fungible token amount created without
// genesis or minting authority.
type SupplyConservationError struct {
	Category  externalapi.TokenCategoryID
	InputSum  uint64
	OutputSum uint64
}

func (e SupplyConservationError) Error() string {
	return fmt.Sprintf("category %s outputs carry %d fungible tokens while its inputs carry only %d",
		e.Category, e.OutputSum, e.InputSum)
}

// NewErrSupplyConservation creates a new SupplyConservationError wrapped in a RuleError
func NewErrSupplyConservation(category externalapi.TokenCategoryID, inputSum uint64, outputSum uint64) error {
	return errors.WithStack(RuleError{
		message: "ErrSupplyConservation",
		inner:   SupplyConservationError{Category: category, InputSum: inputSum, OutputSum: outputSum},
	})
}

// AmountOverflowError indicates that a per-category amount sum exceeded the
// representable range. It is treated as a format-level defect in the
// transaction.
type AmountOverflowError struct {
	Category externalapi.TokenCategoryID
}

func (e AmountOverflowError) Error() string {
	return fmt.Sprintf("amount sum for category %s exceeds the maximum representable amount", e.Category)
}

// NewErrAmountOverflow creates a new AmountOverflowError wrapped in a RuleError
func NewErrAmountOverflow(category externalapi.TokenCategoryID) error {
	return errors.WithStack(RuleError{
		message: "ErrAmountOverflow",
		inner:   AmountOverflowError{Category: category},
	})
}
