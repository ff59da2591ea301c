package externalapi

import (
	"bytes"
	"encoding/hex"

	"github.com/pkg/errors"
)

// TokenCategoryIDSize of array used to store token category IDs. A category
// equals the transaction ID of its genesis transaction, so the two sizes
// always agree.
const TokenCategoryIDSize = 32

// TokenCategoryID identifies a token category. Two categories are the same
// category if and only if their bytes are equal.
type TokenCategoryID struct {
	categoryArray [TokenCategoryIDSize]byte
}

// NewTokenCategoryIDFromByteArray constructs a new TokenCategoryID out of a byte array
func NewTokenCategoryIDFromByteArray(categoryBytes *[TokenCategoryIDSize]byte) *TokenCategoryID {
	return &TokenCategoryID{
		categoryArray: *categoryBytes,
	}
}

// NewTokenCategoryIDFromByteSlice constructs a new TokenCategoryID out of a byte slice.
// Returns an error if the length of the byte slice is not exactly
// `TokenCategoryIDSize`
func NewTokenCategoryIDFromByteSlice(categoryBytes []byte) (*TokenCategoryID, error) {
	if len(categoryBytes) != TokenCategoryIDSize {
		return nil, errors.Errorf("invalid token category ID size. Want: %d, got: %d",
			TokenCategoryIDSize, len(categoryBytes))
	}
	category := TokenCategoryID{
		categoryArray: [TokenCategoryIDSize]byte{},
	}
	copy(category.categoryArray[:], categoryBytes)
	return &category, nil
}

// NewTokenCategoryIDFromTransactionID constructs the TokenCategoryID carrying
// the exact bytes of the given transaction ID. An output carrying this
// category in the transaction identified by transactionID is a genesis
// output.
func NewTokenCategoryIDFromTransactionID(transactionID *TransactionID) *TokenCategoryID {
	return NewTokenCategoryIDFromByteArray(transactionID.ByteArray())
}

// String returns the TokenCategoryID as the hexadecimal string of the category.
func (category TokenCategoryID) String() string {
	return hex.EncodeToString(category.categoryArray[:])
}

// ByteSlice returns the bytes in this category represented as a bytes slice.
// The category bytes are cloned, therefore it is safe to modify the resulting slice.
func (category *TokenCategoryID) ByteSlice() []byte {
	arrayClone := category.categoryArray
	return arrayClone[:]
}

// Less returns whether category is smaller than other in the ascending
// byte ordering used to process categories deterministically.
func (category *TokenCategoryID) Less(other *TokenCategoryID) bool {
	return bytes.Compare(category.categoryArray[:], other.categoryArray[:]) < 0
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal accordingly.
var _ TokenCategoryID = TokenCategoryID{categoryArray: [TokenCategoryIDSize]byte{}}

// Equal returns whether category equals to other
func (category *TokenCategoryID) Equal(other *TokenCategoryID) bool {
	if category == nil || other == nil {
		return category == other
	}

	return category.categoryArray == other.categoryArray
}

// EqualsTransactionID returns whether the category bytes equal the given
// transaction ID bytes. This is the genesis test: a category introduced by a
// transaction carries that transaction's own ID.
func (category *TokenCategoryID) EqualsTransactionID(transactionID *TransactionID) bool {
	if category == nil || transactionID == nil {
		return false
	}

	return category.categoryArray == transactionID.idArray
}

// TokenCapability is the authority level attached to an NFT, governing what
// its spend may legally produce. Capabilities are totally ordered by
// authority: CapabilityNone < CapabilityMutable < CapabilityMinting.
type TokenCapability byte

const (
	// CapabilityNone marks an immutable NFT. Its spend may only reproduce
	// it unchanged.
	CapabilityNone TokenCapability = iota

	// CapabilityMutable allows the spend to replace the NFT with a single
	// NFT of the same category carrying any commitment.
	CapabilityMutable

	// CapabilityMinting allows the spend to create any token state for the
	// category.
	CapabilityMinting
)

var capabilityStrings = map[TokenCapability]string{
	CapabilityNone:    "none",
	CapabilityMutable: "mutable",
	CapabilityMinting: "minting",
}

// String returns the TokenCapability as a human-readable string.
func (capability TokenCapability) String() string {
	capabilityString, ok := capabilityStrings[capability]
	if !ok {
		return "unknown"
	}
	return capabilityString
}

// IsValid returns whether the capability byte is one of the three defined
// capability values.
func (capability TokenCapability) IsValid() bool {
	_, ok := capabilityStrings[capability]
	return ok
}

// TokenNFT is the non-fungible part of a token: a capability plus an opaque
// commitment payload.
type TokenNFT struct {
	Capability TokenCapability
	Commitment []byte
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &TokenNFT{0, []byte{}}

// Equal returns whether nft equals to other
func (nft *TokenNFT) Equal(other *TokenNFT) bool {
	if nft == nil || other == nil {
		return nft == other
	}

	return nft.Capability == other.Capability &&
		bytes.Equal(nft.Commitment, other.Commitment)
}

// Clone returns a clone of TokenNFT
func (nft *TokenNFT) Clone() *TokenNFT {
	if nft == nil {
		return nil
	}

	commitmentClone := make([]byte, len(nft.Commitment))
	copy(commitmentClone, nft.Commitment)

	return &TokenNFT{
		Capability: nft.Capability,
		Commitment: commitmentClone,
	}
}

// String returns a human-readable rendering of the NFT for diagnostics.
func (nft *TokenNFT) String() string {
	return "NFT{" + nft.Capability.String() + ", commitment=" + hex.EncodeToString(nft.Commitment) + "}"
}

// TokenData is the token payload of an output: a category, a fungible
// amount, and an optional NFT. A TokenData with a nil NFT and a positive
// amount is purely fungible; one with an NFT and amount zero is a pure NFT;
// both parts may coexist in a single output.
type TokenData struct {
	Category TokenCategoryID
	Amount   uint64
	NFT      *TokenNFT
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &TokenData{TokenCategoryID{}, 0, &TokenNFT{}}

// Equal returns whether token equals to other
func (token *TokenData) Equal(other *TokenData) bool {
	if token == nil || other == nil {
		return token == other
	}

	return token.Category.Equal(&other.Category) &&
		token.Amount == other.Amount &&
		token.NFT.Equal(other.NFT)
}

// Clone returns a clone of TokenData
func (token *TokenData) Clone() *TokenData {
	if token == nil {
		return nil
	}

	return &TokenData{
		Category: token.Category,
		Amount:   token.Amount,
		NFT:      token.NFT.Clone(),
	}
}
