package externalapi

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// TransactionIDSize of array used to store transaction IDs.
const TransactionIDSize = 32

// TransactionID is the domain representation of a transaction identifier.
// It is computed outside this engine and treated here as an opaque 32-byte
// value.
type TransactionID struct {
	idArray [TransactionIDSize]byte
}

// NewTransactionIDFromByteArray constructs a new TransactionID out of a byte array
func NewTransactionIDFromByteArray(idBytes *[TransactionIDSize]byte) *TransactionID {
	return &TransactionID{
		idArray: *idBytes,
	}
}

// NewTransactionIDFromByteSlice constructs a new TransactionID out of a byte slice.
// Returns an error if the length of the byte slice is not exactly
// `TransactionIDSize`
func NewTransactionIDFromByteSlice(idBytes []byte) (*TransactionID, error) {
	if len(idBytes) != TransactionIDSize {
		return nil, errors.Errorf("invalid transaction ID size. Want: %d, got: %d",
			TransactionIDSize, len(idBytes))
	}
	id := TransactionID{
		idArray: [TransactionIDSize]byte{},
	}
	copy(id.idArray[:], idBytes)
	return &id, nil
}

// NewTransactionIDFromString constructs a new TransactionID out of a hex string.
// Returns an error if the length of the string is not exactly
// `TransactionIDSize * 2`
func NewTransactionIDFromString(idString string) (*TransactionID, error) {
	expectedLength := TransactionIDSize * 2
	if len(idString) != expectedLength {
		return nil, errors.Errorf("transaction ID string length is %d, while it should be be %d",
			len(idString), expectedLength)
	}

	idBytes, err := hex.DecodeString(idString)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return NewTransactionIDFromByteSlice(idBytes)
}

// String returns the TransactionID as the hexadecimal string of the ID.
func (id TransactionID) String() string {
	return hex.EncodeToString(id.idArray[:])
}

// ByteArray returns the bytes in this transaction ID represented as a bytes array.
// The ID bytes are cloned, therefore it is safe to modify the resulting array.
func (id *TransactionID) ByteArray() *[TransactionIDSize]byte {
	arrayClone := id.idArray
	return &arrayClone
}

// ByteSlice returns the bytes in this transaction ID represented as a bytes slice.
// The ID bytes are cloned, therefore it is safe to modify the resulting slice.
func (id *TransactionID) ByteSlice() []byte {
	return id.ByteArray()[:]
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal accordingly.
var _ TransactionID = TransactionID{idArray: [TransactionIDSize]byte{}}

// Equal returns whether id equals to other
func (id *TransactionID) Equal(other *TransactionID) bool {
	if id == nil || other == nil {
		return id == other
	}

	return id.idArray == other.idArray
}
