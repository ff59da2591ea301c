package externalapi

import (
	"bytes"
	"fmt"
)

// DomainTransaction represents the parts of a transaction that token
// validation operates on: its own ID (computed externally and supplied by the
// caller) and its inputs and outputs. Script, locktime and fee handling are
// out of scope and intentionally absent.
type DomainTransaction struct {
	ID      TransactionID
	Inputs  []*DomainTransactionInput
	Outputs []*DomainTransactionOutput
}

// DomainTransactionInput represents a transaction input along with the
// already-resolved entry of the output it spends. Resolving the previous
// output is the caller's responsibility; validation fails inputs whose
// UTXOEntry is nil.
type DomainTransactionInput struct {
	PreviousOutpoint DomainOutpoint

	UTXOEntry *UTXOEntry
}

// DomainOutpoint represents a reference to a transaction output
type DomainOutpoint struct {
	TransactionID TransactionID
	Index         uint32
}

// String stringifies an outpoint.
func (op DomainOutpoint) String() string {
	return fmt.Sprintf("%s:%d", op.TransactionID, op.Index)
}

// Equal returns whether op equals to other
func (op *DomainOutpoint) Equal(other *DomainOutpoint) bool {
	if op == nil || other == nil {
		return op == other
	}

	return op.TransactionID.Equal(&other.TransactionID) &&
		op.Index == other.Index
}

// DomainTransactionOutput represents a proposed, not-yet-validated
// transaction output.
type DomainTransactionOutput struct {
	Value           uint64
	ScriptPublicKey []byte
	Token           *TokenData
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &DomainTransaction{TransactionID{}, []*DomainTransactionInput{}, []*DomainTransactionOutput{}}

// Equal returns whether tx equals to other
func (tx *DomainTransaction) Equal(other *DomainTransaction) bool {
	if tx == nil || other == nil {
		return tx == other
	}

	if !tx.ID.Equal(&other.ID) {
		return false
	}

	if len(tx.Inputs) != len(other.Inputs) {
		return false
	}
	for i, input := range tx.Inputs {
		if !input.Equal(other.Inputs[i]) {
			return false
		}
	}

	if len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i, output := range tx.Outputs {
		if !output.Equal(other.Outputs[i]) {
			return false
		}
	}

	return true
}

// Clone returns a clone of DomainTransaction
func (tx *DomainTransaction) Clone() *DomainTransaction {
	if tx == nil {
		return nil
	}

	inputsClone := make([]*DomainTransactionInput, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputsClone[i] = input.Clone()
	}

	outputsClone := make([]*DomainTransactionOutput, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputsClone[i] = output.Clone()
	}

	return &DomainTransaction{
		ID:      tx.ID,
		Inputs:  inputsClone,
		Outputs: outputsClone,
	}
}

// Equal returns whether input equals to other
func (input *DomainTransactionInput) Equal(other *DomainTransactionInput) bool {
	if input == nil || other == nil {
		return input == other
	}

	return input.PreviousOutpoint.Equal(&other.PreviousOutpoint) &&
		input.UTXOEntry.Equal(other.UTXOEntry)
}

// Clone returns a clone of DomainTransactionInput
func (input *DomainTransactionInput) Clone() *DomainTransactionInput {
	if input == nil {
		return nil
	}

	return &DomainTransactionInput{
		PreviousOutpoint: input.PreviousOutpoint,
		UTXOEntry:        input.UTXOEntry.Clone(),
	}
}

// Equal returns whether output equals to other
func (output *DomainTransactionOutput) Equal(other *DomainTransactionOutput) bool {
	if output == nil || other == nil {
		return output == other
	}

	return output.Value == other.Value &&
		bytes.Equal(output.ScriptPublicKey, other.ScriptPublicKey) &&
		output.Token.Equal(other.Token)
}

// Clone returns a clone of DomainTransactionOutput
func (output *DomainTransactionOutput) Clone() *DomainTransactionOutput {
	if output == nil {
		return nil
	}

	scriptPublicKeyClone := make([]byte, len(output.ScriptPublicKey))
	copy(scriptPublicKeyClone, output.ScriptPublicKey)

	return &DomainTransactionOutput{
		Value:           output.Value,
		ScriptPublicKey: scriptPublicKeyClone,
		Token:           output.Token.Clone(),
	}
}
