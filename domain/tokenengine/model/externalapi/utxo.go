package externalapi

import "bytes"

// UTXOEntry houses the details of an individual transaction output that the
// validation engine needs: how much it pays, its locking script, and the
// token data it carries, if any. Script interpretation is outside this
// engine; the script bytes are carried opaquely.
type UTXOEntry struct {
	Amount          uint64 // Utxo amount in satoshis
	ScriptPublicKey []byte
	Token           *TokenData
}

// If this doesn't compile, it means the type definition has been changed, so it's
// an indication to update Equal and Clone accordingly.
var _ = &UTXOEntry{0, []byte{}, &TokenData{}}

// Equal returns whether entry equals to other
func (entry *UTXOEntry) Equal(other *UTXOEntry) bool {
	if entry == nil || other == nil {
		return entry == other
	}

	return entry.Amount == other.Amount &&
		bytes.Equal(entry.ScriptPublicKey, other.ScriptPublicKey) &&
		entry.Token.Equal(other.Token)
}

// Clone returns a clone of UTXOEntry
func (entry *UTXOEntry) Clone() *UTXOEntry {
	if entry == nil {
		return nil
	}

	scriptPublicKeyClone := make([]byte, len(entry.ScriptPublicKey))
	copy(scriptPublicKeyClone, entry.ScriptPublicKey)

	return &UTXOEntry{
		Amount:          entry.Amount,
		ScriptPublicKey: scriptPublicKeyClone,
		Token:           entry.Token.Clone(),
	}
}
