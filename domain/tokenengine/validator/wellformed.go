package validator

import (
	"fmt"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
)

// ValidateUTXOWellFormed checks the token fields of a single UTXO entry
// against the engine's configuration: amount range, commitment length, and
// capability byte validity. Category length needs no runtime check because
// TokenCategoryID is a fixed 32-byte value decoded once at the model
// boundary. The returned error, if any, wraps a TokenFormatError.
func (v *Validator) ValidateUTXOWellFormed(entry *externalapi.UTXOEntry) error {
	if entry == nil {
		return ruleerrors.NewErrTokenFormat("utxo", "entry is nil")
	}
	return v.checkTokenWellFormed(entry.Token, "utxo")
}

func (v *Validator) checkTokenWellFormed(token *externalapi.TokenData, field string) error {
	if token == nil {
		return nil
	}

	if token.Amount > v.cfg.MaxAmount {
		return ruleerrors.NewErrTokenFormat(field,
			fmt.Sprintf("token amount %d exceeds the maximum of %d", token.Amount, v.cfg.MaxAmount))
	}

	if token.NFT == nil {
		if token.Amount == 0 {
			return ruleerrors.NewErrTokenFormat(field, "token carries neither a fungible amount nor an NFT")
		}
		return nil
	}

	if !token.NFT.Capability.IsValid() {
		return ruleerrors.NewErrTokenFormat(field,
			fmt.Sprintf("undefined capability byte %d", byte(token.NFT.Capability)))
	}
	if len(token.NFT.Commitment) > v.cfg.MaxCommitmentLength {
		return ruleerrors.NewErrTokenFormat(field,
			fmt.Sprintf("commitment length %d exceeds the maximum of %d",
				len(token.NFT.Commitment), v.cfg.MaxCommitmentLength))
	}
	return nil
}
