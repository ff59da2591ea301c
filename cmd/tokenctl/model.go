package main

import (
	"encoding/hex"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/validator"
	"github.com/pkg/errors"
)

// The JSON schema tokenctl accepts. IDs, categories, scripts and commitments
// are hex strings; a missing utxoEntry on an input means the entry is
// resolved through the UTXO index.

type transactionJSON struct {
	ID      string        `json:"id"`
	Inputs  []*inputJSON  `json:"inputs"`
	Outputs []*outputJSON `json:"outputs"`
}

type inputJSON struct {
	PreviousTransactionID string         `json:"previousTransactionId"`
	PreviousIndex         uint32         `json:"previousIndex"`
	UTXOEntry             *utxoEntryJSON `json:"utxoEntry,omitempty"`
}

type utxoEntryJSON struct {
	Amount          uint64     `json:"amount"`
	ScriptPublicKey string     `json:"scriptPublicKey,omitempty"`
	Token           *tokenJSON `json:"token,omitempty"`
}

type outputJSON struct {
	Value           uint64     `json:"value"`
	ScriptPublicKey string     `json:"scriptPublicKey,omitempty"`
	Token           *tokenJSON `json:"token,omitempty"`
}

type tokenJSON struct {
	Category string   `json:"category"`
	Amount   uint64   `json:"amount"`
	NFT      *nftJSON `json:"nft,omitempty"`
}

type nftJSON struct {
	Capability string `json:"capability"`
	Commitment string `json:"commitment,omitempty"`
}

type storedUTXOJSON struct {
	TransactionID string         `json:"transactionId"`
	Index         uint32         `json:"index"`
	UTXOEntry     *utxoEntryJSON `json:"utxoEntry"`
}

type verdictReportJSON struct {
	TransactionID string                     `json:"transactionId"`
	Accepted      bool                       `json:"accepted"`
	Violations    []string                   `json:"violations,omitempty"`
	Warnings      []string                   `json:"warnings,omitempty"`
	Burns         map[string]*burnRecordJSON `json:"burns,omitempty"`
}

type burnRecordJSON struct {
	AmountBurned uint64     `json:"amountBurned"`
	NFTsBurned   []*nftJSON `json:"nftsBurned,omitempty"`
}

func (txJSON *transactionJSON) toDomain() (*externalapi.DomainTransaction, error) {
	id, err := externalapi.NewTransactionIDFromString(txJSON.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid transaction id")
	}

	tx := &externalapi.DomainTransaction{ID: *id}
	for i, input := range txJSON.Inputs {
		previousID, err := externalapi.NewTransactionIDFromString(input.PreviousTransactionID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid previous transaction id on input %d", i)
		}
		domainInput := &externalapi.DomainTransactionInput{
			PreviousOutpoint: externalapi.DomainOutpoint{
				TransactionID: *previousID,
				Index:         input.PreviousIndex,
			},
		}
		if input.UTXOEntry != nil {
			domainInput.UTXOEntry, err = input.UTXOEntry.toDomain()
			if err != nil {
				return nil, errors.Wrapf(err, "invalid UTXO entry on input %d", i)
			}
		}
		tx.Inputs = append(tx.Inputs, domainInput)
	}
	for i, output := range txJSON.Outputs {
		scriptPublicKey, err := hex.DecodeString(output.ScriptPublicKey)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid script on output %d", i)
		}
		token, err := output.Token.toDomain()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid token on output %d", i)
		}
		tx.Outputs = append(tx.Outputs, &externalapi.DomainTransactionOutput{
			Value:           output.Value,
			ScriptPublicKey: scriptPublicKey,
			Token:           token,
		})
	}
	return tx, nil
}

func (entryJSON *utxoEntryJSON) toDomain() (*externalapi.UTXOEntry, error) {
	scriptPublicKey, err := hex.DecodeString(entryJSON.ScriptPublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid script")
	}
	token, err := entryJSON.Token.toDomain()
	if err != nil {
		return nil, err
	}
	return &externalapi.UTXOEntry{
		Amount:          entryJSON.Amount,
		ScriptPublicKey: scriptPublicKey,
		Token:           token,
	}, nil
}

func (token *tokenJSON) toDomain() (*externalapi.TokenData, error) {
	if token == nil {
		return nil, nil
	}
	categoryBytes, err := hex.DecodeString(token.Category)
	if err != nil {
		return nil, errors.Wrap(err, "invalid category")
	}
	category, err := externalapi.NewTokenCategoryIDFromByteSlice(categoryBytes)
	if err != nil {
		return nil, errors.Wrap(err, "invalid category")
	}
	domainToken := &externalapi.TokenData{
		Category: *category,
		Amount:   token.Amount,
	}
	if token.NFT != nil {
		capability, err := capabilityFromString(token.NFT.Capability)
		if err != nil {
			return nil, err
		}
		commitment, err := hex.DecodeString(token.NFT.Commitment)
		if err != nil {
			return nil, errors.Wrap(err, "invalid commitment")
		}
		domainToken.NFT = &externalapi.TokenNFT{
			Capability: capability,
			Commitment: commitment,
		}
	}
	return domainToken, nil
}

func capabilityFromString(capability string) (externalapi.TokenCapability, error) {
	switch capability {
	case "", "none":
		return externalapi.CapabilityNone, nil
	case "mutable":
		return externalapi.CapabilityMutable, nil
	case "minting":
		return externalapi.CapabilityMinting, nil
	default:
		return 0, errors.Errorf("unknown capability %q", capability)
	}
}

func reportToJSON(tx *externalapi.DomainTransaction, report *validator.VerdictReport) *verdictReportJSON {
	reportJSON := &verdictReportJSON{
		TransactionID: tx.ID.String(),
		Accepted:      report.Accepted,
		Warnings:      report.Warnings,
	}
	for _, violation := range report.Violations {
		reportJSON.Violations = append(reportJSON.Violations, violation.Error())
	}
	if len(report.Burns) > 0 {
		reportJSON.Burns = make(map[string]*burnRecordJSON, len(report.Burns))
		for category, burn := range report.Burns {
			burnJSON := &burnRecordJSON{AmountBurned: burn.AmountBurned}
			for _, nft := range burn.NFTsBurned {
				burnJSON.NFTsBurned = append(burnJSON.NFTsBurned, &nftJSON{
					Capability: nft.Capability.String(),
					Commitment: hex.EncodeToString(nft.Commitment),
				})
			}
			reportJSON.Burns[category.String()] = burnJSON
		}
	}
	return reportJSON
}
