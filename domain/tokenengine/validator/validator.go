package validator

import (
	"fmt"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/capabilityvalidator"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/categoryresolver"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/supplyvalidator"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
	"github.com/cashtokens/cashtokend/domain/tokenengine/utils/nftmultiset"
)

// Validator decides whether the token state transition of a single
// transaction is legal. It is stateless and side-effect-free: any number of
// transactions may be validated concurrently through the same Validator.
type Validator struct {
	cfg Config
}

// New instantiates a new Validator for the given configuration. A nil
// configuration uses the protocol defaults. Invalid configurations are
// rejected here, before any transaction is processed.
func New(cfg *Config) (*Validator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Validator{cfg: *cfg}, nil
}

// VerdictReport is the complete outcome of validating one transaction. It is
// a pure function of the transaction value: identical input always yields an
// identical report, with violations listed in a deterministic order.
type VerdictReport struct {
	// Accepted is true iff Violations is empty.
	Accepted bool

	// Violations holds every rule violation found, in order: per-UTXO
	// format defects (inputs before outputs, each in transaction order),
	// then per-category violations in ascending category byte order.
	// Validation never stops at the first violation.
	Violations []error

	// Burns reports, per category, token value present in inputs but not
	// reproduced in outputs. Burning is legal; the records exist for
	// visibility even when the transaction is accepted.
	Burns map[externalapi.TokenCategoryID]*BurnRecord

	// Warnings holds advisory diagnostics, currently dust notices for
	// token-carrying outputs. Warnings never affect acceptance.
	Warnings []string
}

// BurnRecord describes what a transaction burns of one category.
type BurnRecord struct {
	AmountBurned uint64
	NFTsBurned   []*externalapi.TokenNFT
}

// Validate checks the token state transition of tx and reports every
// violation found in one pass. The transaction's inputs must already carry
// their resolved previous-output entries; inputs that don't are reported as
// format defects.
func (v *Validator) Validate(tx *externalapi.DomainTransaction) *VerdictReport {
	report := &VerdictReport{
		Burns: make(map[externalapi.TokenCategoryID]*BurnRecord),
	}

	for i, input := range tx.Inputs {
		field := fmt.Sprintf("input %d", i)
		if input.UTXOEntry == nil {
			report.Violations = append(report.Violations,
				ruleerrors.NewErrTokenFormat(field, "missing resolved previous output entry"))
			continue
		}
		err := v.checkTokenWellFormed(input.UTXOEntry.Token, field)
		if err != nil {
			report.Violations = append(report.Violations, err)
		}
	}
	for i, output := range tx.Outputs {
		err := v.checkTokenWellFormed(output.Token, fmt.Sprintf("output %d", i))
		if err != nil {
			report.Violations = append(report.Violations, err)
		}
		if output.Token != nil && output.Value < v.cfg.DustThreshold {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("output %d carries a token but pays only %d satoshis, below the dust threshold of %d",
					i, output.Value, v.cfg.DustThreshold))
		}
	}

	views := categoryresolver.Resolve(tx, v.cfg.MaxAmount)
	for _, view := range views {
		// A failing category never short-circuits the others; every
		// independently-pre-existing category is validated on its own.
		v.validateCategory(view, report)
		recordBurn(view, report)
	}

	report.Accepted = len(report.Violations) == 0
	log.Debugf("validated transaction %s: accepted=%t with %d violations over %d categories",
		tx.ID, report.Accepted, len(report.Violations), len(views))
	return report
}

func (v *Validator) validateCategory(view *categoryresolver.CategoryView, report *VerdictReport) {
	if !view.IsGenesis && !view.PresentInInputs {
		// A phantom category: it appears in outputs with no genesis or
		// input provenance. The other checks are meaningless for it.
		report.Violations = append(report.Violations, ruleerrors.NewErrUnknownCategory(view.Category))
		return
	}

	err := capabilityvalidator.ValidateTransition(view)
	if err != nil {
		report.Violations = append(report.Violations, err)
	}

	err = supplyvalidator.ValidateSupply(view)
	if err != nil {
		report.Violations = append(report.Violations, err)
	}
}

// recordBurn computes what the transaction burns of the category: fungible
// amount present in inputs but missing from outputs, and input NFTs not
// reproduced (exactly, by capability and commitment) in the outputs.
func recordBurn(view *categoryresolver.CategoryView, report *VerdictReport) {
	if !view.PresentInInputs {
		return
	}

	var amountBurned uint64
	if !view.InputSumOverflows && !view.OutputSumOverflows &&
		view.InputAmountSum > view.OutputAmountSum {
		amountBurned = view.InputAmountSum - view.OutputAmountSum
	}

	nftsBurned := nftmultiset.FromNFTs(view.InputNFTs).
		Subtract(nftmultiset.FromNFTs(view.OutputNFTs))

	if amountBurned == 0 && len(nftsBurned) == 0 {
		return
	}
	report.Burns[view.Category] = &BurnRecord{
		AmountBurned: amountBurned,
		NFTsBurned:   nftsBurned,
	}
}
