package supplyvalidator

import (
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/categoryresolver"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
)

// ValidateSupply enforces per-category fungible amount accounting.
//
// A sum that exceeded the representable range is an AmountOverflow defect no
// matter what authority the transaction holds. Otherwise, genesis and
// Minting-capability inputs make the output sum unconstrained (initial mint
// and fungible issuance respectively); without them the outputs must not
// carry more than the inputs. Carrying strictly less is a partial burn,
// which is legal and left to the pipeline to report.
func ValidateSupply(view *categoryresolver.CategoryView) error {
	if view.InputSumOverflows || view.OutputSumOverflows {
		return ruleerrors.NewErrAmountOverflow(view.Category)
	}

	if view.IsGenesis || view.HasMintingInput() {
		return nil
	}

	if view.OutputAmountSum > view.InputAmountSum {
		return ruleerrors.NewErrSupplyConservation(view.Category, view.InputAmountSum, view.OutputAmountSum)
	}
	return nil
}
