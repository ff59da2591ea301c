package supplyvalidator_test

import (
	"testing"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/categoryresolver"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/supplyvalidator"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
	"github.com/pkg/errors"
)

func TestValidateSupply(t *testing.T) {
	mintingNFT := &externalapi.TokenNFT{Capability: externalapi.CapabilityMinting}

	tests := []struct {
		name        string
		view        *categoryresolver.CategoryView
		expectedErr error
	}{
		{
			name: "pure transfer",
			view: &categoryresolver.CategoryView{
				PresentInInputs: true, InputAmountSum: 100, OutputAmountSum: 100,
			},
		},
		{
			name: "partial burn is legal",
			view: &categoryresolver.CategoryView{
				PresentInInputs: true, InputAmountSum: 100, OutputAmountSum: 60,
			},
		},
		{
			name: "inflation without authority",
			view: &categoryresolver.CategoryView{
				PresentInInputs: true, InputAmountSum: 100, OutputAmountSum: 101,
			},
			expectedErr: ruleerrors.SupplyConservationError{},
		},
		{
			name: "genesis mints freely",
			view: &categoryresolver.CategoryView{
				IsGenesis: true, OutputAmountSum: 1 << 60,
			},
		},
		{
			name: "minting authority mints freely",
			view: &categoryresolver.CategoryView{
				PresentInInputs: true,
				InputNFTs:       []*externalapi.TokenNFT{mintingNFT},
				InputAmountSum:  1,
				OutputAmountSum: 1 << 60,
			},
		},
		{
			name: "input sum overflow",
			view: &categoryresolver.CategoryView{
				PresentInInputs: true, InputSumOverflows: true,
			},
			expectedErr: ruleerrors.AmountOverflowError{},
		},
		{
			name: "output sum overflow trumps minting authority",
			view: &categoryresolver.CategoryView{
				PresentInInputs:    true,
				InputNFTs:          []*externalapi.TokenNFT{mintingNFT},
				OutputSumOverflows: true,
			},
			expectedErr: ruleerrors.AmountOverflowError{},
		},
	}

	for _, test := range tests {
		err := supplyvalidator.ValidateSupply(test.view)
		if test.expectedErr == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error: %+v", test.name, err)
			}
			continue
		}

		switch test.expectedErr.(type) {
		case ruleerrors.SupplyConservationError:
			var violation ruleerrors.SupplyConservationError
			if !errors.As(err, &violation) {
				t.Fatalf("%s: expected a SupplyConservationError, got: %+v", test.name, err)
			}
			if violation.InputSum != test.view.InputAmountSum || violation.OutputSum != test.view.OutputAmountSum {
				t.Fatalf("%s: violation carries sums %d/%d, expected %d/%d", test.name,
					violation.InputSum, violation.OutputSum, test.view.InputAmountSum, test.view.OutputAmountSum)
			}
		case ruleerrors.AmountOverflowError:
			var violation ruleerrors.AmountOverflowError
			if !errors.As(err, &violation) {
				t.Fatalf("%s: expected an AmountOverflowError, got: %+v", test.name, err)
			}
		}
	}
}
