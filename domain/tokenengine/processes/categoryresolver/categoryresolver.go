package categoryresolver

import (
	"sort"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
)

// CategoryView is the per-category aggregation of one transaction's token
// fields. Grouping is purely structural (byte equality of the category ID);
// no identity is tracked across individual UTXOs beyond this aggregation.
type CategoryView struct {
	Category externalapi.TokenCategoryID

	// IsGenesis is true when the category bytes equal the hosting
	// transaction's own ID. This equality is derived here, never stored.
	IsGenesis bool

	// PresentInInputs is true when at least one input carries a token of
	// this category. A category that is neither genesis nor present in
	// any input cannot legally appear in an output.
	PresentInInputs bool

	InputNFTs  []*externalapi.TokenNFT
	OutputNFTs []*externalapi.TokenNFT

	InputAmountSum  uint64
	OutputAmountSum uint64

	// InputSumOverflows/OutputSumOverflows are set when the respective sum
	// exceeded the maximum representable amount. The sums saturate at the
	// maximum in that case and must not be trusted for accounting.
	InputSumOverflows  bool
	OutputSumOverflows bool
}

// HasMintingInput returns whether at least one input NFT of this category
// carries the Minting capability.
func (view *CategoryView) HasMintingInput() bool {
	for _, nft := range view.InputNFTs {
		if nft.Capability == externalapi.CapabilityMinting {
			return true
		}
	}
	return false
}

// HasMutableInput returns whether at least one input NFT of this category
// carries the Mutable capability.
func (view *CategoryView) HasMutableInput() bool {
	for _, nft := range view.InputNFTs {
		if nft.Capability == externalapi.CapabilityMutable {
			return true
		}
	}
	return false
}

// HasMintingAuthority returns whether the transaction holds unconstrained
// authority over this category, either because the category is being created
// by this very transaction (genesis) or because an existing Minting grant is
// being exercised.
func (view *CategoryView) HasMintingAuthority() bool {
	return view.IsGenesis || view.HasMintingInput()
}

// Resolve aggregates the token fields of tx by category. Inputs without a
// resolved UTXO entry are skipped; reporting them is the pipeline's concern.
// The returned views are sorted by ascending category bytes so downstream
// processing, and therefore the order violations are listed in, is
// deterministic. maxAmount bounds the checked accumulation of amount sums.
func Resolve(tx *externalapi.DomainTransaction, maxAmount uint64) []*CategoryView {
	views := make(map[externalapi.TokenCategoryID]*CategoryView)

	viewFor := func(category externalapi.TokenCategoryID) *CategoryView {
		view, ok := views[category]
		if !ok {
			view = &CategoryView{
				Category:  category,
				IsGenesis: category.EqualsTransactionID(&tx.ID),
			}
			views[category] = view
		}
		return view
	}

	for _, input := range tx.Inputs {
		if input.UTXOEntry == nil || input.UTXOEntry.Token == nil {
			continue
		}
		token := input.UTXOEntry.Token
		view := viewFor(token.Category)
		view.PresentInInputs = true
		view.InputAmountSum, view.InputSumOverflows =
			addSaturating(view.InputAmountSum, token.Amount, maxAmount, view.InputSumOverflows)
		if token.NFT != nil {
			view.InputNFTs = append(view.InputNFTs, token.NFT)
		}
	}

	for _, output := range tx.Outputs {
		if output.Token == nil {
			continue
		}
		token := output.Token
		view := viewFor(token.Category)
		view.OutputAmountSum, view.OutputSumOverflows =
			addSaturating(view.OutputAmountSum, token.Amount, maxAmount, view.OutputSumOverflows)
		if token.NFT != nil {
			view.OutputNFTs = append(view.OutputNFTs, token.NFT)
		}
	}

	sortedViews := make([]*CategoryView, 0, len(views))
	for _, view := range views {
		sortedViews = append(sortedViews, view)
	}
	sort.Slice(sortedViews, func(i, j int) bool {
		return sortedViews[i].Category.Less(&sortedViews[j].Category)
	})
	return sortedViews
}

// addSaturating adds amount to sum, saturating at maxAmount. It returns the
// new sum and whether the accumulation has overflowed, either now or before.
func addSaturating(sum uint64, amount uint64, maxAmount uint64, overflowedBefore bool) (uint64, bool) {
	newSum := sum + amount
	if newSum < sum || newSum > maxAmount {
		return maxAmount, true
	}
	return newSum, overflowedBefore
}
