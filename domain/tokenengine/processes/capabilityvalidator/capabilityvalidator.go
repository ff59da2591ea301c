package capabilityvalidator

import (
	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
	"github.com/cashtokens/cashtokend/domain/tokenengine/processes/categoryresolver"
	"github.com/cashtokens/cashtokend/domain/tokenengine/ruleerrors"
	"github.com/cashtokens/cashtokend/domain/tokenengine/utils/nftmultiset"
)

// ValidateTransition decides whether the multiset of output NFTs of a
// category is a legal evolution of its multiset of input NFTs.
//
// The decision procedure, in priority order:
//  1. Genesis or a Minting-capability input: the output NFT set is
//     unconstrained. The minting NFT itself need not reappear in the
//     outputs; preserving it is caller policy, not a protocol rule.
//  2. A Mutable-capability input: at most one output NFT, with capability
//     None or Mutable and an arbitrary commitment.
//  3. Otherwise: the output NFTs must be an exact sub-multiset of the
//     immutable input NFTs. Matching is by commitment equality, not
//     positional pairing.
//
// This hierarchy encodes the one-way authority downgrade: capability can
// only stay the same or decrease across a spend, except at genesis or under
// an exercised Minting grant.
func ValidateTransition(view *categoryresolver.CategoryView) error {
	if view.HasMintingAuthority() {
		return nil
	}

	if view.HasMutableInput() {
		if len(view.OutputNFTs) > 1 {
			return ruleerrors.NewErrCapabilityViolation(view.Category, ruleerrors.ReasonMutableAuthorityExceeded)
		}
		for _, nft := range view.OutputNFTs {
			if nft.Capability == externalapi.CapabilityMinting {
				return ruleerrors.NewErrCapabilityViolation(view.Category, ruleerrors.ReasonMutableAuthorityExceeded)
			}
		}
		return nil
	}

	// No authority at all: each output NFT must consume a distinct,
	// identical immutable input NFT.
	available := nftmultiset.FromNFTs(view.InputNFTs)
	for _, nft := range view.OutputNFTs {
		if nft.Capability != externalapi.CapabilityNone {
			return ruleerrors.NewErrCapabilityViolation(view.Category, ruleerrors.ReasonImmutableNFTMutatedOrFabricated)
		}
		if !available.Remove(nft) {
			return ruleerrors.NewErrCapabilityViolation(view.Category, ruleerrors.ReasonImmutableNFTMutatedOrFabricated)
		}
	}
	return nil
}
