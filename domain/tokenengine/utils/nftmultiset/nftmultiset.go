package nftmultiset

import (
	"sort"

	"github.com/cashtokens/cashtokend/domain/tokenengine/model/externalapi"
)

// Multiset is a multiset of NFTs keyed by the pair
// (capability, commitment). The protocol does not thread individual NFT
// identity through a spend, so two NFTs with equal capability and commitment
// are interchangeable and only their count matters.
type Multiset struct {
	entries map[string]*entry
	size    int
}

type entry struct {
	nft   *externalapi.TokenNFT
	count int
}

func key(nft *externalapi.TokenNFT) string {
	keyBytes := make([]byte, 0, len(nft.Commitment)+1)
	keyBytes = append(keyBytes, byte(nft.Capability))
	keyBytes = append(keyBytes, nft.Commitment...)
	return string(keyBytes)
}

// New returns an empty Multiset.
func New() *Multiset {
	return &Multiset{entries: make(map[string]*entry)}
}

// FromNFTs returns a Multiset holding all the given NFTs.
func FromNFTs(nfts []*externalapi.TokenNFT) *Multiset {
	ms := New()
	for _, nft := range nfts {
		ms.Add(nft)
	}
	return ms
}

// Add adds one instance of the given NFT to the multiset.
func (ms *Multiset) Add(nft *externalapi.TokenNFT) {
	nftKey := key(nft)
	existing, ok := ms.entries[nftKey]
	if !ok {
		ms.entries[nftKey] = &entry{nft: nft, count: 1}
	} else {
		existing.count++
	}
	ms.size++
}

// Remove removes one instance of the given NFT from the multiset. It returns
// false if no instance is present.
func (ms *Multiset) Remove(nft *externalapi.TokenNFT) bool {
	nftKey := key(nft)
	existing, ok := ms.entries[nftKey]
	if !ok {
		return false
	}
	existing.count--
	if existing.count == 0 {
		delete(ms.entries, nftKey)
	}
	ms.size--
	return true
}

// Count returns the number of instances of the given NFT in the multiset.
func (ms *Multiset) Count(nft *externalapi.TokenNFT) int {
	existing, ok := ms.entries[key(nft)]
	if !ok {
		return 0
	}
	return existing.count
}

// Size returns the total number of instances in the multiset.
func (ms *Multiset) Size() int {
	return ms.size
}

// Subtract returns the NFTs left after removing every instance of other from
// ms, saturating at zero per key. The result is ordered by ascending
// (capability, commitment) key bytes so that callers get deterministic
// output.
func (ms *Multiset) Subtract(other *Multiset) []*externalapi.TokenNFT {
	keys := make([]string, 0, len(ms.entries))
	for nftKey := range ms.entries {
		keys = append(keys, nftKey)
	}
	sort.Strings(keys)

	var remaining []*externalapi.TokenNFT
	for _, nftKey := range keys {
		existing := ms.entries[nftKey]
		count := existing.count
		if otherEntry, ok := other.entries[nftKey]; ok {
			count -= otherEntry.count
		}
		for i := 0; i < count; i++ {
			remaining = append(remaining, existing.nft)
		}
	}
	return remaining
}
