package compilation

import (
	"encoding/hex"
	"sort"

	"github.com/qiibee/crowdsim/compilation/types"
	"golang.org/x/crypto/sha3"
)

// ComputeArtifactHash computes a keccak256 hash over all compiled contract bytecode in the provided compilations.
// Contracts are hashed in name order so the result does not depend on map iteration. The hash is stored alongside
// corpus entries, so replays can tell whether the contracts changed since the entry was recorded.
func ComputeArtifactHash(compilations []types.Compilation) string {
	type contractBytecode struct {
		name            string
		initBytecode    []byte
		runtimeBytecode []byte
	}
	var contracts []contractBytecode

	for _, compilation := range compilations {
		for _, source := range compilation.Sources {
			for name, contract := range source.Contracts {
				contracts = append(contracts, contractBytecode{
					name:            name,
					initBytecode:    contract.InitBytecode,
					runtimeBytecode: contract.RuntimeBytecode,
				})
			}
		}
	}

	sort.SliceStable(contracts, func(i, j int) bool {
		return contracts[i].name < contracts[j].name
	})

	hasher := sha3.NewLegacyKeccak256()
	for _, c := range contracts {
		hasher.Write([]byte(c.name))
		hasher.Write(c.initBytecode)
		hasher.Write(c.runtimeBytecode)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
