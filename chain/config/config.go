package config

import (
	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core/vm"
	"github.com/pkg/errors"
)

// TestChainConfig represents the chain configuration.
type TestChainConfig struct {
	// CodeSizeCheckDisabled indicates whether code size checks should be disabled in the EVM. This allows for large
	// test contracts to be deployed without disabling the entire EIP the check was introduced with.
	CodeSizeCheckDisabled bool `json:"codeSizeCheckDisabled"`

	// BlockGasLimit is the gas limit of every block created by the chain.
	BlockGasLimit uint64 `json:"blockGasLimit"`

	// ContractAddressOverrides describes contracts that are going to be deployed at deterministic addresses, keyed by
	// the hash of their init bytecode.
	ContractAddressOverrides map[common.Hash]common.Address `json:"contractAddressOverrides,omitempty"`
}

// GetVMConfigExtensions derives a vm.ConfigExtensions from the provided TestChainConfig.
func (t *TestChainConfig) GetVMConfigExtensions() *vm.ConfigExtensions {
	// The overrides are copied since medusa-geth updates them while deploying.
	contractAddressOverrides := make(map[common.Hash]common.Address, len(t.ContractAddressOverrides))
	for hash, addr := range t.ContractAddressOverrides {
		contractAddressOverrides[hash] = addr
	}

	return &vm.ConfigExtensions{
		OverrideCodeSizeCheck:    t.CodeSizeCheckDisabled,
		AdditionalPrecompiles:    make(map[common.Address]vm.PrecompiledContract),
		ContractAddressOverrides: contractAddressOverrides,
	}
}

// Validate checks the configuration for values the chain cannot run with.
func (t *TestChainConfig) Validate() error {
	if t.BlockGasLimit == 0 {
		return errors.New("chain config must specify a non-zero block gas limit")
	}
	return nil
}
