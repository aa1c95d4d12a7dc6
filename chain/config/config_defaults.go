package config

// DefaultBlockGasLimit is the block gas limit used when none is configured.
const DefaultBlockGasLimit uint64 = 125_000_000

// DefaultTestChainConfig obtains a TestChainConfig populated with default values.
func DefaultTestChainConfig() *TestChainConfig {
	return &TestChainConfig{
		CodeSizeCheckDisabled:    true,
		BlockGasLimit:            DefaultBlockGasLimit,
		ContractAddressOverrides: nil,
	}
}
