package types

// CompiledSource represents a source file in a smart contract compilation, along with the contracts it defines.
type CompiledSource struct {
	// Contracts describes a mapping of contract names to contract definition structures which are contained within
	// the source.
	Contracts map[string]CompiledContract
}
