package types

import (
	"sort"

	"github.com/pkg/errors"
)

// Compilation represents the artifacts of a smart contract compilation.
type Compilation struct {
	// Sources describes the CompiledSource objects provided in a compilation, keyed by source path.
	Sources map[string]CompiledSource
}

// NewCompilation returns a new, empty Compilation object.
func NewCompilation() *Compilation {
	return &Compilation{
		Sources: make(map[string]CompiledSource),
	}
}

// ContractNames returns the names of every contract in the compilation, sorted.
func (c *Compilation) ContractNames() []string {
	names := make([]string, 0)
	for _, source := range c.Sources {
		for name := range source.Contracts {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ContractByName looks up a compiled contract by name across every source. An error is returned if no contract has
// the name, or if more than one source defines it.
func (c *Compilation) ContractByName(name string) (*CompiledContract, error) {
	var (
		found      *CompiledContract
		foundPaths []string
	)
	for sourcePath, source := range c.Sources {
		if contract, ok := source.Contracts[name]; ok {
			found = &contract
			foundPaths = append(foundPaths, sourcePath)
		}
	}

	if found == nil {
		return nil, errors.Errorf("contract '%s' was not found in the compilation", name)
	}
	if len(foundPaths) > 1 {
		sort.Strings(foundPaths)
		return nil, errors.Errorf("contract '%s' is ambiguous, it is defined in %v", name, foundPaths)
	}
	return found, nil
}

// FindContract looks up a contract by name across multiple compilations, returning the first unambiguous match.
func FindContract(compilations []Compilation, name string) (*CompiledContract, error) {
	for i := range compilations {
		contract, err := compilations[i].ContractByName(name)
		if err == nil {
			return contract, nil
		}
	}
	return nil, errors.Errorf("contract '%s' was not found in any compilation", name)
}
