package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// CompiledContract represents a single contract unit from a smart contract compilation.
type CompiledContract struct {
	// Abi describes a contract's application binary interface: constructor, functions, events, errors, fallback and
	// receive methods.
	Abi abi.ABI

	// InitBytecode describes the bytecode used to deploy a contract.
	InitBytecode []byte

	// RuntimeBytecode represents the bytecode expected once the contract has been deployed. This may differ at runtime
	// based on constructor arguments or immutables.
	RuntimeBytecode []byte

	// SrcMapsInit describes the source mappings for InitBytecode.
	SrcMapsInit string

	// SrcMapsRuntime describes the source mappings for RuntimeBytecode.
	SrcMapsRuntime string
}

// IsMatch returns a boolean indicating whether the provided deployed runtime bytecode is a match to this compiled
// contract definition. Embedded metadata hashes are compared when both sides carry them, otherwise the bytecode is
// compared with its metadata removed.
func (c *CompiledContract) IsMatch(runtimeBytecode []byte) bool {
	if len(runtimeBytecode) == 0 || len(c.RuntimeBytecode) == 0 {
		return false
	}

	// Runtime metadata is used rather than init metadata, as distinct contracts may share init metadata hashes.
	deploymentMetadata := ExtractContractMetadata(runtimeBytecode)
	definitionMetadata := ExtractContractMetadata(c.RuntimeBytecode)
	if deploymentMetadata != nil && definitionMetadata != nil {
		deploymentBytecodeHash := deploymentMetadata.ExtractBytecodeHash()
		definitionBytecodeHash := definitionMetadata.ExtractBytecodeHash()
		if deploymentBytecodeHash != nil && definitionBytecodeHash != nil {
			return bytes.Equal(deploymentBytecodeHash, definitionBytecodeHash)
		}
	}
	return bytes.Equal(RemoveContractMetadata(runtimeBytecode), RemoveContractMetadata(c.RuntimeBytecode))
}

// ParseABIFromInterface parses a generic object into an abi.ABI and returns it, or an error if one occurs. Strings are
// parsed as ABI JSON directly; anything else is serialized to JSON first.
func ParseABIFromInterface(i any) (*abi.ABI, error) {
	var abiJson string
	if s, ok := i.(string); ok {
		abiJson = s
	} else {
		b, err := json.Marshal(i)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		abiJson = string(b)
	}

	result, err := abi.JSON(strings.NewReader(abiJson))
	if err != nil {
		return nil, errors.Wrap(err, "could not parse contract ABI")
	}
	return &result, nil
}

// GetDeploymentMessageData creates contract deployment message data for the contract: the init bytecode followed by
// the ABI-encoded constructor arguments.
func (c *CompiledContract) GetDeploymentMessageData(args []any) ([]byte, error) {
	initBytecodeWithArgs := slices.Clone(c.InitBytecode)
	if len(c.Abi.Constructor.Inputs) > 0 || len(args) > 0 {
		data, err := c.Abi.Pack("", args...)
		if err != nil {
			return nil, errors.Wrap(err, "could not encode constructor arguments")
		}
		initBytecodeWithArgs = append(initBytecodeWithArgs, data...)
	}
	return initBytecodeWithArgs, nil
}
