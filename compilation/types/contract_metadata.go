package types

import (
	"bytes"
	"encoding/binary"

	"github.com/fxamacker/cbor"
)

// ContractMetadata is a CBOR-encoded structure describing contract information which is embedded within smart contract
// bytecode by the Solidity compiler (unless explicitly directed not to).
// Reference: https://docs.soliditylang.org/en/v0.8.19/metadata.html
type ContractMetadata map[string]any

// metadataHashPrefixes defines patterns to use in search for CBOR-encoded contract metadata appended to the end of
// bytecode.
var metadataHashPrefixes = [][]byte{
	{0xa1, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a1 65 "bzzr0" 0x58 0x20 (solc <= 0.5.8)
	{0xa2, 0x65, 98, 122, 122, 114, 48, 0x58, 0x20},  // a2 65 "bzzr0" 0x58 0x20 (solc >= 0.5.9)
	{0xa2, 0x65, 98, 122, 122, 114, 49, 0x58, 0x20},  // a2 65 "bzzr1" 0x58 0x20 (solc >= 0.5.11)
	{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73, 0x58, 0x22}, // a2 64 "ipfs" 0x58 0x22 (solc >= 0.6.0)
}

// byteCodeHashMetadataKeys defines the keys in the CBOR-encoded ContractMetadata which contain bytecode hashes.
var byteCodeHashMetadataKeys = [...]string{
	"ipfs",
	"bzzr1",
	"bzzr0",
}

// metadataOffset locates the start of the CBOR metadata in the bytecode, or returns -1. Solidity appends the CBOR
// length as a big-endian uint16 after the metadata, which is tried first before searching for known prefixes.
func metadataOffset(bytecode []byte) int {
	if len(bytecode) > 2 {
		length := int(binary.BigEndian.Uint16(bytecode[len(bytecode)-2:]))
		offset := len(bytecode) - 2 - length
		if length > 0 && offset >= 0 && bytecode[offset]&0xe0 == 0xa0 {
			var metadata ContractMetadata
			if cbor.Unmarshal(bytecode[offset:len(bytecode)-2], &metadata) == nil {
				return offset
			}
		}
	}
	for _, metadataHashPrefix := range metadataHashPrefixes {
		if offset := bytes.LastIndex(bytecode, metadataHashPrefix); offset != -1 {
			return offset
		}
	}
	return -1
}

// ExtractContractMetadata extracts contract metadata from provided bytecode and returns it. If contract metadata
// could not be extracted, nil is returned.
func ExtractContractMetadata(bytecode []byte) *ContractMetadata {
	offset := metadataOffset(bytecode)
	if offset == -1 {
		return nil
	}
	var metadata ContractMetadata
	if err := cbor.Unmarshal(bytecode[offset:], &metadata); err != nil {
		return nil
	}
	return &metadata
}

// RemoveContractMetadata returns the bytecode preceding any embedded contract metadata. If no metadata could be
// located, the input is returned as-is.
func RemoveContractMetadata(bytecode []byte) []byte {
	if offset := metadataOffset(bytecode); offset != -1 {
		return bytecode[:offset]
	}
	return bytecode
}

// ExtractBytecodeHash extracts the bytecode hash from given contract metadata. If it could not be detected, nil is
// returned.
func (m ContractMetadata) ExtractBytecodeHash() []byte {
	for _, possibleMetadataKey := range byteCodeHashMetadataKeys {
		if bytecodeHashData, keyExists := m[possibleMetadataKey]; keyExists {
			if bytecodeHash, ok := bytecodeHashData.([]byte); ok {
				return bytecodeHash
			}
		}
	}
	return nil
}
