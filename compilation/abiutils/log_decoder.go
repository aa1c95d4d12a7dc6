package abiutils

import (
	"fmt"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	coreTypes "github.com/crytic/medusa-geth/core/types"
)

// DecodedArg is a single named event argument.
type DecodedArg struct {
	// Name is the argument name from the event definition. It may be empty.
	Name string

	// Type is the canonical Solidity type of the argument, e.g. "uint256".
	Type string

	// Value is the unpacked Go value. Indexed dynamic arguments hold their topic hash as a common.Hash.
	Value any
}

// DecodedEvent is a log matched against a registered event definition.
type DecodedEvent struct {
	// Name is the event name.
	Name string

	// Address is the contract which emitted the log.
	Address common.Address

	// LogIndex is the index of the log in its block, as recorded by the chain.
	LogIndex uint

	// Args are the event arguments, in declaration order.
	Args []DecodedArg
}

// Arg returns the value of the named argument, or nil if the event has no such argument.
func (e DecodedEvent) Arg(name string) any {
	for _, arg := range e.Args {
		if arg.Name == name {
			return arg.Value
		}
	}
	return nil
}

// String renders the event as Name(arg=value, ...).
func (e DecodedEvent) String() string {
	args := make([]string, len(e.Args))
	for i, arg := range e.Args {
		if arg.Name != "" {
			args[i] = fmt.Sprintf("%s=%v", arg.Name, arg.Value)
		} else {
			args[i] = fmt.Sprintf("%v", arg.Value)
		}
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(args, ", "))
}

// LogDecoder decodes raw logs into DecodedEvent values using the event definitions of the interfaces registered with
// it. A LogDecoder is owned by its caller and is not safe for concurrent registration and decoding.
type LogDecoder struct {
	// events maps an event's topic signature to its definition.
	events map[common.Hash]abi.Event
}

// NewLogDecoder creates a LogDecoder with the events of the provided ABIs registered.
func NewLogDecoder(abis ...*abi.ABI) *LogDecoder {
	d := &LogDecoder{events: make(map[common.Hash]abi.Event)}
	for _, contractAbi := range abis {
		d.RegisterInterface(contractAbi)
	}
	return d
}

// RegisterInterface adds every non-anonymous event of the ABI to the decoder. Events with an already registered
// signature are ignored, as identical signatures decode identically.
func (d *LogDecoder) RegisterInterface(contractAbi *abi.ABI) {
	if contractAbi == nil {
		return
	}
	for _, event := range contractAbi.Events {
		if event.Anonymous {
			continue
		}
		if _, exists := d.events[event.ID]; !exists {
			d.events[event.ID] = event
		}
	}
}

// EventCount returns the number of registered event signatures.
func (d *LogDecoder) EventCount() int {
	return len(d.events)
}

// Decode decodes the logs in order. Logs whose signature is not registered, or which fail to unpack, produce no
// record, so the result may be shorter than the input.
func (d *LogDecoder) Decode(logs []*coreTypes.Log) []DecodedEvent {
	decoded := make([]DecodedEvent, 0, len(logs))
	for _, log := range logs {
		if log == nil || len(log.Topics) == 0 {
			continue
		}
		event, ok := d.events[log.Topics[0]]
		if !ok {
			continue
		}
		values, err := unpackEventValues(&event, log)
		if err != nil {
			continue
		}

		args := make([]DecodedArg, len(event.Inputs))
		for i, input := range event.Inputs {
			args[i] = DecodedArg{
				Name:  input.Name,
				Type:  input.Type.String(),
				Value: values[i],
			}
		}
		decoded = append(decoded, DecodedEvent{
			Name:     event.Name,
			Address:  log.Address,
			LogIndex: log.Index,
			Args:     args,
		})
	}
	return decoded
}
