package abiutils

import (
	"github.com/crytic/medusa-geth/accounts/abi"
	coreTypes "github.com/crytic/medusa-geth/core/types"
	"github.com/pkg/errors"
)

// UnpackEventAndValues finds the event definition in the contract ABI matching the log's first topic and unpacks its
// input values in declaration order. Returns nil for both if no definition matches or the values could not be
// unpacked.
func UnpackEventAndValues(contractAbi *abi.ABI, eventLog *coreTypes.Log) (*abi.Event, []any) {
	if contractAbi == nil || len(eventLog.Topics) == 0 {
		return nil, nil
	}

	event, err := contractAbi.EventByID(eventLog.Topics[0])
	if err != nil {
		return nil, nil
	}
	values, err := unpackEventValues(event, eventLog)
	if err != nil {
		return nil, nil
	}
	return event, values
}

// isHashedTopicType indicates whether an indexed argument of this type is stored in its topic as a keccak256 hash
// rather than by value.
func isHashedTopicType(t abi.Type) bool {
	switch t.T {
	case abi.StringTy, abi.BytesTy, abi.SliceTy, abi.ArrayTy, abi.TupleTy:
		return true
	default:
		return false
	}
}

// unpackEventValues unpacks indexed values from the log topics and the remaining values from the log data, in
// declaration order. Indexed dynamic values are only available as their hash, which is returned as a common.Hash.
func unpackEventValues(event *abi.Event, eventLog *coreTypes.Log) ([]any, error) {
	var unindexedInputArguments abi.Arguments
	indexedCount := 0
	for _, arg := range event.Inputs {
		if arg.Indexed {
			indexedCount++
		} else {
			unindexedInputArguments = append(unindexedInputArguments, arg)
		}
	}
	if len(eventLog.Topics) != indexedCount+1 {
		return nil, errors.Errorf("event %s expects %d topics, log has %d", event.Name, indexedCount+1, len(eventLog.Topics))
	}

	unindexedInputValues, err := unindexedInputArguments.Unpack(eventLog.Data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		currentTopic     = 1
		currentUnindexed int
		inputValues      = make([]any, 0, len(event.Inputs))
	)
	for _, arg := range event.Inputs {
		if !arg.Indexed {
			inputValues = append(inputValues, unindexedInputValues[currentUnindexed])
			currentUnindexed++
			continue
		}

		topic := eventLog.Topics[currentTopic]
		currentTopic++
		if isHashedTopicType(arg.Type) {
			inputValues = append(inputValues, topic)
			continue
		}

		// The ABI package only unpacks data, so the argument is re-declared as non-indexed to read it from the topic.
		topicArguments := abi.Arguments{{Name: arg.Name, Type: arg.Type}}
		values, err := topicArguments.Unpack(topic.Bytes())
		if err != nil {
			return nil, errors.WithStack(err)
		}
		inputValues = append(inputValues, values[0])
	}
	return inputValues, nil
}
