package contracts

import (
	"math/big"

	"github.com/pkg/errors"
)

// Message wraps the deployed message receiver, which is the target of data-carrying token transfers.
type Message struct {
	*BoundContract
}

// NewMessage wraps a bound message contract.
func NewMessage(contract *BoundContract) *Message {
	return &Message{BoundContract: contract}
}

// ShowMessageData returns calldata for showMessage, which succeeds and emits Show with the provided values.
func (m *Message) ShowMessageData(message [32]byte, number *big.Int, text string) ([]byte, error) {
	data, err := m.Abi.Pack("showMessage", message, number, text)
	if err != nil {
		return nil, errors.Wrap(err, "could not pack showMessage")
	}
	return data, nil
}

// FailData returns calldata for fail, which always reverts.
func (m *Message) FailData() ([]byte, error) {
	data, err := m.Abi.Pack("fail")
	if err != nil {
		return nil, errors.Wrap(err, "could not pack fail")
	}
	return data, nil
}
