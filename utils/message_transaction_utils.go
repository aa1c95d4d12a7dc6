package utils

import (
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/types"
)

// MessageToTransaction derives a types.Transaction from a core.Message so the chain can produce receipts and hashes
// for messages which were never signed.
func MessageToTransaction(msg *core.Message) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    msg.Nonce,
		GasPrice: msg.GasPrice,
		Gas:      msg.GasLimit,
		To:       msg.To,
		Value:    msg.Value,
		Data:     msg.Data,
		// Unsigned messages from different senders with equal fields would otherwise hash to the same transaction,
		// so the sender is stored in one of the signature values.
		S: msg.From.Big(),
	})
}
