package contracts

import (
	"math/big"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/common"
	"github.com/crytic/medusa-geth/core"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain"
	chainTypes "github.com/qiibee/crowdsim/chain/types"
	"github.com/qiibee/crowdsim/compilation/abiutils"
	compilationTypes "github.com/qiibee/crowdsim/compilation/types"
)

// DefaultTxGasLimit is the gas limit given to transactions and calls when TxOptions does not provide one.
const DefaultTxGasLimit uint64 = 10_000_000

// TxOptions holds the gas parameters applied to every message a BoundContract sends.
type TxOptions struct {
	// GasLimit is the gas limit of each message. Zero means DefaultTxGasLimit.
	GasLimit uint64

	// GasPrice is the gas price of each transaction. Nil means a gas price of zero.
	GasPrice *big.Int
}

// newMessage builds a message from the sender to the target using the sender's current nonce on the chain. A nil
// target creates a contract.
func (o TxOptions) newMessage(testChain *chain.TestChain, from common.Address, to *common.Address, value *big.Int, data []byte) *core.Message {
	gasLimit := o.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultTxGasLimit
	}
	gasPrice := big.NewInt(0)
	if o.GasPrice != nil {
		gasPrice = new(big.Int).Set(o.GasPrice)
	}
	if value == nil {
		value = big.NewInt(0)
	}

	return &core.Message{
		From:      from,
		To:        to,
		Nonce:     testChain.State().GetNonce(from),
		Value:     value,
		GasLimit:  gasLimit,
		GasPrice:  gasPrice,
		GasFeeCap: gasPrice,
		GasTipCap: gasPrice,
		Data:      data,
	}
}

// BoundContract is a deployed contract bound to its ABI on a TestChain. Every Transact mines its own block; Call
// executes over the current state without committing.
type BoundContract struct {
	// Name is the contract name, used in error messages.
	Name string

	// Address is the address the contract is deployed at.
	Address common.Address

	// Abi is the contract's ABI.
	Abi *abi.ABI

	// chain is the chain the contract is deployed on.
	chain *chain.TestChain

	// options are the gas parameters used for messages sent to the contract.
	options TxOptions
}

// Bind binds an already deployed contract.
func Bind(testChain *chain.TestChain, name string, address common.Address, contractAbi *abi.ABI, options TxOptions) *BoundContract {
	return &BoundContract{
		Name:    name,
		Address: address,
		Abi:     contractAbi,
		chain:   testChain,
		options: options,
	}
}

// Deploy deploys a compiled contract from the provided sender with the given constructor arguments. The deployed
// runtime bytecode is checked against the compiled artifact.
func Deploy(testChain *chain.TestChain, name string, compiled *compilationTypes.CompiledContract, from common.Address, options TxOptions, args ...any) (*BoundContract, error) {
	data, err := compiled.GetDeploymentMessageData(args)
	if err != nil {
		return nil, errors.Wrapf(err, "could not create deployment data for %s", name)
	}

	msg := options.newMessage(testChain, from, nil, big.NewInt(0), data)
	results, err := testChain.SendMessage(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "deployment of %s failed: %s", name, describe(&compiled.Abi, results, err))
	}

	address := results.Receipt.ContractAddress
	if len(compiled.RuntimeBytecode) > 0 && !compiled.IsMatch(testChain.State().GetCode(address)) {
		return nil, errors.Errorf("deployed code at %s does not match the compiled runtime bytecode of %s", address.Hex(), name)
	}
	return Bind(testChain, name, address, &compiled.Abi, options), nil
}

// describe renders the failure of a mined message, using the contract ABI to decode custom errors.
func describe(contractAbi *abi.ABI, results *chainTypes.MessageResults, err error) string {
	if results == nil || results.ExecutionResult == nil {
		return err.Error()
	}
	return abiutils.DescribeFailure(contractAbi, results.ExecutionResult.Err, results.ExecutionResult.Revert())
}

// Chain returns the chain the contract is deployed on.
func (c *BoundContract) Chain() *chain.TestChain {
	return c.chain
}

// Transact sends a transaction calling the method and mines it. If the transaction executed but failed, the results
// are returned together with an error wrapping the *chain.ExecutionError.
func (c *BoundContract) Transact(from common.Address, value *big.Int, method string, args ...any) (*chainTypes.MessageResults, error) {
	data, err := c.Abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not pack arguments for %s.%s", c.Name, method)
	}
	results, err := c.send(from, value, data)
	if err != nil {
		return results, errors.Wrapf(err, "%s.%s: %s", c.Name, method, describe(c.Abi, results, err))
	}
	return results, nil
}

// SendValue sends a plain value transfer to the contract, invoking its receive function.
func (c *BoundContract) SendValue(from common.Address, value *big.Int) (*chainTypes.MessageResults, error) {
	results, err := c.send(from, value, nil)
	if err != nil {
		return results, errors.Wrapf(err, "%s.receive: %s", c.Name, describe(c.Abi, results, err))
	}
	return results, nil
}

// send mines a message carrying raw calldata to the contract.
func (c *BoundContract) send(from common.Address, value *big.Int, data []byte) (*chainTypes.MessageResults, error) {
	msg := c.options.newMessage(c.chain, from, &c.Address, value, data)
	return c.chain.SendMessage(msg)
}

// Call executes the method read-only from the zero address and returns its unpacked outputs.
func (c *BoundContract) Call(method string, args ...any) ([]any, error) {
	return c.CallFrom(common.Address{}, method, args...)
}

// CallFrom executes the method read-only from the provided sender and returns its unpacked outputs.
func (c *BoundContract) CallFrom(from common.Address, method string, args ...any) ([]any, error) {
	data, err := c.Abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not pack arguments for %s.%s", c.Name, method)
	}

	msg := c.options.newMessage(c.chain, from, &c.Address, big.NewInt(0), data)
	result, err := c.chain.CallContract(msg)
	if err != nil {
		return nil, err
	}
	if result.Failed() {
		return nil, errors.Wrapf(chain.NewExecutionError(result), "%s.%s: %s", c.Name, method,
			abiutils.DescribeFailure(c.Abi, result.Err, result.Revert()))
	}

	values, err := c.Abi.Unpack(method, result.ReturnData)
	if err != nil {
		return nil, errors.Wrapf(err, "could not unpack return data of %s.%s", c.Name, method)
	}
	return values, nil
}

// callBigInt calls a method returning a single integer.
func (c *BoundContract) callBigInt(method string, args ...any) (*big.Int, error) {
	values, err := c.Call(method, args...)
	if err != nil {
		return nil, err
	}
	return singleValue[*big.Int](c, method, values)
}

// callBool calls a method returning a single bool.
func (c *BoundContract) callBool(method string, args ...any) (bool, error) {
	values, err := c.Call(method, args...)
	if err != nil {
		return false, err
	}
	return singleValue[bool](c, method, values)
}

// callAddress calls a method returning a single address.
func (c *BoundContract) callAddress(method string, args ...any) (common.Address, error) {
	values, err := c.Call(method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return singleValue[common.Address](c, method, values)
}

// singleValue extracts the only output of a call as the expected type.
func singleValue[T any](c *BoundContract, method string, values []any) (T, error) {
	var zero T
	if len(values) != 1 {
		return zero, errors.Errorf("%s.%s returned %d values, expected 1", c.Name, method, len(values))
	}
	value, ok := values[0].(T)
	if !ok {
		return zero, errors.Errorf("%s.%s returned %T, expected %T", c.Name, method, values[0], zero)
	}
	return value, nil
}
