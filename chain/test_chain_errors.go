package chain

import (
	"fmt"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/core"
	"github.com/crytic/medusa-geth/core/vm"
	"github.com/pkg/errors"
)

// ExecutionError is returned when a message was mined but its execution failed, e.g. because the contract reverted
// or hit an invalid opcode. The block containing the message is still committed.
type ExecutionError struct {
	// Result is the result of the failed execution.
	Result *core.ExecutionResult

	// RevertReason is the decoded Error(string) reason, if the execution reverted with one.
	RevertReason *string
}

// NewExecutionError creates an ExecutionError from a failed execution result.
func NewExecutionError(result *core.ExecutionResult) *ExecutionError {
	executionError := &ExecutionError{Result: result}
	if errors.Is(result.Err, vm.ErrExecutionReverted) {
		if reason, err := abi.UnpackRevert(result.Revert()); err == nil {
			executionError.RevertReason = &reason
		}
	}
	return executionError
}

// Error returns the error message.
func (e *ExecutionError) Error() string {
	if e.RevertReason != nil {
		return fmt.Sprintf("execution failed: %v: %s", e.Result.Err, *e.RevertReason)
	}
	return fmt.Sprintf("execution failed: %v", e.Result.Err)
}

// Unwrap returns the underlying EVM error so it can be matched with errors.Is.
func (e *ExecutionError) Unwrap() error {
	return e.Result.Err
}

// IsInvalidOpcode indicates whether the error was caused by executing an invalid opcode, which older Solidity
// compilers emit for failed require/assert statements.
func IsInvalidOpcode(err error) bool {
	if err == nil {
		return false
	}
	var invalidOpCode *vm.ErrInvalidOpCode
	if errors.As(err, &invalidOpCode) {
		return true
	}
	return strings.Contains(err.Error(), "invalid opcode")
}

// IsChainRejection indicates whether the error means the chain rejected a transaction on purpose, either through an
// invalid opcode or a revert. Any other error is unexpected.
func IsChainRejection(err error) bool {
	if err == nil {
		return false
	}
	return IsInvalidOpcode(err) || errors.Is(err, vm.ErrExecutionReverted)
}
