package abiutils

import (
	"bytes"
	"fmt"
	"math/big"
	"strings"

	"github.com/crytic/medusa-geth/accounts/abi"
	"github.com/crytic/medusa-geth/core/vm"
	"github.com/pkg/errors"
)

// Panic(uint256) codes returned by Solidity >= 0.8 when a check inserted by the compiler fails.
// Reference: https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
const (
	PanicCodeCompilerInserted              = 0x00
	PanicCodeAssertFailed                  = 0x01
	PanicCodeArithmeticUnderOverflow       = 0x11
	PanicCodeDivideByZero                  = 0x12
	PanicCodeEnumTypeConversionOutOfBounds = 0x21
	PanicCodeIncorrectStorageAccess        = 0x22
	PanicCodePopEmptyArray                 = 0x31
	PanicCodeOutOfBoundsArrayAccess        = 0x32
	PanicCodeAllocateTooMuchMemory         = 0x41
	PanicCodeCallUninitializedVariable     = 0x51
)

var (
	// panicMethod describes the Panic(uint256) return data layout.
	panicMethod = newSingleArgMethod("Panic", "uint256")

	// errorMethod describes the Error(string) return data layout.
	errorMethod = newSingleArgMethod("Error", "string")
)

// newSingleArgMethod creates an abi.Method taking a single argument of the given type, used to decode return data.
func newSingleArgMethod(name string, argType string) abi.Method {
	t, err := abi.NewType(argType, "", nil)
	if err != nil {
		panic(err)
	}
	return abi.NewMethod(name, name, abi.Function, "", false, false, abi.Arguments{{Type: t}}, abi.Arguments{})
}

// unpackSingleArg unpacks the single argument of method from return data if the selector matches.
func unpackSingleArg(method abi.Method, returnData []byte) (any, bool) {
	if len(returnData) < 4 || !bytes.Equal(returnData[:4], method.ID) {
		return nil, false
	}
	values, err := method.Inputs.Unpack(returnData[4:])
	if err != nil || len(values) == 0 {
		return nil, false
	}
	return values[0], true
}

// GetSolidityPanicCode obtains a panic code from a VM error and return data. When backwardsCompatible is set, the
// invalid opcode older compilers emit for failed assertions maps onto PanicCodeAssertFailed. If the error and return
// data are not representative of a Panic, nil is returned.
func GetSolidityPanicCode(returnError error, returnData []byte, backwardsCompatible bool) *big.Int {
	var invalidOpCode *vm.ErrInvalidOpCode
	if backwardsCompatible && errors.As(returnError, &invalidOpCode) {
		return big.NewInt(PanicCodeAssertFailed)
	}
	if !errors.Is(returnError, vm.ErrExecutionReverted) || len(returnData) != 4+32 {
		return nil
	}
	if value, ok := unpackSingleArg(panicMethod, returnData); ok {
		if panicCode, ok := value.(*big.Int); ok {
			return panicCode
		}
	}
	return nil
}

// GetSolidityRevertErrorString obtains the message of an Error(string) revert. If the error and return data are not
// representative of an Error, nil is returned.
func GetSolidityRevertErrorString(returnError error, returnData []byte) *string {
	if !errors.Is(returnError, vm.ErrExecutionReverted) {
		return nil
	}
	if value, ok := unpackSingleArg(errorMethod, returnData); ok {
		if message, ok := value.(string); ok {
			return &message
		}
	}
	return nil
}

// GetSolidityCustomRevertError resolves a custom Solidity error from the contract ABI, returning its definition and
// unpacked values, or nil outputs if the revert did not match one.
func GetSolidityCustomRevertError(contractAbi *abi.ABI, returnError error, returnData []byte) (*abi.Error, []any) {
	if !errors.Is(returnError, vm.ErrExecutionReverted) || contractAbi == nil || len(returnData) < 4 {
		return nil, nil
	}
	for _, abiError := range contractAbi.Errors {
		if !bytes.Equal(abiError.ID.Bytes()[:4], returnData[:4]) {
			continue
		}
		matched := abiError
		values, err := matched.Inputs.Unpack(returnData[4:])
		if err == nil {
			return &matched, values
		}
	}
	return nil, nil
}

// GetPanicReason returns a readable reason for a panic code.
func GetPanicReason(panicCode uint64) string {
	switch panicCode {
	case PanicCodeCompilerInserted:
		return "panic: compiler inserted panic"
	case PanicCodeAssertFailed:
		return "panic: assertion failed"
	case PanicCodeArithmeticUnderOverflow:
		return "panic: arithmetic underflow or overflow"
	case PanicCodeDivideByZero:
		return "panic: division by zero"
	case PanicCodeEnumTypeConversionOutOfBounds:
		return "panic: enum access out of bounds"
	case PanicCodeIncorrectStorageAccess:
		return "panic: incorrect storage access"
	case PanicCodePopEmptyArray:
		return "panic: pop on empty array"
	case PanicCodeOutOfBoundsArrayAccess:
		return "panic: out of bounds array access"
	case PanicCodeAllocateTooMuchMemory:
		return "panic: overallocation of memory"
	case PanicCodeCallUninitializedVariable:
		return "panic: call on uninitialized variable"
	default:
		return fmt.Sprintf("panic: unknown panic code(%v)", panicCode)
	}
}

// DescribeFailure renders a failed execution as a readable reason: a revert string, a panic, a custom error from the
// contract ABI, or the raw VM error.
func DescribeFailure(contractAbi *abi.ABI, returnError error, returnData []byte) string {
	if returnError == nil {
		return ""
	}
	if message := GetSolidityRevertErrorString(returnError, returnData); message != nil {
		return fmt.Sprintf("reverted: %s", *message)
	}
	if panicCode := GetSolidityPanicCode(returnError, returnData, false); panicCode != nil {
		return GetPanicReason(panicCode.Uint64())
	}
	if customError, values := GetSolidityCustomRevertError(contractAbi, returnError, returnData); customError != nil {
		args := make([]string, len(values))
		for i, value := range values {
			args[i] = fmt.Sprintf("%v", value)
		}
		return fmt.Sprintf("reverted: %s(%s)", customError.Name, strings.Join(args, ", "))
	}
	return returnError.Error()
}
