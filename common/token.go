package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

// ErrTransferFailed appears when a token contract call used to move
// assets fails or returns an unexpected result.
const ErrTransferFailed = "token transfer failed"

// ExpectTokenTransferOK normalizes the result of a money-moving token
// contract call. Both call conventions are accepted: a method returning a
// boolean is authoritative, a method returning nothing is treated as
// success. Any other outcome panics with ErrTransferFailed.
func ExpectTokenTransferOK(res interface{}) {
	defer func() {
		// Converts a cast exception on a non-boolean result into
		// the regular transfer failure.
		if r := recover(); r != nil {
			panic(ErrTransferFailed)
		}
	}()

	if res != nil && !res.(bool) {
		panic(ErrTransferFailed)
	}
}

// TokenBalanceOf reads holder's balance from a token contract.
func TokenBalanceOf(token interop.Hash160, holder interop.Hash160) int {
	return contract.Call(token, "balanceOf", contract.ReadOnly, holder).(int)
}

// TryTokenString reads an optional string method of a token contract.
// Absence is a valid outcome reported as an empty string: the token manifest
// is inspected first so that a missing method never faults the invocation,
// and an exception thrown by the token itself is swallowed.
func TryTokenString(token interop.Hash160, method string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = ""
		}
	}()

	c := management.GetContract(token)
	if c == nil {
		return ""
	}

	methods := c.Manifest.ABI.Methods
	for i := 0; i < len(methods); i++ {
		if methods[i].Name == method && len(methods[i].Params) == 0 {
			res := contract.Call(token, method, contract.ReadOnly)
			if res != nil {
				s = res.(string)
			}
			return
		}
	}

	return ""
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
