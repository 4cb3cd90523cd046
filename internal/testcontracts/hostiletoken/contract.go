// Package hostiletoken implements a token for testing PaymentLedger failure
// modes. Its transferFrom pretends to succeed while moving nothing and, in
// reentrant mode, calls back into the ledger's pay before returning.
package hostiletoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ledgerKey = 'l'
	modeKey   = 'm'
)

// Behavior modes of TransferFrom.
const (
	ModeNoop    = 0
	ModeReenter = 1
)

// SetUp configures the ledger to attack and the behavior mode.
func SetUp(ledger interop.Hash160, mode int) {
	ctx := storage.GetContext()
	storage.Put(ctx, ledgerKey, ledger)
	storage.Put(ctx, modeKey, mode)
}

// BalanceOf always reports an empty balance so that the ledger observes a
// zero delta.
func BalanceOf(account interop.Hash160) int {
	return 0
}

// Transfer claims success without moving anything.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	return true
}

// TransferFrom claims success without moving anything. In reentrant mode it
// first calls pay on the configured ledger from inside the ledger's own
// invocation.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetReadOnlyContext()
	if storage.Get(ctx, modeKey).(int) == ModeReenter {
		ledger := storage.Get(ctx, ledgerKey).(interop.Hash160)
		contract.Call(ledger, "pay", contract.All, from, amount, "nested")
	}
	return true
}
