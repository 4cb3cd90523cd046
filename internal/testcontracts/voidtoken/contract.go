// Package voidtoken implements a minimal token whose money-moving methods
// return nothing, for testing that PaymentLedger accepts the void call
// convention. It also implements neither name nor symbol, so tokenInfo has
// nothing to report.
package voidtoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const balancePrefix = 'b'

// Mint credits amount to the account, no authorization required.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	setBalance(ctx, to, getBalance(ctx, to)+amount)
}

// BalanceOf returns the token balance of the account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// Transfer moves tokens without returning a result.
func Transfer(from, to interop.Hash160, amount int, data any) {
	move(from, to, amount)
}

// TransferFrom moves tokens on behalf of spender without checking any
// allowance and without returning a result.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) {
	move(from, to, amount)
}

func move(from, to interop.Hash160, amount int) {
	ctx := storage.GetContext()

	balance := getBalance(ctx, from)
	if balance < amount {
		panic("not enough assets")
	}

	setBalance(ctx, from, balance-amount)
	setBalance(ctx, to, getBalance(ctx, to)+amount)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func getBalance(ctx storage.Context, account interop.Hash160) int {
	data := storage.Get(ctx, balanceKey(account))
	if data != nil {
		return data.(int)
	}
	return 0
}

func setBalance(ctx storage.Context, account interop.Hash160, balance int) {
	storage.Put(ctx, balanceKey(account), balance)
}
