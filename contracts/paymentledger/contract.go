package paymentledger

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/paygate-contract/common"
)

type (
	// PaymentRecord is an immutable entry of the payment log.
	PaymentRecord struct {
		// Account the payment was pulled from
		Payer interop.Hash160
		// Amount actually received by the ledger, after any token fee
		Amount int
		// Payer-supplied reference, at most maxMemoLen bytes
		Memo string
		// Block timestamp of the payment, milliseconds
		Timestamp int
	}

	// TokenInfo is a best-effort description of the payment token.
	TokenInfo struct {
		Name   string
		Symbol string
	}
)

const (
	tokenKey        = 't'
	ownerKey        = 'o'
	pendingOwnerKey = 'p'
	pausedKey       = 's'
	countKey        = 'n'

	paymentPrefix = 'P'
	totalPrefix   = 'T'

	maxMemoLen = 256
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner interop.Hash160
		token interop.Hash160
	})

	if !common.IsValidAddress(args.owner) {
		panic("incorrect owner script hash")
	}
	if !common.IsValidAddress(args.token) {
		panic("incorrect token script hash")
	}

	storage.Put(ctx, ownerKey, args.owner)
	storage.Put(ctx, tokenKey, args.token)

	runtime.Log("payment ledger contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("payment ledger contract updated")
}

// OnNEP17Payment rejects any direct token or GAS transfer to the contract:
// the ledger has no accounting path for value that does not come through
// Pay.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	panic("no direct transfers, use pay")
}

// Owner returns the script hash of the account controlling withdrawals and
// the pause switch.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// PendingOwner returns the account nominated by TransferOwnership or an
// empty value when no ownership transfer is in flight.
func PendingOwner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, pendingOwnerKey)
	if data == nil {
		return nil
	}
	return data.(interop.Hash160)
}

// Paused returns true if Pay is currently gated off.
func Paused() bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, pausedKey) != nil
}

// Token returns the script hash of the designated payment token.
func Token() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getToken(ctx)
}

// Balance returns the ledger's current holding of the payment token. The
// value is read from the token contract at call time, it is never cached.
func Balance() int {
	ctx := storage.GetReadOnlyContext()
	return common.TokenBalanceOf(getToken(ctx), runtime.GetExecutingScriptHash())
}

// TokenInfo returns the name and symbol of the payment token on a
// best-effort basis: a token that fails to report either yields an empty
// string instead of failing the call.
func TokenInfo() TokenInfo {
	ctx := storage.GetReadOnlyContext()
	token := getToken(ctx)

	return TokenInfo{
		Name:   common.TryTokenString(token, "name"),
		Symbol: common.TryTokenString(token, "symbol"),
	}
}

// Pay pulls amount of the payment token from the payer account, which must
// have approved the ledger as a spender beforehand, and appends a payment
// record. The recorded amount is the balance delta actually received by the
// ledger, not the nominal amount: deflationary or fee-charging tokens
// deliver less than requested and the ledger must account for what it
// possesses. It can be invoked only with the payer witness while the
// contract is not paused.
//
// Produces a PaymentReceived notification.
func Pay(payer interop.Hash160, amount int, memo string) {
	ctx := storage.GetContext()
	common.LockGuard(ctx)

	if storage.Get(ctx, pausedKey) != nil {
		panic("payments are paused")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}
	if len(memo) > maxMemoLen {
		panic("memo is too long")
	}
	if !common.IsUsableAddress(payer) {
		panic("payment is not witnessed by the payer")
	}

	token := getToken(ctx)
	self := runtime.GetExecutingScriptHash()

	before := common.TokenBalanceOf(token, self)
	res := contract.Call(token, "transferFrom", contract.All,
		self, payer, self, amount, nil)
	common.ExpectTokenTransferOK(res)

	received := common.TokenBalanceOf(token, self) - before
	if received <= 0 {
		panic("nothing received")
	}

	index := common.GetIntOrZero(ctx, countKey)
	record := PaymentRecord{
		Payer:     payer,
		Amount:    received,
		Memo:      memo,
		Timestamp: runtime.GetTime(),
	}
	common.SetSerialized(ctx, paymentKey(index), record)
	storage.Put(ctx, countKey, index+1)

	totalKey := totalPaidKey(payer)
	storage.Put(ctx, totalKey, common.GetIntOrZero(ctx, totalKey)+received)

	runtime.Notify("PaymentReceived", payer, received, memo)
	common.UnlockGuard(ctx)
}

// Withdraw moves amount of the held payment token to the destination
// account. It can be invoked only by the contract owner and remains
// available while payments are paused.
//
// Produces a Withdrawal notification.
func Withdraw(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.LockGuard(ctx)
	common.CheckOwnerWitness(getOwner(ctx))

	withdraw(ctx, getToken(ctx), to, amount)

	common.UnlockGuard(ctx)
}

// WithdrawAll moves the entire current holding of the payment token to the
// destination account. The balance is read from the token contract at call
// time. It can be invoked only by the contract owner.
//
// Produces a Withdrawal notification.
func WithdrawAll(to interop.Hash160) {
	ctx := storage.GetContext()
	common.LockGuard(ctx)
	common.CheckOwnerWitness(getOwner(ctx))

	token := getToken(ctx)
	amount := common.TokenBalanceOf(token, runtime.GetExecutingScriptHash())
	withdraw(ctx, token, to, amount)

	common.UnlockGuard(ctx)
}

// Sweep rescues a foreign token accidentally held by the ledger. The
// designated payment token is rejected: its holdings are part of ledger
// bookkeeping and can leave only through Withdraw. It can be invoked only
// by the contract owner.
//
// Produces a Sweep notification.
func Sweep(token, to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.LockGuard(ctx)
	common.CheckOwnerWitness(getOwner(ctx))

	if !common.IsValidAddress(token) {
		panic("incorrect token script hash")
	}
	if common.BytesEqual(token, getToken(ctx)) {
		panic("cannot sweep the payment token, use withdraw")
	}
	if !common.IsValidAddress(to) {
		panic("incorrect destination script hash")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}

	self := runtime.GetExecutingScriptHash()
	res := contract.Call(token, "transfer", contract.All, self, to, amount, nil)
	common.ExpectTokenTransferOK(res)

	runtime.Notify("Sweep", token, to, amount)
	common.UnlockGuard(ctx)
}

// SetPaused toggles the Pay gate. Withdrawals and sweeps stay available
// while paused so that held funds can always be recovered. It can be
// invoked only by the contract owner.
func SetPaused(paused bool) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if paused {
		storage.Put(ctx, pausedKey, 1)
		runtime.Log("payments paused")
	} else {
		storage.Delete(ctx, pausedKey)
		runtime.Log("payments resumed")
	}
}

// TransferOwnership nominates a new owner. The current owner keeps full
// control until the nominee calls AcceptOwnership, which prevents an
// irrecoverable handover to an unreachable account. It can be invoked only
// by the contract owner.
func TransferOwnership(newOwner interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if !common.IsValidAddress(newOwner) {
		panic("incorrect new owner script hash")
	}

	storage.Put(ctx, pendingOwnerKey, newOwner)
	runtime.Log("ownership transfer started")
}

// AcceptOwnership completes an ownership transfer started by
// TransferOwnership. It can be invoked only with the witness of the
// nominated account.
//
// Produces an OwnershipTransferred notification.
func AcceptOwnership() {
	ctx := storage.GetContext()

	data := storage.Get(ctx, pendingOwnerKey)
	if data == nil {
		panic("no ownership transfer in flight")
	}

	pending := data.(interop.Hash160)
	if !runtime.CheckWitness(pending) {
		panic("not witnessed by the pending owner")
	}

	previous := getOwner(ctx)
	storage.Put(ctx, ownerKey, pending)
	storage.Delete(ctx, pendingOwnerKey)

	runtime.Log("ownership transferred")
	runtime.Notify("OwnershipTransferred", previous, pending)
}

// PaymentsLength returns the number of recorded payments.
func PaymentsLength() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, countKey)
}

// GetPayment returns the payment record with the given index. It panics if
// the index is out of range.
func GetPayment(index int) PaymentRecord {
	ctx := storage.GetReadOnlyContext()
	if index < 0 || index >= common.GetIntOrZero(ctx, countKey) {
		panic("index is out of range")
	}

	return getPayment(ctx, index)
}

// GetPayments returns up to count payment records starting from the given
// index. Both arguments are clamped to the recorded range, a start past the
// end yields an empty list.
func GetPayments(start, count int) []PaymentRecord {
	ctx := storage.GetReadOnlyContext()
	length := common.GetIntOrZero(ctx, countKey)

	if start < 0 {
		start = 0
	}
	if count < 0 {
		count = 0
	}

	end := start + count
	if end > length {
		end = length
	}

	records := []PaymentRecord{}
	for i := start; i < end; i++ {
		records = append(records, getPayment(ctx, i))
	}

	return records
}

// TotalPaidBy returns the running total of amounts received from the given
// payer across all of its payments.
func TotalPaidBy(payer interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, totalPaidKey(payer))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// withdraw moves amount of the payment token out of the contract account.
func withdraw(ctx storage.Context, token, to interop.Hash160, amount int) {
	if !common.IsValidAddress(to) {
		panic("incorrect destination script hash")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}

	self := runtime.GetExecutingScriptHash()
	res := contract.Call(token, "transfer", contract.All, self, to, amount, nil)
	common.ExpectTokenTransferOK(res)

	runtime.Notify("Withdrawal", to, amount)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func getToken(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, tokenKey).(interop.Hash160)
}

func paymentKey(index int) []byte {
	return append([]byte{paymentPrefix}, convert.ToBytes(index)...)
}

func totalPaidKey(payer interop.Hash160) []byte {
	return append([]byte{totalPrefix}, payer...)
}

func getPayment(ctx storage.Context, index int) PaymentRecord {
	data := storage.Get(ctx, paymentKey(index))
	return std.Deserialize(data.([]byte)).(PaymentRecord)
}
