package feetoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/paygate-contract/common"
)

// Token holds all token info.
type Token struct {
	// Token name
	Name string
	// Ticker symbol
	Symbol string
	// Amount of decimals
	Decimals int
	// Storage key for circulation value
	CirculationKey string
}

const (
	name     = "PayGate Token"
	symbol   = "PGT"
	decimals = 8

	ownerKey        = 'o'
	feeBpsKey       = 'f'
	feeCollectorKey = 'c'
	circulationKey  = "supply"

	balancePrefix   = 'b'
	allowancePrefix = 'a'

	// maxFeeBps caps the transfer fee at 10%.
	maxFeeBps = 1000
	// feeDenominator scales basis points: 10000 bps = 100%.
	feeDenominator = 10000
)

var token Token

func createToken() Token {
	return Token{
		Name:           name,
		Symbol:         symbol,
		Decimals:       decimals,
		CirculationKey: circulationKey,
	}
}

func init() {
	token = createToken()
}

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		owner         interop.Hash160
		initialSupply int
	})

	if !common.IsValidAddress(args.owner) {
		panic("incorrect owner script hash")
	}
	if args.initialSupply < 0 {
		panic("negative initial supply")
	}

	storage.Put(ctx, ownerKey, args.owner)

	if args.initialSupply > 0 {
		setBalance(ctx, args.owner, args.initialSupply)
		storage.Put(ctx, token.CirculationKey, args.initialSupply)
		runtime.Notify("Transfer", nil, args.owner, args.initialSupply)
	}

	runtime.Log("fee token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("fee token contract updated")
}

// Name returns the token name.
func Name() string {
	return token.Name
}

// Symbol is a NEP-17 standard method that returns the token ticker symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of token
// balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of minted
// tokens not yet burnt.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return token.getSupply(ctx)
}

// BalanceOf is a NEP-17 standard method that returns the token balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getBalance(ctx, account)
}

// Owner returns the script hash of the privileged account controlling supply
// and fee parameters.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getOwner(ctx)
}

// FeeBps returns the current transfer fee in basis points.
func FeeBps() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetIntOrZero(ctx, feeBpsKey)
}

// FeeCollector returns the account credited with the fee leg of fee-bearing
// transfers. It returns an empty value while the fee is disabled and no
// collector has been set.
func FeeCollector() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, feeCollectorKey)
	if data == nil {
		return nil
	}
	return data.(interop.Hash160)
}

// Transfer is a NEP-17 standard method that moves tokens between accounts.
// It can be invoked by the account owner or by a smart contract equal to
// from. If the transfer fee is enabled, to is credited with the amount
// reduced by the fee and the fee goes to the fee collector.
//
// Produces a Transfer notification per balance movement.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	if !common.IsUsableAddress(from) {
		runtime.Log("transfer is not witnessed by the sender")
		return false
	}

	return token.transfer(ctx, from, to, amount)
}

// Approve authorizes spender to withdraw up to amount from the owner's
// balance via TransferFrom. A repeated call overwrites the previous
// authorization. It can be invoked only by the balance owner.
//
// Produces an Approval notification.
func Approve(owner, spender interop.Hash160, amount int) bool {
	if amount < 0 {
		panic("negative amount")
	}
	if !common.IsValidAddress(spender) {
		panic("incorrect spender script hash")
	}
	if !common.IsUsableAddress(owner) {
		runtime.Log("approval is not witnessed by the balance owner")
		return false
	}

	ctx := storage.GetContext()
	setAllowance(ctx, owner, spender, amount)

	runtime.Notify("Approval", owner, spender, amount)
	return true
}

// Allowance returns the remaining amount spender is authorized to withdraw
// from the owner's balance.
func Allowance(owner, spender interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getAllowance(ctx, owner, spender)
}

// TransferFrom moves tokens from one account to another on behalf of
// spender using a previously approved allowance. The allowance is reduced by
// the full nominal amount. It can be invoked by the spender account or by a
// smart contract equal to spender.
//
// Produces a Transfer notification per balance movement.
func TransferFrom(spender, from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	if !common.IsUsableAddress(spender) {
		runtime.Log("transfer is not witnessed by the spender")
		return false
	}

	allowance := getAllowance(ctx, from, spender)
	if allowance < amount {
		runtime.Log("not enough allowance")
		return false
	}

	if !token.transfer(ctx, from, to, amount) {
		return false
	}

	setAllowance(ctx, from, spender, allowance-amount)
	return true
}

// Mint creates amount of tokens on the to account increasing total supply.
// No fee is charged: issuance is a supply change, not a transfer. It can be
// invoked only by the contract owner.
//
// Produces a Transfer notification with null sender.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if amount <= 0 {
		panic("non-positive amount")
	}
	if !common.IsValidAddress(to) {
		panic("incorrect recipient script hash")
	}

	setBalance(ctx, to, getBalance(ctx, to)+amount)
	storage.Put(ctx, token.CirculationKey, token.getSupply(ctx)+amount)

	runtime.Log("tokens were minted")
	runtime.Notify("Transfer", nil, to, amount)
}

// Burn destroys amount of tokens on the from account decreasing total
// supply. No fee is charged. It can be invoked only by the contract owner.
//
// Produces a Transfer notification with null receiver.
func Burn(from interop.Hash160, amount int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if amount <= 0 {
		panic("non-positive amount")
	}

	balance := getBalance(ctx, from)
	if balance < amount {
		panic("not enough assets")
	}

	setBalance(ctx, from, balance-amount)

	supply := token.getSupply(ctx)
	if supply < amount {
		panic("negative supply after burn")
	}
	storage.Put(ctx, token.CirculationKey, supply-amount)

	runtime.Log("tokens were burned")
	runtime.Notify("Transfer", from, nil, amount)
}

// SetFee updates the transfer fee parameters. Basis points are capped at
// maxFeeBps and a valid collector is required whenever bps is positive. Both
// parameters are validated before the first storage write and stored
// together. It can be invoked only by the contract owner.
//
// Produces a FeeParamsUpdated notification.
func SetFee(bps int, collector interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))

	if bps < 0 || bps > maxFeeBps {
		panic("fee exceeds maximum")
	}
	if bps > 0 && !common.IsValidAddress(collector) {
		panic("incorrect fee collector script hash")
	}

	storage.Put(ctx, feeBpsKey, bps)
	if common.IsValidAddress(collector) {
		storage.Put(ctx, feeCollectorKey, collector)
	} else {
		storage.Delete(ctx, feeCollectorKey)
	}

	runtime.Log("fee parameters updated")
	runtime.Notify("FeeParamsUpdated", bps, collector)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// getSupply gets the token totalSupply value from VM storage.
func (t Token) getSupply(ctx storage.Context) int {
	return common.GetIntOrZero(ctx, t.CirculationKey)
}

// transfer debits the full nominal amount from the sender exactly once and
// credits the net amount to the recipient. The fee leg is credited to the
// collector only when it is positive so that no zero-value internal move is
// produced.
func (t Token) transfer(ctx storage.Context, from, to interop.Hash160, amount int) bool {
	if amount < 0 {
		panic("negative amount")
	}
	if len(to) != interop.Hash160Len {
		runtime.Log("bad recipient script hash")
		return false
	}

	balance := getBalance(ctx, from)
	if balance < amount {
		runtime.Log("not enough assets")
		return false
	}

	fee := 0
	feeBps := common.GetIntOrZero(ctx, feeBpsKey)
	if feeBps > 0 && amount > 0 {
		fee = amount * feeBps / feeDenominator
	}

	setBalance(ctx, from, balance-amount)
	setBalance(ctx, to, getBalance(ctx, to)+amount-fee)

	runtime.Notify("Transfer", from, to, amount-fee)

	if fee > 0 {
		collector := storage.Get(ctx, feeCollectorKey).(interop.Hash160)
		setBalance(ctx, collector, getBalance(ctx, collector)+fee)
		runtime.Notify("Transfer", from, collector, fee)
	}

	return true
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func allowanceKey(owner, spender interop.Hash160) []byte {
	return append(append([]byte{allowancePrefix}, owner...), spender...)
}

func getBalance(ctx storage.Context, account interop.Hash160) int {
	return common.GetIntOrZero(ctx, balanceKey(account))
}

func setBalance(ctx storage.Context, account interop.Hash160, balance int) {
	key := balanceKey(account)
	if balance == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, balance)
	}
}

func getAllowance(ctx storage.Context, owner, spender interop.Hash160) int {
	return common.GetIntOrZero(ctx, allowanceKey(owner, spender))
}

func setAllowance(ctx storage.Context, owner, spender interop.Hash160, amount int) {
	key := allowanceKey(owner, spender)
	if amount == 0 {
		storage.Delete(ctx, key)
	} else {
		storage.Put(ctx, key, amount)
	}
}
