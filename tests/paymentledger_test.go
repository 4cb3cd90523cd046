package tests

import (
	"math/big"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/paygate-contract/common"
	"github.com/stretchr/testify/require"
)

type ledgerEnv struct {
	e          *neotest.Executor
	token      *neotest.ContractInvoker
	ledger     *neotest.ContractInvoker
	tokenHash  util.Uint160
	ledgerHash util.Uint160
}

func newLedgerEnv(t *testing.T) *ledgerEnv {
	e := newExecutor(t)

	tokenHash := deployFeeToken(t, e, tokenSupply)
	ledgerHash := deployPaymentLedger(t, e, tokenHash)

	return &ledgerEnv{
		e:          e,
		token:      e.CommitteeInvoker(tokenHash),
		ledger:     e.CommitteeInvoker(ledgerHash),
		tokenHash:  tokenHash,
		ledgerHash: ledgerHash,
	}
}

// newPayer creates a fresh account funded with the given amount of the
// payment token.
func (env *ledgerEnv) newPayer(t *testing.T, funds int) (neotest.Signer, util.Uint160) {
	acc := env.ledger.NewAccount(t)
	h := acc.ScriptHash()
	env.token.Invoke(t, true, "transfer", env.e.CommitteeHash, h, funds, nil)
	return acc, h
}

// pay approves the ledger as a spender and records a payment of the nominal
// amount on behalf of the payer.
func (env *ledgerEnv) pay(t *testing.T, payer neotest.Signer, amount int, memo string) {
	h := payer.ScriptHash()
	env.token.WithSigners(payer).Invoke(t, true, "approve", h, env.ledgerHash, amount)
	env.ledger.WithSigners(payer).Invoke(t, stackitem.Null{}, "pay", h, amount, memo)
}

type paymentRecord struct {
	payer     []byte
	amount    *big.Int
	memo      string
	timestamp *big.Int
}

func recordFromItem(t *testing.T, item stackitem.Item) paymentRecord {
	fields, ok := item.Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, fields, 4)

	payer, err := fields[0].TryBytes()
	require.NoError(t, err)
	amount, err := fields[1].TryInteger()
	require.NoError(t, err)
	memo, err := fields[2].TryBytes()
	require.NoError(t, err)
	timestamp, err := fields[3].TryInteger()
	require.NoError(t, err)

	return paymentRecord{payer, amount, string(memo), timestamp}
}

func invokeRecord(t *testing.T, c *neotest.ContractInvoker, index int) paymentRecord {
	res, err := c.TestInvoke(t, "getPayment", index)
	require.NoError(t, err)
	return recordFromItem(t, res.Pop().Item())
}

func invokeRecords(t *testing.T, c *neotest.ContractInvoker, start, count int) []paymentRecord {
	res, err := c.TestInvoke(t, "getPayments", start, count)
	require.NoError(t, err)

	items, ok := res.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)

	records := make([]paymentRecord, 0, len(items))
	for _, item := range items {
		records = append(records, recordFromItem(t, item))
	}
	return records
}

func invokeTokenInfo(t *testing.T, c *neotest.ContractInvoker) tokenInfo {
	res, err := c.TestInvoke(t, "tokenInfo")
	require.NoError(t, err)

	fields, ok := res.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, fields, 2)

	name, err := fields[0].TryBytes()
	require.NoError(t, err)
	symbol, err := fields[1].TryBytes()
	require.NoError(t, err)

	return tokenInfo{string(name), string(symbol)}
}

func TestLedgerDeploy(t *testing.T) {
	env := newLedgerEnv(t)
	c := env.ledger

	c.Invoke(t, stackitem.NewByteArray(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.Null{}, "pendingOwner")
	c.Invoke(t, false, "paused")
	c.Invoke(t, stackitem.NewByteArray(env.tokenHash.BytesBE()), "token")
	c.Invoke(t, 0, "paymentsLength")
	c.Invoke(t, 0, "balance")
	c.Invoke(t, common.Version, "version")

	info := invokeTokenInfo(t, c)
	require.Equal(t, "PayGate Token", info.name)
	require.Equal(t, "PGT", info.symbol)

	t.Run("bad deploy args", func(t *testing.T) {
		ctr := neotest.CompileFile(t, env.e.CommitteeHash, paymentLedgerPath, paymentLedgerPath+"/config.yml")
		env.e.DeployContractCheckFAULT(t, ctr, []any{util.Uint160{}, env.tokenHash}, "incorrect owner script hash")
	})
}

type tokenInfo struct {
	name   string
	symbol string
}

func TestLedgerPay(t *testing.T) {
	env := newLedgerEnv(t)

	payer, payerHash := env.newPayer(t, 500)
	env.pay(t, payer, 123, "order-1")

	env.ledger.Invoke(t, 1, "paymentsLength")
	env.ledger.Invoke(t, 123, "totalPaidBy", payerHash)
	env.ledger.Invoke(t, 123, "balance")
	env.token.Invoke(t, 123, "balanceOf", env.ledgerHash)
	env.token.Invoke(t, 500-123, "balanceOf", payerHash)

	record := invokeRecord(t, env.ledger, 0)
	require.Equal(t, payerHash.BytesBE(), record.payer)
	require.EqualValues(t, 123, record.amount.Int64())
	require.Equal(t, "order-1", record.memo)
	require.True(t, record.timestamp.Sign() > 0)

	// Second payment of the same payer accumulates the total.
	env.pay(t, payer, 77, "order-2")
	env.ledger.Invoke(t, 2, "paymentsLength")
	env.ledger.Invoke(t, 200, "totalPaidBy", payerHash)
}

func TestLedgerPayWithTokenFee(t *testing.T) {
	env := newLedgerEnv(t)

	collector := env.ledger.NewAccount(t).ScriptHash()
	env.token.Invoke(t, stackitem.Null{}, "setFee", 100, collector)

	payer, payerHash := env.newPayer(t, 200)

	// The payer is funded through a fee-charging transfer, account for it.
	funded := 200 - 200*100/10000
	env.token.Invoke(t, funded, "balanceOf", payerHash)

	// The ledger records the amount it actually received, not the nominal
	// transfer amount.
	env.pay(t, payer, 100, "order-fee")
	received := 100 - 100*100/10000

	env.ledger.Invoke(t, received, "totalPaidBy", payerHash)
	env.ledger.Invoke(t, received, "balance")

	record := invokeRecord(t, env.ledger, 0)
	require.EqualValues(t, received, record.amount.Int64())
}

func TestLedgerPayValidation(t *testing.T) {
	env := newLedgerEnv(t)

	payer, payerHash := env.newPayer(t, 100)
	cPayer := env.ledger.WithSigners(payer)

	cPayer.InvokeFail(t, "non-positive amount", "pay", payerHash, 0, "x")
	cPayer.InvokeFail(t, "non-positive amount", "pay", payerHash, -5, "x")
	cPayer.InvokeFail(t, "memo is too long", "pay", payerHash, 10, strings.Repeat("m", 257))

	// No allowance granted: the token refuses the pull.
	cPayer.InvokeFail(t, "token transfer failed", "pay", payerHash, 10, "x")

	// Payer witness is mandatory.
	stranger := env.ledger.NewAccount(t)
	env.ledger.WithSigners(stranger).InvokeFail(t,
		"payment is not witnessed by the payer", "pay", payerHash, 10, "x")

	env.ledger.Invoke(t, 0, "paymentsLength")
	env.ledger.Invoke(t, 0, "totalPaidBy", payerHash)
}

func TestLedgerPause(t *testing.T) {
	env := newLedgerEnv(t)

	payer, payerHash := env.newPayer(t, 100)

	env.ledger.Invoke(t, stackitem.Null{}, "setPaused", true)
	env.ledger.Invoke(t, true, "paused")

	env.token.WithSigners(payer).Invoke(t, true, "approve", payerHash, env.ledgerHash, 50)
	env.ledger.WithSigners(payer).InvokeFail(t, "payments are paused", "pay", payerHash, 50, "x")
	env.ledger.Invoke(t, 0, "paymentsLength")

	env.ledger.Invoke(t, stackitem.Null{}, "setPaused", false)
	env.ledger.Invoke(t, false, "paused")

	env.pay(t, payer, 50, "after-resume")
	env.ledger.Invoke(t, 1, "paymentsLength")
}

func TestLedgerWithdraw(t *testing.T) {
	env := newLedgerEnv(t)

	payer, _ := env.newPayer(t, 1000)
	env.pay(t, payer, 100, "a")
	env.pay(t, payer, 200, "b")

	dest := env.ledger.NewAccount(t).ScriptHash()

	env.ledger.Invoke(t, stackitem.Null{}, "withdrawAll", dest)
	env.token.Invoke(t, 300, "balanceOf", dest)
	env.ledger.Invoke(t, 0, "balance")

	// Nothing left to withdraw.
	env.ledger.InvokeFail(t, "non-positive amount", "withdrawAll", dest)

	env.pay(t, payer, 100, "c")
	env.ledger.Invoke(t, stackitem.Null{}, "withdraw", dest, 40)
	env.token.Invoke(t, 340, "balanceOf", dest)
	env.ledger.Invoke(t, 60, "balance")

	env.ledger.InvokeFail(t, "incorrect destination script hash", "withdraw", util.Uint160{}, 10)
	env.ledger.InvokeFail(t, "non-positive amount", "withdraw", dest, 0)

	// The payment log is untouched by withdrawals.
	env.ledger.Invoke(t, 3, "paymentsLength")

	// Withdrawal stays available while paused.
	env.ledger.Invoke(t, stackitem.Null{}, "setPaused", true)
	env.ledger.Invoke(t, stackitem.Null{}, "withdraw", dest, 60)
	env.token.Invoke(t, 400, "balanceOf", dest)
}

func TestLedgerUnauthorized(t *testing.T) {
	env := newLedgerEnv(t)

	acc := env.ledger.NewAccount(t)
	accHash := acc.ScriptHash()
	c := env.ledger.WithSigners(acc)

	c.InvokeFail(t, "owner witness check failed", "withdraw", accHash, 10)
	c.InvokeFail(t, "owner witness check failed", "withdrawAll", accHash)
	c.InvokeFail(t, "owner witness check failed", "setPaused", true)
	c.InvokeFail(t, "owner witness check failed", "sweep", env.tokenHash, accHash, 10)
	c.InvokeFail(t, "owner witness check failed", "transferOwnership", accHash)

	env.ledger.Invoke(t, false, "paused")
	env.ledger.Invoke(t, stackitem.NewByteArray(env.e.CommitteeHash.BytesBE()), "owner")
}

func TestLedgerSweep(t *testing.T) {
	env := newLedgerEnv(t)

	otherHash := deployContract(t, env.e, voidTokenPath, nil)
	other := env.e.CommitteeInvoker(otherHash)

	// A foreign token ends up on the ledger account by accident.
	other.Invoke(t, stackitem.Null{}, "mint", env.ledgerHash, 50)
	other.Invoke(t, 50, "balanceOf", env.ledgerHash)

	dest := env.ledger.NewAccount(t).ScriptHash()

	env.ledger.InvokeFail(t, "cannot sweep the payment token, use withdraw",
		"sweep", env.tokenHash, dest, 10)

	env.ledger.Invoke(t, stackitem.Null{}, "sweep", otherHash, dest, 50)
	other.Invoke(t, 50, "balanceOf", dest)
	other.Invoke(t, 0, "balanceOf", env.ledgerHash)

	env.ledger.InvokeFail(t, "non-positive amount", "sweep", otherHash, dest, 0)
	env.ledger.InvokeFail(t, "incorrect destination script hash", "sweep", otherHash, util.Uint160{}, 10)
}

func TestLedgerOwnership(t *testing.T) {
	env := newLedgerEnv(t)
	c := env.ledger

	c.InvokeFail(t, "no ownership transfer in flight", "acceptOwnership")

	nominee := c.NewAccount(t)
	nomineeHash := nominee.ScriptHash()
	stranger := c.NewAccount(t)

	c.InvokeFail(t, "incorrect new owner script hash", "transferOwnership", util.Uint160{})

	c.Invoke(t, stackitem.Null{}, "transferOwnership", nomineeHash)
	c.Invoke(t, stackitem.NewByteArray(nomineeHash.BytesBE()), "pendingOwner")

	// The current owner retains full control until acceptance.
	c.Invoke(t, stackitem.NewByteArray(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.Null{}, "setPaused", true)
	c.Invoke(t, stackitem.Null{}, "setPaused", false)

	c.WithSigners(stranger).InvokeFail(t, "not witnessed by the pending owner", "acceptOwnership")

	c.WithSigners(nominee).Invoke(t, stackitem.Null{}, "acceptOwnership")
	c.Invoke(t, stackitem.NewByteArray(nomineeHash.BytesBE()), "owner")
	c.Invoke(t, stackitem.Null{}, "pendingOwner")

	// Privileges follow the new owner.
	c.InvokeFail(t, "owner witness check failed", "setPaused", true)
	c.WithSigners(nominee).Invoke(t, stackitem.Null{}, "setPaused", true)
}

func TestLedgerGetPayments(t *testing.T) {
	env := newLedgerEnv(t)

	payer, _ := env.newPayer(t, 1000)
	memos := make([]string, 3)
	for i := range memos {
		memos[i] = "order-" + uuid.NewString()
		env.pay(t, payer, 10+i, memos[i])
	}

	all := invokeRecords(t, env.ledger, 0, 10)
	require.Len(t, all, 3)
	for i, record := range all {
		require.Equal(t, memos[i], record.memo)
		require.EqualValues(t, 10+i, record.amount.Int64())
	}

	page := invokeRecords(t, env.ledger, 1, 2)
	require.Len(t, page, 2)
	require.Equal(t, memos[1], page[0].memo)
	require.Equal(t, memos[2], page[1].memo)

	require.Empty(t, invokeRecords(t, env.ledger, 5, 2))
	require.Empty(t, invokeRecords(t, env.ledger, 0, -1))

	// Clamped reads never fail, single-record lookup does.
	env.ledger.InvokeFail(t, "index is out of range", "getPayment", 3)
	env.ledger.InvokeFail(t, "index is out of range", "getPayment", -1)

	// Reads are idempotent.
	again := invokeRecords(t, env.ledger, 0, 10)
	require.Equal(t, all, again)
}

func TestLedgerHostileToken(t *testing.T) {
	e := newExecutor(t)

	hostileHash := deployContract(t, e, hostileTokenPath, nil)
	ledgerHash := deployPaymentLedger(t, e, hostileHash)

	hostile := e.CommitteeInvoker(hostileHash)
	ledger := e.CommitteeInvoker(ledgerHash)

	// Reentering pay from inside the token pull trips the guard.
	hostile.Invoke(t, stackitem.Null{}, "setUp", ledgerHash, 1)
	ledger.InvokeFail(t, "reentrant call", "pay", e.CommitteeHash, 10, "x")

	// A token that silently delivers nothing is rejected by the
	// balance-delta check.
	hostile.Invoke(t, stackitem.Null{}, "setUp", ledgerHash, 0)
	ledger.InvokeFail(t, "nothing received", "pay", e.CommitteeHash, 10, "x")

	ledger.Invoke(t, 0, "paymentsLength")
}

func TestLedgerVoidToken(t *testing.T) {
	e := newExecutor(t)

	voidHash := deployContract(t, e, voidTokenPath, nil)
	ledgerHash := deployPaymentLedger(t, e, voidHash)

	void := e.CommitteeInvoker(voidHash)
	ledger := e.CommitteeInvoker(ledgerHash)

	void.Invoke(t, stackitem.Null{}, "mint", e.CommitteeHash, 100)

	// Void-returning transfer methods are treated as successful.
	ledger.Invoke(t, stackitem.Null{}, "pay", e.CommitteeHash, 60, "void-order")
	ledger.Invoke(t, 1, "paymentsLength")
	ledger.Invoke(t, 60, "totalPaidBy", e.CommitteeHash)
	void.Invoke(t, 60, "balanceOf", ledgerHash)

	// The token implements neither name nor symbol, tokenInfo reports
	// absence instead of failing.
	info := invokeTokenInfo(t, ledger)
	require.Equal(t, "", info.name)
	require.Equal(t, "", info.symbol)
}

func TestLedgerDirectTransferRejected(t *testing.T) {
	env := newLedgerEnv(t)

	gas := env.e.CommitteeInvoker(env.e.NativeHash(t, nativenames.Gas))
	gas.InvokeFail(t, "no direct transfers, use pay",
		"transfer", env.e.CommitteeHash, env.ledgerHash, 1_0000_0000, nil)
}
