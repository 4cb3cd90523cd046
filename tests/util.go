package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

const (
	feeTokenPath      = "../contracts/feetoken"
	paymentLedgerPath = "../contracts/paymentledger"

	hostileTokenPath = "../internal/testcontracts/hostiletoken"
	voidTokenPath    = "../internal/testcontracts/voidtoken"
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// deployContract compiles a contract from its source directory together with
// the config.yml located there and deploys it with the given data.
func deployContract(t *testing.T, e *neotest.Executor, ctrPath string, data any) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ctrPath, path.Join(ctrPath, "config.yml"))
	e.DeployContract(t, c, data)
	return c.Hash
}

// deployFeeToken deploys the FeeToken contract owned by the committee with
// the given initial supply minted to it.
func deployFeeToken(t *testing.T, e *neotest.Executor, initialSupply int64) util.Uint160 {
	args := make([]any, 2)
	args[0] = e.CommitteeHash
	args[1] = initialSupply

	return deployContract(t, e, feeTokenPath, args)
}

// deployPaymentLedger deploys the PaymentLedger contract owned by the
// committee with the given designated payment token.
func deployPaymentLedger(t *testing.T, e *neotest.Executor, token util.Uint160) util.Uint160 {
	args := make([]any, 2)
	args[0] = e.CommitteeHash
	args[1] = token

	return deployContract(t, e, paymentLedgerPath, args)
}
