// Package deploy provides PayGate contracts deployment routine.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services of the Neo blockchain network required for
// PayGate contracts deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// FeeTokenPrm groups deployment parameters of the PayGate FeeToken contract.
type FeeTokenPrm struct {
	Common CommonDeployPrm

	// Account becoming the contract owner.
	Owner util.Uint160

	// Amount of token units minted to the owner on deployment. May be zero.
	InitialSupply int64
}

// PaymentLedgerPrm groups deployment parameters of the PayGate PaymentLedger
// contract.
type PaymentLedgerPrm struct {
	Common CommonDeployPrm

	// Account becoming the contract owner.
	Owner util.Uint160

	// Address of the NEP-17 token accepted for payments. Zero value means the
	// FeeToken contract deployed within the same procedure.
	Token util.Uint160
}

// Prm groups all parameters of the PayGate contracts deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	LocalAccount *wallet.Account

	FeeToken      FeeTokenPrm
	PaymentLedger PaymentLedgerPrm
}

// Deploy brings the PayGate contracts onto the chain represented by given
// Prm.Blockchain: first the FeeToken contract, then the PaymentLedger one
// bound to it. Contracts that are already on the chain are left as is, so
// Deploy may be called repeatedly to heal a partially deployed setup.
//
// Deploy aborts only by context or when a fatal error occurs.
func Deploy(ctx context.Context, prm Prm) error {
	switch {
	case prm.Blockchain == nil:
		return errors.New("missing blockchain client")
	case prm.LocalAccount == nil:
		return errors.New("missing local account")
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return fmt.Errorf("init transaction sender from local account: %w", err)
	}

	mgmt := management.New(localActor)

	prm.Logger.Info("synchronizing FeeToken contract with the chain...")

	tokenAddress, err := syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localActor: localActor,
		mgmt:       mgmt,
		common:     prm.FeeToken.Common,
		deployArgs: []any{prm.FeeToken.Owner, prm.FeeToken.InitialSupply},
	})
	if err != nil {
		return fmt.Errorf("sync FeeToken contract with the chain: %w", err)
	}

	prm.Logger.Info("FeeToken contract successfully synchronized", zap.Stringer("address", tokenAddress))

	paymentToken := prm.PaymentLedger.Token
	if paymentToken.Equals(util.Uint160{}) {
		paymentToken = tokenAddress
	}

	prm.Logger.Info("synchronizing PaymentLedger contract with the chain...",
		zap.Stringer("token", paymentToken))

	ledgerAddress, err := syncContract(ctx, syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		localActor: localActor,
		mgmt:       mgmt,
		common:     prm.PaymentLedger.Common,
		deployArgs: []any{prm.PaymentLedger.Owner, paymentToken},
	})
	if err != nil {
		return fmt.Errorf("sync PaymentLedger contract with the chain: %w", err)
	}

	prm.Logger.Info("PaymentLedger contract successfully synchronized", zap.Stringer("address", ledgerAddress))

	return nil
}

// syncContractPrm groups parameters of a single contract synchronization.
type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	localActor *actor.Actor
	mgmt       *management.Contract
	common     CommonDeployPrm
	deployArgs []any
}

// syncContract deploys the contract unless it is already on the chain. The
// address is a function of the deploying account, so re-running the procedure
// with the same account converges to the same contract.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	onChainAddress := state.CreateContractHash(prm.localActor.Sender(), prm.common.NEF.Checksum, prm.common.Manifest.Name)

	alreadyOnChain, err := isContractOnChain(prm.blockchain, onChainAddress)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("check presence of the contract on the chain: %w", err)
	}

	if alreadyOnChain {
		prm.logger.Info("contract is already on the chain", zap.Stringer("address", onChainAddress))
		return onChainAddress, nil
	}

	if err := ctx.Err(); err != nil {
		return util.Uint160{}, fmt.Errorf("wait for deployment: %w", err)
	}

	txID, vub, err := prm.mgmt.Deploy(&prm.common.NEF, &prm.common.Manifest, prm.deployArgs)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send transaction deploying the contract: %w", err)
	}

	prm.logger.Info("transaction deploying the contract has been successfully sent, waiting...",
		zap.Stringer("tx", txID), zap.Uint32("vub", vub))

	rcpt, err := prm.localActor.Wait(txID, vub, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("wait for the deployment transaction to be accepted: %w", err)
	}

	if rcpt.VMState != vmstate.Halt {
		return util.Uint160{}, fmt.Errorf("deployment transaction failed: %s", rcpt.FaultException)
	}

	return onChainAddress, nil
}

func isContractOnChain(b Blockchain, addr util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		return true, nil
	}

	// Neo RPC servers report missing contracts with a distinguished message
	// instead of a typed error.
	if strings.Contains(err.Error(), "Unknown contract") {
		return false, nil
	}

	return false, err
}
