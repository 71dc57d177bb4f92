// Package deploy provides Glacier token contract deployment routine.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the token contract deployment.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns an error with 'Unknown contract'
	// substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// Prm groups deployment parameters.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to be used.
	Blockchain Blockchain

	// Local process account used for transaction signing. It pays for the
	// deployment and becomes the deployer in the contract address derivation.
	LocalAccount *wallet.Account

	// Compiled contract.
	NEF      nef.File
	Manifest manifest.Manifest

	// Initialization parameters of the token, applied when (and only when) the
	// contract is deployed for the first time.
	Admin    util.Uint160
	Decimals uint8
	Name     string
	Symbol   string
}

// Deploy deploys the token contract to the given Neo blockchain and
// initializes it with the parameters from Prm within the same flow. If the
// contract is already deployed, Deploy touches nothing and just returns its
// address, so the routine may be called on every startup.
func Deploy(ctx context.Context, prm Prm) (util.Uint160, error) {
	if prm.Logger == nil {
		return util.Uint160{}, errors.New("missing logger")
	}

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	contractAddress := state.CreateContractHash(localActor.Sender(), prm.NEF.Checksum, prm.Manifest.Name)

	deployed, err := isContractDeployed(prm.Blockchain, contractAddress)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("check contract state: %w", err)
	}

	if deployed {
		prm.Logger.Info("contract is already deployed, skip",
			zap.Stringer("address", contractAddress))
		return contractAddress, nil
	}

	prm.Logger.Info("contract is not deployed yet, deploying...",
		zap.Stringer("address", contractAddress))

	mgmt := management.New(localActor)

	txID, vub, err := mgmt.Deploy(&prm.NEF, &prm.Manifest, nil)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send contract deployment transaction: %w", err)
	}

	if err = waitForHalt(localActor, txID, vub); err != nil {
		return util.Uint160{}, fmt.Errorf("deployment transaction: %w", err)
	}

	prm.Logger.Info("contract successfully deployed, initializing...",
		zap.Stringer("tx", txID))

	txID, vub, err = localActor.SendCall(contractAddress, "initialize",
		prm.Admin, int64(prm.Decimals), prm.Name, prm.Symbol)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("send contract initialization transaction: %w", err)
	}

	if err = waitForHalt(localActor, txID, vub); err != nil {
		return util.Uint160{}, fmt.Errorf("initialization transaction: %w", err)
	}

	prm.Logger.Info("contract successfully initialized",
		zap.Stringer("tx", txID), zap.Stringer("admin", prm.Admin))

	return contractAddress, nil
}

// Admin reads the current administrator of the deployed token contract.
func Admin(b Blockchain, contractAddress util.Uint160) (util.Uint160, error) {
	return unwrap.Uint160(invoker.New(b, nil).Call(contractAddress, "admin"))
}

// Supply reads total token supply from the deployed token contract.
func Supply(b Blockchain, contractAddress util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(invoker.New(b, nil).Call(contractAddress, "totalSupply"))
}

func isContractDeployed(b Blockchain, contractAddress util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(contractAddress)
	if err == nil {
		return true, nil
	}

	if strings.Contains(err.Error(), "Unknown contract") {
		return false, nil
	}

	return false, err
}

func waitForHalt(a *actor.Actor, txID util.Uint256, vub uint32) error {
	aer, err := a.Wait(txID, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for execution: %w", err)
	}

	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("execution faulted (%s): %s", aer.VMState, aer.FaultException)
	}

	return nil
}
