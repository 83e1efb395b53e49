// Package deploy provides the Themis contract suite deployment procedure for
// Neo N3 networks.
package deploy

import (
	"context"
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

	trusteerpc "github.com/themis-network/neo-contracts/rpc/trustee"
)

// Blockchain groups services of a particular Neo blockchain network required
// by the deployment procedure.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to
	// the blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by
	// its address. GetContractStateByHash returns an error with 'Unknown
	// contract' substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// ContractPrm groups deployment parameters of one contract.
type ContractPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the Themis contract suite deployment.
type Prm struct {
	// Writes progress into the log. Optional.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy to.
	Blockchain Blockchain

	// Account becoming the owner of all deployed contracts. Must be
	// unlocked and must have enough GAS for the deployment transactions.
	LocalAccount *wallet.Account

	UserContract    ContractPrm
	TrusteeContract ContractPrm
	TradeContract   ContractPrm
}

// Contracts is the address set of a deployed Themis contract suite.
type Contracts struct {
	User    util.Uint160
	Trustee util.Uint160
	Trade   util.Uint160
}

// Deploy rolls the Themis contract suite out to the Neo network represented
// by prm.Blockchain and wires the contracts together. The procedure is
// idempotent: contracts that are already on the chain (judged by the
// deterministic deployment address) are left untouched, so a failed run may
// simply be repeated.
//
// Contracts are deployed in dependency order: User, then Trustee, then Trade
// which references both. A freshly deployed Trade contract is registered in
// the Trustee contract within the same run.
func Deploy(ctx context.Context, prm Prm) (*Contracts, error) {
	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	act, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return nil, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	mgmt := management.New(act)
	owner := prm.LocalAccount.ScriptHash()

	l.Info("synchronizing User contract with the chain...")

	userAddr, _, err := syncContract(ctx, l, prm.Blockchain, act, mgmt,
		prm.UserContract, []any{owner})
	if err != nil {
		return nil, fmt.Errorf("sync User contract with the chain: %w", err)
	}

	l.Info("User contract on the chain", zap.Stringer("address", userAddr))

	l.Info("synchronizing Trustee contract with the chain...")

	trusteeAddr, trusteeDeployed, err := syncContract(ctx, l, prm.Blockchain, act, mgmt,
		prm.TrusteeContract, []any{owner})
	if err != nil {
		return nil, fmt.Errorf("sync Trustee contract with the chain: %w", err)
	}

	l.Info("Trustee contract on the chain", zap.Stringer("address", trusteeAddr))

	l.Info("synchronizing Trade contract with the chain...")

	tradeAddr, tradeDeployed, err := syncContract(ctx, l, prm.Blockchain, act, mgmt,
		prm.TradeContract, []any{owner, trusteeAddr, userAddr})
	if err != nil {
		return nil, fmt.Errorf("sync Trade contract with the chain: %w", err)
	}

	l.Info("Trade contract on the chain", zap.Stringer("address", tradeAddr))

	// the registry trusts calls from the recorded Trade contract only, so a
	// fresh deployment of either side must re-register the address
	if trusteeDeployed || tradeDeployed {
		l.Info("registering Trade contract in the Trustee contract...")

		trusteeContract := trusteerpc.New(act, trusteeAddr)

		txHash, vub, err := trusteeContract.UpdateTradeContract(tradeAddr)
		aer, err := act.Wait(txHash, vub, err)
		if err != nil {
			return nil, fmt.Errorf("register Trade contract in the Trustee contract: %w", err)
		}
		if aer.VMState != vmstate.Halt {
			return nil, fmt.Errorf("register Trade contract in the Trustee contract: invocation fault: %s", aer.FaultException)
		}

		l.Info("Trade contract successfully registered in the Trustee contract")
	}

	return &Contracts{
		User:    userAddr,
		Trustee: trusteeAddr,
		Trade:   tradeAddr,
	}, nil
}

// syncContract deploys the contract unless its deterministic address is
// already occupied on the chain. The boolean result reports whether the
// contract was deployed by this call.
func syncContract(ctx context.Context, l *zap.Logger, b Blockchain, act *actor.Actor,
	mgmt *management.Contract, prm ContractPrm, deployArgs []any) (util.Uint160, bool, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, false, err
	}

	addr := expectedAddress(act.Sender(), prm)

	cs, err := b.GetContractStateByHash(addr)
	if err == nil && cs != nil {
		l.Info("contract is already on the chain, skipping deployment",
			zap.String("name", prm.Manifest.Name), zap.Stringer("address", addr))
		return addr, false, nil
	}
	if err != nil && !isUnknownContractError(err) {
		return util.Uint160{}, false, fmt.Errorf("read state of contract %s: %w", prm.Manifest.Name, err)
	}

	txHash, vub, err := mgmt.Deploy(&prm.NEF, &prm.Manifest, deployArgs)
	aer, err := act.Wait(txHash, vub, err)
	if err != nil {
		return util.Uint160{}, false, fmt.Errorf("deploy contract %s: %w", prm.Manifest.Name, err)
	}
	if aer.VMState != vmstate.Halt {
		return util.Uint160{}, false, fmt.Errorf("deploy contract %s: invocation fault: %s",
			prm.Manifest.Name, aer.FaultException)
	}

	return addr, true, nil
}

// expectedAddress returns the deterministic on-chain address of the contract
// when deployed by the given sender.
func expectedAddress(sender util.Uint160, prm ContractPrm) util.Uint160 {
	return state.CreateContractHash(sender, prm.NEF.Checksum, prm.Manifest.Name)
}

func isUnknownContractError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "Unknown contract")
}
