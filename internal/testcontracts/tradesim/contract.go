// Package tradesim implements a test-only contract standing in for the Trade
// contract in Trustee contract tests. It forwards committee and fee calls to
// the target registry and, as a fee recipient, either records the balance
// observed during the payout transfer or attempts to reenter WithdrawFee.
package tradesim

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	targetKey = "target"
	modeKey   = "mode"
	seenKey   = "seen"
)

// Payment handling modes.
const (
	ModeIdle = iota
	ModeObserve
	ModeReenter
)

// Init stores the Trustee contract address calls are forwarded to.
func Init(target interop.Hash160) {
	storage.Put(storage.GetContext(), targetKey, target)
}

// SetMode selects what OnNEP17Payment does when a payout arrives.
func SetMode(mode int) {
	storage.Put(storage.GetContext(), modeKey, mode)
}

// Lock forwards to LockCommittee of the target registry.
func Lock() []interop.Hash160 {
	return contract.Call(target(), "lockCommittee", contract.All).([]interop.Hash160)
}

// Release forwards to ReleaseCommittee of the target registry.
func Release(members []interop.Hash160) {
	contract.Call(target(), "releaseCommittee", contract.All, members)
}

// Credit forwards to CreditFee of the target registry.
func Credit(addr interop.Hash160, amount int) {
	contract.Call(target(), "creditFee", contract.All, addr, amount)
}

// Withdraw claims the fee balance this contract accrued as a trustee.
func Withdraw() {
	contract.Call(target(), "withdrawFee", contract.All,
		runtime.GetExecutingScriptHash())
}

// OnNEP17Payment reacts to the withdrawal payout according to the configured
// mode: ModeObserve records the fee balance the registry reports for this
// contract mid-transfer, ModeReenter calls WithdrawFee again.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetContext()

	rawMode := storage.Get(ctx, modeKey)
	if rawMode == nil {
		return
	}

	self := runtime.GetExecutingScriptHash()

	switch rawMode.(int) {
	case ModeObserve:
		fee := contract.Call(target(), "accruedFeeOf", contract.ReadOnly, self).(int)
		storage.Put(ctx, seenKey, fee)
	case ModeReenter:
		contract.Call(target(), "withdrawFee", contract.All, self)
	}
}

// SeenFee returns the fee balance recorded by the last observed payout.
func SeenFee() int {
	raw := storage.Get(storage.GetReadOnlyContext(), seenKey)
	if raw == nil {
		return -1
	}
	return raw.(int)
}

func target() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), targetKey).(interop.Hash160)
}
