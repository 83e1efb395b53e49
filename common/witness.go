package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const ownerKey = "contractOwner"

var (
	// ErrOwnerWitnessFailed appears when the method is restricted to the
	// contract owner but was called by somebody else.
	ErrOwnerWitnessFailed = "owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// using a certain account but was not.
	ErrWitnessFailed = "witness check failed"
	// ErrUnknownCaller appears when a method reserved for a linked
	// contract is invoked directly or by a wrong contract.
	ErrUnknownCaller = "caller is not an authorized contract"
)

// SetOwner stores the owner account of the current contract. It is expected
// to be called once from _deploy.
func SetOwner(ctx storage.Context, owner interop.Hash160) {
	storage.Put(ctx, ownerKey, owner)
}

// Owner returns the owner account stored by SetOwner.
func Owner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

// CheckOwnerWitness panics with ErrOwnerWitnessFailed unless the transaction
// is witnessed by the contract owner.
func CheckOwnerWitness(ctx storage.Context) {
	checkWitnessWithPanic(Owner(ctx), ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed account.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(acc interop.Hash160) {
	checkWitnessWithPanic(acc, ErrWitnessFailed)
}

// CheckContractCaller panics with ErrUnknownCaller unless the direct caller
// of the current invocation is the expected contract.
func CheckContractCaller(expected interop.Hash160) {
	if !runtime.GetCallingScriptHash().Equals(expected) {
		panic(ErrUnknownCaller)
	}
}

func checkWitnessWithPanic(acc interop.Hash160, panicMsg string) {
	if !runtime.CheckWitness(acc) {
		panic(panicMsg)
	}
}
