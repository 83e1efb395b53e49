package trustee

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/themis-network/neo-contracts/common"
)

// Trustee groups data kept for a registered trustee. Trustees stake GAS
// deposits, earn withdrawable fees for witnessing trade orders and are ranked
// by reputation when a committee is selected.
type Trustee struct {
	// Reputation score, assigned administratively.
	Fame int

	// Staked GAS held on the contract account.
	Deposit int

	// Withdrawable fee balance earned for order service.
	AccruedFee int

	// Number of open orders the trustee currently serves on.
	Active int

	// Registration sequence number, used as the stable ranking tie-break.
	Index int

	// Public key for off-ledger encrypted communication. Not interpreted
	// by the contracts.
	PublicKey []byte
}

// nolint:deadcode,unused
type kv struct {
	k []byte
	v []byte
}

const (
	// CommitteeSize is the number of trustees selected to witness a trade
	// order. It is odd so that a verification vote always has an
	// unambiguous majority.
	CommitteeSize = 5

	// MinDeposit is the smallest stake making a trustee eligible for
	// committee selection.
	MinDeposit = 1

	tradeContractKey = "tradeScriptHash"
	counterKey       = "trusteeCounter"
)

var trusteePrefix = []byte{'t'}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()

	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)
		return
	}

	args := data.(struct {
		owner interop.Hash160
	})

	if len(args.owner) != interop.Hash160Len {
		panic("invalid owner account")
	}

	common.SetOwner(ctx, args.owner)
	storage.Put(ctx, counterKey, 0)
	runtime.Log("trustee contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("trustee contract updated")
}

// UpdateTradeContract stores the address of the Trade contract allowed to
// manage committees and credit fees. It can be invoked only by the contract
// owner.
func UpdateTradeContract(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if len(addr) != interop.Hash160Len {
		panic("invalid trade contract address")
	}
	storage.Put(ctx, tradeContractKey, addr)
}

// OnNEP17Payment is a callback for the NEP-17 compatible native GAS
// contract. The contract account holds trustee deposits and the fee pools of
// resolved orders, so it accepts plain GAS and nothing else. All crediting is
// done by the methods initiating the transfers.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("trustee contract accepts GAS only")
	}
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}
}

// AddTrustee registers a new trustee with the given reputation score and
// communication key. The deposit and the fee balance start at zero, so the
// trustee is not eligible for selection until the first deposit top-up. It
// can be invoked only by the contract owner.
func AddTrustee(addr interop.Hash160, fame int, publicKey []byte) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if len(addr) != interop.Hash160Len {
		panic("invalid trustee account")
	}
	if fame < 0 {
		panic("negative fame")
	}

	key := trusteeKey(addr)
	if storage.Get(ctx, key) != nil {
		panic("trustee already registered")
	}

	index := storage.Get(ctx, counterKey).(int)
	storage.Put(ctx, counterKey, index+1)

	common.SetSerialized(ctx, key, Trustee{
		Fame:      fame,
		Index:     index,
		PublicKey: publicKey,
	})

	runtime.Notify("AddTrustee", addr, fame)
}

// SetFame assigns a new reputation score to a registered trustee. It can be
// invoked only by the contract owner.
func SetFame(addr interop.Hash160, fame int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if fame < 0 {
		panic("negative fame")
	}

	t := mustGetTrustee(ctx, addr)
	t.Fame = fame
	common.SetSerialized(ctx, trusteeKey(addr), t)
}

// IncreaseDeposit tops up the stake of a registered trustee. It can be
// invoked only by the trustee, and the GAS moves from the trustee account to
// the contract account within the same transaction: if the transfer fails,
// the whole invocation faults and the credited stake is rolled back.
func IncreaseDeposit(addr interop.Hash160, amount int) {
	ctx := storage.GetContext()

	common.CheckWitness(addr)

	if amount <= 0 {
		panic("non positive deposit amount")
	}

	t := mustGetTrustee(ctx, addr)
	t.Deposit += amount
	common.SetSerialized(ctx, trusteeKey(addr), t)

	transferred := gas.Transfer(addr, runtime.GetExecutingScriptHash(), amount,
		common.DepositTransferDetails())
	if !transferred {
		panic("failed to transfer deposit, aborting")
	}

	runtime.Notify("Deposit", addr, amount)
}

// RemoveTrustee retires a trustee and refunds the remaining deposit. A
// trustee serving on open orders or holding unwithdrawn fees cannot be
// removed. It can be invoked only by the contract owner.
func RemoveTrustee(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	t := mustGetTrustee(ctx, addr)
	if t.Active > 0 {
		panic("trustee is serving open orders")
	}
	if t.AccruedFee > 0 {
		panic("trustee has unpaid fees")
	}

	storage.Delete(ctx, trusteeKey(addr))

	if t.Deposit > 0 {
		transferred := gas.Transfer(runtime.GetExecutingScriptHash(), addr,
			t.Deposit, common.PayoutTransferDetails())
		if !transferred {
			panic("failed to refund deposit, aborting")
		}
	}

	runtime.Notify("RemoveTrustee", addr)
}

// SelectCommittee returns the accounts of the CommitteeSize best eligible
// trustees without mutating any state. Eligible trustees hold at least
// MinDeposit of stake; the ranking is by descending fame, then by descending
// deposit, then by registration order. The result is fully determined by the
// registry contents at the time of the call.
func SelectCommittee() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return selectCommittee(ctx)
}

// LockCommittee selects a committee the same way SelectCommittee does and
// marks every member as serving one more open order. It can be invoked only
// by the Trade contract.
func LockCommittee() []interop.Hash160 {
	ctx := storage.GetContext()
	checkTradeCaller(ctx)

	committee := selectCommittee(ctx)
	for i := 0; i < len(committee); i++ {
		t := mustGetTrustee(ctx, committee[i])
		t.Active++
		common.SetSerialized(ctx, trusteeKey(committee[i]), t)
	}
	return committee
}

// ReleaseCommittee marks the listed trustees as done serving one open order.
// It can be invoked only by the Trade contract.
func ReleaseCommittee(members []interop.Hash160) {
	ctx := storage.GetContext()
	checkTradeCaller(ctx)

	for i := 0; i < len(members); i++ {
		t := mustGetTrustee(ctx, members[i])
		if t.Active <= 0 {
			panic("trustee is not serving any order")
		}
		t.Active--
		common.SetSerialized(ctx, trusteeKey(members[i]), t)
	}
}

// CreditFee adds the amount to the withdrawable fee balance of a trustee. It
// can be invoked only by the Trade contract; the backing GAS arrives on the
// contract account in the same transaction.
func CreditFee(addr interop.Hash160, amount int) {
	ctx := storage.GetContext()
	checkTradeCaller(ctx)

	if amount <= 0 {
		panic("non positive fee amount")
	}

	t := mustGetTrustee(ctx, addr)
	t.AccruedFee += amount
	common.SetSerialized(ctx, trusteeKey(addr), t)
}

// WithdrawFee pays the accrued fee balance out to the trustee account and
// zeroes it. The balance is zeroed in storage before the GAS leaves the
// contract account, so a reentering recipient observes the settled state. It
// can be invoked only by the trustee.
func WithdrawFee(addr interop.Hash160) int {
	ctx := storage.GetContext()

	common.CheckWitness(addr)

	t := mustGetTrustee(ctx, addr)
	if t.AccruedFee == 0 {
		panic("nothing to withdraw")
	}

	amount := t.AccruedFee
	t.AccruedFee = 0
	common.SetSerialized(ctx, trusteeKey(addr), t)

	transferred := gas.Transfer(runtime.GetExecutingScriptHash(), addr, amount,
		common.PayoutTransferDetails())
	if !transferred {
		panic("failed to transfer fee, aborting")
	}

	runtime.Notify("WithdrawFee", addr, amount)
	return amount
}

// IsTrustee returns whether the account is a registered trustee.
func IsTrustee(addr interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, trusteeKey(addr)) != nil
}

// FameOf returns the reputation score of a registered trustee.
func FameOf(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetTrustee(ctx, addr).Fame
}

// DepositOf returns the staked deposit of a registered trustee.
func DepositOf(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetTrustee(ctx, addr).Deposit
}

// AccruedFeeOf returns the withdrawable fee balance of a registered trustee.
func AccruedFeeOf(addr interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetTrustee(ctx, addr).AccruedFee
}

// PublicKeyOf returns the communication key of a registered trustee.
func PublicKeyOf(addr interop.Hash160) []byte {
	ctx := storage.GetReadOnlyContext()
	return mustGetTrustee(ctx, addr).PublicKey
}

// Trustees returns an iterator over the accounts of all registered
// trustees, eligible or not.
func Trustees() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, trusteePrefix, storage.KeysOnly|storage.RemovePrefix)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

type candidate struct {
	addr    interop.Hash160
	fame    int
	deposit int
	index   int
}

func selectCommittee(ctx storage.Context) []interop.Hash160 {
	var ranked []candidate

	it := storage.Find(ctx, trusteePrefix, storage.None)
	for iterator.Next(it) {
		pair := iterator.Value(it).(kv)

		rec := std.Deserialize(pair.v).(Trustee)
		if rec.Deposit < MinDeposit {
			continue
		}

		c := candidate{
			addr:    interop.Hash160(pair.k[1:]),
			fame:    rec.Fame,
			deposit: rec.Deposit,
			index:   rec.Index,
		}

		// Insertion keeping the ranking order; the registry is small
		// enough for quadratic placement.
		pos := len(ranked)
		for pos > 0 && ranks(c, ranked[pos-1]) {
			pos--
		}
		ranked = append(ranked, c)
		for i := len(ranked) - 1; i > pos; i-- {
			ranked[i] = ranked[i-1]
		}
		ranked[pos] = c
	}

	if len(ranked) < CommitteeSize {
		panic("not enough eligible trustees")
	}

	committee := make([]interop.Hash160, CommitteeSize)
	for i := 0; i < CommitteeSize; i++ {
		committee[i] = ranked[i].addr
	}
	return committee
}

// ranks reports whether a must be placed strictly before b.
func ranks(a, b candidate) bool {
	if a.fame != b.fame {
		return a.fame > b.fame
	}
	if a.deposit != b.deposit {
		return a.deposit > b.deposit
	}
	return a.index < b.index
}

func checkTradeCaller(ctx storage.Context) {
	raw := storage.Get(ctx, tradeContractKey)
	if raw == nil {
		panic("trade contract is not set")
	}
	common.CheckContractCaller(raw.(interop.Hash160))
}

func mustGetTrustee(ctx storage.Context, addr interop.Hash160) Trustee {
	val := common.GetSerialized(ctx, trusteeKey(addr))
	if val == nil {
		panic("trustee not found")
	}
	return val.(Trustee)
}

func trusteeKey(addr interop.Hash160) []byte {
	return append(trusteePrefix, addr...)
}
