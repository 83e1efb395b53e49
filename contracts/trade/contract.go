package trade

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/themis-network/neo-contracts/common"
	"github.com/themis-network/neo-contracts/contracts/trade/orderstatus"
)

type (
	// Order is the record of one escrow trade. It owns the shard and vote
	// data of the trade exclusively and references committee trustees by
	// account only.
	Order struct {
		// Themis identifiers of the trading parties. SellerID is zero
		// until the order is confirmed.
		BuyerID  int
		SellerID int

		// Current lifecycle state.
		Status orderstatus.Type

		// Escrowed trade fee and the part of it still held by the
		// contract account.
		Fee        int
		EscrowLeft int

		// Committee locked in at confirmation time, ranking order
		// preserved. Immutable once set.
		Trustees []interop.Hash160

		// Verification vote tallies.
		Votes     int
		YesSeller int
		YesBuyer  int

		// Arbitration outcome, zero until set.
		Requester int
		Winner    int

		// Released is set once the committee has been released back to
		// the registry.
		Released bool

		// Unsealed is set at VerifiedSuccess and never cleared, so a
		// later arbitration does not re-seal shard access.
		Unsealed bool
	}

	// Secret is one party's uploaded shard set. Shard i is addressed to
	// committee member i; VerifyData lets a member validate its shard
	// without reconstructing the secret. Both are opaque to the contract.
	Secret struct {
		Shards     [][]byte
		VerifyData []byte
	}
)

const (
	orderPrefix      = 'o'
	secretPrefix     = 'x'
	votePrefix       = 'v'
	arbitratorPrefix = 'a'

	trusteeContractKey = "trusteeScriptHash"
	userContractKey    = "userScriptHash"
)

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
		owner       interop.Hash160
		addrTrustee interop.Hash160
		addrUser    interop.Hash160
	})

	if len(args.owner) != interop.Hash160Len {
		panic("invalid owner account")
	}

	common.SetOwner(ctx, args.owner)

	if len(args.addrTrustee) == interop.Hash160Len {
		storage.Put(ctx, trusteeContractKey, args.addrTrustee)
	}
	if len(args.addrUser) == interop.Hash160Len {
		storage.Put(ctx, userContractKey, args.addrUser)
	}

	runtime.Log("trade contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("trade contract updated")
}

// UpdateTrusteeContract stores the address of the Trustee contract. It can be
// invoked only by the contract owner.
func UpdateTrusteeContract(addr interop.Hash160) {
	updateContractAddress(trusteeContractKey, addr)
}

// UpdateUserContract stores the address of the User contract. It can be
// invoked only by the contract owner.
func UpdateUserContract(addr interop.Hash160) {
	updateContractAddress(userContractKey, addr)
}

// OnNEP17Payment is a callback for the NEP-17 compatible native GAS
// contract. The contract account holds order escrows, so it accepts plain
// GAS and nothing else.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("trade contract accepts GAS only")
	}
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	}
}

// CreateNewTradeOrder opens a trade order for a registered buyer and escrows
// the trade fee on the contract account. The order identifier is supplied by
// the caller and must be unused. It can be invoked only by the contract
// owner; the fee moves from the owner account within the same transaction.
func CreateNewTradeOrder(orderID, buyerID, fee int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if orderID == 0 {
		panic("zero order ID")
	}
	if buyerID == 0 {
		panic("zero user ID")
	}
	if fee <= 0 {
		panic("non positive fee")
	}

	key := common.FixedKey(orderPrefix, orderID)
	if storage.Get(ctx, key) != nil {
		panic("order already exists")
	}

	if !isRegisteredUser(ctx, buyerID) {
		panic("buyer is not a registered user")
	}

	common.SetSerialized(ctx, key, Order{
		BuyerID:    buyerID,
		Status:     orderstatus.Created,
		Fee:        fee,
		EscrowLeft: fee,
	})

	transferred := gas.Transfer(common.Owner(ctx), runtime.GetExecutingScriptHash(),
		fee, common.EscrowTransferDetails(orderID))
	if !transferred {
		panic("failed to escrow fee, aborting")
	}

	runtime.Notify("CreateOrder", orderID, buyerID, fee)
}

// ConfirmTradeOrder sets the seller side of a created order and locks in the
// trustee committee selected by the Trustee contract. Any party may invoke
// it. If the registry cannot produce a full committee, the invocation faults
// and the order stays in the Created state.
func ConfirmTradeOrder(orderID, sellerID int) {
	ctx := storage.GetContext()

	order := mustGetOrder(ctx, orderID)
	if order.Status != orderstatus.Created {
		panic("invalid order state")
	}
	if sellerID == 0 {
		panic("zero user ID")
	}
	if sellerID == order.BuyerID {
		panic("buyer and seller must differ")
	}
	if !isRegisteredUser(ctx, sellerID) {
		panic("seller is not a registered user")
	}

	committee := contract.Call(trusteeContract(ctx), "lockCommittee",
		contract.All).([]interop.Hash160)

	order.SellerID = sellerID
	order.Status = orderstatus.Confirmed
	order.Trustees = committee
	putOrder(ctx, orderID, order)

	runtime.Notify("ConfirmOrder", orderID, sellerID)
}

// UploadSecret stores one party's shard set for an order. Shards are
// addressed per committee member, so exactly one shard per trustee is
// required. Upload is cross-wise: the buyer uploads the set readable with
// the seller's ID and vice versa, and the transaction must be witnessed by
// the counterpart account. Each side is written at most once; when both
// sides are present, the order moves to the SecretUploaded state.
func UploadSecret(orderID int, shards [][]byte, forUserID int, verifyData []byte) {
	ctx := storage.GetContext()

	order := mustGetOrder(ctx, orderID)
	if order.Status != orderstatus.Confirmed && order.Status != orderstatus.SecretUploaded {
		panic("invalid order state")
	}

	var counterpart int
	switch forUserID {
	case order.SellerID:
		counterpart = order.BuyerID
	case order.BuyerID:
		counterpart = order.SellerID
	default:
		panic("user is not an order party")
	}

	common.CheckWitness(userAddress(ctx, counterpart))

	if len(shards) != len(order.Trustees) {
		panic("shard count does not match committee size")
	}

	key := secretKey(orderID, forUserID)
	if storage.Get(ctx, key) != nil {
		panic("secret already uploaded")
	}

	common.SetSerialized(ctx, key, Secret{
		Shards:     shards,
		VerifyData: verifyData,
	})

	if storage.Get(ctx, secretKey(orderID, counterpart)) != nil {
		order.Status = orderstatus.SecretUploaded
		putOrder(ctx, orderID, order)
	}

	runtime.Notify("UploadSecret", orderID, forUserID)
}

// SendVerifyResult records one committee member's verification vote on the
// seller-addressed and buyer-addressed shard sets. Each member votes at most
// once. A majority of "yes" on both questions resolves the order to
// VerifiedSuccess: the fee is split across the committee (floor division,
// the remainder goes to the first-ranked member) and moved to the Trustee
// contract account. A majority of "no" on either question resolves it to
// VerifiedFail and the escrow is retained pending arbitration.
func SendVerifyResult(orderID int, trustee interop.Hash160, forSeller, forBuyer bool) {
	ctx := storage.GetContext()

	order := mustGetOrder(ctx, orderID)
	if order.Status != orderstatus.SecretUploaded {
		panic("invalid order state")
	}
	if committeeIndex(order, trustee) < 0 {
		panic("not a committee member")
	}

	common.CheckWitness(trustee)

	voteKey := append(common.FixedKey(votePrefix, orderID), trustee...)
	if storage.Get(ctx, voteKey) != nil {
		panic("already voted")
	}
	storage.Put(ctx, voteKey, []byte{1})

	order.Votes++
	if forSeller {
		order.YesSeller++
	}
	if forBuyer {
		order.YesBuyer++
	}

	majority := len(order.Trustees)/2 + 1

	switch {
	case order.YesSeller >= majority && order.YesBuyer >= majority:
		resolveSuccess(ctx, orderID, order)
	case order.Votes-order.YesSeller >= majority || order.Votes-order.YesBuyer >= majority:
		resolveFail(ctx, orderID, order)
	default:
		putOrder(ctx, orderID, order)
	}

	runtime.Notify("VerifyResult", orderID, trustee, forSeller, forBuyer)
}

// Arbitrate moves a confirmed or resolved order into the Arbitration state
// on behalf of one of its parties. The transaction must be witnessed by the
// requesting party or by the contract owner filing for a user.
func Arbitrate(orderID, requesterID int) {
	ctx := storage.GetContext()

	order := mustGetOrder(ctx, orderID)
	switch order.Status {
	case orderstatus.Confirmed, orderstatus.SecretUploaded,
		orderstatus.VerifiedSuccess, orderstatus.VerifiedFail:
	default:
		panic("invalid order state")
	}

	if requesterID != order.BuyerID && requesterID != order.SellerID {
		panic("requester is not an order party")
	}

	if !runtime.CheckWitness(userAddress(ctx, requesterID)) &&
		!runtime.CheckWitness(common.Owner(ctx)) {
		panic(common.ErrWitnessFailed)
	}

	order.Status = orderstatus.Arbitration
	order.Requester = requesterID
	putOrder(ctx, orderID, order)

	runtime.Notify("Arbitration", orderID, requesterID)
}

// AddArbitrator grants the arbitrator role to an account. It can be invoked
// only by the contract owner.
func AddArbitrator(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if len(addr) != interop.Hash160Len {
		panic("invalid arbitrator account")
	}

	key := arbitratorKey(addr)
	if storage.Get(ctx, key) != nil {
		panic("arbitrator already added")
	}
	storage.Put(ctx, key, []byte{1})
}

// RemoveArbitrator revokes the arbitrator role. It can be invoked only by
// the contract owner.
func RemoveArbitrator(addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	key := arbitratorKey(addr)
	if storage.Get(ctx, key) == nil {
		panic("arbitrator not found")
	}
	storage.Delete(ctx, key)
}

// IsArbitrator returns whether the account holds the arbitrator role.
func IsArbitrator(addr interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, arbitratorKey(addr)) != nil
}

// Judge resolves an order under arbitration by naming the winning party.
// The remaining escrow (the full fee unless VerifiedSuccess already
// distributed it) is transferred to the winner's registered account; the
// escrow is marked settled in storage before the GAS leaves the contract.
// It can be invoked only by a registered arbitrator.
func Judge(orderID, winnerID int, arbitrator interop.Hash160) {
	ctx := storage.GetContext()

	if !IsArbitrator(arbitrator) {
		panic("not an arbitrator")
	}
	common.CheckWitness(arbitrator)

	order := mustGetOrder(ctx, orderID)
	if order.Status != orderstatus.Arbitration {
		panic("invalid order state")
	}
	if winnerID != order.BuyerID && winnerID != order.SellerID {
		panic("winner is not an order party")
	}

	remaining := order.EscrowLeft
	order.Status = orderstatus.Judged
	order.Winner = winnerID
	order.EscrowLeft = 0

	released := order.Released
	order.Released = true
	putOrder(ctx, orderID, order)

	if !released {
		contract.Call(trusteeContract(ctx), "releaseCommittee",
			contract.All, order.Trustees)
	}

	if remaining > 0 {
		transferred := gas.Transfer(runtime.GetExecutingScriptHash(),
			userAddress(ctx, winnerID), remaining, common.PayoutTransferDetails())
		if !transferred {
			panic("failed to settle escrow, aborting")
		}
	}

	runtime.Notify("Judge", orderID, winnerID, remaining)
}

// GetOrderStatus returns the lifecycle state of an order.
func GetOrderStatus(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return int(mustGetOrder(ctx, orderID).Status)
}

// GetOrderBuyer returns the buyer identifier of an order.
func GetOrderBuyer(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).BuyerID
}

// GetOrderSeller returns the seller identifier of an order, zero before
// confirmation.
func GetOrderSeller(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).SellerID
}

// GetOrderFee returns the escrowed trade fee of an order.
func GetOrderFee(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).Fee
}

// GetOrderTrustees returns the committee locked in for an order, in ranking
// order. The list is empty before confirmation.
func GetOrderTrustees(orderID int) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).Trustees
}

// GetRequester returns the identifier of the party that requested
// arbitration, zero if none did.
func GetRequester(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).Requester
}

// GetWinner returns the identifier of the party an arbitrator named as the
// winner, zero before judgement.
func GetWinner(orderID int) int {
	ctx := storage.GetReadOnlyContext()
	return mustGetOrder(ctx, orderID).Winner
}

// HasVoted returns whether the committee member already submitted its
// verification vote for the order.
func HasVoted(orderID int, trustee interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append(common.FixedKey(votePrefix, orderID), trustee...)) != nil
}

// GetSecret returns the shard of the given party's set addressed to the
// given committee member. Until the order reaches VerifiedSuccess the shard
// is readable only with a witness of the buyer, the seller or the addressed
// member; afterwards it is freely readable.
func GetSecret(orderID int, trustee interop.Hash160, forUserID int) []byte {
	ctx := storage.GetReadOnlyContext()

	order := mustGetOrder(ctx, orderID)
	idx := committeeIndex(order, trustee)
	if idx < 0 {
		panic("not a committee member")
	}

	secret := mustGetSecret(ctx, orderID, forUserID)
	checkReadAccess(ctx, order, trustee)
	return secret.Shards[idx]
}

// GetVerifyData returns the verification tag of the given party's shard set.
// The visibility rule of GetSecret applies, with any committee member
// allowed before the order is unsealed.
func GetVerifyData(orderID, forUserID int) []byte {
	ctx := storage.GetReadOnlyContext()

	order := mustGetOrder(ctx, orderID)
	secret := mustGetSecret(ctx, orderID, forUserID)

	if !order.Unsealed {
		for i := 0; i < len(order.Trustees); i++ {
			if runtime.CheckWitness(order.Trustees[i]) {
				return secret.VerifyData
			}
		}
		checkPartyWitness(ctx, order)
	}
	return secret.VerifyData
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func resolveSuccess(ctx storage.Context, orderID int, order Order) {
	order.Status = orderstatus.VerifiedSuccess
	order.Unsealed = true
	order.EscrowLeft = 0
	order.Released = true
	putOrder(ctx, orderID, order)

	trusteeAddr := trusteeContract(ctx)

	size := len(order.Trustees)
	share := order.Fee / size
	remainder := order.Fee % size

	for i := 0; i < size; i++ {
		amount := share
		if i == 0 {
			amount += remainder
		}
		if amount > 0 {
			contract.Call(trusteeAddr, "creditFee", contract.All,
				order.Trustees[i], amount)
		}
	}

	contract.Call(trusteeAddr, "releaseCommittee", contract.All, order.Trustees)

	transferred := gas.Transfer(runtime.GetExecutingScriptHash(), trusteeAddr,
		order.Fee, common.FeePoolTransferDetails(orderID))
	if !transferred {
		panic("failed to fund fee pool, aborting")
	}

	runtime.Notify("OrderResolved", orderID, int(orderstatus.VerifiedSuccess))
}

func resolveFail(ctx storage.Context, orderID int, order Order) {
	order.Status = orderstatus.VerifiedFail
	order.Released = true
	putOrder(ctx, orderID, order)

	contract.Call(trusteeContract(ctx), "releaseCommittee", contract.All,
		order.Trustees)

	runtime.Notify("OrderResolved", orderID, int(orderstatus.VerifiedFail))
}

func checkReadAccess(ctx storage.Context, order Order, trustee interop.Hash160) {
	if order.Unsealed {
		return
	}
	if runtime.CheckWitness(trustee) {
		return
	}
	checkPartyWitness(ctx, order)
}

func checkPartyWitness(ctx storage.Context, order Order) {
	if runtime.CheckWitness(userAddress(ctx, order.BuyerID)) {
		return
	}
	if order.SellerID != 0 && runtime.CheckWitness(userAddress(ctx, order.SellerID)) {
		return
	}
	panic(common.ErrWitnessFailed)
}

func committeeIndex(order Order, trustee interop.Hash160) int {
	for i := 0; i < len(order.Trustees); i++ {
		if order.Trustees[i].Equals(trustee) {
			return i
		}
	}
	return -1
}

func isRegisteredUser(ctx storage.Context, id int) bool {
	return contract.Call(userContract(ctx), "isRegisteredUser",
		contract.ReadOnly, id).(bool)
}

func userAddress(ctx storage.Context, id int) interop.Hash160 {
	return contract.Call(userContract(ctx), "getUserAddress",
		contract.ReadOnly, id).(interop.Hash160)
}

func trusteeContract(ctx storage.Context) interop.Hash160 {
	raw := storage.Get(ctx, trusteeContractKey)
	if raw == nil {
		panic("trustee contract is not set")
	}
	return raw.(interop.Hash160)
}

func userContract(ctx storage.Context) interop.Hash160 {
	raw := storage.Get(ctx, userContractKey)
	if raw == nil {
		panic("user contract is not set")
	}
	return raw.(interop.Hash160)
}

func updateContractAddress(key string, addr interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if len(addr) != interop.Hash160Len {
		panic("invalid contract address")
	}
	storage.Put(ctx, key, addr)
}

func mustGetOrder(ctx storage.Context, orderID int) Order {
	val := common.GetSerialized(ctx, common.FixedKey(orderPrefix, orderID))
	if val == nil {
		panic("order not found")
	}
	return val.(Order)
}

func putOrder(ctx storage.Context, orderID int, order Order) {
	common.SetSerialized(ctx, common.FixedKey(orderPrefix, orderID), order)
}

func mustGetSecret(ctx storage.Context, orderID, forUserID int) Secret {
	val := common.GetSerialized(ctx, secretKey(orderID, forUserID))
	if val == nil {
		panic("secret not found")
	}
	return val.(Secret)
}

func secretKey(orderID, forUserID int) []byte {
	return append(common.FixedKey(secretPrefix, orderID),
		common.FixedKey(0, forUserID)...)
}

func arbitratorKey(addr interop.Hash160) []byte {
	return append([]byte{arbitratorPrefix}, addr...)
}
