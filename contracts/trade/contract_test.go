package trade_test

import (
	"fmt"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/themis-network/neo-contracts/common"
	"github.com/themis-network/neo-contracts/contracts/trade/orderstatus"
)

const (
	userPath    = "../user"
	trusteePath = "../trustee"

	buyerID  = 12345
	sellerID = 43213
	tradeFee = 20
)

type tradeFixture struct {
	e *neotest.Executor

	trade   *neotest.ContractInvoker
	trustee *neotest.ContractInvoker
	user    *neotest.ContractInvoker

	buyer  neotest.Signer
	seller neotest.Signer

	// committee accounts in expected ranking order
	trustees []neotest.Signer
}

func deployAt(t *testing.T, e *neotest.Executor, srcPath string, args []any) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, srcPath,
		path.Join(srcPath, "config.yml"))
	e.DeployContract(t, c, args)
	return c.Hash
}

// newTradeFixture deploys the user, trustee and trade contracts wired
// together, registers the given number of eligible trustees (fames 7,6,5,4,4
// with deposits 10,10,10,10,9, matching the ranking the committee must come
// out in) and registers the two trading parties.
func newTradeFixture(t *testing.T, eligible int) *tradeFixture {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	userHash := deployAt(t, e, userPath, []any{e.CommitteeHash})
	trusteeHash := deployAt(t, e, trusteePath, []any{e.CommitteeHash})
	tradeHash := deployAt(t, e, ".", []any{e.CommitteeHash, trusteeHash, userHash})

	f := &tradeFixture{
		e:       e,
		trade:   e.CommitteeInvoker(tradeHash),
		trustee: e.CommitteeInvoker(trusteeHash),
		user:    e.CommitteeInvoker(userHash),
	}

	f.trustee.Invoke(t, stackitem.Null{}, "updateTradeContract", tradeHash)

	fames := []int64{7, 6, 5, 4, 4}
	deposits := []int64{10, 10, 10, 10, 9}
	for i := 0; i < eligible; i++ {
		acc := f.trustee.NewAccount(t)
		f.trustee.Invoke(t, stackitem.Null{}, "addTrustee",
			acc.ScriptHash(), fames[i], []byte(fmt.Sprintf("pk%d", i)))
		f.trustee.WithSigners(acc).Invoke(t, stackitem.Null{}, "increaseDeposit",
			acc.ScriptHash(), deposits[i])
		f.trustees = append(f.trustees, acc)
	}

	f.buyer = f.user.NewAccount(t)
	f.seller = f.user.NewAccount(t)
	f.user.Invoke(t, stackitem.Null{}, "register",
		int64(buyerID), f.buyer.ScriptHash(), []byte("buyer-pk"))
	f.user.Invoke(t, stackitem.Null{}, "register",
		int64(sellerID), f.seller.ScriptHash(), []byte("seller-pk"))

	return f
}

func (f *tradeFixture) createOrder(t *testing.T, orderID, fee int64) {
	f.trade.Invoke(t, stackitem.Null{}, "createNewTradeOrder",
		orderID, int64(buyerID), fee)
}

func (f *tradeFixture) confirmOrder(t *testing.T, orderID int64) {
	f.trade.Invoke(t, stackitem.Null{}, "confirmTradeOrder", orderID, int64(sellerID))
}

// uploadBoth cross-uploads shard sets for both parties and returns them
// keyed by the addressed user ID.
func (f *tradeFixture) uploadBoth(t *testing.T, orderID int64) map[int][][]byte {
	shards := map[int][][]byte{
		sellerID: makeShards("seller"),
		buyerID:  makeShards("buyer"),
	}

	// buyer uploads the set readable with the seller's ID, and vice versa
	f.trade.WithSigners(f.buyer).Invoke(t, stackitem.Null{}, "uploadSecret",
		orderID, toAny(shards[sellerID]), int64(sellerID), []byte("seller-tag"))
	f.trade.WithSigners(f.seller).Invoke(t, stackitem.Null{}, "uploadSecret",
		orderID, toAny(shards[buyerID]), int64(buyerID), []byte("buyer-tag"))

	return shards
}

func (f *tradeFixture) gasBalance(t *testing.T, h util.Uint160) int64 {
	gasInvoker := f.e.CommitteeInvoker(f.e.NativeHash(t, nativenames.Gas))
	res, err := gasInvoker.TestInvoke(t, "balanceOf", h)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

func makeShards(prefix string) [][]byte {
	shards := make([][]byte, 5)
	for i := range shards {
		shards[i] = []byte(fmt.Sprintf("%s-shard-%d", prefix, i))
	}
	return shards
}

func toAny(shards [][]byte) []any {
	out := make([]any, len(shards))
	for i := range shards {
		out[i] = shards[i]
	}
	return out
}

func TestTrade_CreateOrder(t *testing.T) {
	f := newTradeFixture(t, 5)

	f.createOrder(t, 1, tradeFee)
	f.trade.Invoke(t, int64(buyerID), "getOrderBuyer", int64(1))
	f.trade.Invoke(t, int64(tradeFee), "getOrderFee", int64(1))
	f.trade.Invoke(t, int64(orderstatus.Created), "getOrderStatus", int64(1))

	// the fee is escrowed on the contract account
	require.EqualValues(t, tradeFee, f.gasBalance(t, f.trade.Hash))

	t.Run("duplicate order ID", func(t *testing.T) {
		f.trade.InvokeFail(t, "order already exists", "createNewTradeOrder",
			int64(1), int64(buyerID), int64(tradeFee))
	})

	t.Run("zero order ID", func(t *testing.T) {
		f.trade.InvokeFail(t, "zero order ID", "createNewTradeOrder",
			int64(0), int64(buyerID), int64(tradeFee))
	})

	t.Run("zero buyer ID", func(t *testing.T) {
		f.trade.InvokeFail(t, "zero user ID", "createNewTradeOrder",
			int64(2), int64(0), int64(tradeFee))
	})

	t.Run("non positive fee", func(t *testing.T) {
		f.trade.InvokeFail(t, "non positive fee", "createNewTradeOrder",
			int64(2), int64(buyerID), int64(0))
	})

	t.Run("unregistered buyer", func(t *testing.T) {
		f.trade.InvokeFail(t, "buyer is not a registered user", "createNewTradeOrder",
			int64(2), int64(99999), int64(tradeFee))
	})

	t.Run("only owner", func(t *testing.T) {
		stranger := f.trade.NewAccount(t)
		f.trade.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"createNewTradeOrder", int64(2), int64(buyerID), int64(tradeFee))
	})
}

func TestTrade_ConfirmOrder(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)

	t.Run("same party", func(t *testing.T) {
		f.trade.InvokeFail(t, "buyer and seller must differ", "confirmTradeOrder",
			int64(1), int64(buyerID))
	})

	t.Run("zero seller ID", func(t *testing.T) {
		f.trade.InvokeFail(t, "zero user ID", "confirmTradeOrder", int64(1), int64(0))
	})

	t.Run("unregistered seller", func(t *testing.T) {
		f.trade.InvokeFail(t, "seller is not a registered user", "confirmTradeOrder",
			int64(1), int64(88888))
	})

	t.Run("unknown order", func(t *testing.T) {
		f.trade.InvokeFail(t, "order not found", "confirmTradeOrder",
			int64(42), int64(sellerID))
	})

	// any account may confirm
	f.trade.WithSigners(f.seller).Invoke(t, stackitem.Null{}, "confirmTradeOrder",
		int64(1), int64(sellerID))
	f.trade.Invoke(t, int64(sellerID), "getOrderSeller", int64(1))
	f.trade.Invoke(t, int64(orderstatus.Confirmed), "getOrderStatus", int64(1))

	// the committee is the top five trustees in ranking order
	res, err := f.trade.TestInvoke(t, "getOrderTrustees", int64(1))
	require.NoError(t, err)
	got := res.Top().Array()
	require.Len(t, got, 5)
	for i := range f.trustees {
		b, err := got[i].TryBytes()
		require.NoError(t, err)
		require.Equal(t, f.trustees[i].ScriptHash().BytesBE(), b, "member %d", i)
	}

	t.Run("already confirmed", func(t *testing.T) {
		f.trade.InvokeFail(t, "invalid order state", "confirmTradeOrder",
			int64(1), int64(sellerID))
	})
}

func TestTrade_ConfirmOrder_InsufficientTrustees(t *testing.T) {
	f := newTradeFixture(t, 4)
	f.createOrder(t, 1, tradeFee)

	f.trade.InvokeFail(t, "not enough eligible trustees", "confirmTradeOrder",
		int64(1), int64(sellerID))

	// the failed confirmation left the order untouched
	f.trade.Invoke(t, int64(orderstatus.Created), "getOrderStatus", int64(1))
	f.trade.Invoke(t, int64(0), "getOrderSeller", int64(1))
}

func TestTrade_UploadSecret(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)

	sellerShards := makeShards("seller")

	t.Run("before confirmation", func(t *testing.T) {
		f.trade.WithSigners(f.buyer).InvokeFail(t, "invalid order state",
			"uploadSecret", int64(1), toAny(sellerShards), int64(sellerID),
			[]byte("tag"))
	})

	f.confirmOrder(t, 1)
	cBuyer := f.trade.WithSigners(f.buyer)

	t.Run("shard count mismatch", func(t *testing.T) {
		cBuyer.InvokeFail(t, "shard count does not match committee size",
			"uploadSecret", int64(1), toAny(sellerShards[:4]), int64(sellerID),
			[]byte("tag"))
	})

	t.Run("not an order party", func(t *testing.T) {
		cBuyer.InvokeFail(t, "user is not an order party", "uploadSecret",
			int64(1), toAny(sellerShards), int64(23456), []byte("tag"))
	})

	t.Run("only the counterpart may upload", func(t *testing.T) {
		// the seller's set must come from the buyer
		f.trade.WithSigners(f.seller).InvokeFail(t, common.ErrWitnessFailed,
			"uploadSecret", int64(1), toAny(sellerShards), int64(sellerID),
			[]byte("tag"))
	})

	cBuyer.Invoke(t, stackitem.Null{}, "uploadSecret",
		int64(1), toAny(sellerShards), int64(sellerID), []byte("seller-tag"))

	// one side alone does not advance the state
	f.trade.Invoke(t, int64(orderstatus.Confirmed), "getOrderStatus", int64(1))

	t.Run("re-upload", func(t *testing.T) {
		cBuyer.InvokeFail(t, "secret already uploaded", "uploadSecret",
			int64(1), toAny(sellerShards), int64(sellerID), []byte("seller-tag"))
	})

	buyerShards := makeShards("buyer")
	f.trade.WithSigners(f.seller).Invoke(t, stackitem.Null{}, "uploadSecret",
		int64(1), toAny(buyerShards), int64(buyerID), []byte("buyer-tag"))
	f.trade.Invoke(t, int64(orderstatus.SecretUploaded), "getOrderStatus", int64(1))

	// shards come back byte-identical, addressed per committee member
	for i, acc := range f.trustees {
		cBuyer.Invoke(t, sellerShards[i], "getSecret",
			int64(1), acc.ScriptHash(), int64(sellerID))
		f.trade.WithSigners(f.seller).Invoke(t, buyerShards[i], "getSecret",
			int64(1), acc.ScriptHash(), int64(buyerID))
	}
	cBuyer.Invoke(t, []byte("seller-tag"), "getVerifyData", int64(1), int64(sellerID))
	cBuyer.Invoke(t, []byte("buyer-tag"), "getVerifyData", int64(1), int64(buyerID))

	t.Run("committee member may read its shard", func(t *testing.T) {
		cTrustee := f.trade.WithSigners(f.trustees[2])
		cTrustee.Invoke(t, sellerShards[2], "getSecret",
			int64(1), f.trustees[2].ScriptHash(), int64(sellerID))
	})

	t.Run("sealed for strangers", func(t *testing.T) {
		stranger := f.trade.NewAccount(t)
		f.trade.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed,
			"getSecret", int64(1), f.trustees[0].ScriptHash(), int64(sellerID))
		f.trade.WithSigners(stranger).InvokeFail(t, common.ErrWitnessFailed,
			"getVerifyData", int64(1), int64(sellerID))
	})

	t.Run("unknown committee member", func(t *testing.T) {
		cBuyer.InvokeFail(t, "not a committee member", "getSecret",
			int64(1), f.trade.NewAccount(t).ScriptHash(), int64(sellerID))
	})
}

func TestTrade_VerifySuccess(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)
	f.confirmOrder(t, 1)
	shards := f.uploadBoth(t, 1)

	vote := func(i int) *neotest.ContractInvoker {
		return f.trade.WithSigners(f.trustees[i])
	}

	t.Run("only committee members vote", func(t *testing.T) {
		stranger := f.trade.NewAccount(t)
		f.trade.WithSigners(stranger).InvokeFail(t, "not a committee member",
			"sendVerifyResult", int64(1), stranger.ScriptHash(), true, true)
	})

	t.Run("vote needs the member witness", func(t *testing.T) {
		vote(1).InvokeFail(t, common.ErrWitnessFailed, "sendVerifyResult",
			int64(1), f.trustees[0].ScriptHash(), true, true)
	})

	vote(0).Invoke(t, stackitem.Null{}, "sendVerifyResult",
		int64(1), f.trustees[0].ScriptHash(), true, true)

	t.Run("one vote per member", func(t *testing.T) {
		vote(0).InvokeFail(t, "already voted", "sendVerifyResult",
			int64(1), f.trustees[0].ScriptHash(), true, true)
	})

	f.trade.Invoke(t, stackitem.NewBool(true), "hasVoted",
		int64(1), f.trustees[0].ScriptHash())

	vote(1).Invoke(t, stackitem.Null{}, "sendVerifyResult",
		int64(1), f.trustees[1].ScriptHash(), true, true)
	f.trade.Invoke(t, int64(orderstatus.SecretUploaded), "getOrderStatus", int64(1))

	// the third affirmative vote is the majority and resolves the order
	vote(2).Invoke(t, stackitem.Null{}, "sendVerifyResult",
		int64(1), f.trustees[2].ScriptHash(), true, true)
	f.trade.Invoke(t, int64(orderstatus.VerifiedSuccess), "getOrderStatus", int64(1))

	t.Run("no votes after resolution", func(t *testing.T) {
		vote(3).InvokeFail(t, "invalid order state", "sendVerifyResult",
			int64(1), f.trustees[3].ScriptHash(), true, true)
	})

	// shard access is released for everybody
	stranger := f.trade.NewAccount(t)
	f.trade.WithSigners(stranger).Invoke(t, shards[sellerID][0], "getSecret",
		int64(1), f.trustees[0].ScriptHash(), int64(sellerID))

	// the whole fee moved to the trustee contract and was split evenly
	require.EqualValues(t, 0, f.gasBalance(t, f.trade.Hash))
	share := int64(tradeFee / 5)
	for _, acc := range f.trustees {
		f.trustee.Invoke(t, share, "accruedFeeOf", acc.ScriptHash())
	}

	t.Run("trustees withdraw the fee", func(t *testing.T) {
		for _, acc := range f.trustees {
			cAcc := f.trustee.WithSigners(acc)
			h := cAcc.Invoke(t, share, "withdrawFee", acc.ScriptHash())

			aer := cAcc.CheckHalt(t, h)
			found := false
			for _, ev := range aer.Events {
				if ev.Name == "WithdrawFee" && ev.ScriptHash == f.trustee.Hash {
					found = true
					require.Equal(t, stackitem.NewArray([]stackitem.Item{
						stackitem.NewByteArray(acc.ScriptHash().BytesBE()),
						stackitem.Make(share),
					}), ev.Item)
				}
			}
			require.True(t, found, "WithdrawFee notification")

			f.trustee.Invoke(t, int64(0), "accruedFeeOf", acc.ScriptHash())
			cAcc.InvokeFail(t, "nothing to withdraw", "withdrawFee", acc.ScriptHash())
		}
	})

	t.Run("committee is released", func(t *testing.T) {
		f.trustee.Invoke(t, stackitem.Null{}, "removeTrustee",
			f.trustees[4].ScriptHash())
	})
}

func TestTrade_FeeRemainder(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, 23)
	f.confirmOrder(t, 1)
	f.uploadBoth(t, 1)

	for i := 0; i < 3; i++ {
		f.trade.WithSigners(f.trustees[i]).Invoke(t, stackitem.Null{},
			"sendVerifyResult", int64(1), f.trustees[i].ScriptHash(), true, true)
	}
	f.trade.Invoke(t, int64(orderstatus.VerifiedSuccess), "getOrderStatus", int64(1))

	// 23 = 4*5 + 3: the remainder tops the first-ranked member up
	f.trustee.Invoke(t, int64(7), "accruedFeeOf", f.trustees[0].ScriptHash())
	for _, acc := range f.trustees[1:] {
		f.trustee.Invoke(t, int64(4), "accruedFeeOf", acc.ScriptHash())
	}
}

func TestTrade_VerifyFail(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)
	f.confirmOrder(t, 1)
	f.uploadBoth(t, 1)

	// majority rejects the buyer-addressed set
	for i := 0; i < 3; i++ {
		f.trade.WithSigners(f.trustees[i]).Invoke(t, stackitem.Null{},
			"sendVerifyResult", int64(1), f.trustees[i].ScriptHash(), true, false)
	}

	f.trade.Invoke(t, int64(orderstatus.VerifiedFail), "getOrderStatus", int64(1))

	// no fees are distributed and the escrow stays put
	for _, acc := range f.trustees {
		f.trustee.Invoke(t, int64(0), "accruedFeeOf", acc.ScriptHash())
	}
	require.EqualValues(t, tradeFee, f.gasBalance(t, f.trade.Hash))
}

func TestTrade_ArbitrationAndJudge(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)

	t.Run("not before confirmation", func(t *testing.T) {
		f.trade.WithSigners(f.buyer).InvokeFail(t, "invalid order state",
			"arbitrate", int64(1), int64(buyerID))
	})

	f.confirmOrder(t, 1)

	t.Run("requester must be a party", func(t *testing.T) {
		f.trade.WithSigners(f.buyer).InvokeFail(t, "requester is not an order party",
			"arbitrate", int64(1), int64(23456))
	})

	t.Run("requester witness required", func(t *testing.T) {
		f.trade.WithSigners(f.seller).InvokeFail(t, common.ErrWitnessFailed,
			"arbitrate", int64(1), int64(buyerID))
	})

	f.trade.WithSigners(f.buyer).Invoke(t, stackitem.Null{}, "arbitrate",
		int64(1), int64(buyerID))
	f.trade.Invoke(t, int64(orderstatus.Arbitration), "getOrderStatus", int64(1))
	f.trade.Invoke(t, int64(buyerID), "getRequester", int64(1))

	judge := f.trade.NewAccount(t)
	cJudge := f.trade.WithSigners(judge)

	t.Run("only arbitrators judge", func(t *testing.T) {
		cJudge.InvokeFail(t, "not an arbitrator", "judge",
			int64(1), int64(buyerID), judge.ScriptHash())
	})

	f.trade.Invoke(t, stackitem.NewBool(false), "isArbitrator", judge.ScriptHash())
	f.trade.Invoke(t, stackitem.Null{}, "addArbitrator", judge.ScriptHash())
	f.trade.Invoke(t, stackitem.NewBool(true), "isArbitrator", judge.ScriptHash())

	t.Run("arbitrator witness required", func(t *testing.T) {
		f.trade.WithSigners(f.seller).InvokeFail(t, common.ErrWitnessFailed,
			"judge", int64(1), int64(buyerID), judge.ScriptHash())
	})

	t.Run("winner must be a party", func(t *testing.T) {
		cJudge.InvokeFail(t, "winner is not an order party", "judge",
			int64(1), int64(23456), judge.ScriptHash())
	})

	balanceBefore := f.gasBalance(t, f.buyer.ScriptHash())

	cJudge.Invoke(t, stackitem.Null{}, "judge",
		int64(1), int64(buyerID), judge.ScriptHash())
	f.trade.Invoke(t, int64(orderstatus.Judged), "getOrderStatus", int64(1))
	f.trade.Invoke(t, int64(buyerID), "getWinner", int64(1))

	// the whole escrow went to the winner
	require.EqualValues(t, balanceBefore+tradeFee, f.gasBalance(t, f.buyer.ScriptHash()))
	require.EqualValues(t, 0, f.gasBalance(t, f.trade.Hash))

	t.Run("already judged", func(t *testing.T) {
		cJudge.InvokeFail(t, "invalid order state", "judge",
			int64(1), int64(sellerID), judge.ScriptHash())
		f.trade.WithSigners(f.buyer).InvokeFail(t, "invalid order state",
			"arbitrate", int64(1), int64(buyerID))
	})

	t.Run("committee was released on judgement", func(t *testing.T) {
		f.trustee.Invoke(t, stackitem.Null{}, "removeTrustee",
			f.trustees[0].ScriptHash())
	})

	t.Run("owner may file for a user", func(t *testing.T) {
		f.createOrder(t, 2, tradeFee)
		f.confirmOrder(t, 2)
		f.trade.Invoke(t, stackitem.Null{}, "arbitrate", int64(2), int64(sellerID))
		f.trade.Invoke(t, int64(sellerID), "getRequester", int64(2))
	})
}

func TestTrade_ArbitrationAfterSuccessKeepsAccess(t *testing.T) {
	f := newTradeFixture(t, 5)
	f.createOrder(t, 1, tradeFee)
	f.confirmOrder(t, 1)
	shards := f.uploadBoth(t, 1)

	for i := 0; i < 3; i++ {
		f.trade.WithSigners(f.trustees[i]).Invoke(t, stackitem.Null{},
			"sendVerifyResult", int64(1), f.trustees[i].ScriptHash(), true, true)
	}
	f.trade.Invoke(t, int64(orderstatus.VerifiedSuccess), "getOrderStatus", int64(1))

	f.trade.WithSigners(f.seller).Invoke(t, stackitem.Null{}, "arbitrate",
		int64(1), int64(sellerID))
	f.trade.Invoke(t, int64(orderstatus.Arbitration), "getOrderStatus", int64(1))

	// unsealed access survives the arbitration transition
	stranger := f.trade.NewAccount(t)
	f.trade.WithSigners(stranger).Invoke(t, shards[buyerID][1], "getSecret",
		int64(1), f.trustees[1].ScriptHash(), int64(buyerID))

	// the fee is already distributed, so the winner gets nothing more
	judge := f.trade.NewAccount(t)
	f.trade.Invoke(t, stackitem.Null{}, "addArbitrator", judge.ScriptHash())

	balanceBefore := f.gasBalance(t, f.seller.ScriptHash())
	f.trade.WithSigners(judge).Invoke(t, stackitem.Null{}, "judge",
		int64(1), int64(sellerID), judge.ScriptHash())
	require.EqualValues(t, balanceBefore, f.gasBalance(t, f.seller.ScriptHash()))
}
