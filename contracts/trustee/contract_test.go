package trustee_test

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/themis-network/neo-contracts/common"
)

const tradesimPath = "../../internal/testcontracts/tradesim"

func deployTrusteeContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ".", "config.yml")
	e.DeployContract(t, c, []any{e.CommitteeHash})
	return c.Hash
}

func deployTradeSim(t *testing.T, e *neotest.Executor, target util.Uint160) *neotest.ContractInvoker {
	c := neotest.CompileFile(t, e.CommitteeHash, tradesimPath,
		path.Join(tradesimPath, "config.yml"))
	e.DeployContract(t, c, nil)

	sim := e.CommitteeInvoker(c.Hash)
	sim.Invoke(t, stackitem.Null{}, "init", target)
	return sim
}

func newTrusteeInvoker(t *testing.T) (*neotest.Executor, *neotest.ContractInvoker) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)
	h := deployTrusteeContract(t, e)
	return e, e.CommitteeInvoker(h)
}

// addEligible registers a funded account as a trustee and tops its stake up.
func addEligible(t *testing.T, c *neotest.ContractInvoker, fame, deposit int64) neotest.Signer {
	acc := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "addTrustee", acc.ScriptHash(), fame, []byte("pk"))
	c.WithSigners(acc).Invoke(t, stackitem.Null{}, "increaseDeposit",
		acc.ScriptHash(), deposit)
	return acc
}

func TestTrustee_AddTrustee(t *testing.T) {
	_, c := newTrusteeInvoker(t)

	acc := c.NewAccount(t)
	pub := []byte("asdf123")

	c.Invoke(t, stackitem.NewBool(false), "isTrustee", acc.ScriptHash())
	c.Invoke(t, stackitem.Null{}, "addTrustee", acc.ScriptHash(), int64(7), pub)
	c.Invoke(t, stackitem.NewBool(true), "isTrustee", acc.ScriptHash())
	c.Invoke(t, int64(7), "fameOf", acc.ScriptHash())
	c.Invoke(t, int64(0), "depositOf", acc.ScriptHash())
	c.Invoke(t, int64(0), "accruedFeeOf", acc.ScriptHash())

	res, err := c.TestInvoke(t, "publicKeyOf", acc.ScriptHash())
	require.NoError(t, err)
	got, err := res.Top().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, pub, got)

	t.Run("duplicate", func(t *testing.T) {
		c.InvokeFail(t, "trustee already registered", "addTrustee",
			acc.ScriptHash(), int64(1), pub)
	})

	t.Run("not owner", func(t *testing.T) {
		stranger := c.NewAccount(t)
		c.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"addTrustee", stranger.ScriptHash(), int64(1), pub)
	})

	t.Run("set fame", func(t *testing.T) {
		c.Invoke(t, stackitem.Null{}, "setFame", acc.ScriptHash(), int64(9))
		c.Invoke(t, int64(9), "fameOf", acc.ScriptHash())
	})
}

func TestTrustee_IncreaseDeposit(t *testing.T) {
	_, c := newTrusteeInvoker(t)

	acc := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "addTrustee", acc.ScriptHash(), int64(5), []byte("pk"))

	cAcc := c.WithSigners(acc)
	cAcc.Invoke(t, stackitem.Null{}, "increaseDeposit", acc.ScriptHash(), int64(500))
	c.Invoke(t, int64(500), "depositOf", acc.ScriptHash())

	// top-ups accumulate
	cAcc.Invoke(t, stackitem.Null{}, "increaseDeposit", acc.ScriptHash(), int64(300))
	c.Invoke(t, int64(800), "depositOf", acc.ScriptHash())

	t.Run("non positive amount", func(t *testing.T) {
		cAcc.InvokeFail(t, "non positive deposit amount", "increaseDeposit",
			acc.ScriptHash(), int64(0))
	})

	t.Run("unknown trustee", func(t *testing.T) {
		stranger := c.NewAccount(t)
		c.WithSigners(stranger).InvokeFail(t, "trustee not found",
			"increaseDeposit", stranger.ScriptHash(), int64(100))
	})

	t.Run("wrong witness", func(t *testing.T) {
		c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrWitnessFailed,
			"increaseDeposit", acc.ScriptHash(), int64(100))
	})
}

func TestTrustee_SelectCommittee(t *testing.T) {
	_, c := newTrusteeInvoker(t)

	t.Run("not enough eligible", func(t *testing.T) {
		c.InvokeFail(t, "not enough eligible trustees", "selectCommittee")
	})

	// Zero-deposit trustees are not eligible regardless of fame.
	idle := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "addTrustee", idle.ScriptHash(), int64(100), []byte("pk"))

	accs := []neotest.Signer{
		addEligible(t, c, 7, 10),
		addEligible(t, c, 6, 10),
		addEligible(t, c, 5, 10),
		addEligible(t, c, 4, 10), // ranks above the next one by deposit
		addEligible(t, c, 4, 9),
	}

	checkCommittee := func(t *testing.T, expect []neotest.Signer) {
		res, err := c.TestInvoke(t, "selectCommittee")
		require.NoError(t, err)
		got := res.Top().Array()
		require.Len(t, got, len(expect))
		for i := range expect {
			b, err := got[i].TryBytes()
			require.NoError(t, err)
			require.Equal(t, expect[i].ScriptHash().BytesBE(), b, "member %d", i)
		}
	}

	checkCommittee(t, accs)

	t.Run("registration order breaks full ties", func(t *testing.T) {
		// Same fame and deposit as the last member; registered later, so
		// the earlier one keeps the seat.
		addEligible(t, c, 4, 9)
		checkCommittee(t, accs)
	})

	t.Run("deposit growth changes the ranking", func(t *testing.T) {
		c.WithSigners(accs[4]).Invoke(t, stackitem.Null{}, "increaseDeposit",
			accs[4].ScriptHash(), int64(5))
		checkCommittee(t, []neotest.Signer{accs[0], accs[1], accs[2], accs[4], accs[3]})
	})
}

func TestTrustee_CommitteeLock(t *testing.T) {
	e, c := newTrusteeInvoker(t)
	sim := deployTradeSim(t, e, c.Hash)

	t.Run("trade contract not set", func(t *testing.T) {
		sim.InvokeFail(t, "trade contract is not set", "lock")
	})

	c.Invoke(t, stackitem.Null{}, "updateTradeContract", sim.Hash)

	t.Run("direct committee calls rejected", func(t *testing.T) {
		c.InvokeFail(t, common.ErrUnknownCaller, "creditFee",
			c.NewAccount(t).ScriptHash(), int64(1))
		c.InvokeFail(t, common.ErrUnknownCaller, "lockCommittee")
	})

	var members []neotest.Signer
	for i := 0; i < 5; i++ {
		members = append(members, addEligible(t, c, int64(10-i), 10))
	}

	tx := sim.PrepareInvoke(t, "lock")
	e.AddNewBlock(t, tx)
	e.CheckHalt(t, tx.Hash())

	t.Run("serving trustee cannot be removed", func(t *testing.T) {
		c.InvokeFail(t, "trustee is serving open orders", "removeTrustee",
			members[0].ScriptHash())
	})

	released := make([]any, len(members))
	for i := range members {
		released[i] = members[i].ScriptHash()
	}
	sim.Invoke(t, stackitem.Null{}, "release", released)

	t.Run("release is balanced", func(t *testing.T) {
		sim.InvokeFail(t, "trustee is not serving any order", "release", released)
	})

	c.Invoke(t, stackitem.Null{}, "removeTrustee", members[0].ScriptHash())
	c.Invoke(t, stackitem.NewBool(false), "isTrustee", members[0].ScriptHash())
}

func TestTrustee_RemoveTrustee(t *testing.T) {
	e, c := newTrusteeInvoker(t)

	acc := addEligible(t, c, 5, 500)

	gasHash := e.NativeHash(t, nativenames.Gas)
	gasInvoker := e.CommitteeInvoker(gasHash)

	balance := func(h util.Uint160) int64 {
		res, err := gasInvoker.TestInvoke(t, "balanceOf", h)
		require.NoError(t, err)
		return res.Top().BigInt().Int64()
	}

	require.EqualValues(t, 500, balance(c.Hash))

	t.Run("not owner", func(t *testing.T) {
		c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"removeTrustee", acc.ScriptHash())
	})

	c.Invoke(t, stackitem.Null{}, "removeTrustee", acc.ScriptHash())
	c.Invoke(t, stackitem.NewBool(false), "isTrustee", acc.ScriptHash())

	// the deposit went back to the trustee account
	require.EqualValues(t, 0, balance(c.Hash))

	t.Run("unknown trustee", func(t *testing.T) {
		c.InvokeFail(t, "trustee not found", "removeTrustee", acc.ScriptHash())
	})
}

func TestTrustee_WithdrawFee(t *testing.T) {
	e, c := newTrusteeInvoker(t)
	sim := deployTradeSim(t, e, c.Hash)
	c.Invoke(t, stackitem.Null{}, "updateTradeContract", sim.Hash)

	// the simulator contract is itself the fee-earning trustee
	c.Invoke(t, stackitem.Null{}, "addTrustee", sim.Hash, int64(3), []byte("pk"))

	// back the fee pool with GAS on the registry account
	gasHash := e.NativeHash(t, nativenames.Gas)
	gasInvoker := e.CommitteeInvoker(gasHash)
	gasInvoker.Invoke(t, stackitem.NewBool(true), "transfer",
		gasInvoker.Committee.ScriptHash(), c.Hash, int64(1000), nil)

	sim.Invoke(t, stackitem.Null{}, "credit", sim.Hash, int64(700))
	c.Invoke(t, int64(700), "accruedFeeOf", sim.Hash)

	t.Run("balance is settled before the transfer", func(t *testing.T) {
		sim.Invoke(t, stackitem.Null{}, "setMode", int64(1)) // observe
		sim.Invoke(t, stackitem.Null{}, "withdraw")

		// the hostile recipient saw the already-zeroed balance
		sim.Invoke(t, int64(0), "seenFee")
		c.Invoke(t, int64(0), "accruedFeeOf", sim.Hash)
	})

	t.Run("second withdrawal fails", func(t *testing.T) {
		sim.InvokeFail(t, "nothing to withdraw", "withdraw")
	})

	t.Run("reentering recipient cannot double-withdraw", func(t *testing.T) {
		sim.Invoke(t, stackitem.Null{}, "credit", sim.Hash, int64(300))
		sim.Invoke(t, stackitem.Null{}, "setMode", int64(2)) // reenter

		// the nested withdrawFee sees a zero balance and faults the
		// whole transaction, so the credited fee survives untouched
		sim.InvokeFail(t, "nothing to withdraw", "withdraw")
		c.Invoke(t, int64(300), "accruedFeeOf", sim.Hash)

		sim.Invoke(t, stackitem.Null{}, "setMode", int64(0))
		sim.Invoke(t, stackitem.Null{}, "withdraw")
		c.Invoke(t, int64(0), "accruedFeeOf", sim.Hash)
	})

	t.Run("wrong witness", func(t *testing.T) {
		c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrWitnessFailed,
			"withdrawFee", sim.Hash)
	})
}
