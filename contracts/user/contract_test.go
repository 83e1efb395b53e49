package user_test

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/themis-network/neo-contracts/common"
)

func deployUserContract(t *testing.T, e *neotest.Executor) util.Uint160 {
	c := neotest.CompileFile(t, e.CommitteeHash, ".", "config.yml")
	e.DeployContract(t, c, []any{e.CommitteeHash})
	return c.Hash
}

func newUserInvoker(t *testing.T) *neotest.ContractInvoker {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)
	h := deployUserContract(t, e)
	return e.CommitteeInvoker(h)
}

func TestUser_Register(t *testing.T) {
	c := newUserInvoker(t)

	acc := c.NewAccount(t)
	pub := []byte("asdf123")

	c.Invoke(t, stackitem.NewBool(false), "isRegisteredUser", int64(12345))
	c.Invoke(t, stackitem.Null{}, "register", int64(12345), acc.ScriptHash(), pub)
	c.Invoke(t, stackitem.NewBool(true), "isRegisteredUser", int64(12345))

	res, err := c.TestInvoke(t, "getUserAddress", int64(12345))
	require.NoError(t, err)
	got, err := res.Top().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash().BytesBE(), got)

	res, err = c.TestInvoke(t, "getPublicKey", int64(12345))
	require.NoError(t, err)
	gotKey, err := res.Top().Item().TryBytes()
	require.NoError(t, err)
	require.Equal(t, pub, gotKey)

	t.Run("duplicate ID", func(t *testing.T) {
		c.InvokeFail(t, "user already registered", "register",
			int64(12345), c.NewAccount(t).ScriptHash(), pub)
	})

	t.Run("zero ID", func(t *testing.T) {
		c.InvokeFail(t, "zero user ID", "register",
			int64(0), acc.ScriptHash(), pub)
	})

	t.Run("not owner", func(t *testing.T) {
		stranger := c.NewAccount(t)
		c.WithSigners(stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"register", int64(777), stranger.ScriptHash(), pub)
	})
}

func TestUser_Remove(t *testing.T) {
	c := newUserInvoker(t)

	acc := c.NewAccount(t)
	c.Invoke(t, stackitem.Null{}, "register", int64(555), acc.ScriptHash(), []byte("pk"))

	t.Run("not owner", func(t *testing.T) {
		c.WithSigners(c.NewAccount(t)).InvokeFail(t, common.ErrOwnerWitnessFailed,
			"remove", int64(555))
	})

	c.Invoke(t, stackitem.Null{}, "remove", int64(555))
	c.Invoke(t, stackitem.NewBool(false), "isRegisteredUser", int64(555))
	c.InvokeFail(t, "user not found", "remove", int64(555))

	_, err := c.TestInvoke(t, "getUserAddress", int64(555))
	require.Error(t, err)
	require.Contains(t, err.Error(), "user not found")
}
