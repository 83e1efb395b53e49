package deploy

import (
	"errors"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestExpectedAddress(t *testing.T) {
	var (
		sender = util.Uint160{1, 2, 3}
		prm    = ContractPrm{
			NEF:      nef.File{Checksum: 42},
			Manifest: manifest.Manifest{Name: "Themis Trade"},
		}
	)

	require.Equal(t, state.CreateContractHash(sender, 42, "Themis Trade"),
		expectedAddress(sender, prm))

	// the address is a function of the sender, the code checksum and the
	// contract name, so any change produces a fresh deployment target
	require.NotEqual(t, expectedAddress(sender, prm),
		expectedAddress(util.Uint160{3, 2, 1}, prm))

	changed := prm
	changed.NEF.Checksum = 43
	require.NotEqual(t, expectedAddress(sender, prm), expectedAddress(sender, changed))

	changed = prm
	changed.Manifest.Name = "Themis Trustee"
	require.NotEqual(t, expectedAddress(sender, prm), expectedAddress(sender, changed))
}

func TestIsUnknownContractError(t *testing.T) {
	require.False(t, isUnknownContractError(nil))
	require.False(t, isUnknownContractError(errors.New("connection refused")))
	require.True(t, isUnknownContractError(errors.New("Unknown contract")))
	require.True(t, isUnknownContractError(errors.New("rpc error: Unknown contract (-102)")))
}
