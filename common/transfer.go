package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

var (
	escrowPrefix  = []byte{0x01}
	depositPrefix = []byte{0x02}
	feePoolPrefix = []byte{0x03}
	payoutPrefix  = []byte{0x04}
)

// EscrowTransferDetails tags the GAS transfer escrowing the fee of the given
// trade order.
func EscrowTransferDetails(orderID int) []byte {
	return append(escrowPrefix, FixedKey(0, orderID)[1:]...)
}

// DepositTransferDetails tags the GAS transfer backing a trustee deposit
// top-up.
func DepositTransferDetails() []byte {
	return depositPrefix
}

// FeePoolTransferDetails tags the GAS transfer moving a resolved order's fee
// from the trade contract to the trustee contract account.
func FeePoolTransferDetails(orderID int) []byte {
	return append(feePoolPrefix, FixedKey(0, orderID)[1:]...)
}

// PayoutTransferDetails tags outgoing GAS transfers: trustee fee withdrawals,
// deposit refunds and arbitration settlements.
func PayoutTransferDetails() []byte {
	return payoutPrefix
}

// AbortWithMessage calls `runtime.Log` with the passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
