package orderstatus

// Type is an enumeration for trade order states.
type Type int

// Order lifecycle states. The values are part of the contract ABI and never
// change meaning.
const (
	_ Type = iota

	// Created is the state of an order after fee escrow, before the
	// seller side is known.
	Created

	// Confirmed means both parties are set and the trustee committee is
	// locked in.
	Confirmed

	// SecretUploaded means both parties have uploaded their shard sets.
	SecretUploaded

	// VerifiedSuccess means the committee majority confirmed both shard
	// sets; the order fee is distributed and shard access is released.
	VerifiedSuccess

	// VerifiedFail means the committee majority rejected at least one
	// shard set; the escrow is retained pending arbitration.
	VerifiedFail

	// Arbitration means a party disputed the order outcome.
	Arbitration

	// Judged means an arbitrator resolved the dispute and the remaining
	// escrow is settled.
	Judged
)
