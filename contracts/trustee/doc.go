/*
Package trustee implements the Trustee contract of the Themis trade network.

The contract is the registry of staked, reputation-ranked trustees. Trustees
are added administratively, top their stake up themselves and earn
withdrawable fees for witnessing trade orders. The Trade contract draws
order committees from the registry: the committee is the top CommitteeSize
eligible trustees ranked by descending fame, then descending deposit, then
registration order, which makes every selection deterministic for a given
registry state.

GAS flow: trustee deposits and the fee pools of resolved orders are held on
the contract account. Withdrawals and refunds zero the corresponding balance
in storage before the GAS transfer, so a recipient reentering the contract
during the transfer observes the settled state.

# Contract notifications

AddTrustee notification:

	AddTrustee
	  - name: addr
	    type: Hash160
	  - name: fame
	    type: Integer

Deposit notification:

	Deposit
	  - name: addr
	    type: Hash160
	  - name: amount
	    type: Integer

WithdrawFee notification:

	WithdrawFee
	  - name: addr
	    type: Hash160
	  - name: amount
	    type: Integer

RemoveTrustee notification:

	RemoveTrustee
	  - name: addr
	    type: Hash160
*/
package trustee

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'contractOwner' -> interop.Hash160
   account of the contract owner
 - 'tradeScriptHash' -> interop.Hash160
   address of the Trade contract allowed to manage committees and fees
 - 'trusteeCounter' -> int
   registration sequence counter, assigns the ranking tie-break index
 - 't' + <20-byte account> -> std.Serialize(Trustee)
   registered trustee record

# Committees
Committee membership is not stored here: the Trade contract keeps the
selected accounts per order and the registry only tracks the number of open
orders each trustee serves on (Trustee.Active), which blocks removal of a
serving trustee.
*/
