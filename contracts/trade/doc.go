/*
Package trade implements the Trade contract of the Themis trade network.

The contract is the order lifecycle engine of a trust-minimized escrow
protocol. The contract owner opens an order and escrows its fee; any party
confirms it, which locks in a committee of five trustees drawn from the
Trustee contract; buyer and seller then cross-upload secret shards addressed
per committee member, the committee votes on shard validity and the order
resolves to success (fee split across the committee) or failure (escrow
retained). Disputed orders go to arbitration and are settled by a registered
arbitrator.

Order states and transitions:

	Created -> Confirmed -> SecretUploaded -> VerifiedSuccess | VerifiedFail
	Confirmed/SecretUploaded/VerifiedSuccess/VerifiedFail -> Arbitration -> Judged

Transitions are monotonic; a failed precondition anywhere faults the
transaction and leaves every record, including the escrow and the committee
lock, unchanged.

# Contract notifications

CreateOrder notification:

	CreateOrder
	  - name: orderID
	    type: Integer
	  - name: buyerID
	    type: Integer
	  - name: fee
	    type: Integer

ConfirmOrder notification:

	ConfirmOrder
	  - name: orderID
	    type: Integer
	  - name: sellerID
	    type: Integer

UploadSecret notification:

	UploadSecret
	  - name: orderID
	    type: Integer
	  - name: forUserID
	    type: Integer

VerifyResult notification:

	VerifyResult
	  - name: orderID
	    type: Integer
	  - name: trustee
	    type: Hash160
	  - name: forSeller
	    type: Boolean
	  - name: forBuyer
	    type: Boolean

OrderResolved notification:

	OrderResolved
	  - name: orderID
	    type: Integer
	  - name: status
	    type: Integer

Arbitration notification:

	Arbitration
	  - name: orderID
	    type: Integer
	  - name: requesterID
	    type: Integer

Judge notification:

	Judge
	  - name: orderID
	    type: Integer
	  - name: winnerID
	    type: Integer
	  - name: amount
	    type: Integer
*/
package trade

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'contractOwner' -> interop.Hash160
   account of the contract owner
 - 'trusteeScriptHash' -> interop.Hash160
   address of the Trustee contract
 - 'userScriptHash' -> interop.Hash160
   address of the User contract
 - 'o' + <8-byte order ID> -> std.Serialize(Order)
   trade order record
 - 'x' + <8-byte order ID> + <8-byte user ID> -> std.Serialize(Secret)
   one party's shard set and verification tag
 - 'v' + <8-byte order ID> + <20-byte account> -> 1
   committee member vote marker
 - 'a' + <20-byte account> -> 1
   arbitrator role marker

# Escrow
The order fee is held on the contract account from creation. On
VerifiedSuccess the whole fee moves to the Trustee contract account and is
credited to committee members (floor share each, remainder to the
first-ranked member). On VerifiedFail it stays here until an arbitrator
names a winner, who then receives the remaining escrow in full.
*/
