/*
Package user implements the User contract of the Themis trade network.

The contract is a minimal identity registry: it maps numeric Themis user
identifiers to Neo accounts and off-ledger encryption keys. The Trade
contract resolves order parties through it to authorize secret uploads and
to settle arbitration payouts. Registration is administrative and performed
by the contract owner.

# Contract notifications

Register notification:

	Register
	  - name: id
	    type: Integer
	  - name: owner
	    type: Hash160

Remove notification:

	Remove
	  - name: id
	    type: Integer
*/
package user

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'contractOwner' -> interop.Hash160
   account of the contract owner
 - 'u' + <8-byte user ID> -> std.Serialize(User)
   registered user record

# Users
User identifiers are assigned off-chain and are nonzero. A record binds the
identifier to the owning account and a public key; both are opaque to the
other contracts except for account resolution.
*/
