package user

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/themis-network/neo-contracts/common"
)

// User groups data kept for a registered Themis user. A user is addressed by
// a numeric identifier assigned off-chain; the record binds it to a Neo
// account and an encryption key used for off-ledger communication.
type User struct {
	// Account owning the identifier.
	Owner interop.Hash160

	// Public key for off-ledger encrypted communication. Not interpreted
	// by the contracts.
	PublicKey []byte
}

const userPrefix = 'u'

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
		owner interop.Hash160
	})

	if len(args.owner) != interop.Hash160Len {
		panic("invalid owner account")
	}

	common.SetOwner(ctx, args.owner)
	runtime.Log("user contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckOwnerWitness(ctx)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("user contract updated")
}

// Register binds a nonzero user identifier to an account and a public key.
// It can be invoked only by the contract owner.
func Register(id int, owner interop.Hash160, publicKey []byte) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	if id == 0 {
		panic("zero user ID")
	}
	if len(owner) != interop.Hash160Len {
		panic("invalid user account")
	}

	key := common.FixedKey(userPrefix, id)
	if storage.Get(ctx, key) != nil {
		panic("user already registered")
	}

	common.SetSerialized(ctx, key, User{
		Owner:     owner,
		PublicKey: publicKey,
	})

	runtime.Notify("Register", id, owner)
}

// Remove drops a registered user. It can be invoked only by the contract
// owner.
func Remove(id int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ctx)

	key := common.FixedKey(userPrefix, id)
	if storage.Get(ctx, key) == nil {
		panic("user not found")
	}

	storage.Delete(ctx, key)
	runtime.Notify("Remove", id)
}

// IsRegisteredUser returns whether the identifier is known to the registry.
func IsRegisteredUser(id int) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, common.FixedKey(userPrefix, id)) != nil
}

// GetUserAddress returns the account bound to the identifier.
func GetUserAddress(id int) interop.Hash160 {
	return getUser(id).Owner
}

// GetPublicKey returns the communication key bound to the identifier.
func GetPublicKey(id int) []byte {
	return getUser(id).PublicKey
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getUser(id int) User {
	ctx := storage.GetReadOnlyContext()

	val := common.GetSerialized(ctx, common.FixedKey(userPrefix, id))
	if val == nil {
		panic("user not found")
	}
	return val.(User)
}
