package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetSerialized reads a value stored with SetSerialized. It returns nil when
// nothing is stored by the key.
func GetSerialized(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}
	return std.Deserialize(data.([]byte))
}

// FixedKey encodes a non-negative integer identifier as 8 little-endian
// bytes. Composite storage keys are built from fixed-width chunks so that
// keys of different records can never collide by prefix.
func FixedKey(prefix byte, id int) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	for i := 1; i < 9; i++ {
		key[i] = byte(id & 0xff)
		id = id >> 8
	}
	return key
}
