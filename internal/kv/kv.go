// Package kv defines the persistence port used by the ledger: a key-value
// byte store. Adapters live in the subpackages memkv, filekv and sqlitekv.
package kv

import "context"

// Store is a key-value byte store. Get reports absence via the boolean
// rather than an error; a missing key is an ordinary condition at startup.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
