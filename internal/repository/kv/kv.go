// Package kv provides the local key-value storage contract that the
// notification index store writes its per-scope blobs to.
package kv

import "context"

// Store is a string key-value store. GetString reports found=false for
// an absent key; any returned error is an I/O failure, never absence.
type Store interface {
	GetString(ctx context.Context, key string) (value string, found bool, err error)
	SetString(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
