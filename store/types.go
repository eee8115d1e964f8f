/*
Package store implements the in-memory layers of state: a btree based
cache wrap that collects writes of a single transaction or block, and the
batches used to flush them into a persistent store.
*/
package store

import "github.com/iov-one/paystream"

// Aliases of the storage interfaces, for shorter names everywhere.

type ReadOnlyKVStore = paystream.ReadOnlyKVStore
type SetDeleter = paystream.SetDeleter
type KVStore = paystream.KVStore
type Batch = paystream.Batch
type CacheableKVStore = paystream.CacheableKVStore
type KVCacheWrap = paystream.KVCacheWrap
type CommitKVStore = paystream.CommitKVStore
type CommitID = paystream.CommitID
type Model = paystream.Model

// Pair constructs a model from a key-value pair.
var Pair = paystream.Pair
