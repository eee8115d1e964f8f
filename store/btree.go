package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/paystream/errors"
)

// DefaultFreeListSize is the number of released btree nodes kept for reuse.
const DefaultFreeListSize = btree.DefaultFreeListSize

// btreeDegree is the branching factor of every cache tree.
const btreeDegree = 2

// BTreeCacheable turns any KVStore into a CacheableKVStore by placing
// a btree cache over it.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a cache whose writes reach the wrapped store only on
// Write.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns a store without persistence, useful for tests and
// dry runs.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap keeps pending writes in a btree and records them in
// a batch that is applied to the backing store on Write.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches writes over kv. Writes never go to kv
// directly, only through batch.
//
// A nil free list allocates a new one. Nested caches share the list of
// their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests another cache over this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write applies all pending changes to the backing store and empties the
// cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending changes.
func (b BTreeCacheWrap) Discard() {
	for b.tree.DeleteMin() != nil {
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInvalidInput, "nil key")
	}
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.back.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.back.Has(key)
	}
	return !e.deleted, nil
}

// lookup returns the pending change of key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// entry is a pending change: either a new value or a deletion.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
