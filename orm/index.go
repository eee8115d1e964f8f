package orm

import (
	"bytes"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

const compactIdxPrefix = "_i."

// Indexer calculates the secondary index key for a given model. An empty key
// means the model is not indexed.
type Indexer func(Model) ([]byte, error)

// compactIndex stores all primary keys indexed under a value as a set,
// serialized and stored under a single key. The value is one primary key
// (unique), or a MultiRef of primary keys (!unique).
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ paystream.QueryHandler = compactIndex{}

func newCompactIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) compactIndex {
	return compactIndex{
		name:   name,
		id:     []byte(compactIdxPrefix + name + ":"),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) indexKey(value []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(value))
	copy(out, i.id)
	copy(out[l:], value)
	return out
}

// Update moves the reference to the model stored under pk.
//
// prev == nil means insert
// save == nil means delete
func (i compactIndex) Update(db paystream.KVStore, pk []byte, prev, save Model) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil model")
	}
	var before, after []byte
	var err error
	if prev != nil {
		if before, err = i.index(prev); err != nil {
			return err
		}
	}
	if save != nil {
		if after, err = i.index(save); err != nil {
			return err
		}
	}
	if prev != nil && save != nil && bytes.Equal(before, after) {
		return nil
	}
	if len(before) != 0 {
		if err := i.remove(db, before, pk); err != nil {
			return err
		}
	}
	if len(after) != 0 {
		if err := i.insert(db, after, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i compactIndex) insert(db paystream.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if cur != nil {
			return errors.Wrapf(errors.ErrInvalidState, "duplicate value in unique index %s", i.name)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if cur != nil {
		if err := refs.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

func (i compactIndex) remove(db paystream.KVStore, value, pk []byte) error {
	key := i.indexKey(value)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}
	if cur == nil {
		return errors.Wrapf(errors.ErrNotFound, "index %s has no entry", i.name)
	}
	if i.unique {
		if !bytes.Equal(cur, pk) {
			return errors.Wrapf(errors.ErrInvalidState, "index %s refers to another key", i.name)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(cur); err != nil {
		return err
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}

// Keys returns all primary keys indexed under given value.
func (i compactIndex) Keys(db paystream.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.indexKey(value))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query returns all models indexed under the value given as data.
func (i compactIndex) Query(db paystream.ReadOnlyKVStore, mod string, data []byte) ([]paystream.Model, error) {
	if mod != paystream.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	refs, err := i.Keys(db, data)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	res := make([]paystream.Model, 0, len(refs))
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, paystream.Pair(key, value))
	}
	return res, nil
}
