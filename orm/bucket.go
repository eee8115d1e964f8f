/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* It has a primary key, and may possess secondary indexes (1:1 or 1:N).
* Secondary indexes are compact: all primary keys indexed under a value are
  kept in a single database entry, so no iterator support is needed.
*/
package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the DB holding models of a single type,
// together with references to its secondary indexes and sequences.
//
// It is meant to be embedded in a type-safe wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]compactIndex
}

var _ paystream.QueryHandler = Bucket{}

// NewBucket creates a bucket storing models of the same type as proto.
// Proto must be a pointer.
func NewBucket(name string, proto Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	t := reflect.TypeOf(proto)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Bucket %s: model %T must be a pointer", name, proto))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  t.Elem(),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One loads the model stored under given key into dest.
// Returns ErrNotFound if no such model exists.
func (b Bucket) One(db paystream.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PointerTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be represented as %s", dest, b.model)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return dest.Unmarshal(raw)
}

// Has returns true if a model is stored under given key.
func (b Bucket) Has(db paystream.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put validates and saves given model, updating all indexes.
func (b Bucket) Put(db paystream.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PointerTo(b.model) {
		return errors.Wrapf(errors.ErrInvalidType, "%T cannot be stored in %s", m, b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal")
	}
	if err := b.updateIndexes(db, key, m); err != nil {
		return err
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes the model stored under given key and all references to it.
// Returns ErrNotFound if no such model exists.
func (b Bucket) Delete(db paystream.KVStore, key []byte) error {
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case !ok:
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db paystream.KVStore, key []byte, save Model) error {
	if len(b.indexes) == 0 {
		return nil
	}
	var prev Model
	switch ok, err := b.Has(db, key); {
	case err != nil:
		return err
	case ok:
		prev = b.newModel()
		if err := b.One(db, key, prev); err != nil {
			return err
		}
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, save); err != nil {
			return err
		}
	}
	return nil
}

func (b Bucket) newModel() Model {
	return reflect.New(b.model).Interface().(Model)
}

// Sequence returns a Sequence by name.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// WithIndex returns a copy of this bucket with given index. It panics if an
// index with that name is already registered.
//
// Designed to be chained.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("Index %s registered twice", name))
	}
	indexes := make(map[string]compactIndex, len(b.indexes)+1)
	for n, i := range b.indexes {
		indexes[n] = i
	}
	indexes[name] = newCompactIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// IndexKeys returns the primary keys of all models indexed under given
// value by the named index.
func (b Bucket) IndexKeys(db paystream.ReadOnlyKVStore, name string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown index %q", name)
	}
	return idx.Keys(db, value)
}

// Register registers this Bucket and all indexes in the query router.
// You can define a name here for queries, which is different than the
// bucket name used to prefix the data.
func (b Bucket) Register(name string, r paystream.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for name, idx := range b.indexes {
		r.Register(root+"/"+name, idx)
	}
}

// Query returns the raw model stored under the key given as data.
func (b Bucket) Query(db paystream.ReadOnlyKVStore, mod string, data []byte) ([]paystream.Model, error) {
	if mod != paystream.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	// return nothing on miss
	if value == nil {
		return nil, nil
	}
	return []paystream.Model{paystream.Pair(key, value)}, nil
}
