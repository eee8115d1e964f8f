package app

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

// CommitStore handles loading from a KVCommitStore, maintaining different
// CacheWraps for Deliver and Check, and returning useful state info.
type CommitStore struct {
	committed paystream.CommitKVStore
	deliver   paystream.KVCacheWrap
	check     paystream.KVCacheWrap
}

// NewCommitStore loads the CommitKVStore from disk. It sets up the
// deliver and check caches.
func NewCommitStore(store paystream.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(err, "load latest version")
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (paystream.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates new deliver/check caches
func (cs *CommitStore) Commit() (paystream.CommitID, error) {
	// flush deliver to store and discard check
	if err := cs.deliver.Write(); err != nil {
		return paystream.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore returns a store implementation that must be used during the
// checking phase.
func (cs *CommitStore) CheckStore() paystream.CacheableKVStore {
	return cs.check
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() paystream.CacheableKVStore {
	return cs.deliver
}

// _ps: is a prefix for application internal data
const (
	chainIDKey   = "_ps:chainID"
	blockTimeKey = "_ps:blockTime"
)

// loadBlockTime returns the time of the last begun block, or zero before
// the first block.
func loadBlockTime(kv paystream.ReadOnlyKVStore) (paystream.UnixTime, error) {
	raw, err := kv.Get([]byte(blockTimeKey))
	if err != nil || raw == nil {
		return 0, errors.Wrap(err, "load block time")
	}
	secs, err := orm.DecodeSequence(raw)
	if err != nil {
		return 0, errors.Wrap(err, "load block time")
	}
	return paystream.UnixTime(secs), nil
}

// saveBlockTime persists the block time so that a restarted node checks
// transactions against the last known time instead of the zero time.
func saveBlockTime(kv paystream.KVStore, t paystream.UnixTime) error {
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, "block time")
	}
	return errors.Wrap(kv.Set([]byte(blockTimeKey), orm.EncodeSequence(uint64(t))), "save block time")
}

// loadChainID returns the chain id stored if any
func loadChainID(kv paystream.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv paystream.KVStore, chainID string) error {
	if !paystream.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
