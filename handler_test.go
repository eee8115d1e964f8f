package paystream_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keyInit writes the genesis value under its name to the store.
type keyInit struct {
	name string
	err  error
}

func (k keyInit) FromGenesis(opts paystream.Options, db paystream.KVStore) error {
	if k.err != nil {
		return k.err
	}
	var val string
	if err := opts.ReadOptions(k.name, &val); err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	return db.Set([]byte(k.name), []byte(val))
}

func TestChainInitializers(t *testing.T) {
	var opts paystream.Options
	require.NoError(t, json.Unmarshal([]byte(`{"a": "alpha", "b": "beta"}`), &opts))

	db := store.MemStore()
	ini := paystream.ChainInitializers(keyInit{name: "a"}, keyInit{name: "b"}, keyInit{name: "missing"})
	require.NoError(t, ini.FromGenesis(opts, db))

	got, err := db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("beta"), got)

	failing := paystream.ChainInitializers(keyInit{name: "a"}, keyInit{err: errors.ErrInvalidState})
	err = failing.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrInvalidState.Is(err))
}

func TestReadOptionsInvalidJSON(t *testing.T) {
	opts := paystream.Options{"a": json.RawMessage(`{"not": "a string"}`)}
	var val string
	assert.Error(t, opts.ReadOptions("a", &val))
}

type staticQuery []paystream.Model

func (s staticQuery) Query(paystream.ReadOnlyKVStore, string, []byte) ([]paystream.Model, error) {
	return s, nil
}

func TestQueryRouter(t *testing.T) {
	qr := paystream.NewQueryRouter()
	qr.RegisterAll(func(r paystream.QueryRouter) {
		r.Register("/streams", staticQuery{paystream.Pair([]byte("k"), []byte("v"))})
	})

	h := qr.Handler("/streams")
	require.NotNil(t, h)
	res, err := h.Query(store.MemStore(), paystream.KeyQueryMod, nil)
	require.NoError(t, err)
	assert.Equal(t, []paystream.Model{{Key: []byte("k"), Value: []byte("v")}}, res)

	assert.Nil(t, qr.Handler("/users"))
	assert.Equal(t, []string{"/streams"}, qr.Paths())
	assert.Panics(t, func() { qr.Register("/streams", staticQuery{}) })
}

func TestABCIResponses(t *testing.T) {
	res := paystream.DeliverOrError(&paystream.DeliverResult{Data: []byte{1}, Log: "ok"}, nil, false)
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, []byte{1}, res.Data)

	res = paystream.DeliverOrError(nil, errors.Wrap(errors.ErrNothingVested, "stream 1"), false)
	assert.Equal(t, errors.ErrNothingVested.ABCICode(), res.Code)
	assert.Contains(t, res.Log, "cannot deliver tx")

	check := paystream.CheckOrError(&paystream.CheckResult{GasAllocated: 100}, nil, false)
	assert.Equal(t, int64(100), check.GasWanted)

	check = paystream.CheckOrError(nil, errors.ErrUnauthorized, false)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), check.Code)
	assert.Contains(t, check.Log, "cannot check tx")
}

func TestVersion(t *testing.T) {
	assert.Regexp(t, `^v\d+\.\d+\.\d+`, paystream.Version())
}
