package app

import (
	"testing"
	"time"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest"
	"github.com/iov-one/paystream/store/iavl"
	"github.com/iov-one/paystream/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

// rawQuery returns the value stored under the exact key given as data.
type rawQuery struct{}

func (rawQuery) Query(db paystream.ReadOnlyKVStore, mod string, data []byte) ([]paystream.Model, error) {
	if mod != paystream.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	value, err := db.Get(data)
	if err != nil || value == nil {
		return nil, err
	}
	return []paystream.Model{paystream.Pair(data, value)}, nil
}

type genesisWriter struct{}

func (genesisWriter) FromGenesis(opts paystream.Options, kv paystream.KVStore) error {
	var value string
	if err := opts.ReadOptions("seed", &value); err != nil {
		return err
	}
	return kv.Set([]byte("seed"), []byte(value))
}

// decodeRoute builds a transaction with a message routed to the raw bytes.
func decodeRoute(raw []byte) (paystream.Tx, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "empty")
	}
	return &paystreamtest.Tx{Msg: &paystreamtest.Msg{RoutePath: string(raw)}}, nil
}

func newTestApp(t *testing.T) BaseApp {
	t.Helper()
	r := NewRouter()
	r.Handle(&paystreamtest.Msg{RoutePath: "write"}, paystreamtest.WriteHandler{Key: []byte("written"), Value: []byte("yes")})
	r.Handle(&paystreamtest.Msg{RoutePath: "fail"}, paystreamtest.WriteHandler{Key: []byte("failed"), Value: []byte("yes"), Err: errors.ErrInsufficientFunds})
	r.Handle(&paystreamtest.Msg{RoutePath: "panic"}, paystreamtest.PanicHandler{Value: "boom"})

	qr := paystream.NewQueryRouter()
	qr.Register("/", rawQuery{})

	stack := ChainDecorators(
		utils.NewRecovery(),
		utils.NewSavepoint().OnCheck().OnDeliver(),
	).WithHandler(r)
	store := NewStoreApp("paystream-test", iavl.NewMemCommitStore(), qr)
	store.WithInit(genesisWriter{})
	return NewBaseApp(store, decodeRoute, stack, false)
}

func TestBaseAppLifecycle(t *testing.T) {
	app := newTestApp(t)

	app.InitChain(abci.RequestInitChain{
		ChainId:       paystreamtest.ChainID,
		AppStateBytes: []byte(`{"seed": "planted"}`),
	})
	assert.Equal(t, paystreamtest.ChainID, app.GetChainID())

	app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Unix(1000, 0)}})
	assert.Equal(t, paystream.UnixTime(1000), app.BlockInfo().UnixTime())

	check := app.CheckTx([]byte("write"))
	assert.Equal(t, uint32(0), check.Code, check.Log)

	deliver := app.DeliverTx([]byte("write"))
	assert.Equal(t, uint32(0), deliver.Code, deliver.Log)

	failed := app.DeliverTx([]byte("fail"))
	assert.Equal(t, errors.ErrInsufficientFunds.ABCICode(), failed.Code)

	panicked := app.DeliverTx([]byte("panic"))
	assert.Equal(t, errors.ErrPanic.ABCICode(), panicked.Code)

	unknown := app.DeliverTx([]byte("unknown"))
	assert.Equal(t, errors.ErrNotFound.ABCICode(), unknown.Code)

	undecodable := app.DeliverTx(nil)
	assert.Equal(t, errors.ErrInvalidMsg.ABCICode(), undecodable.Code)

	// nothing is visible to queries before the commit
	res := app.Query(abci.RequestQuery{Path: "/", Data: []byte("written")})
	require.Equal(t, uint32(0), res.Code, res.Log)
	values, err := DecodeResults(res.Value)
	require.NoError(t, err)
	assert.Empty(t, values.Results)

	app.EndBlock(abci.RequestEndBlock{Height: 1})
	commit := app.Commit()
	assert.NotEmpty(t, commit.Data)

	info := app.Info(abci.RequestInfo{})
	assert.Equal(t, int64(1), info.LastBlockHeight)
	assert.Equal(t, commit.Data, info.LastBlockAppHash)

	for key, want := range map[string]string{"written": "yes", "seed": "planted"} {
		res := app.Query(abci.RequestQuery{Path: "/", Data: []byte(key)})
		require.Equal(t, uint32(0), res.Code, res.Log)
		var got rawValue
		require.NoError(t, UnmarshalOneResult(res.Value, &got))
		assert.Equal(t, want, string(got))
	}

	res = app.Query(abci.RequestQuery{Path: "/", Data: []byte("failed")})
	values, err = DecodeResults(res.Value)
	require.NoError(t, err)
	assert.Empty(t, values.Results)

	missing := app.Query(abci.RequestQuery{Path: "/nothing"})
	assert.Equal(t, errors.ErrNotFound.ABCICode(), missing.Code)

	badMod := app.Query(abci.RequestQuery{Path: "/?prefix"})
	assert.Equal(t, errors.ErrInvalidInput.ABCICode(), badMod.Code)
}

func TestInitChainTwice(t *testing.T) {
	app := newTestApp(t)
	req := abci.RequestInitChain{ChainId: paystreamtest.ChainID, AppStateBytes: []byte(`{}`)}
	app.InitChain(req)
	assert.Panics(t, func() { app.InitChain(req) })
}

func TestInitChainWithoutState(t *testing.T) {
	app := newTestApp(t)
	assert.Panics(t, func() {
		app.InitChain(abci.RequestInitChain{ChainId: paystreamtest.ChainID})
	})
}

func TestRestartKeepsBlockTime(t *testing.T) {
	db := iavl.NewMemCommitStore()
	qr := paystream.NewQueryRouter()

	first := NewStoreApp("paystream-test", db, qr)
	first.InitChain(abci.RequestInitChain{ChainId: paystreamtest.ChainID, AppStateBytes: []byte(`{}`)})
	assert.True(t, first.BlockInfo().BlockTime().IsZero())

	first.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1, Time: time.Unix(1000, 0)}})
	first.EndBlock(abci.RequestEndBlock{Height: 1})
	first.Commit()

	restarted := NewStoreApp("paystream-test", db, qr)
	info := restarted.BlockInfo()
	assert.Equal(t, int64(1), info.Height())
	assert.Equal(t, paystream.UnixTime(1000), info.UnixTime())

	restarted.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 2, Time: time.Unix(1005, 0)}})
	assert.Equal(t, paystream.UnixTime(1005), restarted.BlockInfo().UnixTime())
}

type rawValue []byte

func (v *rawValue) Marshal() ([]byte, error) { return *v, nil }
func (v *rawValue) Unmarshal(raw []byte) error {
	*v = raw
	return nil
}
