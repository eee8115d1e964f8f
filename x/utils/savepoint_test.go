package utils

import (
	"context"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest"
	"github.com/iov-one/paystream/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always written before calling the decorator
	ok, ov := []byte("demo"), []byte("data")
	// written by the handler
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		handler paystream.Handler
		check   bool
		wantErr bool
		written [][]byte
		missing [][]byte
	}{
		"inactive savepoint keeps failed writes": {
			save:    NewSavepoint(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			check:   true,
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"check savepoint rolls back": {
			save:    NewSavepoint().OnCheck(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			check:   true,
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"deliver savepoint rolls back": {
			save:    NewSavepoint().OnDeliver(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"check savepoint does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv, Err: errors.ErrHuman},
			wantErr: true,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			handler: paystreamtest.WriteHandler{Key: nk, Value: nv},
			written: [][]byte{ok, nk},
		},
		"panic leaves no trace": {
			save:    NewSavepoint().OnDeliver(),
			handler: panicAfterWrite{key: nk},
			wantErr: true,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			info := paystreamtest.BlockInfo(t, 1, 100)
			kv := store.MemStore()
			require.NoError(t, kv.Set(ok, ov))

			var err error
			if tc.check {
				_, err = tc.save.Check(ctx, info, kv, nil, tc.handler)
			} else {
				stack := paystreamtest.Decorate(paystreamtest.Decorate(tc.handler, tc.save), NewRecovery())
				_, err = stack.Deliver(ctx, info, kv, nil)
			}
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			for _, k := range tc.written {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := kv.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}

type panicAfterWrite struct {
	key []byte
}

func (p panicAfterWrite) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	_ = db.Set(p.key, p.key)
	panic("check")
}

func (p panicAfterWrite) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	_ = db.Set(p.key, p.key)
	panic("deliver")
}
