package bank

import (
	"testing"

	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest"
	"github.com/iov-one/paystream/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditDebit(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := paystreamtest.RandomAddr(t)

	bal, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)

	require.NoError(t, c.Credit(db, alice, 500))
	require.NoError(t, c.Credit(db, alice, 250))
	bal, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), bal)

	err = c.Debit(db, alice, 751)
	assert.True(t, errors.ErrInsufficientFunds.Is(err))

	require.NoError(t, c.Debit(db, alice, 750))
	bal, err = c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bal)

	require.NoError(t, c.Credit(db, alice, ^uint64(0)))
	err = c.Credit(db, alice, 1)
	assert.True(t, errors.ErrOverflow.Is(err))

	_, err = c.Balance(db, nil)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestMove(t *testing.T) {
	cases := map[string]struct {
		src, dest uint64
		amount    uint64
		wantErr   *errors.Error
		wantSrc   uint64
		wantDest  uint64
	}{
		"full balance": {
			src: 100, amount: 100,
			wantSrc: 0, wantDest: 100,
		},
		"partial": {
			src: 100, dest: 7, amount: 40,
			wantSrc: 60, wantDest: 47,
		},
		"insufficient funds": {
			src: 10, amount: 11,
			wantErr: errors.ErrInsufficientFunds,
			wantSrc: 10, wantDest: 0,
		},
		"zero amount": {
			src: 10, amount: 0,
			wantErr: errors.ErrInvalidAmount,
			wantSrc: 10, wantDest: 0,
		},
		"destination overflow": {
			src: 10, dest: ^uint64(0) - 5, amount: 6,
			wantErr:  errors.ErrOverflow,
			wantSrc:  10,
			wantDest: ^uint64(0) - 5,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			c := NewController()
			src := paystreamtest.RandomAddr(t)
			dest := paystreamtest.RandomAddr(t)
			require.NoError(t, c.Credit(db, src, tc.src))
			require.NoError(t, c.Credit(db, dest, tc.dest))

			err := c.Move(db, src, dest, tc.amount)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
			}

			got, err := c.Balance(db, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, got)
			got, err = c.Balance(db, dest)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, got)
		})
	}
}

func TestMoveToSelf(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := paystreamtest.RandomAddr(t)
	require.NoError(t, c.Credit(db, alice, 10))
	require.NoError(t, c.Move(db, alice, alice, 10))

	bal, err := c.Balance(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), bal)
}
