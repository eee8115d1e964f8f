package utils_test

import (
	"context"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest"
	"github.com/iov-one/paystream/store"
	"github.com/iov-one/paystream/x/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func stringTag(key, value string) common.KVPair {
	return common.KVPair{
		Key:   []byte(key),
		Value: []byte(value),
	}
}

func TestActionTagger(t *testing.T) {
	cases := map[string]struct {
		handler *paystreamtest.Handler
		tx      paystream.Tx
		wantErr *errors.Error
		tags    []common.KVPair
	}{
		"simple call": {
			handler: &paystreamtest.Handler{},
			tx:      &paystreamtest.Tx{Msg: &paystreamtest.Msg{RoutePath: "stream/create"}},
			tags:    []common.KVPair{stringTag(utils.ActionKey, "stream/create")},
		},
		"passes through error": {
			handler: &paystreamtest.Handler{DeliverErr: errors.ErrNothingVested},
			tx:      &paystreamtest.Tx{Msg: &paystreamtest.Msg{RoutePath: "stream/withdraw"}},
			wantErr: errors.ErrNothingVested,
		},
		"tags are additive": {
			handler: &paystreamtest.Handler{
				DeliverResult: paystream.DeliverResult{Tags: []common.KVPair{stringTag(utils.ActionKey, "random")}},
			},
			tx:   &paystreamtest.Tx{Msg: &paystreamtest.Msg{RoutePath: "bank/send"}},
			tags: []common.KVPair{stringTag(utils.ActionKey, "random"), stringTag(utils.ActionKey, "bank/send")},
		},
		"message error stops early": {
			handler: &paystreamtest.Handler{},
			tx:      &paystreamtest.Tx{Err: errors.ErrInvalidMsg},
			wantErr: errors.ErrInvalidMsg,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			stack := paystreamtest.Decorate(tc.handler, utils.NewActionTagger())
			info := paystreamtest.BlockInfo(t, 1, 100)

			res, err := stack.Deliver(context.Background(), info, store.MemStore(), tc.tx)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.tags, res.Tags)
		})
	}
}
