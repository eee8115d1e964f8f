package paystream

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/paystream/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"number": {
			raw:  "1554120000",
			want: 1554120000,
		},
		"rfc3339 string": {
			raw:  `"2019-04-01T12:00:00Z"`,
			want: 1554120000,
		},
		"zero": {
			raw:  "0",
			want: 0,
		},
		"negative number": {
			raw:     "-5",
			wantErr: errors.ErrInvalidInput,
		},
		"before epoch": {
			raw:     `"1960-01-01T00:00:00Z"`,
			wantErr: errors.ErrInvalidInput,
		},
		"garbage": {
			raw:     `"yesterday"`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "%+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUnixTimeArithmetic(t *testing.T) {
	start := UnixTime(1000)
	assert.Equal(t, UnixTime(1030), start.Add(30*time.Second))
	assert.Equal(t, UnixTime(1000), start.Add(999*time.Millisecond))
	assert.Equal(t, start, AsUnixTime(start.Time()))
	assert.True(t, UnixTime(0).IsZero())
	assert.NoError(t, start.Validate())
	assert.True(t, errors.ErrInvalidState.Is(UnixTime(-1).Validate()))
}

func TestBlockInfoClock(t *testing.T) {
	now := time.Date(2019, 4, 1, 12, 0, 30, 0, time.UTC)
	header := abci.Header{Height: 7, Time: now}

	_, err := NewBlockInfo(header, "bad id!", nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))

	info, err := NewBlockInfo(header, "paystream-test", nil)
	require.NoError(t, err)
	assert.Equal(t, UnixTime(1554120030), info.UnixTime())
	assert.Equal(t, int64(7), info.Height())
	assert.Equal(t, "paystream-test", info.ChainID())
	assert.NotNil(t, info.Logger())
	assert.NotNil(t, BlockInfo{}.Logger())
}
