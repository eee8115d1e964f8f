package stream

import (
	"math"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElapsed(t *testing.T) {
	cases := map[string]struct {
		start, now paystream.UnixTime
		duration   uint64
		want       uint64
	}{
		"before start":   {start: 100, now: 50, duration: 60, want: 0},
		"at start":       {start: 100, now: 100, duration: 60, want: 0},
		"halfway":        {start: 100, now: 130, duration: 60, want: 30},
		"at end":         {start: 100, now: 160, duration: 60, want: 60},
		"long after end": {start: 100, now: 1 << 40, duration: 60, want: 60},
		"negative start": {start: -10, now: 10, duration: 60, want: 20},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Elapsed(tc.start, tc.now, tc.duration))
		})
	}
}

func TestVested(t *testing.T) {
	cases := map[string]struct {
		total, elapsed, duration uint64
		want                     uint64
		wantErr                  *errors.Error
	}{
		"nothing elapsed": {total: 10000000, elapsed: 0, duration: 60, want: 0},
		"halfway":         {total: 10000000, elapsed: 30, duration: 60, want: 5000000},
		"rounds down":     {total: 10, elapsed: 1, duration: 3, want: 3},
		"fully vested":    {total: 10000000, elapsed: 60, duration: 60, want: 10000000},
		"clamped":         {total: 7, elapsed: 100, duration: 60, want: 7},
		"zero duration":   {total: 7, elapsed: 0, duration: 0, wantErr: errors.ErrInvalidInput},
		"product over 64 bits": {
			total:    math.MaxUint64,
			elapsed:  math.MaxUint64 - 1,
			duration: math.MaxUint64,
			want:     math.MaxUint64 - 1,
		},
		"small rate over long duration": {total: 3, elapsed: 1<<40 - 1, duration: 1 << 40, want: 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Vested(tc.total, tc.elapsed, tc.duration)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVestedIsMonotonic(t *testing.T) {
	totals := []uint64{1, 7, 10000000, math.MaxUint64 / 3, math.MaxUint64}
	durations := []uint64{1, 3, 60, 86400}
	for _, total := range totals {
		for _, duration := range durations {
			var prev uint64
			for elapsed := uint64(0); elapsed <= duration && elapsed <= 120; elapsed++ {
				got, err := Vested(total, elapsed, duration)
				require.NoError(t, err)
				require.True(t, got >= prev, "total %d duration %d elapsed %d", total, duration, elapsed)
				require.True(t, got <= total)
				prev = got
			}
		}
	}
}

func TestPayout(t *testing.T) {
	stream := func(total, remaining uint64) *StreamRecord {
		return &StreamRecord{
			TotalAmount:     total,
			RemainingAmount: remaining,
			StartTime:       1000,
			DurationSeconds: 60,
			Status:          StatusActive,
		}
	}

	cases := map[string]struct {
		stream    *StreamRecord
		now       paystream.UnixTime
		requested uint64
		want      uint64
		wantErr   *errors.Error
	}{
		"nothing vested at start": {
			stream:    stream(10000000, 10000000),
			now:       1000,
			requested: 10000000,
			wantErr:   errors.ErrNothingVested,
		},
		"half vested": {
			stream:    stream(10000000, 10000000),
			now:       1030,
			requested: 10000000,
			want:      5000000,
		},
		"less than vested": {
			stream:    stream(10000000, 10000000),
			now:       1030,
			requested: 1000,
			want:      1000,
		},
		"already withdrawn": {
			stream:    stream(10000000, 5000000),
			now:       1030,
			requested: 1,
			wantErr:   errors.ErrNothingVested,
		},
		"zero request at start": {
			stream:    stream(10000000, 10000000),
			now:       1000,
			requested: 0,
			wantErr:   errors.ErrNothingVested,
		},
		"zero request halfway": {
			stream:    stream(10000000, 10000000),
			now:       1030,
			requested: 0,
			wantErr:   errors.ErrNothingVested,
		},
		"rest after end": {
			stream:    stream(10000000, 5000000),
			now:       2000,
			requested: 10000000,
			want:      5000000,
		},
		"diluted by funding": {
			stream:    stream(15000000, 5000000),
			now:       1030,
			requested: 10000000,
			wantErr:   errors.ErrNothingVested,
		},
		"diluted by funding after end": {
			stream:    stream(15000000, 5000000),
			now:       1060,
			requested: 10000000,
			want:      5000000,
		},
		"empty stream": {
			stream:    stream(10000000, 0),
			now:       2000,
			requested: 1,
			wantErr:   errors.ErrNothingVested,
		},
		"corrupted amounts": {
			stream:    stream(10, 11),
			now:       2000,
			requested: 1,
			wantErr:   errors.ErrOverflow,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Payout(tc.stream, tc.now, tc.requested)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

// Withdrawing in many small steps never releases more than the total
// and releases everything by the end.
func TestWithdrawStepsConserveFunds(t *testing.T) {
	s := &StreamRecord{
		TotalAmount:     1000003,
		RemainingAmount: 1000003,
		StartTime:       0,
		DurationSeconds: 97,
		Status:          StatusActive,
	}
	var paid uint64
	for now := paystream.UnixTime(0); now <= 100; now += 7 {
		payout, err := Payout(s, now, math.MaxUint64)
		if errors.ErrNothingVested.Is(err) {
			continue
		}
		require.NoError(t, err)
		s.RemainingAmount -= payout
		paid += payout
		require.True(t, paid <= s.TotalAmount)
	}
	payout, err := Payout(s, 100, math.MaxUint64)
	if !errors.ErrNothingVested.Is(err) {
		require.NoError(t, err)
		paid += payout
		s.RemainingAmount -= payout
	}
	assert.Equal(t, s.TotalAmount, paid)
	assert.Equal(t, uint64(0), s.RemainingAmount)
}
