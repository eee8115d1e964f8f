package stream

import (
	"testing"

	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamRecordValidate(t *testing.T) {
	valid := func() StreamRecord {
		return StreamRecord{
			Authority:       paystreamtest.RandomAddr(t),
			Receiver:        paystreamtest.RandomAddr(t),
			TotalAmount:     100,
			RemainingAmount: 40,
			StartTime:       1000,
			DurationSeconds: 60,
			Status:          StatusActive,
		}
	}

	cases := map[string]struct {
		mutate  func(*StreamRecord)
		wantErr *errors.Error
	}{
		"valid":              {mutate: func(*StreamRecord) {}},
		"missing receiver":   {mutate: func(s *StreamRecord) { s.Receiver = nil }, wantErr: errors.ErrEmpty},
		"zero total":         {mutate: func(s *StreamRecord) { s.TotalAmount = 0; s.RemainingAmount = 0 }, wantErr: errors.ErrInvalidAmount},
		"remaining too big":  {mutate: func(s *StreamRecord) { s.RemainingAmount = 101 }, wantErr: errors.ErrInvalidState},
		"zero duration":      {mutate: func(s *StreamRecord) { s.DurationSeconds = 0 }, wantErr: errors.ErrInvalidInput},
		"negative start":     {mutate: func(s *StreamRecord) { s.StartTime = -1 }, wantErr: errors.ErrInvalidState},
		"unknown status":     {mutate: func(s *StreamRecord) { s.Status = 0 }, wantErr: errors.ErrInvalidState},
		"terminated holding": {mutate: func(s *StreamRecord) { s.Status = StatusTerminated }, wantErr: errors.ErrInvalidState},
		"terminated empty": {
			mutate: func(s *StreamRecord) {
				s.Status = StatusTerminated
				s.RemainingAmount = 0
			},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := valid()
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)
		})
	}
}

func TestStreamRecordCodec(t *testing.T) {
	s := StreamRecord{
		Authority:       paystreamtest.RandomAddr(t),
		Receiver:        paystreamtest.RandomAddr(t),
		TotalAmount:     15000000,
		RemainingAmount: 5000000,
		StartTime:       1000,
		DurationSeconds: 60,
		Status:          StatusActive,
	}
	raw, err := s.Marshal()
	require.NoError(t, err)
	var got StreamRecord
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, s, got)
	assert.Equal(t, uint64(10000000), got.Withdrawn())
}

func TestEscrowIsPerStream(t *testing.T) {
	a := Escrow(paystreamtest.SequenceID(1))
	b := Escrow(paystreamtest.SequenceID(2))
	require.NoError(t, a.Validate())
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, Escrow(paystreamtest.SequenceID(1)))
}
