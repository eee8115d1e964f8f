package stream

import (
	"math/bits"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// Elapsed returns the seconds passed since start, clamped to
// [0, duration].
func Elapsed(start, now paystream.UnixTime, duration uint64) uint64 {
	if now <= start {
		return 0
	}
	elapsed := uint64(now) - uint64(start)
	if elapsed > duration {
		return duration
	}
	return elapsed
}

// Vested returns floor(total * elapsed / duration). The product is
// computed on 128 bits before dividing.
func Vested(total, elapsed, duration uint64) (uint64, error) {
	if duration == 0 {
		return 0, errors.Wrap(errors.ErrInvalidInput, "zero duration")
	}
	if elapsed >= duration {
		return total, nil
	}
	hi, lo := bits.Mul64(total, elapsed)
	if hi >= duration {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d / %d", total, elapsed, duration)
	}
	quo, _ := bits.Div64(hi, lo, duration)
	return quo, nil
}

// Withdrawable returns how many lamports the receiver can take out of the
// stream at given time: the vested amount minus what was already
// withdrawn, clamped to [0, remaining].
func Withdrawable(s *StreamRecord, now paystream.UnixTime) (uint64, error) {
	if s.RemainingAmount > s.TotalAmount {
		return 0, errors.Wrapf(errors.ErrOverflow, "remaining %d exceeds total %d", s.RemainingAmount, s.TotalAmount)
	}
	elapsed := Elapsed(s.StartTime, now, s.DurationSeconds)
	vested, err := Vested(s.TotalAmount, elapsed, s.DurationSeconds)
	if err != nil {
		return 0, err
	}
	withdrawn := s.Withdrawn()
	if vested <= withdrawn {
		return 0, nil
	}
	available := vested - withdrawn
	if available > s.RemainingAmount {
		available = s.RemainingAmount
	}
	return available, nil
}

// Payout returns min(requested, withdrawable). A zero payout fails with
// ErrNothingVested.
func Payout(s *StreamRecord, now paystream.UnixTime, requested uint64) (uint64, error) {
	available, err := Withdrawable(s, now)
	if err != nil {
		return 0, err
	}
	payout := requested
	if available < payout {
		payout = available
	}
	if payout == 0 {
		return 0, errors.Wrapf(errors.ErrNothingVested, "withdrawn %d of %d", s.Withdrawn(), s.TotalAmount)
	}
	return payout, nil
}
