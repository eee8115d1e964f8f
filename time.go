package paystream

import (
	"encoding/json"
	"time"

	"github.com/iov-one/paystream/errors"
)

// UnixTime is a point in time as seconds since the epoch. Ledger
// operations read it from the block header and never from the wall clock.
type UnixTime int64

// AsUnixTime truncates t to whole seconds.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the UTC time.Time of the same moment.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Add returns t moved by d. Fractions of a second are dropped, the same
// way time.Time.Add followed by AsUnixTime would.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// IsZero returns true for the epoch, which is also the unset value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Validate rejects moments before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().String()
}

// UnmarshalJSON accepts a number of seconds or an RFC 3339 string. The
// string form is handy in genesis files.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var parsed UnixTime
	var seconds int64
	var stdtime time.Time
	switch {
	case json.Unmarshal(raw, &seconds) == nil:
		parsed = UnixTime(seconds)
	case json.Unmarshal(raw, &stdtime) == nil:
		parsed = AsUnixTime(stdtime)
	default:
		return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
	}
	if parsed < 0 {
		return errors.Wrap(errors.ErrInvalidInput, "time before epoch")
	}
	*t = parsed
	return nil
}
