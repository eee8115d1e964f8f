/*
Package stream implements streaming payments: a sender escrows lamports for
a receiver, who can withdraw them as they vest linearly over a fixed
duration.

Each stream has its own escrow address derived from the stream id. Creating
or funding a stream moves lamports from the sender into the escrow, and
withdrawing or cancelling moves them out again.
*/
package stream

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

const (
	// BucketName is where we store the streams
	BucketName = "streams"

	escrowExtension = "stream"
	escrowType      = "escrow"
)

// Status of a stream.
type Status int32

const (
	// StatusActive streams can be funded and withdrawn from.
	StatusActive Status = 1
	// StatusTerminated streams were cancelled and hold no funds.
	StatusTerminated Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Escrow returns the address holding the funds of given stream.
func Escrow(id []byte) paystream.Address {
	return paystream.NewCondition(escrowExtension, escrowType, id).Address()
}

// StreamRecord holds the funds and vesting parameters of a single
// sender to receiver stream.
type StreamRecord struct {
	Authority       paystream.Address  `json:"authority"`
	Receiver        paystream.Address  `json:"receiver"`
	TotalAmount     uint64             `json:"total_amount"`
	RemainingAmount uint64             `json:"remaining_amount"`
	StartTime       paystream.UnixTime `json:"start_time"`
	DurationSeconds uint64             `json:"duration_seconds"`
	Status          Status             `json:"status"`
}

var _ orm.Model = (*StreamRecord)(nil)

// Validate checks the record invariants.
func (s *StreamRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", s.Authority.Validate())
	errs = errors.AppendField(errs, "Receiver", s.Receiver.Validate())
	if s.TotalAmount == 0 {
		errs = errors.AppendField(errs, "TotalAmount", errors.ErrInvalidAmount)
	}
	if s.RemainingAmount > s.TotalAmount {
		errs = errors.Append(errs, errors.Field("RemainingAmount", errors.ErrInvalidState, "greater than total"))
	}
	if s.DurationSeconds == 0 {
		errs = errors.AppendField(errs, "DurationSeconds", errors.ErrInvalidInput)
	}
	errs = errors.AppendField(errs, "StartTime", s.StartTime.Validate())
	switch s.Status {
	case StatusActive:
	case StatusTerminated:
		if s.RemainingAmount != 0 {
			errs = errors.Append(errs, errors.Field("RemainingAmount", errors.ErrInvalidState, "terminated stream holds funds"))
		}
	default:
		errs = errors.Append(errs, errors.Field("Status", errors.ErrInvalidState, "unknown status %d", s.Status))
	}
	return errs
}

func (s *StreamRecord) Marshal() ([]byte, error) {
	return codec.Marshal(s)
}

func (s *StreamRecord) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, s)
}

// Withdrawn returns the lamports already released from the stream.
func (s *StreamRecord) Withdrawn() uint64 {
	return s.TotalAmount - s.RemainingAmount
}

// Bucket stores streams by sequence id, indexed by receiver.
type Bucket struct {
	orm.Bucket
	seq orm.Sequence
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, &StreamRecord{}).
		WithIndex("receiver", receiverIndex, false)
	return Bucket{
		Bucket: b,
		seq:    b.Sequence("id"),
	}
}

// Create stores a new stream under the next sequence id.
func (b Bucket) Create(db paystream.KVStore, s *StreamRecord) ([]byte, error) {
	id, err := b.seq.NextVal(db)
	if err != nil {
		return nil, err
	}
	if err := b.Put(db, id, s); err != nil {
		return nil, err
	}
	return id, nil
}

// Load returns the stream stored under id, or ErrNotFound.
func (b Bucket) Load(db paystream.ReadOnlyKVStore, id []byte) (*StreamRecord, error) {
	if err := orm.ValidateSequence(id); err != nil {
		return nil, errors.Wrap(err, "stream id")
	}
	var s StreamRecord
	if err := b.One(db, id, &s); err != nil {
		return nil, errors.Wrap(err, "stream")
	}
	return &s, nil
}

// ByReceiver returns the ids of all streams paying given address.
func (b Bucket) ByReceiver(db paystream.ReadOnlyKVStore, receiver paystream.Address) ([][]byte, error) {
	return b.IndexKeys(db, "receiver", receiver)
}

func receiverIndex(m orm.Model) ([]byte, error) {
	s, ok := m.(*StreamRecord)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return s.Receiver, nil
}
