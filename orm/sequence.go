package orm

import (
	"encoding/binary"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// Sequence maintains a counter, and generates a series of keys. Each key is
// greater than the last, both as a number and by bytes.Compare.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter stored under
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db paystream.KVStore) ([]byte, error) {
	_, raw, err := s.increment(db, 1)
	return raw, err
}

// NextInt increments the sequence and returns its state as a number.
func (s Sequence) NextInt(db paystream.KVStore) (uint64, error) {
	val, _, err := s.increment(db, 1)
	return val, err
}

// Latest returns the most recently issued value without modifying the
// sequence. It is zero if nothing was issued yet.
func (s Sequence) Latest(db paystream.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db paystream.KVStore, inc uint64) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	if val+inc < val {
		return 0, nil, errors.Wrap(errors.ErrOverflow, "sequence")
	}
	val += inc
	raw := EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

// DecodeSequence parses an 8 byte big endian counter. Nil is zero.
func DecodeSequence(raw []byte) (uint64, error) {
	if raw == nil {
		return 0, nil
	}
	if err := ValidateSequence(raw); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(raw), nil
}

// EncodeSequence serializes a counter value as 8 bytes big endian.
func EncodeSequence(val uint64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, val)
	return raw
}

// ValidateSequence returns an error if this is not an 8-byte sequence value.
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}
