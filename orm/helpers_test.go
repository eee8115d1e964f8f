package orm

import (
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
)

// Counter is a minimal model used in tests.
type Counter struct {
	Owner []byte `json:"owner"`
	Count uint64 `json:"count"`
}

func (c *Counter) Validate() error {
	if c.Count == 0 {
		return errors.Wrap(errors.ErrEmpty, "count")
	}
	return nil
}

func (c *Counter) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

// other is a model of a different type than Counter.
type other struct {
	Name string
}

func (o *other) Validate() error { return nil }
func (o *other) Marshal() ([]byte, error) { return codec.Marshal(o) }
func (o *other) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, o) }

func byOwner(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidType, "%T", m)
	}
	return c.Owner, nil
}
