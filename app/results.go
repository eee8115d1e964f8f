package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// ResultSet is the wire format of query results. Keys and values of a
// query are returned as two ResultSets of the same length.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

var _ proto.Message = (*ResultSet)(nil)

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// EncodeResults serializes a ResultSet.
func EncodeResults(rs *ResultSet) ([]byte, error) {
	bz, err := proto.Marshal(rs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return bz, nil
}

// DecodeResults parses a serialized ResultSet.
func DecodeResults(bz []byte) (*ResultSet, error) {
	var rs ResultSet
	if err := proto.Unmarshal(bz, &rs); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return &rs, nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []paystream.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []paystream.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]paystream.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "%d keys, %d values", len(kref), len(vref))
	}
	mods := make([]paystream.Model, len(kref))
	for i := range mods {
		mods[i] = paystream.Pair(kref[i], vref[i])
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o paystream.Persistent) error {
	res, err := DecodeResults(bz)
	if err != nil {
		return err
	}
	// no results, do nothing
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
