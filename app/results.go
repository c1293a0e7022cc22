package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// ResultSet contains a list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

func (m *ResultSet) Reset()         { *m = ResultSet{} }
func (m *ResultSet) String() string { return proto.CompactTextString(m) }
func (*ResultSet) ProtoMessage()    {}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []weave.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults parses the serialized key and value sets of a query response
// back into models.
func JoinResults(keys, values []byte) ([]weave.Model, error) {
	var k, v ResultSet
	if err := proto.Unmarshal(keys, &k); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot unmarshal keys: %s", err)
	}
	if err := proto.Unmarshal(values, &v); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot unmarshal values: %s", err)
	}
	if len(k.Results) != len(v.Results) {
		return nil, errors.Wrap(errors.ErrState, "mismatched result set size")
	}
	models := make([]weave.Model, len(k.Results))
	for i := range models {
		models[i] = weave.Pair(k.Results[i], v.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o.
// ErrNotFound is returned for an empty result set.
func UnmarshalOneResult(bz []byte, o proto.Message) error {
	var res ResultSet
	if err := proto.Unmarshal(bz, &res); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal result set: %s", err)
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	if err := proto.Unmarshal(res.Results[0], o); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot unmarshal result: %s", err)
	}
	return nil
}

func marshalResults(rs *ResultSet) ([]byte, error) {
	bz, err := proto.Marshal(rs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}
