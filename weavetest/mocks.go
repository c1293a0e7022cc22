package weavetest

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
)

// Handler counts its calls and returns the configured results.
type Handler struct {
	CheckResult   weave.CheckResult
	CheckErr      error
	DeliverResult weave.DeliverResult
	DeliverErr    error

	checks, delivers int
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	h.checks++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	h.delivers++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int   { return h.checks }
func (h *Handler) DeliverCallCount() int { return h.delivers }
func (h *Handler) CallCount() int        { return h.checks + h.delivers }

// WriteHandler sets Key to Value and then fails with Err, if any. It is
// used to prove that a failed call leaves no state behind.
type WriteHandler struct {
	Key, Value []byte
	Err        error
}

var _ weave.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	if err := h.write(db); err != nil {
		return nil, err
	}
	return &weave.DeliverResult{}, nil
}

func (h *WriteHandler) write(db weave.KVStore) error {
	if err := db.Set(h.Key, h.Value); err != nil {
		return err
	}
	return h.Err
}

// Decorator counts its calls. It fails with CheckErr or DeliverErr before
// reaching the next handler, otherwise it passes the call through.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks, delivers int
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Tx carries a single message. Err, when set, is returned by GetMsg.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) { return tx.Msg, tx.Err }
func (tx *Tx) Reset()                     { *tx = Tx{} }
func (tx *Tx) String() string             { return proto.CompactTextString(tx) }
func (*Tx) ProtoMessage()                 {}

// Msg routes to RoutePath. Err, when set, is returned by Validate.
type Msg struct {
	RoutePath  string `protobuf:"bytes,1,opt,name=route_path,proto3" json:"route_path,omitempty"`
	Serialized []byte `protobuf:"bytes,2,opt,name=serialized,proto3" json:"serialized,omitempty"`
	Err        error  `protobuf:"-" json:"-"`
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }
func (m *Msg) Reset()          { *m = Msg{} }
func (m *Msg) String() string  { return proto.CompactTextString(m) }
func (*Msg) ProtoMessage()     {}
