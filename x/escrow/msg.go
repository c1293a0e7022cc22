package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/currency"
)

// ConfirmDeliveryMsg is sent by the maker to confirm that the delivery
// happened. A confirmed escrow is released to the beneficiary.
type ConfirmDeliveryMsg struct {
	Metadata *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId []byte          `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
}

func (m *ConfirmDeliveryMsg) Reset()         { *m = ConfirmDeliveryMsg{} }
func (m *ConfirmDeliveryMsg) String() string { return proto.CompactTextString(m) }
func (*ConfirmDeliveryMsg) ProtoMessage()    {}

var _ weave.Msg = (*ConfirmDeliveryMsg)(nil)

// Path returns the routing path for this message
func (ConfirmDeliveryMsg) Path() string {
	return "escrow/confirm"
}

// Validate makes sure that this is sensible
func (m *ConfirmDeliveryMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateEscrowID(m.EscrowId)
}

// CheckAndExecuteMsg can be sent by anybody to execute an escrow. It
// references all accounts that take part in the execution.
type CheckAndExecuteMsg struct {
	Metadata    *weave.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	EscrowId    []byte          `protobuf:"bytes,2,opt,name=escrow_id,json=escrowId,proto3" json:"escrow_id,omitempty"`
	Custody     weave.Address   `protobuf:"bytes,3,opt,name=custody,proto3" json:"custody,omitempty"`
	Ticker      string          `protobuf:"bytes,4,opt,name=ticker,proto3" json:"ticker,omitempty"`
	Beneficiary weave.Address   `protobuf:"bytes,5,opt,name=beneficiary,proto3" json:"beneficiary,omitempty"`
	Refund      weave.Address   `protobuf:"bytes,6,opt,name=refund,proto3" json:"refund,omitempty"`
}

func (m *CheckAndExecuteMsg) Reset()         { *m = CheckAndExecuteMsg{} }
func (m *CheckAndExecuteMsg) String() string { return proto.CompactTextString(m) }
func (*CheckAndExecuteMsg) ProtoMessage()    {}

var _ weave.Msg = (*CheckAndExecuteMsg)(nil)

// Path returns the routing path for this message
func (CheckAndExecuteMsg) Path() string {
	return "escrow/execute"
}

// Validate makes sure that this is sensible
func (m *CheckAndExecuteMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := validateEscrowID(m.EscrowId); err != nil {
		return err
	}
	if !currency.IsTicker(m.Ticker) {
		return errors.Wrapf(errors.ErrCurrency, "invalid ticker %q", m.Ticker)
	}
	if err := m.Custody.Validate(); err != nil {
		return errors.Wrap(err, "custody")
	}
	if err := m.Beneficiary.Validate(); err != nil {
		return errors.Wrap(err, "beneficiary")
	}
	if err := m.Refund.Validate(); err != nil {
		return errors.Wrap(err, "refund")
	}
	return nil
}

// request returns the controller request described by this message.
func (m *CheckAndExecuteMsg) request() ExecuteRequest {
	return ExecuteRequest{
		EscrowID:    m.EscrowId,
		Custody:     m.Custody,
		Ticker:      m.Ticker,
		Beneficiary: m.Beneficiary,
		Refund:      m.Refund,
	}
}

func validateEscrowID(id []byte) error {
	if len(id) != recordKeyLength {
		return errors.Wrapf(errors.ErrInput, "escrow id %X", id)
	}
	return nil
}
