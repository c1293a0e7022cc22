package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/x/cash"
	"github.com/iov-one/escrowd/x/escrow"
	"github.com/iov-one/escrowd/x/sigs"
)

// Tx contains the message together with the signatures that authorize it.
// Exactly one of the message fields must be set.
type Tx struct {
	Signatures         []*sigs.StdSignature       `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	ConfirmDeliveryMsg *escrow.ConfirmDeliveryMsg `protobuf:"bytes,2,opt,name=confirm_delivery_msg,json=confirmDeliveryMsg,proto3" json:"confirm_delivery_msg,omitempty"`
	CheckAndExecuteMsg *escrow.CheckAndExecuteMsg `protobuf:"bytes,3,opt,name=check_and_execute_msg,json=checkAndExecuteMsg,proto3" json:"check_and_execute_msg,omitempty"`
	SendMsg            *cash.SendMsg              `protobuf:"bytes,4,opt,name=send_msg,json=sendMsg,proto3" json:"send_msg,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := proto.Unmarshal(bz, tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode tx: %s", err)
	}
	return tx, nil
}

// GetMsg returns the single message carried by this transaction.
func (m *Tx) GetMsg() (weave.Msg, error) {
	var msgs []weave.Msg
	if m.ConfirmDeliveryMsg != nil {
		msgs = append(msgs, m.ConfirmDeliveryMsg)
	}
	if m.CheckAndExecuteMsg != nil {
		msgs = append(msgs, m.CheckAndExecuteMsg)
	}
	if m.SendMsg != nil {
		msgs = append(msgs, m.SendMsg)
	}

	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "%d messages in one transaction", len(msgs))
	}
}

// GetSignatures returns the signatures attached to this transaction.
func (m *Tx) GetSignatures() []*sigs.StdSignature {
	if m == nil {
		return nil
	}
	return m.Signatures
}

// GetSignBytes returns the bytes to sign. Signatures are never part of
// the signed data.
func (m *Tx) GetSignBytes() ([]byte, error) {
	unsigned := *m
	unsigned.Signatures = nil
	bz, err := proto.Marshal(&unsigned)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return bz, nil
}
