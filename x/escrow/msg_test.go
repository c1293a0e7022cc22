package escrow

import (
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
	"github.com/iov-one/escrowd/weavetest"
	"github.com/iov-one/escrowd/weavetest/assert"
)

func TestValidateConfirmDeliveryMsg(t *testing.T) {
	id := RecordKey(weavetest.RandomAddr(t), 1)

	cases := map[string]struct {
		msg     weave.Msg
		wantErr *errors.Error
	}{
		"valid": {
			msg: &ConfirmDeliveryMsg{Metadata: &weave.Metadata{Schema: 1}, EscrowId: id},
		},
		"missing metadata": {
			msg:     &ConfirmDeliveryMsg{EscrowId: id},
			wantErr: errors.ErrMetadata,
		},
		"short id": {
			msg:     &ConfirmDeliveryMsg{Metadata: &weave.Metadata{Schema: 1}, EscrowId: id[:20]},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.msg.Validate())
		})
	}
}

func TestValidateCheckAndExecuteMsg(t *testing.T) {
	id := RecordKey(weavetest.RandomAddr(t), 1)
	custody := weavetest.RandomAddr(t)
	benef := weavetest.RandomAddr(t)
	refund := weavetest.RandomAddr(t)

	valid := func() *CheckAndExecuteMsg {
		return &CheckAndExecuteMsg{
			Metadata:    &weave.Metadata{Schema: 1},
			EscrowId:    id,
			Custody:     custody,
			Ticker:      "IOV",
			Beneficiary: benef,
			Refund:      refund,
		}
	}

	cases := map[string]struct {
		modify  func(*CheckAndExecuteMsg)
		wantErr *errors.Error
	}{
		"valid": {
			modify: func(*CheckAndExecuteMsg) {},
		},
		"missing metadata": {
			modify:  func(m *CheckAndExecuteMsg) { m.Metadata = nil },
			wantErr: errors.ErrMetadata,
		},
		"missing escrow id": {
			modify:  func(m *CheckAndExecuteMsg) { m.EscrowId = nil },
			wantErr: errors.ErrInput,
		},
		"invalid ticker": {
			modify:  func(m *CheckAndExecuteMsg) { m.Ticker = "" },
			wantErr: errors.ErrCurrency,
		},
		"missing custody": {
			modify:  func(m *CheckAndExecuteMsg) { m.Custody = nil },
			wantErr: errors.ErrInput,
		},
		"missing beneficiary": {
			modify:  func(m *CheckAndExecuteMsg) { m.Beneficiary = nil },
			wantErr: errors.ErrInput,
		},
		"missing refund": {
			modify:  func(m *CheckAndExecuteMsg) { m.Refund = nil },
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			msg := valid()
			tc.modify(msg)
			assert.IsErr(t, tc.wantErr, msg.Validate())
		})
	}
}

func TestValidateEscrow(t *testing.T) {
	valid := func() *Escrow {
		return &Escrow{
			Metadata: &weave.Metadata{Schema: 1},
			Maker:    weavetest.RandomAddr(t),
			Ticker:   "IOV",
			Deposit:  1,
			Deadline: 100,
			Bump:     255,
		}
	}
	cases := map[string]struct {
		modify  func(*Escrow)
		wantErr *errors.Error
	}{
		"valid":           {modify: func(*Escrow) {}},
		"legacy fields":   {modify: func(e *Escrow) { e.LegacyCounterTicker = "ETH"; e.LegacyReceiveAmount = 5 }},
		"zero deposit":    {modify: func(e *Escrow) { e.Deposit = 0 }, wantErr: errors.ErrAmount},
		"missing maker":   {modify: func(e *Escrow) { e.Maker = nil }, wantErr: errors.ErrInput},
		"no deadline":     {modify: func(e *Escrow) { e.Deadline = 0 }, wantErr: errors.ErrInput},
		"bump overflow":   {modify: func(e *Escrow) { e.Bump = 256 }, wantErr: errors.ErrInput},
		"bad beneficiary": {modify: func(e *Escrow) { e.Beneficiary = []byte{1, 2} }, wantErr: errors.ErrInput},
		"bad ticker":      {modify: func(e *Escrow) { e.Ticker = "x" }, wantErr: errors.ErrCurrency},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			e := valid()
			tc.modify(e)
			assert.IsErr(t, tc.wantErr, e.Validate())
		})
	}
}
