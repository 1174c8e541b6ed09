package transaction

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// PayloadType is the wire tag leading every payload.
type PayloadType uint8

const (
	TypeDeployModule                PayloadType = 0
	TypeInitContract                PayloadType = 1
	TypeUpdateContract              PayloadType = 2
	TypeUpdateCredentialKeys        PayloadType = 13
	TypeTransfer                    PayloadType = 3
	TypeTransferWithSchedule        PayloadType = 19
	TypeRegisterData                PayloadType = 21
	TypeTransferWithMemo            PayloadType = 22
	TypeTransferWithScheduleAndMemo PayloadType = 24
)

func (t PayloadType) String() string {
	switch t {
	case TypeDeployModule:
		return "DeployModule"
	case TypeInitContract:
		return "InitContract"
	case TypeUpdateContract:
		return "UpdateContract"
	case TypeTransfer:
		return "Transfer"
	case TypeUpdateCredentialKeys:
		return "UpdateCredentialKeys"
	case TypeTransferWithSchedule:
		return "TransferWithSchedule"
	case TypeRegisterData:
		return "RegisterData"
	case TypeTransferWithMemo:
		return "TransferWithMemo"
	case TypeTransferWithScheduleAndMemo:
		return "TransferWithScheduleAndMemo"
	default:
		return fmt.Sprintf("PayloadType(%d)", uint8(t))
	}
}

// MaxScheduleLength is the most releases a scheduled transfer can carry.
const MaxScheduleLength = 255

// Payload is the intent of an account transaction. The set of
// implementations is closed.
type Payload interface {
	serial.Serializer
	Type() PayloadType
	isPayload()
}

// DeployModule deploys a smart contract module.
type DeployModule struct {
	Module types.WasmModule
}

// InitContract creates an instance of a contract from a deployed module.
type InitContract struct {
	Amount    types.MicroCCDAmount
	ModuleRef types.ModuleReference
	InitName  types.InitName
	Param     types.Parameter
}

// UpdateContract invokes an entrypoint of a contract instance.
type UpdateContract struct {
	Amount      types.MicroCCDAmount
	Address     types.ContractAddress
	ReceiveName types.ReceiveName
	Message     types.Parameter
}

// Transfer moves CCD to another account, optionally with a memo.
type Transfer struct {
	Receiver types.AccountAddress
	Amount   types.MicroCCDAmount
	Memo     fn.Option[types.Memo]
}

// TransferWithSchedule moves CCD to another account, releasing it over time.
type TransferWithSchedule struct {
	Receiver types.AccountAddress
	Schedule []types.ScheduledTransfer
	Memo     fn.Option[types.Memo]
}

// UpdateCredentialKeys replaces the keys of one credential of the sender.
type UpdateCredentialKeys struct {
	CredentialID types.CredentialRegistrationID
	Keys         types.CredentialPublicKeys
}

// RegisterData stores a blob on chain.
type RegisterData struct {
	Data types.RegisteredData
}

func (DeployModule) isPayload()         {}
func (InitContract) isPayload()         {}
func (UpdateContract) isPayload()       {}
func (Transfer) isPayload()             {}
func (TransferWithSchedule) isPayload() {}
func (UpdateCredentialKeys) isPayload() {}
func (RegisterData) isPayload()         {}

func (DeployModule) Type() PayloadType   { return TypeDeployModule }
func (InitContract) Type() PayloadType   { return TypeInitContract }
func (UpdateContract) Type() PayloadType { return TypeUpdateContract }
func (RegisterData) Type() PayloadType   { return TypeRegisterData }

func (UpdateCredentialKeys) Type() PayloadType { return TypeUpdateCredentialKeys }

func (p Transfer) Type() PayloadType {
	if p.Memo.IsSome() {
		return TypeTransferWithMemo
	}
	return TypeTransfer
}

func (p TransferWithSchedule) Type() PayloadType {
	if p.Memo.IsSome() {
		return TypeTransferWithScheduleAndMemo
	}
	return TypeTransferWithSchedule
}

func (p DeployModule) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint8(uint8(p.Type())) + p.Module.SerializeInto(buf)
}

func (p InitContract) SerializeInto(buf *serial.Buffer) int {
	n := buf.PutUint8(uint8(p.Type()))
	n += p.Amount.SerializeInto(buf)
	n += p.ModuleRef.SerializeInto(buf)
	n += p.InitName.SerializeInto(buf)
	return n + p.Param.SerializeInto(buf)
}

func (p UpdateContract) SerializeInto(buf *serial.Buffer) int {
	n := buf.PutUint8(uint8(p.Type()))
	n += p.Amount.SerializeInto(buf)
	n += p.Address.SerializeInto(buf)
	n += p.ReceiveName.SerializeInto(buf)
	return n + p.Message.SerializeInto(buf)
}

func (p Transfer) SerializeInto(buf *serial.Buffer) int {
	n := buf.PutUint8(uint8(p.Type()))
	n += p.Receiver.SerializeInto(buf)
	n += putMemo(buf, p.Memo)
	return n + p.Amount.SerializeInto(buf)
}

func (p TransferWithSchedule) SerializeInto(buf *serial.Buffer) int {
	n := buf.PutUint8(uint8(p.Type()))
	n += p.Receiver.SerializeInto(buf)
	n += putMemo(buf, p.Memo)
	return n + serial.PutList(buf, serial.Width8, p.Schedule)
}

func (p UpdateCredentialKeys) SerializeInto(buf *serial.Buffer) int {
	n := buf.PutUint8(uint8(p.Type()))
	n += p.CredentialID.SerializeInto(buf)
	return n + p.Keys.SerializeInto(buf)
}

func (p RegisterData) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint8(uint8(p.Type())) + p.Data.SerializeInto(buf)
}

func putMemo(buf *serial.Buffer, memo fn.Option[types.Memo]) int {
	return fn.MapOptionZ(memo, func(m types.Memo) int {
		return m.SerializeInto(buf)
	})
}
