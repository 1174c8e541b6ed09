package transaction

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// UnknownTagError is returned when a payload starts with a tag that does not
// name a supported payload type.
type UnknownTagError struct {
	Tag uint8
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown account transaction payload tag %d", e.Tag)
}

var payloadDecoders = map[PayloadType]serial.Decoder[Payload]{
	TypeDeployModule:                asPayload(readDeployModule),
	TypeInitContract:                asPayload(readInitContract),
	TypeUpdateContract:              asPayload(readUpdateContract),
	TypeTransfer:                    asPayload(readTransfer(false)),
	TypeTransferWithMemo:            asPayload(readTransfer(true)),
	TypeTransferWithSchedule:        asPayload(readTransferWithSchedule(false)),
	TypeTransferWithScheduleAndMemo: asPayload(readTransferWithSchedule(true)),
	TypeUpdateCredentialKeys:        asPayload(readUpdateCredentialKeys),
	TypeRegisterData:                asPayload(readRegisterData),
}

// DecodePayload decodes a payload spanning the whole of data.
func DecodePayload(data []byte) (Payload, error) {
	if len(data) > 0 {
		if _, ok := payloadDecoders[PayloadType(data[0])]; !ok {
			return nil, &UnknownTagError{data[0]}
		}
	}
	return serial.Deserialize(data, "account transaction payload", ReadPayload)
}

// ReadPayload dispatches on the leading tag. Unknown tags and truncated
// fields both yield fn.None with the cursor left in place.
func ReadPayload(c *serial.Cursor) fn.Option[Payload] {
	mark := c.Offset()
	tag, ok := serial.Get(c.Uint8())
	if !ok {
		return fn.None[Payload]()
	}
	decode, ok := payloadDecoders[PayloadType(tag)]
	if !ok {
		c.Seek(mark)
		return fn.None[Payload]()
	}
	p, ok := serial.Get(decode(c))
	if !ok {
		c.Seek(mark)
		return fn.None[Payload]()
	}
	return fn.Some(p)
}

func asPayload[T Payload](decode serial.Decoder[T]) serial.Decoder[Payload] {
	return func(c *serial.Cursor) fn.Option[Payload] {
		return fn.MapOption(func(p T) Payload { return p })(decode(c))
	}
}

func readDeployModule(c *serial.Cursor) fn.Option[DeployModule] {
	return fn.MapOption(func(m types.WasmModule) DeployModule {
		return DeployModule{m}
	})(types.ReadWasmModule(c))
}

func readInitContract(c *serial.Cursor) fn.Option[InitContract] {
	var (
		p  InitContract
		ok bool
	)
	if p.Amount, ok = serial.Get(types.ReadMicroCCDAmount(c)); !ok {
		return fn.None[InitContract]()
	}
	if p.ModuleRef, ok = serial.Get(types.ReadModuleReference(c)); !ok {
		return fn.None[InitContract]()
	}
	if p.InitName, ok = serial.Get(types.ReadInitName(c)); !ok {
		return fn.None[InitContract]()
	}
	if p.Param, ok = serial.Get(types.ReadParameter(c)); !ok {
		return fn.None[InitContract]()
	}
	return fn.Some(p)
}

func readUpdateContract(c *serial.Cursor) fn.Option[UpdateContract] {
	var (
		p  UpdateContract
		ok bool
	)
	if p.Amount, ok = serial.Get(types.ReadMicroCCDAmount(c)); !ok {
		return fn.None[UpdateContract]()
	}
	if p.Address, ok = serial.Get(types.ReadContractAddress(c)); !ok {
		return fn.None[UpdateContract]()
	}
	if p.ReceiveName, ok = serial.Get(types.ReadReceiveName(c)); !ok {
		return fn.None[UpdateContract]()
	}
	if p.Message, ok = serial.Get(types.ReadParameter(c)); !ok {
		return fn.None[UpdateContract]()
	}
	return fn.Some(p)
}

func readMemo(c *serial.Cursor, withMemo bool) (fn.Option[types.Memo], bool) {
	if !withMemo {
		return fn.None[types.Memo](), true
	}
	memo, ok := serial.Get(types.ReadMemo(c))
	if !ok {
		return fn.None[types.Memo](), false
	}
	return fn.Some(memo), true
}

func readTransfer(withMemo bool) serial.Decoder[Transfer] {
	return func(c *serial.Cursor) fn.Option[Transfer] {
		var (
			p  Transfer
			ok bool
		)
		if p.Receiver, ok = serial.Get(types.ReadAccountAddress(c)); !ok {
			return fn.None[Transfer]()
		}
		if p.Memo, ok = readMemo(c, withMemo); !ok {
			return fn.None[Transfer]()
		}
		if p.Amount, ok = serial.Get(types.ReadMicroCCDAmount(c)); !ok {
			return fn.None[Transfer]()
		}
		return fn.Some(p)
	}
}

func readTransferWithSchedule(withMemo bool) serial.Decoder[TransferWithSchedule] {
	return func(c *serial.Cursor) fn.Option[TransferWithSchedule] {
		var (
			p  TransferWithSchedule
			ok bool
		)
		if p.Receiver, ok = serial.Get(types.ReadAccountAddress(c)); !ok {
			return fn.None[TransferWithSchedule]()
		}
		if p.Memo, ok = readMemo(c, withMemo); !ok {
			return fn.None[TransferWithSchedule]()
		}
		p.Schedule, ok = serial.Get(
			serial.ReadList(c, serial.Width8, types.ReadScheduledTransfer),
		)
		if !ok {
			return fn.None[TransferWithSchedule]()
		}
		return fn.Some(p)
	}
}

func readUpdateCredentialKeys(c *serial.Cursor) fn.Option[UpdateCredentialKeys] {
	var (
		p  UpdateCredentialKeys
		ok bool
	)
	if p.CredentialID, ok = serial.Get(types.ReadCredentialRegistrationID(c)); !ok {
		return fn.None[UpdateCredentialKeys]()
	}
	if p.Keys, ok = serial.Get(types.ReadCredentialPublicKeys(c)); !ok {
		return fn.None[UpdateCredentialKeys]()
	}
	return fn.Some(p)
}

func readRegisterData(c *serial.Cursor) fn.Option[RegisterData] {
	return fn.MapOption(func(d types.RegisteredData) RegisterData {
		return RegisterData{d}
	})(types.ReadRegisteredData(c))
}
