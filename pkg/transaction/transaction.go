package transaction

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrScheduleTooLong ...
	ErrScheduleTooLong = fmt.Errorf(
		"schedule must have at most %d releases", MaxScheduleLength,
	)
	// ErrEmptySchedule ...
	ErrEmptySchedule = errors.New("schedule must have at least one release")
)

// AccountTransaction is a payload from a sender together with the energy
// its execution needs on top of the base cost.
type AccountTransaction struct {
	Sender  types.AccountAddress
	Payload Payload
	Energy  types.Energy
}

// NewAccountTransaction is the generic constructor. Prefer the payload
// specific ones, which attach the right execution energy.
func NewAccountTransaction(
	sender types.AccountAddress, payload Payload, energy types.Energy,
) AccountTransaction {
	return AccountTransaction{sender, payload, energy}
}

func NewDeployModule(sender types.AccountAddress, module types.WasmModule) AccountTransaction {
	return AccountTransaction{sender, DeployModule{module}, DeployModuleCost(module)}
}

// NewInitContract charges maxEnergy for running the init function.
func NewInitContract(
	sender types.AccountAddress, amount types.MicroCCDAmount,
	modRef types.ModuleReference, initName types.InitName,
	param types.Parameter, maxEnergy types.Energy,
) AccountTransaction {
	payload := InitContract{amount, modRef, initName, param}
	return AccountTransaction{sender, payload, maxEnergy}
}

// NewUpdateContract charges maxEnergy for running the receive function.
func NewUpdateContract(
	sender types.AccountAddress, amount types.MicroCCDAmount,
	contract types.ContractAddress, receiveName types.ReceiveName,
	message types.Parameter, maxEnergy types.Energy,
) AccountTransaction {
	payload := UpdateContract{amount, contract, receiveName, message}
	return AccountTransaction{sender, payload, maxEnergy}
}

func NewTransfer(
	sender, receiver types.AccountAddress, amount types.MicroCCDAmount,
) AccountTransaction {
	payload := Transfer{receiver, amount, fn.None[types.Memo]()}
	return AccountTransaction{sender, payload, TransferCost}
}

func NewTransferWithMemo(
	sender, receiver types.AccountAddress, amount types.MicroCCDAmount,
	memo types.Memo,
) AccountTransaction {
	payload := Transfer{receiver, amount, fn.Some(memo)}
	return AccountTransaction{sender, payload, TransferCost}
}

func NewTransferWithSchedule(
	sender, receiver types.AccountAddress, schedule []types.ScheduledTransfer,
) (AccountTransaction, error) {
	return newTransferWithSchedule(sender, receiver, schedule, fn.None[types.Memo]())
}

func NewTransferWithScheduleAndMemo(
	sender, receiver types.AccountAddress, schedule []types.ScheduledTransfer,
	memo types.Memo,
) (AccountTransaction, error) {
	return newTransferWithSchedule(sender, receiver, schedule, fn.Some(memo))
}

func newTransferWithSchedule(
	sender, receiver types.AccountAddress, schedule []types.ScheduledTransfer,
	memo fn.Option[types.Memo],
) (AccountTransaction, error) {
	if len(schedule) == 0 {
		return AccountTransaction{}, ErrEmptySchedule
	}
	if len(schedule) > MaxScheduleLength {
		return AccountTransaction{}, ErrScheduleTooLong
	}
	payload := TransferWithSchedule{receiver, schedule, memo}
	energy := TransferWithScheduleCost(len(schedule))
	return AccountTransaction{sender, payload, energy}, nil
}

// NewUpdateCredentialKeys needs the number of credentials the sender holds,
// which the cost depends on.
func NewUpdateCredentialKeys(
	sender types.AccountAddress, credID types.CredentialRegistrationID,
	keys types.CredentialPublicKeys, credentialCount int,
) AccountTransaction {
	payload := UpdateCredentialKeys{credID, keys}
	energy := UpdateCredentialKeysCost(credentialCount, len(keys.Keys))
	return AccountTransaction{sender, payload, energy}
}

func NewRegisterData(sender types.AccountAddress, data types.RegisteredData) AccountTransaction {
	return AccountTransaction{sender, RegisterData{data}, RegisterDataCost}
}

// Prepare fixes the header of the transaction. signatureCount must match
// the number of signatures the transaction is going to carry, since each one
// is paid for.
func (tx AccountTransaction) Prepare(
	seq types.SequenceNumber, expiry types.TransactionTime, signatureCount int,
) Prepared {
	payload := serial.Serialize(tx.Payload)

	// The header is measured with a zero energy and payload size, neither
	// of which changes its length.
	header := Header{
		Sender:         tx.Sender,
		SequenceNumber: seq,
		Expiry:         expiry,
	}
	headerSize := len(serial.Serialize(header))

	header.MaxEnergy = BaseCost(headerSize, len(payload), signatureCount) + tx.Energy
	header.PayloadSize = uint32(len(payload))
	return Prepared{header, payload}
}

// Prepared is a transaction with a fixed header and serialized payload.
type Prepared struct {
	Header  Header
	Payload []byte
}

func (p Prepared) SerializeInto(buf *serial.Buffer) int {
	header := p.Header
	header.PayloadSize = uint32(len(p.Payload))
	return header.SerializeInto(buf) + buf.PutBytes(p.Payload)
}

// Serialize returns the bytes that signatures are computed over.
func (p Prepared) Serialize() Serialized {
	data := serial.Serialize(p)
	return Serialized{data, types.TransactionHash(sha256.Sum256(data))}
}

// DecodedPayload decodes the serialized payload.
func (p Prepared) DecodedPayload() (Payload, error) {
	return DecodePayload(p.Payload)
}

// ReadPrepared decodes a header followed by exactly PayloadSize bytes.
func ReadPrepared(c *serial.Cursor) fn.Option[Prepared] {
	mark := c.Offset()
	header, ok := serial.Get(ReadHeader(c))
	if !ok {
		return fn.None[Prepared]()
	}
	payload, ok := serial.Get(c.Read(int(header.PayloadSize)))
	if !ok {
		c.Seek(mark)
		return fn.None[Prepared]()
	}
	return fn.Some(Prepared{header, payload})
}

// Serialized is a prepared transaction in wire form with the hash that is
// signed.
type Serialized struct {
	Data []byte
	Hash types.TransactionHash
}
