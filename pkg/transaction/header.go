package transaction

import (
	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// HeaderSize is the encoded size of a header, whatever its field values.
const HeaderSize = types.AccountAddressSize + 8 + 8 + 4 + 8

// Header carries the metadata shared by all account transactions.
type Header struct {
	Sender         types.AccountAddress
	SequenceNumber types.SequenceNumber
	MaxEnergy      types.Energy
	PayloadSize    uint32
	Expiry         types.TransactionTime
}

func (h Header) SerializeInto(buf *serial.Buffer) int {
	n := h.Sender.SerializeInto(buf)
	n += h.SequenceNumber.SerializeInto(buf)
	n += h.MaxEnergy.SerializeInto(buf)
	n += buf.PutUint32(h.PayloadSize)
	return n + h.Expiry.SerializeInto(buf)
}

func ReadHeader(c *serial.Cursor) fn.Option[Header] {
	if c.Remaining() < HeaderSize {
		return fn.None[Header]()
	}
	var h Header
	h.Sender, _ = serial.Get(types.ReadAccountAddress(c))
	h.SequenceNumber, _ = serial.Get(types.ReadSequenceNumber(c))
	h.MaxEnergy, _ = serial.Get(types.ReadEnergy(c))
	h.PayloadSize, _ = serial.Get(c.Uint32())
	h.Expiry, _ = serial.Get(types.ReadTransactionTime(c))
	return fn.Some(h)
}
