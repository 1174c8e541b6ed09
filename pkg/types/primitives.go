package types

import (
	"time"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// SequenceNumber orders the transactions of one account. The first
// transaction of an account has sequence number 1.
type SequenceNumber uint64

// Energy measures the execution cost of a transaction.
type Energy uint64

// TransactionTime is a point in time in seconds since the unix epoch.
type TransactionTime uint64

// MicroCCDAmount is an amount of CCD in its smallest unit.
type MicroCCDAmount uint64

// CredentialIndex selects a credential of an account.
type CredentialIndex uint8

// KeyIndex selects a key of a credential.
type KeyIndex uint8

// SignatureThreshold is the number of keys of a credential that must sign.
type SignatureThreshold uint8

// TransactionTimeFrom converts t, truncated to whole seconds.
func TransactionTimeFrom(t time.Time) TransactionTime {
	return TransactionTime(t.Unix())
}

// ExpiryIn returns the transaction time d from now.
func ExpiryIn(d time.Duration) TransactionTime {
	return TransactionTimeFrom(time.Now().Add(d))
}

// Time converts back to a time.Time.
func (t TransactionTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

func (n SequenceNumber) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(uint64(n))
}

func (e Energy) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(uint64(e))
}

func (t TransactionTime) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(uint64(t))
}

func (a MicroCCDAmount) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(uint64(a))
}

func ReadSequenceNumber(c *serial.Cursor) fn.Option[SequenceNumber] {
	return fn.MapOption(func(v uint64) SequenceNumber {
		return SequenceNumber(v)
	})(c.Uint64())
}

func ReadEnergy(c *serial.Cursor) fn.Option[Energy] {
	return fn.MapOption(func(v uint64) Energy { return Energy(v) })(c.Uint64())
}

func ReadTransactionTime(c *serial.Cursor) fn.Option[TransactionTime] {
	return fn.MapOption(func(v uint64) TransactionTime {
		return TransactionTime(v)
	})(c.Uint64())
}

func ReadMicroCCDAmount(c *serial.Cursor) fn.Option[MicroCCDAmount] {
	return fn.MapOption(func(v uint64) MicroCCDAmount {
		return MicroCCDAmount(v)
	})(c.Uint64())
}

// ScheduledTransfer is one release of a transfer with schedule. Timestamp is
// in milliseconds since the unix epoch.
type ScheduledTransfer struct {
	Timestamp uint64         `json:"timestamp"`
	Amount    MicroCCDAmount `json:"amount"`
}

func (s ScheduledTransfer) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(s.Timestamp) + s.Amount.SerializeInto(buf)
}

func ReadScheduledTransfer(c *serial.Cursor) fn.Option[ScheduledTransfer] {
	mark := c.Offset()
	ts, ok := serial.Get(c.Uint64())
	if !ok {
		return fn.None[ScheduledTransfer]()
	}
	amount, ok := serial.Get(ReadMicroCCDAmount(c))
	if !ok {
		c.Seek(mark)
		return fn.None[ScheduledTransfer]()
	}
	return fn.Some(ScheduledTransfer{ts, amount})
}
