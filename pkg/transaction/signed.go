package transaction

import (
	"crypto/sha256"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// BlockItemKind is the tag that leads a block item on the wire.
type BlockItemKind uint8

const (
	KindAccountTransaction   BlockItemKind = 0
	KindCredentialDeployment BlockItemKind = 1
)

// CredentialSignatures are the signatures made with the keys of one
// credential.
type CredentialSignatures map[types.KeyIndex][]byte

// Signatures are the signatures on a transaction by credential and key.
type Signatures map[types.CredentialIndex]CredentialSignatures

// Count returns the total number of signatures.
func (s Signatures) Count() int {
	n := 0
	for _, creds := range s {
		n += len(creds)
	}
	return n
}

func (s CredentialSignatures) SerializeInto(buf *serial.Buffer) int {
	return serial.PutMap(buf, serial.Width8, s,
		func(b *serial.Buffer, idx types.KeyIndex) int { return b.PutUint8(uint8(idx)) },
		func(b *serial.Buffer, sig []byte) int { return b.PutPrefixedBytes(serial.Width16, sig) },
	)
}

func (s Signatures) SerializeInto(buf *serial.Buffer) int {
	return serial.PutMap(buf, serial.Width8, s,
		func(b *serial.Buffer, idx types.CredentialIndex) int { return b.PutUint8(uint8(idx)) },
		func(b *serial.Buffer, sigs CredentialSignatures) int { return sigs.SerializeInto(b) },
	)
}

func ReadCredentialSignatures(c *serial.Cursor) fn.Option[CredentialSignatures] {
	return fn.MapOption(func(m map[types.KeyIndex][]byte) CredentialSignatures {
		return CredentialSignatures(m)
	})(serial.ReadMap(c, serial.Width8, readKeyIndex, readSignature))
}

func ReadSignatures(c *serial.Cursor) fn.Option[Signatures] {
	return fn.MapOption(func(m map[types.CredentialIndex]CredentialSignatures) Signatures {
		return Signatures(m)
	})(serial.ReadMap(c, serial.Width8, readCredentialIndex, ReadCredentialSignatures))
}

func readKeyIndex(c *serial.Cursor) fn.Option[types.KeyIndex] {
	return fn.MapOption(func(v uint8) types.KeyIndex {
		return types.KeyIndex(v)
	})(c.Uint8())
}

func readCredentialIndex(c *serial.Cursor) fn.Option[types.CredentialIndex] {
	return fn.MapOption(func(v uint8) types.CredentialIndex {
		return types.CredentialIndex(v)
	})(c.Uint8())
}

func readSignature(c *serial.Cursor) fn.Option[[]byte] {
	return c.PrefixedBytes(serial.Width16)
}

// Signed is a prepared transaction with its signatures, ready to be sent.
type Signed struct {
	Transaction Prepared
	Signatures  Signatures
}

func (s Signed) SerializeInto(buf *serial.Buffer) int {
	return s.Signatures.SerializeInto(buf) + s.Transaction.SerializeInto(buf)
}

// BlockItemBytes returns the transaction as a block item, which is how it is
// submitted when no node connection is at hand.
func (s Signed) BlockItemBytes() []byte {
	buf := serial.NewBuffer()
	buf.PutUint8(uint8(KindAccountTransaction))
	s.SerializeInto(buf)
	return buf.Bytes()
}

// Hash returns the hash of the block item, which is how the chain refers to
// the transaction once submitted.
func (s Signed) Hash() types.TransactionHash {
	return types.TransactionHash(sha256.Sum256(s.BlockItemBytes()))
}

func ReadSigned(c *serial.Cursor) fn.Option[Signed] {
	mark := c.Offset()
	sigs, ok := serial.Get(ReadSignatures(c))
	if !ok {
		return fn.None[Signed]()
	}
	tx, ok := serial.Get(ReadPrepared(c))
	if !ok {
		c.Seek(mark)
		return fn.None[Signed]()
	}
	return fn.Some(Signed{tx, sigs})
}

// DecodeBlockItem decodes the output of BlockItemBytes.
func DecodeBlockItem(data []byte) (Signed, error) {
	return serial.Deserialize(data, "account transaction block item",
		func(c *serial.Cursor) fn.Option[Signed] {
			mark := c.Offset()
			kind, ok := serial.Get(c.Uint8())
			if !ok || BlockItemKind(kind) != KindAccountTransaction {
				c.Seek(mark)
				return fn.None[Signed]()
			}
			return ReadSigned(c)
		},
	)
}
