package types

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const ed25519Scheme = "Ed25519"

// VerifyKey is the public key of an account credential. Ed25519 is the only
// scheme in use and has wire tag 0.
type VerifyKey struct {
	Key ed25519.PublicKey
}

// NewVerifyKey validates the length of an Ed25519 public key.
func NewVerifyKey(key []byte) (VerifyKey, error) {
	if len(key) != ed25519.PublicKeySize {
		return VerifyKey{}, &ExactSizeError{
			"verify key", ed25519.PublicKeySize, len(key),
		}
	}
	return VerifyKey{ed25519.PublicKey(key)}, nil
}

// VerifyKeyFromHex parses a hex encoded Ed25519 public key.
func VerifyKeyFromHex(s string) (VerifyKey, error) {
	b, err := decodeHex(s)
	if err != nil {
		return VerifyKey{}, err
	}
	return NewVerifyKey(b)
}

// Verify checks an Ed25519 signature.
func (k VerifyKey) Verify(msg, sig []byte) bool {
	return len(k.Key) == ed25519.PublicKeySize && ed25519.Verify(k.Key, msg, sig)
}

func (k VerifyKey) String() string {
	return encodeHex(k.Key)
}

func (k VerifyKey) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint8(0) + buf.PutBytes(k.Key)
}

func ReadVerifyKey(c *serial.Cursor) fn.Option[VerifyKey] {
	mark := c.Offset()
	tag, ok := serial.Get(c.Uint8())
	if !ok || tag != 0 {
		c.Seek(mark)
		return fn.None[VerifyKey]()
	}
	key, ok := serial.Get(c.Read(ed25519.PublicKeySize))
	if !ok {
		c.Seek(mark)
		return fn.None[VerifyKey]()
	}
	return fn.Some(VerifyKey{ed25519.PublicKey(key)})
}

type verifyKeyJSON struct {
	SchemeID  string `json:"schemeId"`
	VerifyKey string `json:"verifyKey"`
}

func (k VerifyKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(verifyKeyJSON{ed25519Scheme, k.String()})
}

func (k *VerifyKey) UnmarshalJSON(data []byte) error {
	var v verifyKeyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.SchemeID != ed25519Scheme {
		return fmt.Errorf("%w: %s", ErrUnsupportedKeyScheme, v.SchemeID)
	}
	parsed, err := VerifyKeyFromHex(v.VerifyKey)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// CredentialPublicKeys are the public keys of one credential together with
// the number of them that must sign.
type CredentialPublicKeys struct {
	Keys      map[KeyIndex]VerifyKey
	Threshold SignatureThreshold
}

func (k CredentialPublicKeys) SerializeInto(buf *serial.Buffer) int {
	n := serial.PutMap(buf, serial.Width8, k.Keys,
		func(b *serial.Buffer, idx KeyIndex) int { return b.PutUint8(uint8(idx)) },
		func(b *serial.Buffer, key VerifyKey) int { return key.SerializeInto(b) },
	)
	return n + buf.PutUint8(uint8(k.Threshold))
}

func ReadCredentialPublicKeys(c *serial.Cursor) fn.Option[CredentialPublicKeys] {
	mark := c.Offset()
	keys, ok := serial.Get(serial.ReadMap(c, serial.Width8, readKeyIndex, ReadVerifyKey))
	if !ok {
		return fn.None[CredentialPublicKeys]()
	}
	threshold, ok := serial.Get(c.Uint8())
	if !ok {
		c.Seek(mark)
		return fn.None[CredentialPublicKeys]()
	}
	return fn.Some(CredentialPublicKeys{keys, SignatureThreshold(threshold)})
}

func readKeyIndex(c *serial.Cursor) fn.Option[KeyIndex] {
	return fn.MapOption(func(v uint8) KeyIndex { return KeyIndex(v) })(c.Uint8())
}

type credentialPublicKeysJSON struct {
	Keys      map[string]VerifyKey `json:"keys"`
	Threshold SignatureThreshold   `json:"threshold"`
}

func (k CredentialPublicKeys) MarshalJSON() ([]byte, error) {
	keys := make(map[string]VerifyKey, len(k.Keys))
	for idx, key := range k.Keys {
		keys[strconv.Itoa(int(idx))] = key
	}
	return json.Marshal(credentialPublicKeysJSON{keys, k.Threshold})
}

func (k *CredentialPublicKeys) UnmarshalJSON(data []byte) error {
	var v credentialPublicKeysJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	keys := make(map[KeyIndex]VerifyKey, len(v.Keys))
	for s, key := range v.Keys {
		idx, err := strconv.ParseUint(s, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid key index %q: %w", s, err)
		}
		keys[KeyIndex(idx)] = key
	}
	*k = CredentialPublicKeys{keys, v.Threshold}
	return nil
}
