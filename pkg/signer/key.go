package signer

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/types"
)

// Key produces signatures over arbitrary messages.
type Key interface {
	Sign(msg []byte) ([]byte, error)
}

// Ed25519Key is the private key of an account credential.
type Ed25519Key struct {
	priv ed25519.PrivateKey
}

// NewEd25519Key builds a key from its 32 bytes seed, the form in which keys
// are derived and exported.
func NewEd25519Key(seed []byte) (Ed25519Key, error) {
	if len(seed) != ed25519.SeedSize {
		return Ed25519Key{}, &types.ExactSizeError{
			Type: "ed25519 sign key", Expected: ed25519.SeedSize, Actual: len(seed),
		}
	}
	return Ed25519Key{ed25519.NewKeyFromSeed(seed)}, nil
}

// Ed25519KeyFromHex parses a hex encoded seed.
func Ed25519KeyFromHex(s string) (Ed25519Key, error) {
	seed, err := hex.DecodeString(s)
	if err != nil {
		return Ed25519Key{}, fmt.Errorf("%w: %s", types.ErrInvalidHex, err)
	}
	return NewEd25519Key(seed)
}

// GenerateEd25519Key returns a random key.
func GenerateEd25519Key() (Ed25519Key, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Ed25519Key{}, err
	}
	return Ed25519Key{priv}, nil
}

func (k Ed25519Key) Sign(msg []byte) ([]byte, error) {
	if len(k.priv) != ed25519.PrivateKeySize {
		return nil, ErrUninitializedKey
	}
	return ed25519.Sign(k.priv, msg), nil
}

// Seed returns a copy of the 32 bytes the key was built from.
func (k Ed25519Key) Seed() []byte {
	if len(k.priv) != ed25519.PrivateKeySize {
		return nil
	}
	return bytes.Clone(k.priv.Seed())
}

// PublicKey returns the verify key matching k.
func (k Ed25519Key) PublicKey() types.VerifyKey {
	if len(k.priv) != ed25519.PrivateKeySize {
		return types.VerifyKey{}
	}
	pub := k.priv.Public().(ed25519.PublicKey)
	return types.VerifyKey{Key: bytes.Clone(pub)}
}
