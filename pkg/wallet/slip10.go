package wallet

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

var slip10Curve = []byte("ed25519 seed")

// ExtendedKey is a node of a SLIP-10 ed25519 tree.
type ExtendedKey struct {
	Key       []byte
	ChainCode []byte
}

// NewMasterKey computes the root of the tree for seed.
func NewMasterKey(seed []byte) (ExtendedKey, error) {
	if len(seed) <= 0 {
		return ExtendedKey{}, ErrNullSeed
	}
	return split(hmacSHA512(slip10Curve, seed)), nil
}

// Child derives a hardened child. The index must already carry the
// hardened offset.
func (k ExtendedKey) Child(index uint32) (ExtendedKey, error) {
	if !(DerivationPath{index}).IsHardened() {
		return ExtendedKey{}, ErrNonHardenedDerivation
	}
	data := make([]byte, 0, 1+len(k.Key)+4)
	data = append(data, 0)
	data = append(data, k.Key...)
	data = binary.BigEndian.AppendUint32(data, index)
	return split(hmacSHA512(k.ChainCode, data)), nil
}

// Derive walks path from k.
func (k ExtendedKey) Derive(path DerivationPath) (ExtendedKey, error) {
	node := k
	for _, index := range path {
		child, err := node.Child(index)
		if err != nil {
			return ExtendedKey{}, err
		}
		node = child
	}
	return node, nil
}

// PublicKey returns the ed25519 public key of the node, without the 0x00
// prefix some encodings add.
func (k ExtendedKey) PublicKey() []byte {
	priv := ed25519.NewKeyFromSeed(k.Key)
	return []byte(priv.Public().(ed25519.PublicKey))
}

// DeriveKey derives the node at path directly from seed.
func DeriveKey(seed []byte, path DerivationPath) (ExtendedKey, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return ExtendedKey{}, err
	}
	return master.Derive(path)
}

func hmacSHA512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func split(i []byte) ExtendedKey {
	return ExtendedKey{Key: i[:32], ChainCode: i[32:]}
}
