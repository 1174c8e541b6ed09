package signer

import (
	"maps"
	"slices"

	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
)

// Signatures are keyed by the credential and key that produced them.
type Signatures = transaction.Signatures

// Signer produces one signature per held key.
type Signer interface {
	// Count returns the number of signatures Sign produces, which is what a
	// transaction is charged for.
	Count() int
	Sign(msg []byte) (Signatures, error)
}

// Account is an address together with the keys able to sign for it.
type Account struct {
	Address types.AccountAddress
	Keys    Signer
}

// AccountKeys is a set of keys laid out by credential and key index.
type AccountKeys struct {
	keys map[types.CredentialIndex]map[types.KeyIndex]Key
}

// NewAccountKeys copies keys. Credentials without keys are dropped.
func NewAccountKeys(keys map[types.CredentialIndex]map[types.KeyIndex]Key) AccountKeys {
	cp := make(map[types.CredentialIndex]map[types.KeyIndex]Key, len(keys))
	for cred, credKeys := range keys {
		if len(credKeys) == 0 {
			continue
		}
		cp[cred] = maps.Clone(credKeys)
	}
	return AccountKeys{cp}
}

// SingleKey places key at credential 0, key 0.
func SingleKey(key Key) AccountKeys {
	return NewAccountKeys(map[types.CredentialIndex]map[types.KeyIndex]Key{
		0: {0: key},
	})
}

func (k AccountKeys) Count() int {
	n := 0
	for _, credKeys := range k.keys {
		n += len(credKeys)
	}
	return n
}

// Credentials returns the held credential indexes in ascending order.
func (k AccountKeys) Credentials() []types.CredentialIndex {
	return slices.Sorted(maps.Keys(k.keys))
}

// Key returns the key at the given position.
func (k AccountKeys) Key(cred types.CredentialIndex, key types.KeyIndex) (Key, bool) {
	credKeys, ok := k.keys[cred]
	if !ok {
		return nil, false
	}
	v, ok := credKeys[key]
	return v, ok
}

// Only restricts the keys to a single credential.
func (k AccountKeys) Only(cred types.CredentialIndex) (AccountKeys, bool) {
	credKeys, ok := k.keys[cred]
	if !ok {
		return AccountKeys{}, false
	}
	return NewAccountKeys(map[types.CredentialIndex]map[types.KeyIndex]Key{
		cred: credKeys,
	}), true
}

// Sign signs msg with every key. The first failure aborts signing.
func (k AccountKeys) Sign(msg []byte) (Signatures, error) {
	sigs := make(Signatures, len(k.keys))
	for cred, credKeys := range k.keys {
		credSigs := make(transaction.CredentialSignatures, len(credKeys))
		for idx, key := range credKeys {
			sig, err := key.Sign(msg)
			if err != nil {
				return nil, &KeyError{cred, idx, err}
			}
			credSigs[idx] = sig
		}
		sigs[cred] = credSigs
	}
	return sigs, nil
}
