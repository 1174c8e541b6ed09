package walletseed

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/signer"
	"github.com/ccd-network/ccdkit/pkg/types"
	"golang.org/x/sync/errgroup"
)

// AccountDerivation derives accounts made of seed based credentials.
type AccountDerivation struct {
	seed          *WalletSeed
	commitmentKey []byte
}

// NewAccountDerivation needs the on-chain commitment key of the
// cryptographic parameters to compute credential ids.
func NewAccountDerivation(seed *WalletSeed, commitmentKey []byte) *AccountDerivation {
	return &AccountDerivation{seed, bytes.Clone(commitmentKey)}
}

// DeriveAccountAddress returns the address of the account created by its
// first credential.
func (d *AccountDerivation) DeriveAccountAddress(
	first AccountCredentialSeedIndexes,
) (types.AccountAddress, error) {
	id, err := d.seed.ID(first, d.commitmentKey)
	if err != nil {
		return types.AccountAddress{}, err
	}
	return types.AccountAddress(sha256.Sum256(id)), nil
}

// DeriveKeys maps the i-th credential to credential index i holding a single
// key with index 0.
func (d *AccountDerivation) DeriveKeys(
	creds []AccountCredentialSeedIndexes,
) (signer.AccountKeys, error) {
	if len(creds) > 256 {
		return signer.AccountKeys{}, fmt.Errorf(
			"an account holds at most 256 credentials, got %d", len(creds),
		)
	}

	keys := make([]signer.Key, len(creds))
	var eg errgroup.Group
	for i, cred := range creds {
		i, cred := i, cred
		eg.Go(func() error {
			raw, err := d.seed.SigningKey(cred)
			if err != nil {
				return err
			}
			key, err := signer.NewEd25519Key(raw)
			if err != nil {
				return fmt.Errorf("credential %d: %w", i, err)
			}
			keys[i] = key
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return signer.AccountKeys{}, err
	}

	byCred := make(map[types.CredentialIndex]map[types.KeyIndex]signer.Key, len(keys))
	for i, key := range keys {
		byCred[types.CredentialIndex(i)] = map[types.KeyIndex]signer.Key{0: key}
	}
	return signer.NewAccountKeys(byCred), nil
}

// DeriveAccount derives the address from the first credential and the keys
// of all of them.
func (d *AccountDerivation) DeriveAccount(
	creds []AccountCredentialSeedIndexes,
) (signer.Account, error) {
	if len(creds) == 0 {
		return signer.Account{}, ErrNoCredentials
	}
	addr, err := d.DeriveAccountAddress(creds[0])
	if err != nil {
		return signer.Account{}, err
	}
	keys, err := d.DeriveKeys(creds)
	if err != nil {
		return signer.Account{}, err
	}
	return signer.Account{Address: addr, Keys: keys}, nil
}
