package wallet

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/walletseed"
)

// Ed25519Oracle implements the parts of walletseed.Oracle that are plain
// SLIP-10 ed25519 derivations along account paths. Identity secrets,
// credential ids and commitment randomness live on the BLS12-381 curve, and
// Web3 ID keys follow a derivation this oracle does not reproduce: all of
// them are reported as ErrUnsupportedDerivation. Pair the wallet with a
// full oracle for those.
type Ed25519Oracle struct{}

var _ walletseed.Oracle = Ed25519Oracle{}

func (Ed25519Oracle) CredSec(
	[]byte, walletseed.Network, walletseed.IdentitySeedIndexes,
) ([]byte, error) {
	return nil, unsupported("identity credential secret")
}

func (Ed25519Oracle) PrfKey(
	[]byte, walletseed.Network, walletseed.IdentitySeedIndexes,
) ([]byte, error) {
	return nil, unsupported("prf key")
}

func (Ed25519Oracle) SignatureBlindingRandomness(
	[]byte, walletseed.Network, walletseed.IdentitySeedIndexes,
) ([]byte, error) {
	return nil, unsupported("signature blinding randomness")
}

func (Ed25519Oracle) SigningKey(
	seed []byte, net walletseed.Network, idx walletseed.AccountCredentialSeedIndexes,
) ([]byte, error) {
	node, err := DeriveKey(seed, AccountSigningKeyPath(net, idx))
	if err != nil {
		return nil, err
	}
	return node.Key, nil
}

func (Ed25519Oracle) PublicKey(
	seed []byte, net walletseed.Network, idx walletseed.AccountCredentialSeedIndexes,
) ([]byte, error) {
	node, err := DeriveKey(seed, AccountSigningKeyPath(net, idx))
	if err != nil {
		return nil, err
	}
	return node.PublicKey(), nil
}

func (Ed25519Oracle) CredentialID(
	[]byte, walletseed.Network, walletseed.AccountCredentialSeedIndexes, []byte,
) ([]byte, error) {
	return nil, unsupported("credential id")
}

func (Ed25519Oracle) AttributeCommitmentRandomness(
	[]byte, walletseed.Network, walletseed.AccountCredentialSeedIndexes, uint8,
) ([]byte, error) {
	return nil, unsupported("attribute commitment randomness")
}

func (Ed25519Oracle) VerifiableCredentialSigningKey(
	[]byte, walletseed.Network, walletseed.VerifiableCredentialSeedIndexes,
) ([]byte, error) {
	return nil, unsupported("verifiable credential signing key")
}

func (Ed25519Oracle) VerifiableCredentialPublicKey(
	[]byte, walletseed.Network, walletseed.VerifiableCredentialSeedIndexes,
) ([]byte, error) {
	return nil, unsupported("verifiable credential public key")
}

func (Ed25519Oracle) VerifiableCredentialBackupEncryptionKey(
	seed []byte, net walletseed.Network,
) ([]byte, error) {
	node, err := DeriveKey(seed, BackupEncryptionPath(net))
	if err != nil {
		return nil, err
	}
	return node.Key, nil
}

func unsupported(what string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedDerivation, what)
}
