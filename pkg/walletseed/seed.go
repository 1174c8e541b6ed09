package walletseed

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrEmptySeed ...
	ErrEmptySeed = errors.New("seed must not be empty")
	// ErrInvalidSeedHex ...
	ErrInvalidSeedHex = errors.New("seed is not a valid hex string")
	// ErrNullOracle ...
	ErrNullOracle = errors.New("oracle must not be null")
	// ErrInvalidNetwork ...
	ErrInvalidNetwork = errors.New("network must be either mainnet or testnet")
	// ErrNoCredentials ...
	ErrNoCredentials = errors.New("at least one credential is required")
)

// WalletSeed derives key material from a seed by forwarding indexes, the
// seed and the network to an Oracle.
type WalletSeed struct {
	seed    []byte
	network Network
	oracle  Oracle
}

// NewWalletSeed returns a WalletSeed owning a copy of seed.
func NewWalletSeed(seed []byte, net Network, oracle Oracle) (*WalletSeed, error) {
	if len(seed) == 0 {
		return nil, ErrEmptySeed
	}
	if !net.valid() {
		return nil, ErrInvalidNetwork
	}
	if oracle == nil {
		return nil, ErrNullOracle
	}
	return &WalletSeed{bytes.Clone(seed), net, oracle}, nil
}

// NewWalletSeedFromHex decodes a hex encoded seed.
func NewWalletSeedFromHex(seedHex string, net Network, oracle Oracle) (*WalletSeed, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeedHex, err)
	}
	return NewWalletSeed(seed, net, oracle)
}

func (s *WalletSeed) Network() Network {
	return s.network
}

func (s *WalletSeed) CredSec(idx IdentitySeedIndexes) ([]byte, error) {
	return derive("identity credential secret")(s.oracle.CredSec(s.seed, s.network, idx))
}

func (s *WalletSeed) PrfKey(idx IdentitySeedIndexes) ([]byte, error) {
	return derive("identity prf key")(s.oracle.PrfKey(s.seed, s.network, idx))
}

func (s *WalletSeed) SignatureBlindingRandomness(idx IdentitySeedIndexes) ([]byte, error) {
	return derive("signature blinding randomness")(
		s.oracle.SignatureBlindingRandomness(s.seed, s.network, idx),
	)
}

func (s *WalletSeed) SigningKey(idx AccountCredentialSeedIndexes) ([]byte, error) {
	return derive("account signing key")(s.oracle.SigningKey(s.seed, s.network, idx))
}

func (s *WalletSeed) PublicKey(idx AccountCredentialSeedIndexes) ([]byte, error) {
	return derive("account public key")(s.oracle.PublicKey(s.seed, s.network, idx))
}

// ID derives the credential registration id of a credential.
func (s *WalletSeed) ID(idx AccountCredentialSeedIndexes, commitmentKey []byte) ([]byte, error) {
	return derive("credential id")(
		s.oracle.CredentialID(s.seed, s.network, idx, commitmentKey),
	)
}

func (s *WalletSeed) AttributeCommitmentRandomness(
	idx AccountCredentialSeedIndexes, attribute uint8,
) ([]byte, error) {
	return derive("attribute commitment randomness")(
		s.oracle.AttributeCommitmentRandomness(s.seed, s.network, idx, attribute),
	)
}

func (s *WalletSeed) VerifiableCredentialSigningKey(
	idx VerifiableCredentialSeedIndexes,
) ([]byte, error) {
	return derive("verifiable credential signing key")(
		s.oracle.VerifiableCredentialSigningKey(s.seed, s.network, idx),
	)
}

func (s *WalletSeed) VerifiableCredentialPublicKey(
	idx VerifiableCredentialSeedIndexes,
) ([]byte, error) {
	return derive("verifiable credential public key")(
		s.oracle.VerifiableCredentialPublicKey(s.seed, s.network, idx),
	)
}

func (s *WalletSeed) VerifiableCredentialBackupEncryptionKey() ([]byte, error) {
	return derive("verifiable credential backup encryption key")(
		s.oracle.VerifiableCredentialBackupEncryptionKey(s.seed, s.network),
	)
}

func (s *WalletSeed) CredSecHex(idx IdentitySeedIndexes) (string, error) {
	return toHex(s.CredSec(idx))
}

func (s *WalletSeed) PrfKeyHex(idx IdentitySeedIndexes) (string, error) {
	return toHex(s.PrfKey(idx))
}

func (s *WalletSeed) SignatureBlindingRandomnessHex(idx IdentitySeedIndexes) (string, error) {
	return toHex(s.SignatureBlindingRandomness(idx))
}

func (s *WalletSeed) SigningKeyHex(idx AccountCredentialSeedIndexes) (string, error) {
	return toHex(s.SigningKey(idx))
}

func (s *WalletSeed) PublicKeyHex(idx AccountCredentialSeedIndexes) (string, error) {
	return toHex(s.PublicKey(idx))
}

func (s *WalletSeed) IDHex(idx AccountCredentialSeedIndexes, commitmentKey []byte) (string, error) {
	return toHex(s.ID(idx, commitmentKey))
}

func (s *WalletSeed) AttributeCommitmentRandomnessHex(
	idx AccountCredentialSeedIndexes, attribute uint8,
) (string, error) {
	return toHex(s.AttributeCommitmentRandomness(idx, attribute))
}

func (s *WalletSeed) VerifiableCredentialSigningKeyHex(
	idx VerifiableCredentialSeedIndexes,
) (string, error) {
	return toHex(s.VerifiableCredentialSigningKey(idx))
}

func (s *WalletSeed) VerifiableCredentialPublicKeyHex(
	idx VerifiableCredentialSeedIndexes,
) (string, error) {
	return toHex(s.VerifiableCredentialPublicKey(idx))
}

func (s *WalletSeed) VerifiableCredentialBackupEncryptionKeyHex() (string, error) {
	return toHex(s.VerifiableCredentialBackupEncryptionKey())
}

func derive(what string) func([]byte, error) ([]byte, error) {
	return func(b []byte, err error) ([]byte, error) {
		if err != nil {
			return nil, fmt.Errorf("failed to derive %s: %w", what, err)
		}
		return b, nil
	}
}

func toHex(b []byte, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
