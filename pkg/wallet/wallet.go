package wallet

import (
	"bytes"
	"errors"

	"github.com/ccd-network/ccdkit/pkg/walletseed"
)

var (
	// ErrNullMnemonic ...
	ErrNullMnemonic = errors.New("mnemonic is null")
	// ErrInvalidMnemonic ...
	ErrInvalidMnemonic = errors.New("mnemonic is invalid")
	// ErrNullSeed ...
	ErrNullSeed = errors.New("seed is null")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullPlainText ...
	ErrNullPlainText = errors.New("text to encrypt must not be null")
	// ErrNullCypherText ...
	ErrNullCypherText = errors.New("cypher to decrypt must not be null")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")

	// ErrInvalidEntropySize ...
	ErrInvalidEntropySize = errors.New(
		"entropy size must be a multiple of 32 in the range [128,256]",
	)
	// ErrInvalidCypherText ...
	ErrInvalidCypherText = errors.New("cypher must be in base64 format")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New(
		"path must not start or end with a '/' and " +
			"can optionally start with 'm/' for absolute paths",
	)
	// ErrNonHardenedDerivation ...
	ErrNonHardenedDerivation = errors.New(
		"ed25519 derivation is only defined for hardened path elements",
	)
	// ErrUnsupportedDerivation ...
	ErrUnsupportedDerivation = errors.New(
		"derivation requires pairing cryptography not available in this oracle",
	)
)

// Wallet holds a BIP39 mnemonic and the seed it stretches into. Everything a
// Concordium wallet owns is derived from that seed.
type Wallet struct {
	mnemonic []string
	seed     []byte
	network  walletseed.Network
}

// NewWalletOpts is the struct given to the NewWallet method
type NewWalletOpts struct {
	EntropySize int
	Network     walletseed.Network
}

func (o NewWalletOpts) validate() error {
	return NewMnemonicOpts{o.EntropySize}.validate()
}

// NewWallet creates a wallet from a freshly generated mnemonic.
func NewWallet(opts NewWalletOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	mnemonic, err := NewMnemonic(NewMnemonicOpts{opts.EntropySize})
	if err != nil {
		return nil, err
	}
	return &Wallet{
		mnemonic: mnemonic,
		seed:     generateSeedFromMnemonic(mnemonic),
		network:  opts.Network,
	}, nil
}

// NewWalletFromMnemonicOpts is the struct given to the NewWalletFromMnemonic
// method
type NewWalletFromMnemonicOpts struct {
	Mnemonic []string
	Network  walletseed.Network
}

func (o NewWalletFromMnemonicOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if !isMnemonicValid(o.Mnemonic) {
		return ErrInvalidMnemonic
	}
	return nil
}

// NewWalletFromMnemonic restores a wallet. No BIP39 passphrase is used,
// matching the wallets in circulation.
func NewWalletFromMnemonic(opts NewWalletFromMnemonicOpts) (*Wallet, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Wallet{
		mnemonic: append([]string(nil), opts.Mnemonic...),
		seed:     generateSeedFromMnemonic(opts.Mnemonic),
		network:  opts.Network,
	}, nil
}

func (w *Wallet) validate() error {
	if len(w.mnemonic) <= 0 {
		return ErrNullMnemonic
	}
	if len(w.seed) <= 0 {
		return ErrNullSeed
	}
	return nil
}

// Mnemonic is getter for the mnemonic words
func (w *Wallet) Mnemonic() ([]string, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return append([]string(nil), w.mnemonic...), nil
}

// Seed returns a copy of the 64 bytes BIP39 seed.
func (w *Wallet) Seed() ([]byte, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	return bytes.Clone(w.seed), nil
}

func (w *Wallet) Network() walletseed.Network {
	return w.network
}

// WalletSeed returns the seed wired to oracle, or to an Ed25519Oracle when
// oracle is nil.
func (w *Wallet) WalletSeed(oracle walletseed.Oracle) (*walletseed.WalletSeed, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}
	if oracle == nil {
		oracle = Ed25519Oracle{}
	}
	return walletseed.NewWalletSeed(w.seed, w.network, oracle)
}
