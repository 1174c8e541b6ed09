package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ccd-network/ccdkit/pkg/signer"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/ccd-network/ccdkit/pkg/wallet"
)

// Account is a chain account whose signing keys are stored encrypted with a
// passphrase.
type Account struct {
	Address        string
	Name           string
	EncryptedKeys  string
	PassphraseHash []byte
	// LastSequenceNumber is the sequence number of the last transaction sent
	// from this account, zero if none.
	LastSequenceNumber uint64
	CreatedAt          int64
}

// NewAccount encrypts the given keys with the passphrase. The account is
// locked: keys are available only through Keys.
func NewAccount(
	addr types.AccountAddress, name string,
	keys signer.AccountKeys, passphrase string,
) (*Account, error) {
	if len(passphrase) <= 0 {
		return nil, ErrNullAddressOrPassphrase
	}
	exported, err := signer.ExportAccountKeys(keys)
	if err != nil {
		return nil, err
	}
	plainText, err := json.Marshal(exported)
	if err != nil {
		return nil, err
	}
	encryptedKeys, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  string(plainText),
		Passphrase: passphrase,
	})
	if err != nil {
		return nil, err
	}

	return &Account{
		Address:        addr.String(),
		Name:           name,
		EncryptedKeys:  encryptedKeys,
		PassphraseHash: btcutil.Hash160([]byte(passphrase)),
		CreatedAt:      time.Now().Unix(),
	}, nil
}

func (a *Account) AccountAddress() (types.AccountAddress, error) {
	return types.AccountAddressFromBase58(a.Address)
}

func (a *Account) IsValidPassphrase(passphrase string) bool {
	return bytes.Equal(a.PassphraseHash, btcutil.Hash160([]byte(passphrase)))
}

// Keys decrypts the signing keys of the account.
func (a *Account) Keys(passphrase string) (signer.AccountKeys, error) {
	if !a.IsValidPassphrase(passphrase) {
		return signer.AccountKeys{}, ErrInvalidPassphrase
	}
	plainText, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: a.EncryptedKeys,
		Passphrase: passphrase,
	})
	if err != nil {
		return signer.AccountKeys{}, err
	}

	var exported signer.AccountKeysJSON
	if err := json.Unmarshal([]byte(plainText), &exported); err != nil {
		return signer.AccountKeys{}, err
	}
	return exported.AccountKeys()
}

// ChangePassphrase re-encrypts the keys with a new passphrase.
func (a *Account) ChangePassphrase(current, next string) error {
	if len(next) <= 0 {
		return ErrNullAddressOrPassphrase
	}
	if !a.IsValidPassphrase(current) {
		return ErrInvalidPassphrase
	}
	plainText, err := wallet.Decrypt(wallet.DecryptOpts{
		CypherText: a.EncryptedKeys,
		Passphrase: current,
	})
	if err != nil {
		return err
	}
	encryptedKeys, err := wallet.Encrypt(wallet.EncryptOpts{
		PlainText:  plainText,
		Passphrase: next,
	})
	if err != nil {
		return err
	}

	a.EncryptedKeys = encryptedKeys
	a.PassphraseHash = btcutil.Hash160([]byte(next))
	return nil
}

// UseSequenceNumber records that a transaction with the given sequence
// number was sent from the account.
func (a *Account) UseSequenceNumber(seq types.SequenceNumber) error {
	if uint64(seq) <= a.LastSequenceNumber {
		return ErrSequenceNumberNotIncreasing
	}
	a.LastSequenceNumber = uint64(seq)
	return nil
}
