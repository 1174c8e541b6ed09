package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/ccd-network/ccdkit/pkg/circuitbreaker"
	"github.com/ccd-network/ccdkit/pkg/signer"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/ccd-network/ccdkit/pkg/wallet"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type AccountService interface {
	// ImportAccounts stores every account of a wallet export, encrypting
	// the keys with passphrase. Accounts already stored are skipped.
	ImportAccounts(
		ctx context.Context, data []byte, passphrase string,
	) ([]domain.Account, error)
	// RecoverAccount derives the keys of an account from a mnemonic.
	RecoverAccount(
		ctx context.Context, opts RecoverAccountOpts,
	) (*domain.Account, error)
	GetAccount(ctx context.Context, ref string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	ChangePassphrase(ctx context.Context, ref, current, next string) error
	DeleteAccount(ctx context.Context, ref, passphrase string) error
	// AccountInfo queries the node for the current state of an account.
	AccountInfo(ctx context.Context, ref string) (ports.AccountInfo, error)
}

// RecoverAccountOpts is the struct given to RecoverAccount.
type RecoverAccountOpts struct {
	Name     string
	Mnemonic []string
	Network  walletseed.Network
	// Address of the account. Computing it from the seed needs pairing
	// cryptography, so it must be given.
	Address types.AccountAddress
	// Credentials are the seed indexes of the account credentials, the i-th
	// one signing for credential index i.
	Credentials []walletseed.AccountCredentialSeedIndexes
	Passphrase  string
}

func (o RecoverAccountOpts) validate() error {
	if len(o.Mnemonic) <= 0 {
		return wallet.ErrNullMnemonic
	}
	if len(o.Credentials) <= 0 {
		return ErrNullCredentials
	}
	if len(o.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	return nil
}

type accountService struct {
	repoManager ports.RepoManager
	node        ports.NodeClient
	cb          *gobreaker.CircuitBreaker
}

func NewAccountService(
	repoManager ports.RepoManager, node ports.NodeClient,
) AccountService {
	return &accountService{
		repoManager: repoManager,
		node:        node,
		cb:          circuitbreaker.NewCircuitBreaker("account-service"),
	}
}

func (s *accountService) ImportAccounts(
	ctx context.Context, data []byte, passphrase string,
) ([]domain.Account, error) {
	if len(passphrase) <= 0 {
		return nil, ErrNullPassphrase
	}
	accounts, err := signer.ParseAccounts(data)
	if err != nil {
		return nil, err
	}
	if len(accounts) <= 0 {
		return nil, ErrNoAccountsImported
	}

	repo := s.repoManager.AccountRepository()
	imported := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		keys, ok := a.Keys.(signer.AccountKeys)
		if !ok {
			return nil, fmt.Errorf("account %s: unsupported keys", a.Address)
		}
		account, err := domain.NewAccount(a.Address, "", keys, passphrase)
		if err != nil {
			return nil, err
		}
		if err := repo.AddAccount(ctx, account); err != nil {
			if errors.Is(err, domain.ErrAccountAlreadyExists) {
				log.WithField("address", account.Address).Debug("account already imported")
				continue
			}
			return nil, err
		}
		imported = append(imported, *account)
	}

	log.Infof("imported %d/%d accounts", len(imported), len(accounts))
	return imported, nil
}

func (s *accountService) RecoverAccount(
	ctx context.Context, opts RecoverAccountOpts,
) (*domain.Account, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: opts.Mnemonic,
		Network:  opts.Network,
	})
	if err != nil {
		return nil, err
	}
	seed, err := w.WalletSeed(nil)
	if err != nil {
		return nil, err
	}
	keys, err := walletseed.NewAccountDerivation(seed, nil).DeriveKeys(opts.Credentials)
	if err != nil {
		return nil, err
	}

	account, err := domain.NewAccount(opts.Address, opts.Name, keys, opts.Passphrase)
	if err != nil {
		return nil, err
	}
	if err := s.repoManager.AccountRepository().AddAccount(ctx, account); err != nil {
		return nil, err
	}

	log.WithField("address", account.Address).Info("recovered account")
	return account, nil
}

func (s *accountService) GetAccount(
	ctx context.Context, ref string,
) (*domain.Account, error) {
	return getAccount(ctx, s.repoManager.AccountRepository(), ref)
}

func (s *accountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.repoManager.AccountRepository().ListAccounts(ctx)
}

func (s *accountService) ChangePassphrase(
	ctx context.Context, ref, current, next string,
) error {
	account, err := s.GetAccount(ctx, ref)
	if err != nil {
		return err
	}
	return s.repoManager.AccountRepository().UpdateAccount(
		ctx, account.Address,
		func(a *domain.Account) (*domain.Account, error) {
			if err := a.ChangePassphrase(current, next); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

func (s *accountService) DeleteAccount(
	ctx context.Context, ref, passphrase string,
) error {
	account, err := s.GetAccount(ctx, ref)
	if err != nil {
		return err
	}
	if !account.IsValidPassphrase(passphrase) {
		return domain.ErrInvalidPassphrase
	}
	return s.repoManager.AccountRepository().DeleteAccount(ctx, account.Address)
}

func (s *accountService) AccountInfo(
	ctx context.Context, ref string,
) (ports.AccountInfo, error) {
	addr, err := s.resolveAddress(ctx, ref)
	if err != nil {
		return ports.AccountInfo{}, err
	}

	iInfo, err := s.cb.Execute(func() (interface{}, error) {
		return s.node.AccountInfo(ctx, addr, ports.LastFinalBlock)
	})
	if err != nil {
		return ports.AccountInfo{}, breakerError(err)
	}
	return iInfo.(ports.AccountInfo), nil
}

// resolveAddress accepts accounts that are not stored when ref is an
// address.
func (s *accountService) resolveAddress(
	ctx context.Context, ref string,
) (types.AccountAddress, error) {
	if addr, err := types.AccountAddressFromBase58(ref); err == nil {
		return addr, nil
	}
	account, err := s.GetAccount(ctx, ref)
	if err != nil {
		return types.AccountAddress{}, err
	}
	return account.AccountAddress()
}

// getAccount selects an account by base58 address first, then by name.
func getAccount(
	ctx context.Context, repo domain.AccountRepository, ref string,
) (*domain.Account, error) {
	if len(ref) <= 0 {
		return nil, ErrNullAccountRef
	}
	account, err := repo.GetAccount(ctx, ref)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}
	return repo.GetAccountByName(ctx, ref)
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrServiceUnavailable
	}
	return err
}
