package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/ccd-network/ccdkit/internal/core/domain"
)

type accountInmemoryStore struct {
	accounts map[string]domain.Account
	locker   *sync.RWMutex
}

type AccountRepositoryImpl struct {
	store *accountInmemoryStore
}

// NewAccountRepositoryImpl returns a new empty AccountRepositoryImpl
func NewAccountRepositoryImpl() domain.AccountRepository {
	return &AccountRepositoryImpl{&accountInmemoryStore{
		accounts: map[string]domain.Account{},
		locker:   &sync.RWMutex{},
	}}
}

func (r *AccountRepositoryImpl) AddAccount(
	_ context.Context, account *domain.Account,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.accounts[account.Address]; ok {
		return domain.ErrAccountAlreadyExists
	}
	r.store.accounts[account.Address] = copyAccount(*account)
	return nil
}

func (r *AccountRepositoryImpl) GetAccount(
	_ context.Context, address string,
) (*domain.Account, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	account, ok := r.store.accounts[address]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account = copyAccount(account)
	return &account, nil
}

func (r *AccountRepositoryImpl) GetAccountByName(
	ctx context.Context, name string,
) (*domain.Account, error) {
	accounts, _ := r.ListAccounts(ctx)
	for _, account := range accounts {
		if account.Name == name {
			account := account
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *AccountRepositoryImpl) ListAccounts(
	_ context.Context,
) ([]domain.Account, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	accounts := make([]domain.Account, 0, len(r.store.accounts))
	for _, account := range r.store.accounts {
		accounts = append(accounts, copyAccount(account))
	}
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt == accounts[j].CreatedAt {
			return accounts[i].Address < accounts[j].Address
		}
		return accounts[i].CreatedAt < accounts[j].CreatedAt
	})
	return accounts, nil
}

func (r *AccountRepositoryImpl) UpdateAccount(
	_ context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	account, ok := r.store.accounts[address]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account = copyAccount(account)

	updatedAccount, err := updateFn(&account)
	if err != nil {
		return err
	}
	r.store.accounts[address] = copyAccount(*updatedAccount)
	return nil
}

func (r *AccountRepositoryImpl) DeleteAccount(
	_ context.Context, address string,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.accounts[address]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.store.accounts, address)
	return nil
}

func copyAccount(a domain.Account) domain.Account {
	a.PassphraseHash = append([]byte(nil), a.PassphraseHash...)
	return a
}
