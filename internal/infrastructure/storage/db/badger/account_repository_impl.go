package dbbadger

import (
	"context"
	"errors"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type accountRepositoryImpl struct {
	store *badgerhold.Store
}

func newAccountRepositoryImpl(store *badgerhold.Store) domain.AccountRepository {
	return accountRepositoryImpl{store}
}

func (r accountRepositoryImpl) AddAccount(
	ctx context.Context, account *domain.Account,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxInsert(tx, account.Address, *account)
	} else {
		err = r.store.Insert(account.Address, *account)
	}
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return domain.ErrAccountAlreadyExists
	}
	return err
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	return r.getAccount(ctx, address)
}

func (r accountRepositoryImpl) GetAccountByName(
	ctx context.Context, name string,
) (*domain.Account, error) {
	query := badgerhold.Where("Name").Eq(name)
	accounts, err := r.findAccounts(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(accounts) <= 0 {
		return nil, domain.ErrAccountNotFound
	}
	return &accounts[0], nil
}

func (r accountRepositoryImpl) ListAccounts(
	ctx context.Context,
) ([]domain.Account, error) {
	return r.findAccounts(ctx, &badgerhold.Query{})
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	account, err := r.getAccount(ctx, address)
	if err != nil {
		return err
	}

	updatedAccount, err := updateFn(account)
	if err != nil {
		return err
	}

	if tx := txFromContext(ctx); tx != nil {
		return r.store.TxUpdate(tx, address, *updatedAccount)
	}
	return r.store.Update(address, *updatedAccount)
}

func (r accountRepositoryImpl) DeleteAccount(
	ctx context.Context, address string,
) error {
	var err error
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxDelete(tx, address, domain.Account{})
	} else {
		err = r.store.Delete(address, domain.Account{})
	}
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.ErrAccountNotFound
	}
	return err
}

func (r accountRepositoryImpl) getAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	var (
		account domain.Account
		err     error
	)
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxGet(tx, address, &account)
	} else {
		err = r.store.Get(address, &account)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r accountRepositoryImpl) findAccounts(
	ctx context.Context, query *badgerhold.Query,
) ([]domain.Account, error) {
	var (
		accounts []domain.Account
		err      error
	)
	query.SortBy("CreatedAt", "Address")
	if tx := txFromContext(ctx); tx != nil {
		err = r.store.TxFind(tx, &accounts, query)
	} else {
		err = r.store.Find(&accounts, query)
	}
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
