package dbbadger

import (
	"context"
	"errors"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type transactionRepositoryImpl struct {
	store *badgerhold.Store
}

func newTransactionRepositoryImpl(store *badgerhold.Store) domain.TransactionRepository {
	return transactionRepositoryImpl{store}
}

func (r transactionRepositoryImpl) AddTransaction(
	ctx context.Context, tx *domain.Transaction,
) error {
	var err error
	if dbTx := txFromContext(ctx); dbTx != nil {
		err = r.store.TxInsert(dbTx, tx.Hash, *tx)
	} else {
		err = r.store.Insert(tx.Hash, *tx)
	}
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return domain.ErrTransactionAlreadyExists
	}
	return err
}

func (r transactionRepositoryImpl) GetTransaction(
	ctx context.Context, hash string,
) (*domain.Transaction, error) {
	return r.getTransaction(ctx, hash)
}

func (r transactionRepositoryImpl) UpdateTransaction(
	ctx context.Context,
	hash string, updateFn func(t *domain.Transaction) (*domain.Transaction, error),
) error {
	tx, err := r.getTransaction(ctx, hash)
	if err != nil {
		return err
	}

	updatedTx, err := updateFn(tx)
	if err != nil {
		return err
	}

	if dbTx := txFromContext(ctx); dbTx != nil {
		return r.store.TxUpdate(dbTx, hash, *updatedTx)
	}
	return r.store.Update(hash, *updatedTx)
}

func (r transactionRepositoryImpl) ListTransactionsForSender(
	ctx context.Context, sender string, page *domain.Page,
) ([]domain.Transaction, error) {
	query := badgerhold.Where("Sender").Eq(sender)
	return r.findTransactions(ctx, query, page)
}

func (r transactionRepositoryImpl) ListPendingTransactions(
	ctx context.Context,
) ([]domain.Transaction, error) {
	query := badgerhold.Where("Status").Ne(domain.TransactionStatusFinalized)
	return r.findTransactions(ctx, query, nil)
}

func (r transactionRepositoryImpl) ListAllTransactions(
	ctx context.Context, page *domain.Page,
) ([]domain.Transaction, error) {
	return r.findTransactions(ctx, &badgerhold.Query{}, page)
}

func (r transactionRepositoryImpl) getTransaction(
	ctx context.Context, hash string,
) (*domain.Transaction, error) {
	var (
		tx  domain.Transaction
		err error
	)
	if dbTx := txFromContext(ctx); dbTx != nil {
		err = r.store.TxGet(dbTx, hash, &tx)
	} else {
		err = r.store.Get(hash, &tx)
	}
	if err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r transactionRepositoryImpl) findTransactions(
	ctx context.Context, query *badgerhold.Query, page *domain.Page,
) ([]domain.Transaction, error) {
	var (
		txs []domain.Transaction
		err error
	)

	query.SortBy("SubmittedAt", "SequenceNumber").Reverse()
	if page != nil {
		query.Skip(page.Offset()).Limit(page.Size)
	}
	if dbTx := txFromContext(ctx); dbTx != nil {
		err = r.store.TxFind(dbTx, &txs, query)
	} else {
		err = r.store.Find(&txs, query)
	}
	if err != nil {
		return nil, err
	}
	return txs, nil
}
