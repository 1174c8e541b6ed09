package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/ccd-network/ccdkit/internal/core/domain"
)

type transactionInmemoryStore struct {
	txs    map[string]domain.Transaction
	locker *sync.RWMutex
}

type TransactionRepositoryImpl struct {
	store *transactionInmemoryStore
}

// NewTransactionRepositoryImpl returns a new empty TransactionRepositoryImpl
func NewTransactionRepositoryImpl() domain.TransactionRepository {
	return &TransactionRepositoryImpl{&transactionInmemoryStore{
		txs:    map[string]domain.Transaction{},
		locker: &sync.RWMutex{},
	}}
}

func (r *TransactionRepositoryImpl) AddTransaction(
	_ context.Context, tx *domain.Transaction,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.store.txs[tx.Hash]; ok {
		return domain.ErrTransactionAlreadyExists
	}
	r.store.txs[tx.Hash] = copyTransaction(*tx)
	return nil
}

func (r *TransactionRepositoryImpl) GetTransaction(
	_ context.Context, hash string,
) (*domain.Transaction, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	tx, ok := r.store.txs[hash]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	tx = copyTransaction(tx)
	return &tx, nil
}

func (r *TransactionRepositoryImpl) UpdateTransaction(
	_ context.Context,
	hash string, updateFn func(t *domain.Transaction) (*domain.Transaction, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	tx, ok := r.store.txs[hash]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	tx = copyTransaction(tx)

	updatedTx, err := updateFn(&tx)
	if err != nil {
		return err
	}
	r.store.txs[hash] = copyTransaction(*updatedTx)
	return nil
}

func (r *TransactionRepositoryImpl) ListTransactionsForSender(
	_ context.Context, sender string, page *domain.Page,
) ([]domain.Transaction, error) {
	return r.find(func(tx domain.Transaction) bool {
		return tx.Sender == sender
	}, page), nil
}

func (r *TransactionRepositoryImpl) ListPendingTransactions(
	_ context.Context,
) ([]domain.Transaction, error) {
	return r.find(func(tx domain.Transaction) bool {
		return !tx.IsFinalized()
	}, nil), nil
}

func (r *TransactionRepositoryImpl) ListAllTransactions(
	_ context.Context, page *domain.Page,
) ([]domain.Transaction, error) {
	return r.find(func(domain.Transaction) bool { return true }, page), nil
}

func (r *TransactionRepositoryImpl) find(
	filter func(domain.Transaction) bool, page *domain.Page,
) []domain.Transaction {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	txs := make([]domain.Transaction, 0)
	for _, tx := range r.store.txs {
		if filter(tx) {
			txs = append(txs, copyTransaction(tx))
		}
	}
	// Latest first, same as the badger implementation.
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].SubmittedAt == txs[j].SubmittedAt {
			return txs[i].SequenceNumber > txs[j].SequenceNumber
		}
		return txs[i].SubmittedAt > txs[j].SubmittedAt
	})

	if page == nil {
		return txs
	}
	from := page.Offset()
	if from >= len(txs) {
		return []domain.Transaction{}
	}
	to := from + page.Size
	if to > len(txs) {
		to = len(txs)
	}
	return txs[from:to]
}

func copyTransaction(tx domain.Transaction) domain.Transaction {
	tx.Outcomes = append([]domain.Outcome(nil), tx.Outcomes...)
	return tx
}
