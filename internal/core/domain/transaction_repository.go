package domain

import "context"

// TransactionRepository is the abstraction for any kind of database intended
// to persist Transactions.
type TransactionRepository interface {
	// AddTransaction adds a new transaction, failing with
	// ErrTransactionAlreadyExists if its hash is already stored.
	AddTransaction(ctx context.Context, tx *Transaction) error
	// GetTransaction returns the transaction with the given hex hash.
	GetTransaction(ctx context.Context, hash string) (*Transaction, error)
	// UpdateTransaction updates the status of a transaction through the
	// given closure.
	UpdateTransaction(
		ctx context.Context,
		hash string, updateFn func(t *Transaction) (*Transaction, error),
	) error
	// ListTransactionsForSender returns the transactions sent from the given
	// account, latest first.
	ListTransactionsForSender(
		ctx context.Context, sender string, page *Page,
	) ([]Transaction, error)
	// ListPendingTransactions returns all transactions not finalized yet.
	ListPendingTransactions(ctx context.Context) ([]Transaction, error)
	// ListAllTransactions returns all transactions, latest first.
	ListAllTransactions(ctx context.Context, page *Page) ([]Transaction, error)
}
