package inmemory

import (
	"context"
	"sync"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/internal/core/ports"
)

type repoManager struct {
	// locker serializes RunTransaction handlers.
	locker sync.Mutex

	accountRepository     domain.AccountRepository
	transactionRepository domain.TransactionRepository
}

func NewRepoManager() ports.RepoManager {
	return &repoManager{
		accountRepository:     NewAccountRepositoryImpl(),
		transactionRepository: NewTransactionRepositoryImpl(),
	}
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) TransactionRepository() domain.TransactionRepository {
	return r.transactionRepository
}

// RunTransaction runs handler exclusively. Changes made before a failure are
// not rolled back.
func (r *repoManager) RunTransaction(
	ctx context.Context,
	_ bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	if ctx.Value(txKey{}) != nil {
		return handler(ctx)
	}

	r.locker.Lock()
	defer r.locker.Unlock()

	return handler(context.WithValue(ctx, txKey{}, true))
}

func (r *repoManager) Close() {}

type txKey struct{}
