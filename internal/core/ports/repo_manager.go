package ports

import (
	"context"

	"github.com/ccd-network/ccdkit/internal/core/domain"
)

// RepoManager gives access to every repository backed by the same store.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	TransactionRepository() domain.TransactionRepository
	// RunTransaction runs handler within a db transaction that is committed
	// only if handler returns no error.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)
	Close()
}
