package domain

import "context"

// AccountRepository is the abstraction for any kind of database intended to
// persist Accounts.
type AccountRepository interface {
	// AddAccount adds a new account, failing with ErrAccountAlreadyExists if
	// one with the same address is already stored.
	AddAccount(ctx context.Context, account *Account) error
	// GetAccount returns the account with the given base58 address.
	GetAccount(ctx context.Context, address string) (*Account, error)
	// GetAccountByName returns the first account with the given name.
	GetAccountByName(ctx context.Context, name string) (*Account, error)
	// ListAccounts returns all accounts sorted by creation time.
	ListAccounts(ctx context.Context) ([]Account, error)
	// UpdateAccount updates the state of an account. The closure function
	// let's to commit multiple changes to an account in a transactional way.
	UpdateAccount(
		ctx context.Context,
		address string, updateFn func(a *Account) (*Account, error),
	) error
	// DeleteAccount removes an account from the repository.
	DeleteAccount(ctx context.Context, address string) error
}
