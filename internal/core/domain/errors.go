package domain

import "errors"

var (
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountAlreadyExists ...
	ErrAccountAlreadyExists = errors.New("account already exists")
	// ErrNullAddressOrPassphrase ...
	ErrNullAddressOrPassphrase = errors.New("address and/or passphrase must not be null")
	// ErrInvalidPassphrase ...
	ErrInvalidPassphrase = errors.New("passphrase is not valid")
	// ErrSequenceNumberNotIncreasing is returned when recording a sequence
	// number lower than the last one used by the account.
	ErrSequenceNumberNotIncreasing = errors.New("sequence number must be greater than the last used one")
	// ErrTransactionNotFound ...
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrTransactionAlreadyExists ...
	ErrTransactionAlreadyExists = errors.New("transaction already exists")
	// ErrTransactionFinalized is returned when trying to move a finalized
	// transaction to another status.
	ErrTransactionFinalized = errors.New("transaction is already finalized")
	// ErrNullTransactionHash ...
	ErrNullTransactionHash = errors.New("transaction hash must not be null")
	// ErrNullBlockHash ...
	ErrNullBlockHash = errors.New("block hash must not be null")
)
