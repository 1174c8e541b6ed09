package application

import "errors"

var (
	// ErrUnsupportedDBType ...
	ErrUnsupportedDBType = errors.New("unsupported db type")
	// ErrNullDatadir ...
	ErrNullDatadir = errors.New("datadir must not be null")
	// ErrNullNodeClient ...
	ErrNullNodeClient = errors.New("node client must not be null")
	// ErrInvalidDuration ...
	ErrInvalidDuration = errors.New("durations and rates must not be negative")
	// ErrNullPassphrase ...
	ErrNullPassphrase = errors.New("passphrase must not be null")
	// ErrNullAccountRef is returned when neither an address nor a name is
	// given to select an account.
	ErrNullAccountRef = errors.New("account address or name must not be null")
	// ErrNoAccountsImported ...
	ErrNoAccountsImported = errors.New("key file contains no accounts")
	// ErrNullPayload ...
	ErrNullPayload = errors.New("transaction payload must not be null")
	// ErrSenderMismatch is returned when a transaction names a sender other
	// than the account signing it.
	ErrSenderMismatch = errors.New("transaction sender does not match signing account")
	// ErrNullCredentials ...
	ErrNullCredentials = errors.New("at least one credential must be given")
	// ErrTransactionExpired is returned when waiting for a transaction that
	// expired before being included in a block.
	ErrTransactionExpired = errors.New("transaction expired before being committed")
	// ErrHashMismatch is returned when the node reports a hash that differs
	// from the one computed locally for the submitted transaction.
	ErrHashMismatch = errors.New("node returned an unexpected transaction hash")
	// ErrServiceUnavailable is returned when the circuit breaker towards the
	// node is open.
	ErrServiceUnavailable = errors.New("node is unavailable, try again later")
)
