package ports

import (
	"context"

	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
)

// NodeClient is the contract a chain node must satisfy for transactions to
// be prepared, submitted and tracked.
type NodeClient interface {
	// NextAccountSequenceNumber returns the sequence number to use for the
	// next transaction of the given account.
	NextAccountSequenceNumber(
		ctx context.Context, addr types.AccountAddress,
	) (NextSequenceNumber, error)
	// SendAccountTransaction submits a signed account transaction and returns
	// the hash the node assigned to it.
	SendAccountTransaction(
		ctx context.Context, tx transaction.Signed,
	) (types.TransactionHash, error)
	// SendCredentialDeployment submits a serialized credential deployment
	// that expires at the given time.
	SendCredentialDeployment(
		ctx context.Context, expiry types.TransactionTime, deployment []byte,
	) (types.TransactionHash, error)
	// TransactionStatus returns where the given transaction is in its
	// lifecycle.
	TransactionStatus(
		ctx context.Context, hash types.TransactionHash,
	) (TransactionStatus, error)
	CryptographicParameters(
		ctx context.Context, block BlockIdentifier,
	) (CryptographicParameters, error)
	AccountInfo(
		ctx context.Context, addr types.AccountAddress, block BlockIdentifier,
	) (AccountInfo, error)
	Close() error
}
