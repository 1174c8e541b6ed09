package application

import (
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
)

// SendRequest is the struct given to Send.
type SendRequest struct {
	// Account is the address or the name of a stored account.
	Account    string
	Passphrase string
	// Transaction is signed on behalf of Account. Its sender is set to the
	// account address when left empty.
	Transaction transaction.AccountTransaction
}

func (r SendRequest) validate() error {
	if len(r.Account) <= 0 {
		return ErrNullAccountRef
	}
	if len(r.Passphrase) <= 0 {
		return ErrNullPassphrase
	}
	if r.Transaction.Payload == nil {
		return ErrNullPayload
	}
	return nil
}

// SignOfflineRequest is the struct given to SignOffline.
type SignOfflineRequest struct {
	SendRequest
	// SequenceNumber is queried from the node when zero.
	SequenceNumber types.SequenceNumber
	// Expiry defaults to the configured transaction expiry from now.
	Expiry types.TransactionTime
}
