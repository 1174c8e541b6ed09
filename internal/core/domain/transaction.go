package domain

import (
	"fmt"
	"time"
)

type TransactionStatus int

const (
	// TransactionStatusSubmitted is the status of a transaction accepted by
	// the node but not yet reported by any status query.
	TransactionStatusSubmitted TransactionStatus = iota
	TransactionStatusReceived
	TransactionStatusCommitted
	TransactionStatusFinalized
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionStatusSubmitted:
		return "submitted"
	case TransactionStatusReceived:
		return "received"
	case TransactionStatusCommitted:
		return "committed"
	case TransactionStatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("TransactionStatus(%d)", int(s))
	}
}

// Outcome is the result of executing a transaction in a block.
type Outcome struct {
	BlockHash  string
	EnergyCost uint64
	Cost       uint64
	Rejected   bool
}

// Transaction is the record of a block item sent through this service.
type Transaction struct {
	Hash           string
	Sender         string
	SequenceNumber uint64
	Type           string
	EnergyAmount   uint64
	Expiry         int64
	Status         TransactionStatus
	// Outcomes holds the result in every block the transaction is committed
	// to. Once finalized it holds exactly the finalized one.
	Outcomes    []Outcome
	SubmittedAt int64
	UpdatedAt   int64
}

// NewTransaction returns a record for a freshly submitted transaction.
func NewTransaction(
	hash, sender string, seq uint64, txType string,
	energy uint64, expiry int64,
) (*Transaction, error) {
	if len(hash) <= 0 {
		return nil, ErrNullTransactionHash
	}
	now := time.Now().Unix()
	return &Transaction{
		Hash:           hash,
		Sender:         sender,
		SequenceNumber: seq,
		Type:           txType,
		EnergyAmount:   energy,
		Expiry:         expiry,
		Status:         TransactionStatusSubmitted,
		SubmittedAt:    now,
		UpdatedAt:      now,
	}, nil
}

func (t *Transaction) IsFinalized() bool {
	return t.Status == TransactionStatusFinalized
}

// IsExpired reports whether the transaction can no longer be included in a
// block. Committed transactions never expire.
func (t *Transaction) IsExpired(now time.Time) bool {
	if t.Status >= TransactionStatusCommitted {
		return false
	}
	return t.Expiry > 0 && now.Unix() > t.Expiry
}

// FinalizedOutcome returns the outcome of a finalized transaction.
func (t *Transaction) FinalizedOutcome() (Outcome, bool) {
	if !t.IsFinalized() || len(t.Outcomes) != 1 {
		return Outcome{}, false
	}
	return t.Outcomes[0], true
}

func (t *Transaction) Receive() error {
	if t.IsFinalized() {
		return ErrTransactionFinalized
	}
	t.Status = TransactionStatusReceived
	t.Outcomes = nil
	t.touch()
	return nil
}

// Commit records the outcomes of the blocks the transaction is part of.
func (t *Transaction) Commit(outcomes []Outcome) error {
	if t.IsFinalized() {
		return ErrTransactionFinalized
	}
	for _, o := range outcomes {
		if len(o.BlockHash) <= 0 {
			return ErrNullBlockHash
		}
	}
	t.Status = TransactionStatusCommitted
	t.Outcomes = append([]Outcome(nil), outcomes...)
	t.touch()
	return nil
}

func (t *Transaction) Finalize(outcome Outcome) error {
	if t.IsFinalized() {
		return ErrTransactionFinalized
	}
	if len(outcome.BlockHash) <= 0 {
		return ErrNullBlockHash
	}
	t.Status = TransactionStatusFinalized
	t.Outcomes = []Outcome{outcome}
	t.touch()
	return nil
}

func (t *Transaction) touch() {
	t.UpdatedAt = time.Now().Unix()
}
