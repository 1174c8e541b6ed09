package domain_test

import (
	"testing"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/stretchr/testify/require"
)

const (
	txHash    = "b9f3c4a2d8e1f06a7c5b3e9d2f41a8c6e07b5d3f9a1c2e4b6d8f0a2c4e6b8d0f"
	blockHash = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"
)

func newTestTransaction(t *testing.T) *domain.Transaction {
	tx, err := domain.NewTransaction(txHash, "sender", 7, "transfer", 501, 100)
	require.NoError(t, err)
	return tx
}

func TestNewTransaction(t *testing.T) {
	tx := newTestTransaction(t)

	require.Equal(t, domain.TransactionStatusSubmitted, tx.Status)
	require.Equal(t, uint64(7), tx.SequenceNumber)
	require.Empty(t, tx.Outcomes)
	require.NotZero(t, tx.SubmittedAt)

	_, err := domain.NewTransaction("", "sender", 1, "transfer", 1, 1)
	require.ErrorIs(t, err, domain.ErrNullTransactionHash)
}

func TestTransactionLifecycle(t *testing.T) {
	t.Run("received", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.Receive())
		require.Equal(t, domain.TransactionStatusReceived, tx.Status)
	})

	t.Run("committed to many blocks", func(t *testing.T) {
		tx := newTestTransaction(t)
		outcomes := []domain.Outcome{
			{BlockHash: blockHash, EnergyCost: 501},
			{BlockHash: txHash, EnergyCost: 501},
		}
		require.NoError(t, tx.Commit(outcomes))
		require.Equal(t, domain.TransactionStatusCommitted, tx.Status)
		require.Len(t, tx.Outcomes, 2)

		_, ok := tx.FinalizedOutcome()
		require.False(t, ok)
	})

	t.Run("finalized", func(t *testing.T) {
		tx := newTestTransaction(t)
		require.NoError(t, tx.Receive())
		require.NoError(t, tx.Finalize(domain.Outcome{BlockHash: blockHash, Cost: 12}))
		require.True(t, tx.IsFinalized())

		outcome, ok := tx.FinalizedOutcome()
		require.True(t, ok)
		require.Equal(t, uint64(12), outcome.Cost)
	})
}

func TestFailingTransactionLifecycle(t *testing.T) {
	tests := []struct {
		name          string
		apply         func(tx *domain.Transaction) error
		expectedError error
	}{
		{
			name: "commit without block hash",
			apply: func(tx *domain.Transaction) error {
				return tx.Commit([]domain.Outcome{{}})
			},
			expectedError: domain.ErrNullBlockHash,
		},
		{
			name: "finalize without block hash",
			apply: func(tx *domain.Transaction) error {
				return tx.Finalize(domain.Outcome{})
			},
			expectedError: domain.ErrNullBlockHash,
		},
		{
			name: "receive after finalization",
			apply: func(tx *domain.Transaction) error {
				if err := tx.Finalize(domain.Outcome{BlockHash: blockHash}); err != nil {
					return err
				}
				return tx.Receive()
			},
			expectedError: domain.ErrTransactionFinalized,
		},
		{
			name: "finalize twice",
			apply: func(tx *domain.Transaction) error {
				if err := tx.Finalize(domain.Outcome{BlockHash: blockHash}); err != nil {
					return err
				}
				return tx.Finalize(domain.Outcome{BlockHash: blockHash})
			},
			expectedError: domain.ErrTransactionFinalized,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tx := newTestTransaction(t)
			require.ErrorIs(t, tt.apply(tx), tt.expectedError)
		})
	}
}

func TestTransactionIsExpired(t *testing.T) {
	tx := newTestTransaction(t)
	before := time.Unix(tx.Expiry-1, 0)
	after := time.Unix(tx.Expiry+1, 0)

	require.False(t, tx.IsExpired(before))
	require.True(t, tx.IsExpired(after))

	require.NoError(t, tx.Commit([]domain.Outcome{{BlockHash: blockHash}}))
	require.False(t, tx.IsExpired(after))
}

func TestNewPage(t *testing.T) {
	tests := []struct {
		number, size   int
		expectedPage   domain.Page
		expectedOffset int
	}{
		{0, 0, domain.Page{Number: 1, Size: 10}, 0},
		{3, 5, domain.Page{Number: 3, Size: 5}, 10},
		{-1, 20, domain.Page{Number: 1, Size: 20}, 0},
	}

	for _, tt := range tests {
		page := domain.NewPage(tt.number, tt.size)
		require.Equal(t, tt.expectedPage, page)
		require.Equal(t, tt.expectedOffset, page.Offset())
	}
}
