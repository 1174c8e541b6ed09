package db_test

import (
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/internal/core/ports"
	dbbadger "github.com/ccd-network/ccdkit/internal/infrastructure/storage/db/badger"
	"github.com/ccd-network/ccdkit/internal/infrastructure/storage/db/inmemory"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

func createRepoManagers(t *testing.T) []repoManager {
	badgerManager, err := dbbadger.NewRepoManager(t.TempDir(), log.StandardLogger())
	require.NoError(t, err)
	t.Cleanup(badgerManager.Close)

	inMemoryBadgerManager, err := dbbadger.NewRepoManager("", log.StandardLogger())
	require.NoError(t, err)
	t.Cleanup(inMemoryBadgerManager.Close)

	return []repoManager{
		{Name: "badger", Manager: badgerManager},
		{Name: "badger_inmemory", Manager: inMemoryBadgerManager},
		{Name: "inmemory", Manager: inmemory.NewRepoManager()},
	}
}

func makeRandomAccount(name string) *domain.Account {
	var addr [32]byte
	copy(addr[:], randomBytes(32))
	return &domain.Account{
		Address:        hex.EncodeToString(addr[:]),
		Name:           name,
		EncryptedKeys:  randomId(),
		PassphraseHash: randomBytes(20),
		CreatedAt:      time.Now().Unix(),
	}
}

func makeRandomTransaction(sender string, seq uint64, submittedAt int64) *domain.Transaction {
	return &domain.Transaction{
		Hash:           randomHex(32),
		Sender:         sender,
		SequenceNumber: seq,
		Type:           "transfer",
		EnergyAmount:   501,
		Expiry:         submittedAt + 300,
		Status:         domain.TransactionStatusSubmitted,
		SubmittedAt:    submittedAt,
		UpdatedAt:      submittedAt,
	}
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomId() string {
	return uuid.New().String()
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}
