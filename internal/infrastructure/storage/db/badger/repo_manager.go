package dbbadger

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const (
	storeDir = "ccd"

	valueLogGCInterval     = 30 * time.Minute
	valueLogGCDiscardRatio = 0.5
)

type txKey struct{}

type repoManager struct {
	store  *badgerhold.Store
	stopGC func()

	accountRepository     domain.AccountRepository
	transactionRepository domain.TransactionRepository
}

// NewRepoManager opens (or creates if not exists) the badger store on disk.
// It expects a base data dir and an optional logger. An empty base dir keeps
// the store in memory. Accounts and transactions share the same store so
// that they can be updated within one db transaction.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, storeDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", storeDir, err)
	}

	stopGC := func() {}
	if len(dbDir) > 0 {
		stopGC = runValueLogGC(store.Badger(), valueLogGCInterval)
	}

	return &repoManager{
		store:                 store,
		stopGC:                stopGC,
		accountRepository:     newAccountRepositoryImpl(store),
		transactionRepository: newTransactionRepositoryImpl(store),
	}, nil
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) TransactionRepository() domain.TransactionRepository {
	return r.transactionRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context,
	readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	// Nested calls join the outer transaction.
	if txFromContext(ctx) != nil {
		return handler(ctx)
	}

	tx := r.store.Badger().NewTransaction(!readOnly)
	defer tx.Discard()

	res, err := handler(context.WithValue(ctx, txKey{}, tx))
	if err != nil {
		return nil, err
	}
	if readOnly {
		return res, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *repoManager) Close() {
	r.stopGC()
	if err := r.store.Close(); err != nil {
		log.WithError(err).Warn("failed to close db")
	}
}

func txFromContext(ctx context.Context) *badger.Txn {
	tx, _ := ctx.Value(txKey{}).(*badger.Txn)
	return tx
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if len(dbDir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

// runValueLogGC periodically reclaims value log space until the returned
// func is called. The func returns once no collection is running.
func runValueLogGC(db *badger.DB, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := db.RunValueLogGC(valueLogGCDiscardRatio); err != nil &&
					err != badger.ErrNoRewrite {
					log.WithError(err).Warn("value log gc failed")
				}
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}
