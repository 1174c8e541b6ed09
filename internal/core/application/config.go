package application

import (
	"fmt"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/ports"
	dbbadger "github.com/ccd-network/ccdkit/internal/infrastructure/storage/db/badger"
	"github.com/ccd-network/ccdkit/internal/infrastructure/storage/db/inmemory"
	log "github.com/sirupsen/logrus"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"

	defaultTxExpiry           = 5 * time.Minute
	defaultStatusPollInterval = 2 * time.Second
	defaultStatusPollRate     = 10
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir of the badger db.
	DBConfig interface{}

	NodeClient ports.NodeClient
	// TxExpiry is how long after signing a transaction stays valid.
	TxExpiry time.Duration
	// StatusPollInterval is the time waited between two status queries for
	// the same transaction.
	StatusPollInterval time.Duration
	// StatusPollRate caps the status queries per second made by the
	// service, whatever the number of transactions awaited.
	StatusPollRate int

	repo        ports.RepoManager
	account     AccountService
	transaction TransactionService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DBType)
	}
	if c.DBType == DBBadger {
		if datadir, ok := c.DBConfig.(string); !ok || datadir == "" {
			return ErrNullDatadir
		}
	}
	if c.NodeClient == nil {
		return ErrNullNodeClient
	}
	if c.TxExpiry < 0 || c.StatusPollInterval < 0 || c.StatusPollRate < 0 {
		return ErrInvalidDuration
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) AccountService() AccountService {
	svc, _ := c.accountService()
	return svc
}

func (c *Config) TransactionService() TransactionService {
	svc, _ := c.transactionService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.StandardLogger())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		default:
			c.repo = inmemory.NewRepoManager()
		}
	}
	return c.repo, nil
}

func (c *Config) accountService() (AccountService, error) {
	if c.account == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		c.account = NewAccountService(repo, c.NodeClient)
	}
	return c.account, nil
}

func (c *Config) transactionService() (TransactionService, error) {
	if c.transaction == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		c.transaction = NewTransactionService(
			repo, c.NodeClient, TransactionServiceOpts{
				TxExpiry:           c.TxExpiry,
				StatusPollInterval: c.StatusPollInterval,
				StatusPollRate:     c.StatusPollRate,
			},
		)
	}
	return c.transaction, nil
}
