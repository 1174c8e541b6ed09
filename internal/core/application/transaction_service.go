package application

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/ccd-network/ccdkit/pkg/circuitbreaker"
	"github.com/ccd-network/ccdkit/pkg/signer"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const unknownTxType = "unknown"

type TransactionService interface {
	// Send signs the transaction with the keys of a stored account and
	// submits it to the node.
	Send(ctx context.Context, req SendRequest) (*domain.Transaction, error)
	// SignOffline signs without submitting. The result can be submitted
	// later with SubmitBlockItem.
	SignOffline(
		ctx context.Context, req SignOfflineRequest,
	) (transaction.Signed, error)
	// SubmitBlockItem submits an account transaction signed elsewhere.
	SubmitBlockItem(ctx context.Context, item []byte) (*domain.Transaction, error)
	SequenceNumber(
		ctx context.Context, account string,
	) (ports.NextSequenceNumber, error)
	// TransactionStatus queries the node for the status of a transaction
	// and records it if the transaction is known.
	TransactionStatus(ctx context.Context, hash string) (*domain.Transaction, error)
	// WaitForFinalization polls the status of the transaction until it is
	// finalized, it expires, or ctx is done.
	WaitForFinalization(ctx context.Context, hash string) (*domain.Transaction, error)
	// WaitForAll waits for the finalization of every transaction, returning
	// them in the given order.
	WaitForAll(ctx context.Context, hashes []string) ([]domain.Transaction, error)
	ListTransactions(
		ctx context.Context, account string, page *domain.Page,
	) ([]domain.Transaction, error)
	ListPendingTransactions(ctx context.Context) ([]domain.Transaction, error)
}

type TransactionServiceOpts struct {
	TxExpiry           time.Duration
	StatusPollInterval time.Duration
	StatusPollRate     int
}

func (o TransactionServiceOpts) withDefaults() TransactionServiceOpts {
	if o.TxExpiry == 0 {
		o.TxExpiry = defaultTxExpiry
	}
	if o.StatusPollInterval == 0 {
		o.StatusPollInterval = defaultStatusPollInterval
	}
	if o.StatusPollRate == 0 {
		o.StatusPollRate = defaultStatusPollRate
	}
	return o
}

type transactionService struct {
	repoManager  ports.RepoManager
	node         ports.NodeClient
	cb           *gobreaker.CircuitBreaker
	limiter      ratelimit.Limiter
	txExpiry     time.Duration
	pollInterval time.Duration
}

func NewTransactionService(
	repoManager ports.RepoManager, node ports.NodeClient,
	opts TransactionServiceOpts,
) TransactionService {
	opts = opts.withDefaults()
	return &transactionService{
		repoManager:  repoManager,
		node:         node,
		cb:           circuitbreaker.NewCircuitBreaker("transaction-service"),
		limiter:      ratelimit.New(opts.StatusPollRate),
		txExpiry:     opts.TxExpiry,
		pollInterval: opts.StatusPollInterval,
	}
}

func (s *transactionService) Send(
	ctx context.Context, req SendRequest,
) (*domain.Transaction, error) {
	logger := log.WithField("request_id", uuid.New().String())

	signed, account, err := s.sign(ctx, SignOfflineRequest{SendRequest: req})
	if err != nil {
		return nil, err
	}
	txType := req.Transaction.Payload.Type().String()
	logger = logger.WithFields(log.Fields{
		"sender":          account.Address,
		"sequence_number": signed.Transaction.Header.SequenceNumber,
		"type":            txType,
	})

	tx, err := s.submit(ctx, signed, txType, account)
	if err != nil {
		logger.WithError(err).Warn("failed to send transaction")
		return nil, err
	}

	logger.WithField("hash", tx.Hash).Info("transaction sent")
	return tx, nil
}

func (s *transactionService) SignOffline(
	ctx context.Context, req SignOfflineRequest,
) (transaction.Signed, error) {
	signed, _, err := s.sign(ctx, req)
	return signed, err
}

func (s *transactionService) SubmitBlockItem(
	ctx context.Context, item []byte,
) (*domain.Transaction, error) {
	signed, err := transaction.DecodeBlockItem(item)
	if err != nil {
		return nil, err
	}

	txType := unknownTxType
	if payload, err := signed.Transaction.DecodedPayload(); err == nil {
		txType = payload.Type().String()
	}

	// The sender is not necessarily one of the stored accounts.
	sender := signed.Transaction.Header.Sender.String()
	account, err := s.repoManager.AccountRepository().GetAccount(ctx, sender)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}
		account = nil
	}

	tx, err := s.submit(ctx, signed, txType, account)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"hash":   tx.Hash,
		"sender": sender,
	}).Info("block item submitted")
	return tx, nil
}

func (s *transactionService) SequenceNumber(
	ctx context.Context, ref string,
) (ports.NextSequenceNumber, error) {
	addr, err := types.AccountAddressFromBase58(ref)
	if err != nil {
		account, err := getAccount(ctx, s.repoManager.AccountRepository(), ref)
		if err != nil {
			return ports.NextSequenceNumber{}, err
		}
		if addr, err = account.AccountAddress(); err != nil {
			return ports.NextSequenceNumber{}, err
		}
	}
	return s.nextSequenceNumber(ctx, addr)
}

func (s *transactionService) TransactionStatus(
	ctx context.Context, hash string,
) (*domain.Transaction, error) {
	txHash, err := types.TransactionHashFromHex(hash)
	if err != nil {
		return nil, err
	}

	repo := s.repoManager.TransactionRepository()
	stored, err := repo.GetTransaction(ctx, hash)
	if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, err
	}
	if stored != nil && stored.IsFinalized() {
		return stored, nil
	}

	iStatus, err := s.cb.Execute(func() (interface{}, error) {
		return s.node.TransactionStatus(ctx, txHash)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	status := iStatus.(ports.TransactionStatus)

	if stored == nil {
		tx, err := domain.NewTransaction(hash, "", 0, unknownTxType, 0, 0)
		if err != nil {
			return nil, err
		}
		if err := applyStatus(tx, status); err != nil {
			return nil, err
		}
		return tx, nil
	}

	var updated *domain.Transaction
	if err := repo.UpdateTransaction(
		ctx, hash, func(t *domain.Transaction) (*domain.Transaction, error) {
			if err := applyStatus(t, status); err != nil {
				return nil, err
			}
			updated = t
			return t, nil
		},
	); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *transactionService) WaitForFinalization(
	ctx context.Context, hash string,
) (*domain.Transaction, error) {
	logger := log.WithField("hash", hash)
	repo := s.repoManager.TransactionRepository()

	for {
		// Expired transactions are dropped by the node, which then no longer
		// knows about them.
		if stored, err := repo.GetTransaction(ctx, hash); err == nil &&
			stored.IsExpired(time.Now()) {
			logger.Warn("transaction expired")
			return stored, ErrTransactionExpired
		}

		s.limiter.Take()
		tx, err := s.TransactionStatus(ctx, hash)
		if err != nil {
			return nil, err
		}
		if tx.IsFinalized() {
			outcome, _ := tx.FinalizedOutcome()
			finalizedTransactions.WithLabelValues(outcomeLabel(outcome.Rejected)).Inc()
			logger.WithField("block", outcome.BlockHash).Info("transaction finalized")
			return tx, nil
		}
		logger.Debugf("transaction %s, retrying in %s", tx.Status, s.pollInterval)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

func (s *transactionService) WaitForAll(
	ctx context.Context, hashes []string,
) ([]domain.Transaction, error) {
	txs := make([]domain.Transaction, len(hashes))
	eg, ctx := errgroup.WithContext(ctx)
	for i, hash := range hashes {
		i, hash := i, hash
		eg.Go(func() error {
			tx, err := s.WaitForFinalization(ctx, hash)
			if err != nil {
				return err
			}
			txs[i] = *tx
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (s *transactionService) ListTransactions(
	ctx context.Context, ref string, page *domain.Page,
) ([]domain.Transaction, error) {
	repo := s.repoManager.TransactionRepository()
	if len(ref) <= 0 {
		return repo.ListAllTransactions(ctx, page)
	}
	sender := ref
	if _, err := types.AccountAddressFromBase58(ref); err != nil {
		account, err := getAccount(ctx, s.repoManager.AccountRepository(), ref)
		if err != nil {
			return nil, err
		}
		sender = account.Address
	}
	return repo.ListTransactionsForSender(ctx, sender, page)
}

func (s *transactionService) ListPendingTransactions(
	ctx context.Context,
) ([]domain.Transaction, error) {
	return s.repoManager.TransactionRepository().ListPendingTransactions(ctx)
}

// sign resolves the account of the request and signs its transaction with
// the next available sequence number.
func (s *transactionService) sign(
	ctx context.Context, req SignOfflineRequest,
) (transaction.Signed, *domain.Account, error) {
	if err := req.validate(); err != nil {
		return transaction.Signed{}, nil, err
	}

	account, err := getAccount(ctx, s.repoManager.AccountRepository(), req.Account)
	if err != nil {
		return transaction.Signed{}, nil, err
	}
	addr, err := account.AccountAddress()
	if err != nil {
		return transaction.Signed{}, nil, err
	}
	tx := req.Transaction
	if tx.Sender == (types.AccountAddress{}) {
		tx.Sender = addr
	}
	if tx.Sender != addr {
		return transaction.Signed{}, nil, ErrSenderMismatch
	}

	keys, err := account.Keys(req.Passphrase)
	if err != nil {
		return transaction.Signed{}, nil, err
	}

	seq := req.SequenceNumber
	if seq == 0 {
		next, err := s.nextSequenceNumber(ctx, addr)
		if err != nil {
			return transaction.Signed{}, nil, err
		}
		seq = next.SequenceNumber
		// The node does not know yet about transactions just sent.
		if local := types.SequenceNumber(account.LastSequenceNumber + 1); local > seq {
			seq = local
		}
	}
	expiry := req.Expiry
	if expiry == 0 {
		expiry = types.ExpiryIn(s.txExpiry)
	}

	signed, err := signer.SignTransaction(keys, tx, seq, expiry)
	if err != nil {
		return transaction.Signed{}, nil, err
	}
	return signed, account, nil
}

// submit sends the transaction and records it together with the sequence
// number used by the account, if any.
func (s *transactionService) submit(
	ctx context.Context, signed transaction.Signed, txType string,
	account *domain.Account,
) (*domain.Transaction, error) {
	iHash, err := s.cb.Execute(func() (interface{}, error) {
		return s.node.SendAccountTransaction(ctx, signed)
	})
	if err != nil {
		failedSubmissions.WithLabelValues(txType).Inc()
		return nil, breakerError(err)
	}
	hash := iHash.(types.TransactionHash)
	if hash != signed.Hash() {
		failedSubmissions.WithLabelValues(txType).Inc()
		return nil, ErrHashMismatch
	}
	submittedTransactions.WithLabelValues(txType).Inc()

	header := signed.Transaction.Header
	tx, err := domain.NewTransaction(
		hash.String(), header.Sender.String(), uint64(header.SequenceNumber),
		txType, uint64(header.MaxEnergy), int64(header.Expiry),
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.TransactionRepository().AddTransaction(
				ctx, tx,
			); err != nil {
				return nil, err
			}
			if account == nil {
				return nil, nil
			}
			return nil, s.repoManager.AccountRepository().UpdateAccount(
				ctx, account.Address,
				func(a *domain.Account) (*domain.Account, error) {
					// A sequence number lower than the last one used means
					// the transaction was signed offline long ago.
					if err := a.UseSequenceNumber(header.SequenceNumber); err != nil &&
						!errors.Is(err, domain.ErrSequenceNumberNotIncreasing) {
						return nil, err
					}
					return a, nil
				},
			)
		},
	); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *transactionService) nextSequenceNumber(
	ctx context.Context, addr types.AccountAddress,
) (ports.NextSequenceNumber, error) {
	iNext, err := s.cb.Execute(func() (interface{}, error) {
		return s.node.NextAccountSequenceNumber(ctx, addr)
	})
	if err != nil {
		return ports.NextSequenceNumber{}, breakerError(err)
	}
	return iNext.(ports.NextSequenceNumber), nil
}

func applyStatus(tx *domain.Transaction, status ports.TransactionStatus) error {
	switch status.Status {
	case ports.StatusReceived:
		return tx.Receive()
	case ports.StatusCommitted:
		outcomes := make([]domain.Outcome, 0, len(status.Outcomes))
		for block, summary := range status.Outcomes {
			outcomes = append(outcomes, outcomeFromSummary(block, summary))
		}
		sort.Slice(outcomes, func(i, j int) bool {
			return outcomes[i].BlockHash < outcomes[j].BlockHash
		})
		return tx.Commit(outcomes)
	default:
		return tx.Finalize(outcomeFromSummary(status.BlockHash, status.Summary))
	}
}

func outcomeFromSummary(
	block types.BlockHash, summary ports.BlockItemSummary,
) domain.Outcome {
	return domain.Outcome{
		BlockHash:  block.String(),
		EnergyCost: uint64(summary.EnergyCost),
		Cost:       uint64(summary.Cost),
		Rejected:   summary.Rejected,
	}
}
