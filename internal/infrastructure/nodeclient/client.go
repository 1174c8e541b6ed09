package nodeclient

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	grpc_retry "github.com/grpc-ecosystem/go-grpc-middleware/retry"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	queriesService = "/concordium.v2.Queries/"

	methodNextSequenceNumber      = "GetNextAccountSequenceNumber"
	methodSendBlockItem           = "SendBlockItem"
	methodBlockItemStatus         = "GetBlockItemStatus"
	methodCryptographicParameters = "GetCryptographicParameters"
	methodAccountInfo             = "GetAccountInfo"

	defaultMaxRetries = 3
)

type Opts struct {
	Addr string
	TLS  bool
	// Timeout bounds every call, zero means the context deadline only.
	Timeout    time.Duration
	MaxRetries uint
	Logger     *log.Logger
	// DialOptions are appended to the ones built from the fields above.
	DialOptions []grpc.DialOption
}

func (o Opts) validate() error {
	if len(o.Addr) <= 0 {
		return ErrNullNodeAddress
	}
	if o.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

type service struct {
	addr    string
	conn    *grpc.ClientConn
	timeout time.Duration
}

// NewService connects to the node at opts.Addr.
func NewService(opts Opts) (ports.NodeClient, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	creds := insecure.NewCredentials()
	if opts.TLS {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		unaryInterceptor(logger, maxRetries),
	}, opts.DialOptions...)

	conn, err := grpc.Dial(opts.Addr, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &service{
		addr:    opts.Addr,
		conn:    conn,
		timeout: opts.Timeout,
	}, nil
}

func (s *service) NextAccountSequenceNumber(
	ctx context.Context, addr types.AccountAddress,
) (ports.NextSequenceNumber, error) {
	res := &nextSequenceNumberMsg{}
	if err := s.invoke(
		ctx, methodNextSequenceNumber, &accountAddressMsg{addr}, res,
	); err != nil {
		return ports.NextSequenceNumber{}, err
	}
	return res.NextSequenceNumber, nil
}

func (s *service) SendAccountTransaction(
	ctx context.Context, tx transaction.Signed,
) (types.TransactionHash, error) {
	res := &transactionHashMsg{}
	if err := s.invoke(
		ctx, methodSendBlockItem, &sendBlockItemRequest{accountTx: &tx}, res,
		grpc_retry.Disable(),
	); err != nil {
		return types.TransactionHash{}, err
	}
	return res.hash, nil
}

func (s *service) SendCredentialDeployment(
	ctx context.Context, expiry types.TransactionTime, deployment []byte,
) (types.TransactionHash, error) {
	req := &sendBlockItemRequest{
		deployment: &credentialDeploymentMsg{expiry, deployment},
	}
	res := &transactionHashMsg{}
	if err := s.invoke(
		ctx, methodSendBlockItem, req, res, grpc_retry.Disable(),
	); err != nil {
		return types.TransactionHash{}, err
	}
	return res.hash, nil
}

func (s *service) TransactionStatus(
	ctx context.Context, hash types.TransactionHash,
) (ports.TransactionStatus, error) {
	res := &blockItemStatusMsg{}
	if err := s.invoke(
		ctx, methodBlockItemStatus, &transactionHashMsg{hash}, res,
	); err != nil {
		return ports.TransactionStatus{}, err
	}
	return res.TransactionStatus, nil
}

func (s *service) CryptographicParameters(
	ctx context.Context, block ports.BlockIdentifier,
) (ports.CryptographicParameters, error) {
	res := &cryptographicParametersMsg{}
	if err := s.invoke(
		ctx, methodCryptographicParameters, &blockHashInputMsg{block}, res,
	); err != nil {
		return ports.CryptographicParameters{}, err
	}
	return res.CryptographicParameters, nil
}

func (s *service) AccountInfo(
	ctx context.Context, addr types.AccountAddress, block ports.BlockIdentifier,
) (ports.AccountInfo, error) {
	req := &accountInfoRequest{block: blockHashInputMsg{block}, addr: addr}
	res := &accountInfoMsg{}
	if err := s.invoke(ctx, methodAccountInfo, req, res); err != nil {
		return ports.AccountInfo{}, err
	}
	return res.AccountInfo, nil
}

func (s *service) Close() error {
	return s.conn.Close()
}

func (s *service) invoke(
	ctx context.Context, method string, req, res message,
	opts ...grpc.CallOption,
) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	opts = append(opts, grpc.ForceCodec(codec{}))
	if err := s.conn.Invoke(ctx, queriesService+method, req, res, opts...); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}
