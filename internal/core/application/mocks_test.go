package application_test

import (
	"context"

	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/stretchr/testify/mock"
)

// **** Node client ****

type mockNodeClient struct {
	mock.Mock
}

func (m *mockNodeClient) NextAccountSequenceNumber(
	ctx context.Context, addr types.AccountAddress,
) (ports.NextSequenceNumber, error) {
	args := m.Called(ctx, addr)

	var res ports.NextSequenceNumber
	if a := args.Get(0); a != nil {
		res = a.(ports.NextSequenceNumber)
	}
	return res, args.Error(1)
}

// SendAccountTransaction echoes the hash of the transaction unless a hash
// or an error is given to Return.
func (m *mockNodeClient) SendAccountTransaction(
	ctx context.Context, tx transaction.Signed,
) (types.TransactionHash, error) {
	args := m.Called(ctx, tx)

	var res types.TransactionHash
	if a := args.Get(0); a != nil {
		res = a.(types.TransactionHash)
	} else if args.Error(1) == nil {
		res = tx.Hash()
	}
	return res, args.Error(1)
}

func (m *mockNodeClient) SendCredentialDeployment(
	ctx context.Context, expiry types.TransactionTime, deployment []byte,
) (types.TransactionHash, error) {
	args := m.Called(ctx, expiry, deployment)

	var res types.TransactionHash
	if a := args.Get(0); a != nil {
		res = a.(types.TransactionHash)
	}
	return res, args.Error(1)
}

func (m *mockNodeClient) TransactionStatus(
	ctx context.Context, hash types.TransactionHash,
) (ports.TransactionStatus, error) {
	args := m.Called(ctx, hash)

	var res ports.TransactionStatus
	if a := args.Get(0); a != nil {
		res = a.(ports.TransactionStatus)
	}
	return res, args.Error(1)
}

func (m *mockNodeClient) CryptographicParameters(
	ctx context.Context, block ports.BlockIdentifier,
) (ports.CryptographicParameters, error) {
	args := m.Called(ctx, block)

	var res ports.CryptographicParameters
	if a := args.Get(0); a != nil {
		res = a.(ports.CryptographicParameters)
	}
	return res, args.Error(1)
}

func (m *mockNodeClient) AccountInfo(
	ctx context.Context, addr types.AccountAddress, block ports.BlockIdentifier,
) (ports.AccountInfo, error) {
	args := m.Called(ctx, addr, block)

	var res ports.AccountInfo
	if a := args.Get(0); a != nil {
		res = a.(ports.AccountInfo)
	}
	return res, args.Error(1)
}

func (m *mockNodeClient) Close() error {
	return m.Called().Error(0)
}
