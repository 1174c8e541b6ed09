package signer

import (
	"crypto/sha256"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
)

// messagePrefixSize zero bytes separate the account address from the
// message, so that a signed message can never be a valid transaction.
const messagePrefixSize = 8

// SignTransaction prepares tx for as many signatures as s produces and signs
// it.
func SignTransaction(
	s Signer, tx transaction.AccountTransaction,
	seq types.SequenceNumber, expiry types.TransactionTime,
) (transaction.Signed, error) {
	if s.Count() <= 0 {
		return transaction.Signed{}, ErrNoKeys
	}
	return SignPrepared(s, tx.Prepare(seq, expiry, s.Count()))
}

// SignPrepared signs the hash of an already prepared transaction.
func SignPrepared(s Signer, prepared transaction.Prepared) (transaction.Signed, error) {
	hash := prepared.Serialize().Hash
	sigs, err := s.Sign(hash[:])
	if err != nil {
		return transaction.Signed{}, err
	}
	return transaction.Signed{Transaction: prepared, Signatures: sigs}, nil
}

// SignDeployment signs a credential deployment and keeps the signatures of
// the deployed credential, which must be among those held by s.
func SignDeployment(
	s Signer, deployment transaction.PreparedCredentialDeployment,
	credIndex types.CredentialIndex, oracle transaction.DeploymentOracle,
) (transaction.SignedCredentialDeployment, error) {
	hash, err := deployment.Hash(oracle)
	if err != nil {
		return transaction.SignedCredentialDeployment{}, err
	}
	sigs, err := s.Sign(hash)
	if err != nil {
		return transaction.SignedCredentialDeployment{}, err
	}
	credSigs, ok := sigs[credIndex]
	if !ok {
		return transaction.SignedCredentialDeployment{}, &MissingCredentialError{credIndex}
	}
	return transaction.SignedCredentialDeployment{
		Deployment: deployment,
		Signatures: credSigs,
	}, nil
}

// MessageHash returns what SignMessage signs for the given account.
func MessageHash(addr types.AccountAddress, msg []byte) []byte {
	buf := serial.NewBuffer()
	addr.SerializeInto(buf)
	buf.PutBytes(make([]byte, messagePrefixSize))
	buf.PutBytes(msg)
	hash := sha256.Sum256(buf.Bytes())
	return hash[:]
}

// SignMessage signs an arbitrary message on behalf of an account.
func SignMessage(s Signer, addr types.AccountAddress, msg []byte) (Signatures, error) {
	return s.Sign(MessageHash(addr, msg))
}
