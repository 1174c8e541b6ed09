package transaction

import (
	"encoding/json"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/types"
)

// AccountCredential is an unsigned credential as produced by the crypto
// oracle. Its structure is opaque here.
type AccountCredential json.RawMessage

func (c AccountCredential) MarshalJSON() ([]byte, error) {
	return json.RawMessage(c).MarshalJSON()
}

func (c *AccountCredential) UnmarshalJSON(data []byte) error {
	return (*json.RawMessage)(c).UnmarshalJSON(data)
}

// DeploymentOracle computes the hash and wire form of credential deployments.
type DeploymentOracle interface {
	CredentialDeploymentHash(
		credential AccountCredential, expiry types.TransactionTime,
	) ([]byte, error)
	CredentialDeploymentPayload(
		credential AccountCredential, signatures CredentialSignatures,
	) ([]byte, error)
}

// PreparedCredentialDeployment is a credential waiting to be signed.
type PreparedCredentialDeployment struct {
	Credential AccountCredential
	Expiry     types.TransactionTime
}

// Hash returns the message the credential keys sign.
func (d PreparedCredentialDeployment) Hash(oracle DeploymentOracle) ([]byte, error) {
	hash, err := oracle.CredentialDeploymentHash(d.Credential, d.Expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential deployment: %w", err)
	}
	return hash, nil
}

// SignedCredentialDeployment carries the signatures of the keys of the
// deployed credential.
type SignedCredentialDeployment struct {
	Deployment PreparedCredentialDeployment
	Signatures CredentialSignatures
}

// Serialize returns the deployment in the form accepted by the node.
func (d SignedCredentialDeployment) Serialize(
	oracle DeploymentOracle,
) (SerializedCredentialDeployment, error) {
	data, err := oracle.CredentialDeploymentPayload(d.Deployment.Credential, d.Signatures)
	if err != nil {
		return SerializedCredentialDeployment{}, fmt.Errorf(
			"failed to serialize credential deployment: %w", err,
		)
	}
	return SerializedCredentialDeployment{data, d.Deployment.Expiry}, nil
}

// SerializedCredentialDeployment is a signed deployment in wire form.
type SerializedCredentialDeployment struct {
	Data   []byte
	Expiry types.TransactionTime
}
