package walletseed

import "github.com/ccd-network/ccdkit/pkg/types"

// IdentitySeedIndexes name the key material of one identity.
type IdentitySeedIndexes struct {
	ProviderID uint32 `json:"providerId"`
	Index      uint32 `json:"index"`
}

// AccountCredentialSeedIndexes name the Counter-th credential created from
// an identity.
type AccountCredentialSeedIndexes struct {
	Identity IdentitySeedIndexes `json:"identity"`
	Counter  uint8               `json:"counter"`
}

// IssuerSeedIndexes locate the contract that issues verifiable credentials.
type IssuerSeedIndexes struct {
	Index    uint64 `json:"index"`
	Subindex uint64 `json:"subindex"`
}

// IssuerFromContract converts a contract address into issuer indexes.
func IssuerFromContract(addr types.ContractAddress) IssuerSeedIndexes {
	return IssuerSeedIndexes{addr.Index, addr.Subindex}
}

// ContractAddress converts back to the issuing contract address.
func (i IssuerSeedIndexes) ContractAddress() types.ContractAddress {
	return types.ContractAddress{Index: i.Index, Subindex: i.Subindex}
}

// VerifiableCredentialSeedIndexes name the Index-th credential issued by a
// contract.
type VerifiableCredentialSeedIndexes struct {
	Issuer IssuerSeedIndexes `json:"issuer"`
	Index  uint32            `json:"index"`
}

// NewVerifiableCredentialSeedIndexes addresses a credential by its issuing
// contract.
func NewVerifiableCredentialSeedIndexes(
	issuer types.ContractAddress, index uint32,
) VerifiableCredentialSeedIndexes {
	return VerifiableCredentialSeedIndexes{IssuerFromContract(issuer), index}
}
