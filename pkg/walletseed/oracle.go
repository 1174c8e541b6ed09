package walletseed

// Oracle computes key material from a seed. Implementations hold the
// elliptic curve and pairing cryptography; callers only ever pass indexes.
// The same seed, network and indexes must always yield the same bytes.
type Oracle interface {
	CredSec(seed []byte, net Network, idx IdentitySeedIndexes) ([]byte, error)
	PrfKey(seed []byte, net Network, idx IdentitySeedIndexes) ([]byte, error)
	SignatureBlindingRandomness(
		seed []byte, net Network, idx IdentitySeedIndexes,
	) ([]byte, error)

	SigningKey(seed []byte, net Network, idx AccountCredentialSeedIndexes) ([]byte, error)
	PublicKey(seed []byte, net Network, idx AccountCredentialSeedIndexes) ([]byte, error)
	CredentialID(
		seed []byte, net Network, idx AccountCredentialSeedIndexes,
		commitmentKey []byte,
	) ([]byte, error)
	AttributeCommitmentRandomness(
		seed []byte, net Network, idx AccountCredentialSeedIndexes, attribute uint8,
	) ([]byte, error)

	VerifiableCredentialSigningKey(
		seed []byte, net Network, idx VerifiableCredentialSeedIndexes,
	) ([]byte, error)
	VerifiableCredentialPublicKey(
		seed []byte, net Network, idx VerifiableCredentialSeedIndexes,
	) ([]byte, error)
	VerifiableCredentialBackupEncryptionKey(seed []byte, net Network) ([]byte, error)
}
