package signer

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/types"
)

// Verify checks sigs against the credential keys of an account. Every
// signature must be valid and every signing credential must reach its
// threshold.
func Verify(
	keys map[types.CredentialIndex]types.CredentialPublicKeys,
	msg []byte, sigs Signatures,
) error {
	if len(sigs) == 0 {
		return ErrThresholdNotMet
	}
	for cred, credSigs := range sigs {
		credKeys, ok := keys[cred]
		if !ok {
			return &KeyError{cred, 0, ErrUnknownKey}
		}
		for idx, sig := range credSigs {
			key, ok := credKeys.Keys[idx]
			if !ok {
				return &KeyError{cred, idx, ErrUnknownKey}
			}
			if !key.Verify(msg, sig) {
				return &KeyError{cred, idx, ErrInvalidSignature}
			}
		}
		if len(credSigs) < int(credKeys.Threshold) {
			return fmt.Errorf(
				"%w: credential %d has %d of %d signatures",
				ErrThresholdNotMet, cred, len(credSigs), credKeys.Threshold,
			)
		}
	}
	return nil
}

// VerifyMessage checks signatures produced by SignMessage.
func VerifyMessage(
	keys map[types.CredentialIndex]types.CredentialPublicKeys,
	addr types.AccountAddress, msg []byte, sigs Signatures,
) error {
	return Verify(keys, MessageHash(addr, msg), sigs)
}
