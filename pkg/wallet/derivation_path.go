package wallet

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
)

// MaxHardenedValue is the max value for hardened indexes of derivation paths
const MaxHardenedValue = math.MaxUint32 - hdkeychain.HardenedKeyStart

const (
	purpose = 44

	signingKeyBranch       = 0
	backupEncryptionBranch = 2
)

// DerivationPath is the internal representation of a hierarchical
// deterministic key path
type DerivationPath []uint32

// ParseDerivationPath converts a derivation path string to the
// internal binary representation
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	var path DerivationPath

	elems := strings.Split(strPath, "/")
	switch {
	case strPath == "":
		return nil, ErrNullDerivationPath

	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	case len(elems) < 2:
		return nil, ErrMalformedDerivationPath

	case len(elems) > 1:
		if strings.TrimSpace(elems[0]) == "m" {
			elems = elems[1:]
		}

	default:
		return nil, ErrInvalidDerivationPath
	}

	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		// use big int for convertion
		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
			}
			return nil, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// HardenedPath builds a path of hardened elements.
func HardenedPath(elems ...uint64) (DerivationPath, error) {
	path := make(DerivationPath, 0, len(elems))
	for _, e := range elems {
		if e > MaxHardenedValue {
			return nil, fmt.Errorf(
				"%w: elem %d must be in hardened range [0, %d]",
				ErrInvalidDerivationPath, e, uint32(MaxHardenedValue),
			)
		}
		path = append(path, hdkeychain.HardenedKeyStart+uint32(e))
	}
	return path, nil
}

// IsHardened reports whether every element of the path is hardened.
func (path DerivationPath) IsHardened() bool {
	for _, elem := range path {
		if elem < hdkeychain.HardenedKeyStart {
			return false
		}
	}
	return true
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	if len(path) <= 0 {
		return ""
	}

	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

// IdentityPath is m/44'/coin'/provider'/identity'/branch'.
func IdentityPath(
	net walletseed.Network, idx walletseed.IdentitySeedIndexes, branch uint32,
) DerivationPath {
	path, _ := HardenedPath(
		purpose, uint64(net.CoinType()),
		uint64(idx.ProviderID), uint64(idx.Index), uint64(branch),
	)
	return path
}

// AccountSigningKeyPath is the path of the key of a credential,
// m/44'/coin'/provider'/identity'/0'/counter'.
func AccountSigningKeyPath(
	net walletseed.Network, idx walletseed.AccountCredentialSeedIndexes,
) DerivationPath {
	base := IdentityPath(net, idx.Identity, signingKeyBranch)
	return append(base, hdkeychain.HardenedKeyStart+uint32(idx.Counter))
}

// BackupEncryptionPath is m/44'/coin'/2'.
func BackupEncryptionPath(net walletseed.Network) DerivationPath {
	path, _ := HardenedPath(purpose, uint64(net.CoinType()), backupEncryptionBranch)
	return path
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if s == "" {
			return true
		}
	}
	return false
}
