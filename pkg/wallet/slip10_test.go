package wallet

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// SLIP-10 ed25519 test vector 1.
func TestSlip10Vectors(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path      string
		chainCode string
		key       string
		publicKey string
	}{
		{
			path:      "m",
			chainCode: "90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb",
			key:       "2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7",
			publicKey: "a4b2856bfec510abab89753fac1ac0e1112364e7d250545963f135f2a33188ed",
		},
		{
			path:      "m/0'",
			chainCode: "8b59aa11380b624e81507a27fedda59fea6d0b779a778918a2fd3590e16e9c69",
			key:       "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
			publicKey: "8c8a13df77a28f3445213a0f432fde644acaa215fc72dcdf300d5efaa85d350c",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			var path DerivationPath
			if tt.path != "m" {
				var err error
				path, err = ParseDerivationPath(tt.path)
				require.NoError(t, err)
			}

			node, err := DeriveKey(seed, path)
			require.NoError(t, err)
			require.Equal(t, tt.chainCode, hex.EncodeToString(node.ChainCode))
			require.Equal(t, tt.key, hex.EncodeToString(node.Key))
			require.Equal(t, tt.publicKey, hex.EncodeToString(node.PublicKey()))
		})
	}
}

func TestSlip10RejectsNormalDerivation(t *testing.T) {
	master, err := NewMasterKey([]byte{1})
	require.NoError(t, err)

	_, err = master.Child(0)
	require.ErrorIs(t, err, ErrNonHardenedDerivation)

	_, err = master.Derive(DerivationPath{h, 1})
	require.ErrorIs(t, err, ErrNonHardenedDerivation)

	_, err = NewMasterKey(nil)
	require.ErrorIs(t, err, ErrNullSeed)
}
