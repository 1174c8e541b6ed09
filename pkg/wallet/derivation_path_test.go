package wallet

import (
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const h = hdkeychain.HardenedKeyStart

func TestParseDerivationPath(t *testing.T) {
	tests := []struct {
		input  string
		output DerivationPath
		err    error
	}{
		// Plain absolute derivation paths
		{"m/44'/919'/0'/0'/0'/0'", DerivationPath{h + 44, h + 919, h, h, h, h}, nil},
		{"m/44'/1'/2'/115'", DerivationPath{h + 44, h + 1, h + 2, h + 115}, nil},
		{"m/44'/919'/0'/0", DerivationPath{h + 44, h + 919, h, 0}, nil},
		{"m/2147483692/2147484567", DerivationPath{h + 44, h + 919}, nil},

		// Hexadecimal absolute derivation paths
		{"m/0x2c'/0x397'", DerivationPath{h + 44, h + 919}, nil},
		{"m/0x8000002c/0x80000397", DerivationPath{h + 44, h + 919}, nil},

		// Weird inputs just to ensure they work
		{"	m  /   44			'\n/\n   919	\n\n\t'   /\n0 ' /\t\t	0", DerivationPath{h + 44, h + 919, h, 0}, nil},

		// Relative derivation paths
		{"44'/919'/0/0", DerivationPath{h + 44, h + 919, 0, 0}, nil},
		{"0/0", DerivationPath{0, 0}, nil},

		// Invalid derivation paths
		{"", nil, ErrNullDerivationPath},
		{"m", nil, ErrMalformedDerivationPath},
		{"m/", nil, ErrMalformedDerivationPath},
		{"/44'/919'/0'/0", nil, ErrMalformedDerivationPath},
		{"m/2147483648'", nil, nil},
		{"m/-1'", nil, nil},
		{"0", nil, ErrMalformedDerivationPath},
	}
	for _, tt := range tests {
		path, err := ParseDerivationPath(tt.input)
		if err != nil {
			if tt.err != nil {
				assert.Equal(t, tt.err, err)
			}
		}
		assert.Equal(t, tt.output, path)
	}
}

func TestDerivationPathString(t *testing.T) {
	for _, s := range []string{"m/44'/919'/0'/0'/0'/0'", "m/44'/1'/7/3'"} {
		path, err := ParseDerivationPath(s)
		require.NoError(t, err)
		require.Equal(t, s, path.String())
	}
	require.Empty(t, DerivationPath{}.String())
}

func TestConcordiumPaths(t *testing.T) {
	credential := walletseed.AccountCredentialSeedIndexes{
		Identity: walletseed.IdentitySeedIndexes{ProviderID: 0, Index: 55},
		Counter:  7,
	}
	tests := []struct {
		name     string
		path     DerivationPath
		expected string
	}{
		{
			name:     "mainnet signing key",
			path:     AccountSigningKeyPath(walletseed.Mainnet, credential),
			expected: "m/44'/919'/0'/55'/0'/7'",
		},
		{
			name:     "testnet signing key",
			path:     AccountSigningKeyPath(walletseed.Testnet, credential),
			expected: "m/44'/1'/0'/55'/0'/7'",
		},
		{
			name: "identity branch",
			path: IdentityPath(
				walletseed.Mainnet, walletseed.IdentitySeedIndexes{ProviderID: 2, Index: 115}, 2,
			),
			expected: "m/44'/919'/2'/115'/2'",
		},
		{
			name:     "backup encryption",
			path:     BackupEncryptionPath(walletseed.Testnet),
			expected: "m/44'/1'/2'",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.path.String())
			require.True(t, tt.path.IsHardened())
		})
	}

}

func TestHardenedPath(t *testing.T) {
	path, err := HardenedPath(44, 919, MaxHardenedValue)
	require.NoError(t, err)
	require.Equal(t, "m/44'/919'/2147483647'", path.String())

	_, err = HardenedPath(44, 1<<31)
	require.ErrorIs(t, err, ErrInvalidDerivationPath)
}
