package signer_test

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/ccd-network/ccdkit/pkg/signer"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	// RFC 8032 test 1.
	testSignKey   = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testVerifyKey = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	testAddress   = "35CJPZohio6Ztii2zy1AYzJKvuxbGG44wrBn7hLHiYLoF2nxnh"
)

type mockKey struct {
	mock.Mock
}

func (m *mockKey) Sign(msg []byte) ([]byte, error) {
	args := m.Called(msg)
	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func newKey(t *testing.T) signer.Ed25519Key {
	key, err := signer.GenerateEd25519Key()
	require.NoError(t, err)
	return key
}

// publicKeys requires every key of a credential to sign.
func publicKeys(
	keys map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key,
) map[types.CredentialIndex]types.CredentialPublicKeys {
	out := make(map[types.CredentialIndex]types.CredentialPublicKeys)
	for cred, credKeys := range keys {
		pub := types.CredentialPublicKeys{
			Keys:      make(map[types.KeyIndex]types.VerifyKey),
			Threshold: types.SignatureThreshold(len(credKeys)),
		}
		for idx, key := range credKeys {
			pub.Keys[idx] = key.PublicKey()
		}
		out[cred] = pub
	}
	return out
}

func asKeys(
	keys map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key,
) signer.AccountKeys {
	out := make(map[types.CredentialIndex]map[types.KeyIndex]signer.Key)
	for cred, credKeys := range keys {
		out[cred] = make(map[types.KeyIndex]signer.Key)
		for idx, key := range credKeys {
			out[cred][idx] = key
		}
	}
	return signer.NewAccountKeys(out)
}

func TestEd25519Key(t *testing.T) {
	t.Run("rfc 8032 key pair", func(t *testing.T) {
		key, err := signer.Ed25519KeyFromHex(testSignKey)
		require.NoError(t, err)
		require.Equal(t, testVerifyKey, key.PublicKey().String())
		require.Equal(t, testSignKey, hex.EncodeToString(key.Seed()))

		sig, err := key.Sign([]byte{})
		require.NoError(t, err)
		require.Equal(t,
			"e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e06522490155"+
				"5fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b",
			hex.EncodeToString(sig),
		)
	})

	t.Run("invalid seed", func(t *testing.T) {
		_, err := signer.NewEd25519Key(make([]byte, 31))
		var sizeErr *types.ExactSizeError
		require.True(t, errors.As(err, &sizeErr))
		require.Equal(t, ed25519.SeedSize, sizeErr.Expected)

		_, err = signer.Ed25519KeyFromHex("zz")
		require.ErrorIs(t, err, types.ErrInvalidHex)
	})

	t.Run("zero value", func(t *testing.T) {
		_, err := signer.Ed25519Key{}.Sign([]byte{1})
		require.ErrorIs(t, err, signer.ErrUninitializedKey)
		require.Nil(t, signer.Ed25519Key{}.Seed())
	})
}

func TestAccountKeys(t *testing.T) {
	t.Run("signs with every key", testSignWithEveryKey())
	t.Run("errors carry the key", testSignError())
	t.Run("restrict to credential", testOnly())
}

func testSignWithEveryKey() func(*testing.T) {
	return func(t *testing.T) {
		edKeys := map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
			0: {0: newKey(t), 1: newKey(t)},
			2: {5: newKey(t)},
		}
		keys := asKeys(edKeys)
		require.Equal(t, 3, keys.Count())
		require.Equal(t, []types.CredentialIndex{0, 2}, keys.Credentials())

		msg := []byte("hello")
		sigs, err := keys.Sign(msg)
		require.NoError(t, err)
		require.Equal(t, keys.Count(), sigs.Count())
		require.Len(t, sigs[0], 2)
		require.Len(t, sigs[2], 1)
		require.NoError(t, signer.Verify(publicKeys(edKeys), msg, sigs))

		delete(sigs[0], 1)
		require.ErrorIs(t,
			signer.Verify(publicKeys(edKeys), msg, sigs), signer.ErrThresholdNotMet,
		)

		_, ok := keys.Key(2, 5)
		require.True(t, ok)
		_, ok = keys.Key(1, 0)
		require.False(t, ok)
	}
}

func testSignError() func(*testing.T) {
	return func(t *testing.T) {
		boom := errors.New("hardware wallet disconnected")
		failing := &mockKey{}
		failing.On("Sign", mock.Anything).Return(nil, boom)

		keys := signer.NewAccountKeys(map[types.CredentialIndex]map[types.KeyIndex]signer.Key{
			3: {7: failing},
		})
		_, err := keys.Sign([]byte{1, 2, 3})
		require.ErrorIs(t, err, boom)

		var keyErr *signer.KeyError
		require.True(t, errors.As(err, &keyErr))
		require.Equal(t, types.CredentialIndex(3), keyErr.Credential)
		require.Equal(t, types.KeyIndex(7), keyErr.Key)
		failing.AssertExpectations(t)
	}
}

func testOnly() func(*testing.T) {
	return func(t *testing.T) {
		keys := asKeys(map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
			0: {0: newKey(t)},
			1: {0: newKey(t), 1: newKey(t)},
		})
		only, ok := keys.Only(1)
		require.True(t, ok)
		require.Equal(t, 2, only.Count())

		_, ok = keys.Only(9)
		require.False(t, ok)

		require.Zero(t, signer.NewAccountKeys(
			map[types.CredentialIndex]map[types.KeyIndex]signer.Key{4: {}},
		).Count())
	}
}

func TestSignTransaction(t *testing.T) {
	sender, err := types.AccountAddressFromBase58(testAddress)
	require.NoError(t, err)

	edKeys := map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
		0: {0: newKey(t), 1: newKey(t)},
	}
	keys := asKeys(edKeys)
	tx := transaction.NewTransfer(sender, sender.Alias(1), 100)

	signed, err := signer.SignTransaction(keys, tx, 5, 1700000000)
	require.NoError(t, err)
	require.Equal(t, 2, signed.Signatures.Count())
	require.Equal(t,
		tx.Prepare(5, 1700000000, 2).Header,
		signed.Transaction.Header,
	)

	hash := signed.Transaction.Serialize().Hash
	require.NoError(t, signer.Verify(publicKeys(edKeys), hash[:], signed.Signatures))

	decoded, err := transaction.DecodeBlockItem(signed.BlockItemBytes())
	require.NoError(t, err)
	require.Equal(t, signed, decoded)

	_, err = signer.SignTransaction(signer.AccountKeys{}, tx, 5, 0)
	require.ErrorIs(t, err, signer.ErrNoKeys)
}

type fakeOracle struct{}

func (fakeOracle) CredentialDeploymentHash(
	credential transaction.AccountCredential, expiry types.TransactionTime,
) ([]byte, error) {
	h := sha256.Sum256(append([]byte(credential), byte(expiry)))
	return h[:], nil
}

func (fakeOracle) CredentialDeploymentPayload(
	credential transaction.AccountCredential, _ transaction.CredentialSignatures,
) ([]byte, error) {
	return []byte(credential), nil
}

func TestSignDeployment(t *testing.T) {
	edKeys := map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
		0: {0: newKey(t)},
		1: {0: newKey(t), 1: newKey(t)},
	}
	keys := asKeys(edKeys)
	deployment := transaction.PreparedCredentialDeployment{
		Credential: transaction.AccountCredential(`{}`),
		Expiry:     10,
	}

	signed, err := signer.SignDeployment(keys, deployment, 1, fakeOracle{})
	require.NoError(t, err)
	require.Len(t, signed.Signatures, 2)

	hash, err := deployment.Hash(fakeOracle{})
	require.NoError(t, err)
	for idx, sig := range signed.Signatures {
		require.True(t, edKeys[1][idx].PublicKey().Verify(hash, sig))
	}

	_, err = signer.SignDeployment(keys, deployment, 4, fakeOracle{})
	var missing *signer.MissingCredentialError
	require.True(t, errors.As(err, &missing))
	require.Equal(t, types.CredentialIndex(4), missing.Index)
}

func TestSignMessage(t *testing.T) {
	addr, err := types.AccountAddressFromBase58(testAddress)
	require.NoError(t, err)

	key, err := signer.Ed25519KeyFromHex(testSignKey)
	require.NoError(t, err)
	keys := signer.SingleKey(key)
	msg := []byte("login nonce 42")

	expected := sha256.Sum256(append(append(addr.Bytes(), make([]byte, 8)...), msg...))
	require.Equal(t, expected[:], signer.MessageHash(addr, msg))

	sigs, err := signer.SignMessage(keys, addr, msg)
	require.NoError(t, err)
	require.True(t, key.PublicKey().Verify(expected[:], sigs[0][0]))

	pub := map[types.CredentialIndex]types.CredentialPublicKeys{
		0: {Keys: map[types.KeyIndex]types.VerifyKey{0: key.PublicKey()}, Threshold: 1},
	}
	require.NoError(t, signer.VerifyMessage(pub, addr, msg, sigs))
	require.ErrorIs(t,
		signer.VerifyMessage(pub, addr, []byte("other"), sigs),
		signer.ErrInvalidSignature,
	)
	require.ErrorIs(t,
		signer.VerifyMessage(pub, addr.Alias(1), msg, sigs),
		signer.ErrInvalidSignature,
	)
}

func TestVerify(t *testing.T) {
	edKeys := map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
		0: {0: newKey(t), 1: newKey(t)},
	}
	pub := publicKeys(edKeys)
	msg := []byte{42}

	only, err := asKeys(map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
		0: {0: edKeys[0][0]},
	}).Sign(msg)
	require.NoError(t, err)

	tests := []struct {
		name        string
		sigs        signer.Signatures
		expectedErr error
	}{
		{
			name:        "below threshold",
			sigs:        only,
			expectedErr: signer.ErrThresholdNotMet,
		},
		{
			name:        "no signatures",
			sigs:        signer.Signatures{},
			expectedErr: signer.ErrThresholdNotMet,
		},
		{
			name:        "unknown credential",
			sigs:        signer.Signatures{3: only[0]},
			expectedErr: signer.ErrUnknownKey,
		},
		{
			name:        "tampered signature",
			sigs:        signer.Signatures{0: {0: make([]byte, 64), 1: only[0][0]}},
			expectedErr: signer.ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, signer.Verify(pub, msg, tt.sigs), tt.expectedErr)
		})
	}
}

func TestParseAccounts(t *testing.T) {
	keysJSON := fmt.Sprintf(
		`{"keys":{"0":{"keys":{"0":{"signKey":%q,"verifyKey":%q}},"threshold":1}},"threshold":1}`,
		testSignKey, testVerifyKey,
	)

	tests := []struct {
		name     string
		data     string
		accounts int
		err      error
	}{
		{
			name: "browser wallet",
			data: fmt.Sprintf(
				`{"type":"concordium-browser-wallet-account","v":0,"environment":"testnet",`+
					`"value":{"address":%q,"accountKeys":%s,"credentials":{}}}`,
				testAddress, keysJSON,
			),
			accounts: 1,
		},
		{
			name: "legacy mobile wallet",
			data: fmt.Sprintf(
				`{"type":"concordium-mobile-wallet-data","v":1,"environment":"mainnet",`+
					`"value":{"identities":[{"accounts":[{"address":%q,"accountKeys":%s},`+
					`{"address":%q,"accountKeys":%s}]},{"accounts":[]}]}}`,
				testAddress, keysJSON, testAddress, keysJSON,
			),
			accounts: 2,
		},
		{
			name:     "bare account",
			data:     fmt.Sprintf(`{"address":%q,"accountKeys":%s}`, testAddress, keysJSON),
			accounts: 1,
		},
		{
			name: "legacy version",
			data: `{"type":"concordium-mobile-wallet-data","v":2,"value":{}}`,
			err:  signer.ErrUnsupportedExport,
		},
		{
			name: "unknown type",
			data: `{"type":"something-else","v":1}`,
			err:  signer.ErrUnsupportedExport,
		},
		{
			name: "mismatching verify key",
			data: fmt.Sprintf(
				`{"address":%q,"accountKeys":{"keys":{"0":{"keys":{"0":{"signKey":%q,"verifyKey":%q}}}}}}`,
				testAddress, testSignKey, testSignKey,
			),
			err: signer.ErrKeyMismatch,
		},
		{
			name: "invalid address",
			data: fmt.Sprintf(`{"address":"abc","accountKeys":%s}`, keysJSON),
			err:  types.ErrInvalidBase58,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			accounts, err := signer.ParseAccounts([]byte(tt.data))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, accounts, tt.accounts)

			for _, account := range accounts {
				require.Equal(t, testAddress, account.Address.String())
				require.Equal(t, 1, account.Keys.Count())
			}
		})
	}
}

func TestExportAccountKeys(t *testing.T) {
	keys := asKeys(map[types.CredentialIndex]map[types.KeyIndex]signer.Ed25519Key{
		0: {0: newKey(t), 2: newKey(t)},
		1: {0: newKey(t)},
	})
	exported, err := signer.ExportAccountKeys(keys)
	require.NoError(t, err)
	require.Equal(t, uint8(2), exported.Threshold)
	require.Equal(t, uint8(2), exported.Keys["0"].Threshold)

	imported, err := exported.AccountKeys()
	require.NoError(t, err)
	require.Equal(t, keys, imported)

	_, err = signer.ExportAccountKeys(signer.SingleKey(&mockKey{}))
	require.ErrorIs(t, err, signer.ErrUnsupportedExport)
}
