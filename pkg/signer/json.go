package signer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ccd-network/ccdkit/pkg/types"
)

const (
	legacyExportType    = "concordium-mobile-wallet-data"
	legacyExportVersion = 1
	browserExportType   = "concordium-browser-wallet-account"
)

// KeyPairJSON is a key as found in wallet exports.
type KeyPairJSON struct {
	SignKey   string `json:"signKey"`
	VerifyKey string `json:"verifyKey"`
}

// CredentialKeysJSON holds the keys of one credential.
type CredentialKeysJSON struct {
	Keys      map[string]KeyPairJSON `json:"keys"`
	Threshold uint8                  `json:"threshold,omitempty"`
}

// AccountKeysJSON is the key layout shared by all wallet exports.
type AccountKeysJSON struct {
	Keys      map[string]CredentialKeysJSON `json:"keys"`
	Threshold uint8                         `json:"threshold,omitempty"`
}

// AccountKeys validates every key pair and builds the signing keys.
func (j AccountKeysJSON) AccountKeys() (AccountKeys, error) {
	keys := make(map[types.CredentialIndex]map[types.KeyIndex]Key, len(j.Keys))
	for credStr, credKeys := range j.Keys {
		cred, err := strconv.ParseUint(credStr, 10, 8)
		if err != nil {
			return AccountKeys{}, fmt.Errorf("invalid credential index %q", credStr)
		}
		byIdx := make(map[types.KeyIndex]Key, len(credKeys.Keys))
		for idxStr, pair := range credKeys.Keys {
			idx, err := strconv.ParseUint(idxStr, 10, 8)
			if err != nil {
				return AccountKeys{}, fmt.Errorf(
					"credential %d: invalid key index %q", cred, idxStr,
				)
			}
			key, err := pair.key()
			if err != nil {
				return AccountKeys{}, &KeyError{
					types.CredentialIndex(cred), types.KeyIndex(idx), err,
				}
			}
			byIdx[types.KeyIndex(idx)] = key
		}
		keys[types.CredentialIndex(cred)] = byIdx
	}
	return NewAccountKeys(keys), nil
}

func (p KeyPairJSON) key() (Ed25519Key, error) {
	key, err := Ed25519KeyFromHex(p.SignKey)
	if err != nil {
		return Ed25519Key{}, err
	}
	if p.VerifyKey == "" {
		return key, nil
	}
	verifyKey, err := types.VerifyKeyFromHex(p.VerifyKey)
	if err != nil {
		return Ed25519Key{}, err
	}
	if !bytes.Equal(verifyKey.Key, key.PublicKey().Key) {
		return Ed25519Key{}, ErrKeyMismatch
	}
	return key, nil
}

// ExportAccountKeys is the inverse of AccountKeysJSON.AccountKeys. Only
// Ed25519 keys can be exported.
func ExportAccountKeys(keys AccountKeys) (AccountKeysJSON, error) {
	out := AccountKeysJSON{Keys: make(map[string]CredentialKeysJSON, len(keys.keys))}
	for cred, credKeys := range keys.keys {
		pairs := make(map[string]KeyPairJSON, len(credKeys))
		for idx, key := range credKeys {
			edKey, ok := key.(Ed25519Key)
			if !ok {
				return AccountKeysJSON{}, &KeyError{cred, idx, ErrUnsupportedExport}
			}
			pairs[strconv.Itoa(int(idx))] = KeyPairJSON{
				SignKey:   fmt.Sprintf("%x", edKey.Seed()),
				VerifyKey: edKey.PublicKey().String(),
			}
		}
		out.Keys[strconv.Itoa(int(cred))] = CredentialKeysJSON{
			Keys:      pairs,
			Threshold: uint8(len(pairs)),
		}
	}
	out.Threshold = uint8(len(out.Keys))
	return out, nil
}

// AccountJSON is an account address with its keys.
type AccountJSON struct {
	Address     types.AccountAddress `json:"address"`
	AccountKeys AccountKeysJSON      `json:"accountKeys"`
}

func (a AccountJSON) account() (Account, error) {
	keys, err := a.AccountKeys.AccountKeys()
	if err != nil {
		return Account{}, fmt.Errorf("account %s: %w", a.Address, err)
	}
	return Account{a.Address, keys}, nil
}

type exportHeader struct {
	Type        string `json:"type"`
	V           int    `json:"v"`
	Environment string `json:"environment"`
}

type legacyExport struct {
	exportHeader
	Value struct {
		Identities []struct {
			Accounts []AccountJSON `json:"accounts"`
		} `json:"identities"`
	} `json:"value"`
}

type browserExport struct {
	exportHeader
	Value AccountJSON `json:"value"`
}

// ParseAccounts reads a wallet export. Both the single account export of
// the browser wallet and the full export of the legacy mobile wallet are
// understood, as is a bare AccountJSON.
func ParseAccounts(data []byte) ([]Account, error) {
	var header exportHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}

	var accounts []AccountJSON
	switch header.Type {
	case legacyExportType:
		if header.V != legacyExportVersion {
			return nil, fmt.Errorf(
				"%w: version %d of %s", ErrUnsupportedExport, header.V, header.Type,
			)
		}
		var export legacyExport
		if err := json.Unmarshal(data, &export); err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		for _, identity := range export.Value.Identities {
			accounts = append(accounts, identity.Accounts...)
		}
	case browserExportType:
		var export browserExport
		if err := json.Unmarshal(data, &export); err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		accounts = []AccountJSON{export.Value}
	case "":
		var account AccountJSON
		if err := json.Unmarshal(data, &account); err != nil {
			return nil, fmt.Errorf("failed to parse key file: %w", err)
		}
		accounts = []AccountJSON{account}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExport, header.Type)
	}

	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		account, err := a.account()
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, nil
}
