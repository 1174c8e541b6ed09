package nodeclient

import (
	"fmt"
	"sort"

	"github.com/ccd-network/ccdkit/internal/core/ports"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"google.golang.org/protobuf/encoding/protowire"
)

type accountAddressMsg struct {
	addr types.AccountAddress
}

func (m *accountAddressMsg) marshal() []byte {
	return appendBytesField(nil, 1, m.addr[:])
}

func (m *accountAddressMsg) unmarshal(b []byte) error {
	return unwrapFixed(b, m.addr[:], "account address")
}

type transactionHashMsg struct {
	hash types.TransactionHash
}

func (m *transactionHashMsg) marshal() []byte {
	return appendBytesField(nil, 1, m.hash[:])
}

func (m *transactionHashMsg) unmarshal(b []byte) error {
	return unwrapFixed(b, m.hash[:], "transaction hash")
}

type nextSequenceNumberMsg struct {
	ports.NextSequenceNumber
}

func (m *nextSequenceNumberMsg) marshal() []byte {
	b := appendWrapped(nil, 1, uint64(m.SequenceNumber))
	if m.AllFinal {
		b = appendVarintField(b, 2, 1)
	}
	return b
}

func (m *nextSequenceNumberMsg) unmarshal(b []byte) error {
	found := false
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			v, err := unwrap(f.bytes)
			if err != nil {
				return err
			}
			m.SequenceNumber = types.SequenceNumber(v)
			found = true
		case 2:
			m.AllFinal = f.varint != 0
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: sequence_number", ErrMissingField)
	}
	return nil
}

// sendBlockItemRequest holds either an account transaction or a credential
// deployment.
type sendBlockItemRequest struct {
	accountTx  *transaction.Signed
	deployment *credentialDeploymentMsg
}

type credentialDeploymentMsg struct {
	expiry  types.TransactionTime
	payload []byte
}

func (m *sendBlockItemRequest) marshal() []byte {
	if m.deployment != nil {
		deployment := appendWrapped(nil, 1, uint64(m.deployment.expiry))
		deployment = appendBytesField(deployment, 2, m.deployment.payload)
		return appendBytesField(nil, 2, deployment)
	}
	if m.accountTx == nil {
		return nil
	}

	tx := m.accountTx
	h := tx.Transaction.Header
	header := appendWrappedBytes(nil, 1, h.Sender[:])
	header = appendWrapped(header, 2, uint64(h.SequenceNumber))
	header = appendWrapped(header, 3, uint64(h.MaxEnergy))
	header = appendWrapped(header, 5, uint64(h.Expiry))

	body := appendBytesField(nil, 1, marshalSignatures(tx.Signatures))
	body = appendBytesField(body, 2, header)
	body = appendBytesField(body, 3, appendBytesField(nil, 1, tx.Transaction.Payload))
	return appendBytesField(nil, 1, body)
}

func (m *sendBlockItemRequest) unmarshal(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			tx, err := unmarshalAccountTransaction(f.bytes)
			if err != nil {
				return err
			}
			m.accountTx = &tx
		case 2:
			deployment := &credentialDeploymentMsg{}
			err := walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					v, err := unwrap(f.bytes)
					deployment.expiry = types.TransactionTime(v)
					return err
				case 2:
					deployment.payload = f.bytes
				}
				return nil
			})
			if err != nil {
				return err
			}
			m.deployment = deployment
		}
		return nil
	})
}

func marshalSignatures(sigs transaction.Signatures) []byte {
	creds := make([]int, 0, len(sigs))
	for cred := range sigs {
		creds = append(creds, int(cred))
	}
	sort.Ints(creds)

	var b []byte
	for _, cred := range creds {
		credSigs := sigs[types.CredentialIndex(cred)]
		keys := make([]int, 0, len(credSigs))
		for key := range credSigs {
			keys = append(keys, int(key))
		}
		sort.Ints(keys)

		var sigMap []byte
		for _, key := range keys {
			sig := appendBytesField(nil, 1, credSigs[types.KeyIndex(key)])
			sigMap = appendMapEntry(sigMap, 1, uint32(key), sig)
		}
		b = appendMapEntry(b, 1, uint32(cred), sigMap)
	}
	return b
}

func unmarshalSignatures(b []byte) (transaction.Signatures, error) {
	sigs := transaction.Signatures{}
	err := walk(b, func(f field) error {
		if f.num != 1 {
			return nil
		}
		cred, sigMap, err := mapEntry(f.bytes)
		if err != nil {
			return err
		}
		credSigs := transaction.CredentialSignatures{}
		err = walk(sigMap, func(f field) error {
			if f.num != 1 {
				return nil
			}
			key, sig, err := mapEntry(f.bytes)
			if err != nil {
				return err
			}
			value, err := unwrapBytes(sig)
			if err != nil {
				return err
			}
			credSigs[types.KeyIndex(key)] = value
			return nil
		})
		if err != nil {
			return err
		}
		sigs[types.CredentialIndex(cred)] = credSigs
		return nil
	})
	return sigs, err
}

func unmarshalAccountTransaction(b []byte) (transaction.Signed, error) {
	var tx transaction.Signed
	err := walk(b, func(f field) error {
		var err error
		switch f.num {
		case 1:
			tx.Signatures, err = unmarshalSignatures(f.bytes)
		case 2:
			err = unmarshalHeader(f.bytes, &tx.Transaction.Header)
		case 3:
			tx.Transaction.Payload, err = unwrapBytes(f.bytes)
		}
		return err
	})
	tx.Transaction.Header.PayloadSize = uint32(len(tx.Transaction.Payload))
	return tx, err
}

func unmarshalHeader(b []byte, h *transaction.Header) error {
	return walk(b, func(f field) error {
		if f.num == 1 {
			return unwrapFixed(f.bytes, h.Sender[:], "sender")
		}
		v, err := unwrap(f.bytes)
		if err != nil {
			return err
		}
		switch f.num {
		case 2:
			h.SequenceNumber = types.SequenceNumber(v)
		case 3:
			h.MaxEnergy = types.Energy(v)
		case 5:
			h.Expiry = types.TransactionTime(v)
		}
		return nil
	})
}

type blockItemStatusMsg struct {
	ports.TransactionStatus
}

func (m *blockItemStatusMsg) marshal() []byte {
	switch m.Status {
	case ports.StatusCommitted:
		hashes := make([]types.BlockHash, 0, len(m.Outcomes))
		for hash := range m.Outcomes {
			hashes = append(hashes, hash)
		}
		sort.Slice(hashes, func(i, j int) bool {
			return string(hashes[i][:]) < string(hashes[j][:])
		})
		var committed []byte
		for _, hash := range hashes {
			committed = appendBytesField(
				committed, 1, marshalSummaryInBlock(hash, m.Outcomes[hash]),
			)
		}
		return appendBytesField(nil, 2, committed)
	case ports.StatusFinalized:
		finalized := appendBytesField(nil, 1, marshalSummaryInBlock(m.BlockHash, m.Summary))
		return appendBytesField(nil, 3, finalized)
	default:
		return appendBytesField(nil, 1, nil)
	}
}

func (m *blockItemStatusMsg) unmarshal(b []byte) error {
	found := false
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Status = ports.StatusReceived
		case 2:
			m.Status = ports.StatusCommitted
			m.Outcomes = map[types.BlockHash]ports.BlockItemSummary{}
			err := walk(f.bytes, func(f field) error {
				if f.num != 1 {
					return nil
				}
				hash, summary, err := unmarshalSummaryInBlock(f.bytes)
				if err != nil {
					return err
				}
				m.Outcomes[hash] = summary
				return nil
			})
			if err != nil {
				return err
			}
		case 3:
			m.Status = ports.StatusFinalized
			err := walk(f.bytes, func(f field) error {
				if f.num != 1 {
					return nil
				}
				var err error
				m.BlockHash, m.Summary, err = unmarshalSummaryInBlock(f.bytes)
				return err
			})
			if err != nil {
				return err
			}
		default:
			return nil
		}
		found = true
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: status", ErrMissingField)
	}
	return nil
}

func marshalSummaryInBlock(hash types.BlockHash, s ports.BlockItemSummary) []byte {
	summary := appendWrapped(nil, 1, s.Index)
	summary = appendWrapped(summary, 2, uint64(s.EnergyCost))
	summary = appendWrappedBytes(summary, 3, s.Hash[:])

	details := appendWrapped(nil, 1, uint64(s.Cost))
	details = appendWrappedBytes(details, 2, s.Sender[:])
	var effects []byte
	if s.Rejected {
		effects = appendBytesField(nil, 1, nil)
	}
	details = appendBytesField(details, 3, effects)
	summary = appendBytesField(summary, 4, details)

	b := appendWrappedBytes(nil, 1, hash[:])
	return appendBytesField(b, 2, summary)
}

func unmarshalSummaryInBlock(b []byte) (types.BlockHash, ports.BlockItemSummary, error) {
	var (
		hash    types.BlockHash
		summary ports.BlockItemSummary
	)
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			return unwrapFixed(f.bytes, hash[:], "block hash")
		case 2:
			return unmarshalSummary(f.bytes, &summary)
		}
		return nil
	})
	return hash, summary, err
}

func unmarshalSummary(b []byte, s *ports.BlockItemSummary) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			v, err := unwrap(f.bytes)
			s.Index = v
			return err
		case 2:
			v, err := unwrap(f.bytes)
			s.EnergyCost = types.Energy(v)
			return err
		case 3:
			return unwrapFixed(f.bytes, s.Hash[:], "transaction hash")
		case 4:
			return walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					v, err := unwrap(f.bytes)
					s.Cost = types.MicroCCDAmount(v)
					return err
				case 2:
					return unwrapFixed(f.bytes, s.Sender[:], "sender")
				case 3:
					return walk(f.bytes, func(f field) error {
						if f.num == 1 && f.typ == protowire.BytesType {
							s.Rejected = true
						}
						return nil
					})
				}
				return nil
			})
		}
		return nil
	})
}

type blockHashInputMsg struct {
	ports.BlockIdentifier
}

func (m *blockHashInputMsg) marshal() []byte {
	switch m.Kind {
	case ports.BlockLastFinal:
		return appendBytesField(nil, 2, nil)
	case ports.BlockGiven:
		return appendWrappedBytes(nil, 3, m.Hash[:])
	default:
		return appendBytesField(nil, 1, nil)
	}
}

func (m *blockHashInputMsg) unmarshal(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.Kind = ports.BlockBest
		case 2:
			m.Kind = ports.BlockLastFinal
		case 3:
			m.Kind = ports.BlockGiven
			return unwrapFixed(f.bytes, m.Hash[:], "block hash")
		}
		return nil
	})
}

type cryptographicParametersMsg struct {
	ports.CryptographicParameters
}

func (m *cryptographicParametersMsg) marshal() []byte {
	b := appendBytesField(nil, 1, []byte(m.GenesisString))
	b = appendBytesField(b, 2, m.BulletproofGenerators)
	return appendBytesField(b, 3, m.OnChainCommitmentKey)
}

func (m *cryptographicParametersMsg) unmarshal(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			m.GenesisString = string(f.bytes)
		case 2:
			m.BulletproofGenerators = f.bytes
		case 3:
			m.OnChainCommitmentKey = f.bytes
		}
		return nil
	})
}

type accountInfoRequest struct {
	block blockHashInputMsg
	addr  types.AccountAddress
}

func (m *accountInfoRequest) marshal() []byte {
	b := appendBytesField(nil, 1, m.block.marshal())
	identifier := appendWrappedBytes(nil, 1, m.addr[:])
	return appendBytesField(b, 2, identifier)
}

func (m *accountInfoRequest) unmarshal(b []byte) error {
	return walk(b, func(f field) error {
		switch f.num {
		case 1:
			return m.block.unmarshal(f.bytes)
		case 2:
			return walk(f.bytes, func(f field) error {
				if f.num == 1 {
					return unwrapFixed(f.bytes, m.addr[:], "account address")
				}
				return nil
			})
		}
		return nil
	})
}

type accountInfoMsg struct {
	ports.AccountInfo
}

func (m *accountInfoMsg) marshal() []byte {
	b := appendWrapped(nil, 1, uint64(m.SequenceNumber))
	b = appendWrapped(b, 2, uint64(m.Amount))
	for _, cred := range m.Credentials {
		b = appendMapEntry(b, 4, uint32(cred), nil)
	}
	b = appendWrapped(b, 5, uint64(m.Threshold))
	b = appendWrapped(b, 8, m.Index)
	return appendWrappedBytes(b, 10, m.Address[:])
}

func (m *accountInfoMsg) unmarshal(b []byte) error {
	err := walk(b, func(f field) error {
		if f.typ != protowire.BytesType {
			return nil
		}
		switch f.num {
		case 1, 2, 5, 8:
			v, err := unwrap(f.bytes)
			if err != nil {
				return err
			}
			m.setScalar(f.num, v)
		case 4:
			cred, _, err := mapEntry(f.bytes)
			if err != nil {
				return err
			}
			m.Credentials = append(m.Credentials, types.CredentialIndex(cred))
		case 10:
			return unwrapFixed(f.bytes, m.Address[:], "account address")
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Slice(m.Credentials, func(i, j int) bool {
		return m.Credentials[i] < m.Credentials[j]
	})
	return nil
}

func (m *accountInfoMsg) setScalar(num protowire.Number, v uint64) {
	switch num {
	case 1:
		m.SequenceNumber = types.SequenceNumber(v)
	case 2:
		m.Amount = types.MicroCCDAmount(v)
	case 5:
		m.Threshold = uint8(v)
	case 8:
		m.Index = v
	}
}
