package ports

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/types"
)

type NextSequenceNumber struct {
	SequenceNumber types.SequenceNumber
	// AllFinal is true when every transaction of the account up to
	// SequenceNumber is finalized.
	AllFinal bool
}

type BlockKind int

const (
	BlockBest BlockKind = iota
	BlockLastFinal
	BlockGiven
)

// BlockIdentifier selects the block a query is evaluated against.
type BlockIdentifier struct {
	Kind BlockKind
	Hash types.BlockHash
}

var (
	// BestBlock ...
	BestBlock = BlockIdentifier{Kind: BlockBest}
	// LastFinalBlock ...
	LastFinalBlock = BlockIdentifier{Kind: BlockLastFinal}
)

// GivenBlock ...
func GivenBlock(hash types.BlockHash) BlockIdentifier {
	return BlockIdentifier{Kind: BlockGiven, Hash: hash}
}

func (b BlockIdentifier) String() string {
	switch b.Kind {
	case BlockBest:
		return "best"
	case BlockLastFinal:
		return "lastFinal"
	default:
		return b.Hash.String()
	}
}

type Status int

const (
	StatusReceived Status = iota
	StatusCommitted
	StatusFinalized
)

func (s Status) String() string {
	switch s {
	case StatusReceived:
		return "received"
	case StatusCommitted:
		return "committed"
	case StatusFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// BlockItemSummary is the outcome of a transaction in a block.
type BlockItemSummary struct {
	Index      uint64
	EnergyCost types.Energy
	Hash       types.TransactionHash
	// Cost and Sender are only set for account transactions.
	Cost   types.MicroCCDAmount
	Sender types.AccountAddress
	// Rejected is set when an account transaction was included in a block
	// but had no effect.
	Rejected bool
}

// TransactionStatus is received, committed to one or more blocks, or
// finalized in exactly one.
type TransactionStatus struct {
	Status Status
	// Outcomes holds one summary per block the transaction is committed to.
	// It is set when Status is StatusCommitted.
	Outcomes map[types.BlockHash]BlockItemSummary
	// BlockHash and Summary are set when Status is StatusFinalized.
	BlockHash types.BlockHash
	Summary   BlockItemSummary
}

type CryptographicParameters struct {
	GenesisString         string
	BulletproofGenerators []byte
	OnChainCommitmentKey  []byte
}

type AccountInfo struct {
	Address        types.AccountAddress
	Index          uint64
	SequenceNumber types.SequenceNumber
	Amount         types.MicroCCDAmount
	Threshold      uint8
	Credentials    []types.CredentialIndex
}
