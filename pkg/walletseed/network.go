package walletseed

import (
	"fmt"
	"strings"
)

// Network selects the chain key material is derived for.
type Network int

const (
	Mainnet Network = iota
	Testnet
)

const (
	mainnetCoinType = 919
	testnetCoinType = 1
)

// ParseNetwork accepts "mainnet" or "testnet" in any case.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "mainnet":
		return Mainnet, nil
	case "testnet":
		return Testnet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidNetwork, s)
	}
}

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "Mainnet"
	case Testnet:
		return "Testnet"
	default:
		return fmt.Sprintf("Network(%d)", int(n))
	}
}

// CoinType returns the hardened-path coin type registered for the network.
func (n Network) CoinType() uint32 {
	if n == Mainnet {
		return mainnetCoinType
	}
	return testnetCoinType
}

func (n Network) valid() bool {
	return n == Mainnet || n == Testnet
}

func (n Network) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Network) UnmarshalText(text []byte) error {
	parsed, err := ParseNetwork(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
