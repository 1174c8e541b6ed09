package main

import (
	"fmt"
	"strings"

	"github.com/ccd-network/ccdkit/internal/config"
	"github.com/ccd-network/ccdkit/pkg/wallet"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
	"github.com/urfave/cli/v2"
)

var walletCommand = cli.Command{
	Name:  "wallet",
	Usage: "seed phrase utilities",
	Subcommands: []*cli.Command{
		{
			Name:   "genseed",
			Usage:  "generate a mnemonic seed",
			Action: genSeedAction,
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "entropy",
					Usage: "entropy size in bits, a multiple of 32 between 128 and 256",
					Value: 256,
				},
			},
		},
		{
			Name:   "derive",
			Usage:  "print the public key of an account credential derived from a seed phrase",
			Action: deriveAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "mnemonic",
					Usage:    "space separated seed phrase",
					Required: true,
				},
				&cli.UintFlag{
					Name:  "identity-provider",
					Usage: "index of the identity provider",
				},
				&cli.UintFlag{
					Name:  "identity-index",
					Usage: "index of the identity",
				},
				&cli.UintFlag{
					Name:  "counter",
					Usage: "index of the credential created from the identity",
				},
			},
		},
	},
}

func genSeedAction(ctx *cli.Context) error {
	mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{
		EntropySize: ctx.Int("entropy"),
	})
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(strings.Join(mnemonic, " "))

	return nil
}

func deriveAction(ctx *cli.Context) error {
	w, err := wallet.NewWalletFromMnemonic(wallet.NewWalletFromMnemonicOpts{
		Mnemonic: strings.Fields(ctx.String("mnemonic")),
		Network:  config.GetNetwork(),
	})
	if err != nil {
		return err
	}
	seed, err := w.WalletSeed(nil)
	if err != nil {
		return err
	}

	idx := walletseed.AccountCredentialSeedIndexes{
		Identity: walletseed.IdentitySeedIndexes{
			ProviderID: uint32(ctx.Uint("identity-provider")),
			Index:      uint32(ctx.Uint("identity-index")),
		},
		Counter: uint8(ctx.Uint("counter")),
	}
	publicKey, err := seed.PublicKeyHex(idx)
	if err != nil {
		return err
	}
	path := wallet.AccountSigningKeyPath(w.Network(), idx)

	printJSON(map[string]string{
		"network":   w.Network().String(),
		"path":      path.String(),
		"publicKey": publicKey,
	})
	return nil
}
