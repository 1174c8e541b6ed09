package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ccd-network/ccdkit/internal/config"
	"github.com/ccd-network/ccdkit/internal/core/application"
	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/ccd-network/ccdkit/pkg/mathutil"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
	"github.com/urfave/cli/v2"
)

var account = cli.Command{
	Name:  "account",
	Usage: "manage the accounts whose keys are stored locally",
	Subcommands: []*cli.Command{
		{
			Name:   "import",
			Usage:  "import the accounts of a wallet export or key file",
			Action: importAccountsAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Usage:    "path of the key file",
					Required: true,
				},
				passphraseFlag,
			},
		},
		{
			Name:   "recover",
			Usage:  "restore the keys of an account from a seed phrase",
			Action: recoverAccountAction,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "mnemonic",
					Usage:    "space separated seed phrase",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "address",
					Usage:    "address of the account",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "name",
					Usage: "name to refer to the account",
				},
				&cli.UintFlag{
					Name:  "identity-provider",
					Usage: "index of the identity provider",
				},
				&cli.UintFlag{
					Name:  "identity-index",
					Usage: "index of the identity",
				},
				&cli.StringFlag{
					Name:  "credentials",
					Usage: "comma separated credential counters, the i-th one signing for credential i",
					Value: "0",
				},
				passphraseFlag,
			},
		},
		{
			Name:   "list",
			Usage:  "list stored accounts",
			Action: listAccountsAction,
		},
		{
			Name:   "info",
			Usage:  "query the node for the state of an account",
			Action: accountInfoAction,
			Flags:  []cli.Flag{accountFlag},
		},
		{
			Name:   "changepassword",
			Usage:  "encrypt the keys of an account with a new passphrase",
			Action: changePassphraseAction,
			Flags: []cli.Flag{
				accountFlag,
				passphraseFlag,
				&cli.StringFlag{
					Name:     "new-passphrase",
					Usage:    "the new passphrase",
					Required: true,
				},
			},
		},
		{
			Name:   "delete",
			Usage:  "delete the keys of an account",
			Action: deleteAccountAction,
			Flags:  []cli.Flag{accountFlag, passphraseFlag},
		},
	},
}

func importAccountsAction(ctx *cli.Context) error {
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(ctx.String("file"))
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	accounts, err := svc.AccountService().ImportAccounts(
		context.Background(), data, passphrase,
	)
	if err != nil {
		return err
	}
	printJSON(accountsView(accounts))
	return nil
}

func recoverAccountAction(ctx *cli.Context) error {
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	addr, err := types.AccountAddressFromBase58(ctx.String("address"))
	if err != nil {
		return err
	}
	identity := walletseed.IdentitySeedIndexes{
		ProviderID: uint32(ctx.Uint("identity-provider")),
		Index:      uint32(ctx.Uint("identity-index")),
	}
	var creds []walletseed.AccountCredentialSeedIndexes
	for _, s := range strings.Split(ctx.String("credentials"), ",") {
		counter, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
		if err != nil {
			return &invalidUsageError{ctx, "recover"}
		}
		creds = append(creds, walletseed.AccountCredentialSeedIndexes{
			Identity: identity,
			Counter:  uint8(counter),
		})
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	acc, err := svc.AccountService().RecoverAccount(
		context.Background(), application.RecoverAccountOpts{
			Name:        ctx.String("name"),
			Mnemonic:    strings.Fields(ctx.String("mnemonic")),
			Network:     config.GetNetwork(),
			Address:     addr,
			Credentials: creds,
			Passphrase:  passphrase,
		},
	)
	if err != nil {
		return err
	}
	printJSON(accountsView([]domain.Account{*acc})[0])
	return nil
}

func listAccountsAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	accounts, err := svc.AccountService().ListAccounts(context.Background())
	if err != nil {
		return err
	}
	printJSON(accountsView(accounts))
	return nil
}

func accountInfoAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := svc.AccountService().AccountInfo(
		context.Background(), ctx.String(accountFlag.Name),
	)
	if err != nil {
		return err
	}
	printJSON(map[string]interface{}{
		"address":        info.Address.String(),
		"index":          info.Index,
		"sequenceNumber": info.SequenceNumber,
		"balance":        mathutil.FormatCCD(info.Amount),
		"threshold":      info.Threshold,
		"credentials":    info.Credentials,
	})
	return nil
}

func changePassphraseAction(ctx *cli.Context) error {
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.AccountService().ChangePassphrase(
		context.Background(), ctx.String(accountFlag.Name),
		passphrase, ctx.String("new-passphrase"),
	); err != nil {
		return err
	}
	fmt.Println("passphrase changed")
	return nil
}

func deleteAccountAction(ctx *cli.Context) error {
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.AccountService().DeleteAccount(
		context.Background(), ctx.String(accountFlag.Name), passphrase,
	); err != nil {
		return err
	}
	fmt.Println("account deleted")
	return nil
}

type accountView struct {
	Address            string `json:"address"`
	Name               string `json:"name,omitempty"`
	LastSequenceNumber uint64 `json:"lastSequenceNumber"`
	CreatedAt          int64  `json:"createdAt"`
}

// accountsView leaves the encrypted keys out.
func accountsView(accounts []domain.Account) []accountView {
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, accountView{
			Address:            a.Address,
			Name:               a.Name,
			LastSequenceNumber: a.LastSequenceNumber,
			CreatedAt:          a.CreatedAt,
		})
	}
	return views
}
