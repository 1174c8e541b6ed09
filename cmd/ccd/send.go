package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ccd-network/ccdkit/internal/core/application"
	"github.com/ccd-network/ccdkit/pkg/cis2"
	"github.com/ccd-network/ccdkit/pkg/mathutil"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/urfave/cli/v2"
)

var sendFlags = []cli.Flag{
	accountFlag,
	passphraseFlag,
	&cli.BoolFlag{
		Name:  "wait",
		Usage: "wait for the transaction to be finalized",
	},
	&cli.BoolFlag{
		Name:  "offline",
		Usage: "print the signed transaction instead of sending it",
	},
	&cli.Uint64Flag{
		Name:  "sequence",
		Usage: "sequence number to sign with when offline, queried from the node if not set",
	},
}

var send = cli.Command{
	Name:  "send",
	Usage: "sign and send a transaction",
	Subcommands: []*cli.Command{
		{
			Name:   "transfer",
			Usage:  "transfer CCD to an account",
			Action: transferAction,
			Flags: append([]cli.Flag{
				receiverFlag,
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "amount of CCD, with up to 6 decimals",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "memo",
					Usage: "hex encoded memo attached to the transfer",
				},
			}, sendFlags...),
		},
		{
			Name:   "token",
			Usage:  "transfer CIS-2 tokens to an account",
			Action: tokenTransferAction,
			Flags: append([]cli.Flag{
				receiverFlag,
				&cli.StringFlag{
					Name:     "contract",
					Usage:    "address of the token contract as <index,subindex>",
					Required: true,
				},
				&cli.StringFlag{
					Name:     "contract-name",
					Usage:    "name of the token contract",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "token-id",
					Usage: "hex encoded token id",
				},
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "amount of tokens",
					Required: true,
				},
				&cli.IntFlag{
					Name:  "decimals",
					Usage: "decimals of the token",
				},
				&cli.Uint64Flag{
					Name:  "max-energy",
					Usage: "energy allowed for the contract execution",
					Value: 10000,
				},
			}, sendFlags...),
		},
		{
			Name:   "data",
			Usage:  "register data on chain",
			Action: registerDataAction,
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "data",
					Usage:    "hex encoded data",
					Required: true,
				},
			}, sendFlags...),
		},
	},
}

var receiverFlag = &cli.StringFlag{
	Name:     "to",
	Usage:    "address of the receiver account",
	Required: true,
}

func transferAction(ctx *cli.Context) error {
	receiver, err := types.AccountAddressFromBase58(ctx.String("to"))
	if err != nil {
		return err
	}
	amount, err := mathutil.ParseCCD(ctx.String("amount"))
	if err != nil {
		return err
	}

	var tx transaction.AccountTransaction
	if memoHex := ctx.String("memo"); memoHex != "" {
		b, err := hex.DecodeString(memoHex)
		if err != nil {
			return fmt.Errorf("invalid memo: %w", err)
		}
		memo, err := types.NewMemo(b)
		if err != nil {
			return err
		}
		tx = transaction.NewTransferWithMemo(types.AccountAddress{}, receiver, amount, memo)
	} else {
		tx = transaction.NewTransfer(types.AccountAddress{}, receiver, amount)
	}

	return sendTransaction(ctx, tx)
}

func tokenTransferAction(ctx *cli.Context) error {
	receiver, err := types.AccountAddressFromBase58(ctx.String("to"))
	if err != nil {
		return err
	}
	contract, err := parseContractAddress(ctx.String("contract"))
	if err != nil {
		return err
	}
	name, err := types.NewContractName(ctx.String("contract-name"))
	if err != nil {
		return err
	}
	rawID, err := hex.DecodeString(ctx.String("token-id"))
	if err != nil {
		return fmt.Errorf("invalid token id: %w", err)
	}
	tokenID, err := cis2.NewTokenID(rawID)
	if err != nil {
		return err
	}
	units, err := mathutil.ParseUnits(ctx.String("amount"), int32(ctx.Int("decimals")))
	if err != nil {
		return err
	}
	amount, err := cis2.NewTokenAmount(units)
	if err != nil {
		return err
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	// The sender is the owner of the tokens, so it must be known upfront.
	acc, err := svc.AccountService().GetAccount(
		context.Background(), ctx.String(accountFlag.Name),
	)
	if err != nil {
		return err
	}
	sender, err := acc.AccountAddress()
	if err != nil {
		return err
	}

	tx, err := cis2.NewTransferTransaction(
		sender, contract, name,
		cis2.TransferParameter{{
			TokenID: tokenID,
			Amount:  amount,
			From:    cis2.AccountAddress(sender),
			To:      cis2.AccountReceiver(receiver),
		}},
		types.Energy(ctx.Uint64("max-energy")),
	)
	if err != nil {
		return err
	}

	return sendWith(ctx, svc, tx)
}

func registerDataAction(ctx *cli.Context) error {
	b, err := hex.DecodeString(ctx.String("data"))
	if err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	data, err := types.NewRegisteredData(b)
	if err != nil {
		return err
	}
	return sendTransaction(ctx, transaction.NewRegisterData(types.AccountAddress{}, data))
}

func sendTransaction(ctx *cli.Context, tx transaction.AccountTransaction) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	return sendWith(ctx, svc, tx)
}

func sendWith(
	ctx *cli.Context, svc *application.Config, tx transaction.AccountTransaction,
) error {
	passphrase, err := getPassphrase(ctx)
	if err != nil {
		return err
	}
	req := application.SendRequest{
		Account:     ctx.String(accountFlag.Name),
		Passphrase:  passphrase,
		Transaction: tx,
	}

	if ctx.Bool("offline") {
		signed, err := svc.TransactionService().SignOffline(
			context.Background(), application.SignOfflineRequest{
				SendRequest:    req,
				SequenceNumber: types.SequenceNumber(ctx.Uint64("sequence")),
			},
		)
		if err != nil {
			return err
		}
		printJSON(map[string]string{
			"hash":      signed.Hash().String(),
			"blockItem": hex.EncodeToString(signed.BlockItemBytes()),
		})
		return nil
	}

	sent, err := svc.TransactionService().Send(context.Background(), req)
	if err != nil {
		return err
	}
	if !ctx.Bool("wait") {
		printJSON(sent)
		return nil
	}
	return waitAndPrint(svc, []string{sent.Hash})
}

// parseContractAddress accepts "<index,subindex>" or "index,subindex".
func parseContractAddress(s string) (types.ContractAddress, error) {
	s = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(s), "<"), ">")
	var addr types.ContractAddress
	if _, err := fmt.Sscanf(s, "%d,%d", &addr.Index, &addr.Subindex); err != nil {
		return types.ContractAddress{}, fmt.Errorf("invalid contract address %q", s)
	}
	return addr, nil
}
