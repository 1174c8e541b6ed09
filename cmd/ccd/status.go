package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/ccd-network/ccdkit/internal/config"
	"github.com/ccd-network/ccdkit/internal/core/application"
	"github.com/ccd-network/ccdkit/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var submit = cli.Command{
	Name:   "submit",
	Usage:  "submit a transaction signed offline",
	Action: submitAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "item",
			Usage:    "hex encoded block item",
			Required: true,
		},
	},
}

var sequenceNumber = cli.Command{
	Name:   "seqnum",
	Usage:  "get the next sequence number of an account",
	Action: sequenceNumberAction,
	Flags:  []cli.Flag{accountFlag},
}

var status = cli.Command{
	Name:      "status",
	Usage:     "get the status of a transaction",
	ArgsUsage: "<hash>",
	Action:    statusAction,
}

var wait = cli.Command{
	Name:      "wait",
	Usage:     "wait for the finalization of one or more transactions",
	ArgsUsage: "<hash> [<hash>...]",
	Action:    waitAction,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "pending",
			Usage: "wait for all transactions not finalized yet",
		},
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "serve prometheus metrics while waiting",
		},
	},
}

var transactions = cli.Command{
	Name:   "transactions",
	Usage:  "list the transactions sent from this machine, latest first",
	Action: listTransactionsAction,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "account",
			Usage: "address or name of the sender",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "page number, starting from 1",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "page-size",
			Usage: "transactions per page",
			Value: 10,
		},
	},
}

func submitAction(ctx *cli.Context) error {
	item, err := hex.DecodeString(strings.TrimSpace(ctx.String("item")))
	if err != nil {
		return fmt.Errorf("invalid block item: %w", err)
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	tx, err := svc.TransactionService().SubmitBlockItem(context.Background(), item)
	if err != nil {
		return err
	}
	printJSON(tx)
	return nil
}

func sequenceNumberAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	next, err := svc.TransactionService().SequenceNumber(
		context.Background(), ctx.String(accountFlag.Name),
	)
	if err != nil {
		return err
	}
	printJSON(map[string]interface{}{
		"sequenceNumber": next.SequenceNumber,
		"allFinal":       next.AllFinal,
	})
	return nil
}

func statusAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "status"}
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	tx, err := svc.TransactionService().TransactionStatus(
		context.Background(), ctx.Args().First(),
	)
	if err != nil {
		return err
	}
	printJSON(tx)
	return nil
}

func waitAction(ctx *cli.Context) error {
	hashes := ctx.Args().Slice()
	pending := ctx.Bool("pending")
	if len(hashes) <= 0 && !pending {
		return &invalidUsageError{ctx, "wait"}
	}

	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	if ctx.Bool("metrics") || config.GetBool(config.EnableMetricsKey) {
		serveMetrics(config.GetString(config.MetricsAddrKey))
	}

	if pending {
		txs, err := svc.TransactionService().ListPendingTransactions(
			context.Background(),
		)
		if err != nil {
			return err
		}
		for _, tx := range txs {
			hashes = append(hashes, tx.Hash)
		}
		if len(hashes) <= 0 {
			fmt.Println("no pending transactions")
			return nil
		}
	}
	return waitAndPrint(svc, hashes)
}

func waitAndPrint(svc *application.Config, hashes []string) error {
	txs, err := svc.TransactionService().WaitForAll(context.Background(), hashes)
	if err != nil {
		return err
	}
	if len(txs) == 1 {
		printJSON(txs[0])
		return nil
	}
	printJSON(txs)
	return nil
}

func listTransactionsAction(ctx *cli.Context) error {
	svc, cleanup, err := getServices()
	if err != nil {
		return err
	}
	defer cleanup()

	page := domain.NewPage(ctx.Int("page"), ctx.Int("page-size"))
	txs, err := svc.TransactionService().ListTransactions(
		context.Background(), ctx.String("account"), &page,
	)
	if err != nil {
		return err
	}
	printJSON(txs)
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Infof("serving metrics on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.WithError(err).Warn("metrics endpoint stopped")
		}
	}()
}
