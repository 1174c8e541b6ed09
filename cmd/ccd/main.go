package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/ccd-network/ccdkit/internal/config"
	"github.com/ccd-network/ccdkit/internal/core/application"
	"github.com/ccd-network/ccdkit/internal/infrastructure/nodeclient"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	nodeFlag = &cli.StringFlag{
		Name:  "node",
		Usage: "address <host:port> of the node gRPC interface",
	}
	tlsFlag = &cli.BoolFlag{
		Name:  "tls",
		Usage: "connect to the node over TLS",
	}
	networkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "mainnet or testnet",
	}
	datadirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "directory where accounts and transactions are stored",
	}
	logLevelFlag = &cli.IntFlag{
		Name:  "log-level",
		Usage: "logrus level, from 0 (panic) to 6 (trace)",
	}

	accountFlag = &cli.StringFlag{
		Name:     "account",
		Usage:    "address or name of the account",
		Required: true,
	}
	passphraseFlag = &cli.StringFlag{
		Name:    "passphrase",
		Usage:   "passphrase encrypting the account keys",
		EnvVars: []string{"CCD_PASSPHRASE"},
	}
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "ccd"
	app.Usage = "Command line interface for Concordium accounts and transactions"
	app.Flags = []cli.Flag{
		nodeFlag, tlsFlag, networkFlag, datadirFlag, logLevelFlag,
	}
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&account,
		&walletCommand,
		&send,
		&submit,
		&sequenceNumber,
		&status,
		&wait,
		&transactions,
	)

	err := app.Run(os.Args)
	if err != nil {
		fatal(err)
	}
}

// initConfig lets global flags override the environment, then loads and
// validates the configuration.
func initConfig(ctx *cli.Context) error {
	overrides := map[string]string{}
	for flag, key := range map[string]string{
		nodeFlag.Name:    config.NodeAddrKey,
		networkFlag.Name: config.NetworkKey,
		datadirFlag.Name: config.DatadirKey,
	} {
		if ctx.IsSet(flag) {
			overrides[key] = ctx.String(flag)
		}
	}
	if ctx.IsSet(tlsFlag.Name) {
		overrides[config.NodeTLSKey] = strconv.FormatBool(ctx.Bool(tlsFlag.Name))
	}
	if ctx.IsSet(logLevelFlag.Name) {
		overrides[config.LogLevelKey] = strconv.Itoa(ctx.Int(logLevelFlag.Name))
	}
	for key, value := range overrides {
		if err := os.Setenv(config.EnvKey(key), value); err != nil {
			return err
		}
	}

	if err := config.InitConfig(); err != nil {
		return err
	}
	log.SetLevel(config.GetLogLevel())
	return nil
}

// getServices connects to the node and opens the local db.
func getServices() (*application.Config, func(), error) {
	node, err := nodeclient.NewService(nodeclient.Opts{
		Addr:       config.GetString(config.NodeAddrKey),
		TLS:        config.GetBool(config.NodeTLSKey),
		Timeout:    config.GetDuration(config.RequestTimeoutKey),
		MaxRetries: uint(config.GetInt(config.MaxRetriesKey)),
	})
	if err != nil {
		return nil, nil, err
	}

	appConfig := &application.Config{
		DBType:             config.GetString(config.DBTypeKey),
		DBConfig:           config.GetDbDir(),
		NodeClient:         node,
		TxExpiry:           config.GetDuration(config.TxExpiryKey),
		StatusPollInterval: config.GetDuration(config.StatusPollIntervalKey),
		StatusPollRate:     config.GetInt(config.StatusPollRateKey),
	}
	if err := appConfig.Validate(); err != nil {
		_ = node.Close()
		return nil, nil, err
	}

	cleanup := func() {
		appConfig.RepoManager().Close()
		if err := node.Close(); err != nil {
			log.WithError(err).Warn("failed to close node connection")
		}
	}
	return appConfig, cleanup, nil
}

func getPassphrase(ctx *cli.Context) (string, error) {
	passphrase := ctx.String(passphraseFlag.Name)
	if len(passphrase) <= 0 {
		return "", errors.New("missing passphrase, use --passphrase or CCD_PASSPHRASE")
	}
	return passphrase, nil
}

func printJSON(resp interface{}) {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}
	fmt.Println(string(jsonBytes))
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[ccd] %v\n", err)
	}
	os.Exit(1)
}
