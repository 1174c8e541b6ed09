package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/ccd-network/ccdkit/internal/core/application"
	"github.com/ccd-network/ccdkit/pkg/walletseed"
	log "github.com/sirupsen/logrus"

	"github.com/spf13/viper"
)

const (
	// NodeAddrKey is the address <host:port> of the gRPC interface of the
	// node to connect to
	NodeAddrKey = "NODE_ADDR"
	// NodeTLSKey enables TLS on the connection to the node
	NodeTLSKey = "NODE_TLS"
	// NetworkKey is either mainnet or testnet, and selects the key
	// derivation paths of seed phrase wallets
	NetworkKey = "NETWORK"
	// DatadirKey is the local data directory to store accounts and
	// transactions
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// RequestTimeoutKey is the deadline of every request made to the node
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// MaxRetriesKey is the number of times a failed idempotent request to the
	// node is retried
	MaxRetriesKey = "MAX_RETRIES"
	// StatusPollIntervalKey is the time waited between two status queries
	// for the same transaction
	StatusPollIntervalKey = "STATUS_POLL_INTERVAL"
	// StatusPollRateKey caps the number of status queries per second
	StatusPollRateKey = "STATUS_POLL_RATE"
	// TxExpiryKey is how long a signed transaction stays valid
	TxExpiryKey = "TX_EXPIRY"
	// EnableMetricsKey serves prometheus metrics while waiting for
	// transactions
	EnableMetricsKey = "ENABLE_METRICS"
	// MetricsAddrKey is the address the metrics endpoint listens on
	MetricsAddrKey = "METRICS_ADDR"

	DbLocation = "db"

	envPrefix = "CCD"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("ccdkit", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix(envPrefix)
	vip.AutomaticEnv()

	vip.SetDefault(NodeAddrKey, "localhost:20000")
	vip.SetDefault(NodeTLSKey, false)
	vip.SetDefault(NetworkKey, "mainnet")
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(DBTypeKey, application.DBBadger)
	vip.SetDefault(RequestTimeoutKey, 10*time.Second)
	vip.SetDefault(MaxRetriesKey, 3)
	vip.SetDefault(StatusPollIntervalKey, 2*time.Second)
	vip.SetDefault(StatusPollRateKey, 10)
	vip.SetDefault(TxExpiryKey, 5*time.Minute)
	vip.SetDefault(EnableMetricsKey, false)
	vip.SetDefault(MetricsAddrKey, "localhost:9100")

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

// EnvKey returns the environment variable read for key.
func EnvKey(key string) string {
	return envPrefix + "_" + key
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetNetwork() walletseed.Network {
	// Validated by InitConfig.
	net, _ := walletseed.ParseNetwork(GetString(NetworkKey))
	return net
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if len(GetString(NodeAddrKey)) <= 0 {
		return fmt.Errorf("missing node address")
	}

	if _, err := walletseed.ParseNetwork(GetString(NetworkKey)); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if _, ok := application.SupportedDBType[dbType]; !ok {
		return fmt.Errorf("db type not supported: %s", dbType)
	}

	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf("log level must be in range [0, 6]")
	}

	for _, key := range []string{
		RequestTimeoutKey, StatusPollIntervalKey, TxExpiryKey,
	} {
		if GetDuration(key) <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}
	if GetInt(StatusPollRateKey) <= 0 {
		return fmt.Errorf("%s must be greater than zero", StatusPollRateKey)
	}
	if GetInt(MaxRetriesKey) < 0 {
		return fmt.Errorf("%s must not be negative", MaxRetriesKey)
	}

	return nil
}

func initDatadir() error {
	if GetString(DBTypeKey) != application.DBBadger {
		return nil
	}
	return makeDirectoryIfNotExists(GetDbDir())
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
