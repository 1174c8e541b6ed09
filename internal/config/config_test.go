package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccd-network/ccdkit/pkg/walletseed"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("CCD_DATADIR", datadir)
	t.Setenv("CCD_NETWORK", "Testnet")
	t.Setenv("CCD_STATUS_POLL_INTERVAL", "500ms")

	require.NoError(t, InitConfig())

	require.Equal(t, datadir, GetDatadir())
	require.Equal(t, walletseed.Testnet, GetNetwork())
	require.Equal(t, 500*time.Millisecond, GetDuration(StatusPollIntervalKey))
	require.Equal(t, 5*time.Minute, GetDuration(TxExpiryKey))
	require.Equal(t, log.InfoLevel, GetLogLevel())

	info, err := os.Stat(filepath.Join(datadir, DbLocation))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	t.Setenv(EnvKey(NodeAddrKey), "node:20001")
	require.Equal(t, "node:20001", GetString(NodeAddrKey))
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown network", "CCD_NETWORK", "regtest"},
		{"unknown db", "CCD_DB_TYPE", "postgres"},
		{"log level out of range", "CCD_LOG_LEVEL", "9"},
		{"zero tx expiry", "CCD_TX_EXPIRY", "0s"},
		{"zero poll rate", "CCD_STATUS_POLL_RATE", "0"},
		{"negative retries", "CCD_MAX_RETRIES", "-1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CCD_DATADIR", t.TempDir())
			t.Setenv(tt.key, tt.val)
			require.Error(t, InitConfig())
		})
	}
}
