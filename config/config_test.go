package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rocketresolve.yaml")
	content := `
log_level: debug
nodes:
  primary: http://node:8545
  mainnet: http://mainnet:8545
rocketpool:
  abi_dir: /tmp/contracts
  multicall: "0xeefBa1e63905eF1D7ACbA5a8513c70307C1cE441"
  manual_addresses:
    - name: rocketStorage
      address: "0x1d8f8f00cfa6758d7bE78336684788Fb0ee0Fa46"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "http://node:8545", cfg.PrimaryNode)
	require.Equal(t, "http://mainnet:8545", cfg.MainnetNode)
	require.Equal(t, "/tmp/contracts", cfg.ABIDir)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, DefaultCacheCapacity, cfg.CacheCapacity)

	seed := cfg.SeedAddresses()
	require.Equal(t,
		common.HexToAddress("0x1d8f8f00cfa6758d7bE78336684788Fb0ee0Fa46"),
		seed["rocketStorage"],
	)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLogLvl(t *testing.T) {
	for level, want := range map[string]interface{}{
		"trace":   log.LevelTrace,
		"debug":   log.LevelDebug,
		"info":    log.LevelInfo,
		"warning": log.LevelWarn,
		"error":   log.LevelError,
		"crit":    log.LevelCrit,
		"bogus":   log.LevelInfo,
	} {
		cfg := &Config{LogLevel: level}
		require.Equal(t, want, cfg.LogLvl(), "level %s", level)
	}
}
