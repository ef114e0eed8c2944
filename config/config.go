// Package config loads the static configuration of the resolver:
// node endpoints, manual name→address overrides, the local ABI override
// directory and the log level. Configuration is read once at
// construction; the resolver re-reads nothing at runtime.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/viper"
)

const DefaultCacheCapacity = 2048

// ManualAddress is one configured name→address override.
type ManualAddress struct {
	Name    string `mapstructure:"name"`
	Address string `mapstructure:"address"`
}

type Config struct {
	// PrimaryNode is the RPC endpoint of the chain the protocol lives
	// on. MainnetNode is the secondary endpoint used for cross-network
	// lookups; it may be empty if no mainnet calls are needed.
	PrimaryNode string
	MainnetNode string

	// ManualAddresses seeds the name→address registry at construction
	// and on every flush. It must contain "rocketStorage": all other
	// addresses are resolved through that contract. A list rather than
	// a map because viper lowercases map keys, and contract names are
	// case-sensitive.
	ManualAddresses []ManualAddress

	// ABIDir holds local ABI override files named <contract>.abi.json.
	// A file there always wins over the on-chain ABI.
	ABIDir string

	// MulticallAddress is the aggregate contract used to batch reads.
	// Empty disables batching entirely.
	MulticallAddress string

	LogLevel      string
	CacheCapacity int
}

// Load reads configuration from defaults, an optional config file and
// ROCKETRESOLVE_* environment variables, in increasing precedence.
// Pass an empty path to search the working directory for
// rocketresolve.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log_level", "info")
	v.SetDefault("cache.capacity", DefaultCacheCapacity)
	v.SetDefault("nodes.primary", "http://localhost:8545")
	v.SetDefault("nodes.mainnet", "")
	v.SetDefault("rocketpool.abi_dir", "./contracts")
	v.SetDefault("rocketpool.multicall", "")
	v.SetDefault("rocketpool.manual_addresses", []ManualAddress{})

	v.SetEnvPrefix("ROCKETRESOLVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rocketresolve")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config failed: %w", err)
		}
	}

	var manual []ManualAddress
	if err := v.UnmarshalKey("rocketpool.manual_addresses", &manual); err != nil {
		return nil, fmt.Errorf("parsing manual addresses failed: %w", err)
	}

	return &Config{
		PrimaryNode:      v.GetString("nodes.primary"),
		MainnetNode:      v.GetString("nodes.mainnet"),
		ManualAddresses:  manual,
		ABIDir:           v.GetString("rocketpool.abi_dir"),
		MulticallAddress: v.GetString("rocketpool.multicall"),
		LogLevel:         v.GetString("log_level"),
		CacheCapacity:    v.GetInt("cache.capacity"),
	}, nil
}

// SeedAddresses parses the manual overrides into addresses usable as a
// registry seed.
func (c *Config) SeedAddresses() map[string]common.Address {
	seed := make(map[string]common.Address, len(c.ManualAddresses))
	for _, entry := range c.ManualAddresses {
		seed[entry.Name] = common.HexToAddress(entry.Address)
	}
	return seed
}

// LogLvl maps the configured level string onto the geth log levels.
// Unknown values fall back to info.
func (c *Config) LogLvl() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "info":
		return log.LevelInfo
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	case "crit":
		return log.LevelCrit
	}
	return log.LevelInfo
}
