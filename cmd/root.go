package cmd

import (
	"context"
	"fmt"
	"os"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"

	"github.com/rocketwatch/resolver/config"
	"github.com/rocketwatch/resolver/reader"
	"github.com/rocketwatch/resolver/resolver"
	"github.com/rocketwatch/resolver/router"
)

var (
	configFile  string
	atBlock     int64
	onMainnet   bool
	addressFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rocketresolve",
	Short: "Resolve and call Rocket Pool contracts by name",
	Long: `rocketresolve resolves named Rocket Pool contracts into callable
handles and dispatches read-only calls against them.

Addresses come from the configured manual overrides first and from the
rocketStorage contract otherwise; ABIs come from local override files,
a small embedded set, or the compressed ABI strings rocketStorage
holds on-chain. Both steps are cached until the process exits.

Configuration is read from rocketresolve.yaml in the working directory
(override with --config) and from ROCKETRESOLVE_* environment
variables. The manual address overrides must include rocketStorage:
every other lookup goes through it.`,
	SilenceUsage: true,
}

// app bundles what every subcommand needs.
type app struct {
	cfg      *config.Config
	primary  *reader.Client
	resolver *resolver.Resolver
	router   *router.Router
}

func loadApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	handler := log.NewTerminalHandlerWithLevel(os.Stderr, cfg.LogLvl(), true)
	log.SetDefault(log.NewLogger(handler))

	primary := reader.NewClient("primary", cfg.PrimaryNode)
	var mainnet resolver.Caller
	if cfg.MainnetNode != "" {
		mainnet = reader.NewClient("mainnet", cfg.MainnetNode)
	}
	rv := resolver.New(ctx, cfg, primary, mainnet)
	return &app{
		cfg:      cfg,
		primary:  primary,
		resolver: rv,
		router:   router.New(rv),
	}, nil
}

func callOpts() router.CallOpts {
	opts := router.CallOpts{
		Block:   atBlock,
		Mainnet: onMainnet,
	}
	if addressFlag != "" {
		addr := ethcommon.HexToAddress(addressFlag)
		opts.Address = &addr
	}
	return opts
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, aurora.Red(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "c", "",
		"config file (default ./rocketresolve.yaml)",
	)
}
