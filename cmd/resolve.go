package cmd

import (
	"fmt"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <contract name>",
	Short: "Resolve a contract name to its on-chain address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		addr, err := app.resolver.ResolveAddress(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", args[0], aurora.Green(addr.Hex()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
