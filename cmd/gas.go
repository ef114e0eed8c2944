package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gasCmd = &cobra.Command{
	Use:   "gas <contract.function> [args...]",
	Short: "Estimate the gas a contract call would use",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		coerced, err := coercePathArgs(cmd.Context(), app, args[0], args[1:])
		if err != nil {
			return err
		}
		gas, err := app.router.EstimateGas(cmd.Context(), args[0], callOpts(), coerced...)
		if err != nil {
			return err
		}
		fmt.Printf("%d\n", gas)
		return nil
	},
}

func init() {
	gasCmd.Flags().Int64VarP(&atBlock, "block", "b", -1, "block to estimate at (negative for latest)")
	gasCmd.Flags().StringVar(&addressFlag, "address", "", "override the resolved contract address")
	rootCmd.AddCommand(gasCmd)
}
