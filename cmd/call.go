package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rocketwatch/resolver/router"
)

var callCmd = &cobra.Command{
	Use:   "call <contract.function> [args...]",
	Short: "Call a contract function read-only and print the decoded results",
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
		values, err := app.router.CallValues(cmd.Context(), args[0], callOpts(), coerced...)
		if err != nil {
			return err
		}
		for _, value := range values {
			fmt.Printf("%v\n", value)
		}
		return nil
	},
}

func init() {
	callCmd.Flags().Int64VarP(&atBlock, "block", "b", -1, "block to call at (negative for latest)")
	callCmd.Flags().BoolVar(&onMainnet, "mainnet", false, "dispatch against the mainnet client")
	callCmd.Flags().StringVar(&addressFlag, "address", "", "override the resolved contract address")
	rootCmd.AddCommand(callCmd)
}

// coercePathArgs resolves the path's contract to learn the function's
// input types and converts the raw CLI strings accordingly.
func coercePathArgs(ctx context.Context, app *app, path string, raw []string) ([]interface{}, error) {
	name, function, err := router.ParsePath(path)
	if err != nil {
		return nil, err
	}
	a, err := app.resolver.ResolveABI(ctx, name)
	if err != nil {
		return nil, err
	}
	method, found := a.Methods[function]
	if !found {
		return nil, fmt.Errorf("function %s not found on %s", function, name)
	}
	return coerceArgs(method.Inputs, raw)
}
