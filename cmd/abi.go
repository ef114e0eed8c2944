package cmd

import (
	"fmt"
	"sort"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

var abiCmd = &cobra.Command{
	Use:   "abi <contract name>",
	Short: "Show the resolved ABI of a contract as method and event signatures",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		a, err := app.resolver.ResolveABI(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		methods := make([]string, 0, len(a.Methods))
		for _, m := range a.Methods {
			methods = append(methods, m.Sig)
		}
		sort.Strings(methods)
		for _, sig := range methods {
			fmt.Println(sig)
		}

		events := make([]string, 0, len(a.Events))
		for _, e := range a.Events {
			events = append(events, e.Sig)
		}
		sort.Strings(events)
		for _, sig := range events {
			fmt.Println(aurora.Cyan("event " + sig))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(abiCmd)
}
