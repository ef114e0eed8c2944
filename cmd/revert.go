package cmd

import (
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <tx hash>",
	Short: "Replay a mined transaction and print its revert reason",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		tx, err := app.primary.TransactionInfo(cmd.Context(), ethcommon.HexToHash(args[0]))
		if err != nil {
			return err
		}
		reason, err := app.router.DecodeRevertReason(cmd.Context(), tx)
		if err != nil {
			return err
		}
		if reason == "" {
			fmt.Println(aurora.Green("transaction did not revert when replayed"))
			return nil
		}
		fmt.Println(aurora.Red(reason))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
}
