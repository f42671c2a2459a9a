package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/backup"
)

func init() {
	Cmd.AddCommand(validateCtl)
}

var validateCtl = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a snapshot file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := backup.Validate(args[0]); err != nil {
			return fmt.Errorf("invalid backup %s: %w", args[0], err)
		}
		fmt.Printf("%s is a valid backup\n", args[0])
		return nil
	},
}
