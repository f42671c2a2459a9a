package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/backup"
	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/hlog"
)

var createFile string

func init() {
	createCtl.Flags().StringVarP(&createFile, "output", "o", "", "Snapshot file (default: timestamped file in the backup directory)")
	Cmd.AddCommand(createCtl)
}

var createCtl = &cobra.Command{
	Use:   "create",
	Short: "Create a new snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		mgr := backup.NewManager(hlog.Logger, client, options.BackupDir())
		file, err := mgr.Create(cmd.Context(), createFile)
		if err != nil {
			return err
		}
		fmt.Printf("Backup saved to %s\n", file)
		return nil
	},
}
