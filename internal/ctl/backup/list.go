package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/backup"
	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/hlog"
)

func init() {
	Cmd.AddCommand(listCtl)
}

var listCtl = &cobra.Command{
	Use:   "list",
	Short: "List available snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := backup.NewManager(hlog.Logger, nil, options.BackupDir())
		infos, err := mgr.List()
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(infos)
		}
		if len(infos) == 0 {
			fmt.Println("No backups found")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%s  %s  %d bytes", info.File, info.Created.Format("2006-01-02 15:04:05"), info.Size)
			if info.Host != "" {
				fmt.Printf("  host=%s systems=%d", info.Host, info.Systems)
			}
			fmt.Println()
		}
		return nil
	},
}
