package backup

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/backup"
	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/hlog"
)

var dryRun bool

func init() {
	restoreCtl.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	Cmd.AddCommand(restoreCtl)
}

var restoreCtl = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore zone parameters from a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		mgr := backup.NewManager(hlog.Logger, client, options.BackupDir())
		report, err := mgr.Restore(cmd.Context(), args[0], dryRun)
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(report)
		}

		if report.DryRun {
			fmt.Println("Dry run: no changes applied")
		}
		for _, ch := range report.Changes {
			fmt.Printf("  %s (system %d, zone %d): %s = %v\n",
				ch.ZoneName, ch.SystemID, ch.ZoneID, ch.Parameter, ch.Value)
		}
		for _, missing := range report.Missing {
			fmt.Printf("  Not on device: %s\n", missing)
		}
		for _, failed := range report.Failed {
			fmt.Printf("  Failed: %s\n", failed)
		}
		if report.DryRun {
			fmt.Printf("%d zone(s) would be restored\n", report.Restored)
		} else {
			fmt.Printf("%d zone(s) restored\n", report.Restored)
		}
		return nil
	},
}
