// Package errors implements the command that scans every system and zone
// for error flags and explains the known error codes.
package errors

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/diag"
	"github.com/hvactools/airzonectl/internal/hlog"
)

var saveLog bool

func init() {
	Cmd.Flags().BoolVar(&saveLog, "save-log", false, "Save findings as JSON under logs/")
}

var Cmd = &cobra.Command{
	Use:   "errors",
	Short: "Check for system errors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		if ws, err := client.Webserver(cmd.Context(), options.Flags.ForceRefresh); err == nil && !options.Flags.Json {
			fmt.Println("===== WEBSERVER INFORMATION =====")
			fmt.Printf("MAC Address: %s\n", orUnknown(ws.MAC))
			fmt.Printf("Firmware: %s\n", orUnknown(ws.Firmware))
			fmt.Printf("Interface: %s\n", orUnknown(ws.Interface))
		}

		findings, err := diag.Collect(cmd.Context(), hlog.Logger, client)
		if err != nil {
			return err
		}

		if saveLog && len(findings) > 0 {
			file, err := diag.SaveLog(findings, "")
			if err != nil {
				hlog.Logger.Error(err, "Unable to save error log")
			} else {
				fmt.Printf("Error details saved to %s\n", file)
			}
		}

		if options.Flags.Json {
			return options.PrintResult(findings)
		}
		diag.PrintReport(os.Stdout, findings)
		return nil
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
