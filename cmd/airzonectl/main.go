// airzonectl controls Airzone HVAC webservers over their local HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/config"
	"github.com/hvactools/airzonectl/internal/ctl/backup"
	"github.com/hvactools/airzonectl/internal/ctl/cache"
	"github.com/hvactools/airzonectl/internal/ctl/check"
	"github.com/hvactools/airzonectl/internal/ctl/control"
	"github.com/hvactools/airzonectl/internal/ctl/discover"
	ctlerrors "github.com/hvactools/airzonectl/internal/ctl/errors"
	"github.com/hvactools/airzonectl/internal/ctl/iaq"
	"github.com/hvactools/airzonectl/internal/ctl/list"
	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/ctl/status"
	"github.com/hvactools/airzonectl/internal/hlog"
)

var Commit string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "airzonectl",
	Short:        "Control Airzone HVAC systems over the local API",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		hlog.Init(options.Flags.Verbose, options.Flags.Debug)
		cfg, err := config.Load(options.Flags.Config)
		if err != nil {
			return err
		}
		options.Loaded = cfg
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&options.Flags.Verbose, "verbose", "v", false, "verbose output")
	pf.BoolVar(&options.Flags.Debug, "debug", false, "debug output")
	pf.BoolVar(&options.Flags.Json, "json", false, "output as JSON")
	pf.StringVar(&options.Flags.Host, "host", "", "Airzone device IP address")
	pf.IntVar(&options.Flags.Port, "port", 0, "Airzone API port")
	pf.DurationVar(&options.Flags.Timeout, "timeout", 0, "HTTP timeout")
	pf.BoolVar(&options.Flags.NoCache, "no-cache", false, "disable the response cache")
	pf.BoolVar(&options.Flags.ForceRefresh, "force-refresh", false, "bypass the cache for reads")
	pf.StringVar(&options.Flags.Config, "config", "", "config file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(list.Cmd)
	rootCmd.AddCommand(status.Cmd)
	rootCmd.AddCommand(control.Cmd)
	rootCmd.AddCommand(ctlerrors.Cmd)
	rootCmd.AddCommand(check.Cmd)
	rootCmd.AddCommand(iaq.Cmd)
	rootCmd.AddCommand(backup.Cmd)
	rootCmd.AddCommand(cache.Cmd)
	rootCmd.AddCommand(discover.Cmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Commit)
	},
}
