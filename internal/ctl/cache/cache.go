// Package cache implements the cache maintenance commands.
package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
)

var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
	Args:  cobra.NoArgs,
}

func init() {
	Cmd.AddCommand(clearCtl)
}

var clearCtl = &cobra.Command{
	Use:   "clear [KEY]",
	Short: "Clear cached responses, or a single cache key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		key := ""
		if len(args) == 1 {
			key = args[0]
		}
		if !client.InvalidateCache(key) {
			return fmt.Errorf("unable to clear cache")
		}
		if key != "" {
			fmt.Printf("Cleared cache key %s\n", key)
		} else {
			fmt.Println("Cache cleared")
		}
		return nil
	},
}
