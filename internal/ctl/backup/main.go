// Package backup implements the snapshot commands: create, list, validate
// and restore.
package backup

import (
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration snapshots",
	Args:  cobra.NoArgs,
}
