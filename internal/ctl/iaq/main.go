// Package iaq implements the indoor air quality sensor commands.
package iaq

import (
	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "iaq",
	Short: "Manage indoor air quality sensors",
	Args:  cobra.NoArgs,
}
