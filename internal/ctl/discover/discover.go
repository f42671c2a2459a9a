// Package discover implements mDNS discovery of Airzone webservers on the
// local network.
package discover

import (
	"context"
	"fmt"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/hlog"
)

const service = "_airzone._tcp"

var timeout time.Duration

func init() {
	Cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to browse for devices")
}

// Device is one discovered webserver.
type Device struct {
	Instance string   `json:"instance"`
	Host     string   `json:"host"`
	Addrs    []string `json:"addrs"`
	Port     int      `json:"port"`
}

var Cmd = &cobra.Command{
	Use:   "discover",
	Short: "Discover Airzone webservers on the local network",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return fmt.Errorf("mDNS resolver: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		entries := make(chan *zeroconf.ServiceEntry)
		if err := resolver.Browse(ctx, service, "local.", entries); err != nil {
			return fmt.Errorf("mDNS browse: %w", err)
		}

		var devices []Device
		for entry := range entries {
			d := Device{
				Instance: entry.Instance,
				Host:     entry.HostName,
				Port:     entry.Port,
			}
			for _, ip := range entry.AddrIPv4 {
				d.Addrs = append(d.Addrs, ip.String())
			}
			hlog.Logger.Info("Found device", "instance", d.Instance, "host", d.Host, "port", d.Port)
			devices = append(devices, d)
		}

		if options.Flags.Json {
			return options.PrintResult(devices)
		}
		if len(devices) == 0 {
			fmt.Println("No Airzone webservers found")
			return nil
		}
		for _, d := range devices {
			fmt.Printf("%s  %s  %v  port %d\n", d.Instance, d.Host, d.Addrs, d.Port)
		}
		return nil
	},
}
