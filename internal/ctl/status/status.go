// Package status implements the command that prints one zone's state.
package status

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var (
	systemID int
	zoneID   int
)

func init() {
	Cmd.Flags().IntVar(&systemID, "system", 0, "System ID")
	Cmd.Flags().IntVar(&zoneID, "zone", 0, "Zone ID")
	Cmd.MarkFlagRequired("system")
	Cmd.MarkFlagRequired("zone")
}

var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Get zone status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		data, err := client.Zone(cmd.Context(), systemID, zoneID, options.Flags.ForceRefresh)
		if err != nil {
			// A missing zone is a report, not a failure.
			if errors.Is(err, airzone.ErrNotFound) {
				fmt.Printf("Zone %d not found in system %d\n", zoneID, systemID)
				return nil
			}
			return err
		}
		zone, err := airzone.NewZone(client, systemID, zoneID, data)
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(data)
		}

		fmt.Printf("Zone: %s (System %d, Zone %d)\n", zone.Name(), systemID, zoneID)
		state := "Off"
		if zone.IsOn() {
			state = "On"
		}
		fmt.Printf("  State: %s\n", state)
		fmt.Printf("  Mode: %s\n", zone.ModeName())
		fmt.Printf("  Temperature: %.1f°C\n", zone.RoomTemp())
		fmt.Printf("  Setpoint: %.1f°C\n", zone.Setpoint())
		fmt.Printf("  Humidity: %d%%\n", zone.Humidity())
		if speeds := zone.AvailableFanSpeeds(); len(speeds) > 0 {
			fmt.Printf("  Fan speed: %d (available: %v)\n", zone.FanSpeed(), speeds)
		}
		if zone.SleepTimer() > 0 {
			fmt.Printf("  Sleep timer: %d min\n", zone.SleepTimer())
		}
		if zone.HasAirQuality() {
			fmt.Println("  Air quality: supported")
		}
		if zone.HasErrors() {
			fmt.Printf("  Errors: %v\n", zone.Errors())
		}
		return nil
	},
}
