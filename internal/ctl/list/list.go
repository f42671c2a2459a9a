// Package list implements the command that prints every system and zone.
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List all systems and zones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()
		ctx := cmd.Context()

		systems, err := client.AllSystems(ctx, options.Flags.ForceRefresh)
		if err != nil {
			return err
		}
		zones, err := client.AllZones(ctx, options.Flags.ForceRefresh)
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(buildOverview(systems, zones))
		}

		for i := range systems {
			sys := &systems[i]
			name := sys.Name
			if name == "" {
				name = fmt.Sprintf("System %d", sys.SystemID)
			}
			fmt.Printf("System %d: %s\n", sys.SystemID, name)
			if sys.Manufacturer != "" {
				fmt.Printf("  Manufacturer: %s\n", sys.Manufacturer)
			}
			if sys.Firmware != "" {
				fmt.Printf("  Firmware: %s\n", sys.Firmware)
			}
			if len(sys.Errors) > 0 {
				fmt.Printf("  Errors: %v\n", sys.Errors)
			}
			for j := range zones {
				z := &zones[j]
				if z.SystemID != sys.SystemID {
					continue
				}
				state := "Off"
				if z.On != nil && *z.On == 1 {
					state = "On"
				}
				fmt.Printf("  Zone %d: %s [%s]", z.ID, z.Name, state)
				if z.RoomTemp != nil && z.Setpoint != nil {
					fmt.Printf(" %.1f°C -> %.1f°C", *z.RoomTemp, *z.Setpoint)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

type zoneOverview struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	On       bool     `json:"on"`
	RoomTemp *float64 `json:"room_temp,omitempty"`
	Setpoint *float64 `json:"setpoint,omitempty"`
}

type systemOverview struct {
	ID           int            `json:"id"`
	Name         string         `json:"name,omitempty"`
	Manufacturer string         `json:"manufacturer,omitempty"`
	Firmware     string         `json:"firmware,omitempty"`
	Zones        []zoneOverview `json:"zones"`
}

func buildOverview(systems []airzone.SystemData, zones []airzone.ZoneData) []systemOverview {
	out := make([]systemOverview, 0, len(systems))
	for i := range systems {
		sys := &systems[i]
		so := systemOverview{
			ID:           sys.SystemID,
			Name:         sys.Name,
			Manufacturer: sys.Manufacturer,
			Firmware:     sys.Firmware,
		}
		for j := range zones {
			z := &zones[j]
			if z.SystemID != sys.SystemID {
				continue
			}
			so.Zones = append(so.Zones, zoneOverview{
				ID:       z.ID,
				Name:     z.Name,
				On:       z.On != nil && *z.On == 1,
				RoomTemp: z.RoomTemp,
				Setpoint: z.Setpoint,
			})
		}
		out = append(out, so)
	}
	return out
}
