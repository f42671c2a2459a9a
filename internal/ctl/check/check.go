// Package check implements the command that verifies the installation
// against the expected configuration: every configured system answers, and
// every expected zone name is present. Without an expected_zones config it
// checks whatever the device reports.
package check

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var Cmd = &cobra.Command{
	Use:   "check",
	Short: "Check system configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()
		ctx := cmd.Context()
		force := options.Flags.ForceRefresh

		result := report{
			Device:  deviceInfo{IP: client.Host(), Port: client.Port()},
			Systems: map[int]*systemReport{},
			Success: true,
		}

		if ws, err := client.Webserver(ctx, force); err == nil {
			result.Device.MAC = ws.MAC
			result.Device.Alias = ws.Alias
			result.Device.Firmware = ws.Firmware
		}

		systems, err := client.AllSystems(ctx, force)
		if err != nil {
			return err
		}
		zones, err := client.AllZones(ctx, force)
		if err != nil {
			return err
		}

		expected := expectedZones(systems)
		ids := make([]int, 0, len(expected))
		for id := range expected {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for _, id := range ids {
			sr := checkSystem(id, expected[id], systems, zones)
			result.Systems[id] = sr
			if !sr.Found || !sr.Zones.Complete {
				result.Success = false
			}
		}

		if options.Flags.Json {
			if err := options.PrintResult(result); err != nil {
				return err
			}
		} else {
			printReport(&result, ids)
		}
		if !result.Success {
			return fmt.Errorf("configuration check failed")
		}
		return nil
	},
}

type deviceInfo struct {
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	MAC      string `json:"mac,omitempty"`
	Alias    string `json:"alias,omitempty"`
	Firmware string `json:"firmware,omitempty"`
}

type zoneCheck struct {
	Expected []string `json:"expected"`
	Found    []string `json:"found"`
	Missing  []string `json:"missing"`
	Complete bool     `json:"complete"`
}

type systemReport struct {
	ID           int                   `json:"id"`
	Found        bool                  `json:"found"`
	Manufacturer string                `json:"manufacturer,omitempty"`
	Firmware     string                `json:"firmware,omitempty"`
	Errors       []airzone.ErrorRecord `json:"errors,omitempty"`
	Zones        zoneCheck             `json:"zones"`
}

type report struct {
	Device  deviceInfo            `json:"device"`
	Systems map[int]*systemReport `json:"systems"`
	Success bool                  `json:"success"`
}

// expectedZones returns the per-system expected zone names, from config when
// present, otherwise the systems the device itself reports.
func expectedZones(systems []airzone.SystemData) map[int][]string {
	out := map[int][]string{}
	if options.Loaded != nil {
		for key, names := range options.Loaded.ExpectedZones {
			if id, err := strconv.Atoi(key); err == nil {
				out[id] = names
			}
		}
	}
	if len(out) > 0 {
		return out
	}
	for i := range systems {
		out[systems[i].SystemID] = nil
	}
	return out
}

func checkSystem(id int, expected []string, systems []airzone.SystemData, zones []airzone.ZoneData) *systemReport {
	sr := &systemReport{ID: id, Zones: zoneCheck{Expected: expected}}

	for i := range systems {
		if systems[i].SystemID != id {
			continue
		}
		sr.Found = true
		sr.Manufacturer = systems[i].Manufacturer
		sr.Firmware = systems[i].Firmware
		sr.Errors = systems[i].Errors
		break
	}
	if !sr.Found {
		sr.Zones.Missing = expected
		return sr
	}

	found := map[string]bool{}
	for i := range zones {
		if zones[i].SystemID == id {
			sr.Zones.Found = append(sr.Zones.Found, zones[i].Name)
			found[zones[i].Name] = true
		}
	}
	for _, name := range expected {
		if !found[name] {
			sr.Zones.Missing = append(sr.Zones.Missing, name)
		}
	}
	sr.Zones.Complete = len(sr.Zones.Missing) == 0
	return sr
}

func printReport(result *report, ids []int) {
	fmt.Printf("Device: %s (%s)\n", orUnknown(result.Device.Alias), orUnknown(result.Device.MAC))
	fmt.Printf("IP: %s:%d\n", result.Device.IP, result.Device.Port)
	fmt.Printf("Firmware: %s\n", orUnknown(result.Device.Firmware))

	for _, id := range ids {
		sr := result.Systems[id]
		fmt.Printf("\nSystem %d - Found: %t\n", id, sr.Found)
		if !sr.Found {
			fmt.Println("  Missing system!")
			continue
		}
		fmt.Printf("  Manufacturer: %s\n", orUnknown(sr.Manufacturer))
		fmt.Printf("  Firmware: %s\n", orUnknown(sr.Firmware))
		if len(sr.Errors) > 0 {
			fmt.Printf("  Errors: %v\n", sr.Errors)
		}
		fmt.Printf("  Zones found: %v\n", sr.Zones.Found)
		if len(sr.Zones.Missing) > 0 {
			fmt.Printf("  Zones missing: %v\n", sr.Zones.Missing)
		} else if len(sr.Zones.Expected) > 0 {
			fmt.Println("  All expected zones found")
		}
	}

	fmt.Println("\n--- Summary ---")
	for _, id := range ids {
		sr := result.Systems[id]
		mark := func(ok bool) string {
			if ok {
				return "ok"
			}
			return "FAIL"
		}
		fmt.Printf("System %d: %s  Zones: %s\n", id, mark(sr.Found), mark(sr.Zones.Complete))
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
