// Package control implements the command that changes zone parameters.
// Every write is validated against the zone's device-reported constraints
// and confirmed by a forced re-read before the next change is applied.
package control

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/internal/hlog"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var (
	systemID int
	zoneID   int

	power    string
	setpoint float64
	mode     int
	fanSpeed int
	sleep    int
	vslats   int
	hslats   int
	vswing   string
	hswing   string
)

func init() {
	f := Cmd.Flags()
	f.IntVar(&systemID, "system", 0, "System ID")
	f.IntVar(&zoneID, "zone", 0, "Zone ID")
	f.StringVar(&power, "power", "", "Power on/off")
	f.Float64Var(&setpoint, "setpoint", 0, "Temperature setpoint in °C")
	f.IntVar(&mode, "mode", 0, "Operating mode (1=Stop 2=Cooling 3=Heating 4=Ventilation 5=Dehumidify)")
	f.IntVar(&fanSpeed, "fan-speed", -1, "Fan speed")
	f.IntVar(&sleep, "sleep", -1, "Sleep timer in minutes (0 disables)")
	f.IntVar(&vslats, "vslats", -1, "Vertical slats position")
	f.IntVar(&hslats, "hslats", -1, "Horizontal slats position")
	f.StringVar(&vswing, "vswing", "", "Vertical swing on/off")
	f.StringVar(&hswing, "hswing", "", "Horizontal swing on/off")
	Cmd.MarkFlagRequired("system")
	Cmd.MarkFlagRequired("zone")
}

var Cmd = &cobra.Command{
	Use:   "control",
	Short: "Control a zone",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()
		ctx := cmd.Context()

		data, err := client.Zone(ctx, systemID, zoneID, true)
		if err != nil {
			return err
		}
		zone, err := airzone.NewZone(client, systemID, zoneID, data)
		if err != nil {
			return err
		}

		changed, err := apply(ctx, cmd, zone)
		if err != nil {
			return err
		}
		if !changed {
			return fmt.Errorf("no control parameter given")
		}

		hlog.Logger.Info("Zone updated", "systemID", systemID, "zoneID", zoneID)
		fmt.Println(zone.String())
		return nil
	},
}

func apply(ctx context.Context, cmd *cobra.Command, zone *airzone.Zone) (bool, error) {
	changed := false

	if power != "" {
		on, err := parseOnOff("power", power)
		if err != nil {
			return changed, err
		}
		if err := zone.SetOn(ctx, on); err != nil {
			return changed, err
		}
		changed = true
	}
	if cmd.Flags().Changed("mode") {
		if err := zone.SetMode(ctx, airzone.Mode(mode)); err != nil {
			return changed, err
		}
		changed = true
	}
	if cmd.Flags().Changed("setpoint") {
		if err := zone.SetSetpoint(ctx, setpoint); err != nil {
			return changed, err
		}
		changed = true
	}
	if fanSpeed >= 0 {
		if err := zone.SetFanSpeed(ctx, fanSpeed); err != nil {
			return changed, err
		}
		changed = true
	}
	if sleep >= 0 {
		if err := zone.SetSleepTimer(ctx, sleep); err != nil {
			return changed, err
		}
		changed = true
	}
	if vslats >= 0 {
		if err := zone.SetVerticalSlats(ctx, vslats); err != nil {
			return changed, err
		}
		changed = true
	}
	if hslats >= 0 {
		if err := zone.SetHorizontalSlats(ctx, hslats); err != nil {
			return changed, err
		}
		changed = true
	}
	if vswing != "" {
		on, err := parseOnOff("vswing", vswing)
		if err != nil {
			return changed, err
		}
		if err := zone.SetVerticalSwing(ctx, on); err != nil {
			return changed, err
		}
		changed = true
	}
	if hswing != "" {
		on, err := parseOnOff("hswing", hswing)
		if err != nil {
			return changed, err
		}
		if err := zone.SetHorizontalSwing(ctx, on); err != nil {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

func parseOnOff(flag, value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("--%s must be on or off, got %q", flag, value)
}
