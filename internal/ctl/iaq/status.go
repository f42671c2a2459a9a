package iaq

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
	"github.com/hvactools/airzonectl/pkg/airzone"
)

var (
	statusSystemID int
	statusSensorID int
)

func init() {
	statusCtl.Flags().IntVar(&statusSystemID, "system", 0, "System ID")
	statusCtl.Flags().IntVar(&statusSensorID, "sensor", 0, "Sensor ID")
	statusCtl.MarkFlagRequired("system")
	statusCtl.MarkFlagRequired("sensor")
	Cmd.AddCommand(statusCtl)
}

var statusCtl = &cobra.Command{
	Use:   "status",
	Short: "Get IAQ sensor status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		data, err := client.IAQSensor(cmd.Context(), statusSystemID, statusSensorID, options.Flags.ForceRefresh)
		if err != nil {
			if errors.Is(err, airzone.ErrNotFound) {
				fmt.Printf("IAQ sensor %d not found in system %d\n", statusSensorID, statusSystemID)
				return nil
			}
			return err
		}
		sensor, err := airzone.NewIAQSensor(client, statusSystemID, statusSensorID, data)
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(data)
		}

		fmt.Printf("Sensor: %s (System %d, Sensor %d)\n", sensor.Name(), statusSystemID, statusSensorID)
		fmt.Printf("  Quality: %s (index %d, score %d)\n", sensor.QualityName(), sensor.Index(), sensor.Score())
		fmt.Printf("  CO2: %.0f ppm\n", sensor.CO2())
		fmt.Printf("  PM2.5: %.1f µg/m³\n", sensor.PM25())
		fmt.Printf("  PM10: %.1f µg/m³\n", sensor.PM10())
		fmt.Printf("  TVOC: %.1f ppb\n", sensor.TVOC())
		fmt.Printf("  Pressure: %.1f hPa\n", sensor.Pressure())
		fmt.Printf("  Ventilation: %s\n", sensor.VentilationModeName())
		return nil
	},
}
