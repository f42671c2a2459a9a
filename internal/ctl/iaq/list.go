package iaq

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvactools/airzonectl/internal/ctl/options"
)

func init() {
	Cmd.AddCommand(listCtl)
}

var listCtl = &cobra.Command{
	Use:   "list",
	Short: "List all IAQ sensors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := options.NewClient()
		defer client.Close()

		sensors, err := client.AllIAQSensors(cmd.Context(), options.Flags.ForceRefresh)
		if err != nil {
			return err
		}

		if options.Flags.Json {
			return options.PrintResult(sensors)
		}
		if len(sensors) == 0 {
			fmt.Println("No IAQ sensors found")
			return nil
		}
		for i := range sensors {
			s := &sensors[i]
			name := s.Name
			if name == "" {
				name = fmt.Sprintf("IAQ sensor %d", s.ID)
			}
			fmt.Printf("System %d, Sensor %d: %s [%s]\n", s.SystemID, s.ID, name, s.QualityName())
		}
		return nil
	},
}
