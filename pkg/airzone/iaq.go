package airzone

import (
	"context"
	"fmt"
)

// IAQSensor is a typed view over one indoor air quality sensor. All
// readings are read-only; only the ventilation mode is controllable, using
// the same write-then-refetch contract as zone setters.
type IAQSensor struct {
	client   *Client
	systemID int
	sensorID int
	data     IAQSensorData
}

// NewIAQSensor wraps sensor data, rejecting wildcard identifiers.
func NewIAQSensor(client *Client, systemID, sensorID int, data *IAQSensorData) (*IAQSensor, error) {
	if systemID < 1 || systemID >= AllSystemsID {
		return nil, fmt.Errorf("invalid system ID %d", systemID)
	}
	if sensorID < 1 {
		return nil, fmt.Errorf("invalid IAQ sensor ID %d", sensorID)
	}
	s := &IAQSensor{client: client, systemID: systemID, sensorID: sensorID}
	if data != nil {
		s.data = *data
	}
	return s, nil
}

func (s *IAQSensor) SystemID() int        { return s.systemID }
func (s *IAQSensor) ID() int              { return s.sensorID }
func (s *IAQSensor) Data() *IAQSensorData { return &s.data }

// Refresh re-reads the sensor from the device.
func (s *IAQSensor) Refresh(ctx context.Context, force bool) error {
	data, err := s.client.IAQSensor(ctx, s.systemID, s.sensorID, force)
	if err != nil {
		return err
	}
	s.data = *data
	return nil
}

func (s *IAQSensor) Name() string {
	if s.data.Name == "" {
		return fmt.Sprintf("IAQ sensor %d", s.sensorID)
	}
	return s.data.Name
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (s *IAQSensor) CO2() float64      { return floatOrZero(s.data.CO2) }
func (s *IAQSensor) PM25() float64     { return floatOrZero(s.data.PM25) }
func (s *IAQSensor) PM10() float64     { return floatOrZero(s.data.PM10) }
func (s *IAQSensor) TVOC() float64     { return floatOrZero(s.data.TVOC) }
func (s *IAQSensor) Pressure() float64 { return floatOrZero(s.data.Pressure) }

func (s *IAQSensor) Index() int {
	if s.data.Index == nil {
		return 0
	}
	return *s.data.Index
}

func (s *IAQSensor) Score() int {
	if s.data.Score == nil {
		return 0
	}
	return *s.data.Score
}

func (s *IAQSensor) QualityName() string { return s.data.QualityName() }

func (s *IAQSensor) VentilationMode() VentMode {
	if s.data.VentMode == nil {
		return VentOff
	}
	return VentMode(*s.data.VentMode)
}

func (s *IAQSensor) VentilationModeName() string { return s.VentilationMode().String() }

// SetVentilationMode switches the sensor's ventilation between Off, On and
// Auto.
func (s *IAQSensor) SetVentilationMode(ctx context.Context, m VentMode) error {
	if err := ValidateVentMode(m); err != nil {
		return err
	}
	if _, err := s.client.SetIAQParameters(ctx, s.systemID, s.sensorID, Params{"iaq_mode_vent": int(m)}); err != nil {
		return err
	}
	return s.Refresh(ctx, true)
}

func (s *IAQSensor) String() string {
	return fmt.Sprintf("<IAQSensor %d/%d: %s>", s.systemID, s.sensorID, s.Name())
}
