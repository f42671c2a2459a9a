package airzone

import (
	"context"
	"fmt"
)

// Zone is a typed view over the most recent server-reported state of one
// zone. Setters validate against the device-reported constraints, issue the
// write, and then force a re-read: the device may clamp or reject values
// silently, so local state is only trusted after the server confirms it.
type Zone struct {
	client   *Client
	systemID int
	zoneID   int
	data     ZoneData
}

// NewZone wraps zone data. Wildcard identifiers are request sentinels, never
// entity identifiers.
func NewZone(client *Client, systemID, zoneID int, data *ZoneData) (*Zone, error) {
	if systemID < 1 || systemID >= AllSystemsID {
		return nil, fmt.Errorf("invalid system ID %d", systemID)
	}
	if zoneID < 1 {
		return nil, fmt.Errorf("invalid zone ID %d", zoneID)
	}
	z := &Zone{client: client, systemID: systemID, zoneID: zoneID}
	if data != nil {
		z.data = *data
	}
	return z, nil
}

func (z *Zone) SystemID() int   { return z.systemID }
func (z *Zone) ID() int         { return z.zoneID }
func (z *Zone) Data() *ZoneData { return &z.data }

// Refresh re-reads the zone from the device, bypassing the cache when force
// is set.
func (z *Zone) Refresh(ctx context.Context, force bool) error {
	data, err := z.client.Zone(ctx, z.systemID, z.zoneID, force)
	if err != nil {
		return err
	}
	z.data = *data
	return nil
}

func (z *Zone) Name() string {
	if z.data.Name == "" {
		return fmt.Sprintf("Zone %d", z.zoneID)
	}
	return z.data.Name
}

func (z *Zone) IsOn() bool {
	return z.data.On != nil && *z.data.On == 1
}

func (z *Zone) RoomTemp() float64 {
	if z.data.RoomTemp == nil {
		return 0
	}
	return *z.data.RoomTemp
}

func (z *Zone) Setpoint() float64 {
	if z.data.Setpoint == nil {
		return 0
	}
	return *z.data.Setpoint
}

func (z *Zone) Mode() Mode {
	if z.data.Mode == nil {
		return 0
	}
	return Mode(*z.data.Mode)
}

func (z *Zone) ModeName() string { return z.Mode().String() }

func (z *Zone) Humidity() int {
	if z.data.Humidity == nil {
		return 0
	}
	return *z.data.Humidity
}

func (z *Zone) FanSpeed() int {
	if z.data.Speed == nil {
		return 0
	}
	return *z.data.Speed
}

func (z *Zone) AvailableFanSpeeds() []int { return z.data.SpeedValues }

func (z *Zone) SleepTimer() int {
	if z.data.Sleep == nil {
		return 0
	}
	return *z.data.Sleep
}

func (z *Zone) VerticalSlats() int {
	if z.data.SlatsVertical == nil {
		return 0
	}
	return *z.data.SlatsVertical
}

func (z *Zone) HorizontalSlats() int {
	if z.data.SlatsHorizontal == nil {
		return 0
	}
	return *z.data.SlatsHorizontal
}

func (z *Zone) VerticalSwing() bool {
	return z.data.SlatsVSwing != nil && *z.data.SlatsVSwing == 1
}

func (z *Zone) HorizontalSwing() bool {
	return z.data.SlatsHSwing != nil && *z.data.SlatsHSwing == 1
}

func (z *Zone) Errors() []ErrorRecord { return z.data.Errors }
func (z *Zone) HasErrors() bool       { return len(z.data.Errors) > 0 }
func (z *Zone) HasAirQuality() bool   { return z.data.HasAirQuality() }

// set issues the write and reconciles with server-confirmed state.
func (z *Zone) set(ctx context.Context, params Params) error {
	if _, err := z.client.SetZoneParameters(ctx, z.systemID, z.zoneID, params); err != nil {
		return err
	}
	return z.Refresh(ctx, true)
}

// SetOn powers the zone on or off.
func (z *Zone) SetOn(ctx context.Context, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return z.set(ctx, Params{"on": v})
}

// SetSetpoint changes the target temperature, rejecting values outside the
// device-reported bounds for the current mode.
func (z *Zone) SetSetpoint(ctx context.Context, t float64) error {
	if err := ValidateSetpoint(&z.data, t, z.Mode()); err != nil {
		return err
	}
	return z.set(ctx, Params{"setpoint": t})
}

// SetMode changes the operating mode, rejecting modes the zone does not
// advertise.
func (z *Zone) SetMode(ctx context.Context, m Mode) error {
	if err := ValidateMode(&z.data, m); err != nil {
		return err
	}
	return z.set(ctx, Params{"mode": int(m)})
}

// SetFanSpeed changes the fan speed.
func (z *Zone) SetFanSpeed(ctx context.Context, speed int) error {
	if err := ValidateFanSpeed(&z.data, speed); err != nil {
		return err
	}
	return z.set(ctx, Params{"speed": speed})
}

// SetSleepTimer arms the sleep timer, 0 disables it.
func (z *Zone) SetSleepTimer(ctx context.Context, minutes int) error {
	if err := ValidateSleepTimer(minutes); err != nil {
		return err
	}
	return z.set(ctx, Params{"sleep": minutes})
}

// SetVerticalSlats positions the vertical slats.
func (z *Zone) SetVerticalSlats(ctx context.Context, pos int) error {
	return z.set(ctx, Params{"slats_vertical": pos})
}

// SetHorizontalSlats positions the horizontal slats.
func (z *Zone) SetHorizontalSlats(ctx context.Context, pos int) error {
	return z.set(ctx, Params{"slats_horizontal": pos})
}

// SetVerticalSwing toggles vertical swing.
func (z *Zone) SetVerticalSwing(ctx context.Context, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return z.set(ctx, Params{"slats_vswing": v})
}

// SetHorizontalSwing toggles horizontal swing.
func (z *Zone) SetHorizontalSwing(ctx context.Context, on bool) error {
	v := 0
	if on {
		v = 1
	}
	return z.set(ctx, Params{"slats_hswing": v})
}

func (z *Zone) String() string {
	return fmt.Sprintf("%s (system %d, zone %d): %.1f°C / %.1f°C",
		z.Name(), z.systemID, z.zoneID, z.RoomTemp(), z.Setpoint())
}
