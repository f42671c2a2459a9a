package airzone

import (
	"fmt"
	"math"
	"strings"
)

// Validation checks candidate values against the constraints the device
// reported for a zone. A device that does not advertise a constraint gets
// the benefit of the doubt (fail open); a failed check must block the write,
// never clamp it.

// Fallback setpoint bounds when the device reports none.
const (
	fallbackMinTemp = 15.0
	fallbackMaxTemp = 30.0
)

const stepTolerance = 1e-6

// ValidateMode accepts m when it appears in the zone's advertised mode list,
// or unconditionally when no list is advertised.
func ValidateMode(z *ZoneData, m Mode) error {
	if len(z.Modes) == 0 {
		return nil
	}
	for _, avail := range z.Modes {
		if Mode(avail) == m {
			return nil
		}
	}
	names := make([]string, 0, len(z.Modes))
	for _, avail := range z.Modes {
		names = append(names, fmt.Sprintf("%d(%s)", avail, Mode(avail)))
	}
	return &ValidationError{
		Field:   "mode",
		Value:   int(m),
		Allowed: strings.Join(names, ", "),
	}
}

// ValidateFanSpeed accepts s when it appears in the zone's speed_values
// enumeration; without one, when 0 <= s <= speeds; without either, always.
func ValidateFanSpeed(z *ZoneData, s int) error {
	if len(z.SpeedValues) > 0 {
		for _, avail := range z.SpeedValues {
			if avail == s {
				return nil
			}
		}
		return &ValidationError{
			Field:   "fan speed",
			Value:   s,
			Allowed: fmt.Sprintf("%v", z.SpeedValues),
		}
	}
	if z.Speeds != nil {
		if s >= 0 && s <= *z.Speeds {
			return nil
		}
		return &ValidationError{
			Field:   "fan speed",
			Value:   s,
			Allowed: fmt.Sprintf("0..%d", *z.Speeds),
		}
	}
	return nil
}

// setpointBounds selects the bound pair for the given mode: cooling or
// heating specific bounds when reported, else the general bounds, else the
// device-independent fallback.
func setpointBounds(z *ZoneData, m Mode) (float64, float64) {
	switch {
	case m == ModeCooling && z.CoolMinTemp != nil && z.CoolMaxTemp != nil:
		return *z.CoolMinTemp, *z.CoolMaxTemp
	case m == ModeHeating && z.HeatMinTemp != nil && z.HeatMaxTemp != nil:
		return *z.HeatMinTemp, *z.HeatMaxTemp
	}
	lo, hi := fallbackMinTemp, fallbackMaxTemp
	if z.MinTemp != nil {
		lo = *z.MinTemp
	}
	if z.MaxTemp != nil {
		hi = *z.MaxTemp
	}
	return lo, hi
}

// ValidateSetpoint checks t against the bound pair for mode m, and against
// the temperature step when one is reported.
func ValidateSetpoint(z *ZoneData, t float64, m Mode) error {
	lo, hi := setpointBounds(z, m)
	if t < lo || t > hi {
		return &ValidationError{
			Field:   "setpoint",
			Value:   t,
			Allowed: fmt.Sprintf("%.1f..%.1f", lo, hi),
		}
	}
	if z.TempStep != nil && *z.TempStep > 0 {
		step := *z.TempStep
		rem := math.Mod(t-lo, step)
		if rem > stepTolerance && step-rem > stepTolerance {
			return &ValidationError{
				Field:   "setpoint",
				Value:   t,
				Allowed: fmt.Sprintf("%.1f..%.1f in steps of %g", lo, hi, step),
			}
		}
	}
	return nil
}

// ValidateSleepTimer accepts 0..1440 minutes (up to 24 hours).
func ValidateSleepTimer(minutes int) error {
	if minutes < 0 || minutes > 1440 {
		return &ValidationError{
			Field:   "sleep timer",
			Value:   minutes,
			Allowed: "0..1440 minutes",
		}
	}
	return nil
}

// ValidateVentMode accepts the three IAQ ventilation modes.
func ValidateVentMode(m VentMode) error {
	if m < VentOff || m > VentAuto {
		return &ValidationError{
			Field:   "ventilation mode",
			Value:   int(m),
			Allowed: "0(Off), 1(On), 2(Auto)",
		}
	}
	return nil
}
