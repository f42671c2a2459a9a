// Package airzone is a client for the Airzone local HVAC webserver HTTP API
// (http://{host}:{port}/api/v1). Reads go through a file-backed response
// cache; writes invalidate every cache entry that could contain the mutated
// entity.
package airzone

import "encoding/json"

// API endpoints.
const (
	EndpointVersion   = "version"
	EndpointWebserver = "webserver"
	EndpointHvac      = "hvac"
	EndpointIAQ       = "iaq"
	EndpointDemo      = "demo"
)

// AllSystemsID is the request sentinel meaning "all systems". Together with
// the 0/0 system/zone pair ("all zones") it is never a real entity
// identifier.
const AllSystemsID = 127

// Mode is a zone operating mode as reported by the device.
type Mode int

const (
	ModeStop       Mode = 1
	ModeCooling    Mode = 2
	ModeHeating    Mode = 3
	ModeVentilate  Mode = 4
	ModeDehumidify Mode = 5
)

var modeNames = map[Mode]string{
	ModeStop:       "Stop",
	ModeCooling:    "Cooling",
	ModeHeating:    "Heating",
	ModeVentilate:  "Ventilation",
	ModeDehumidify: "Dehumidify",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "Unknown"
}

// VentMode is the ventilation mode of an IAQ sensor.
type VentMode int

const (
	VentOff  VentMode = 0
	VentOn   VentMode = 1
	VentAuto VentMode = 2
)

var ventModeNames = map[VentMode]string{
	VentOff:  "Off",
	VentOn:   "On",
	VentAuto: "Auto",
}

func (m VentMode) String() string {
	if name, ok := ventModeNames[m]; ok {
		return name
	}
	return "Unknown"
}

// Query is the scope of a read request. ZoneID and IAQSensorID are optional;
// their presence changes both the request body and the derived cache key.
type Query struct {
	SystemID    int  `json:"systemID"`
	ZoneID      *int `json:"zoneID,omitempty"`
	IAQSensorID *int `json:"iaqsensorid,omitempty"`
}

// Params are the changed fields of a write request, merged with the
// identifying fields by the client.
type Params map[string]any

// ErrorRecord is one error entry as reported by the device. The shape varies
// by firmware, so it stays schemaless.
type ErrorRecord map[string]any

// VersionInfo is the response of the version endpoint.
type VersionInfo struct {
	Version string `json:"version"`
}

// WebserverInfo is the response of the webserver endpoint. Only the fields
// the CLI reports are typed; the rest of the document is preserved in Raw.
type WebserverInfo struct {
	MAC         string `json:"mac"`
	Alias       string `json:"alias"`
	Firmware    string `json:"ws_firmware"`
	Interface   string `json:"interface"`
	WifiRSSI    *int   `json:"wifi_rssi"`
	WifiQuality *int   `json:"wifi_quality"`
	WifiChannel *int   `json:"wifi_channel"`

	Raw json.RawMessage `json:"-"`
}

// SystemData is one system entry of an hvac response.
type SystemData struct {
	SystemID     int           `json:"systemID"`
	Name         string        `json:"name"`
	Manufacturer string        `json:"manufacturer"`
	Firmware     string        `json:"system_firmware"`
	Errors       []ErrorRecord `json:"errors"`
}

// ZoneData is one zone entry of an hvac response. Optional device metadata
// is pointer-typed so "not reported" is distinguishable from zero; the
// validation layer fails open on absent constraints.
type ZoneData struct {
	SystemID int    `json:"systemID"`
	ID       int    `json:"zoneID"`
	Name     string `json:"name"`

	On       *int     `json:"on"`
	RoomTemp *float64 `json:"roomTemp"`
	Setpoint *float64 `json:"setpoint"`
	Mode     *int     `json:"mode"`
	Modes    []int    `json:"modes"`
	Humidity *int     `json:"humidity"`

	Speed       *int  `json:"speed"`
	Speeds      *int  `json:"speeds"`
	SpeedValues []int `json:"speed_values"`

	Sleep *int `json:"sleep"`

	MinTemp     *float64 `json:"minTemp"`
	MaxTemp     *float64 `json:"maxTemp"`
	CoolMinTemp *float64 `json:"coolmintemp"`
	CoolMaxTemp *float64 `json:"coolmaxtemp"`
	HeatMinTemp *float64 `json:"heatmintemp"`
	HeatMaxTemp *float64 `json:"heatmaxtemp"`
	TempStep    *float64 `json:"temp_step"`

	SlatsVertical   *int `json:"slats_vertical"`
	SlatsHorizontal *int `json:"slats_horizontal"`
	SlatsVSwing     *int `json:"slats_vswing"`
	SlatsHSwing     *int `json:"slats_hswing"`

	AQMode      *int     `json:"aq_mode"`
	AQQuality   *int     `json:"aq_quality"`
	AQLowThr    *float64 `json:"aq_thrlow"`
	AQHighThr   *float64 `json:"aq_thrhigh"`

	Errors []ErrorRecord `json:"errors"`

	airQuality bool
}

// UnmarshalJSON tolerates the zone ID being reported under either "id" or
// "zoneID", and fixes the air-quality capability flag at parse time so no
// later code has to probe for aq_-prefixed keys.
func (z *ZoneData) UnmarshalJSON(b []byte) error {
	type plain ZoneData
	aux := struct {
		*plain
		AltID *int `json:"id"`
	}{plain: (*plain)(z)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if z.ID == 0 && aux.AltID != nil {
		z.ID = *aux.AltID
	}
	z.airQuality = z.AQMode != nil || z.AQQuality != nil ||
		z.AQLowThr != nil || z.AQHighThr != nil
	return nil
}

// HasAirQuality reports whether the device exposed air-quality parameters
// for this zone.
func (z *ZoneData) HasAirQuality() bool {
	return z.airQuality
}

// IAQSensorData is one sensor entry of an iaq response. Readings are
// read-only; only the ventilation mode is controllable.
type IAQSensorData struct {
	SystemID int    `json:"systemID"`
	ID       int    `json:"iaqsensorid"`
	Name     string `json:"name"`

	CO2      *float64 `json:"co2_value"`
	PM25     *float64 `json:"pm2_5_value"`
	PM10     *float64 `json:"pm10_value"`
	TVOC     *float64 `json:"tvoc_value"`
	Pressure *float64 `json:"pressure_value"`

	Index    *int `json:"iaq_index"`
	Score    *int `json:"iaq_score"`
	VentMode *int `json:"iaq_mode_vent"`
}

var iaqQualityNames = map[int]string{
	1: "Good",
	2: "Medium",
	3: "Bad",
}

// QualityName renders the air-quality index as text.
func (s *IAQSensorData) QualityName() string {
	if s.Index == nil {
		return "Unknown"
	}
	if name, ok := iaqQualityNames[*s.Index]; ok {
		return name
	}
	return "Unknown"
}
