package airzone

import (
	"encoding/json"
	"testing"
)

func TestDecodeZonesDataObject(t *testing.T) {
	raw := json.RawMessage(`{"data":{"systemID":1,"zoneID":2,"name":"Office","on":1,"roomTemp":22.5}}`)

	zones, err := DecodeZones(raw)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("got %d zones, want 1", len(zones))
	}
	z := zones[0]
	if z.SystemID != 1 || z.ID != 2 || z.Name != "Office" {
		t.Errorf("decoded zone %+v", z)
	}
	if z.RoomTemp == nil || *z.RoomTemp != 22.5 {
		t.Errorf("roomTemp = %v, want 22.5", z.RoomTemp)
	}
}

func TestDecodeZonesDataList(t *testing.T) {
	raw := json.RawMessage(`{"data":[
		{"systemID":1,"zoneID":1,"name":"Living"},
		{"systemID":1,"zoneID":2,"name":"Office"}
	]}`)

	zones, err := DecodeZones(raw)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if len(zones) != 2 {
		t.Fatalf("got %d zones, want 2", len(zones))
	}
	if zones[1].Name != "Office" {
		t.Errorf("zones[1].Name = %q", zones[1].Name)
	}
}

func TestDecodeZonesSystemsNested(t *testing.T) {
	raw := json.RawMessage(`{"systems":[
		{"data":[{"systemID":1,"zoneID":1,"name":"Living"}]},
		{"data":[{"systemID":2,"zoneID":1,"name":"Bedroom"},{"systemID":2,"zoneID":2,"name":"Office"}]}
	]}`)

	zones, err := DecodeZones(raw)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if len(zones) != 3 {
		t.Fatalf("got %d zones, want 3", len(zones))
	}
	if zones[2].SystemID != 2 || zones[2].ID != 2 {
		t.Errorf("zones[2] = %+v", zones[2])
	}
}

// Some firmware versions report the zone identifier as "id" instead of
// "zoneID".
func TestDecodeZonesAltIDKey(t *testing.T) {
	raw := json.RawMessage(`{"data":[{"systemID":1,"id":7,"name":"Attic"}]}`)

	zones, err := DecodeZones(raw)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if zones[0].ID != 7 {
		t.Errorf("ID = %d, want 7", zones[0].ID)
	}
}

func TestAirQualityFlagSetAtParseTime(t *testing.T) {
	raw := json.RawMessage(`{"data":[
		{"systemID":1,"zoneID":1,"aq_mode":1,"aq_quality":2},
		{"systemID":1,"zoneID":2}
	]}`)

	zones, err := DecodeZones(raw)
	if err != nil {
		t.Fatalf("DecodeZones: %v", err)
	}
	if !zones[0].HasAirQuality() {
		t.Error("zone with aq_ fields not flagged as air-quality capable")
	}
	if zones[1].HasAirQuality() {
		t.Error("zone without aq_ fields flagged as air-quality capable")
	}
}

func TestDecodeSystems(t *testing.T) {
	raw := json.RawMessage(`{"systems":[
		{"systemID":1,"manufacturer":"Airzone","system_firmware":"4.12"},
		{"systemID":2,"errors":[{"system":"Error 9"}]}
	]}`)

	systems, err := DecodeSystems(raw)
	if err != nil {
		t.Fatalf("DecodeSystems: %v", err)
	}
	if len(systems) != 2 {
		t.Fatalf("got %d systems, want 2", len(systems))
	}
	if systems[0].Firmware != "4.12" {
		t.Errorf("Firmware = %q", systems[0].Firmware)
	}
	if len(systems[1].Errors) != 1 {
		t.Errorf("Errors = %v", systems[1].Errors)
	}
}

func TestDecodeIAQSensors(t *testing.T) {
	raw := json.RawMessage(`{"data":[
		{"systemID":1,"iaqsensorid":1,"co2_value":420,"iaq_index":1,"iaq_mode_vent":2}
	]}`)

	sensors, err := DecodeIAQSensors(raw)
	if err != nil {
		t.Fatalf("DecodeIAQSensors: %v", err)
	}
	if len(sensors) != 1 {
		t.Fatalf("got %d sensors, want 1", len(sensors))
	}
	s := sensors[0]
	if s.CO2 == nil || *s.CO2 != 420 {
		t.Errorf("CO2 = %v", s.CO2)
	}
	if s.QualityName() != "Good" {
		t.Errorf("QualityName = %q, want Good", s.QualityName())
	}
}

func TestDecodeZonesRejectsScalarData(t *testing.T) {
	if _, err := DecodeZones(json.RawMessage(`{"data":42}`)); err == nil {
		t.Error("scalar data accepted")
	}
}
