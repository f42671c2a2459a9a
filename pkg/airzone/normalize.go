package airzone

import (
	"encoding/json"
	"fmt"
)

// The device wraps hvac payloads in three different envelopes: a "data" key
// holding a single object, a "data" key holding a list, or a "systems" list
// whose entries each carry their own "data" list. All shape sniffing lives
// here; everything downstream sees flat slices.

type envelope struct {
	Systems []json.RawMessage `json:"systems"`
	Data    json.RawMessage   `json:"data"`
}

func splitData(raw json.RawMessage) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		return []json.RawMessage{raw}, nil
	}
	return nil, fmt.Errorf("unexpected data shape: %s", string(raw[:min(len(raw), 32)]))
}

// DecodeZones flattens any hvac response shape into zone entries.
func DecodeZones(raw json.RawMessage) ([]ZoneData, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode hvac response: %w", err)
	}

	var items []json.RawMessage
	if env.Data != nil {
		var err error
		items, err = splitData(env.Data)
		if err != nil {
			return nil, err
		}
	} else {
		for _, sys := range env.Systems {
			var inner envelope
			if err := json.Unmarshal(sys, &inner); err != nil {
				return nil, fmt.Errorf("decode system entry: %w", err)
			}
			sub, err := splitData(inner.Data)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
	}

	zones := make([]ZoneData, 0, len(items))
	for _, item := range items {
		var z ZoneData
		if err := json.Unmarshal(item, &z); err != nil {
			return nil, fmt.Errorf("decode zone entry: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// DecodeSystems flattens an hvac all-systems response into system entries.
func DecodeSystems(raw json.RawMessage) ([]SystemData, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode hvac response: %w", err)
	}

	items := env.Systems
	if items == nil && env.Data != nil {
		var err error
		items, err = splitData(env.Data)
		if err != nil {
			return nil, err
		}
	}

	systems := make([]SystemData, 0, len(items))
	for _, item := range items {
		var s SystemData
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("decode system entry: %w", err)
		}
		systems = append(systems, s)
	}
	return systems, nil
}

// DecodeIAQSensors flattens an iaq response into sensor entries.
func DecodeIAQSensors(raw json.RawMessage) ([]IAQSensorData, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode iaq response: %w", err)
	}

	items, err := splitData(env.Data)
	if err != nil {
		return nil, err
	}
	if items == nil {
		for _, sys := range env.Systems {
			var inner envelope
			if err := json.Unmarshal(sys, &inner); err != nil {
				return nil, fmt.Errorf("decode iaq system entry: %w", err)
			}
			sub, err := splitData(inner.Data)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
	}

	sensors := make([]IAQSensorData, 0, len(items))
	for _, item := range items {
		var s IAQSensorData
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, fmt.Errorf("decode iaq sensor entry: %w", err)
		}
		sensors = append(sensors, s)
	}
	return sensors, nil
}
