package airzone

import "testing"

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestCacheKeyDerivation(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		q        *Query
		want     string
	}{
		{"version", EndpointVersion, nil, "version"},
		{"webserver", EndpointWebserver, nil, "webserver"},
		{"all systems", EndpointHvac, &Query{SystemID: AllSystemsID}, "systems"},
		{"all zones", EndpointHvac, &Query{SystemID: 0, ZoneID: intp(0)}, "zones"},
		{"one system", EndpointHvac, &Query{SystemID: 3}, "system_3"},
		{"one zone", EndpointHvac, &Query{SystemID: 2, ZoneID: intp(5)}, "zone_2_5"},
		{"all iaq sensors", EndpointIAQ, &Query{SystemID: AllSystemsID}, "iaq_sensors"},
		{"iaq system", EndpointIAQ, &Query{SystemID: 2}, "iaq_system_2"},
		{"iaq sensor", EndpointIAQ, &Query{SystemID: 1, IAQSensorID: intp(4)}, "iaq_sensor_1_4"},
		{"demo not cacheable", EndpointDemo, nil, ""},
		{"hvac without query", EndpointHvac, nil, ""},
	}
	for _, tt := range tests {
		if got := CacheKey(tt.endpoint, tt.q); got != tt.want {
			t.Errorf("%s: CacheKey(%q, %+v) = %q, want %q", tt.name, tt.endpoint, tt.q, got, tt.want)
		}
	}
}

// The 127 sentinel means "all systems" even when a zone ID is also present.
func TestCacheKeyWildcardWinsOverZone(t *testing.T) {
	if got := CacheKey(EndpointHvac, &Query{SystemID: AllSystemsID, ZoneID: intp(1)}); got != "systems" {
		t.Errorf("got %q, want systems", got)
	}
}
