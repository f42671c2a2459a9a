package airzone

import "fmt"

// CacheKey derives the cache key for a read request from its endpoint and
// scope. It is a pure function; an empty result means the request is not
// cacheable and must always call through.
//
// The key space mirrors the containment hierarchy so that a zone write can
// invalidate every aggregate that may hold the zone's data: the zone itself,
// its system, the all-systems document and the all-zones document.
func CacheKey(endpoint string, q *Query) string {
	switch endpoint {
	case EndpointVersion, EndpointWebserver:
		return endpoint

	case EndpointHvac:
		if q == nil {
			return ""
		}
		if q.SystemID == AllSystemsID {
			return "systems"
		}
		if q.ZoneID != nil {
			if q.SystemID == 0 && *q.ZoneID == 0 {
				return "zones"
			}
			return fmt.Sprintf("zone_%d_%d", q.SystemID, *q.ZoneID)
		}
		return fmt.Sprintf("system_%d", q.SystemID)

	case EndpointIAQ:
		if q == nil {
			return ""
		}
		if q.SystemID == AllSystemsID {
			return "iaq_sensors"
		}
		if q.IAQSensorID != nil {
			return fmt.Sprintf("iaq_sensor_%d_%d", q.SystemID, *q.IAQSensorID)
		}
		return fmt.Sprintf("iaq_system_%d", q.SystemID)
	}

	return ""
}
