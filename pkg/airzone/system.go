package airzone

import (
	"context"
	"fmt"
	"sort"
)

// System is a typed view over one HVAC control unit and its zones. Zones are
// loaded on demand and kept for the lifetime of the object; they are not
// persisted anywhere.
type System struct {
	client   *Client
	systemID int
	data     SystemData
	zones    map[int]*Zone
}

// NewSystem wraps system data. The 127 wildcard is a request sentinel and is
// rejected here.
func NewSystem(client *Client, systemID int, data *SystemData) (*System, error) {
	if systemID < 1 || systemID >= AllSystemsID {
		return nil, fmt.Errorf("invalid system ID %d", systemID)
	}
	s := &System{client: client, systemID: systemID, zones: map[int]*Zone{}}
	if data != nil {
		s.data = *data
	}
	return s, nil
}

func (s *System) ID() int           { return s.systemID }
func (s *System) Data() *SystemData { return &s.data }

// Refresh re-reads the system from the device.
func (s *System) Refresh(ctx context.Context, force bool) error {
	data, err := s.client.System(ctx, s.systemID, force)
	if err != nil {
		return err
	}
	s.data = *data
	return nil
}

func (s *System) Name() string {
	if s.data.Name != "" {
		return s.data.Name
	}
	return fmt.Sprintf("System %d", s.systemID)
}

func (s *System) Manufacturer() string {
	if s.data.Manufacturer == "" {
		return "Unknown"
	}
	return s.data.Manufacturer
}

func (s *System) Firmware() string {
	if s.data.Firmware == "" {
		return "Unknown"
	}
	return s.data.Firmware
}

func (s *System) Errors() []ErrorRecord { return s.data.Errors }
func (s *System) HasErrors() bool       { return len(s.data.Errors) > 0 }

// LoadZones fetches the all-zones aggregate and keeps the entries belonging
// to this system.
func (s *System) LoadZones(ctx context.Context, force bool) error {
	all, err := s.client.AllZones(ctx, force)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].SystemID != s.systemID {
			continue
		}
		zone, err := NewZone(s.client, s.systemID, all[i].ID, &all[i])
		if err != nil {
			s.client.log.Error(err, "Skipping zone with bad identifier",
				"systemID", all[i].SystemID, "zoneID", all[i].ID)
			continue
		}
		s.zones[all[i].ID] = zone
	}
	return nil
}

// Zones returns the system's zones, loading them on first use, ordered by
// zone ID.
func (s *System) Zones(ctx context.Context) ([]*Zone, error) {
	if len(s.zones) == 0 {
		if err := s.LoadZones(ctx, false); err != nil {
			return nil, err
		}
	}
	ids := make([]int, 0, len(s.zones))
	for id := range s.zones {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	zones := make([]*Zone, 0, len(ids))
	for _, id := range ids {
		zones = append(zones, s.zones[id])
	}
	return zones, nil
}

// Zone returns one zone of this system, reading it individually and falling
// back to the all-zones aggregate.
func (s *System) Zone(ctx context.Context, zoneID int, force bool) (*Zone, error) {
	if z, ok := s.zones[zoneID]; ok && !force {
		return z, nil
	}
	data, err := s.client.Zone(ctx, s.systemID, zoneID, force)
	if err == nil {
		zone, zerr := NewZone(s.client, s.systemID, zoneID, data)
		if zerr != nil {
			return nil, zerr
		}
		s.zones[zoneID] = zone
		return zone, nil
	}
	if err := s.LoadZones(ctx, force); err != nil {
		return nil, err
	}
	if z, ok := s.zones[zoneID]; ok {
		return z, nil
	}
	return nil, fmt.Errorf("zone %d/%d: %w", s.systemID, zoneID, ErrNotFound)
}

func (s *System) String() string {
	return fmt.Sprintf("<System %d: %s>", s.systemID, s.Name())
}
