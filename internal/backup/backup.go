// Package backup snapshots the full device state to a JSON file and replays
// the controllable zone parameters from a snapshot onto the current
// installation.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/hvactools/airzonectl/pkg/airzone"
)

// Snapshot is a point-in-time capture of the webserver document plus the
// all-systems and all-zones aggregates. All four sections must be present
// for the snapshot to be valid.
type Snapshot struct {
	Webserver json.RawMessage `json:"webserver"`
	Systems   json.RawMessage `json:"systems"`
	Zones     json.RawMessage `json:"zones"`
	Metadata  Metadata        `json:"metadata"`
}

// Metadata records where and when a snapshot was taken.
type Metadata struct {
	Created    string `json:"created"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
	Version    string `json:"version"`
	BackupType string `json:"backup_type"`
}

// Info describes one snapshot file in the backup directory.
type Info struct {
	File    string
	Created time.Time
	Size    int64
	Host    string
	Systems int
}

// ZoneChange is one parameter restored (or that would be restored) on one
// zone.
type ZoneChange struct {
	SystemID  int
	ZoneID    int
	ZoneName  string
	Parameter string
	Value     any
}

// Report summarizes a restore run.
type Report struct {
	DryRun   bool
	Changes  []ZoneChange
	Missing  []string // zones present in the snapshot but not on the device
	Failed   []string
	Restored int
}

// Manager creates, lists, validates and restores snapshots.
type Manager struct {
	client *airzone.Client
	dir    string
	log    logr.Logger
}

func NewManager(log logr.Logger, client *airzone.Client, dir string) *Manager {
	if dir == "" {
		dir = "backups"
	}
	return &Manager{client: client, dir: dir, log: log.WithName("backup")}
}

// Create snapshots the device into filename, or into a timestamped file
// under the backup directory when filename is empty. Reads bypass the cache
// so the snapshot reflects live state.
func (m *Manager) Create(ctx context.Context, filename string) (string, error) {
	webserver, err := m.client.Read(ctx, airzone.EndpointWebserver, nil, true)
	if err != nil {
		return "", fmt.Errorf("snapshot webserver: %w", err)
	}
	systems, err := m.client.Read(ctx, airzone.EndpointHvac, &airzone.Query{SystemID: airzone.AllSystemsID}, true)
	if err != nil {
		return "", fmt.Errorf("snapshot systems: %w", err)
	}
	zero := 0
	zones, err := m.client.Read(ctx, airzone.EndpointHvac, &airzone.Query{SystemID: 0, ZoneID: &zero}, true)
	if err != nil {
		return "", fmt.Errorf("snapshot zones: %w", err)
	}

	version := "Unknown"
	if v, err := m.client.Version(ctx, true); err == nil && v.Version != "" {
		version = v.Version
	}

	snap := Snapshot{
		Webserver: webserver,
		Systems:   systems,
		Zones:     zones,
		Metadata: Metadata{
			Created:    time.Now().Format(time.RFC3339),
			Host:       m.client.Host(),
			Port:       m.client.Port(),
			Version:    version,
			BackupType: "full",
		},
	}

	if filename == "" {
		if err := os.MkdirAll(m.dir, 0o755); err != nil {
			return "", err
		}
		stamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(m.dir, fmt.Sprintf("airzone_backup_%s.json", stamp))
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	m.log.Info("Backup saved", "file", filename)
	return filename, nil
}

// Validate checks that a snapshot file carries all four sections and the
// host/port metadata. A nil return means the file is safe to restore from.
func Validate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("not a JSON object: %w", err)
	}
	for _, key := range []string{"webserver", "systems", "zones", "metadata"} {
		if _, ok := sections[key]; !ok {
			return fmt.Errorf("missing %q section", key)
		}
	}

	var meta Metadata
	if err := json.Unmarshal(sections["metadata"], &meta); err != nil {
		return fmt.Errorf("bad metadata: %w", err)
	}
	if meta.Host == "" || meta.Port == 0 {
		return fmt.Errorf("missing host/port in metadata")
	}
	return nil
}

// List returns the snapshots in the backup directory, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	infos := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(m.dir, e.Name())
		fi, err := e.Info()
		if err != nil {
			continue
		}
		info := Info{File: e.Name(), Created: fi.ModTime(), Size: fi.Size()}

		var snap Snapshot
		if data, err := os.ReadFile(path); err == nil && json.Unmarshal(data, &snap) == nil {
			info.Host = snap.Metadata.Host
			if systems, err := airzone.DecodeSystems(snap.Systems); err == nil {
				info.Systems = len(systems)
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Created.After(infos[j].Created) })
	return infos, nil
}

// controllable parameters replayed by Restore, in apply order.
var restoreParams = []string{
	"on", "setpoint", "mode", "sleep", "speed",
	"slats_vertical", "slats_horizontal", "slats_vswing", "slats_hswing",
}

// Restore replays the controllable parameters of every zone in the snapshot
// onto the matching current zones. With dryRun only the report is produced.
// An invalid snapshot refuses to restore.
func (m *Manager) Restore(ctx context.Context, path string, dryRun bool) (*Report, error) {
	if err := Validate(path); err != nil {
		return nil, fmt.Errorf("invalid backup %s: %w", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}

	backupZones, err := airzone.DecodeZones(snap.Zones)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot zones: %w", err)
	}
	currentZones, err := m.client.AllZones(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read current zones: %w", err)
	}

	current := make(map[string]*airzone.ZoneData, len(currentZones))
	for i := range currentZones {
		current[zoneKey(currentZones[i].SystemID, currentZones[i].ID)] = &currentZones[i]
	}

	report := &Report{DryRun: dryRun}
	for i := range backupZones {
		bz := &backupZones[i]
		if bz.SystemID == 0 || bz.ID == 0 {
			continue
		}
		cz, ok := current[zoneKey(bz.SystemID, bz.ID)]
		if !ok {
			report.Missing = append(report.Missing,
				fmt.Sprintf("%s (system %d, zone %d)", bz.Name, bz.SystemID, bz.ID))
			continue
		}

		changes := diffZone(bz, cz)
		if len(changes) == 0 {
			continue
		}
		applied := true
		if !dryRun {
			for _, ch := range changes {
				_, err := m.client.SetZoneParameters(ctx, bz.SystemID, bz.ID,
					airzone.Params{ch.Parameter: ch.Value})
				if err != nil {
					m.log.Error(err, "Failed to restore parameter",
						"systemID", bz.SystemID, "zoneID", bz.ID, "param", ch.Parameter)
					report.Failed = append(report.Failed,
						fmt.Sprintf("%s (system %d, zone %d): %v", bz.Name, bz.SystemID, bz.ID, err))
					applied = false
					break
				}
			}
		}
		if applied {
			report.Changes = append(report.Changes, changes...)
			report.Restored++
		}
	}
	return report, nil
}

func zoneKey(systemID, zoneID int) string {
	return fmt.Sprintf("%d_%d", systemID, zoneID)
}

// diffZone lists the controllable parameters whose snapshot value differs
// from the current one. Parameters absent on either side are skipped; fan
// speed is only replayed when the zone advertises discrete speeds.
func diffZone(backup, current *airzone.ZoneData) []ZoneChange {
	var changes []ZoneChange
	add := func(param string, value any) {
		changes = append(changes, ZoneChange{
			SystemID:  backup.SystemID,
			ZoneID:    backup.ID,
			ZoneName:  backup.Name,
			Parameter: param,
			Value:     value,
		})
	}

	for _, param := range restoreParams {
		switch param {
		case "on":
			if backup.On != nil && current.On != nil && *backup.On != *current.On {
				add(param, *backup.On)
			}
		case "setpoint":
			if backup.Setpoint != nil && current.Setpoint != nil &&
				math.Abs(*backup.Setpoint-*current.Setpoint) > 0.1 {
				add(param, *backup.Setpoint)
			}
		case "mode":
			if backup.Mode != nil && current.Mode != nil && *backup.Mode != *current.Mode {
				add(param, *backup.Mode)
			}
		case "sleep":
			if backup.Sleep != nil && current.Sleep != nil && *backup.Sleep != *current.Sleep {
				add(param, *backup.Sleep)
			}
		case "speed":
			if backup.Speed != nil && current.Speed != nil && *backup.Speed != *current.Speed &&
				(len(backup.SpeedValues) > 0 || len(current.SpeedValues) > 0) {
				add(param, *backup.Speed)
			}
		case "slats_vertical":
			if backup.SlatsVertical != nil && current.SlatsVertical != nil &&
				*backup.SlatsVertical != *current.SlatsVertical {
				add(param, *backup.SlatsVertical)
			}
		case "slats_horizontal":
			if backup.SlatsHorizontal != nil && current.SlatsHorizontal != nil &&
				*backup.SlatsHorizontal != *current.SlatsHorizontal {
				add(param, *backup.SlatsHorizontal)
			}
		case "slats_vswing":
			if backup.SlatsVSwing != nil && current.SlatsVSwing != nil &&
				*backup.SlatsVSwing != *current.SlatsVSwing {
				add(param, *backup.SlatsVSwing)
			}
		case "slats_hswing":
			if backup.SlatsHSwing != nil && current.SlatsHSwing != nil &&
				*backup.SlatsHSwing != *current.SlatsHSwing {
				add(param, *backup.SlatsHSwing)
			}
		}
	}
	return changes
}
