package backup

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/go-logr/logr"

	"github.com/hvactools/airzonectl/pkg/airzone"
)

// fakeWebserver serves the endpoints a snapshot touches and records the
// writes a restore issues.
type fakeWebserver struct {
	mu    sync.Mutex
	zones string
	puts  []map[string]any
}

func (f *fakeWebserver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPut {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.puts = append(f.puts, body)
		w.Write([]byte(`{"data":{}}`))
		return
	}

	switch r.URL.Path {
	case "/api/v1/webserver":
		w.Write([]byte(`{"mac":"AA:BB:CC:DD:EE:FF","alias":"Home","ws_firmware":"3.44"}`))
	case "/api/v1/version":
		w.Write([]byte(`{"version":"1.62"}`))
	case "/api/v1/hvac":
		var q map[string]any
		json.NewDecoder(r.Body).Decode(&q)
		if q["systemID"] == float64(airzone.AllSystemsID) {
			w.Write([]byte(`{"systems":[{"systemID":1,"manufacturer":"Airzone"}]}`))
			return
		}
		w.Write([]byte(f.zones))
	default:
		http.NotFound(w, r)
	}
}

func newTestManager(t *testing.T, f *fakeWebserver) (*Manager, string) {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	client := airzone.NewClient(logr.Discard(), airzone.Config{
		Host:     host,
		Port:     port,
		CacheDir: t.TempDir(),
	})
	t.Cleanup(client.Close)

	dir := t.TempDir()
	return NewManager(logr.Discard(), client, dir), dir
}

const liveZones = `{"data":[
	{"systemID":1,"zoneID":1,"name":"Living","on":0,"setpoint":20.0,"mode":3},
	{"systemID":1,"zoneID":2,"name":"Office","on":1,"setpoint":22.0,"mode":3}
]}`

func TestCreateProducesValidSnapshot(t *testing.T) {
	mgr, dir := newTestManager(t, &fakeWebserver{zones: liveZones})

	file, err := mgr.Create(context.Background(), "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if filepath.Dir(file) != dir {
		t.Errorf("snapshot written to %s, want the backup directory %s", file, dir)
	}
	if err := Validate(file); err != nil {
		t.Errorf("fresh snapshot fails validation: %v", err)
	}

	infos, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("List returned %d entries, want 1", len(infos))
	}
	if infos[0].Systems != 1 {
		t.Errorf("List reports %d systems, want 1", infos[0].Systems)
	}
}

func writeSnapshot(t *testing.T, path string, snap Snapshot) {
	t.Helper()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
}

func testSnapshot(zones string) Snapshot {
	return Snapshot{
		Webserver: json.RawMessage(`{"mac":"AA:BB:CC:DD:EE:FF"}`),
		Systems:   json.RawMessage(`{"systems":[{"systemID":1}]}`),
		Zones:     json.RawMessage(zones),
		Metadata: Metadata{
			Created:    "2026-08-25T10:00:00Z",
			Host:       "192.168.1.100",
			Port:       3000,
			Version:    "1.62",
			BackupType: "full",
		},
	}
}

func TestValidateRejectsMissingSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")

	snap := testSnapshot(liveZones)
	data, _ := json.Marshal(map[string]any{
		"webserver": snap.Webserver,
		"systems":   snap.Systems,
		"metadata":  snap.Metadata,
		// no "zones"
	})
	os.WriteFile(path, data, 0o644)

	if err := Validate(path); err == nil {
		t.Error("snapshot without zones section validated")
	}
}

func TestValidateRejectsMissingHost(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	snap := testSnapshot(liveZones)
	snap.Metadata.Host = ""
	writeSnapshot(t, path, snap)

	if err := Validate(path); err == nil {
		t.Error("snapshot without metadata host validated")
	}
}

func TestRestoreDryRunWritesNothing(t *testing.T) {
	f := &fakeWebserver{zones: liveZones}
	mgr, dir := newTestManager(t, f)

	path := filepath.Join(dir, "snap.json")
	// Snapshot differs from live state: zone 1 was on at 21°C.
	writeSnapshot(t, path, testSnapshot(`{"data":[
		{"systemID":1,"zoneID":1,"name":"Living","on":1,"setpoint":21.0,"mode":3}
	]}`))

	report, err := mgr.Restore(context.Background(), path, true)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !report.DryRun {
		t.Error("report not flagged as dry run")
	}
	if len(report.Changes) != 2 {
		t.Errorf("dry run found %d changes, want 2 (on and setpoint)", len(report.Changes))
	}
	if len(f.puts) != 0 {
		t.Errorf("dry run issued %d writes", len(f.puts))
	}
}

func TestRestoreAppliesDifferences(t *testing.T) {
	f := &fakeWebserver{zones: liveZones}
	mgr, dir := newTestManager(t, f)

	path := filepath.Join(dir, "snap.json")
	writeSnapshot(t, path, testSnapshot(`{"data":[
		{"systemID":1,"zoneID":1,"name":"Living","on":1,"setpoint":20.0,"mode":3},
		{"systemID":1,"zoneID":2,"name":"Office","on":1,"setpoint":22.0,"mode":3}
	]}`))

	report, err := mgr.Restore(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	// Only zone 1's power state differs; zone 2 matches live state exactly.
	if report.Restored != 1 {
		t.Errorf("restored %d zones, want 1", report.Restored)
	}
	if len(f.puts) != 1 {
		t.Fatalf("device saw %d writes, want 1", len(f.puts))
	}
	put := f.puts[0]
	if put["systemID"] != float64(1) || put["zoneID"] != float64(1) || put["on"] != float64(1) {
		t.Errorf("unexpected write body: %v", put)
	}
}

func TestRestoreIgnoresSetpointWithinTolerance(t *testing.T) {
	f := &fakeWebserver{zones: liveZones}
	mgr, dir := newTestManager(t, f)

	path := filepath.Join(dir, "snap.json")
	writeSnapshot(t, path, testSnapshot(`{"data":[
		{"systemID":1,"zoneID":2,"name":"Office","on":1,"setpoint":22.05,"mode":3}
	]}`))

	report, err := mgr.Restore(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if report.Restored != 0 {
		t.Errorf("restored %d zones for a 0.05°C setpoint delta", report.Restored)
	}
}

func TestRestoreReportsMissingZones(t *testing.T) {
	f := &fakeWebserver{zones: liveZones}
	mgr, dir := newTestManager(t, f)

	path := filepath.Join(dir, "snap.json")
	writeSnapshot(t, path, testSnapshot(`{"data":[
		{"systemID":9,"zoneID":9,"name":"Attic","on":1,"setpoint":21.0}
	]}`))

	report, err := mgr.Restore(context.Background(), path, false)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(report.Missing) != 1 {
		t.Errorf("Missing = %v, want one entry", report.Missing)
	}
}

func TestRestoreRefusesInvalidSnapshot(t *testing.T) {
	f := &fakeWebserver{zones: liveZones}
	mgr, dir := newTestManager(t, f)

	path := filepath.Join(dir, "bad.json")
	os.WriteFile(path, []byte(`{"zones":{}}`), 0o644)

	if _, err := mgr.Restore(context.Background(), path, false); err == nil {
		t.Error("restore proceeded from an invalid snapshot")
	}
	if len(f.puts) != 0 {
		t.Errorf("invalid snapshot caused %d writes", len(f.puts))
	}
}
