// Package diag collects error flags from every system and zone and explains
// the known Airzone error codes with their remediation steps.
package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"

	"github.com/hvactools/airzonectl/pkg/airzone"
)

// Descriptions of the error codes the local API is known to report.
var errorDescriptions = map[string]string{
	"Error 9": "Gateway-System communication error. The system loses communication with the AC unit. " +
		"The system will open all the zones and deactivate the control from the controllers, " +
		"only allowing the operation of the unit from the controller of its manufacturer.",
	"Error 12": "Communication error between Airzone Cloud Webserver - system. " +
		"The system loses communication with the Webserver. " +
		"Check that the Webserver is correctly connected to the Control board's automation bus.",
	"IU error CONF": "Indoor Unit configuration error. There might be a mismatch in the configuration " +
		"between the Airzone system and the indoor unit.",
}

var errorSolutions = map[string][]string{
	"Error 9": {
		"Check physical connections between the gateway and the AC unit",
		"Power cycle both the AC unit and the Airzone system",
		"Verify that the AC unit is functioning correctly",
	},
	"Error 12": {
		"Check physical connections between the webserver and the control board",
		"Power cycle the webserver",
		"Verify network connectivity if using an IP connection",
	},
	"IU error CONF": {
		"Check configuration settings in the AC unit",
		"Verify compatibility between the Airzone system and the AC unit",
		"Try resetting the AC unit and the Airzone system",
	},
}

// Describe returns the explanation for a known error code.
func Describe(code string) string {
	if d, ok := errorDescriptions[code]; ok {
		return d
	}
	return "Unknown error code"
}

// Solutions returns the remediation steps for a known error code.
func Solutions(code string) []string {
	if s, ok := errorSolutions[code]; ok {
		return s
	}
	return []string{
		"Consult the Airzone documentation for specific error codes",
		"Contact Airzone technical support",
	}
}

// Finding is one error flag found on a system or a zone.
type Finding struct {
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"` // "system" or "zone"
	SystemID  int    `json:"system_id"`
	ZoneID    int    `json:"zone_id,omitempty"`
	ZoneName  string `json:"zone_name,omitempty"`
	ErrorCode string `json:"error_code"`
}

// Collect scans every system and every zone for error flags. Reads bypass
// the cache so stale data cannot mask a live fault.
func Collect(ctx context.Context, log logr.Logger, client *airzone.Client) ([]Finding, error) {
	now := time.Now().Format(time.RFC3339)

	systems, err := client.AllSystems(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read systems: %w", err)
	}

	var findings []Finding
	for i := range systems {
		sys := &systems[i]
		for _, rec := range sys.Errors {
			for _, code := range recordCodes(rec) {
				findings = append(findings, Finding{
					Timestamp: now,
					Type:      "system",
					SystemID:  sys.SystemID,
					ErrorCode: code,
				})
				log.Info("System error", "systemID", sys.SystemID, "code", code)
			}
		}
	}

	zones, err := client.AllZones(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("read zones: %w", err)
	}
	for i := range zones {
		z := &zones[i]
		for _, rec := range z.Errors {
			for _, code := range recordCodes(rec) {
				findings = append(findings, Finding{
					Timestamp: now,
					Type:      "zone",
					SystemID:  z.SystemID,
					ZoneID:    z.ID,
					ZoneName:  z.Name,
					ErrorCode: code,
				})
				log.Info("Zone error", "systemID", z.SystemID, "zoneID", z.ID,
					"zone", z.Name, "code", code)
			}
		}
	}
	return findings, nil
}

// recordCodes flattens one error record. The device reports either
// {"system": "Error 9"} or {"zone": "..."} entries; numbers become
// "Error N".
func recordCodes(rec airzone.ErrorRecord) []string {
	var codes []string
	for _, key := range []string{"system", "zone"} {
		v, ok := rec[key]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			codes = append(codes, val)
		case float64:
			codes = append(codes, fmt.Sprintf("Error %d", int(val)))
		}
	}
	return codes
}

// SaveLog writes the findings as JSON under the logs directory, returning
// the file path.
func SaveLog(findings []Finding, filename string) (string, error) {
	if filename == "" {
		if err := os.MkdirAll("logs", 0o755); err != nil {
			return "", err
		}
		stamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("logs", fmt.Sprintf("airzone_errors_%s.json", stamp))
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}

// PrintReport writes a human-readable report of the findings, including the
// manual intervention notice. The local API offers no remote restart.
func PrintReport(w io.Writer, findings []Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No errors detected in any system or zone. All systems appear to be functioning normally.")
		return
	}

	for _, f := range findings {
		if f.Type == "zone" {
			fmt.Fprintf(w, "\n===== ZONE %s (System %d, Zone %d) ERROR =====\n", f.ZoneName, f.SystemID, f.ZoneID)
		} else {
			fmt.Fprintf(w, "\n===== SYSTEM %d ERROR =====\n", f.SystemID)
		}
		fmt.Fprintf(w, "Error: %s\n", f.ErrorCode)
		fmt.Fprintf(w, "Description: %s\n", Describe(f.ErrorCode))
		fmt.Fprintln(w, "Solutions:")
		for i, step := range Solutions(f.ErrorCode) {
			fmt.Fprintf(w, "  %d. %s\n", i+1, step)
		}
	}

	fmt.Fprintln(w, "\n===== MANUAL INTERVENTION REQUIRED =====")
	fmt.Fprintln(w, "Remote restart is not possible via the local API.")
	fmt.Fprintln(w, "To resolve errors, physical intervention is required:")
	fmt.Fprintln(w, "  1. Power cycle the Airzone webserver hardware")
	fmt.Fprintln(w, "  2. Check all physical connections between components")
	fmt.Fprintln(w, "  3. Power cycle the affected AC units")
	fmt.Fprintln(w, "  4. If errors persist, contact Airzone technical support")
}
