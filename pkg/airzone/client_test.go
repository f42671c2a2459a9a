package airzone

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/go-logr/logr"
)

// newTestClient points a cached client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		t.Fatalf("split host port: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	cacheDir := t.TempDir()
	client := NewClient(logr.Discard(), Config{
		Host:     host,
		Port:     port,
		CacheDir: cacheDir,
	})
	t.Cleanup(client.Close)
	return client, cacheDir
}

func TestReadServesSecondCallFromCache(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("read used %s, want POST", r.Method)
		}
		calls++
		w.Write([]byte(`{"systems":[{"systemID":1}]}`))
	}))

	ctx := context.Background()
	if _, err := client.AllSystems(ctx, false); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if _, err := client.AllSystems(ctx, false); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1 (second read should hit the cache)", calls)
	}

	// force bypasses the cache.
	if _, err := client.AllSystems(ctx, true); err != nil {
		t.Fatalf("forced read: %v", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d calls after forced read, want 2", calls)
	}
}

func TestWriteInvalidatesContainingKeys(t *testing.T) {
	client, cacheDir := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.Write([]byte(`{"data":[{"systemID":1,"zoneID":2,"name":"Office"}]}`))
		case http.MethodPut:
			w.Write([]byte(`{"data":{"systemID":1,"zoneID":2,"setpoint":23}}`))
		}
	}))
	ctx := context.Background()

	// Warm every key a zone write must invalidate, plus one it must not.
	if _, err := client.Zone(ctx, 1, 2, false); err != nil {
		t.Fatalf("warm zone: %v", err)
	}
	if _, err := client.System(ctx, 1, false); err != nil {
		t.Fatalf("warm system: %v", err)
	}
	if _, err := client.AllSystems(ctx, false); err != nil {
		t.Fatalf("warm systems: %v", err)
	}
	if _, err := client.AllZones(ctx, false); err != nil {
		t.Fatalf("warm zones: %v", err)
	}
	if _, err := client.Zone(ctx, 3, 1, false); err != nil {
		t.Fatalf("warm unrelated zone: %v", err)
	}

	if _, err := client.SetZoneParameters(ctx, 1, 2, Params{"setpoint": 23.0}); err != nil {
		t.Fatalf("SetZoneParameters: %v", err)
	}

	for _, stale := range []string{"zone_1_2", "system_1", "systems", "zones"} {
		if _, err := os.Stat(filepath.Join(cacheDir, stale+".json")); !os.IsNotExist(err) {
			t.Errorf("cache key %s survived the write", stale)
		}
	}
	if _, err := os.Stat(filepath.Join(cacheDir, "zone_3_1.json")); err != nil {
		t.Errorf("unrelated cache key zone_3_1 was invalidated: %v", err)
	}
}

func TestWriteMergesIdentifyingFields(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode PUT body: %v", err)
			}
		}
		w.Write([]byte(`{"data":{}}`))
	}))

	if _, err := client.SetZoneParameters(context.Background(), 1, 2, Params{"on": 1}); err != nil {
		t.Fatalf("SetZoneParameters: %v", err)
	}
	if body["systemID"] != float64(1) || body["zoneID"] != float64(2) {
		t.Errorf("identifying fields missing from PUT body: %v", body)
	}
	if body["on"] != float64(1) {
		t.Errorf("changed field missing from PUT body: %v", body)
	}
}

func TestNon200BecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such zone", http.StatusInternalServerError)
	}))

	_, err := client.Zone(context.Background(), 1, 99, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestSystemNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"systems":[]}`))
	}))

	_, err := client.System(context.Background(), 5, false)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json`))
	}))

	if _, err := client.Version(context.Background(), false); err == nil {
		t.Error("invalid JSON accepted")
	}
}

func TestDisabledCacheAlwaysCallsThrough(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"systems":[]}`))
	}))
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	host, portStr, _ := net.SplitHostPort(u.Host)
	port, _ := strconv.Atoi(portStr)
	client := NewClient(logr.Discard(), Config{Host: host, Port: port, DisableCache: true})
	t.Cleanup(client.Close)

	ctx := context.Background()
	client.AllSystems(ctx, false)
	client.AllSystems(ctx, false)
	if calls != 2 {
		t.Errorf("server saw %d calls with cache disabled, want 2", calls)
	}
}
