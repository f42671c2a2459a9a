package airzone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/hvactools/airzonectl/pkg/airzone/cache"
)

// DefaultTimeout bounds every HTTP call. The device has no long-running
// requests; anything slower than this is a dead webserver.
const DefaultTimeout = 10 * time.Second

// Config carries the connection and cache settings of a Client.
type Config struct {
	Host         string
	Port         int
	Timeout      time.Duration
	DisableCache bool
	CacheDir     string
	CacheMaxAge  time.Duration
}

// Client talks to one Airzone webserver. Reads (POST) are served from the
// cache when fresh; writes (PUT) always call through and then invalidate the
// affected keys. It is synchronous and not safe for concurrent use.
type Client struct {
	host    string
	port    int
	baseURL string
	http    *http.Client
	cache   *cache.Store
	log     logr.Logger
}

// NewClient builds a client. The cache is best effort: when its directory
// cannot be created the client runs uncached instead of failing.
func NewClient(log logr.Logger, cfg Config) *Client {
	if cfg.Host == "" {
		cfg.Host = "192.168.1.100"
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &Client{
		host:    cfg.Host,
		port:    cfg.Port,
		baseURL: fmt.Sprintf("http://%s:%d/api/v1", cfg.Host, cfg.Port),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log.WithName("airzone"),
	}

	if !cfg.DisableCache {
		store, err := cache.NewStore(log, cfg.CacheDir, cfg.CacheMaxAge)
		if err != nil {
			c.log.Error(err, "Cache unavailable, running uncached")
		} else {
			c.cache = store
		}
	}
	return c
}

func (c *Client) Host() string { return c.host }
func (c *Client) Port() int    { return c.port }

// Close releases the cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

func (c *Client) call(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.V(1).Info("Calling", "method", method, "url", url)
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		c.log.Error(nil, "API call failed", "endpoint", endpoint, "status", res.StatusCode)
		return nil, &APIError{Endpoint: endpoint, StatusCode: res.StatusCode}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	if !json.Valid(data) {
		return nil, &APIError{Endpoint: endpoint, Err: fmt.Errorf("invalid JSON response")}
	}
	return data, nil
}

// Read performs a query. Cacheable requests are served from the cache unless
// force is set; successful responses are stored back under the derived key.
func (c *Client) Read(ctx context.Context, endpoint string, q *Query, force bool) (json.RawMessage, error) {
	key := CacheKey(endpoint, q)

	if c.cache != nil && key != "" && !force {
		if doc, ok := c.cache.Get(key); ok {
			c.log.V(1).Info("Serving from cache", "endpoint", endpoint, "key", key)
			return doc, nil
		}
	}

	var body any
	if q != nil {
		body = q
	}
	doc, err := c.call(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && key != "" {
		c.cache.Set(key, doc)
	}
	return doc, nil
}

// Write performs a mutation. It never consults the cache and, on success,
// invalidates every key that could contain the mutated entity.
func (c *Client) Write(ctx context.Context, endpoint string, body any, stale ...string) (json.RawMessage, error) {
	doc, err := c.call(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		for _, key := range stale {
			c.cache.Invalidate(key)
		}
	}
	return doc, nil
}

// Version returns the API version.
func (c *Client) Version(ctx context.Context, force bool) (*VersionInfo, error) {
	raw, err := c.Read(ctx, EndpointVersion, nil, force)
	if err != nil {
		return nil, err
	}
	var v VersionInfo
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode version response: %w", err)
	}
	return &v, nil
}

// Webserver returns webserver information.
func (c *Client) Webserver(ctx context.Context, force bool) (*WebserverInfo, error) {
	raw, err := c.Read(ctx, EndpointWebserver, nil, force)
	if err != nil {
		return nil, err
	}
	var w WebserverInfo
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode webserver response: %w", err)
	}
	w.Raw = raw
	return &w, nil
}

// AllSystems returns every system known to the webserver.
func (c *Client) AllSystems(ctx context.Context, force bool) ([]SystemData, error) {
	raw, err := c.Read(ctx, EndpointHvac, &Query{SystemID: AllSystemsID}, force)
	if err != nil {
		return nil, err
	}
	return DecodeSystems(raw)
}

// AllZones returns every zone across every system.
func (c *Client) AllZones(ctx context.Context, force bool) ([]ZoneData, error) {
	zero := 0
	raw, err := c.Read(ctx, EndpointHvac, &Query{SystemID: 0, ZoneID: &zero}, force)
	if err != nil {
		return nil, err
	}
	return DecodeZones(raw)
}

// System returns one system, or ErrNotFound.
func (c *Client) System(ctx context.Context, systemID int, force bool) (*SystemData, error) {
	raw, err := c.Read(ctx, EndpointHvac, &Query{SystemID: systemID}, force)
	if err != nil {
		return nil, err
	}
	systems, err := DecodeSystems(raw)
	if err != nil {
		return nil, err
	}
	for i := range systems {
		if systems[i].SystemID == systemID || systems[i].SystemID == 0 {
			systems[i].SystemID = systemID
			return &systems[i], nil
		}
	}
	return nil, fmt.Errorf("system %d: %w", systemID, ErrNotFound)
}

// Zone returns one zone, or ErrNotFound.
func (c *Client) Zone(ctx context.Context, systemID, zoneID int, force bool) (*ZoneData, error) {
	raw, err := c.Read(ctx, EndpointHvac, &Query{SystemID: systemID, ZoneID: &zoneID}, force)
	if err != nil {
		return nil, err
	}
	zones, err := DecodeZones(raw)
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("zone %d/%d: %w", systemID, zoneID, ErrNotFound)
	}
	return &zones[0], nil
}

// SetZoneParameters writes the given fields to a zone and invalidates the
// zone, its system, and both aggregates.
func (c *Client) SetZoneParameters(ctx context.Context, systemID, zoneID int, params Params) (json.RawMessage, error) {
	body := map[string]any{"systemID": systemID, "zoneID": zoneID}
	for k, v := range params {
		body[k] = v
	}
	return c.Write(ctx, EndpointHvac, body,
		fmt.Sprintf("zone_%d_%d", systemID, zoneID),
		fmt.Sprintf("system_%d", systemID),
		"systems",
		"zones",
	)
}

// AllIAQSensors returns every IAQ sensor across every system.
func (c *Client) AllIAQSensors(ctx context.Context, force bool) ([]IAQSensorData, error) {
	raw, err := c.Read(ctx, EndpointIAQ, &Query{SystemID: AllSystemsID}, force)
	if err != nil {
		return nil, err
	}
	return DecodeIAQSensors(raw)
}

// IAQSensor returns one IAQ sensor, or ErrNotFound.
func (c *Client) IAQSensor(ctx context.Context, systemID, sensorID int, force bool) (*IAQSensorData, error) {
	raw, err := c.Read(ctx, EndpointIAQ, &Query{SystemID: systemID, IAQSensorID: &sensorID}, force)
	if err != nil {
		return nil, err
	}
	sensors, err := DecodeIAQSensors(raw)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 {
		return nil, fmt.Errorf("iaq sensor %d/%d: %w", systemID, sensorID, ErrNotFound)
	}
	return &sensors[0], nil
}

// SetIAQParameters writes the given fields to an IAQ sensor and invalidates
// the sensor, its system aggregate, and the all-sensors aggregate.
func (c *Client) SetIAQParameters(ctx context.Context, systemID, sensorID int, params Params) (json.RawMessage, error) {
	body := map[string]any{"systemID": systemID, "iaqsensorid": sensorID}
	for k, v := range params {
		body[k] = v
	}
	return c.Write(ctx, EndpointIAQ, body,
		fmt.Sprintf("iaq_sensor_%d_%d", systemID, sensorID),
		fmt.Sprintf("iaq_system_%d", systemID),
		"iaq_sensors",
	)
}

// Demo returns the demo document listing every parameter the firmware
// understands. Not cacheable.
func (c *Client) Demo(ctx context.Context) (json.RawMessage, error) {
	return c.Read(ctx, EndpointDemo, nil, false)
}

// InvalidateCache drops one key, or the whole cache when key is empty.
func (c *Client) InvalidateCache(key string) bool {
	if c.cache == nil {
		return false
	}
	if key != "" {
		return c.cache.Invalidate(key)
	}
	return c.cache.InvalidateAll()
}
