// Package config defines the canonical, JSON-serializable configuration model
// for the flight extraction pipeline. It is intentionally small, explicit, and
// dependency-free so that runs can be loaded from disk and passed through the
// program without additional glue code.
//
// Design goals:
//
//  1. Stability: Changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: Field names in Go mirror the JSON structure used in run files
//     under configs/*.json.
//  3. Minimalism: No third-party config libraries; decoding is performed by the
//     standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "job": "flights-daily",
//	  "search": { "endpoint": "https://...", "date": "2026-09-02", "flight_types": ["F"] },
//	  "codes":  { "origins": ["SFO"], "destinations": ["NRT"], "both": ["LAX"] },
//	  "storage": { "kind": "postgres", "db": { "dsn": "...", "table": "public.flights" } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Pipeline describes a full extraction run in JSON. It is the top-level object
// decoded from a run file (e.g., configs/*.json).
type Pipeline struct {
	// Job names the run for logging and metrics labeling.
	Job string `json:"job"`

	// Search configures the upstream search API and the request documents
	// submitted to it.
	Search SearchConfig `json:"search"`

	// Codes lists the airport codes the run queries over.
	Codes CodesConfig `json:"codes"`

	// Countries is the country reference table (code to display name) joined
	// during folding.
	Countries []CountryRef `json:"countries"`

	// Scratch configures the on-disk working area for per-batch files.
	Scratch ScratchConfig `json:"scratch"`

	// Storage describes where finalized rows are written (e.g., Postgres).
	Storage Storage `json:"storage"`

	// Export configures the CSV and parquet outputs.
	Export ExportConfig `json:"export"`

	// Metrics selects the metrics backend and its settings.
	Metrics MetricsConfig `json:"metrics"`
}

// SearchConfig configures the upstream search API and request construction.
type SearchConfig struct {
	// Endpoint is the search API URL request documents are POSTed to.
	Endpoint string `json:"endpoint"`

	// TimeoutSeconds is the per-request timeout. Zero means the client default.
	TimeoutSeconds int `json:"timeout_seconds"`

	// InsecureSkipVerify disables TLS verification for internal endpoints.
	InsecureSkipVerify bool `json:"insecure_skip_verify"`

	// Date is the travel date queried, formatted YYYY-MM-DD.
	Date string `json:"date"`

	// MinConnectionTime, MaxStopCount and DaysAfter are copied verbatim into
	// the request document's search slice.
	MinConnectionTime string `json:"min_connection_time"`
	MaxStopCount      string `json:"max_stop_count"`
	DaysAfter         string `json:"days_after"`

	// Summarizer optionally names the result summarizer requested.
	Summarizer string `json:"summarizer"`

	// SearchAttrs and SearchControlAttrs are attribute bags emitted on the
	// corresponding request-document elements.
	SearchAttrs        map[string]string `json:"search_attrs"`
	SearchControlAttrs map[string]string `json:"search_control_attrs"`

	// FlightTypes lists the service-type codes to query (e.g., ["F", "G"]).
	FlightTypes []string `json:"flight_types"`

	// BatchSize caps the number of primary codes per request when batching is
	// enabled.
	BatchSize int `json:"batch_size"`

	// EnableBatching splits the primary code set into batches of BatchSize.
	// When false a single request carries every code.
	EnableBatching bool `json:"enable_batching"`
}

// CodesConfig lists the airport codes the run queries over. Origins are
// queried in the origin direction, Destinations in the destination direction,
// and Both in both.
type CodesConfig struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
	Both         []string `json:"both"`
}

// CountryRef is one row of the country reference table.
type CountryRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ScratchConfig configures the on-disk working area.
type ScratchConfig struct {
	// Dir is the scratch root. Empty means "scratch" under the working
	// directory.
	Dir string `json:"dir"`
}

// Storage selects the sink used to persist finalized rows.
type Storage struct {
	// Kind selects the storage implementation. Current values: "postgres",
	// "sqlite".
	Kind string `json:"kind"`

	// DB carries the connection settings shared by the DB backends.
	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the connection string (pgx/pgxpool URL for postgres, a file path
	// for sqlite).
	DSN string `json:"dsn"`

	// Table is the fully qualified destination table (e.g., "public.flights").
	// The load truncates it before inserting.
	Table string `json:"table"`

	// AutoCreateTable creates the destination table from the row schema when
	// it does not exist.
	AutoCreateTable bool `json:"auto_create_table"`
}

// ExportConfig configures the flat-file outputs written after the DB load.
type ExportConfig struct {
	// Dir is the directory CSV and parquet files are written to. Empty means
	// "output".
	Dir string `json:"dir"`

	// Prefix is the CSV filename prefix; the run date is appended. Empty
	// means "flights".
	Prefix string `json:"prefix"`

	// Options is a free-form bag for format tweaks (e.g., "comma").
	Options Options `json:"options"`
}

// MetricsConfig selects the metrics backend.
type MetricsConfig struct {
	// Backend selects the implementation: "nop" (default), "prometheus", or
	// "datadog".
	Backend string `json:"backend"`

	// PushGatewayURL is the Prometheus pushgateway address for the
	// "prometheus" backend.
	PushGatewayURL string `json:"push_gateway_url"`

	// StatsdAddr is the dogstatsd address for the "datadog" backend.
	StatsdAddr string `json:"statsd_addr"`
}

// Load reads and decodes a run file.
func Load(path string) (Pipeline, error) {
	var p Pipeline
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
// If the value is neither float64 nor int, def is returned.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character settings such as a
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of strings
// (or an array of interface values containing strings). Returns nil when the
// key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key (which may itself be a nested
// map[string]any, []any, or primitive).
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// simplifies call sites by removing the need to nil-check Options values.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
