package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sampleRun = `{
  "job": "flights-daily",
  "search": {
    "endpoint": "https://search.example.com/api",
    "timeout_seconds": 30,
    "date": "2026-09-02",
    "min_connection_time": "45",
    "max_stop_count": "1",
    "flight_types": ["F", "J"],
    "batch_size": 25,
    "enable_batching": true,
    "search_attrs": {"version": "2"}
  },
  "codes": {
    "origins": ["SFO"],
    "destinations": ["NRT"],
    "both": ["LAX"]
  },
  "countries": [{"code": "US", "name": "United States"}],
  "scratch": {"dir": "/tmp/scratch"},
  "storage": {
    "kind": "postgres",
    "db": {"dsn": "postgres://localhost/flights", "table": "public.flights", "auto_create_table": true}
  },
  "export": {
    "dir": "out",
    "prefix": "flights",
    "options": {"comma": ";", "verbose": true, "sample": 3, "tags": ["a", "b"]}
  },
  "metrics": {"backend": "prometheus", "push_gateway_url": "http://localhost:9091"}
}`

func writeRun(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writeRun(t, sampleRun))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Job != "flights-daily" {
		t.Errorf("Job = %q", p.Job)
	}
	if p.Search.Endpoint != "https://search.example.com/api" || p.Search.TimeoutSeconds != 30 {
		t.Errorf("Search = %+v", p.Search)
	}
	if !reflect.DeepEqual(p.Search.FlightTypes, []string{"F", "J"}) {
		t.Errorf("FlightTypes = %v", p.Search.FlightTypes)
	}
	if !p.Search.EnableBatching || p.Search.BatchSize != 25 {
		t.Errorf("batching = %v/%d", p.Search.EnableBatching, p.Search.BatchSize)
	}
	if !reflect.DeepEqual(p.Codes.Both, []string{"LAX"}) {
		t.Errorf("Codes.Both = %v", p.Codes.Both)
	}
	if len(p.Countries) != 1 || p.Countries[0].Code != "US" {
		t.Errorf("Countries = %v", p.Countries)
	}
	if p.Storage.Kind != "postgres" || !p.Storage.DB.AutoCreateTable {
		t.Errorf("Storage = %+v", p.Storage)
	}
	if p.Metrics.Backend != "prometheus" {
		t.Errorf("Metrics = %+v", p.Metrics)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Load() of a missing file should fail")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	if _, err := Load(writeRun(t, `{"job": `)); err == nil {
		t.Fatal("Load() of malformed JSON should fail")
	}
}

func TestOptionsGetters(t *testing.T) {
	p, err := Load(writeRun(t, sampleRun))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	o := p.Export.Options

	if got := o.String("comma", ","); got != ";" {
		t.Errorf("String(comma) = %q", got)
	}
	if got := o.String("absent", "def"); got != "def" {
		t.Errorf("String(absent) = %q", got)
	}
	if got := o.Bool("verbose", false); !got {
		t.Error("Bool(verbose) = false")
	}
	if got := o.Int("sample", 0); got != 3 {
		t.Errorf("Int(sample) = %d", got)
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune(comma) = %q", got)
	}
	if got := o.Rune("absent", ','); got != ',' {
		t.Errorf("Rune(absent) = %q", got)
	}
	if got := o.StringSlice("tags"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("StringSlice(tags) = %v", got)
	}
	if got := o.StringSlice("comma"); got != nil {
		t.Errorf("StringSlice(comma) = %v, want nil for a non-array", got)
	}
	if got := o.Any("absent"); got != nil {
		t.Errorf("Any(absent) = %v", got)
	}
}

func TestOptionsNullDecodesEmpty(t *testing.T) {
	var e ExportConfig
	if err := json.Unmarshal([]byte(`{"options": null}`), &e); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if e.Options == nil {
		t.Fatal("null options should decode to a non-nil empty map")
	}
	if got := e.Options.String("anything", "def"); got != "def" {
		t.Errorf("String on empty options = %q", got)
	}
}
