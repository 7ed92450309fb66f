// Package config provides configuration models and helpers for extraction runs.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
	"time"

	"flightetl/internal/flight"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "search.flight_types[1]"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values.
// Callers may decide whether to treat warnings as fatal or not.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSearch(p.Search)...)
	issues = append(issues, validateCodes(p.Codes)...)
	issues = append(issues, validateCountries(p.Countries)...)
	issues = append(issues, validateStorage(p.Storage)...)
	issues = append(issues, validateMetrics(p.Metrics)...)

	return issues
}

// validateSearch validates the search and request-document configuration.
func validateSearch(s SearchConfig) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Endpoint) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.endpoint",
			Message:  "search.endpoint must not be empty (offline replay still needs it for record keeping)",
		})
	}
	if strings.TrimSpace(s.Date) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.date",
			Message:  "search.date must not be empty",
		})
	} else if _, err := time.Parse("2006-01-02", s.Date); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.date",
			Message:  fmt.Sprintf("search.date %q is not a YYYY-MM-DD date", s.Date),
		})
	}

	if len(s.FlightTypes) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.flight_types",
			Message:  "at least one flight type code is required",
		})
	}
	_, unknown := flight.ParseServiceTypes(s.FlightTypes)
	for _, code := range unknown {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.flight_types",
			Message:  fmt.Sprintf("unknown flight type code %q", code),
		})
	}

	if s.EnableBatching && s.BatchSize <= 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.batch_size",
			Message:  fmt.Sprintf("batch_size=%d; batching requires a positive batch size", s.BatchSize),
		})
	}
	if s.TimeoutSeconds < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "search.timeout_seconds",
			Message:  "timeout_seconds must not be negative",
		})
	}

	return issues
}

// validateCodes validates the airport code sets.
func validateCodes(c CodesConfig) []Issue {
	var issues []Issue

	if len(c.Origins) == 0 && len(c.Destinations) == 0 && len(c.Both) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "codes",
			Message:  "no airport codes configured; nothing would be queried",
		})
		return issues
	}

	check := func(path string, codes []string) {
		for i, code := range codes {
			if len(strings.TrimSpace(code)) != 3 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     fmt.Sprintf("%s[%d]", path, i),
					Message:  fmt.Sprintf("code %q does not look like a 3-letter IATA code", code),
				})
			}
		}
	}
	check("codes.origins", c.Origins)
	check("codes.destinations", c.Destinations)
	check("codes.both", c.Both)

	return issues
}

// validateCountries validates the country reference table.
func validateCountries(countries []CountryRef) []Issue {
	var issues []Issue

	if len(countries) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "countries",
			Message:  "country table is empty; every folded itinerary will be dropped at the country join",
		})
		return issues
	}
	for i, c := range countries {
		if strings.TrimSpace(c.Code) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("countries[%d].code", i),
				Message:  "country code must not be empty",
			})
		}
	}

	return issues
}

// validateStorage validates storage configuration and DB settings.
func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}

	db := s.DB
	if strings.TrimSpace(db.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(db.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}

	return issues
}

// validateMetrics validates the metrics backend selection.
func validateMetrics(m MetricsConfig) []Issue {
	var issues []Issue

	if m.Backend == "" {
		return issues
	}
	known := map[string]struct{}{
		"nop":        {},
		"prometheus": {},
		"datadog":    {},
	}
	if _, ok := known[m.Backend]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q; the nop backend will be used", m.Backend),
		})
	}
	if m.Backend == "prometheus" && strings.TrimSpace(m.PushGatewayURL) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.push_gateway_url",
			Message:  "prometheus backend requires a pushgateway URL",
		})
	}
	if m.Backend == "datadog" && strings.TrimSpace(m.StatsdAddr) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.statsd_addr",
			Message:  "datadog backend requires a statsd address",
		})
	}

	return issues
}
