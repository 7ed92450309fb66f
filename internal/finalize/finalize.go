// Package finalize computes the derived metrics for folded itineraries and
// shapes them into the fixed output schema consumed by the storage and
// export layers. The step is purely additive: it never drops rows.
package finalize

import (
	"math"
	"strconv"
	"time"

	"flightetl/internal/flight"
	"flightetl/pkg/records"
)

// Column describes one output column and its relational type.
type Column struct {
	Name    string
	SQLType string // "text", "integer", or "real"
}

// Schema is the fixed, ordered superset of output columns. Downstream
// persistence expects every column to be present; columns the pipeline does
// not populate are padded with NULL.
var Schema = []Column{
	{"flight_type", "text"},
	{"flights", "text"},
	{"num_stops", "integer"},
	{"origin_iata", "text"},
	{"origin_airport_name", "text"},
	{"origin_iso_country_code", "text"},
	{"origin_country", "text"},
	{"origin_latitude", "real"},
	{"origin_longitude", "real"},
	{"via_iata", "text"},
	{"via_airport_name", "text"},
	{"via_iso_country_code", "text"},
	{"via_latitude", "real"},
	{"via_longitude", "real"},
	{"destination_iata", "text"},
	{"destination_airport_name", "text"},
	{"destination_iso_country_code", "text"},
	{"destination_country", "text"},
	{"destination_latitude", "real"},
	{"destination_longitude", "real"},
	{"airline_codes", "text"},
	{"airline_names", "text"},
	{"aircraft", "text"},
	{"widths", "text"},
	{"departure_dt", "text"},
	{"arrival_dt", "text"},
	{"duration_seconds", "real"},
	{"duration_hours", "real"},
	{"departure_time_local", "text"},
	{"arrival_time_local", "text"},
	{"arrival_time_hour", "text"},
	{"flight_num", "text"},
	{"airline_iata", "text"},
	{"origin_closed", "text"},
	{"destination_closed", "text"},
	{"country_alert_updated", "text"},
	{"alert_date", "text"},
	{"alert_time", "text"},
	{"message", "text"},
	{"mode", "text"},
	{"current_capacity_status", "text"},
	{"updated", "text"},
}

// ColumnNames returns the schema's column names in order.
func ColumnNames() []string {
	names := make([]string, len(Schema))
	for i, c := range Schema {
		names[i] = c.Name
	}
	return names
}

const timestampFormat = "2006-01-02 15:04:05"

// Finalize converts itineraries into schema-shaped records: duration is
// computed from the first departure and last arrival, every schema column is
// guaranteed present (NULL when unpopulated), and each row is stamped with
// the processing time.
func Finalize(itineraries []flight.Itinerary, now time.Time) []records.Record {
	updated := now.Format(timestampFormat)
	out := make([]records.Record, 0, len(itineraries))
	for _, it := range itineraries {
		seconds := it.ArrivalAt.Sub(it.DepartureAt).Seconds()
		hours := math.Round(seconds/3600*100) / 100

		rec := records.Record{
			"flight_type":                  string(it.ServiceType),
			"flights":                      it.Flights,
			"num_stops":                    it.NumStops,
			"origin_iata":                  it.OriginIATA,
			"origin_airport_name":          it.OriginAirportName,
			"origin_iso_country_code":      it.OriginISOCountry,
			"origin_country":               it.OriginCountryName,
			"origin_latitude":              coord(it.OriginLatitude),
			"origin_longitude":             coord(it.OriginLongitude),
			"via_iata":                     nullIfEmpty(it.ViaIATA),
			"via_airport_name":             it.ViaAirportName,
			"via_iso_country_code":         it.ViaISOCountry,
			"via_latitude":                 coord(it.ViaLatitude),
			"via_longitude":                coord(it.ViaLongitude),
			"destination_iata":             it.DestinationIATA,
			"destination_airport_name":     it.DestinationAirportName,
			"destination_iso_country_code": it.DestinationISOCountry,
			"destination_country":          it.DestinationCountryName,
			"destination_latitude":         coord(it.DestinationLatitude),
			"destination_longitude":        coord(it.DestinationLongitude),
			"airline_codes":                it.AirlineCodes,
			"airline_names":                it.AirlineNames,
			"aircraft":                     it.Aircraft,
			"widths":                       it.Widths,
			"departure_dt":                 it.DepartureAt.Format(timestampFormat),
			"arrival_dt":                   it.ArrivalAt.Format(timestampFormat),
			"duration_seconds":             seconds,
			"duration_hours":               hours,
			"updated":                      updated,
		}

		// Pad the remaining schema columns with NULL.
		for _, col := range Schema {
			if _, ok := rec[col.Name]; !ok {
				rec[col.Name] = nil
			}
		}
		out = append(out, rec)
	}
	return out
}

// coord parses a latitude/longitude string into a float64, or NULL when the
// text is empty or malformed.
func coord(s string) any {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return f
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
