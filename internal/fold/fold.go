// Package fold collapses enriched legs into one row per itinerary. Legs are
// grouped by the composite itinerary key (service type, direction, batch,
// itinerary id): ids reset per document, so the id alone would merge
// unrelated journeys from different batches.
//
// The per-column aggregation policy is a declarative table (column name →
// fold function) so each column's rule can be read, and tested, on its own.
package fold

import (
	"log"
	"strings"

	"flightetl/internal/flight"
	"flightetl/internal/reference"
)

// Stats accounts for fold-stage output and row loss.
type Stats struct {
	Legs        int
	Itineraries int
	LostCountry int // folded rows whose ISO codes missed the country table
}

// foldFunc computes one output column from an ordered group of legs.
// Groups are never empty.
type foldFunc func(group []flight.EnrichedLeg, out *flight.Itinerary)

// column pairs an output column name with its fold rule.
type column struct {
	name  string
	apply foldFunc
}

// policy is the full fold table. "first"/"last" refer to leg order within
// the group; the via fields take the FIRST leg's destination (the candidate
// intermediate stop) while the final destination fields take the last leg's.
var policy = []column{
	{"flight_type", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ServiceType = first(g).ServiceType }},
	{"flights", func(g []flight.EnrichedLeg, out *flight.Itinerary) {
		out.Flights = pipeJoin(g, func(l flight.EnrichedLeg) string { return l.FlightID })
	}},
	{"num_stops", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.NumStops = len(g) }},

	{"origin_iata", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.OriginIATA = first(g).Origin }},
	{"origin_airport_name", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.OriginAirportName = first(g).OriginAirportName }},
	{"origin_iso_country_code", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.OriginISOCountry = first(g).OriginCountry }},
	{"origin_latitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.OriginLatitude = first(g).OriginLatitude }},
	{"origin_longitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.OriginLongitude = first(g).OriginLongitude }},

	{"via_iata", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ViaIATA = first(g).Destination }},
	{"via_airport_name", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ViaAirportName = first(g).DestAirportName }},
	{"via_iso_country_code", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ViaISOCountry = first(g).DestCountry }},
	{"via_latitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ViaLatitude = first(g).DestLatitude }},
	{"via_longitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ViaLongitude = first(g).DestLongitude }},

	{"destination_iata", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DestinationIATA = last(g).Destination }},
	{"destination_airport_name", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DestinationAirportName = last(g).DestAirportName }},
	{"destination_iso_country_code", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DestinationISOCountry = last(g).DestCountry }},
	{"destination_latitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DestinationLatitude = last(g).DestLatitude }},
	{"destination_longitude", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DestinationLongitude = last(g).DestLongitude }},

	{"airline_codes", func(g []flight.EnrichedLeg, out *flight.Itinerary) {
		out.AirlineCodes = pipeJoin(g, func(l flight.EnrichedLeg) string { return l.Carrier })
	}},
	{"airline_names", func(g []flight.EnrichedLeg, out *flight.Itinerary) {
		out.AirlineNames = pipeJoin(g, func(l flight.EnrichedLeg) string { return l.CarrierName })
	}},
	{"aircraft", func(g []flight.EnrichedLeg, out *flight.Itinerary) {
		out.Aircraft = pipeJoin(g, func(l flight.EnrichedLeg) string { return l.Aircraft })
	}},
	{"widths", func(g []flight.EnrichedLeg, out *flight.Itinerary) {
		out.Widths = pipeJoin(g, func(l flight.EnrichedLeg) string { return l.Width })
	}},

	{"departure_dt", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.DepartureAt = first(g).DepartureAt }},
	{"arrival_dt", func(g []flight.EnrichedLeg, out *flight.Itinerary) { out.ArrivalAt = last(g).ArrivalAt }},
}

// Fold groups the sorted legs by composite itinerary key and applies the
// fold policy to each group. After folding, both ISO country codes are
// resolved to display names via an inner join against the country table;
// rows that miss it are dropped with a warning. Finally the via code is
// cleared whenever it equals the final destination (a direct journey).
func Fold(legs []flight.EnrichedLeg, tables *reference.Tables) ([]flight.Itinerary, Stats) {
	stats := Stats{Legs: len(legs)}

	var (
		out            []flight.Itinerary
		unmatchedISO   []string
		group          []flight.EnrichedLeg
		haveKey        bool
		currentKey     flight.Key
		flushAndAppend func()
	)

	flushAndAppend = func() {
		if len(group) == 0 {
			return
		}
		var it flight.Itinerary
		for _, col := range policy {
			col.apply(group, &it)
		}

		originName, ok1 := tables.CountryName(it.OriginISOCountry)
		destName, ok2 := tables.CountryName(it.DestinationISOCountry)
		if !ok1 || !ok2 {
			stats.LostCountry++
			if !ok1 {
				unmatchedISO = appendSample(unmatchedISO, it.OriginISOCountry)
			}
			if !ok2 {
				unmatchedISO = appendSample(unmatchedISO, it.DestinationISOCountry)
			}
			group = group[:0]
			return
		}
		it.OriginCountryName = originName
		it.DestinationCountryName = destName

		// Direct journey: the first leg already reaches the final
		// destination, so there is no via point.
		if it.ViaIATA == it.DestinationIATA {
			it.ViaIATA = ""
		}

		out = append(out, it)
		group = group[:0]
	}

	for _, l := range legs {
		key := l.ItineraryKey()
		if haveKey && key != currentKey {
			flushAndAppend()
		}
		currentKey, haveKey = key, true
		group = append(group, l)
	}
	flushAndAppend()

	if stats.LostCountry > 0 {
		log.Printf("fold: warning: dropped %d itineraries with unknown ISO country codes (sample: %v)",
			stats.LostCountry, unmatchedISO)
	}

	stats.Itineraries = len(out)
	log.Printf("fold: %d itineraries from %d legs", stats.Itineraries, stats.Legs)
	return out, stats
}

func first(g []flight.EnrichedLeg) flight.EnrichedLeg { return g[0] }
func last(g []flight.EnrichedLeg) flight.EnrichedLeg  { return g[len(g)-1] }

func pipeJoin(g []flight.EnrichedLeg, f func(flight.EnrichedLeg) string) string {
	parts := make([]string, len(g))
	for i, l := range g {
		parts[i] = f(l)
	}
	return strings.Join(parts, "|")
}

const sampleLimit = 5

func appendSample(samples []string, key string) []string {
	if len(samples) < sampleLimit {
		for _, s := range samples {
			if s == key {
				return samples
			}
		}
		samples = append(samples, key)
	}
	return samples
}
