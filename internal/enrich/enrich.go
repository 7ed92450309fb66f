// Package enrich joins parsed legs against the reference tables and prepares
// them for folding: airport and carrier attributes are attached via inner
// joins, timestamps are parsed, and the result is sorted so each itinerary's
// legs are contiguous and in departure order.
//
// Every join is inner by contract: a leg whose key is absent from the
// reference table is permanently dropped, with the loss counted and a sample
// of unmatched keys logged.
package enrich

import (
	"log"
	"sort"

	"flightetl/internal/flight"
	"flightetl/internal/reference"
)

// Stats accounts for rows lost at each enrichment step.
type Stats struct {
	Input           int
	EmptyOrigin     int // removed by the cleaning step
	LostOrigin      int // origin code not in the airport table
	LostDestination int // destination code not in the airport table
	LostCarrier     int // carrier code not in the carrier table
	BadTimestamp    int // departure or arrival text unparseable
	Output          int
}

const sampleLimit = 5

// Enrich cleans, joins, parses, and sorts the run's legs.
func Enrich(legs []flight.Leg, tables *reference.Tables) ([]flight.EnrichedLeg, Stats) {
	stats := Stats{Input: len(legs)}

	// Cleaning: rows with an empty origin carry the parser's defaulting
	// fallback and are removed before any join.
	cleaned := legs[:0:0]
	for _, l := range legs {
		if l.Origin == "" {
			stats.EmptyOrigin++
			continue
		}
		cleaned = append(cleaned, l)
	}
	if stats.EmptyOrigin > 0 {
		log.Printf("enrich: filtered %d legs with empty origin", stats.EmptyOrigin)
	}

	var (
		out              []flight.EnrichedLeg
		unmatchedOrigin  []string
		unmatchedDest    []string
		unmatchedCarrier []string
	)
	for _, l := range cleaned {
		origin, ok := tables.AirportByCode(l.Origin)
		if !ok {
			stats.LostOrigin++
			unmatchedOrigin = appendSample(unmatchedOrigin, l.Origin)
			continue
		}
		dest, ok := tables.AirportByCode(l.Destination)
		if !ok {
			stats.LostDestination++
			unmatchedDest = appendSample(unmatchedDest, l.Destination)
			continue
		}
		carrier, ok := tables.CarrierByCode(l.Carrier)
		if !ok {
			stats.LostCarrier++
			unmatchedCarrier = appendSample(unmatchedCarrier, l.Carrier)
			continue
		}

		departAt, err1 := parseTimestamp(l.Departure)
		arriveAt, err2 := parseTimestamp(l.Arrival)
		if err1 != nil || err2 != nil {
			stats.BadTimestamp++
			log.Printf("enrich: dropping leg %s %s->%s: unparseable timestamp (departure=%q arrival=%q)",
				l.FlightID, l.Origin, l.Destination, l.Departure, l.Arrival)
			continue
		}

		out = append(out, flight.EnrichedLeg{
			Leg:               l,
			OriginAirportName: origin.Name,
			OriginCountry:     origin.Country,
			OriginLatitude:    origin.Latitude,
			OriginLongitude:   origin.Longitude,
			DestAirportName:   dest.Name,
			DestCountry:       dest.Country,
			DestLatitude:      dest.Latitude,
			DestLongitude:     dest.Longitude,
			CarrierName:       carrier.Name,
			DepartureAt:       departAt,
			ArrivalAt:         arriveAt,
		})
	}

	logLoss("origin airport", stats.LostOrigin, unmatchedOrigin)
	logLoss("destination airport", stats.LostDestination, unmatchedDest)
	logLoss("carrier", stats.LostCarrier, unmatchedCarrier)

	// Legs of one itinerary must end up contiguous and in departure order;
	// itinerary ids repeat across batches, so the sort key is the composite.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ServiceType != b.ServiceType {
			return a.ServiceType < b.ServiceType
		}
		if a.Direction != b.Direction {
			return a.Direction < b.Direction
		}
		if a.BatchNum != b.BatchNum {
			return a.BatchNum < b.BatchNum
		}
		if a.ItineraryID != b.ItineraryID {
			return a.ItineraryID < b.ItineraryID
		}
		return a.DepartureAt.Before(b.DepartureAt)
	})

	stats.Output = len(out)
	log.Printf("enrich: %d legs in, %d legs out", stats.Input, stats.Output)
	return out, stats
}

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

func logLoss(join string, lost int, samples []string) {
	if lost == 0 {
		return
	}
	log.Printf("enrich: lost %d legs joining %s data (unmatched sample: %v)", lost, join, samples)
}
