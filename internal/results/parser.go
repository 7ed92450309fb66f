// Package results implements the single-pass, order-sensitive parser for
// upstream result documents. It walks the document's elements in order,
// appending reference rows to the run's accumulator as a side effect and
// materializing one Leg per aircraft element once an itinerary is open.
package results

import (
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"time"

	"flightetl/internal/flight"
	"flightetl/internal/reference"
)

// state is the parser's position in the document protocol.
type state int

const (
	// stateSeeking: nothing interesting seen yet; only reference rows are
	// collected.
	stateSeeking state = iota
	// stateActive: the results-start marker has been seen; waiting for the
	// first itinerary.
	stateActive
	// stateInItinerary: an itinerary is open and legs are being accumulated.
	stateInItinerary
)

// Element tags that drive state transitions.
const (
	tagResultsStart = "itineraryFullDetail"
	tagItinerary    = "solution"
	tagFlight       = "flight"
	tagLeg          = "leg"
	tagAircraft     = "aircraft"
)

// Drop records one pending leg that failed validation at materialization
// time and was discarded.
type Drop struct {
	ItineraryID int
	Missing     []string
}

// Result is the output of parsing one document.
type Result struct {
	Legs        []flight.Leg
	Rows        int // legs materialized
	Itineraries int // itinerary-start elements seen (1-indexed counter)
	Drops       []Drop
}

// Parser consumes one result document. A fresh Parser is used per document;
// the reference accumulator persists across documents for the whole run.
type Parser struct {
	ServiceType flight.ServiceType
	Direction   flight.Direction
	BatchNum    int
	Refs        *reference.Accumulator

	// now is injectable for deterministic tests of the timestamp fallback.
	now func() time.Time
}

// NewParser returns a parser for one document of the given batch.
func NewParser(st flight.ServiceType, dir flight.Direction, batchNum int, refs *reference.Accumulator) *Parser {
	return &Parser{
		ServiceType: st,
		Direction:   dir,
		BatchNum:    batchNum,
		Refs:        refs,
		now:         time.Now,
	}
}

// Parse walks the document in a single pass and returns the ordered legs
// plus the final row and itinerary counters.
//
// Transitions:
//
//	Seeking      --results-start-->  Active
//	Active       --itinerary------>  InItinerary (counter++, new pending leg)
//	InItinerary  --itinerary------>  InItinerary (counter++, new pending leg)
//
// Reference elements (carrier/city/airport/aircraft) append to the
// accumulator in every state. The aircraft element is additionally the
// end-of-record trigger while an itinerary is open: the pending leg is
// materialized when its required fields are all set, or dropped with a
// diagnostic otherwise.
func (p *Parser) Parse(r io.Reader) (Result, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		res     Result
		st      = stateSeeking
		pending flight.Leg
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return res, nil
			}
			return res, fmt.Errorf("results: token: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attr := attrMap(el)

		// Reference rows are a side effect in any state.
		p.Refs.Observe(el.Name.Local, attr)

		switch el.Name.Local {
		case tagResultsStart:
			if st == stateSeeking {
				st = stateActive
			}
			continue
		case tagItinerary:
			if st == stateSeeking {
				continue
			}
			res.Itineraries++
			pending = flight.Leg{
				ServiceType: p.ServiceType,
				ItineraryID: res.Itineraries,
				Direction:   p.Direction,
				BatchNum:    p.BatchNum,
			}
			st = stateInItinerary
			continue
		}

		if st != stateInItinerary {
			continue
		}

		switch el.Name.Local {
		case tagFlight:
			pending.FlightID = attr["carrier"] + attr["number"]
			pending.Carrier = attr["carrier"]
		case tagLeg:
			p.applyLeg(&pending, attr)
		case tagAircraft:
			pending.Aircraft = attr["name"]
			pending.Width = attr["width"]
			if missing := missingFields(pending); len(missing) > 0 {
				res.Drops = append(res.Drops, Drop{ItineraryID: pending.ItineraryID, Missing: missing})
				log.Printf("results: skipping invalid leg in itinerary %d, missing %v", pending.ItineraryID, missing)
				continue
			}
			res.Legs = append(res.Legs, pending)
			res.Rows++
		}
	}
}

// applyLeg records the leg endpoints and timestamps. When any of the four
// attributes is absent the endpoints default to empty strings and both
// timestamps to the parse time; the empty origin makes the row drop later in
// the cleaning step.
func (p *Parser) applyLeg(pending *flight.Leg, attr map[string]string) {
	origin, ok1 := attr["origin"]
	destination, ok2 := attr["destination"]
	departure, ok3 := attr["departure"]
	arrival, ok4 := attr["arrival"]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		now := p.now().Format(time.RFC3339)
		pending.Origin, pending.Destination = "", ""
		pending.Departure, pending.Arrival = now, now
		return
	}
	pending.Origin = origin
	pending.Destination = destination
	pending.Departure = departure
	pending.Arrival = arrival
}

// missingFields lists the required leg fields that are still unset. A leg is
// only materialized when all of them are present.
func missingFields(l flight.Leg) []string {
	var missing []string
	if l.ServiceType == "" {
		missing = append(missing, "serviceType")
	}
	if l.Origin == "" {
		missing = append(missing, "origin")
	}
	if l.Destination == "" {
		missing = append(missing, "destination")
	}
	if l.FlightID == "" {
		missing = append(missing, "flightId")
	}
	if l.Carrier == "" {
		missing = append(missing, "carrier")
	}
	if l.ItineraryID == 0 {
		missing = append(missing, "itineraryId")
	}
	return missing
}

func attrMap(el xml.StartElement) map[string]string {
	m := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		m[a.Name.Local] = a.Value
	}
	return m
}
