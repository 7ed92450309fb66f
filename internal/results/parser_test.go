package results

import (
	"reflect"
	"strings"
	"testing"

	"flightetl/internal/flight"
	"flightetl/internal/reference"
)

const sampleDoc = `<?xml version="1.0"?>
<response>
  <carrier code="LH" name="Lufthansa" shortName="LH"/>
  <solution/>
  <itineraryFullDetail>
    <solution>
      <flight carrier="LH" number="400"/>
      <leg origin="FRA" destination="JFK" departure="2026-03-15T10:00" arrival="2026-03-15T18:00"/>
      <aircraft code="388" name="Airbus A380" width="wide"/>
    </solution>
    <solution>
      <flight carrier="UA" number="9"/>
      <leg destination="SFO"/>
      <aircraft code="777" name="Boeing 777" width="wide"/>
    </solution>
    <solution>
      <aircraft code="737" name="Boeing 737" width="narrow"/>
    </solution>
  </itineraryFullDetail>
  <city code="FRA" country="DE" name="Frankfurt"/>
  <airport city="FRA" code="FRA" latitude="50.03" longitude="8.57" name="Frankfurt am Main"/>
</response>`

func TestParse(t *testing.T) {
	refs := reference.NewAccumulator()
	p := NewParser("J", flight.DirectionOrigin, 3, refs)

	res, err := p.Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// The solution before the results-start marker never opens an itinerary.
	if res.Itineraries != 3 {
		t.Fatalf("Itineraries = %d, want 3", res.Itineraries)
	}
	if res.Rows != 1 || len(res.Legs) != 1 {
		t.Fatalf("Rows = %d, Legs = %d; want 1 materialized leg", res.Rows, len(res.Legs))
	}

	want := flight.Leg{
		ServiceType: "J",
		ItineraryID: 1,
		FlightID:    "LH400",
		Carrier:     "LH",
		Origin:      "FRA",
		Destination: "JFK",
		Departure:   "2026-03-15T10:00",
		Arrival:     "2026-03-15T18:00",
		Aircraft:    "Airbus A380",
		Width:       "wide",
		Direction:   flight.DirectionOrigin,
		BatchNum:    3,
	}
	if res.Legs[0] != want {
		t.Errorf("Legs[0] = %+v, want %+v", res.Legs[0], want)
	}
}

func TestParse_DropsIncompleteLegs(t *testing.T) {
	refs := reference.NewAccumulator()
	p := NewParser("J", flight.DirectionOrigin, 1, refs)

	res, err := p.Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Drops) != 2 {
		t.Fatalf("Drops = %d, want 2", len(res.Drops))
	}

	// Itinerary 2: the leg element was missing attributes, so its endpoints
	// reset to empty strings and the leg is rejected at the aircraft marker.
	if res.Drops[0].ItineraryID != 2 {
		t.Errorf("Drops[0].ItineraryID = %d, want 2", res.Drops[0].ItineraryID)
	}
	if got := res.Drops[0].Missing; !reflect.DeepEqual(got, []string{"origin", "destination"}) {
		t.Errorf("Drops[0].Missing = %v, want [origin destination]", got)
	}

	// Itinerary 3 never saw a flight or leg element at all.
	if res.Drops[1].ItineraryID != 3 {
		t.Errorf("Drops[1].ItineraryID = %d, want 3", res.Drops[1].ItineraryID)
	}
	wantMissing := []string{"origin", "destination", "flightId", "carrier"}
	if got := res.Drops[1].Missing; !reflect.DeepEqual(got, wantMissing) {
		t.Errorf("Drops[1].Missing = %v, want %v", got, wantMissing)
	}
}

func TestParse_ReferenceSideEffects(t *testing.T) {
	refs := reference.NewAccumulator()
	p := NewParser("J", flight.DirectionOrigin, 1, refs)

	if _, err := p.Parse(strings.NewReader(sampleDoc)); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// Reference rows accumulate in every parser state, including the
	// carrier before the results start and the city/airport after it.
	carriers, cities, airports, aircraft := refs.Counts()
	if carriers != 1 || cities != 1 || airports != 1 || aircraft != 3 {
		t.Fatalf("Counts() = %d,%d,%d,%d; want 1,1,1,3", carriers, cities, airports, aircraft)
	}
	if refs.Carriers[0].Code != "LH" || refs.Carriers[0].Name != "Lufthansa" {
		t.Errorf("Carriers[0] = %+v", refs.Carriers[0])
	}
	if refs.Airports[0].Latitude != "50.03" {
		t.Errorf("Airports[0].Latitude = %q, want 50.03", refs.Airports[0].Latitude)
	}
}

func TestParse_NoResultsMarker(t *testing.T) {
	refs := reference.NewAccumulator()
	p := NewParser("J", flight.DirectionOrigin, 1, refs)

	doc := `<response><solution><flight carrier="LH" number="1"/></solution></response>`
	res, err := p.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if res.Itineraries != 0 || res.Rows != 0 {
		t.Fatalf("Itineraries = %d, Rows = %d; want 0,0 without a results marker", res.Itineraries, res.Rows)
	}
}
