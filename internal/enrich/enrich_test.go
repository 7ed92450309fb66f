package enrich

import (
	"testing"
	"time"

	"flightetl/internal/flight"
	"flightetl/internal/reference"
)

func refTables(t *testing.T) *reference.Tables {
	t.Helper()
	acc := reference.NewAccumulator()
	acc.Cities = []reference.City{
		{Code: "FRA", Country: "DE", Name: "Frankfurt"},
		{Code: "NYC", Country: "US", Name: "New York"},
	}
	acc.Airports = []reference.Airport{
		{City: "FRA", Code: "FRA", Latitude: "50.03", Longitude: "8.57", Name: "Frankfurt am Main"},
		{City: "NYC", Code: "JFK", Latitude: "40.64", Longitude: "-73.78", Name: "John F Kennedy Intl"},
	}
	acc.Carriers = []reference.Carrier{
		{Code: "LH", Name: "Lufthansa", ShortName: "LH"},
	}
	return reference.Build(acc, nil)
}

func validLeg() flight.Leg {
	return flight.Leg{
		ServiceType: "J",
		ItineraryID: 1,
		FlightID:    "LH400",
		Carrier:     "LH",
		Origin:      "FRA",
		Destination: "JFK",
		Departure:   "2026-03-15T10:00",
		Arrival:     "2026-03-15T18:00",
		Direction:   flight.DirectionOrigin,
		BatchNum:    1,
	}
}

func TestEnrich_JoinsAndParses(t *testing.T) {
	tables := refTables(t)

	out, stats := Enrich([]flight.Leg{validLeg()}, tables)
	if len(out) != 1 {
		t.Fatalf("Enrich() returned %d legs, want 1", len(out))
	}
	got := out[0]
	if got.OriginAirportName != "Frankfurt am Main" || got.OriginCountry != "DE" {
		t.Errorf("origin join = %q/%q", got.OriginAirportName, got.OriginCountry)
	}
	if got.DestAirportName != "John F Kennedy Intl" || got.DestCountry != "US" {
		t.Errorf("destination join = %q/%q", got.DestAirportName, got.DestCountry)
	}
	if got.CarrierName != "Lufthansa" {
		t.Errorf("CarrierName = %q", got.CarrierName)
	}
	wantDepart := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	if !got.DepartureAt.Equal(wantDepart) {
		t.Errorf("DepartureAt = %v, want %v", got.DepartureAt, wantDepart)
	}
	if stats.Input != 1 || stats.Output != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestEnrich_LossAccounting(t *testing.T) {
	tables := refTables(t)

	empty := validLeg()
	empty.Origin = ""

	badOrigin := validLeg()
	badOrigin.Origin = "ZZZ"

	badDest := validLeg()
	badDest.Destination = "ZZZ"

	badCarrier := validLeg()
	badCarrier.Carrier = "XX"

	badTime := validLeg()
	badTime.Departure = "not-a-timestamp"

	legs := []flight.Leg{validLeg(), empty, badOrigin, badDest, badCarrier, badTime}
	out, stats := Enrich(legs, tables)

	if stats.EmptyOrigin != 1 {
		t.Errorf("EmptyOrigin = %d, want 1", stats.EmptyOrigin)
	}
	if stats.LostOrigin != 1 || stats.LostDestination != 1 || stats.LostCarrier != 1 {
		t.Errorf("join losses = %d/%d/%d, want 1/1/1",
			stats.LostOrigin, stats.LostDestination, stats.LostCarrier)
	}
	if stats.BadTimestamp != 1 {
		t.Errorf("BadTimestamp = %d, want 1", stats.BadTimestamp)
	}
	if stats.Output != 1 || len(out) != 1 {
		t.Errorf("Output = %d (len %d), want 1", stats.Output, len(out))
	}
	if stats.Input-stats.EmptyOrigin-stats.LostOrigin-stats.LostDestination-stats.LostCarrier-stats.BadTimestamp != stats.Output {
		t.Errorf("loss accounting does not balance: %+v", stats)
	}
}

func TestEnrich_SortsByCompositeKeyThenDeparture(t *testing.T) {
	tables := refTables(t)

	a := validLeg()
	a.BatchNum = 2
	a.ItineraryID = 1

	b := validLeg()
	b.BatchNum = 1
	b.ItineraryID = 2

	// Same itinerary as c but departs later; must sort after it.
	c2 := validLeg()
	c2.BatchNum = 1
	c2.ItineraryID = 1
	c2.Departure = "2026-03-15T18:30"
	c2.Origin = "JFK"
	c2.Destination = "FRA"

	c := validLeg()
	c.BatchNum = 1
	c.ItineraryID = 1

	out, _ := Enrich([]flight.Leg{a, b, c2, c}, tables)
	if len(out) != 4 {
		t.Fatalf("Enrich() returned %d legs, want 4", len(out))
	}

	type pos struct {
		batch, itin int
		origin      string
	}
	var got []pos
	for _, l := range out {
		got = append(got, pos{l.BatchNum, l.ItineraryID, l.Origin})
	}
	want := []pos{
		{1, 1, "FRA"},
		{1, 1, "JFK"},
		{1, 2, "FRA"},
		{2, 1, "FRA"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-15T10:00:00Z", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2026-03-15T10:00:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2026-03-15T10:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2026-03-15 10:00:00", time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)},
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("parseTimestamp(yesterday) should fail")
	}
}
