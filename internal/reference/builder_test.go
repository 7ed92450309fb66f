package reference

import (
	"testing"
)

func TestBuild_CityDedupKeepsFirst(t *testing.T) {
	acc := NewAccumulator()
	acc.Cities = []City{
		{Code: "PAR", Country: "FR", Name: "Paris"},
		{Code: "PAR", Country: "XX", Name: "Paris (duplicate)"},
		{Code: "TYO", Country: "JP", Name: "Tokyo"},
	}

	tables := Build(acc, nil)
	if len(tables.Cities) != 2 {
		t.Fatalf("Cities = %d, want 2", len(tables.Cities))
	}
	if tables.Cities[0].Country != "FR" {
		t.Errorf("first PAR occurrence should win, got country %q", tables.Cities[0].Country)
	}
}

func TestBuild_AirportJoinDropsOrphans(t *testing.T) {
	acc := NewAccumulator()
	acc.Cities = []City{{Code: "PAR", Country: "FR", Name: "Paris"}}
	acc.Airports = []Airport{
		{City: "PAR", Code: "CDG", Latitude: "49.0", Longitude: "2.5", Name: "Charles de Gaulle"},
		{City: "PAR", Code: "CDG", Latitude: "49.0", Longitude: "2.5", Name: "Charles de Gaulle"},
		{City: "ZZZ", Code: "XXX", Name: "Orphan Field"},
	}

	tables := Build(acc, nil)
	if len(tables.Airports) != 1 {
		t.Fatalf("Airports = %d, want 1 after dedup and orphan drop", len(tables.Airports))
	}
	got, ok := tables.AirportByCode("CDG")
	if !ok {
		t.Fatal("AirportByCode(CDG) not found")
	}
	if got.Country != "FR" {
		t.Errorf("CDG.Country = %q, want FR from the city join", got.Country)
	}
	if _, ok := tables.AirportByCode("XXX"); ok {
		t.Error("orphaned airport XXX should not be resolvable")
	}
}

func TestBuild_CarrierExactRowDedup(t *testing.T) {
	acc := NewAccumulator()
	acc.Carriers = []Carrier{
		{Code: "LH", Name: "Lufthansa", ShortName: "LH"},
		{Code: "LH", Name: "Lufthansa", ShortName: "LH"},
		{Code: "LH", Name: "Lufthansa Cargo", ShortName: "LH"},
	}

	tables := Build(acc, nil)
	if len(tables.Carriers) != 2 {
		t.Fatalf("Carriers = %d, want 2 (exact rows collapse, variants stay)", len(tables.Carriers))
	}
	got, ok := tables.CarrierByCode("LH")
	if !ok || got.Name != "Lufthansa" {
		t.Errorf("CarrierByCode(LH) = %+v, %v; want first occurrence", got, ok)
	}
}

func TestBuild_FoldsDiacritics(t *testing.T) {
	acc := NewAccumulator()
	acc.Cities = []City{{Code: "ZRH", Country: "CH", Name: "Zürich"}}
	acc.Airports = []Airport{{City: "ZRH", Code: "ZRH", Name: "  Zürich Flughafen "}}
	acc.Carriers = []Carrier{{Code: "AF", Name: "Aéropostale", ShortName: "AF"}}

	tables := Build(acc, nil)
	if tables.Cities[0].Name != "Zurich" {
		t.Errorf("city name = %q, want Zurich", tables.Cities[0].Name)
	}
	a, _ := tables.AirportByCode("ZRH")
	if a.Name != "Zurich Flughafen" {
		t.Errorf("airport name = %q, want trimmed and folded", a.Name)
	}
	if tables.Carriers[0].Name != "Aeropostale" {
		t.Errorf("carrier name = %q, want Aeropostale", tables.Carriers[0].Name)
	}
}

func TestBuild_CountryLookup(t *testing.T) {
	tables := Build(NewAccumulator(), []Country{
		{Code: "DE", Name: "Germany"},
		{Code: "DE", Name: "Deutschland"},
	})

	name, ok := tables.CountryName("DE")
	if !ok || name != "Germany" {
		t.Errorf("CountryName(DE) = %q, %v; want first occurrence Germany", name, ok)
	}
	if _, ok := tables.CountryName("FR"); ok {
		t.Error("CountryName(FR) should miss")
	}
}

func TestFoldName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  plain  ", "plain"},
		{"São Paulo", "Sao Paulo"},
		{"Malmö", "Malmo"},
		{"Ciudad Juárez", "Ciudad Juarez"},
	}
	for _, tt := range tests {
		if got := foldName(tt.in); got != tt.want {
			t.Errorf("foldName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
