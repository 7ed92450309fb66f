package reference

import (
	"log"
	"strings"

	"github.com/zeebo/xxh3"
)

// Country is one row of the externally supplied country lookup table,
// mapping an ISO country code to its display name.
type Country struct {
	Code string
	Name string
}

// AirportWithCountry is an airport row joined to its city's ISO country code.
type AirportWithCountry struct {
	Airport
	Country string
}

// Tables holds the five deduplicated lookup tables built once per run from
// the accumulated reference rows.
type Tables struct {
	Aircraft  []Aircraft
	Carriers  []Carrier
	Cities    []City
	Airports  []AirportWithCountry
	Countries []Country

	airportByCode map[string]AirportWithCountry
	carrierByCode map[string]Carrier
	countryByCode map[string]string
}

// sampleLimit caps how many offending keys are included in diagnostics.
const sampleLimit = 5

// rowKey builds a stable identity hash over the given fields. The unit
// separator keeps ("ab","c") distinct from ("a","bc").
func rowKey(fields ...string) uint64 {
	return xxh3.HashString(strings.Join(fields, "\x1f"))
}

// Build consolidates the accumulated reference rows into lookup tables:
//
//  1. Cities are deduplicated by code, keeping the first occurrence.
//  2. Airports are inner-joined to the deduplicated city table on city code
//     to attach the country; airports whose city is unknown are dropped, and
//     exact-duplicate joined rows are collapsed.
//  3. Carriers are deduplicated by exact row equality.
//  4. The supplied country table is accepted unchanged.
//
// Aircraft rows pass through as accumulated. Display names are folded to
// plain ASCII before table construction.
func Build(acc *Accumulator, countries []Country) *Tables {
	t := &Tables{
		Countries:     countries,
		airportByCode: make(map[string]AirportWithCountry),
		carrierByCode: make(map[string]Carrier),
		countryByCode: make(map[string]string, len(countries)),
	}

	// 1) City dedup by code, first occurrence wins.
	cityCountry := make(map[string]string, len(acc.Cities))
	seenCity := make(map[string]struct{}, len(acc.Cities))
	var dupCities []string
	for _, c := range acc.Cities {
		if _, dup := seenCity[c.Code]; dup {
			dupCities = append(dupCities, c.Code)
			continue
		}
		seenCity[c.Code] = struct{}{}
		c.Name = foldName(c.Name)
		t.Cities = append(t.Cities, c)
		cityCountry[c.Code] = c.Country
	}
	if len(dupCities) > 0 {
		log.Printf("reference: dropped %d duplicate city rows, kept first occurrence (sample: %v)",
			len(dupCities), sample(dupCities))
	}

	// 2) Airport ⋈ City on city code (inner); unknown cities are dropped.
	// Exact-duplicate joined rows collapse via row hashing.
	seenAirport := make(map[uint64]struct{}, len(acc.Airports))
	var orphaned []string
	for _, a := range acc.Airports {
		country, ok := cityCountry[a.City]
		if !ok {
			orphaned = append(orphaned, a.Code)
			continue
		}
		a.Name = foldName(a.Name)
		row := AirportWithCountry{Airport: a, Country: country}
		key := rowKey(row.City, row.Code, row.Latitude, row.Longitude, row.Name, row.Country)
		if _, dup := seenAirport[key]; dup {
			continue
		}
		seenAirport[key] = struct{}{}
		t.Airports = append(t.Airports, row)
		if _, exists := t.airportByCode[row.Code]; !exists {
			t.airportByCode[row.Code] = row
		}
	}
	if len(orphaned) > 0 {
		log.Printf("reference: dropped %d airport rows with unknown city codes (sample: %v)",
			len(orphaned), sample(orphaned))
	}

	// 3) Carrier exact-row dedup.
	seenCarrier := make(map[uint64]struct{}, len(acc.Carriers))
	for _, c := range acc.Carriers {
		c.Name = foldName(c.Name)
		c.ShortName = foldName(c.ShortName)
		key := rowKey(c.Code, c.Name, c.ShortName)
		if _, dup := seenCarrier[key]; dup {
			continue
		}
		seenCarrier[key] = struct{}{}
		t.Carriers = append(t.Carriers, c)
		if _, exists := t.carrierByCode[c.Code]; !exists {
			t.carrierByCode[c.Code] = c
		}
	}

	// 4) Country table as supplied.
	for _, c := range countries {
		if _, exists := t.countryByCode[c.Code]; !exists {
			t.countryByCode[c.Code] = c.Name
		}
	}

	t.Aircraft = append(t.Aircraft, acc.Aircraft...)

	log.Printf("reference: built tables: %d aircraft, %d carriers, %d cities, %d airports, %d countries",
		len(t.Aircraft), len(t.Carriers), len(t.Cities), len(t.Airports), len(t.Countries))
	return t
}

// AirportByCode looks up an airport (with country attached) by IATA code.
func (t *Tables) AirportByCode(code string) (AirportWithCountry, bool) {
	a, ok := t.airportByCode[code]
	return a, ok
}

// CarrierByCode looks up a carrier by its code.
func (t *Tables) CarrierByCode(code string) (Carrier, bool) {
	c, ok := t.carrierByCode[code]
	return c, ok
}

// CountryName resolves an ISO country code to its display name.
func (t *Tables) CountryName(iso string) (string, bool) {
	n, ok := t.countryByCode[iso]
	return n, ok
}

func sample(keys []string) []string {
	if len(keys) > sampleLimit {
		return keys[:sampleLimit]
	}
	return keys
}
