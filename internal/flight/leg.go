package flight

import "time"

// Leg is one flight segment extracted from a result document. ItineraryID is
// 1-based and resets at the start of each document, so rows are only unique
// under the composite key (ServiceType, Direction, BatchNum, ItineraryID).
type Leg struct {
	ServiceType ServiceType
	ItineraryID int
	FlightID    string // carrier code + flight number, e.g. "LH400"
	Carrier     string
	Origin      string
	Destination string
	Departure   string // raw timestamp text as it appeared in the document
	Arrival     string
	Aircraft    string
	Width       string
	Direction   Direction
	BatchNum    int
}

// Key identifies the itinerary a leg belongs to across an entire run.
type Key struct {
	ServiceType ServiceType
	Direction   Direction
	BatchNum    int
	ItineraryID int
}

// ItineraryKey returns the composite grouping key for l.
func (l Leg) ItineraryKey() Key {
	return Key{
		ServiceType: l.ServiceType,
		Direction:   l.Direction,
		BatchNum:    l.BatchNum,
		ItineraryID: l.ItineraryID,
	}
}

// EnrichedLeg is a Leg joined against the airport and carrier reference
// tables, with parsed timestamps.
type EnrichedLeg struct {
	Leg

	OriginAirportName string
	OriginCountry     string // ISO code from the airport table
	OriginLatitude    string
	OriginLongitude   string

	DestAirportName string
	DestCountry     string
	DestLatitude    string
	DestLongitude   string

	CarrierName string

	DepartureAt time.Time
	ArrivalAt   time.Time
}

// Itinerary is the folded, one-row-per-journey view of one or more ordered
// legs sharing a composite key. Multi-valued columns are pipe-joined in leg
// order. Via fields come from the first leg's destination and are the
// candidate intermediate stop; ViaIATA is cleared when the journey is direct.
type Itinerary struct {
	ServiceType ServiceType
	Flights     string // pipe-joined flight ids
	NumStops    int    // number of legs in the group

	OriginIATA        string
	OriginAirportName string
	OriginISOCountry  string
	OriginLatitude    string
	OriginLongitude   string

	ViaIATA        string
	ViaAirportName string
	ViaISOCountry  string
	ViaLatitude    string
	ViaLongitude   string

	DestinationIATA        string
	DestinationAirportName string
	DestinationISOCountry  string
	DestinationLatitude    string
	DestinationLongitude   string

	AirlineCodes string
	AirlineNames string
	Aircraft     string
	Widths       string

	OriginCountryName      string // display name resolved from the country table
	DestinationCountryName string

	DepartureAt time.Time
	ArrivalAt   time.Time
}
