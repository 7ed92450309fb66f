// Package flight holds the small domain vocabulary shared by the query,
// parsing, and folding stages: service-type codes, query directions, and the
// leg/itinerary row models.
package flight

// ServiceType is the one-letter flight service-type code used by the upstream
// search API (permittedServiceType).
type ServiceType string

// The full service-type code table. Configs select a subset of these.
const (
	TypeAdditionalCargo      ServiceType = "A" // Additional - Cargo/Mail
	TypeAdditionalShuttle    ServiceType = "B" // Additional - Passenger - Shuttle Mode
	TypeCharterPassenger     ServiceType = "C" // Charter - Passenger only
	TypeGeneralAviation      ServiceType = "D" // Other - General Aviation
	TypeSpecial              ServiceType = "E" // Other - Special (FAA/Government)
	TypeScheduledCargo       ServiceType = "F" // Scheduled - Cargo/Mail - Loose loaded and/or preloaded devices
	TypeAdditionalPassenger  ServiceType = "G" // Additional - Passenger - Normal Service
	TypeCharterCargo         ServiceType = "H" // Charter - Cargo and/or Mail
	TypeScheduledPassenger   ServiceType = "J" // Scheduled - Passenger - Normal Service
	TypeTraining             ServiceType = "K" // Other - Training (school/crew check)
	TypeCharterMixed         ServiceType = "L" // Charter - Passenger and Cargo and/or Mail
	TypeScheduledMail        ServiceType = "M" // Scheduled - Cargo/Mail - Mail only
	TypeCharterSpecial       ServiceType = "O" // Charter - Charter requiring special handling
	TypeNonRevenue           ServiceType = "P" // Other - Non-Revenue (Positioning/Ferry/Delivery/Demo)
	TypeScheduledPaxCargo    ServiceType = "Q" // Scheduled - Passenger/Cargo in Cabin
	TypeAdditionalPaxCargo   ServiceType = "R" // Additional - Passenger/Cargo in Cabin
	TypeScheduledShuttle     ServiceType = "S" // Scheduled - Passenger - Shuttle Mode
	TypeTechnicalTest        ServiceType = "T" // Other - Technical Test
	TypeScheduledSurface     ServiceType = "U" // Scheduled - Passenger - Surface Vehicle
	TypeScheduledCargoSurf   ServiceType = "V" // Scheduled - Cargo/Mail - Surface Vehicle
	TypeMilitary             ServiceType = "W" // Other - Military
	TypeTechnicalStop        ServiceType = "X" // Other - Technical Stop
)

// serviceTypeNames maps each code to its descriptive name.
var serviceTypeNames = map[ServiceType]string{
	TypeAdditionalCargo:     "Additional - Cargo/Mail",
	TypeAdditionalShuttle:   "Additional - Passenger - Shuttle Mode",
	TypeCharterPassenger:    "Charter - Passenger only",
	TypeGeneralAviation:     "Other - General Aviation",
	TypeSpecial:             "Other - Special (FAA/Government)",
	TypeScheduledCargo:      "Scheduled - Cargo/Mail - Loose loaded cargo and/or preloaded devices",
	TypeAdditionalPassenger: "Additional - Passenger - Normal Service",
	TypeCharterCargo:        "Charter - Cargo and/or Mail",
	TypeScheduledPassenger:  "Scheduled - Passenger - Normal Service",
	TypeTraining:            "Other - Training (school/crew check)",
	TypeCharterMixed:        "Charter - Passenger and Cargo and/or Mail",
	TypeScheduledMail:       "Scheduled - Cargo/Mail - Mail only",
	TypeCharterSpecial:      "Charter - Charter requiring special handling",
	TypeNonRevenue:          "Other - Non-Revenue (Positioning/Ferry/Delivery/Demo)",
	TypeScheduledPaxCargo:   "Scheduled - Passenger/Cargo in Cabin (pax)",
	TypeAdditionalPaxCargo:  "Additional - Passenger/Cargo in Cabin (pax cum freighter)",
	TypeScheduledShuttle:    "Scheduled - Passenger - Shuttle Mode",
	TypeTechnicalTest:       "Other - Technical Test",
	TypeScheduledSurface:    "Scheduled - Passenger - Service Operated by Surface Vehicle",
	TypeScheduledCargoSurf:  "Scheduled - Cargo/Mail - Service Operated by Surface Vehicle",
	TypeMilitary:            "Other - Military",
	TypeTechnicalStop:       "Other - Technical Stop",
}

// Valid reports whether t is a known service-type code.
func (t ServiceType) Valid() bool {
	_, ok := serviceTypeNames[t]
	return ok
}

// Description returns the descriptive name for t, or "" for unknown codes.
func (t ServiceType) Description() string { return serviceTypeNames[t] }

// ParseServiceTypes converts config codes into ServiceType values, skipping
// unknown codes and reporting them to the caller.
func ParseServiceTypes(codes []string) (types []ServiceType, unknown []string) {
	for _, c := range codes {
		t := ServiceType(c)
		if !t.Valid() {
			unknown = append(unknown, c)
			continue
		}
		types = append(types, t)
	}
	return types, unknown
}

// Direction selects which side of a query is batched: origin-batched queries
// chunk the origin codes and repeat all destinations per payload, and vice
// versa for destination-batched queries.
type Direction string

const (
	DirectionOrigin      Direction = "origin"
	DirectionDestination Direction = "destination"
)

// Directions lists both query directions in execution order.
func Directions() []Direction {
	return []Direction{DirectionOrigin, DirectionDestination}
}
