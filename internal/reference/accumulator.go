// Package reference accumulates the shared lookup entities (carriers, cities,
// airports, aircraft) observed while parsing result documents, and builds the
// deduplicated lookup tables the enrichment and folding stages join against.
//
// The accumulator is owned by the run that creates it and is passed by
// reference through the pipeline; there is no package-level state, so two
// runs in the same process never see each other's rows. Appends are not
// synchronized: the pipeline processes batches strictly sequentially, and any
// future concurrent design must partition accumulators per batch and merge.
package reference

// Carrier is one carrier element as observed in a result document.
type Carrier struct {
	Code      string
	Name      string
	ShortName string
}

// City is one city element; Country holds the ISO country code.
type City struct {
	Code    string
	Country string
	Name    string
}

// Airport is one airport element; City holds the owning city code.
type Airport struct {
	City      string
	Code      string
	Latitude  string
	Longitude string
	Name      string
}

// Aircraft is one aircraft element.
type Aircraft struct {
	Code  string
	Name  string
	Width string
}

// Accumulator collects reference rows across every document parsed during a
// run. Rows are appended in document order and deduplicated later by Build.
type Accumulator struct {
	Carriers []Carrier
	Cities   []City
	Airports []Airport
	Aircraft []Aircraft
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator { return &Accumulator{} }

// Observe appends a reference row when tag names one of the four reference
// entities. It reports whether the tag was consumed so the parser can treat
// reference elements as side effects regardless of its own state.
func (a *Accumulator) Observe(tag string, attr map[string]string) bool {
	switch tag {
	case "carrier":
		a.Carriers = append(a.Carriers, Carrier{
			Code:      attr["code"],
			Name:      attr["name"],
			ShortName: attr["shortName"],
		})
	case "city":
		a.Cities = append(a.Cities, City{
			Code:    attr["code"],
			Country: attr["country"],
			Name:    attr["name"],
		})
	case "airport":
		a.Airports = append(a.Airports, Airport{
			City:      attr["city"],
			Code:      attr["code"],
			Latitude:  attr["latitude"],
			Longitude: attr["longitude"],
			Name:      attr["name"],
		})
	case "aircraft":
		a.Aircraft = append(a.Aircraft, Aircraft{
			Code:  attr["code"],
			Name:  attr["name"],
			Width: attr["width"],
		})
	default:
		return false
	}
	return true
}

// Counts returns the raw (pre-dedup) row counts in entity order:
// carriers, cities, airports, aircraft.
func (a *Accumulator) Counts() (carriers, cities, airports, aircraft int) {
	return len(a.Carriers), len(a.Cities), len(a.Airports), len(a.Aircraft)
}
