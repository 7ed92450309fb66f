// Package query plans bounded request payloads from the configured airport
// code sets and renders them into upstream XML request documents.
package query

import "flightetl/internal/flight"

// CodeSets partitions the configured IATA codes by how they may appear in a
// query: origin-only, destination-only, or both sides.
type CodeSets struct {
	Origins      []string
	Destinations []string
	Both         []string
}

// Payload is one bounded request: a chunk of primary-side codes paired with
// the entire secondary-side set. Batch numbers are 1-indexed in document
// order.
type Payload struct {
	Direction flight.Direction
	Primary   []string
	Secondary []string
	BatchNum  int
}

// Plan partitions the code sets into payloads for the given query direction.
//
// The primary set is the batched side (origins for an origin-batched query,
// destinations otherwise) prefixed by the codes that appear on both sides.
// The secondary set is never batched: every payload repeats it verbatim.
// When batching is disabled a single payload carries everything.
func Plan(dir flight.Direction, sets CodeSets, enableBatching bool, batchSize int) []Payload {
	var primary, secondary []string
	if dir == flight.DirectionOrigin {
		primary = concat(sets.Both, sets.Origins)
		secondary = sets.Destinations
	} else {
		primary = concat(sets.Both, sets.Destinations)
		secondary = sets.Origins
	}

	if !enableBatching {
		return []Payload{{Direction: dir, Primary: primary, Secondary: secondary, BatchNum: 1}}
	}

	var payloads []Payload
	for start := 0; start < len(primary); start += batchSize {
		end := start + batchSize
		if end > len(primary) {
			end = len(primary)
		}
		payloads = append(payloads, Payload{
			Direction: dir,
			Primary:   primary[start:end],
			Secondary: secondary,
			BatchNum:  len(payloads) + 1,
		})
	}
	// An empty primary set yields no payloads: there is nothing to batch.
	return payloads
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
