package pipeline

import (
	"fmt"
	"strings"
	"time"

	"flightetl/internal/enrich"
	"flightetl/internal/fold"
)

// Summary is the per-run accounting report: row counts in and out of every
// stage, drop reasons, and timing. It is logged at the end of a run and
// returned to the caller for tests and exit-code decisions.
type Summary struct {
	Job      string
	Started  time.Time
	Finished time.Time

	// Fetch/parse stage.
	Batches            int
	LegsParsed         int
	ItinerariesSeen    int
	ItinerariesDropped int

	// Post-batch stages.
	Enrich        enrich.Stats
	Fold          fold.Stats
	RowsFinalized int

	// Database load. LoadError is set when the load failed; the run still
	// completes its exports in that case.
	RowsInserted int64
	LoadError    string
}

func newSummary(job string) *Summary {
	return &Summary{Job: job, Started: time.Now()}
}

func (s *Summary) finish() {
	s.Finished = time.Now()
}

// Duration returns the wall-clock run time.
func (s *Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Report renders the summary as a multi-line log block.
func (s *Summary) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run summary job=%s duration=%s\n", s.Job, s.Duration().Truncate(time.Millisecond))
	fmt.Fprintf(&b, "  batches=%d legs_parsed=%d itineraries_seen=%d itineraries_dropped=%d\n",
		s.Batches, s.LegsParsed, s.ItinerariesSeen, s.ItinerariesDropped)
	fmt.Fprintf(&b, "  enrich in=%d empty_origin=%d lost_origin=%d lost_destination=%d lost_carrier=%d bad_timestamp=%d out=%d\n",
		s.Enrich.Input, s.Enrich.EmptyOrigin, s.Enrich.LostOrigin, s.Enrich.LostDestination,
		s.Enrich.LostCarrier, s.Enrich.BadTimestamp, s.Enrich.Output)
	fmt.Fprintf(&b, "  fold legs=%d itineraries=%d lost_country=%d\n",
		s.Fold.Legs, s.Fold.Itineraries, s.Fold.LostCountry)
	if s.LoadError != "" {
		fmt.Fprintf(&b, "  load FAILED: %s\n", s.LoadError)
	}
	fmt.Fprintf(&b, "  rows_finalized=%d rows_inserted=%d", s.RowsFinalized, s.RowsInserted)
	return b.String()
}
