// Package pipeline orchestrates a full extraction run: planning query
// batches, fetching (or replaying) result documents, parsing legs, building
// reference tables, enriching, folding, finalizing, and writing the rows to
// the database and the flat-file exports.
//
// Batches run sequentially. Parsed legs are spilled to the scratch area after
// each batch so the run's memory footprint stays proportional to one document
// rather than the whole result set.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"flightetl/internal/config"
	"flightetl/internal/enrich"
	"flightetl/internal/export"
	"flightetl/internal/finalize"
	"flightetl/internal/flight"
	"flightetl/internal/fold"
	"flightetl/internal/metrics"
	"flightetl/internal/query"
	"flightetl/internal/reference"
	"flightetl/internal/results"
	"flightetl/internal/scratch"
	"flightetl/internal/storage"
	"flightetl/internal/upstream"
	"flightetl/pkg/records"
)

// loadChunkSize is the number of rows per bulk-insert chunk.
const loadChunkSize = 500

// Options are the run-level toggles, typically set from CLI flags.
type Options struct {
	// Offline replays saved result documents instead of querying the API.
	Offline bool

	// SkipDB skips the database load; exports are still written.
	SkipDB bool

	// SkipSave skips writing query and result documents to scratch.
	SkipSave bool

	// SkipCleanup keeps scratch files after the run, e.g. for later replay.
	SkipCleanup bool

	// NoBatching forces a single request per direction regardless of config.
	NoBatching bool
}

// Runner executes extraction runs for one configuration.
type Runner struct {
	cfg  config.Pipeline
	opts Options
	area *scratch.Area

	// fetch is injectable for tests; it defaults to the upstream client.
	fetch func(ctx context.Context, doc []byte) ([]byte, error)

	// now is injectable for deterministic finalize timestamps in tests.
	now func() time.Time
}

// New builds a Runner: it creates the scratch area and, unless the run is
// offline, the upstream client.
func New(cfg config.Pipeline, opts Options) (*Runner, error) {
	dir := cfg.Scratch.Dir
	if dir == "" {
		dir = "scratch"
	}
	area, err := scratch.New(dir)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:  cfg,
		opts: opts,
		area: area,
		now:  time.Now,
	}

	if opts.Offline {
		r.fetch = func(ctx context.Context, doc []byte) ([]byte, error) {
			return nil, fmt.Errorf("pipeline: offline run attempted a network fetch")
		}
	} else {
		client := upstream.NewClient(upstream.Config{
			Endpoint:           cfg.Search.Endpoint,
			Timeout:            time.Duration(cfg.Search.TimeoutSeconds) * time.Second,
			InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
			// Each batch is a single best-effort request.
			MaxRetries: 0,
		})
		r.fetch = client.Execute
	}

	return r, nil
}

// Run executes the full pipeline and returns the run summary. Stage errors
// before the database load abort the run; a failed load is logged and the
// exports are still written.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	sum := newSummary(r.cfg.Job)
	defer sum.finish()

	refs := reference.NewAccumulator()

	types, unknown := flight.ParseServiceTypes(r.cfg.Search.FlightTypes)
	for _, code := range unknown {
		log.Printf("pipeline: skipping unknown flight type %q", code)
	}
	if len(types) == 0 {
		return sum, fmt.Errorf("pipeline: no valid flight types configured")
	}

	sets := query.CodeSets{
		Origins:      r.cfg.Codes.Origins,
		Destinations: r.cfg.Codes.Destinations,
		Both:         r.cfg.Codes.Both,
	}
	enableBatching := r.cfg.Search.EnableBatching && !r.opts.NoBatching

	for _, st := range types {
		for _, dir := range flight.Directions() {
			payloads := query.Plan(dir, sets, enableBatching, r.cfg.Search.BatchSize)
			for _, payload := range payloads {
				if err := r.runBatch(ctx, st, payload, refs, sum); err != nil {
					return sum, err
				}
			}
		}
	}

	legs, err := r.area.LoadAllLegs()
	if err != nil {
		return sum, err
	}

	tables := reference.Build(refs, countries(r.cfg.Countries))

	stageStart := time.Now()
	enriched, estats := enrich.Enrich(legs, tables)
	metrics.RecordStep(r.cfg.Job, "enrich", nil, time.Since(stageStart))
	sum.Enrich = estats

	stageStart = time.Now()
	itineraries, fstats := fold.Fold(enriched, tables)
	metrics.RecordStep(r.cfg.Job, "fold", nil, time.Since(stageStart))
	sum.Fold = fstats
	metrics.RecordRows(r.cfg.Job, "itineraries_folded", int64(fstats.Itineraries))

	recs := finalize.Finalize(itineraries, r.now())
	sum.RowsFinalized = len(recs)

	if r.opts.SkipDB {
		log.Printf("pipeline: database load skipped")
	} else {
		stageStart = time.Now()
		inserted, err := r.load(ctx, recs)
		metrics.RecordStep(r.cfg.Job, "load", err, time.Since(stageStart))
		sum.RowsInserted = inserted
		if err != nil {
			// The exports are still worth writing; record the failure and
			// carry on.
			sum.LoadError = err.Error()
			log.Printf("pipeline: database load failed: %v", err)
		} else {
			metrics.RecordRows(r.cfg.Job, "rows_inserted", inserted)
		}
	}

	stageStart = time.Now()
	err = export.Write(ctx, export.Config{
		Dir:    r.cfg.Export.Dir,
		Prefix: r.cfg.Export.Prefix,
		Date:   r.cfg.Search.Date,
		Comma:  r.cfg.Export.Options.Rune("comma", ','),
	}, recs)
	metrics.RecordStep(r.cfg.Job, "export", err, time.Since(stageStart))
	if err != nil {
		return sum, err
	}

	if r.opts.SkipCleanup {
		log.Printf("pipeline: scratch cleanup skipped")
	} else if err := r.area.Cleanup(); err != nil {
		log.Printf("pipeline: scratch cleanup failed: %v", err)
	}

	return sum, nil
}

// runBatch builds, saves, fetches (or replays), and parses one batch, then
// spills the parsed legs to scratch so they can be released until the
// post-batch stages.
func (r *Runner) runBatch(
	ctx context.Context,
	st flight.ServiceType,
	payload query.Payload,
	refs *reference.Accumulator,
	sum *Summary,
) error {
	doc, err := query.BuildRequest(requestParams(r.cfg.Search), st, payload)
	if err != nil {
		return err
	}
	if !r.opts.SkipSave {
		if err := r.area.SaveQuery(payload.Direction, st, payload.BatchNum, doc); err != nil {
			return err
		}
	}

	var resultDoc []byte
	stageStart := time.Now()
	if r.opts.Offline {
		resultDoc, err = r.area.LoadResult(payload.Direction, st, payload.BatchNum)
	} else {
		resultDoc, err = r.fetch(ctx, doc)
		if err == nil && !r.opts.SkipSave {
			err = r.area.SaveResult(payload.Direction, st, payload.BatchNum, resultDoc)
		}
	}
	metrics.RecordStep(r.cfg.Job, "fetch", err, time.Since(stageStart))
	if err != nil {
		return err
	}

	stageStart = time.Now()
	res, err := results.NewParser(st, payload.Direction, payload.BatchNum, refs).
		Parse(bytes.NewReader(resultDoc))
	metrics.RecordStep(r.cfg.Job, "parse", err, time.Since(stageStart))
	if err != nil {
		return err
	}

	sum.Batches++
	sum.LegsParsed += res.Rows
	sum.ItinerariesSeen += res.Itineraries
	sum.ItinerariesDropped += len(res.Drops)
	metrics.RecordBatches(r.cfg.Job, 1)
	metrics.RecordRows(r.cfg.Job, "legs_parsed", int64(res.Rows))
	metrics.RecordRows(r.cfg.Job, "itineraries_dropped", int64(len(res.Drops)))

	log.Printf("pipeline: batch type=%s dir=%s num=%d legs=%d itineraries=%d drops=%d",
		st, payload.Direction, payload.BatchNum, res.Rows, res.Itineraries, len(res.Drops))

	return r.area.SpillLegs(payload.Direction, st, payload.BatchNum, res.Legs)
}

// load opens the configured backend, optionally creates the destination
// table, and performs the truncate-and-reload.
func (r *Runner) load(ctx context.Context, recs []records.Record) (int64, error) {
	cfg := storage.Config{
		Kind:  r.cfg.Storage.Kind,
		DSN:   r.cfg.Storage.DB.DSN,
		Table: r.cfg.Storage.DB.Table,
	}
	repo, err := storage.New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	if r.cfg.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, repo, cfg); err != nil {
			return 0, err
		}
	}

	return storage.Load(ctx, repo, finalize.ColumnNames(), recs, loadChunkSize)
}

// requestParams projects the search config onto the request builder's inputs.
func requestParams(s config.SearchConfig) query.RequestParams {
	return query.RequestParams{
		SearchAttrs:        s.SearchAttrs,
		SearchControlAttrs: s.SearchControlAttrs,
		Date:               s.Date,
		MinConnectionTime:  s.MinConnectionTime,
		MaxStopCount:       s.MaxStopCount,
		DaysAfter:          s.DaysAfter,
		Summarizer:         s.Summarizer,
	}
}

// countries converts the config's country rows into reference rows.
func countries(refs []config.CountryRef) []reference.Country {
	out := make([]reference.Country, 0, len(refs))
	for _, c := range refs {
		out = append(out, reference.Country{Code: c.Code, Name: c.Name})
	}
	return out
}
