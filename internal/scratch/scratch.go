// Package scratch manages the on-disk working area for a pipeline run.
//
// Each batch writes its request document, its raw result document, and a
// spill file of parsed leg records. The spill files let the run release
// per-batch legs from memory and read everything back once all batches are
// done. Saved result documents also enable offline replay: a later run can
// re-parse them without touching the network.
package scratch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"flightetl/internal/flight"
)

const (
	queriesDir = "queries"
	resultsDir = "results"
	legsDir    = "legs"
)

// Area is a scratch directory rooted at Dir.
type Area struct {
	Dir string
}

// New returns an Area rooted at dir and creates its subdirectories.
func New(dir string) (*Area, error) {
	a := &Area{Dir: dir}
	for _, sub := range []string{queriesDir, resultsDir, legsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("scratch: create %s: %w", sub, err)
		}
	}
	return a, nil
}

// batchName builds the direction-, service-type- and batch-qualified stem
// shared by all per-batch files, e.g. "origin-F-batch3".
func batchName(dir flight.Direction, st flight.ServiceType, batchNum int) string {
	return fmt.Sprintf("%s-%s-batch%d", dir, st, batchNum)
}

// QueryPath returns the path for a saved request document.
func (a *Area) QueryPath(dir flight.Direction, st flight.ServiceType, batchNum int) string {
	return filepath.Join(a.Dir, queriesDir, "query-"+batchName(dir, st, batchNum)+".xml")
}

// ResultPath returns the path for a saved result document.
func (a *Area) ResultPath(dir flight.Direction, st flight.ServiceType, batchNum int) string {
	return filepath.Join(a.Dir, resultsDir, "results-"+batchName(dir, st, batchNum)+".xml")
}

// legsPath returns the path for a per-batch leg spill file.
func (a *Area) legsPath(dir flight.Direction, st flight.ServiceType, batchNum int) string {
	return filepath.Join(a.Dir, legsDir, "legs-"+batchName(dir, st, batchNum)+".json")
}

// SaveQuery writes one request document.
func (a *Area) SaveQuery(dir flight.Direction, st flight.ServiceType, batchNum int, doc []byte) error {
	return writeFile(a.QueryPath(dir, st, batchNum), doc)
}

// SaveResult writes one raw result document.
func (a *Area) SaveResult(dir flight.Direction, st flight.ServiceType, batchNum int, doc []byte) error {
	return writeFile(a.ResultPath(dir, st, batchNum), doc)
}

// LoadResult reads back a saved result document. Replay mode uses this in
// place of the network fetch.
func (a *Area) LoadResult(dir flight.Direction, st flight.ServiceType, batchNum int) ([]byte, error) {
	path := a.ResultPath(dir, st, batchNum)
	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scratch: load result %s: %w", path, err)
	}
	return doc, nil
}

// HasResult reports whether a saved result document exists for the batch.
func (a *Area) HasResult(dir flight.Direction, st flight.ServiceType, batchNum int) bool {
	_, err := os.Stat(a.ResultPath(dir, st, batchNum))
	return err == nil
}

// SpillLegs writes the batch's parsed legs to a spill file so the caller can
// drop its in-memory slice before the next batch.
func (a *Area) SpillLegs(dir flight.Direction, st flight.ServiceType, batchNum int, legs []flight.Leg) error {
	data, err := json.Marshal(legs)
	if err != nil {
		return fmt.Errorf("scratch: encode legs: %w", err)
	}
	return writeFile(a.legsPath(dir, st, batchNum), data)
}

// LoadAllLegs reads every spill file back, in lexical filename order, and
// returns the combined legs.
func (a *Area) LoadAllLegs() ([]flight.Leg, error) {
	pattern := filepath.Join(a.Dir, legsDir, "legs-*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("scratch: glob legs: %w", err)
	}

	var all []flight.Leg
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("scratch: read %s: %w", path, err)
		}
		var legs []flight.Leg
		if err := json.Unmarshal(data, &legs); err != nil {
			return nil, fmt.Errorf("scratch: decode %s: %w", path, err)
		}
		all = append(all, legs...)
	}
	return all, nil
}

// Cleanup removes the scratch subdirectories and their contents. The run
// skips this when asked to keep files for inspection or replay.
func (a *Area) Cleanup() error {
	for _, sub := range []string{queriesDir, resultsDir, legsDir} {
		if err := os.RemoveAll(filepath.Join(a.Dir, sub)); err != nil {
			return fmt.Errorf("scratch: remove %s: %w", sub, err)
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scratch: write %s: %w", path, err)
	}
	return nil
}
