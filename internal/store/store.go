// Package store loads and serves the per-country price datasets.
//
// Each CSV file under the datasets directory holds one country's
// records; the filename stem (hyphens replaced by spaces) is the
// country name. A Store is immutable once built — refreshes construct a
// whole new Store and swap it in atomically via Holder, so in-flight
// queries never observe a half-updated dataset.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pricetalk/pricetalk/internal/logger"
	"github.com/pricetalk/pricetalk/pkg/models"
)

// requiredColumns are the dataset columns the loader insists on. Extra
// columns (market, admin1, unit, ...) are ignored.
var requiredColumns = []string{"date", "commodity", "price", "usdprice", "currency", "pricetype"}

// loadConcurrency bounds the number of CSV files parsed in parallel.
const loadConcurrency = 8

// MalformedDatasetError reports a per-country source that failed to
// load. The store recovers by excluding the country; the error never
// surfaces mid-query.
type MalformedDatasetError struct {
	Path   string
	Reason string
}

func (e *MalformedDatasetError) Error() string {
	return fmt.Sprintf("malformed dataset %s: %s", e.Path, e.Reason)
}

// dataset holds one country's records and its derived commodity
// vocabulary.
type dataset struct {
	records     []models.PriceRecord
	commodities []string // sorted, distinct
}

// Store is the read-only collection of all loaded country datasets.
type Store struct {
	countries []string // sorted
	datasets  map[string]*dataset
	loadedAt  time.Time
}

// Load reads every *.csv under dir into a new Store. A malformed file
// is logged and excluded without blocking the others; Load fails only
// when the directory itself is unreadable or nothing loads at all.
func Load(dir string) (*Store, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("scan datasets dir: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no dataset files found in %s", dir)
	}

	log := logger.WithComponent("store")

	var mu sync.Mutex
	datasets := make(map[string]*dataset, len(paths))

	var g errgroup.Group
	g.SetLimit(loadConcurrency)
	for _, path := range paths {
		g.Go(func() error {
			country := countryName(path)
			ds, err := loadFile(path, country)
			if err != nil {
				var malformed *MalformedDatasetError
				if errors.As(err, &malformed) {
					log.WithError(err).Warnf("excluding dataset for %q", country)
					return nil
				}
				return err
			}
			mu.Lock()
			datasets[country] = ds
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, fmt.Errorf("all %d dataset files in %s were malformed", len(paths), dir)
	}

	countries := make([]string, 0, len(datasets))
	for c := range datasets {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	log.Infof("loaded %d country datasets from %s", len(countries), dir)
	return &Store{countries: countries, datasets: datasets, loadedAt: time.Now()}, nil
}

// Countries returns the sorted names of all loaded countries.
func (s *Store) Countries() []string {
	return s.countries
}

// Commodities returns the sorted commodity vocabulary for a country, or
// nil when the country is not loaded.
func (s *Store) Commodities(country string) []string {
	ds, ok := s.datasets[country]
	if !ok {
		return nil
	}
	return ds.commodities
}

// Rows returns all price records for a country in file order.
func (s *Store) Rows(country string) []models.PriceRecord {
	ds, ok := s.datasets[country]
	if !ok {
		return nil
	}
	return ds.records
}

// LoadedAt reports when this snapshot was built.
func (s *Store) LoadedAt() time.Time {
	return s.loadedAt
}

// countryName derives the country name from a dataset path:
// "burkina-faso.csv" → "burkina faso".
func countryName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(stem, "-", " ")
}

// loadFile parses a single country CSV. Rows with unparseable dates or
// prices are skipped; a missing required column rejects the whole file.
func loadFile(path, country string) (*dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // header decides; tolerate ragged tails

	header, err := r.Read()
	if err != nil {
		return nil, &MalformedDatasetError{Path: path, Reason: "empty file"}
	}

	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &MalformedDatasetError{Path: path, Reason: "missing column " + col}
		}
	}

	ds := &dataset{}
	vocab := make(map[string]bool)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedDatasetError{Path: path, Reason: err.Error()}
		}

		rec, ok := parseRow(row, idx, country)
		if !ok {
			continue
		}
		ds.records = append(ds.records, rec)
		vocab[rec.Commodity] = true
	}
	if len(ds.records) == 0 {
		return nil, &MalformedDatasetError{Path: path, Reason: "no usable rows"}
	}

	ds.commodities = make([]string, 0, len(vocab))
	for c := range vocab {
		ds.commodities = append(ds.commodities, c)
	}
	sort.Strings(ds.commodities)
	return ds, nil
}

// parseRow converts one CSV row into a PriceRecord. The WFP exports
// carry a human-readable description row right under the header; it and
// any other unparseable row are dropped silently.
func parseRow(row []string, idx map[string]int, country string) (models.PriceRecord, bool) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := time.Parse(models.DateOnly, field("date"))
	if err != nil {
		return models.PriceRecord{}, false
	}
	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil || price < 0 {
		return models.PriceRecord{}, false
	}
	usd, err := strconv.ParseFloat(field("usdprice"), 64)
	if err != nil || usd < 0 {
		return models.PriceRecord{}, false
	}
	commodity := field("commodity")
	if commodity == "" {
		return models.PriceRecord{}, false
	}

	return models.PriceRecord{
		Country:   country,
		Commodity: commodity,
		Date:      date,
		Price:     price,
		USDPrice:  usd,
		Currency:  field("currency"),
		PriceType: models.PriceType(field("pricetype")),
	}, true
}

// Holder publishes the current Store snapshot and swaps in replacements
// atomically. Readers hold on to whatever snapshot they grabbed for the
// duration of a query.
type Holder struct {
	dir string
	v   atomic.Pointer[Store]
}

// NewHolder loads dir and wraps the result in a Holder.
func NewHolder(dir string) (*Holder, error) {
	s, err := Load(dir)
	if err != nil {
		return nil, err
	}
	h := &Holder{dir: dir}
	h.v.Store(s)
	return h, nil
}

// Get returns the current snapshot.
func (h *Holder) Get() *Store {
	return h.v.Load()
}

// Reload builds a fresh Store from the backing directory and swaps it
// in. On failure the previous snapshot stays active.
func (h *Holder) Reload() error {
	s, err := Load(h.dir)
	if err != nil {
		return err
	}
	h.v.Store(s)
	return nil
}
