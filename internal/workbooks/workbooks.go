package workbooks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aerodash/aerodash/config"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the requested sheet is absent from the workbook.
var ErrSheetNotFound = errors.New("workbooks: sheet not found")

// ErrColumnMissing indicates an expected column is absent from a sheet. It is
// raised lazily by consumers that need the column, never at load time.
var ErrColumnMissing = errors.New("workbooks: column missing")

// Table is an immutable in-memory snapshot of one sheet: an ordered header
// plus data rows. Rows are padded to the header width, so indexing by column
// is always safe.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Col returns the index of a named column.
func (t *Table) Col(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// LoadGate coordinates capacity for concurrent sheet loads (backed by
// runtime.Controller).
type LoadGate interface {
	AcquireLoad(ctx context.Context) error
	ReleaseLoad()
}

type cacheEntry struct {
	table     *Table
	expiresAt time.Time
}

// Store owns the workbook path and a TTL-bearing per-sheet table cache.
// Tables are never mutated after load, so cached values are safe to share
// across requests. The TTL is refreshed on access (idle timeout semantics).
type Store struct {
	path string

	mu    sync.RWMutex
	cache map[string]*cacheEntry

	ttl   time.Duration
	clock func() time.Time
	gate  LoadGate

	headerRow int
}

// NewStore constructs a Store for the workbook at path. Pass ttl <= 0 to use
// the default from config. Gate can be nil for tests; clock defaults to
// time.Now when nil.
func NewStore(path string, ttl time.Duration, gate LoadGate, clock func() time.Time) *Store {
	if ttl <= 0 {
		ttl = config.DefaultSheetCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		path:      path,
		cache:     make(map[string]*cacheEntry),
		ttl:       ttl,
		clock:     clock,
		gate:      gate,
		headerRow: config.HeaderRow,
	}
}

// Path returns the canonical workbook path the store serves.
func (s *Store) Path() string { return s.path }

// SheetNames returns the workbook's sheet names in workbook order. It must
// succeed even when individual sheets have heterogeneous schemas, so it never
// inspects sheet contents.
func (s *Store) SheetNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.withFile(ctx, func(f *excelize.File) error {
		names = f.GetSheetList()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// SheetOption pairs a sheet name with its display label for the selector.
type SheetOption struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// descriptionSheets are the registry sheets whose title row carries a
// category description of the form "… - … - <category> - …".
var descriptionSheets = map[string]struct{}{
	"1.a": {}, "1.b": {}, "2.": {}, "3.": {}, "4.": {}, "5.": {}, "6.": {},
}

// SheetLabels returns selector options for every sheet. For the known
// description-bearing sheets it appends the category segment of the title row
// to the name; otherwise the label is the bare sheet name.
func (s *Store) SheetLabels(ctx context.Context) ([]SheetOption, error) {
	var opts []SheetOption
	err := s.withFile(ctx, func(f *excelize.File) error {
		for _, name := range f.GetSheetList() {
			opts = append(opts, SheetOption{Name: name, Label: sheetLabel(f, name)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return opts, nil
}

func sheetLabel(f *excelize.File, name string) string {
	if _, ok := descriptionSheets[name]; !ok {
		return name
	}
	title, err := f.GetCellValue(name, "A1")
	if err != nil {
		return name
	}
	parts := strings.Split(title, config.CompositeLabelSeparator)
	if len(parts) < 3 {
		return name
	}
	desc := strings.TrimSpace(parts[2])
	if desc == "" {
		return name
	}
	return name + config.CompositeLabelSeparator + desc
}

// LoadSheet reads the named sheet into a Table, serving repeat requests from
// the cache. The header is taken from the configured header row; rows above
// it are treated as title lines and skipped, fully empty rows are dropped,
// and unknown columns are carried through untouched.
func (s *Store) LoadSheet(ctx context.Context, name string) (*Table, error) {
	now := s.clock()

	s.mu.RLock()
	e, ok := s.cache[name]
	s.mu.RUnlock()
	if ok && now.Before(e.expiresAt) {
		s.touch(name, now)
		return e.table, nil
	}

	tbl, err := s.readSheet(ctx, name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[name] = &cacheEntry{table: tbl, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()
	return tbl, nil
}

func (s *Store) touch(name string, now time.Time) {
	s.mu.Lock()
	if e, ok := s.cache[name]; ok {
		e.expiresAt = now.Add(s.ttl)
	}
	s.mu.Unlock()
}

// EvictExpired drops cache entries past their TTL.
func (s *Store) EvictExpired() {
	now := s.clock()
	s.mu.Lock()
	for name, e := range s.cache {
		if now.After(e.expiresAt) {
			delete(s.cache, name)
		}
	}
	s.mu.Unlock()
}

// CachedSheets returns the number of cached sheet tables.
func (s *Store) CachedSheets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *Store) readSheet(ctx context.Context, name string) (*Table, error) {
	var tbl *Table
	err := s.withFile(ctx, func(f *excelize.File) error {
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("workbooks: sheet index %q: %w", name, err)
		}
		if idx == -1 {
			return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
		}

		r, err := f.Rows(name)
		if err != nil {
			return err
		}
		defer r.Close()

		t := &Table{Sheet: name}
		rowIdx := 0
		for r.Next() {
			rowIdx++
			if rowIdx < s.headerRow {
				continue // title lines above the header
			}
			vals, err := r.Columns()
			if err != nil {
				return err
			}
			if rowIdx == s.headerRow {
				t.Columns = trimTrailingEmpties(vals)
				continue
			}
			if t.Columns == nil {
				// Header row was beyond the sheet's extent.
				return fmt.Errorf("%w: header row %d empty in sheet %q", ErrColumnMissing, s.headerRow, name)
			}
			if allEmpty(vals) {
				continue
			}
			t.Rows = append(t.Rows, padRow(vals, len(t.Columns)))
		}
		if err := r.Error(); err != nil {
			return err
		}
		if t.Columns == nil {
			t.Columns = []string{}
		}
		tbl = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tbl, nil
}

// withFile opens the workbook, runs fn, and closes it. Opens are bounded by
// the load gate when one is configured.
func (s *Store) withFile(ctx context.Context, fn func(*excelize.File) error) error {
	if s.gate != nil {
		if err := s.gate.AcquireLoad(ctx); err != nil {
			return err
		}
		defer s.gate.ReleaseLoad()
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("workbooks: open %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	return fn(f)
}

func allEmpty(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimTrailingEmpties(xs []string) []string {
	i := len(xs)
	for i > 0 {
		if strings.TrimSpace(xs[i-1]) != "" {
			break
		}
		i--
	}
	return xs[:i]
}

func padRow(vals []string, width int) []string {
	if len(vals) == width {
		return vals
	}
	if len(vals) > width {
		return vals[:width]
	}
	out := make([]string, width)
	copy(out, vals)
	return out
}
