package insights

import (
	"sort"
	"strings"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/workbooks"
)

// ManufacturerOption is one entry of the manufacturer filter dropdown.
type ManufacturerOption struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ManufacturerOptions lists the distinct non-null manufacturers of a table in
// ascending order with their row counts. A sheet without the manufacturer
// column yields no options rather than an error, so the filter simply stays
// empty.
func ManufacturerOptions(tbl *workbooks.Table) []ManufacturerOption {
	idx, ok := tbl.Col(config.ColManufacturer)
	if !ok {
		return nil
	}
	counts := make(map[string]int, 64)
	for _, row := range tbl.Rows {
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		counts[v]++
	}
	opts := make([]ManufacturerOption, 0, len(counts))
	for name, n := range counts {
		opts = append(opts, ManufacturerOption{Name: name, Count: n})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	return opts
}

// FilterByManufacturers restricts a table to rows whose manufacturer is in
// the selection. An empty selection returns the table unchanged; the source
// table is never mutated.
func FilterByManufacturers(tbl *workbooks.Table, selected []string) *workbooks.Table {
	if len(selected) == 0 {
		return tbl
	}
	idx, ok := tbl.Col(config.ColManufacturer)
	if !ok {
		return tbl
	}

	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		s = strings.TrimSpace(s)
		if s != "" {
			want[s] = struct{}{}
		}
	}
	if len(want) == 0 {
		return tbl
	}

	out := &workbooks.Table{Sheet: tbl.Sheet, Columns: tbl.Columns}
	for _, row := range tbl.Rows {
		if _, ok := want[strings.TrimSpace(row[idx])]; ok {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
