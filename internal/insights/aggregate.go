package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/workbooks"
)

// GroupKey selects the dimension used to bucket rows before counting.
type GroupKey int

const (
	ByManufacturer GroupKey = iota
	ByModel
	ByBoth
)

// ParseGroupKey maps the wire value of the group-by selector to a GroupKey.
// Unrecognized values fall back to ByManufacturer.
func ParseGroupKey(s string) GroupKey {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "model":
		return ByModel
	case "both":
		return ByBoth
	default:
		return ByManufacturer
	}
}

func (k GroupKey) String() string {
	switch k {
	case ByModel:
		return "model"
	case ByBoth:
		return "both"
	default:
		return "manufacturer"
	}
}

// Title returns the human-readable dimension name used in chart titles and
// the selector, mirroring the registry's German headers.
func (k GroupKey) Title() string {
	switch k {
	case ByModel:
		return config.ColModel + " (Model)"
	case ByBoth:
		return "Hersteller + Modell"
	default:
		return config.ColManufacturer + " (Manufacturer)"
	}
}

// Group is one (label, count) bucket of an aggregation.
type Group struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AggregationResult is an ordered sequence of groups, sorted by count
// descending with ascending lexical labels breaking ties, truncated to top-N.
type AggregationResult struct {
	Key    GroupKey `json:"-"`
	TopN   int      `json:"top_n"`
	Groups []Group  `json:"groups"`
}

// ClampTopN forces n into the slider range [MinTopN, MaxTopN]. Any value
// below the range, zero included, snaps to MinTopN.
func ClampTopN(n int) int {
	switch {
	case n < config.MinTopN:
		return config.MinTopN
	case n > config.MaxTopN:
		return config.MaxTopN
	}
	return n
}

// Aggregate buckets the table's rows by the grouping dimension and returns
// the top-N buckets by count. Blank grouping values count under the Unknown
// label rather than being dropped. A table with zero rows yields an empty
// result, not an error; a missing grouping column is reported via
// workbooks.ErrColumnMissing.
func Aggregate(tbl *workbooks.Table, key GroupKey, topN int) (AggregationResult, error) {
	out := AggregationResult{Key: key, TopN: ClampTopN(topN)}
	if tbl.Len() == 0 {
		return out, nil
	}

	labels, err := rowLabels(tbl, key)
	if err != nil {
		return out, err
	}

	counts := make(map[string]int, 64)
	for _, label := range labels {
		counts[label]++
	}

	groups := make([]Group, 0, len(counts))
	for label, n := range counts {
		groups = append(groups, Group{Label: label, Count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].Label < groups[j].Label
	})

	if len(groups) > out.TopN {
		groups = groups[:out.TopN]
	}
	out.Groups = groups
	return out, nil
}

// rowLabels derives the per-row grouping label. ByBoth joins manufacturer and
// model for display without touching the underlying table.
func rowLabels(tbl *workbooks.Table, key GroupKey) ([]string, error) {
	manufacturerIdx, hasManufacturer := tbl.Col(config.ColManufacturer)
	modelIdx, hasModel := tbl.Col(config.ColModel)

	switch key {
	case ByManufacturer:
		if !hasManufacturer {
			return nil, fmt.Errorf("%w: %q", workbooks.ErrColumnMissing, config.ColManufacturer)
		}
	case ByModel:
		if !hasModel {
			return nil, fmt.Errorf("%w: %q", workbooks.ErrColumnMissing, config.ColModel)
		}
	case ByBoth:
		if !hasManufacturer {
			return nil, fmt.Errorf("%w: %q", workbooks.ErrColumnMissing, config.ColManufacturer)
		}
		if !hasModel {
			return nil, fmt.Errorf("%w: %q", workbooks.ErrColumnMissing, config.ColModel)
		}
	}

	labels := make([]string, tbl.Len())
	for i, row := range tbl.Rows {
		switch key {
		case ByModel:
			labels[i] = labelOrUnknown(row[modelIdx])
		case ByBoth:
			m := strings.TrimSpace(row[manufacturerIdx])
			d := strings.TrimSpace(row[modelIdx])
			if m == "" && d == "" {
				labels[i] = config.UnknownGroupLabel
				continue
			}
			if m == "" {
				m = config.UnknownGroupLabel
			}
			if d == "" {
				d = config.UnknownGroupLabel
			}
			labels[i] = m + config.CompositeLabelSeparator + d
		default:
			labels[i] = labelOrUnknown(row[manufacturerIdx])
		}
	}
	return labels, nil
}

func labelOrUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return config.UnknownGroupLabel
	}
	return v
}
