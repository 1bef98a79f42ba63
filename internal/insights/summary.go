package insights

import (
	"fmt"
	"strings"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/workbooks"
)

// Summary carries the scalar metrics shown in the summary cards. MeanMass and
// MaxMass are only meaningful when MassAvailable is true; zero numeric mass
// values yield the explicit unavailable sentinel, never NaN.
type Summary struct {
	TotalRows             int     `json:"total_rows"`
	DistinctManufacturers int     `json:"distinct_manufacturers"`
	MassAvailable         bool    `json:"mass_available"`
	MeanMass              float64 `json:"mean_mass,omitempty"`
	MaxMass               float64 `json:"max_mass,omitempty"`
}

// Summarize computes the summary metrics over the full table. A missing
// manufacturer or mass column degrades the affected metric (zero distinct
// manufacturers, unavailable mass) instead of failing the whole panel.
func Summarize(tbl *workbooks.Table) Summary {
	s := Summary{TotalRows: tbl.Len()}

	if idx, ok := tbl.Col(config.ColManufacturer); ok {
		seen := make(map[string]struct{}, 64)
		for _, row := range tbl.Rows {
			v := strings.TrimSpace(row[idx])
			if v == "" {
				continue // null manufacturers are excluded from the distinct count
			}
			seen[v] = struct{}{}
		}
		s.DistinctManufacturers = len(seen)
	}

	sample := massValues(tbl)
	if len(sample) == 0 {
		return s
	}
	s.MassAvailable = true
	var sum float64
	max := sample[0]
	for _, v := range sample {
		sum += v
		if v > max {
			max = v
		}
	}
	s.MeanMass = sum / float64(len(sample))
	s.MaxMass = max
	return s
}

// MassSample returns the numeric values of the mass column for charting.
// Non-numeric and blank cells are excluded, not zeroed. The mass column being
// absent from a non-empty sheet is reported via workbooks.ErrColumnMissing so
// the density output can degrade on its own.
func MassSample(tbl *workbooks.Table) ([]float64, error) {
	if tbl.Len() == 0 {
		return nil, nil
	}
	if _, ok := tbl.Col(config.ColMass); !ok {
		return nil, fmt.Errorf("%w: %q", workbooks.ErrColumnMissing, config.ColMass)
	}
	return massValues(tbl), nil
}

func massValues(tbl *workbooks.Table) []float64 {
	idx, ok := tbl.Col(config.ColMass)
	if !ok {
		return nil
	}
	var vals []float64
	for _, row := range tbl.Rows {
		if v, ok := parseFloatStrict(row[idx]); ok {
			vals = append(vals, v)
		}
	}
	return vals
}
