package insights

import (
	"testing"

	"github.com/aerodash/aerodash/internal/workbooks"
	"github.com/stretchr/testify/require"
)

func TestManufacturerOptions_SortedWithCounts(t *testing.T) {
	tbl := registryTable(
		[]string{"Cessna", "172", "1100"},
		[]string{"Airbus", "A320", "70000"},
		[]string{"Cessna", "182", "1400"},
		[]string{"", "X", "1"},
	)

	opts := ManufacturerOptions(tbl)
	require.Equal(t, []ManufacturerOption{
		{Name: "Airbus", Count: 1},
		{Name: "Cessna", Count: 2},
	}, opts)
}

func TestManufacturerOptions_NoColumn(t *testing.T) {
	tbl := &workbooks.Table{Sheet: "Anhang", Columns: []string{"Erläuterung"}, Rows: [][]string{{"x"}}}
	require.Nil(t, ManufacturerOptions(tbl))
}

func TestFilterByManufacturers(t *testing.T) {
	tbl := registryTable(
		[]string{"Airbus", "A320", "70000"},
		[]string{"Boeing", "B737", "80000"},
		[]string{"Airbus", "A321", "90000"},
	)

	got := FilterByManufacturers(tbl, []string{"Airbus"})
	require.Equal(t, 2, got.Len())
	require.Equal(t, "A320", got.Rows[0][1])
	require.Equal(t, "A321", got.Rows[1][1])
	// Source table stays intact.
	require.Equal(t, 3, tbl.Len())
}

func TestFilterByManufacturers_EmptySelectionIsIdentity(t *testing.T) {
	tbl := registryTable([]string{"Airbus", "A320", "70000"})
	require.Same(t, tbl, FilterByManufacturers(tbl, nil))
	require.Same(t, tbl, FilterByManufacturers(tbl, []string{"", "  "}))
}

func TestFilterByManufacturers_NoMatches(t *testing.T) {
	tbl := registryTable([]string{"Airbus", "A320", "70000"})
	got := FilterByManufacturers(tbl, []string{"Boeing"})
	require.Zero(t, got.Len())
}
