package insights

import (
	"fmt"
	"testing"

	"github.com/aerodash/aerodash/internal/workbooks"
	"github.com/stretchr/testify/require"
)

func registryTable(rows ...[]string) *workbooks.Table {
	return &workbooks.Table{
		Sheet:   "1.a",
		Columns: []string{"Hersteller", "Herstellerbezeichnung", "höchstzulässige Abflugmasse (kg)"},
		Rows:    rows,
	}
}

func TestAggregate_ByManufacturer(t *testing.T) {
	tbl := registryTable(
		[]string{"Airbus", "A320", "70000"},
		[]string{"Airbus", "A321", "90000"},
		[]string{"Boeing", "B737", "80000"},
	)

	res, err := Aggregate(tbl, ByManufacturer, 5)
	require.NoError(t, err)
	require.Equal(t, []Group{{Label: "Airbus", Count: 2}, {Label: "Boeing", Count: 1}}, res.Groups)
}

func TestAggregate_ByBoth_LexicalTieBreak(t *testing.T) {
	tbl := registryTable(
		[]string{"Boeing", "B737", "80000"},
		[]string{"Airbus", "A321", "90000"},
		[]string{"Airbus", "A320", "70000"},
	)

	res, err := Aggregate(tbl, ByBoth, 5)
	require.NoError(t, err)
	// Equal counts sort by ascending label; the composite label never mutates
	// the source table.
	require.Equal(t, []Group{
		{Label: "Airbus - A320", Count: 1},
		{Label: "Airbus - A321", Count: 1},
		{Label: "Boeing - B737", Count: 1},
	}, res.Groups)
	require.Equal(t, "Boeing", tbl.Rows[0][0])
	require.Len(t, tbl.Columns, 3)
}

func TestAggregate_BlankValuesCountAsUnknown(t *testing.T) {
	tbl := registryTable(
		[]string{"", "A320", "70000"},
		[]string{"  ", "A321", "90000"},
		[]string{"Boeing", "B737", "80000"},
	)

	res, err := Aggregate(tbl, ByManufacturer, 5)
	require.NoError(t, err)
	require.Equal(t, []Group{{Label: "Unknown", Count: 2}, {Label: "Boeing", Count: 1}}, res.Groups)
}

func TestAggregate_EmptyTableReturnsEmptyResult(t *testing.T) {
	res, err := Aggregate(registryTable(), ByManufacturer, 10)
	require.NoError(t, err)
	require.Empty(t, res.Groups)
}

func TestAggregate_TopNClampedAndApplied(t *testing.T) {
	var rows [][]string
	for i := 0; i < 40; i++ {
		rows = append(rows, []string{fmt.Sprintf("Maker-%02d", i), "M", "1000"})
	}
	tbl := registryTable(rows...)

	res, err := Aggregate(tbl, ByManufacturer, 100)
	require.NoError(t, err)
	require.Equal(t, 30, res.TopN)
	require.Len(t, res.Groups, 30)

	res, err = Aggregate(tbl, ByManufacturer, 1)
	require.NoError(t, err)
	require.Equal(t, 5, res.TopN)
	require.Len(t, res.Groups, 5)

	// An explicit zero snaps to the lower bound, same as any under-range value.
	res, err = Aggregate(tbl, ByManufacturer, 0)
	require.NoError(t, err)
	require.Equal(t, 5, res.TopN)
	require.Len(t, res.Groups, 5)
}

func TestAggregate_SortedByCountThenLabel(t *testing.T) {
	tbl := registryTable(
		[]string{"Cessna", "172", "1100"},
		[]string{"Cessna", "182", "1400"},
		[]string{"Airbus", "A320", "70000"},
		[]string{"Boeing", "B737", "80000"},
		[]string{"Boeing", "B747", "390000"},
	)

	res, err := Aggregate(tbl, ByManufacturer, 5)
	require.NoError(t, err)
	require.Equal(t, []Group{
		{Label: "Boeing", Count: 2},
		{Label: "Cessna", Count: 2},
		{Label: "Airbus", Count: 1},
	}, res.Groups)
}

func TestAggregate_MissingColumn(t *testing.T) {
	tbl := &workbooks.Table{
		Sheet:   "Anhang",
		Columns: []string{"Erläuterung"},
		Rows:    [][]string{{"Hinweis"}},
	}

	_, err := Aggregate(tbl, ByManufacturer, 10)
	require.ErrorIs(t, err, workbooks.ErrColumnMissing)

	_, err = Aggregate(tbl, ByBoth, 10)
	require.ErrorIs(t, err, workbooks.ErrColumnMissing)
}

func TestParseGroupKey(t *testing.T) {
	require.Equal(t, ByManufacturer, ParseGroupKey("manufacturer"))
	require.Equal(t, ByModel, ParseGroupKey("Model"))
	require.Equal(t, ByBoth, ParseGroupKey(" both "))
	require.Equal(t, ByManufacturer, ParseGroupKey("unknown-mode"))
	require.Equal(t, ByManufacturer, ParseGroupKey(""))
}
