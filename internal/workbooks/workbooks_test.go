package workbooks

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fakeGate implements LoadGate for tests with counters.
type fakeGate struct {
	acquireErr error
	acquires   atomic.Int64
	releases   atomic.Int64
}

func (g *fakeGate) AcquireLoad(ctx context.Context) error {
	g.acquires.Add(1)
	return g.acquireErr
}
func (g *fakeGate) ReleaseLoad() { g.releases.Add(1) }

func createRegistryWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sh := "1.a"
	f.SetSheetName("Sheet1", sh)
	require.NoError(t, f.SetCellValue(sh, "A1", "Luftfahrzeugregister - Stand 2025 - Flugzeuge - Oktober"))
	require.NoError(t, f.SetSheetRow(sh, "A2", &[]string{"Hersteller", "Herstellerbezeichnung", "höchstzulässige Abflugmasse (kg)", "Kennzeichen"}))
	require.NoError(t, f.SetSheetRow(sh, "A3", &[]string{"Airbus", "A320", "70000", "OE-ABC"}))
	require.NoError(t, f.SetSheetRow(sh, "A4", &[]string{"", "", "", ""}))
	require.NoError(t, f.SetSheetRow(sh, "A5", &[]string{"Boeing", "B737", "80000", "OE-DEF"}))

	_, err := f.NewSheet("Anhang")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Anhang", "A1", "Erläuterungen"))

	dir := t.TempDir()
	path := filepath.Join(dir, "registry.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestSheetNames(t *testing.T) {
	path := createRegistryWorkbook(t)
	s := NewStore(path, 0, nil, nil)

	names, err := s.SheetNames(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"1.a", "Anhang"}, names)
}

func TestSheetLabels_DescriptionDerived(t *testing.T) {
	path := createRegistryWorkbook(t)
	s := NewStore(path, 0, nil, nil)

	opts, err := s.SheetLabels(context.Background())
	require.NoError(t, err)
	require.Len(t, opts, 2)
	// Third " - " segment of the title row is the category description.
	require.Equal(t, SheetOption{Name: "1.a", Label: "1.a - Flugzeuge"}, opts[0])
	// Unlisted sheets keep their bare name.
	require.Equal(t, SheetOption{Name: "Anhang", Label: "Anhang"}, opts[1])
}

func TestLoadSheet_HeaderAndRows(t *testing.T) {
	path := createRegistryWorkbook(t)
	s := NewStore(path, 0, nil, nil)

	tbl, err := s.LoadSheet(context.Background(), "1.a")
	require.NoError(t, err)
	require.Equal(t, []string{"Hersteller", "Herstellerbezeichnung", "höchstzulässige Abflugmasse (kg)", "Kennzeichen"}, tbl.Columns)
	// The fully empty row is dropped.
	require.Equal(t, 2, tbl.Len())
	require.Equal(t, "Airbus", tbl.Rows[0][0])
	require.Equal(t, "B737", tbl.Rows[1][1])

	idx, ok := tbl.Col("Kennzeichen")
	require.True(t, ok)
	require.Equal(t, 3, idx)
	_, ok = tbl.Col("Baujahr")
	require.False(t, ok)
}

func TestLoadSheet_UnknownSheet(t *testing.T) {
	path := createRegistryWorkbook(t)
	s := NewStore(path, 0, nil, nil)

	_, err := s.LoadSheet(context.Background(), "7.")
	require.ErrorIs(t, err, ErrSheetNotFound)
}

func TestLoadSheet_CachesPerSheet(t *testing.T) {
	path := createRegistryWorkbook(t)
	gate := &fakeGate{}
	s := NewStore(path, time.Minute, gate, nil)

	first, err := s.LoadSheet(context.Background(), "1.a")
	require.NoError(t, err)
	require.Equal(t, 1, s.CachedSheets())

	second, err := s.LoadSheet(context.Background(), "1.a")
	require.NoError(t, err)
	// Same table instance served from cache: one gated open only.
	require.Same(t, first, second)
	require.Equal(t, int64(1), gate.acquires.Load())
	require.Equal(t, int64(1), gate.releases.Load())
}

func TestLoadSheet_TTLExpiryAndEviction(t *testing.T) {
	// Custom clock we can advance.
	var now atomic.Int64
	now.Store(time.Now().UnixNano())
	clock := func() time.Time { return time.Unix(0, now.Load()) }

	path := createRegistryWorkbook(t)
	s := NewStore(path, 50*time.Millisecond, nil, clock)

	_, err := s.LoadSheet(context.Background(), "1.a")
	require.NoError(t, err)
	require.Equal(t, 1, s.CachedSheets())

	now.Store(time.Now().Add(200 * time.Millisecond).UnixNano())
	s.EvictExpired()
	require.Equal(t, 0, s.CachedSheets())
}

func TestLoadSheet_GateErrorPropagates(t *testing.T) {
	path := createRegistryWorkbook(t)
	gate := &fakeGate{acquireErr: context.DeadlineExceeded}
	s := NewStore(path, 0, gate, nil)

	_, err := s.LoadSheet(context.Background(), "1.a")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadSheet_MissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.xlsx"), 0, nil, nil)
	_, err := s.LoadSheet(context.Background(), "1.a")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrSheetNotFound))
}
