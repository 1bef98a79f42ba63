package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/aerodash/aerodash/config"
	"github.com/aerodash/aerodash/internal/charts"
	"github.com/aerodash/aerodash/internal/insights"
	"github.com/aerodash/aerodash/internal/runtime"
	"github.com/aerodash/aerodash/internal/workbooks"
	"github.com/aerodash/aerodash/pkg/apierr"
	"github.com/aerodash/aerodash/pkg/validation"
)

// Handler binds the dashboard inputs (sheet, grouping, top-N, manufacturer
// filter) to its outputs (bar chart, density chart, summary cards, preview
// table). Every recognized input change re-renders the whole page, so the
// four outputs always update as one atomic response; the charts load in
// iframes driven by the same query parameters.
type Handler struct {
	store  *workbooks.Store
	limits runtime.Limits
	logger zerolog.Logger
}

// NewHandler creates a dashboard handler over the given sheet store.
func NewHandler(store *workbooks.Store, limits runtime.Limits, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		limits: limits,
		logger: logger.With().Str("component", "dashboard").Logger(),
	}
}

// Routes returns the dashboard routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Get("/charts/bar", h.BarChart)
	r.Get("/charts/density", h.DensityChart)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/sheets", h.Sheets)
		r.Get("/manufacturers", h.Manufacturers)
		r.Get("/summary", h.SummaryJSON)
		r.Get("/density", h.DensityJSON)
	})

	return r
}

// Index renders the full dashboard page. A failing sheet load degrades into
// an inline error while the controls, built from the real sheet list, stay
// usable.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	sheets, err := h.store.SheetLabels(ctx)
	if err != nil {
		e := apierr.Wrap(apierr.LoadFailed, err)
		http.Error(w, e.Inline(), e.Status())
		return
	}

	p := parseParams(r, h.limits)
	if p.Sheet == "" && len(sheets) > 0 {
		p.Sheet = sheets[0].Name
	}

	view := pageView{
		Groups:     groupOptions,
		TopNMarks:  topNMarks(),
		Params:     p,
		BarSrc:     "/charts/bar?" + p.Query(),
		DensitySrc: "/charts/density?" + p.Query(),
	}
	for i := range view.Groups {
		view.Groups[i].Selected = view.Groups[i].Value == p.Group
	}
	for _, s := range sheets {
		view.Sheets = append(view.Sheets, sheetOptionView{SheetOption: s, Selected: s.Name == p.Sheet})
	}

	tbl, lerr := h.store.LoadSheet(ctx, p.Sheet)
	if lerr != nil {
		view.LoadErr = loadError(lerr).Inline()
	} else {
		for _, opt := range insights.ManufacturerOptions(tbl) {
			view.Manufacturers = append(view.Manufacturers, manufacturerOptionView{ManufacturerOption: opt, Selected: p.selected(opt.Name)})
		}

		filtered := insights.FilterByManufacturers(tbl, p.Manufacturers)
		view.Summary = insights.Summarize(filtered)
		view.Preview = preview(filtered, h.limits.PreviewRowLimit)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		h.logger.Error().Err(err).Msg("dashboard page render failed")
	}

	evt := h.logger.Info()
	if lerr != nil {
		evt = h.logger.Error().Err(lerr)
	}
	evt.Str("sheet", p.Sheet).Str("group", p.Group).Int("top_n", p.TopN).
		Dur("duration", time.Since(start)).Msg("dashboard refreshed")
}

// BarChart renders the aggregation bar chart for the current selection. Any
// failure degrades into a placeholder chart so the rest of the page is
// unaffected.
func (h *Handler) BarChart(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r, h.limits)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tbl, err := h.loadSelection(r, p)
	if err != nil {
		h.renderChartError(w, err)
		return
	}

	res, err := insights.Aggregate(tbl, p.GroupKey(), p.TopN)
	if err != nil {
		h.renderChartError(w, columnError(err))
		return
	}
	if err := charts.Bar(res).Render(w); err != nil {
		h.logger.Error().Err(err).Msg("bar chart render failed")
	}
}

// DensityChart renders the mass histogram with its KDE overlay. Small or
// empty samples render the chart's own degraded forms rather than erroring.
func (h *Handler) DensityChart(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r, h.limits)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tbl, err := h.loadSelection(r, p)
	if err != nil {
		h.renderChartError(w, err)
		return
	}

	sample, err := insights.MassSample(tbl)
	if err != nil {
		h.renderChartError(w, columnError(err))
		return
	}
	if err := charts.Density(sample).Render(w); err != nil {
		h.logger.Error().Err(err).Msg("density chart render failed")
	}
}

// Sheets serves the selector options as JSON.
func (h *Handler) Sheets(w http.ResponseWriter, r *http.Request) {
	opts, err := h.store.SheetLabels(r.Context())
	if err != nil {
		_ = render.Render(w, r, apierr.ToResponse(apierr.Wrap(apierr.LoadFailed, err)))
		return
	}
	render.JSON(w, r, map[string]any{"sheets": opts})
}

// Manufacturers serves the filter options for a sheet as JSON, mirroring the
// dedicated options callback of the UI.
func (h *Handler) Manufacturers(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiParams(w, r)
	if !ok {
		return
	}

	tbl, err := h.store.LoadSheet(r.Context(), p.Sheet)
	if err != nil {
		_ = render.Render(w, r, apierr.ToResponse(loadError(err)))
		return
	}

	opts := insights.ManufacturerOptions(tbl)
	render.JSON(w, r, map[string]any{"sheet": p.Sheet, "options": opts})
}

// SummaryJSON serves the summary metrics for the current selection as JSON.
func (h *Handler) SummaryJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiParams(w, r)
	if !ok {
		return
	}

	tbl, err := h.store.LoadSheet(r.Context(), p.Sheet)
	if err != nil {
		_ = render.Render(w, r, apierr.ToResponse(loadError(err)))
		return
	}

	filtered := insights.FilterByManufacturers(tbl, p.Manufacturers)
	render.JSON(w, r, map[string]any{
		"sheet":   p.Sheet,
		"filter":  p.Manufacturers,
		"summary": insights.Summarize(filtered),
	})
}

// DensityJSON serves the mass density estimate for the current selection as
// JSON: the full evenly spaced curve rather than the chart's bin-center
// evaluation. "available" is false when the sample is too small or has zero
// spread for an estimate.
func (h *Handler) DensityJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := h.apiParams(w, r)
	if !ok {
		return
	}

	tbl, err := h.store.LoadSheet(r.Context(), p.Sheet)
	if err != nil {
		_ = render.Render(w, r, apierr.ToResponse(loadError(err)))
		return
	}

	filtered := insights.FilterByManufacturers(tbl, p.Manufacturers)
	sample, err := insights.MassSample(filtered)
	if err != nil {
		_ = render.Render(w, r, apierr.ToResponse(columnError(err)))
		return
	}

	curve, available := insights.KDE(sample, config.DefaultKDEPoints)
	render.JSON(w, r, map[string]any{
		"sheet":     p.Sheet,
		"filter":    p.Manufacturers,
		"available": available,
		"curve":     curve,
	})
}

// apiParams validates the raw query inputs for the JSON endpoints, where bad
// inputs are rejected instead of silently corrected.
func (h *Handler) apiParams(w http.ResponseWriter, r *http.Request) (Params, bool) {
	q := r.URL.Query()
	raw := Params{
		Sheet: strings.TrimSpace(q.Get("sheet")),
		Group: strings.TrimSpace(q.Get("group")),
	}
	if n, err := strconv.Atoi(q.Get("top_n")); err == nil {
		raw.TopN = n
	}
	if msg := validation.ValidateStruct(raw); msg != "" {
		_ = render.Render(w, r, apierr.ToResponse(apierr.New(apierr.Validation, msg)))
		return Params{}, false
	}
	return parseParams(r, h.limits), true
}

// loadSelection loads the selected sheet, defaulting to the workbook's first
// sheet when none was given.
func (h *Handler) loadSelection(r *http.Request, p Params) (*workbooks.Table, error) {
	ctx := r.Context()
	name := p.Sheet
	if name == "" {
		names, err := h.store.SheetNames(ctx)
		if err != nil {
			return nil, apierr.Wrap(apierr.LoadFailed, err)
		}
		if len(names) == 0 {
			return nil, apierr.New(apierr.EmptyData, "workbook has no sheets")
		}
		name = names[0]
	}
	tbl, err := h.store.LoadSheet(ctx, name)
	if err != nil {
		return nil, loadError(err)
	}
	return insights.FilterByManufacturers(tbl, p.Manufacturers), nil
}

func (h *Handler) renderChartError(w http.ResponseWriter, err error) {
	var ce *apierr.Error
	msg := err.Error()
	if errors.As(err, &ce) {
		msg = ce.Inline()
	}
	if rerr := charts.EmptyState(msg).Render(w); rerr != nil {
		h.logger.Error().Err(rerr).Msg("error chart render failed")
	}
}

// loadError maps loader failures to catalog errors.
func loadError(err error) *apierr.Error {
	if errors.Is(err, workbooks.ErrSheetNotFound) {
		return apierr.Wrap(apierr.SheetNotFound, err)
	}
	if errors.Is(err, workbooks.ErrColumnMissing) {
		return apierr.Wrap(apierr.ColumnMissing, err)
	}
	return apierr.Wrap(apierr.LoadFailed, err)
}

// columnError maps missing-column failures raised by computations.
func columnError(err error) error {
	if errors.Is(err, workbooks.ErrColumnMissing) {
		return apierr.Wrap(apierr.ColumnMissing, err)
	}
	return apierr.Wrap(apierr.RenderFailed, err)
}

func preview(tbl *workbooks.Table, limit int) previewView {
	if limit <= 0 {
		limit = config.DefaultPreviewRowLimit
	}
	rows := tbl.Rows
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return previewView{Columns: tbl.Columns, Rows: rows}
}

func topNMarks() []int {
	var marks []int
	for n := config.MinTopN; n <= config.MaxTopN; n += config.TopNStep {
		marks = append(marks, n)
	}
	return marks
}
