package dashboard

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aerodash/aerodash/internal/insights"
	"github.com/aerodash/aerodash/internal/runtime"
)

// Params carries one refresh's inputs: the selected sheet, the grouping
// dimension, the top-N cap, and the optional manufacturer filter.
type Params struct {
	Sheet         string   `validate:"required"`
	Group         string   `validate:"groupmode"`
	TopN          int      `validate:"min=0"`
	Manufacturers []string `validate:"-"`
}

// parseParams reads the refresh inputs from the query string. TopN is clamped
// to the slider range, an unrecognized grouping mode falls back to
// manufacturer, and a missing sheet stays empty for the caller to default.
func parseParams(r *http.Request, limits runtime.Limits) Params {
	q := r.URL.Query()

	topN := limits.DefaultTopN
	if raw := strings.TrimSpace(q.Get("top_n")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			topN = n
		}
	}

	var makers []string
	for _, m := range q["manufacturer"] {
		if m = strings.TrimSpace(m); m != "" {
			makers = append(makers, m)
		}
	}

	return Params{
		Sheet:         strings.TrimSpace(q.Get("sheet")),
		Group:         insights.ParseGroupKey(q.Get("group")).String(),
		TopN:          limits.ClampTopN(topN),
		Manufacturers: makers,
	}
}

// GroupKey returns the parsed grouping dimension.
func (p Params) GroupKey() insights.GroupKey {
	return insights.ParseGroupKey(p.Group)
}

// Query serializes the params back into a query string, used to point the
// chart iframes at the same selection the page was rendered from.
func (p Params) Query() string {
	q := url.Values{}
	q.Set("sheet", p.Sheet)
	q.Set("group", p.Group)
	q.Set("top_n", strconv.Itoa(p.TopN))
	for _, m := range p.Manufacturers {
		q.Add("manufacturer", m)
	}
	return q.Encode()
}

// selected reports whether a manufacturer is part of the current filter.
func (p Params) selected(name string) bool {
	for _, m := range p.Manufacturers {
		if m == name {
			return true
		}
	}
	return false
}
