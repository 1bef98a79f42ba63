package dashboard

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/aerodash/aerodash/internal/insights"
	"github.com/aerodash/aerodash/internal/workbooks"
)

// pageView is the model behind the dashboard template. Every refresh builds a
// fresh view; outputs that failed carry their inline error instead of data.
type pageView struct {
	Sheets        []sheetOptionView
	Groups        []groupOptionView
	Manufacturers []manufacturerOptionView
	TopNMarks     []int
	Params        Params

	LoadErr string

	Summary insights.Summary
	Preview previewView

	BarSrc     string
	DensitySrc string
}

type sheetOptionView struct {
	workbooks.SheetOption
	Selected bool
}

type groupOptionView struct {
	Value    string
	Label    string
	Selected bool
}

type manufacturerOptionView struct {
	insights.ManufacturerOption
	Selected bool
}

type previewView struct {
	Columns []string
	Rows    [][]string
}

var groupOptions = []groupOptionView{
	{Value: insights.ByManufacturer.String(), Label: insights.ByManufacturer.Title()},
	{Value: insights.ByModel.String(), Label: insights.ByModel.Title()},
	{Value: insights.ByBoth.String(), Label: "Both"},
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	return groupDigits(strconv.Itoa(n))
}

// formatMass renders a mass value rounded to whole kilograms with thousands
// separators.
func formatMass(v float64) string {
	return groupDigits(strconv.FormatFloat(v, 'f', 0, 64))
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

var pageTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"formatCount": formatCount,
	"formatMass":  formatMass,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Aircraft Data Dashboard</title>
<style>
body { font-family: sans-serif; background-color: #f8f9fa; margin: 0; padding: 1.5rem; }
h1 { text-align: center; }
.subtitle { text-align: center; color: #6c757d; }
.controls { display: flex; gap: 1.5rem; flex-wrap: wrap; margin-bottom: 1rem; }
.controls label { font-weight: bold; display: block; margin-bottom: 0.25rem; }
.cards { display: flex; gap: 1rem; flex-wrap: wrap; margin: 1rem 0; }
.card { background: #fff; border: 1px solid #dee2e6; border-radius: 4px; padding: 1rem; min-width: 11rem; }
.card h3 { margin: 0.25rem 0 0; }
.charts { display: flex; gap: 1rem; flex-wrap: wrap; }
.charts iframe { border: none; width: 920px; height: 540px; background: #fff; }
table { border-collapse: collapse; background: #fff; }
th, td { border: 1px solid #dee2e6; padding: 0.3rem 0.6rem; text-align: left; }
.error { color: #b02a37; }
</style>
</head>
<body>
<h1>Aircraft Data Dashboard</h1>
<p class="subtitle">Interactive analysis of Austrian aircraft registry data</p>

<form method="get" action="/">
<div class="controls">
  <div>
    <label for="sheet">Select Sheet:</label>
    <select id="sheet" name="sheet" onchange="this.form.submit()">
      {{range .Sheets}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
  </div>
  <div>
    <label for="group">Group By:</label>
    <select id="group" name="group" onchange="this.form.submit()">
      {{range .Groups}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
      {{end}}
    </select>
  </div>
  <div>
    <label for="top_n">Top N Results: {{.Params.TopN}}</label>
    <input type="range" id="top_n" name="top_n" min="5" max="30" step="5" value="{{.Params.TopN}}" onchange="this.form.submit()">
    <datalist id="top-n-marks">
      {{range .TopNMarks}}<option value="{{.}}" label="{{.}}"></option>
      {{end}}
    </datalist>
  </div>
  <div>
    <label for="manufacturer">Filter by Manufacturer (Hersteller):</label>
    <select id="manufacturer" name="manufacturer" multiple size="4" onchange="this.form.submit()">
      {{range .Manufacturers}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}} ({{formatCount .Count}} aircraft)</option>
      {{end}}
    </select>
  </div>
</div>
</form>

<hr>

{{if .LoadErr}}<p class="error">{{.LoadErr}}</p>{{end}}

<h2>Data Summary</h2>
<div class="cards">
  <div class="card"><h5>Total Aircraft</h5><h3>{{formatCount .Summary.TotalRows}}</h3></div>
  <div class="card"><h5>Unique Manufacturers</h5><h3>{{formatCount .Summary.DistinctManufacturers}}</h3></div>
  <div class="card"><h5>Average Mass (kg)</h5><h3>{{if .Summary.MassAvailable}}{{formatMass .Summary.MeanMass}}{{else}}N/A{{end}}</h3></div>
  <div class="card"><h5>Max Mass (kg)</h5><h3>{{if .Summary.MassAvailable}}{{formatMass .Summary.MaxMass}}{{else}}N/A{{end}}</h3></div>
</div>

<div class="charts">
  <iframe src="{{.BarSrc}}" title="Aircraft Count by Group"></iframe>
  <iframe src="{{.DensitySrc}}" title="Mass Distribution Density"></iframe>
</div>

<h2>Sample Data</h2>
{{if .Preview.Rows}}
<table>
  <thead><tr>{{range .Preview.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
  <tbody>
    {{range .Preview.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
    {{end}}
  </tbody>
</table>
{{else}}<p>No rows to preview.</p>{{end}}

</body>
</html>
`))
