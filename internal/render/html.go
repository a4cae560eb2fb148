package render

import (
	"html/template"
	"io"

	"github.com/skysurvey/nightsched/internal/types"
)

var htmlTmpl = template.Must(template.New("schedule").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
table { border-collapse: collapse; font-family: sans-serif; font-size: 13px; }
th, td { border: 1px solid #999; padding: 3px 8px; text-align: center; }
tr.dark { background: #dce9f7; }
tr.bright { background: #f7ecd8; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<tr><th>Run</th><th>Date</th><th>Sunset</th><th>Sunrise</th>
<th>Night</th><th>Dark</th><th>Moon/RHV</th><th>Mode</th></tr>
{{range .Rows}}<tr class="{{.Kind}}">
<td>{{.Label}}</td><td>{{.Date}}</td><td>{{.Sunset}}</td><td>{{.Sunrise}}</td>
<td>{{.Night}}</td><td>{{.Dark}}</td><td>{{.Moon}}</td><td>{{.Mode}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type htmlRow struct {
	Kind    string
	Label   string
	Date    string
	Sunset  string
	Sunrise string
	Night   string
	Dark    string
	Moon    string
	Mode    string
}

// WriteHTML writes the schedule as a standalone HTML table.
func WriteHTML(w io.Writer, nights []types.ScheduleNight, title string) error {
	rows := make([]htmlRow, 0, len(nights))
	for i := range nights {
		n := &nights[i]
		kind := "bright"
		if n.IsDark() {
			kind = "dark"
		}
		row := htmlRow{
			Kind:    kind,
			Label:   n.Label(),
			Date:    n.Class.Night.Start.Format(dateFormat),
			Sunset:  n.Record.Sunset.Time.Format("15:04"),
			Sunrise: n.Record.Sunrise.Time.Format("15:04"),
			Night:   formatDuration(n.Class.NightDuration()),
		}
		if n.Class.Dark != nil {
			row.Dark = formatDuration(n.Class.DarkDuration())
		}
		if n.Class.Moon != nil {
			row.Moon = formatDuration(n.Class.MoonDuration())
			row.Mode = n.Class.Mode.String()
		}
		rows = append(rows, row)
	}

	return htmlTmpl.Execute(w, struct {
		Title string
		Rows  []htmlRow
	}{Title: title, Rows: rows})
}
