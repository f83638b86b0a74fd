package formatter

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable renders headers and rows as a light-styled text table.
func RenderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	hdr := make(table.Row, len(headers))
	for i, h := range headers {
		hdr[i] = Render(StyleHeader, h)
	}
	tw.AppendHeader(hdr)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}
	tw.SetStyle(table.StyleLight)
	return tw.Render()
}
