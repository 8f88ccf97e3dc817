package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/user/clens/internal/config"
	"github.com/user/clens/internal/csvdata"
)

// table renders headers and a window of rows into terminal lines. It must
// tolerate fewer rows than the window height and a selection outside the
// visible rows.
type table struct {
	headers []string

	showRowNumbers bool
	maxColWidth    int
	padding        int

	headerStyle   lipgloss.Style
	rowNumStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	selectedStyle lipgloss.Style
}

func newTable(headers []string, cfg *config.Config) *table {
	return &table{
		headers:        headers,
		showRowNumbers: cfg.Display.ShowRowNumbers,
		maxColWidth:    cfg.Display.MaxColumnWidth,
		padding:        cfg.Display.ColumnPadding,
		headerStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(cfg.Theme.Header)),
		rowNumStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.RowNumbers)),
		cellStyle:      lipgloss.NewStyle(),
		selectedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.SelectedRow)).Bold(true),
	}
}

// render produces the header line plus height row lines, starting at column
// colsFrom. It returns the text and how many columns were rendered, which
// the frame loop uses to decide column auto-scroll for found records.
func (t *table) render(rows []csvdata.Row, colsFrom, width, height int, selected int, hasSelected bool) (string, int) {
	gutter := 0
	if t.showRowNumbers {
		gutter = t.gutterWidth(rows)
	}

	widths, rendered := t.columnWidths(rows, colsFrom, width-gutter)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutter))
	b.WriteString(t.headerStyle.Render(t.line(t.headers, colsFrom, widths)))
	b.WriteString("\n")

	for i, row := range rows {
		if i >= height {
			break
		}
		style := t.cellStyle
		isSelected := hasSelected && row.Index == selected
		if isSelected {
			style = t.selectedStyle
		}
		if t.showRowNumbers {
			num := fmt.Sprintf("%*d ", gutter-1, row.Index+1)
			if isSelected {
				b.WriteString(t.selectedStyle.Render(num))
			} else {
				b.WriteString(t.rowNumStyle.Render(num))
			}
		}
		b.WriteString(style.Render(t.line(row.Fields, colsFrom, widths)))
		b.WriteString("\n")
	}

	// Pad with tildes so the frame keeps a stable height at end of data.
	for i := len(rows); i < height; i++ {
		b.WriteString(t.rowNumStyle.Render("~"))
		b.WriteString("\n")
	}

	return b.String(), rendered
}

// gutterWidth sizes the row-number column from the largest visible index.
func (t *table) gutterWidth(rows []csvdata.Row) int {
	max := 0
	for _, row := range rows {
		if row.Index+1 > max {
			max = row.Index + 1
		}
	}
	w := len(fmt.Sprintf("%d", max)) + 1
	if w < 5 {
		w = 5
	}
	return w
}

// columnWidths computes display widths for the columns starting at
// colsFrom, stopping once the available width is used up. At least one
// column is always rendered.
func (t *table) columnWidths(rows []csvdata.Row, colsFrom, available int) (map[int]int, int) {
	widths := make(map[int]int)
	used := 0
	rendered := 0
	for col := colsFrom; col < len(t.headers); col++ {
		w := runewidth.StringWidth(t.headers[col])
		for _, row := range rows {
			if col < len(row.Fields) {
				if fw := runewidth.StringWidth(row.Fields[col]); fw > w {
					w = fw
				}
			}
		}
		if w > t.maxColWidth {
			w = t.maxColWidth
		}
		if rendered > 0 && used+w+t.padding > available {
			break
		}
		widths[col] = w
		used += w + t.padding
		rendered++
	}
	return widths, rendered
}

func (t *table) line(fields []string, colsFrom int, widths map[int]int) string {
	var b strings.Builder
	for col := colsFrom; col < colsFrom+len(widths); col++ {
		w, ok := widths[col]
		if !ok {
			break
		}
		cell := ""
		if col < len(fields) {
			cell = fields[col]
		}
		cell = runewidth.Truncate(cell, w, "…")
		b.WriteString(runewidth.FillRight(cell, w+t.padding))
	}
	return strings.TrimRight(b.String(), " ")
}
