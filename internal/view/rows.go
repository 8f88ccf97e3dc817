package view

import (
	"time"

	"github.com/user/clens/internal/csvdata"
	"github.com/user/clens/internal/find"
	"github.com/user/clens/internal/input"
)

// RowsView owns the visible window: the first visible row, the requested
// window height, and the first visible column. In filter mode the window is
// addressed by match index into the active Finder's match set and each
// match index is translated back to a raw row through the reader.
//
// Scroll targets saturate to valid bounds rather than erroring, so the view
// stays robust against terminal resizes and a filter still growing.
type RowsView struct {
	reader *csvdata.Reader

	numRows  int
	rowsFrom int
	colsFrom int

	filter *find.Finder

	rows    []csvdata.Row
	fetched bool
	// cache key of the last fetch
	fetchedFrom    int
	fetchedNum     int
	fetchedMatches int

	elapsed  time.Duration
	hasFetch bool

	selected    int
	hasSelected bool
}

// New creates a view over reader starting at row 0, column 0, no filter.
func New(reader *csvdata.Reader, numRows int) *RowsView {
	return &RowsView{reader: reader, numRows: numRows}
}

// Headers returns the header row.
func (v *RowsView) Headers() []string {
	return v.reader.Headers()
}

// NumRows returns the requested window height.
func (v *RowsView) NumRows() int {
	return v.numRows
}

// RowsFrom returns the index of the first visible row. In filter mode it is
// an index into the match set, not a raw row index.
func (v *RowsView) RowsFrom() int {
	return v.rowsFrom
}

// ColsFrom returns the index of the first visible column.
func (v *RowsView) ColsFrom() int {
	return v.colsFrom
}

// SetNumRows adjusts the window height, e.g. after a terminal resize.
func (v *RowsView) SetNumRows(n int) {
	if n < 0 || n == v.numRows {
		return
	}
	v.numRows = n
	v.clampRowsFrom()
}

// SetRowsFrom moves the window's first visible row, saturating to valid
// bounds when the total is known.
func (v *RowsView) SetRowsFrom(from int) {
	v.rowsFrom = from
	v.clampRowsFrom()
}

// SetColsFrom moves the window's first visible column, kept within the
// header width.
func (v *RowsView) SetColsFrom(col int) {
	max := len(v.reader.Headers()) - 1
	if col > max {
		col = max
	}
	if col < 0 {
		col = 0
	}
	v.colsFrom = col
}

// InView reports whether a raw row index falls inside the current window.
func (v *RowsView) InView(row int) bool {
	return row >= v.rowsFrom && row < v.rowsFrom+v.numRows
}

// SetFilter switches to filter mode backed by f's match set. Safe to call
// repeatedly as the set grows; rows already shown keep their positions
// because the set is append-only.
func (v *RowsView) SetFilter(f *find.Finder) {
	if v.filter == f {
		return
	}
	v.filter = f
	v.fetched = false
	v.clampRowsFrom()
}

// ResetFilter returns to unfiltered mode. No-op when not filtering.
func (v *RowsView) ResetFilter() {
	if v.filter == nil {
		return
	}
	v.filter = nil
	v.fetched = false
	v.clampRowsFrom()
}

// IsFilter reports whether filter mode is active.
func (v *RowsView) IsFilter() bool {
	return v.filter != nil
}

// Rows returns the current window, re-fetching when the window parameters
// or the filter's match count changed since the last fetch. Fetch latency
// is recorded as a side effect.
func (v *RowsView) Rows() ([]csvdata.Row, error) {
	matches := -1
	if v.filter != nil {
		matches = v.filter.Count()
	}
	if v.fetched && v.fetchedFrom == v.rowsFrom && v.fetchedNum == v.numRows && v.fetchedMatches == matches {
		return v.rows, nil
	}

	start := time.Now()
	rows, err := v.fetch()
	if err != nil {
		return nil, err
	}

	// Scrolling past an end discovered only now (the fetch reached EOF)
	// saturates instead of leaving an empty window.
	if v.filter == nil && len(rows) == 0 && v.rowsFrom > 0 {
		if _, ok := v.reader.ExactTotalRows(); ok {
			v.clampRowsFrom()
			rows, err = v.fetch()
			if err != nil {
				return nil, err
			}
		}
	}

	v.elapsed = time.Since(start)
	v.hasFetch = true
	v.rows = rows
	v.fetched = true
	v.fetchedFrom = v.rowsFrom
	v.fetchedNum = v.numRows
	v.fetchedMatches = matches
	return v.rows, nil
}

func (v *RowsView) fetch() ([]csvdata.Row, error) {
	if v.filter == nil {
		return v.reader.ReadRows(v.rowsFrom, v.numRows)
	}

	indices := v.filter.MatchRowIndices()
	if v.rowsFrom >= len(indices) {
		return nil, nil
	}
	end := v.rowsFrom + v.numRows
	if end > len(indices) {
		end = len(indices)
	}
	rows := make([]csvdata.Row, 0, end-v.rowsFrom)
	for _, raw := range indices[v.rowsFrom:end] {
		row, err := v.reader.ReadRowAt(raw)
		if err != nil {
			return nil, err
		}
		if row != nil {
			rows = append(rows, *row)
		}
	}
	return rows, nil
}

// HandleControl applies scroll commands that need no Finder coordination.
func (v *RowsView) HandleControl(c input.Control) error {
	switch c.Kind {
	case input.ScrollTo:
		v.scrollTo(c.Pos)
	case input.ScrollLeft:
		v.SetColsFrom(v.colsFrom - 1)
	case input.ScrollRight:
		v.SetColsFrom(v.colsFrom + 1)
	}
	return nil
}

func (v *RowsView) scrollTo(pos input.Position) {
	switch pos.Kind {
	case input.PosUp:
		v.SetRowsFrom(v.rowsFrom - 1)
	case input.PosDown:
		v.SetRowsFrom(v.rowsFrom + 1)
	case input.PosPageUp:
		v.SetRowsFrom(v.rowsFrom - v.numRows)
	case input.PosPageDown:
		v.SetRowsFrom(v.rowsFrom + v.numRows)
	case input.PosTop:
		v.SetRowsFrom(0)
	case input.PosBottom:
		v.SetRowsFrom(v.bottomTarget())
	case input.PosRow:
		v.SetRowsFrom(pos.Row)
	}
}

// bottomTarget picks a first-row index that lands the window on the last
// rows. Without an exact total yet, aim past the approximate end; the fetch
// will reach EOF and saturate.
func (v *RowsView) bottomTarget() int {
	if v.filter != nil {
		return v.filter.Count() - v.numRows
	}
	if total, ok := v.reader.ExactTotalRows(); ok {
		return total - v.numRows
	}
	if approx, ok := v.reader.ApproxTotalRows(); ok {
		return approx * 2
	}
	return int(^uint(0) >> 2)
}

func (v *RowsView) clampRowsFrom() {
	if v.rowsFrom < 0 {
		v.rowsFrom = 0
		return
	}
	if v.filter != nil {
		max := v.filter.Count() - v.numRows
		if max < 0 {
			max = 0
		}
		if v.rowsFrom > max {
			v.rowsFrom = max
		}
		return
	}
	if total, ok := v.reader.ExactTotalRows(); ok {
		max := total - v.numRows
		if max < 0 {
			max = 0
		}
		if v.rowsFrom > max {
			v.rowsFrom = max
		}
	}
}

// TotalLineNumbers returns the exact row total once known.
func (v *RowsView) TotalLineNumbers() (int, bool) {
	return v.reader.ExactTotalRows()
}

// TotalLineNumbersApprox returns the best-effort row total estimate.
func (v *RowsView) TotalLineNumbersApprox() (int, bool) {
	return v.reader.ApproxTotalRows()
}

// Elapsed returns the latency of the last window fetch.
func (v *RowsView) Elapsed() (time.Duration, bool) {
	return v.elapsed, v.hasFetch
}

// SetSelected marks a raw row as highlighted.
func (v *RowsView) SetSelected(row int) {
	v.selected = row
	v.hasSelected = true
}

// ClearSelected removes the highlight.
func (v *RowsView) ClearSelected() {
	v.hasSelected = false
}

// Selected returns the highlighted raw row index, if any. The widget
// tolerates a selection outside the visible rows.
func (v *RowsView) Selected() (int, bool) {
	return v.selected, v.hasSelected
}
