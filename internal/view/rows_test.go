package view

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/clens/internal/csvdata"
	"github.com/user/clens/internal/find"
	"github.com/user/clens/internal/input"
)

func openReader(t *testing.T, numRows int, needleRows map[int]bool) *csvdata.Reader {
	t.Helper()
	var b strings.Builder
	b.WriteString("a,b,c\n")
	for i := 0; i < numRows; i++ {
		cell := fmt.Sprintf("plain-%d", i)
		if needleRows[i] {
			cell = fmt.Sprintf("needle-%d", i)
		}
		fmt.Fprintf(&b, "r%d,%s,x\n", i, cell)
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	r, err := csvdata.Open(path, 0)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func rowIndices(rows []csvdata.Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}

func TestWindowBounds(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)
	v.SetRowsFrom(20)

	rows, err := v.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 10)
	for i, row := range rows {
		assert.Equal(t, 20+i, row.Index)
		assert.True(t, v.InView(row.Index))
	}
	assert.False(t, v.InView(19))
	assert.False(t, v.InView(30))
}

func TestSetRowsFromIdempotent(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)

	v.SetRowsFrom(37)
	first, err := v.Rows()
	require.NoError(t, err)

	v.SetRowsFrom(37)
	second, err := v.Rows()
	require.NoError(t, err)

	assert.Equal(t, rowIndices(first), rowIndices(second))
}

func TestWindowPastEndReturnsPartial(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)
	v.SetRowsFrom(95)

	rows, err := v.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, 95, rows[0].Index)
	assert.Equal(t, 99, rows[4].Index)
}

func TestScrollSaturatesOnceTotalKnown(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)

	// Far past the end: the fetch discovers EOF and the window saturates.
	v.SetRowsFrom(5000)
	rows, err := v.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 10)
	assert.Equal(t, 90, rows[0].Index)
	assert.Equal(t, 90, v.RowsFrom())

	// With the total now exact, offsets clamp at set time.
	v.SetRowsFrom(95)
	assert.Equal(t, 90, v.RowsFrom())

	v.SetRowsFrom(-5)
	assert.Equal(t, 0, v.RowsFrom())
}

func TestHandleControlScrolling(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosDown}}))
	assert.Equal(t, 1, v.RowsFrom())

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosPageDown}}))
	assert.Equal(t, 11, v.RowsFrom())

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosUp}}))
	assert.Equal(t, 10, v.RowsFrom())

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosTop}}))
	assert.Equal(t, 0, v.RowsFrom())

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosRow, Row: 42}}))
	assert.Equal(t, 42, v.RowsFrom())

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollTo, Pos: input.Position{Kind: input.PosBottom}}))
	rows, err := v.Rows()
	require.NoError(t, err)
	assert.Equal(t, 90, v.RowsFrom())
	assert.Len(t, rows, 10)
}

func TestColumnOffsetClamped(t *testing.T) {
	v := New(openReader(t, 10, nil), 5)

	require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollLeft}))
	assert.Equal(t, 0, v.ColsFrom())

	for i := 0; i < 10; i++ {
		require.NoError(t, v.HandleControl(input.Control{Kind: input.ScrollRight}))
	}
	assert.Equal(t, 2, v.ColsFrom())
}

func TestFilterTranslation(t *testing.T) {
	r := openReader(t, 20, map[int]bool{2: true, 5: true, 9: true})
	f := find.New(r, "needle", find.ModeFilter)
	require.Eventually(t, f.Done, 5*time.Second, 5*time.Millisecond)

	v := New(r, 2)
	v.SetRowsFrom(0)
	v.SetFilter(f)
	assert.True(t, v.IsFilter())

	rows, err := v.Rows()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5}, rowIndices(rows))

	// rows_from is a match index in filter mode: match 1 is raw row 5.
	v.SetRowsFrom(1)
	rows, err = v.Rows()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, 5, rows[0].Index)

	v.ResetFilter()
	assert.False(t, v.IsFilter())
	v.SetRowsFrom(0)
	rows, err = v.Rows()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rowIndices(rows))
}

func TestFilterOffsetsClampToMatchCount(t *testing.T) {
	r := openReader(t, 20, map[int]bool{2: true, 5: true, 9: true})
	f := find.New(r, "needle", find.ModeFilter)
	require.Eventually(t, f.Done, 5*time.Second, 5*time.Millisecond)

	v := New(r, 2)
	v.SetFilter(f)
	v.SetRowsFrom(50)
	assert.Equal(t, 1, v.RowsFrom())

	rows, err := v.Rows()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 9}, rowIndices(rows))
}

func TestElapsedRecordedAfterFetch(t *testing.T) {
	v := New(openReader(t, 10, nil), 5)

	_, ok := v.Elapsed()
	assert.False(t, ok)

	_, err := v.Rows()
	require.NoError(t, err)
	_, ok = v.Elapsed()
	assert.True(t, ok)
}

func TestSelected(t *testing.T) {
	v := New(openReader(t, 10, nil), 5)

	_, ok := v.Selected()
	assert.False(t, ok)

	v.SetSelected(7)
	sel, ok := v.Selected()
	require.True(t, ok)
	assert.Equal(t, 7, sel)

	v.ClearSelected()
	_, ok = v.Selected()
	assert.False(t, ok)
}

func TestSetNumRowsRefetches(t *testing.T) {
	v := New(openReader(t, 100, nil), 10)
	rows, err := v.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 10)

	v.SetNumRows(4)
	rows, err = v.Rows()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
