package find

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/clens/internal/csvdata"
)

// Mode selects what the UI does with matches.
type Mode int

const (
	// ModeFind highlights matches and jumps the viewport to them.
	ModeFind Mode = iota
	// ModeFilter restricts the view to matching rows.
	ModeFilter
)

// FoundRecord is the immutable location of one match: a row and the first
// column within it containing the pattern.
type FoundRecord struct {
	RowIndex int
	Column   int
}

const scanBatch = 1000

// Finder scans a whole file for a pattern on its own goroutine, appending
// matches in row order as they are found. It is usable immediately: every
// query operates only on matches already committed and returns without
// blocking on the scan. There is no cancellation; a Finder that is replaced
// simply has its remaining work ignored.
type Finder struct {
	reader  *csvdata.Reader
	pattern string
	mode    Mode
	started time.Time

	mu      sync.Mutex
	matches []FoundRecord
	cursor  int // index into matches, -1 when unset
	rowHint int
	done    bool
	elapsed time.Duration
}

// New begins a background scan of reader's whole file for pattern,
// independent of the current viewport. Matching is per-field substring
// containment, case-sensitive.
func New(reader *csvdata.Reader, pattern string, mode Mode) *Finder {
	f := &Finder{
		reader:  reader,
		pattern: pattern,
		mode:    mode,
		cursor:  -1,
		started: time.Now(),
	}
	go f.scan()
	return f
}

func (f *Finder) scan() {
	pos := 0
	for {
		rows, err := f.reader.ReadRows(pos, scanBatch)
		if err != nil {
			// Best effort: individual malformed rows are already tolerated
			// by the reader, so give up only on a hard I/O failure.
			break
		}
		for _, row := range rows {
			for col, field := range row.Fields {
				if strings.Contains(field, f.pattern) {
					f.append(FoundRecord{RowIndex: row.Index, Column: col})
					break
				}
			}
		}
		if len(rows) < scanBatch {
			break
		}
		pos += len(rows)
	}

	f.mu.Lock()
	f.done = true
	f.elapsed = time.Since(f.started)
	f.mu.Unlock()
}

func (f *Finder) append(rec FoundRecord) {
	f.mu.Lock()
	f.matches = append(f.matches, rec)
	f.mu.Unlock()
}

// Pattern returns the search pattern.
func (f *Finder) Pattern() string {
	return f.pattern
}

// Mode returns whether this is a find or a filter.
func (f *Finder) Mode() Mode {
	return f.mode
}

// Count returns the number of matches found so far. Monotonically
// non-decreasing until the scan completes.
func (f *Finder) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

// Done reports whether the scan has exhausted the file.
func (f *Finder) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Elapsed returns the scan duration so far, or the final duration once the
// scan completed.
func (f *Finder) Elapsed() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.done {
		return f.elapsed
	}
	return time.Since(f.started)
}

// SetRowHint records the row the UI currently treats as its viewport
// center. It only biases where an unset cursor anchors on the next
// navigation.
func (f *Finder) SetRowHint(row int) {
	f.mu.Lock()
	f.rowHint = row
	f.mu.Unlock()
}

// ResetCursor clears the cursor without discarding matches, so subsequent
// navigation re-anchors from the row hint.
func (f *Finder) ResetCursor() {
	f.mu.Lock()
	f.cursor = -1
	f.mu.Unlock()
}

// CursorRowIndex returns the row index of the record under the cursor.
func (f *Finder) CursorRowIndex() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cursor < 0 || f.cursor >= len(f.matches) {
		return 0, false
	}
	return f.matches[f.cursor].RowIndex, true
}

// Next advances the cursor to the next match, wrapping to the first at the
// end. With no cursor it anchors at the nearest match at or after the row
// hint. Returns false while no matches exist.
func (f *Finder) Next() (FoundRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.matches) == 0 {
		return FoundRecord{}, false
	}
	if f.cursor < 0 {
		f.cursor = f.hintIndex()
	} else {
		f.cursor = (f.cursor + 1) % len(f.matches)
	}
	return f.matches[f.cursor], true
}

// Prev moves the cursor to the previous match, wrapping to the last at the
// start. With no cursor it anchors at the nearest match before the row
// hint.
func (f *Finder) Prev() (FoundRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.matches) == 0 {
		return FoundRecord{}, false
	}
	if f.cursor < 0 {
		f.cursor = f.hintIndex() - 1
	} else {
		f.cursor--
	}
	if f.cursor < 0 {
		f.cursor = len(f.matches) - 1
	}
	return f.matches[f.cursor], true
}

// MatchRowIndices returns a snapshot of the matched row indices in
// ascending order. Indices already handed out stay valid as the match set
// grows, since matches are append-only.
func (f *Finder) MatchRowIndices() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	rows := make([]int, len(f.matches))
	for i, m := range f.matches {
		rows[i] = m.RowIndex
	}
	return rows
}

// hintIndex returns the index of the first match at or after the row hint,
// wrapping to 0. Caller holds mu.
func (f *Finder) hintIndex() int {
	i := sort.Search(len(f.matches), func(i int) bool {
		return f.matches[i].RowIndex >= f.rowHint
	})
	if i == len(f.matches) {
		return 0
	}
	return i
}
