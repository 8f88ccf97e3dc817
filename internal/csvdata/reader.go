package csvdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sync"

	clensio "github.com/user/clens/internal/io"
	"github.com/user/clens/pkg/delim"
)

// Reader provides windowed, random-access reads over a delimited file
// without keeping the file in memory. Every read is self-seeking: it
// derives a start offset from the shared row-offset index and parses
// through its own csv.Reader, so two goroutines (the view and a background
// scan) can read concurrently. The offset index is the only shared mutable
// state and is guarded by mu; parsing happens outside the lock.
type Reader struct {
	file      *clensio.MappedFile
	comma     byte
	headers   []string
	headerEnd int64

	mu      sync.Mutex
	offsets []int64 // offsets[i] = byte offset of data row i; append-only
	eof     bool
	total   int // valid once eof is set; never changes afterwards
}

// Open opens path and parses the first record as headers. A zero comma
// selects the default delimiter.
func Open(path string, comma byte) (*Reader, error) {
	if comma == 0 {
		comma = delim.Default
	}
	if err := delim.Validate(comma); err != nil {
		return nil, err
	}

	file, err := clensio.OpenMapped(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	r := &Reader{file: file, comma: comma}
	cr := r.parserAt(0)
	headers, err := cr.Read()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to read headers from %s: %w", path, err)
	}
	r.headers = append([]string(nil), headers...)
	r.headerEnd = cr.InputOffset()
	r.offsets = []int64{r.headerEnd}

	return r, nil
}

// Headers returns the header row parsed at construction.
func (r *Reader) Headers() []string {
	return r.headers
}

// Comma returns the configured field delimiter.
func (r *Reader) Comma() byte {
	return r.comma
}

// Path returns the path being read.
func (r *Reader) Path() string {
	return r.file.Path()
}

// ReadRows parses up to count rows starting at row index from, extending
// the shared offset index along the way. Fewer rows than requested means
// end of file was reached; that is not an error. A record that fails to
// parse is kept with whatever fields were recovered rather than aborting
// the window.
func (r *Reader) ReadRows(from, count int) ([]Row, error) {
	if from < 0 || count <= 0 {
		return nil, nil
	}

	idx, base, done := r.startingPoint(from)
	if done {
		return nil, nil
	}

	rows := make([]Row, 0, count)
	cr := r.parserAt(base)
	off := base
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			r.markEOF(idx)
			break
		}
		var parseErr *csv.ParseError
		if err != nil && !errors.As(err, &parseErr) {
			return rows, fmt.Errorf("failed to read row %d: %w", idx, err)
		}
		next := base + cr.InputOffset()
		r.noteOffset(idx+1, next)
		if idx >= from {
			rows = append(rows, Row{Index: idx, Fields: fields, Offset: off, End: next})
			if len(rows) == count {
				break
			}
		}
		idx++
		off = next
	}
	return rows, nil
}

// ReadRowAt fetches a single row by index. Returns nil past end of file.
func (r *Reader) ReadRowAt(index int) (*Row, error) {
	rows, err := r.ReadRows(index, 1)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ApproxTotalRows extrapolates a total from the bytes consumed per row seen
// so far. Available before any full scan completes.
func (r *Reader) ApproxTotalRows() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.eof {
		return r.total, true
	}
	known := len(r.offsets) - 1
	if known <= 0 {
		return 0, false
	}
	span := r.offsets[known] - r.headerEnd
	if span <= 0 {
		return 0, false
	}
	avg := float64(span) / float64(known)
	return int(float64(r.file.Size()-r.headerEnd) / avg), true
}

// ExactTotalRows is available only once some consumer has parsed to end of
// file. Once available it never changes.
func (r *Reader) ExactTotalRows() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total, r.eof
}

// Close closes the underlying mapping.
func (r *Reader) Close() error {
	return r.file.Close()
}

// parserAt builds a fresh parser over the bytes from off onward. Lenient
// settings: ragged records and stray quotes are tolerated so one bad row
// cannot fail a whole read.
func (r *Reader) parserAt(off int64) *csv.Reader {
	cr := csv.NewReader(r.file.SectionFrom(off))
	cr.Comma = rune(r.comma)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// startingPoint returns the nearest known row at or before from, and
// whether from is already past a known end of file.
func (r *Reader) startingPoint(from int) (int, int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.eof && from >= r.total {
		return 0, 0, true
	}
	idx := from
	if idx > len(r.offsets)-1 {
		idx = len(r.offsets) - 1
	}
	return idx, r.offsets[idx], false
}

// noteOffset records the start offset of row index, extending the
// append-only index. Concurrent readers may race to extend; only the first
// append for an index wins, and both compute the same value.
func (r *Reader) noteOffset(index int, off int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index == len(r.offsets) {
		r.offsets = append(r.offsets, off)
	}
}

// markEOF records the exact row total the first time end of file is
// reached. Later calls are no-ops so the total never changes.
func (r *Reader) markEOF(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.eof {
		r.eof = true
		r.total = total
	}
}
