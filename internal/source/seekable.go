package source

import (
	"fmt"
	"io"
	"os"
)

// Source normalizes an input file into one that supports byte-offset
// seeking. If the input is not seekable (e.g. process substitution handing
// us a pipe), the remaining content is materialized into a temporary file,
// which this Source owns exclusively and removes on Close.
type Source struct {
	path string
	temp *os.File // non-nil only when the input had to be materialized
}

// Open opens path and probes it with a zero-offset seek. On probe failure
// the content is copied to a fresh temp file, which becomes the effective
// source.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		return &Source{path: path}, nil
	}

	temp, err := os.CreateTemp("", "clens-*.csv")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp copy: %w", err)
	}
	if _, err := io.Copy(temp, f); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return nil, fmt.Errorf("failed to materialize %s: %w", path, err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		os.Remove(temp.Name())
		return nil, fmt.Errorf("failed to materialize %s: %w", path, err)
	}

	return &Source{path: path, temp: temp}, nil
}

// EffectivePath returns the path to read from: the temp copy when one was
// made, the original path otherwise.
func (s *Source) EffectivePath() string {
	if s.temp != nil {
		return s.temp.Name()
	}
	return s.path
}

// IsMaterialized reports whether the input was copied to a temp file.
func (s *Source) IsMaterialized() bool {
	return s.temp != nil
}

// Close removes the temp copy, if any.
func (s *Source) Close() error {
	if s.temp == nil {
		return nil
	}
	s.temp.Close()
	return os.Remove(s.temp.Name())
}
