package stream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Faultbox/urdf-viewer/internal/timeutil"
)

// LineSource reads one frame per line of "key=value" pairs separated by
// spaces or commas. Blank lines and lines starting with # are skipped.
// Frame times are measured from the first call to Next.
type LineSource struct {
	scanner *bufio.Scanner
	clock   timeutil.Clock
	lines   chan scanResult
	once    sync.Once
	line    int
	start   time.Time
	started bool
}

type scanResult struct {
	text string
	err  error
}

// NewLineSource reads frames from r. A nil clock uses the real clock.
func NewLineSource(r io.Reader, clock timeutil.Clock) *LineSource {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &LineSource{scanner: bufio.NewScanner(r), clock: clock, lines: make(chan scanResult)}
}

// scan feeds lines to Next until the reader ends. It stays blocked on an
// idle reader after Next has given up on a cancelled context.
func (s *LineSource) scan() {
	defer close(s.lines)
	for s.scanner.Scan() {
		s.lines <- scanResult{text: s.scanner.Text()}
	}
	if err := s.scanner.Err(); err != nil {
		s.lines <- scanResult{err: err}
	}
}

// Next waits for the next non-empty line or for ctx to be done.
func (s *LineSource) Next(ctx context.Context) (Frame, error) {
	s.once.Do(func() { go s.scan() })
	if !s.started {
		s.start = s.clock.Now()
		s.started = true
	}
	for {
		var (
			res scanResult
			ok  bool
		)
		select {
		case <-ctx.Done():
			return Frame{}, ctx.Err()
		case res, ok = <-s.lines:
		}
		if !ok {
			return Frame{}, io.EOF
		}
		if res.err != nil {
			return Frame{}, res.err
		}
		s.line++
		text := strings.TrimSpace(res.text)
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		values, err := ParseAssignments(text)
		if err != nil {
			return Frame{}, fmt.Errorf("line %d: %w", s.line, err)
		}
		return Frame{Time: s.clock.Since(s.start), Values: values}, nil
	}
}

// ParseAssignments parses "a=1 b=2" or "a=1,b=2".
func ParseAssignments(s string) (map[string]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	values := make(map[string]float64, len(fields))
	for _, f := range fields {
		key, raw, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q (want key=value)", f)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid value %q", key, raw)
		}
		values[key] = v
	}
	return values, nil
}
