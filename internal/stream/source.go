// Package stream feeds externally produced joint values into a robot.
package stream

import (
	"context"
	"time"
)

// Frame is one set of values read at the same instant. Keys are external
// variable paths, or joint names when no bindings are configured.
type Frame struct {
	Time   time.Duration
	Values map[string]float64
}

// Source produces frames. Next blocks until a frame is due and returns
// io.EOF when the source is exhausted.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}
