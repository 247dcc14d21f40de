package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Box is a node handed to an engine, sized in pixels.
type Box struct {
	ID     string
	Width  float64
	Height float64
}

// Edge is a directed link the engine should rank from From down to To.
type Edge struct {
	From string
	To   string
}

// Point is a node centerpoint in pixels, y growing downward.
type Point struct {
	X float64
	Y float64
}

// Engine computes centerpoints for boxes. Implementations may fail or
// return partial results; use [Call] to get a checked result.
type Engine interface {
	Layout(ctx context.Context, boxes []Box, edges []Edge) (map[string]Point, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, boxes []Box, edges []Edge) (map[string]Point, error)

// Layout calls f.
func (f EngineFunc) Layout(ctx context.Context, boxes []Box, edges []Edge) (map[string]Point, error) {
	return f(ctx, boxes, edges)
}

// Call runs e and converts every way it can fail into an
// errors.ErrCodeLayoutFailure error: a returned error, a panic, a missing
// box, or a non-finite coordinate.
func Call(ctx context.Context, e Engine, boxes []Box, edges []Edge) (pos map[string]Point, err error) {
	defer func() {
		if r := recover(); r != nil {
			pos = nil
			err = errors.New(errors.ErrCodeLayoutFailure, "engine panic: %v", r)
		}
	}()

	pos, err = e.Layout(ctx, boxes, edges)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailure, err, "engine failed")
	}
	if missing := Missing(boxes, pos); len(missing) > 0 {
		return nil, errors.New(errors.ErrCodeLayoutFailure, "incomplete result: %d of %d boxes unplaced (first %q)",
			len(missing), len(boxes), missing[0])
	}
	return pos, nil
}

// Missing returns the ids of boxes without a finite position in pos.
func Missing(boxes []Box, pos map[string]Point) []string {
	var out []string
	for _, b := range boxes {
		p, ok := pos[b.ID]
		if !ok || !finite(p.X) || !finite(p.Y) {
			out = append(out, b.ID)
		}
	}
	return out
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// TopLeft converts a centerpoint to the top-left origin of a box.
func TopLeft(center Point, b Box) Point {
	return Point{X: center.X - b.Width/2, Y: center.Y - b.Height/2}
}

// String implements fmt.Stringer for log output.
func (p Point) String() string { return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y) }
