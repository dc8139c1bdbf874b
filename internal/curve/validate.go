package curve

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrTooFewPoints = errors.New("curve needs at least two points")
	ErrOutOfRange   = errors.New("coordinate outside [0, 1]")
	ErrNotFinite    = errors.New("coordinate is not a finite number")
	ErrDuplicateX   = errors.New("two points share the same time")
	ErrUnsorted     = errors.New("points are not sorted by time")
	ErrHalfHandle   = errors.New("handle needs both coordinates")
)

// Validate checks a point sequence before it is stored.
//
// Evaluation tolerates everything Validate rejects; this is the boundary
// where zero-width segments and stray coordinates are refused.
func Validate(points []ControlPoint) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}
	for i, p := range points {
		if err := checkUnit(p.X, p.Y); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		if (p.HandleX == nil) != (p.HandleY == nil) {
			return fmt.Errorf("point %d: %w", i, ErrHalfHandle)
		}
		if h, ok := p.Handle(); ok {
			if err := checkUnit(h.X, h.Y); err != nil {
				return fmt.Errorf("point %d handle: %w", i, err)
			}
		}
		if i == 0 {
			continue
		}
		prev := points[i-1]
		switch {
		case p.X == prev.X:
			return fmt.Errorf("point %d: %w (x=%g)", i, ErrDuplicateX, p.X)
		case p.X < prev.X:
			return fmt.Errorf("point %d: %w", i, ErrUnsorted)
		}
	}
	return nil
}

func checkUnit(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNotFinite
		}
		if v < 0 || v > 1 {
			return ErrOutOfRange
		}
	}
	return nil
}

// Default returns the quick-ramp shape new profiles start from: a fast
// rise to full output by 30% of the run, then a hold.
func Default() []ControlPoint {
	return []ControlPoint{
		CP(0, 0, Linear),
		CP(0.3, 1, Quadratic).WithHandle(0.1, 0.8),
		CP(1, 1, Linear),
	}
}

// Clone returns a deep copy of points.
func Clone(points []ControlPoint) []ControlPoint {
	if points == nil {
		return nil
	}
	out := make([]ControlPoint, len(points))
	for i, p := range points {
		out[i] = p
		if p.HandleX != nil {
			x := *p.HandleX
			out[i].HandleX = &x
		}
		if p.HandleY != nil {
			y := *p.HandleY
			out[i].HandleY = &y
		}
	}
	return out
}
