package curve

import (
	"iter"
	"math"
	"slices"
	"time"
)

// DefaultDensity is the number of path samples per unit of normalized time.
const DefaultDensity = 100

// Path lazily tessellates the curve into a polyline in normalized space.
//
// Each segment contributes ceil(density × width) steps (at least one). The
// first sample of every segment after the first is skipped so shared
// vertices appear once. Fewer than two points yield nothing.
func Path(points []ControlPoint, density float64) iter.Seq[Point] {
	if density <= 0 {
		density = DefaultDensity
	}
	return func(yield func(Point) bool) {
		for i, seg := range Segments(points) {
			steps := segmentSteps(density, seg.Width())
			for j := 0; j <= steps; j++ {
				if j == 0 && i > 0 {
					continue
				}
				if !yield(seg.Eval(float64(j) / float64(steps))) {
					return
				}
			}
		}
	}
}

// SamplePath returns the tessellated polyline as a slice.
func SamplePath(points []ControlPoint, density float64) []Point {
	out := slices.Collect(Path(points, density))
	if out == nil {
		return []Point{}
	}
	return out
}

func segmentSteps(density, width float64) int {
	n := int(math.Ceil(density * width))
	if n < 1 {
		return 1
	}
	return n
}

// ValueAt evaluates the curve at a normalized time and rescales the result
// to [minTemp, maxTemp].
//
// Times before the first point or after the last are clamped to those
// points. With fewer than two points the curve is flat at minTemp.
func ValueAt(points []ControlPoint, normalizedTime, minTemp, maxTemp float64) float64 {
	if len(points) < 2 {
		return minTemp
	}
	return Rescale(NormalizedValueAt(points, normalizedTime), minTemp, maxTemp)
}

// NormalizedValueAt is ValueAt without the rescale step.
func NormalizedValueAt(points []ControlPoint, normalizedTime float64) float64 {
	if len(points) < 2 {
		return 0
	}
	first, last := points[0], points[len(points)-1]
	if normalizedTime <= first.X {
		return first.Y
	}
	if normalizedTime >= last.X {
		return last.Y
	}
	for i := 1; i < len(points); i++ {
		start, end := points[i-1], points[i]
		if start.X <= normalizedTime && normalizedTime <= end.X {
			seg := NewSegment(start, end)
			return seg.Eval(seg.Progress(normalizedTime)).Y
		}
	}
	// Only reachable with unsorted input.
	return last.Y
}

// Rescale maps a normalized value affinely onto [minTemp, maxTemp].
func Rescale(y, minTemp, maxTemp float64) float64 {
	return minTemp + y*(maxTemp-minTemp)
}

// NormalizedTime converts elapsed wall time into curve time. A non-positive
// total reports the run as finished.
func NormalizedTime(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	return elapsed.Seconds() / total.Seconds()
}
