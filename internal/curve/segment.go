package curve

// Fractions used when a handle has to be inferred.
const (
	quadHandleFraction  = 1.0 / 2.0
	cubicHandleFraction = 1.0 / 3.0
)

// Segment is a resolved piece of a curve between two consecutive control
// points. Handles are always filled in, so evaluating a Segment never has to
// look at its neighbours again.
type Segment struct {
	Basis Basis
	P0    Point
	H0    Point
	H1    Point
	P1    Point
}

// NewSegment resolves the segment start→end. The basis and the explicit
// handle are taken from end.
//
// Quadratic: the handle is end's handle, or the midpoint of the chord.
// Cubic: H0 is one third along the chord; H1 is end's handle, or two thirds
// along the chord.
func NewSegment(start, end ControlPoint) Segment {
	p0, p1 := start.Pos(), end.Pos()
	s := Segment{Basis: end.Basis.resolve(), P0: p0, P1: p1}

	switch s.Basis {
	case Quadratic:
		h, ok := end.Handle()
		if !ok {
			h = p0.Lerp(p1, quadHandleFraction)
		}
		s.H0, s.H1 = h, h
	case Cubic:
		s.H0 = p0.Lerp(p1, cubicHandleFraction)
		h, ok := end.Handle()
		if !ok {
			h = p1.Lerp(p0, cubicHandleFraction)
		}
		s.H1 = h
	default:
		s.H0, s.H1 = p0, p1
	}
	return s
}

// Width is the segment's extent along the time axis.
func (s Segment) Width() float64 {
	return s.P1.X - s.P0.X
}

// Progress maps a normalized time inside the segment to its parameter t.
// A zero-width segment always yields 0, so a vertical step reports the value
// it is entered with.
func (s Segment) Progress(x float64) float64 {
	w := s.Width()
	if w <= 0 {
		return 0
	}
	return (x - s.P0.X) / w
}

// Eval evaluates the segment at parameter t. t is not clamped.
func (s Segment) Eval(t float64) Point {
	switch s.Basis {
	case Quadratic:
		return QuadraticAt(t, s.P0, s.H0, s.P1)
	case Cubic:
		return CubicAt(t, s.P0, s.H0, s.H1, s.P1)
	default:
		return LinearAt(t, s.P0, s.P1)
	}
}

// Segments resolves every consecutive pair of points.
func Segments(points []ControlPoint) []Segment {
	if len(points) < 2 {
		return nil
	}
	out := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		out = append(out, NewSegment(points[i-1], points[i]))
	}
	return out
}
