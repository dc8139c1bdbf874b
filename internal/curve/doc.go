// Package curve implements piecewise parametric heating curves.
//
// A curve is an ordered sequence of control points in normalized
// (time, value) space. Each segment is linear, a quadratic Bézier or a cubic
// Bézier; the basis and optional handle live on the segment's end point.
// Missing handles are inferred: the chord midpoint for quadratics and the
// chord thirds for cubics.
//
// All functions are pure and never modify their input, so a curve may be
// evaluated from any number of goroutines.
package curve
