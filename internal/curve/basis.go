package curve

// LinearAt evaluates the straight segment p0→p1 at t.
func LinearAt(t float64, p0, p1 Point) Point {
	return p0.Add(p1.Sub(p0).Mul(t))
}

// QuadraticAt evaluates the quadratic Bézier (p0, h, p1) at t.
func QuadraticAt(t float64, p0, h, p1 Point) Point {
	mt := 1 - t
	return p0.Mul(mt * mt).
		Add(h.Mul(2 * mt * t)).
		Add(p1.Mul(t * t))
}

// CubicAt evaluates the cubic Bézier (p0, h0, h1, p1) at t using its
// polynomial coefficients.
func CubicAt(t float64, p0, h0, h1, p1 Point) Point {
	c := h0.Sub(p0).Mul(3)
	b := h1.Sub(h0).Mul(3).Sub(c)
	a := p1.Sub(p0).Sub(c).Sub(b)
	return a.Mul(t * t * t).
		Add(b.Mul(t * t)).
		Add(c.Mul(t)).
		Add(p0)
}
