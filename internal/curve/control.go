package curve

import (
	"encoding/json"
	"strings"
)

// Basis selects the interpolation formula of a curve segment.
type Basis string

const (
	Linear    Basis = "linear"
	Quadratic Basis = "quadratic"
	Cubic     Basis = "cubic"
)

// ParseBasis maps a tag to a Basis. Unknown and empty tags are linear.
func ParseBasis(s string) Basis {
	switch Basis(strings.ToLower(strings.TrimSpace(s))) {
	case Quadratic:
		return Quadratic
	case Cubic:
		return Cubic
	default:
		return Linear
	}
}

func (b Basis) String() string {
	return string(b.resolve())
}

func (b Basis) resolve() Basis {
	return ParseBasis(string(b))
}

func (b *Basis) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Non-string tags are treated like a missing tag.
		*b = Linear
		return nil
	}
	*b = ParseBasis(s)
	return nil
}

// ControlPoint is one user-placed vertex of a curve.
//
// Basis and the handle describe the segment that ends at this point; they are
// ignored on the first point of a sequence. A nil handle coordinate means the
// handle is inferred from the neighbouring points.
type ControlPoint struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Basis   Basis    `json:"basis,omitempty" enums:"linear,quadratic,cubic"`
	HandleX *float64 `json:"handleX,omitempty"`
	HandleY *float64 `json:"handleY,omitempty"`
}

// CP returns a control point at (x, y) with the given basis and no handle.
func CP(x, y float64, basis Basis) ControlPoint {
	return ControlPoint{X: x, Y: y, Basis: basis}
}

// WithHandle returns a copy of p with an explicit handle.
func (p ControlPoint) WithHandle(hx, hy float64) ControlPoint {
	p.HandleX = &hx
	p.HandleY = &hy
	return p
}

// Pos returns the point's own position.
func (p ControlPoint) Pos() Point {
	return Point{X: p.X, Y: p.Y}
}

// Handle returns the explicit handle, if both coordinates are set.
func (p ControlPoint) Handle() (Point, bool) {
	if p.HandleX == nil || p.HandleY == nil {
		return Point{}, false
	}
	return Point{X: *p.HandleX, Y: *p.HandleY}, true
}
