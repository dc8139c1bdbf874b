package curve

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func mixedCurve() []ControlPoint {
	return []ControlPoint{
		CP(0, 0.1, Linear),
		CP(0.2, 0.6, Quadratic),
		CP(0.45, 0.9, Cubic).WithHandle(0.4, 1),
		CP(0.7, 0.4, Quadratic).WithHandle(0.5, 0.2),
		CP(0.85, 0.5, Cubic),
		CP(1, 0.2, Linear),
	}
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name   string
		points []ControlPoint
		at     float64
		want   float64
	}{
		{"linear midpoint", []ControlPoint{CP(0, 0, Linear), CP(1, 1, Linear)}, 0.5, 50},
		{"cubic symmetric midpoint", []ControlPoint{CP(0, 0, Cubic), CP(1, 1, Cubic)}, 0.5, 50},
		{"quick ramp vertex", Default(), 0.3, 100},
		{"quick ramp end", Default(), 1.0, 100},
		{
			"quick ramp vertex linear",
			[]ControlPoint{CP(0, 0, ""), CP(0.3, 1, "").WithHandle(0.1, 0.8), CP(1, 1, "")},
			0.3, 100,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ValueAt(tc.points, tc.at, 0, 100)
			if diff := cmp.Diff(tc.want, got, approx); diff != "" {
				t.Errorf("ValueAt(%g) mismatch (-want +got):\n%s", tc.at, diff)
			}
		})
	}
}

func TestValueAtHitsEveryControlPoint(t *testing.T) {
	points := mixedCurve()
	for i, p := range points {
		got := ValueAt(points, p.X, 20, 220)
		want := 20 + p.Y*200
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("point %d at x=%g (-want +got):\n%s", i, p.X, diff)
		}
	}
}

func TestSegmentsShareEndpoints(t *testing.T) {
	segs := Segments(mixedCurve())
	for i := 1; i < len(segs); i++ {
		left := segs[i-1].Eval(1)
		right := segs[i].Eval(0)
		if diff := cmp.Diff(left, right, approx); diff != "" {
			t.Errorf("segments %d/%d disagree at shared vertex (-left +right):\n%s", i-1, i, diff)
		}
	}
}

func TestValueAtClampsOutsideRange(t *testing.T) {
	for _, points := range [][]ControlPoint{mixedCurve(), Default()} {
		if got, want := ValueAt(points, -1, 0, 100), ValueAt(points, 0, 0, 100); got != want {
			t.Errorf("before start: got %g, want %g", got, want)
		}
		if got, want := ValueAt(points, 2, 0, 100), ValueAt(points, 1, 0, 100); got != want {
			t.Errorf("after end: got %g, want %g", got, want)
		}
	}

	// Curves that do not span the whole unit interval clamp to their own ends.
	short := []ControlPoint{CP(0.2, 0.3, Linear), CP(0.6, 0.7, Linear)}
	if got := ValueAt(short, 0.1, 0, 10); math.Abs(got-3) > 1e-9 {
		t.Errorf("got %g, want 3", got)
	}
	if got := ValueAt(short, 0.9, 0, 10); math.Abs(got-7) > 1e-9 {
		t.Errorf("got %g, want 7", got)
	}
}

func TestValueAtIsAffineInRange(t *testing.T) {
	points := mixedCurve()
	for _, x := range []float64{0.05, 0.33, 0.5, 0.71, 0.93} {
		base := ValueAt(points, x, 0, 1)
		got := ValueAt(points, x, 100, 500)
		want := 100 + base*400
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("x=%g (-want +got):\n%s", x, diff)
		}
	}
}

func TestValueAtLinearStaysWithinSegment(t *testing.T) {
	points := []ControlPoint{
		CP(0, 0.2, Linear),
		CP(0.25, 0.8, Linear),
		CP(0.6, 0.5, Linear),
		CP(1, 0.9, Linear),
	}
	for i := 0; i <= 100; i++ {
		x := float64(i) / 100
		seg := -1
		for j := 1; j < len(points); j++ {
			if points[j-1].X <= x && x <= points[j].X {
				seg = j
				break
			}
		}
		if seg < 0 {
			t.Fatalf("x=%g matched no segment", x)
		}
		lo := math.Min(points[seg-1].Y, points[seg].Y)
		hi := math.Max(points[seg-1].Y, points[seg].Y)
		got := NormalizedValueAt(points, x)
		if got < lo-1e-12 || got > hi+1e-12 {
			t.Errorf("x=%g: value %g outside segment bounds [%g, %g]", x, got, lo, hi)
		}
	}
}

func TestValueAtDegenerate(t *testing.T) {
	if got := ValueAt(nil, 0.5, 15, 100); got != 15 {
		t.Errorf("empty: got %g, want 15", got)
	}
	if got := ValueAt([]ControlPoint{CP(0.5, 0.9, Linear)}, 0.5, 15, 100); got != 15 {
		t.Errorf("single point: got %g, want 15", got)
	}
}

func TestValueAtZeroWidthSegmentIsStep(t *testing.T) {
	points := []ControlPoint{
		CP(0, 0, Linear),
		CP(0.5, 0.2, Linear),
		CP(0.5, 0.8, Cubic),
		CP(1, 0.8, Linear),
	}
	if got := ValueAt(points, 0.5, 0, 100); math.Abs(got-20) > 1e-9 {
		t.Errorf("at the step: got %g, want 20", got)
	}
	if got := ValueAt(points, 0.75, 0, 100); math.Abs(got-80) > 1e-9 {
		t.Errorf("after the step: got %g, want 80", got)
	}
	for _, p := range SamplePath(points, 10) {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("NaN in path: %v", p)
		}
	}
}

func TestSamplePathEndpoints(t *testing.T) {
	for _, points := range [][]ControlPoint{mixedCurve(), Default()} {
		path := SamplePath(points, 100)
		if len(path) == 0 {
			t.Fatal("empty path")
		}
		if diff := cmp.Diff(points[0].Pos(), path[0], approx); diff != "" {
			t.Errorf("first sample (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(points[len(points)-1].Pos(), path[len(path)-1], approx); diff != "" {
			t.Errorf("last sample (-want +got):\n%s", diff)
		}
	}
}

func TestSamplePathLength(t *testing.T) {
	single := []ControlPoint{CP(0, 0, Linear), CP(1, 1, Linear)}
	if got := len(SamplePath(single, 100)); got != 101 {
		t.Errorf("single segment: got %d samples, want 101", got)
	}
	if got := len(SamplePath(single, 0)); got != DefaultDensity+1 {
		t.Errorf("default density: got %d samples, want %d", got, DefaultDensity+1)
	}

	// ceil(10*0.25)=3, ceil(10*0.75)=8; shared vertex counted once.
	two := []ControlPoint{CP(0, 0, Linear), CP(0.25, 1, Cubic), CP(1, 0, Quadratic)}
	if got := len(SamplePath(two, 10)); got != 3+1+8 {
		t.Errorf("two segments: got %d samples, want 12", got)
	}
}

func TestSamplePathIsMonotonicForLinear(t *testing.T) {
	path := SamplePath([]ControlPoint{CP(0, 0, Linear), CP(0.4, 1, Linear), CP(1, 0.5, Linear)}, 50)
	for i := 1; i < len(path); i++ {
		if path[i].X <= path[i-1].X {
			t.Fatalf("sample %d not after sample %d: %v, %v", i, i-1, path[i-1], path[i])
		}
	}
}

func TestSamplePathDegenerate(t *testing.T) {
	if got := SamplePath(nil, 100); got == nil || len(got) != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := SamplePath([]ControlPoint{CP(0, 0, Linear)}, 100); len(got) != 0 {
		t.Errorf("single point: got %v", got)
	}
}

func TestPathStopsEarly(t *testing.T) {
	n := 0
	for range Path(mixedCurve(), 100) {
		n++
		if n == 5 {
			break
		}
	}
	if n != 5 {
		t.Fatalf("got %d samples, want 5", n)
	}
}

func TestDefaultHandles(t *testing.T) {
	start := CP(0.1, 0.2, Linear)

	q := NewSegment(start, CP(0.5, 0.6, Quadratic))
	if diff := cmp.Diff(Pt(0.3, 0.4), q.H0, approx); diff != "" {
		t.Errorf("quadratic handle (-want +got):\n%s", diff)
	}

	c := NewSegment(start, CP(0.4, 0.8, Cubic))
	if diff := cmp.Diff(Pt(0.2, 0.4), c.H0, approx); diff != "" {
		t.Errorf("cubic h0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Pt(0.3, 0.6), c.H1, approx); diff != "" {
		t.Errorf("cubic h1 (-want +got):\n%s", diff)
	}

	explicit := NewSegment(start, CP(0.4, 0.8, Cubic).WithHandle(0.4, 0.2))
	if diff := cmp.Diff(Pt(0.4, 0.2), explicit.H1, approx); diff != "" {
		t.Errorf("explicit h1 (-want +got):\n%s", diff)
	}

	// A single handle coordinate is not a handle.
	half := CP(0.5, 0.6, Quadratic)
	hx := 0.9
	half.HandleX = &hx
	if got := NewSegment(start, half).H0; cmp.Diff(Pt(0.3, 0.4), got, approx) != "" {
		t.Errorf("half handle should fall back to default, got %v", got)
	}
}

func TestDefaultCubicIsStraight(t *testing.T) {
	seg := NewSegment(CP(0, 0, Linear), CP(1, 1, Cubic))
	for i := 0; i <= 10; i++ {
		ts := float64(i) / 10
		p := seg.Eval(ts)
		if math.Abs(p.X-ts) > 1e-12 || math.Abs(p.Y-ts) > 1e-12 {
			t.Errorf("t=%g: got %v", ts, p)
		}
	}
}

func TestCubicAtMatchesBernsteinForm(t *testing.T) {
	p0, h0, h1, p1 := Pt(0, 0.1), Pt(0.2, 0.9), Pt(0.7, -0.3), Pt(1, 0.6)
	for i := 0; i <= 20; i++ {
		ts := float64(i) / 20
		mt := 1 - ts
		want := p0.Mul(mt * mt * mt).
			Add(h0.Mul(3 * mt * mt * ts)).
			Add(h1.Mul(3 * mt * ts * ts)).
			Add(p1.Mul(ts * ts * ts))
		if diff := cmp.Diff(want, CubicAt(ts, p0, h0, h1, p1), approx); diff != "" {
			t.Errorf("t=%g (-want +got):\n%s", ts, diff)
		}
	}
}

func TestQuadraticAndLinear(t *testing.T) {
	p0, h, p1 := Pt(0, 0), Pt(0.5, 1), Pt(1, 0)
	if diff := cmp.Diff(Pt(0.5, 0.5), QuadraticAt(0.5, p0, h, p1), approx); diff != "" {
		t.Errorf("quadratic apex (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Pt(0.25, 0), LinearAt(0.25, p0, p1), approx); diff != "" {
		t.Errorf("linear (-want +got):\n%s", diff)
	}
}

func TestParseBasis(t *testing.T) {
	tests := map[string]Basis{
		"linear":     Linear,
		"quadratic":  Quadratic,
		" Cubic ":    Cubic,
		"":           Linear,
		"circle":     Linear,
		"bezier-ish": Linear,
	}
	for in, want := range tests {
		if got := ParseBasis(in); got != want {
			t.Errorf("ParseBasis(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestControlPointJSON(t *testing.T) {
	raw := `[
		{"x":0,"y":0},
		{"x":0.3,"y":1,"basis":"quadratic","handleX":0.1,"handleY":0.8},
		{"x":1,"y":1,"basis":"triangle"},
		{"x":1,"y":1,"basis":7}
	]`
	var points []ControlPoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if points[0].Basis.String() != "linear" || points[2].Basis != Linear || points[3].Basis != Linear {
		t.Errorf("unknown tags should resolve to linear: %+v", points)
	}
	h, ok := points[1].Handle()
	if !ok || points[1].Basis != Quadratic {
		t.Fatalf("handle/basis lost: %+v", points[1])
	}
	if diff := cmp.Diff(Pt(0.1, 0.8), h); diff != "" {
		t.Errorf("handle (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name   string
		points []ControlPoint
		want   error
	}{
		{"default", Default(), nil},
		{"mixed", mixedCurve(), nil},
		{"empty", nil, ErrTooFewPoints},
		{"single", []ControlPoint{CP(0, 0, Linear)}, ErrTooFewPoints},
		{"duplicate x", []ControlPoint{CP(0, 0, Linear), CP(0.5, 0, Linear), CP(0.5, 1, Linear)}, ErrDuplicateX},
		{"unsorted", []ControlPoint{CP(0, 0, Linear), CP(0.6, 0, Linear), CP(0.5, 1, Linear)}, ErrUnsorted},
		{"y above range", []ControlPoint{CP(0, 0, Linear), CP(1, 1.5, Linear)}, ErrOutOfRange},
		{"x below range", []ControlPoint{CP(-0.1, 0, Linear), CP(1, 1, Linear)}, ErrOutOfRange},
		{"nan", []ControlPoint{CP(0, nan, Linear), CP(1, 1, Linear)}, ErrNotFinite},
		{"handle out of range", []ControlPoint{CP(0, 0, Linear), CP(1, 1, Cubic).WithHandle(2, 0)}, ErrOutOfRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.points)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	src := Default()
	dst := Clone(src)
	*dst[1].HandleX = 0.25
	if *src[1].HandleX != 0.1 {
		t.Fatalf("clone shares handle storage with source")
	}
	if Clone(nil) != nil {
		t.Fatalf("clone of nil should be nil")
	}
}

func TestEvaluationDoesNotMutateInput(t *testing.T) {
	points := mixedCurve()
	before := Clone(points)
	_ = SamplePath(points, 200)
	_ = ValueAt(points, 0.42, 0, 100)
	if diff := cmp.Diff(before, points); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	points := mixedCurve()
	want := ValueAt(points, 0.6, 0, 900)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := ValueAt(points, 0.6, 0, 900); got != want {
					t.Errorf("got %g, want %g", got, want)
					return
				}
				_ = SamplePath(points, 50)
			}
		}()
	}
	wg.Wait()
}

func TestNormalizedTime(t *testing.T) {
	if got := NormalizedTime(30e9, 60e9); got != 0.5 {
		t.Errorf("got %g, want 0.5", got)
	}
	if got := NormalizedTime(5, 0); got != 1 {
		t.Errorf("zero duration: got %g, want 1", got)
	}
}
