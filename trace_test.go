package vectra

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ringMask returns a 5x5 mask with the 8-pixel ring around (2, 2) set.
func ringMask() *Mask {
	m := NewMask(5, 5)
	for _, p := range []Point{
		{1, 1}, {2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2},
	} {
		m.Set(p.X, p.Y, true)
	}
	return m
}

func TestTrace_MooreRingIsClosed(t *testing.T) {
	assert := assert.New(t)

	tracer, err := NewTracer(PathOptions{Variant: TraceMooreNeighbor})
	assert.NoError(err)

	path := tracer.Trace(ringMask(), Point{X: 1, Y: 1})
	assert.Len(path.Points, 8)
	assert.True(path.Closed)
	assert.Equal(image.Rect(1, 1, 4, 4), path.Bounds)
}

func TestTrace_ReTracingClaimedPixelYieldsEmptyPath(t *testing.T) {
	tracer, _ := NewTracer(PathOptions{Variant: TraceMooreNeighbor})
	m := ringMask()

	first := tracer.Trace(m, Point{X: 1, Y: 1})
	second := tracer.Trace(m, Point{X: 1, Y: 1})

	if len(first.Points) == 0 {
		t.Fatal("first trace should produce a path")
	}
	if len(second.Points) != 0 {
		t.Errorf("re-tracing a claimed pixel should yield an empty path, got %d points", len(second.Points))
	}
}

func TestTrace_SquareLine(t *testing.T) {
	assert := assert.New(t)

	m := NewMask(7, 5)
	for x := 1; x <= 5; x++ {
		m.Set(x, 2, true)
	}

	tracer, err := NewTracer(PathOptions{Variant: TraceSquare})
	assert.NoError(err)

	path := tracer.Trace(m, Point{X: 1, Y: 2})
	assert.Len(path.Points, 5)
	assert.False(path.Closed)
	assert.Equal(Point{X: 5, Y: 2}, path.Points[len(path.Points)-1])
}

func TestTraceAll_CoversEveryEdgePixelOnce(t *testing.T) {
	for _, variant := range []TraceVariant{TraceMooreNeighbor, TraceSquare} {
		m := NewMask(7, 7)
		// A ring, a line and an isolated pixel.
		for _, p := range []Point{
			{1, 1}, {2, 1}, {3, 1}, {3, 2}, {3, 3}, {2, 3}, {1, 3}, {1, 2},
			{0, 6}, {1, 6}, {2, 6},
			{5, 0},
		} {
			m.Set(p.X, p.Y, true)
		}

		paths, err := TraceAll(m, PathOptions{Variant: variant})
		if err != nil {
			t.Fatalf("variant %d: unexpected error: %v", variant, err)
		}

		seen := map[Point]int{}
		for _, path := range paths {
			for _, p := range path.Points {
				seen[p]++
			}
		}

		if len(seen) != m.Count() {
			t.Errorf("variant %d: traced %d distinct pixels, mask has %d", variant, len(seen), m.Count())
		}
		for p, n := range seen {
			if n != 1 {
				t.Errorf("variant %d: pixel %v claimed by %d paths", variant, p, n)
			}
			if !m.At(p.X, p.Y) {
				t.Errorf("variant %d: pixel %v traced but not part of the mask", variant, p)
			}
		}
	}
}

func TestTrace_SmoothedDiscardsShortPaths(t *testing.T) {
	m := NewMask(10, 10)
	for x := 2; x <= 6; x++ {
		m.Set(x, 4, true)
	}

	tracer, err := NewTracer(PathOptions{
		Variant:           TraceSmoothed,
		SmoothingFactor:   0.5,
		SimplifyThreshold: 0,
		MinPathLength:     10,
	})
	assert.NoError(t, err)

	path := tracer.Trace(m, Point{X: 2, Y: 4})
	if len(path.Points) != 0 {
		t.Errorf("a 5 pixel sequence under minPathLength=10 should return an empty path, got %d points", len(path.Points))
	}
}

func TestSmooth_EndpointsUntouched(t *testing.T) {
	assert := assert.New(t)

	in := []Point{{0, 0}, {2, 0}, {4, 4}}
	out := smooth(in, 1)

	assert.Equal(in[0], out[0])
	assert.Equal(in[2], out[2])
	// Full smoothing replaces the midpoint with the neighbor average.
	assert.Equal(Point{X: 2, Y: 2}, out[1])
}

func TestSimplify_DropsCollinearPoints(t *testing.T) {
	in := []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}}
	out := simplify(in, 0.5)

	if len(out) != 2 {
		t.Fatalf("collinear interior points should be dropped, got %d points", len(out))
	}
	if out[0] != in[0] || out[1] != in[len(in)-1] {
		t.Errorf("simplification should preserve the endpoints, got %v", out)
	}
}

func TestPath_ClosureContract(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		closed bool
	}{
		{"two identical points stay open", []Point{{0, 0}, {0, 0}}, false},
		{"ends within one pixel close", []Point{{0, 0}, {5, 0}, {1, 1}}, true},
		{"distant ends stay open", []Point{{0, 0}, {5, 0}, {5, 5}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := newPath(tc.points).Closed; got != tc.closed {
				t.Errorf("expected closed=%v, got %v", tc.closed, got)
			}
		})
	}
}
