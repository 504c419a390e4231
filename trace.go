package vectra

import (
	"fmt"
	"image"
	"math"

	"github.com/denesv/vectra/utils"
)

// Point is an integer pixel coordinate.
type Point struct {
	X int
	Y int
}

// Path is an ordered point sequence traced out of an edge mask.
type Path struct {
	Points []Point
	Closed bool
	Bounds image.Rectangle
}

// TraceVariant selects the contour tracing algorithm.
type TraceVariant int

const (
	// TraceMooreNeighbor walks the full 8-connected neighborhood clockwise.
	TraceMooreNeighbor TraceVariant = iota
	// TraceSquare restricts the walk to the 4-connected directions.
	TraceSquare
	// TraceSmoothed runs Moore-Neighbor, then smooths and simplifies the result.
	TraceSmoothed
)

// PathOptions holds the per-call contour tracing configuration.
type PathOptions struct {
	Variant           TraceVariant
	SmoothingFactor   float64 // neighbor weight in [0, 1] for the smoothed variant
	SimplifyThreshold float64 // perpendicular distance below which points are dropped
	MinPathLength     int     // simplified paths shorter than this are discarded
}

// DefaultPathOptions returns the contour tracing defaults.
func DefaultPathOptions() PathOptions {
	return PathOptions{
		Variant:           TraceMooreNeighbor,
		SmoothingFactor:   0.5,
		SimplifyThreshold: 1,
		MinPathLength:     4,
	}
}

func (o PathOptions) validate() error {
	if o.SmoothingFactor < 0 || o.SmoothingFactor > 1 {
		return fmt.Errorf("smoothing factor must be in [0, 1], got %v", o.SmoothingFactor)
	}
	if o.SimplifyThreshold < 0 {
		return fmt.Errorf("simplification threshold must not be negative, got %v", o.SimplifyThreshold)
	}
	if o.MinPathLength < 0 {
		return fmt.Errorf("minimum path length must not be negative, got %d", o.MinPathLength)
	}
	return nil
}

// Tracer follows edge pixels from a starting point and returns the traced
// path. A tracer keeps a visited set across calls, so no pixel ever belongs
// to more than one of its paths; re-tracing from a claimed pixel yields an
// empty path.
type Tracer interface {
	Trace(m *Mask, start Point) Path
}

// NewTracer returns the tracer implementing the requested variant.
func NewTracer(opts PathOptions) (Tracer, error) {
	switch opts.Variant {
	case TraceMooreNeighbor:
		return &mooreTracer{}, nil
	case TraceSquare:
		return &squareTracer{}, nil
	case TraceSmoothed:
		return &smoothedTracer{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown tracer variant: %d", opts.Variant)
	}
}

// TraceAll scans the mask row-major and traces a new path from every edge
// pixel not claimed by a previous path. The union of the returned paths
// covers every edge pixel exactly once.
func TraceAll(m *Mask, opts PathOptions) ([]Path, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tracer, err := NewTracer(opts)
	if err != nil {
		return nil, err
	}

	var paths []Path
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			path := tracer.Trace(m, Point{X: x, Y: y})
			if len(path.Points) > 0 {
				paths = append(paths, path)
			}
		}
	}
	return paths, nil
}

// The 8-connected neighborhood in clockwise order, starting top-left.
var mooreOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0},
}

// The 4-connected neighborhood in right, down, left, up order.
var squareOffsets = [4]Point{
	{1, 0}, {0, 1}, {-1, 0}, {0, -1},
}

type mooreTracer struct {
	visited []bool
}

func (t *mooreTracer) Trace(m *Mask, start Point) Path {
	if len(t.visited) != m.Width*m.Height {
		t.visited = make([]bool, m.Width*m.Height)
	}
	if !m.At(start.X, start.Y) || t.visited[start.Y*m.Width+start.X] {
		return Path{}
	}

	points := []Point{start}
	t.visited[start.Y*m.Width+start.X] = true

	cur, dir := start, 0
	// The step cap bounds pathological walks to the pixel count.
	for step := 0; step < m.Width*m.Height; step++ {
		found := false
		// Search up to 8 directions, beginning at the current one.
		for i := 0; i < 8; i++ {
			d := (dir + i) % 8
			nx, ny := cur.X+mooreOffsets[d].X, cur.Y+mooreOffsets[d].Y
			if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
				continue
			}
			if !m.At(nx, ny) || t.visited[ny*m.Width+nx] {
				continue
			}

			cur = Point{X: nx, Y: ny}
			points = append(points, cur)
			t.visited[ny*m.Width+nx] = true
			// Backtrack: resume the search opposite to the direction taken,
			// which keeps the walk hugging the boundary.
			dir = (d + 4) % 8
			found = true
			break
		}
		if !found {
			break
		}
	}
	return newPath(points)
}

type squareTracer struct {
	visited []bool
}

func (t *squareTracer) Trace(m *Mask, start Point) Path {
	if len(t.visited) != m.Width*m.Height {
		t.visited = make([]bool, m.Width*m.Height)
	}
	if !m.At(start.X, start.Y) || t.visited[start.Y*m.Width+start.X] {
		return Path{}
	}

	points := []Point{start}
	t.visited[start.Y*m.Width+start.X] = true

	cur, dir := start, 0
	for step := 0; step < m.Width*m.Height; step++ {
		found := false
		for i := 0; i < 4; i++ {
			d := (dir + i) % 4
			nx, ny := cur.X+squareOffsets[d].X, cur.Y+squareOffsets[d].Y
			if nx < 0 || ny < 0 || nx >= m.Width || ny >= m.Height {
				continue
			}
			if !m.At(nx, ny) || t.visited[ny*m.Width+nx] {
				continue
			}

			cur = Point{X: nx, Y: ny}
			points = append(points, cur)
			t.visited[ny*m.Width+nx] = true
			dir = d
			found = true
			break
		}
		if !found {
			break
		}
	}
	return newPath(points)
}

type smoothedTracer struct {
	moore mooreTracer
	opts  PathOptions
}

func (t *smoothedTracer) Trace(m *Mask, start Point) Path {
	raw := t.moore.Trace(m, start)
	if len(raw.Points) == 0 {
		return raw
	}

	points := smooth(raw.Points, t.opts.SmoothingFactor)
	points = simplify(points, t.opts.SimplifyThreshold)
	if len(points) < t.opts.MinPathLength {
		// Too short to keep; the raw pixels stay claimed regardless.
		return Path{}
	}
	return newPath(points)
}

// smooth replaces every interior point with a weighted average of itself and
// its two neighbors. Endpoints are left untouched.
func smooth(points []Point, factor float64) []Point {
	if factor <= 0 || len(points) < 3 {
		return points
	}

	out := make([]Point, len(points))
	out[0] = points[0]
	out[len(points)-1] = points[len(points)-1]

	for i := 1; i < len(points)-1; i++ {
		x := float64(points[i].X)*(1-factor) +
			(float64(points[i-1].X)+float64(points[i+1].X))*0.5*factor
		y := float64(points[i].Y)*(1-factor) +
			(float64(points[i-1].Y)+float64(points[i+1].Y))*0.5*factor
		out[i] = Point{X: int(math.Round(x)), Y: int(math.Round(y))}
	}
	return out
}

// simplify walks the sequence and keeps a point only if its perpendicular
// distance from the segment between the last kept point and the next point
// exceeds the threshold.
func simplify(points []Point, threshold float64) []Point {
	if threshold <= 0 || len(points) < 3 {
		return points
	}

	kept := make([]Point, 0, len(points))
	kept = append(kept, points[0])
	for i := 1; i < len(points)-1; i++ {
		if perpDistance(points[i], kept[len(kept)-1], points[i+1]) > threshold {
			kept = append(kept, points[i])
		}
	}
	return append(kept, points[len(points)-1])
}

// perpDistance returns the perpendicular distance of p from the line through
// a and b. When a and b coincide it degrades to the point distance.
func perpDistance(p, a, b Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	if dx == 0 && dy == 0 {
		return math.Hypot(float64(p.X-a.X), float64(p.Y-a.Y))
	}
	num := math.Abs(dy*float64(p.X) - dx*float64(p.Y) +
		float64(b.X)*float64(a.Y) - float64(b.Y)*float64(a.X))
	return num / math.Hypot(dx, dy)
}

// newPath wraps a point sequence, computing its bounding box and closure.
// A path is closed iff it has more than 2 points and its first and last
// points are within one pixel on both axes.
func newPath(points []Point) Path {
	if len(points) == 0 {
		return Path{}
	}

	bounds := image.Rect(points[0].X, points[0].Y, points[0].X+1, points[0].Y+1)
	for _, p := range points[1:] {
		bounds = bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}

	closed := false
	if len(points) > 2 {
		first, last := points[0], points[len(points)-1]
		closed = utils.Abs(first.X-last.X) <= 1 && utils.Abs(first.Y-last.Y) <= 1
	}

	return Path{Points: points, Closed: closed, Bounds: bounds}
}
