package vectra

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

// LayerMode controls the paint order of the segmented regions.
type LayerMode int

const (
	// LayerStacked paints the largest regions first, back to front.
	LayerStacked LayerMode = iota
	// LayerCutout paints the smallest regions first, like a cookie cutter.
	LayerCutout
)

// SegmentOptions holds the per-call segmentation configuration.
type SegmentOptions struct {
	Clusters        int     // number of k-means clusters
	ColorSimilarity float64 // dedup and region merge distance
	GrowThreshold   float64 // region growing distance to the seed color
	MaxIterations   int     // k-means iteration cap
	Convergence     float64 // k-means centroid movement threshold
	LayerMode       LayerMode
}

// DefaultSegmentOptions returns the segmentation defaults.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		Clusters:        8,
		ColorSimilarity: 30,
		GrowThreshold:   32,
		MaxIterations:   50,
		Convergence:     1,
		LayerMode:       LayerStacked,
	}
}

func (o SegmentOptions) validate() error {
	if o.Clusters < 1 {
		return fmt.Errorf("cluster count must be at least 1, got %d", o.Clusters)
	}
	if o.ColorSimilarity < 0 || o.GrowThreshold < 0 || o.Convergence < 0 {
		return fmt.Errorf("segmentation thresholds must not be negative")
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("iteration cap must be at least 1, got %d", o.MaxIterations)
	}
	return nil
}

// Region is a 4-connected set of pixels whose colors lie within the growing
// threshold of the region's seed color.
type Region struct {
	ID      int
	Pixels  []Point
	Colors  []color.NRGBA
	Bounds  image.Rectangle
	Area    int
	Average color.NRGBA
}

// GrowRegions partitions the raster into color-homogeneous regions using a
// breadth-first flood fill. Every pixel ends up in exactly one region and ids
// are assigned sequentially in discovery order.
func GrowRegions(img *image.NRGBA, threshold float64) []Region {
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()
	visited := make([]bool, dx*dy)

	var regions []Region
	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			if visited[y*dx+x] {
				continue
			}
			region := growRegion(img, Point{X: x, Y: y}, threshold, visited)
			if region.Area == 0 {
				continue
			}
			region.ID = len(regions)
			regions = append(regions, region)
		}
	}
	return regions
}

// growRegion flood-fills from the seed, accepting each 4-connected candidate
// iff its color distance to the seed color stays within the threshold.
func growRegion(img *image.NRGBA, seed Point, threshold float64, visited []bool) Region {
	dx := img.Bounds().Dx()
	dyMax := img.Bounds().Dy()
	seedColor := nrgbaAt(img, seed.X, seed.Y)

	region := Region{
		Bounds: image.Rect(seed.X, seed.Y, seed.X+1, seed.Y+1),
	}
	queue := []Point{seed}
	visited[seed.Y*dx+seed.X] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		region.Pixels = append(region.Pixels, p)
		region.Colors = append(region.Colors, nrgbaAt(img, p.X, p.Y))
		region.Bounds = region.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		for _, d := range squareOffsets {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= dx || ny >= dyMax || visited[ny*dx+nx] {
				continue
			}
			if colorDistance(nrgbaAt(img, nx, ny), seedColor) > threshold {
				continue
			}
			visited[ny*dx+nx] = true
			queue = append(queue, Point{X: nx, Y: ny})
		}
	}

	region.Area = len(region.Pixels)
	region.Average = averageColor(region.Colors)
	return region
}

// SortRegions orders the regions in place according to the layer mode.
func SortRegions(regions []Region, mode LayerMode) {
	switch mode {
	case LayerCutout:
		sort.SliceStable(regions, func(i, j int) bool {
			return regions[i].Area < regions[j].Area
		})
	default:
		sort.SliceStable(regions, func(i, j int) bool {
			return regions[i].Area > regions[j].Area
		})
	}
}

// MergeRegions greedily groups regions whose average colors lie within the
// threshold of a representative region's average. The scan is single-link and
// order dependent: the first unmerged region of each group is the
// representative, every region merges into at most one group, and the merged
// average is recomputed over the concatenated color lists.
func MergeRegions(regions []Region, threshold float64) []Region {
	if threshold <= 0 || len(regions) < 2 {
		return regions
	}

	merged := make([]bool, len(regions))
	out := make([]Region, 0, len(regions))

	for i := range regions {
		if merged[i] {
			continue
		}

		var members []int
		for j := i + 1; j < len(regions); j++ {
			if merged[j] {
				continue
			}
			if colorDistance(regions[i].Average, regions[j].Average) <= threshold {
				merged[j] = true
				members = append(members, j)
			}
		}

		if len(members) == 0 {
			out = append(out, regions[i])
			continue
		}
		out = append(out, mergeGroup(regions[i], members, regions))
	}
	return out
}

func mergeGroup(base Region, members []int, regions []Region) Region {
	group := Region{ID: base.ID, Bounds: base.Bounds}
	group.Pixels = append(group.Pixels, base.Pixels...)
	group.Colors = append(group.Colors, base.Colors...)

	for _, j := range members {
		group.Pixels = append(group.Pixels, regions[j].Pixels...)
		group.Colors = append(group.Colors, regions[j].Colors...)
		group.Bounds = group.Bounds.Union(regions[j].Bounds)
	}

	group.Area = len(group.Pixels)
	group.Average = averageColor(group.Colors)
	return group
}

// nrgbaAt returns the RGBA sample at (x, y).
func nrgbaAt(img *image.NRGBA, x, y int) color.NRGBA {
	i := img.PixOffset(x, y)
	return color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}
}

// colorDistance returns the Euclidean distance between two RGBA samples.
func colorDistance(a, b color.NRGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	da := float64(a.A) - float64(b.A)
	return math.Sqrt(dr*dr + dg*dg + db*db + da*da)
}

// averageColor returns the component-wise rounded mean of the color list.
func averageColor(colors []color.NRGBA) color.NRGBA {
	if len(colors) == 0 {
		return color.NRGBA{}
	}

	var r, g, b, a float64
	for _, c := range colors {
		r += float64(c.R)
		g += float64(c.G)
		b += float64(c.B)
		a += float64(c.A)
	}
	n := float64(len(colors))
	return color.NRGBA{
		R: uint8(math.Round(r / n)),
		G: uint8(math.Round(g / n)),
		B: uint8(math.Round(b / n)),
		A: uint8(math.Round(a / n)),
	}
}
