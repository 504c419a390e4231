package vectra

import (
	"image"
	"image/color"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	red    = color.NRGBA{R: 255, A: 255}
	green  = color.NRGBA{G: 255, A: 255}
	blue   = color.NRGBA{B: 255, A: 255}
	yellow = color.NRGBA{R: 255, G: 255, A: 255}
)

func TestGrowRegions_QuadrantPartition(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fillQuadrants(img, red, green, blue, yellow)

	regions := GrowRegions(img, 30)
	assert.Len(regions, 4)

	for i, r := range regions {
		assert.Equal(i, r.ID)
		assert.Equal(16, r.Area)
		assert.Len(r.Pixels, r.Area)
	}

	averages := map[color.NRGBA]bool{}
	for _, r := range regions {
		averages[r.Average] = true
	}
	for _, want := range []color.NRGBA{red, green, blue, yellow} {
		if !averages[want] {
			t.Errorf("expected a region with average color %v", want)
		}
	}
}

func TestGrowRegions_PartitionCoversEveryPixel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 9, 7))
	for y := 0; y < 7; y++ {
		for x := 0; x < 9; x++ {
			v := uint8((x*37 + y*59) % 256)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v / 2, B: v / 3, A: 255})
		}
	}

	regions := GrowRegions(img, 12)

	seen := map[Point]int{}
	for _, r := range regions {
		if r.Area != len(r.Pixels) {
			t.Errorf("region %d: area %d does not match pixel count %d", r.ID, r.Area, len(r.Pixels))
		}
		for _, p := range r.Pixels {
			seen[p]++
		}
	}

	if len(seen) != 9*7 {
		t.Fatalf("regions cover %d pixels, raster has %d", len(seen), 9*7)
	}
	for p, n := range seen {
		if n != 1 {
			t.Errorf("pixel %v belongs to %d regions", p, n)
		}
	}
}

func TestSortRegions_LayerModes(t *testing.T) {
	regions := []Region{
		{ID: 0, Area: 5},
		{ID: 1, Area: 20},
		{ID: 2, Area: 1},
	}

	SortRegions(regions, LayerStacked)
	assert.Equal(t, []int{20, 5, 1}, []int{regions[0].Area, regions[1].Area, regions[2].Area})

	SortRegions(regions, LayerCutout)
	assert.Equal(t, []int{1, 5, 20}, []int{regions[0].Area, regions[1].Area, regions[2].Area})
}

func makeRegion(id int, c color.NRGBA, pixels ...Point) Region {
	r := Region{ID: id, Bounds: image.Rect(pixels[0].X, pixels[0].Y, pixels[0].X+1, pixels[0].Y+1)}
	for _, p := range pixels {
		r.Pixels = append(r.Pixels, p)
		r.Colors = append(r.Colors, c)
		r.Bounds = r.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
	}
	r.Area = len(r.Pixels)
	r.Average = averageColor(r.Colors)
	return r
}

func TestMergeRegions_RecomputesAverage(t *testing.T) {
	assert := assert.New(t)

	regions := []Region{
		makeRegion(0, color.NRGBA{R: 10, G: 10, B: 10, A: 255}, Point{0, 0}),
		makeRegion(1, color.NRGBA{R: 20, G: 20, B: 20, A: 255}, Point{5, 5}),
		makeRegion(2, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, Point{9, 9}),
	}

	merged := MergeRegions(regions, 25)
	assert.Len(merged, 2)

	assert.Equal(color.NRGBA{R: 15, G: 15, B: 15, A: 255}, merged[0].Average)
	assert.Equal(2, merged[0].Area)
	assert.Equal(image.Rect(0, 0, 6, 6), merged[0].Bounds)
	assert.Equal(color.NRGBA{R: 200, G: 200, B: 200, A: 255}, merged[1].Average)
}

func TestMergeRegions_Idempotent(t *testing.T) {
	regions := []Region{
		makeRegion(0, color.NRGBA{R: 10, G: 10, B: 10, A: 255}, Point{0, 0}),
		makeRegion(1, color.NRGBA{R: 20, G: 20, B: 20, A: 255}, Point{5, 5}),
		makeRegion(2, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, Point{9, 9}),
	}

	once := MergeRegions(regions, 25)
	twice := MergeRegions(once, 25)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging an already merged region list should be a no-op:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func TestMergeRegions_EachRegionMergesAtMostOnce(t *testing.T) {
	// The scan is greedy and order dependent: region 1 joins region 0's
	// group first, so region 2 cannot claim it even though it is close.
	regions := []Region{
		makeRegion(0, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, Point{0, 0}),
		makeRegion(1, color.NRGBA{R: 110, G: 110, B: 110, A: 255}, Point{1, 0}),
		makeRegion(2, color.NRGBA{R: 120, G: 120, B: 120, A: 255}, Point{2, 0}),
	}

	merged := MergeRegions(regions, 20)
	assert.Len(t, merged, 2)
	assert.Equal(t, 2, merged[0].Area)
	assert.Equal(t, 1, merged[1].Area)
}

func TestColorDistance(t *testing.T) {
	tests := []struct {
		a, b color.NRGBA
		want float64
	}{
		{color.NRGBA{}, color.NRGBA{}, 0},
		{color.NRGBA{R: 3}, color.NRGBA{}, 3},
		{color.NRGBA{R: 3, G: 4}, color.NRGBA{}, 5},
	}

	for _, tc := range tests {
		if got := colorDistance(tc.a, tc.b); got != tc.want {
			t.Errorf("colorDistance(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
