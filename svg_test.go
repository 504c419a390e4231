package vectra

import (
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPathData(t *testing.T) {
	open := Path{Points: []Point{{1, 2}, {3, 4}}}
	if got := pathData(open); got != "M1 2 L3 4" {
		t.Errorf("unexpected open path data: %q", got)
	}

	closed := newPath([]Point{{0, 0}, {4, 0}, {0, 1}})
	if got := pathData(closed); got != "M0 0 L4 0 L0 1 Z" {
		t.Errorf("unexpected closed path data: %q", got)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.NRGBA{R: 255, G: 16, B: 1, A: 255}); got != "#ff1001" {
		t.Errorf("unexpected hex color: %q", got)
	}
}

func TestRenderSVG_Document(t *testing.T) {
	assert := assert.New(t)

	regions := []Region{{
		ID:      0,
		Bounds:  image.Rect(0, 0, 4, 4),
		Area:    16,
		Average: color.NRGBA{R: 255, A: 255},
	}}
	paths := []Path{newPath([]Point{{1, 1}, {3, 1}, {1, 2}})}

	doc := renderSVG(8, 8, regions, paths, ColorModeBinary, 2)

	assert.Contains(doc, `viewBox="0 0 8 8"`)
	assert.Contains(doc, "<defs>")
	assert.Contains(doc, `id="region-0"`)
	assert.Contains(doc, "<rect")
	assert.Contains(doc, "fill:#ff0000")
	assert.Contains(doc, "stroke:black")
	assert.Contains(doc, "stroke-width:2")
	assert.Contains(doc, "</svg>")
}

func TestRenderSVG_ColorModeStrokesWhite(t *testing.T) {
	paths := []Path{newPath([]Point{{0, 0}, {2, 0}, {0, 1}})}
	doc := renderSVG(4, 4, nil, paths, ColorModeColor, 0)

	assert.Contains(t, doc, "stroke:white")
	// The stroke width never drops below one.
	assert.Contains(t, doc, "stroke-width:1")
}

func TestScoreQuality(t *testing.T) {
	tests := []struct {
		name       string
		pathCount  int
		elapsed    time.Duration
		accuracy   float64
		smoothness float64
	}{
		{"fast run clamps to the ceilings", 0, 0, 95, 90},
		{"slow run clamps accuracy to the floor", 0, 10 * time.Second, 60, 90},
		{"many paths clamp smoothness to the floor", 30, 0, 95, 50},
		{"mid-range values pass through", 10, 2 * time.Second, 80, 80},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := scoreQuality("<svg/>", tc.pathCount, tc.elapsed)
			if q.Accuracy != tc.accuracy {
				t.Errorf("accuracy = %v, want %v", q.Accuracy, tc.accuracy)
			}
			if q.Smoothness != tc.smoothness {
				t.Errorf("smoothness = %v, want %v", q.Smoothness, tc.smoothness)
			}
			if q.FileSize != len("<svg/>") {
				t.Errorf("file size = %d, want the emitted byte length", q.FileSize)
			}
		})
	}
}

func TestRenderSVG_OneGradientStopPerRegion(t *testing.T) {
	regions := []Region{
		{ID: 0, Bounds: image.Rect(0, 0, 2, 2), Average: color.NRGBA{R: 10, A: 255}},
		{ID: 3, Bounds: image.Rect(2, 2, 4, 4), Average: color.NRGBA{G: 20, A: 128}},
	}

	doc := renderSVG(4, 4, regions, nil, ColorModeColor, 1)

	assert.Equal(t, 2, strings.Count(doc, "<linearGradient"))
	assert.Equal(t, 2, strings.Count(doc, "<stop"))
	assert.Equal(t, 2, strings.Count(doc, "<rect"))
	assert.Contains(t, doc, `id="region-3"`)
}
