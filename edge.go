package vectra

import (
	"fmt"
	"image"
)

// EdgeVariant selects the edge detection algorithm.
type EdgeVariant int

const (
	// EdgeSobel thresholds the raw Sobel gradient magnitude.
	EdgeSobel EdgeVariant = iota
	// EdgeCanny runs the full blur/suppress/hysteresis pipeline.
	EdgeCanny
	// EdgeAdaptive derives the Canny thresholds from the image statistics.
	EdgeAdaptive
)

// EdgeOptions holds the per-call edge detection configuration.
type EdgeOptions struct {
	Variant       EdgeVariant
	Threshold     float64 // Sobel magnitude threshold
	LowThreshold  float64 // Canny weak edge threshold
	HighThreshold float64 // Canny strong edge threshold
	GaussianBlur  bool    // apply the 3x3 Gaussian kernel before Canny
}

// DefaultEdgeOptions returns the edge detection defaults.
func DefaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		Variant:       EdgeSobel,
		Threshold:     50,
		LowThreshold:  20,
		HighThreshold: 60,
		GaussianBlur:  true,
	}
}

func (o EdgeOptions) validate() error {
	if o.Threshold < 0 {
		return fmt.Errorf("edge threshold must not be negative, got %v", o.Threshold)
	}
	if o.LowThreshold < 0 || o.HighThreshold < 0 {
		return fmt.Errorf("hysteresis thresholds must not be negative, got %v/%v",
			o.LowThreshold, o.HighThreshold)
	}
	if o.LowThreshold > o.HighThreshold {
		return fmt.Errorf("low threshold %v exceeds high threshold %v",
			o.LowThreshold, o.HighThreshold)
	}
	return nil
}

// Mask is a per-pixel boolean edge grid with the same dimensions as the
// source raster. Cells are indexed y*Width+x.
type Mask struct {
	Width  int
	Height int
	bits   []bool
}

// NewMask creates an all-false mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		bits:   make([]bool, width*height),
	}
}

// At reports whether the pixel at (x, y) is an edge.
func (m *Mask) At(x, y int) bool {
	return m.bits[y*m.Width+x]
}

// Set marks or clears the pixel at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.bits[y*m.Width+x] = v
}

// Count returns the number of edge pixels in the mask.
func (m *Mask) Count() int {
	var n int
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Gradient holds the per-pixel gradient magnitude and direction. Both planes
// are populated for interior pixels only; the one pixel wide border stays zero.
type Gradient struct {
	Width     int
	Height    int
	Magnitude []float64
	Direction []float64
}

// NewGradient creates a zeroed gradient field of the given dimensions.
func NewGradient(width, height int) *Gradient {
	return &Gradient{
		Width:     width,
		Height:    height,
		Magnitude: make([]float64, width*height),
		Direction: make([]float64, width*height),
	}
}

// mask thresholds the gradient magnitudes into an edge mask.
func (g *Gradient) mask(threshold float64) *Mask {
	m := NewMask(g.Width, g.Height)
	for i, mag := range g.Magnitude {
		m.bits[i] = mag > threshold
	}
	return m
}

// Detector produces an edge mask and the gradient field used to compute it.
// Detection never fails on degenerate inputs: images smaller than 3x3 yield
// an all-false mask since there are no interior pixels to evaluate.
type Detector interface {
	Detect(img *image.NRGBA, opts EdgeOptions) (*Mask, *Gradient, error)
}

// NewDetector returns the detector implementing the requested variant.
func NewDetector(variant EdgeVariant) (Detector, error) {
	switch variant {
	case EdgeSobel:
		return SobelDetector{}, nil
	case EdgeCanny:
		return CannyDetector{}, nil
	case EdgeAdaptive:
		return AdaptiveDetector{}, nil
	default:
		return nil, fmt.Errorf("unknown edge detector variant: %d", variant)
	}
}
