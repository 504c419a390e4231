package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/denesv/vectra"
)

const HelpBanner = `
┬  ┬┌─┐┌─┐┌┬┐┬─┐┌─┐
└┐┌┘├┤ │   │ ├┬┘├─┤
 └┘ └─┘└─┘ ┴ ┴└─┴ ┴

Raster to vector conversion library.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	source      = flag.String("in", pipeName, "Source")
	destination = flag.String("out", pipeName, "Destination")

	// Edge detection
	edgeVariant = flag.String("edge", "sobel", "Edge detector (sobel, canny, adaptive)")
	threshold   = flag.Float64("threshold", 50, "Sobel magnitude threshold")
	low         = flag.Float64("low", 20, "Canny low threshold")
	high        = flag.Float64("high", 60, "Canny high threshold")
	blur        = flag.Bool("blur", true, "Gaussian blur before Canny")

	// Contour tracing
	tracer   = flag.String("tracer", "moore", "Contour tracer (moore, square, smoothed)")
	smooth   = flag.Float64("smooth", 0.5, "Smoothing factor [0..1]")
	simplify = flag.Float64("simplify", 1, "Simplification threshold")
	minPath  = flag.Int("minpath", 4, "Minimum path length")

	// Segmentation
	clusters   = flag.Int("clusters", 8, "K-means cluster count")
	similarity = flag.Float64("similarity", 30, "Color similarity threshold")
	region     = flag.Float64("region", 32, "Region growing threshold")
	iterations = flag.Int("iter", 50, "K-means iteration cap")
	conv       = flag.Float64("conv", 1, "K-means convergence threshold")
	layer      = flag.String("layer", "stacked", "Layer mode (stacked, cutout)")

	// Rendering
	colorMode = flag.String("mode", "color", "Color mode (color, binary)")
	precision = flag.Int("precision", 1, "Contour stroke width")
	maxDim    = flag.Int("maxdim", 0, "Downscale inputs larger than this dimension")

	workers = flag.Int("conc", runtime.NumCPU(), "Number of files to process concurrently")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, HelpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	v := vectra.NewVectorizer()
	v.Edge.Threshold = *threshold
	v.Edge.LowThreshold = *low
	v.Edge.HighThreshold = *high
	v.Edge.GaussianBlur = *blur
	v.Path.SmoothingFactor = *smooth
	v.Path.SimplifyThreshold = *simplify
	v.Path.MinPathLength = *minPath
	v.Segment.Clusters = *clusters
	v.Segment.ColorSimilarity = *similarity
	v.Segment.GrowThreshold = *region
	v.Segment.MaxIterations = *iterations
	v.Segment.Convergence = *conv
	v.Precision = *precision
	v.MaxDim = *maxDim

	var err error
	if v.Edge.Variant, err = parseEdgeVariant(*edgeVariant); err != nil {
		log.Fatal(err)
	}
	if v.Path.Variant, err = parseTraceVariant(*tracer); err != nil {
		log.Fatal(err)
	}
	if v.Segment.LayerMode, err = parseLayerMode(*layer); err != nil {
		log.Fatal(err)
	}
	if v.ColorMode, err = parseColorMode(*colorMode); err != nil {
		log.Fatal(err)
	}

	v.Execute(&vectra.Ops{
		Src:      *source,
		Dst:      *destination,
		PipeName: pipeName,
		Workers:  *workers,
	})
}

func parseEdgeVariant(s string) (vectra.EdgeVariant, error) {
	switch strings.ToLower(s) {
	case "sobel":
		return vectra.EdgeSobel, nil
	case "canny":
		return vectra.EdgeCanny, nil
	case "adaptive":
		return vectra.EdgeAdaptive, nil
	}
	return 0, fmt.Errorf("unsupported edge detector: %q", s)
}

func parseTraceVariant(s string) (vectra.TraceVariant, error) {
	switch strings.ToLower(s) {
	case "moore":
		return vectra.TraceMooreNeighbor, nil
	case "square":
		return vectra.TraceSquare, nil
	case "smoothed", "custom":
		return vectra.TraceSmoothed, nil
	}
	return 0, fmt.Errorf("unsupported tracer: %q", s)
}

func parseLayerMode(s string) (vectra.LayerMode, error) {
	switch strings.ToLower(s) {
	case "stacked":
		return vectra.LayerStacked, nil
	case "cutout":
		return vectra.LayerCutout, nil
	}
	return 0, fmt.Errorf("unsupported layer mode: %q", s)
}

func parseColorMode(s string) (vectra.ColorMode, error) {
	switch strings.ToLower(s) {
	case "color":
		return vectra.ColorModeColor, nil
	case "binary":
		return vectra.ColorModeBinary, nil
	}
	return 0, fmt.Errorf("unsupported color mode: %q", s)
}
