package vectra

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"

	"github.com/denesv/vectra/utils"
)

// Vectorizer options. The zero value is not usable; construct it with
// NewVectorizer and override fields as needed. Every conversion is a pure,
// one-shot computation: nothing is retried and no state survives the call.
type Vectorizer struct {
	Edge      EdgeOptions
	Path      PathOptions
	Segment   SegmentOptions
	ColorMode ColorMode
	Precision int // contour stroke width, at least 1
	MaxDim    int // when positive, oversized inputs are downscaled to fit
	Spinner   *utils.Spinner
}

// NewVectorizer returns a vectorizer with the default configuration.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{
		Edge:      DefaultEdgeOptions(),
		Path:      DefaultPathOptions(),
		Segment:   DefaultSegmentOptions(),
		ColorMode: ColorModeColor,
		Precision: 1,
	}
}

// Metadata describes the conversion output.
type Metadata struct {
	OriginalSize   image.Point
	VectorizedSize image.Point
	PathCount      int
	PointCount     int
	ColorCount     int
}

// Result is the complete outcome of one conversion.
type Result struct {
	SVG      string
	Quality  Quality
	Metadata Metadata
}

// ConversionError wraps a failure from a single pipeline stage. The caller
// receives either a complete result or this error; there is no partial output.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Vectorize runs the full pipeline over the raster: edge detection feeding
// the contour tracer, region growing with layer ordering and merging, and
// finally SVG assembly with the quality metrics.
func (v *Vectorizer) Vectorize(img *image.NRGBA) (*Result, error) {
	start := time.Now()
	origSize := img.Bounds().Size()

	if err := v.Segment.validate(); err != nil {
		return nil, &ConversionError{Stage: "segmentation", Err: err}
	}

	if v.MaxDim > 0 && (origSize.X > v.MaxDim || origSize.Y > v.MaxDim) {
		img = imaging.Fit(img, v.MaxDim, v.MaxDim, imaging.Lanczos)
	}
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()

	detector, err := NewDetector(v.Edge.Variant)
	if err != nil {
		return nil, &ConversionError{Stage: "edge detection", Err: err}
	}
	mask, _, err := detector.Detect(img, v.Edge)
	if err != nil {
		return nil, &ConversionError{Stage: "edge detection", Err: err}
	}

	paths, err := TraceAll(mask, v.Path)
	if err != nil {
		return nil, &ConversionError{Stage: "contour tracing", Err: err}
	}

	regions := GrowRegions(img, v.Segment.GrowThreshold)
	SortRegions(regions, v.Segment.LayerMode)
	regions = MergeRegions(regions, v.Segment.ColorSimilarity)

	svgText := renderSVG(dx, dy, regions, paths, v.ColorMode, v.Precision)
	elapsed := time.Since(start)

	var pointCount int
	for _, p := range paths {
		pointCount += len(p.Points)
	}
	distinct := map[[4]uint8]struct{}{}
	for _, r := range regions {
		distinct[[4]uint8{r.Average.R, r.Average.G, r.Average.B, r.Average.A}] = struct{}{}
	}

	return &Result{
		SVG:     svgText,
		Quality: scoreQuality(svgText, len(paths), elapsed),
		Metadata: Metadata{
			OriginalSize:   origSize,
			VectorizedSize: image.Pt(dx, dy),
			PathCount:      len(paths),
			PointCount:     pointCount,
			ColorCount:     len(distinct),
		},
	}, nil
}

// Process decodes the raster from an io.Reader and writes the emitted SVG
// document to an io.Writer. We are using the io package, since we can provide
// different input and output types, as long as they implement the io.Reader
// and io.Writer interface.
func (v *Vectorizer) Process(r io.Reader, w io.Writer) error {
	src, _, err := image.Decode(r)
	if err != nil {
		return err
	}

	res, err := v.Vectorize(imgToNRGBA(src))
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, res.SVG)
	return err
}
