package vectra

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/denesv/vectra/utils"
)

// ColorMode selects the stroke palette of the traced contours.
type ColorMode int

const (
	// ColorModeColor strokes contours in white over the colored regions.
	ColorModeColor ColorMode = iota
	// ColorModeBinary strokes contours in black.
	ColorModeBinary
)

// Quality summarizes the conversion outcome.
type Quality struct {
	Accuracy       float64 // 60..95, degrades with processing time
	Smoothness     float64 // 50..90, degrades with path count
	FileSize       int     // byte length of the emitted SVG text
	ProcessingTime time.Duration
}

// renderSVG emits the vector document: a defs block with one degenerate
// single-stop gradient per region, a rect per region painted with its average
// color, and a polyline path per traced contour.
func renderSVG(width, height int, regions []Region, paths []Path, mode ColorMode, precision int) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(width, height, 0, 0, width, height)

	canvas.Def()
	for _, r := range regions {
		canvas.LinearGradient(fmt.Sprintf("region-%d", r.ID), 0, 0, 100, 0,
			[]svg.Offcolor{{
				Offset:  0,
				Color:   hexColor(r.Average),
				Opacity: float64(r.Average.A) / 255,
			}})
	}
	canvas.DefEnd()

	for _, r := range regions {
		canvas.Rect(r.Bounds.Min.X, r.Bounds.Min.Y, r.Bounds.Dx(), r.Bounds.Dy(),
			fmt.Sprintf("fill:%s;fill-opacity:%.3f", hexColor(r.Average), float64(r.Average.A)/255))
	}

	stroke := "white"
	if mode == ColorModeBinary {
		stroke = "black"
	}
	strokeWidth := utils.Max(1, precision)
	for _, p := range paths {
		canvas.Path(pathData(p),
			fmt.Sprintf("fill:none;stroke:%s;stroke-width:%d", stroke, strokeWidth))
	}

	canvas.End()
	return buf.String()
}

// pathData encodes a path as an SVG polyline: M x y L x y ..., closed with Z.
func pathData(p Path) string {
	var b strings.Builder
	for i, pt := range p.Points {
		if i == 0 {
			fmt.Fprintf(&b, "M%d %d", pt.X, pt.Y)
		} else {
			fmt.Fprintf(&b, " L%d %d", pt.X, pt.Y)
		}
	}
	if p.Closed {
		b.WriteString(" Z")
	}
	return b.String()
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// scoreQuality computes the summary metrics for an emitted document.
func scoreQuality(svgText string, pathCount int, elapsed time.Duration) Quality {
	ms := float64(elapsed.Milliseconds())
	return Quality{
		Accuracy:       utils.Clamp(100-(ms/1000)*10, 60, 95),
		Smoothness:     utils.Clamp(float64(100-2*pathCount), 50, 90),
		FileSize:       len(svgText),
		ProcessingTime: elapsed,
	}
}
