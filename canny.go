package vectra

import (
	"image"
	"math"

	"github.com/denesv/vectra/utils"
)

// gaussianKernel is the fixed 3x3 blur kernel, normalized by 16.
var gaussianKernel = kernel{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

// CannyDetector detects image edges using the Canny pipeline:
// Gaussian blur, Sobel gradient, non-maximum suppression and
// double-threshold hysteresis.
// See https://en.wikipedia.org/wiki/Canny_edge_detector
type CannyDetector struct{}

func (CannyDetector) Detect(img *image.NRGBA, opts EdgeOptions) (*Mask, *Gradient, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	gray := Grayscale(img)
	if opts.GaussianBlur {
		gray = gaussianBlur(gray)
	}

	grad := suppressNonMax(sobelGradient(gray))
	return hysteresis(grad, opts.LowThreshold, opts.HighThreshold), grad, nil
}

// AdaptiveDetector derives the hysteresis thresholds from the grayscale
// statistics of the whole raster and delegates to the Canny detector.
type AdaptiveDetector struct{}

func (AdaptiveDetector) Detect(img *image.NRGBA, opts EdgeOptions) (*Mask, *Gradient, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	mean, stddev := intensityStats(Grayscale(img))
	threshold := utils.Clamp(mean+1.5*stddev, 10, 255)

	opts.LowThreshold = 0.5 * threshold
	opts.HighThreshold = threshold
	return CannyDetector{}.Detect(img, opts)
}

// gaussianBlur convolves the interior pixels with the 3x3 Gaussian kernel.
// Border pixels are copied through unchanged.
func gaussianBlur(src *image.Gray) *image.Gray {
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)

	for y := 1; y < dy-1; y++ {
		for x := 1; x < dx-1; x++ {
			var sum int32
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					sum += int32(src.Pix[(y+ky-1)*src.Stride+(x+kx-1)]) * gaussianKernel[ky][kx]
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8(sum / 16)
		}
	}
	return dst
}

// suppressNonMax thins the gradient ridges: a pixel keeps its magnitude only
// if it is not exceeded by either of its two neighbors along the quantized
// gradient direction.
func suppressNonMax(g *Gradient) *Gradient {
	w, h := g.Width, g.Height
	out := NewGradient(w, h)
	copy(out.Direction, g.Direction)

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			mag := g.Magnitude[i]
			if mag == 0 {
				continue
			}

			// Fold the direction into [0, pi) and quantize it into the
			// 0, 45, 90 and 135 degree buckets.
			angle := math.Mod(math.Mod(g.Direction[i], math.Pi)+math.Pi, math.Pi)
			var n1, n2 int
			switch {
			case angle < math.Pi/8 || angle >= 7*math.Pi/8: // horizontal
				n1, n2 = i-1, i+1
			case angle < 3*math.Pi/8: // 45 degrees
				n1, n2 = i-w+1, i+w-1
			case angle < 5*math.Pi/8: // vertical
				n1, n2 = i-w, i+w
			default: // 135 degrees
				n1, n2 = i-w-1, i+w+1
			}

			if mag >= g.Magnitude[n1] && mag >= g.Magnitude[n2] {
				out.Magnitude[i] = mag
			}
		}
	}
	return out
}

// hysteresis classifies pixels with magnitude >= high as strong edges and
// grows the final edge set from them over every 8-connected pixel with
// magnitude >= low. Isolated weak pixels are dropped. The flood fill uses an
// explicit stack so large images cannot exhaust the call stack.
func hysteresis(g *Gradient, low, high float64) *Mask {
	w, h := g.Width, g.Height
	m := NewMask(w, h)
	if w < 3 || h < 3 {
		return m
	}

	stack := make([]int, 0, 64)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if m.bits[i] || g.Magnitude[i] < high {
				continue
			}

			m.bits[i] = true
			stack = append(stack, i)
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				px, py := p%w, p/w

				for ny := py - 1; ny <= py+1; ny++ {
					for nx := px - 1; nx <= px+1; nx++ {
						if nx < 1 || ny < 1 || nx > w-2 || ny > h-2 {
							continue
						}
						n := ny*w + nx
						if !m.bits[n] && g.Magnitude[n] >= low {
							m.bits[n] = true
							stack = append(stack, n)
						}
					}
				}
			}
		}
	}
	return m
}
