package vectra

import (
	"image"
	"math"
)

// Grayscale converts the image to its luminance plane using the
// BT.601 weights, rounding each sample to the nearest integer.
func Grayscale(src *image.NRGBA) *image.Gray {
	dx, dy := src.Bounds().Dx(), src.Bounds().Dy()
	dst := image.NewGray(image.Rect(0, 0, dx, dy))

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			i := src.PixOffset(x, y)
			r, g, b := src.Pix[i], src.Pix[i+1], src.Pix[i+2]
			lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
			dst.Pix[y*dst.Stride+x] = uint8(math.Round(lum))
		}
	}
	return dst
}

// intensityStats returns the mean and standard deviation of the
// grayscale intensities.
func intensityStats(gray *image.Gray) (mean, stddev float64) {
	n := len(gray.Pix)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, p := range gray.Pix {
		sum += float64(p)
	}
	mean = sum / float64(n)

	var varSum float64
	for _, p := range gray.Pix {
		d := float64(p) - mean
		varSum += d * d
	}
	stddev = math.Sqrt(varSum / float64(n))
	return mean, stddev
}
