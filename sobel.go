package vectra

import (
	"image"
	"math"
)

type kernel [3][3]int32

var (
	kernelX = kernel{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}

	kernelY = kernel{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// SobelDetector detects image edges by thresholding the gradient magnitude.
// See https://en.wikipedia.org/wiki/Sobel_operator
type SobelDetector struct{}

// Detect convolves the grayscale converted raster with the two Sobel kernels
// and marks every interior pixel whose gradient magnitude exceeds the
// configured threshold. Border pixels are never evaluated.
func (SobelDetector) Detect(img *image.NRGBA, opts EdgeOptions) (*Mask, *Gradient, error) {
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}
	grad := sobelGradient(Grayscale(img))
	return grad.mask(opts.Threshold), grad, nil
}

// sobelGradient computes the gradient magnitude and direction for every
// interior pixel of the grayscale image. Images smaller than 3x3 have no
// interior pixels and produce a zeroed field.
func sobelGradient(gray *image.Gray) *Gradient {
	dx, dy := gray.Bounds().Dx(), gray.Bounds().Dy()
	grad := NewGradient(dx, dy)

	for y := 1; y < dy-1; y++ {
		for x := 1; x < dx-1; x++ {
			var sumX, sumY int32
			// Sum the 3x3 window around the pixel with the kernel values.
			for ky := 0; ky < 3; ky++ {
				for kx := 0; kx < 3; kx++ {
					px := int32(gray.Pix[(y+ky-1)*gray.Stride+(x+kx-1)])
					sumX += px * kernelX[ky][kx]
					sumY += px * kernelY[ky][kx]
				}
			}
			i := y*dx + x
			grad.Magnitude[i] = math.Sqrt(float64(sumX*sumX) + float64(sumY*sumY))
			grad.Direction[i] = math.Atan2(float64(sumY), float64(sumX))
		}
	}
	return grad
}
