/*
Package vectra is a raster-to-vector conversion library, which approximates
a raster image with an SVG document built from color-homogeneous regions and
traced edge contours. It is self contained: edge detection, contour tracing,
color segmentation and SVG assembly are all implemented from first principles,
without delegating to an external vectorization library.

The package provides a command line interface, supporting various flags for
the different pipeline stages. To check the supported commands type:

	$ vectra --help

In case you wish to integrate the API in a self constructed environment here
is a simple example:

	package main

	import (
		"fmt"
		"os"

		"github.com/denesv/vectra"
	)

	func main() {
		v := vectra.NewVectorizer()

		in, _ := os.Open("input.png")
		out, _ := os.Create("output.svg")

		if err := v.Process(in, out); err != nil {
			fmt.Printf("Error vectorizing image: %s", err.Error())
		}
	}
*/
package vectra
