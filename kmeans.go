package vectra

import (
	"image"
	"image/color"
	"math"
	"math/rand"
)

// Cluster groups raster colors around a k-means centroid. The bounding box
// covers every pixel whose color belongs to the cluster.
type Cluster struct {
	Centroid color.NRGBA
	Colors   []color.NRGBA
	Bounds   image.Rectangle
}

// KMeans clusters the raster's palette. Colors are first deduplicated within
// the similarity threshold; when the palette has no more colors than the
// requested cluster count, every unique color becomes its own cluster.
// Otherwise the centroids start from k random distinct colors and iterate
// until the largest centroid movement drops to the convergence threshold or
// the iteration cap is reached.
func KMeans(img *image.NRGBA, opts SegmentOptions) ([]Cluster, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	colors, boxes := uniquePalette(img, opts.ColorSimilarity)
	if len(colors) == 0 {
		return nil, nil
	}

	if len(colors) <= opts.Clusters {
		clusters := make([]Cluster, len(colors))
		for i, c := range colors {
			clusters[i] = Cluster{
				Centroid: c,
				Colors:   []color.NRGBA{c},
				Bounds:   boxes[i],
			}
		}
		return clusters, nil
	}

	centroids := make([]color.NRGBA, opts.Clusters)
	for i, idx := range rand.Perm(len(colors))[:opts.Clusters] {
		centroids[i] = colors[idx]
	}

	assign := make([]int, len(colors))
	for iter := 0; iter < opts.MaxIterations; iter++ {
		assignColors(colors, centroids, assign)
		if moveCentroids(colors, assign, centroids) <= opts.Convergence {
			break
		}
	}
	assignColors(colors, centroids, assign)

	clusters := make([]Cluster, len(centroids))
	for k := range clusters {
		clusters[k].Centroid = centroids[k]
	}
	for i, c := range colors {
		cl := &clusters[assign[i]]
		cl.Colors = append(cl.Colors, c)
		if cl.Bounds.Empty() {
			cl.Bounds = boxes[i]
		} else {
			cl.Bounds = cl.Bounds.Union(boxes[i])
		}
	}

	out := clusters[:0]
	for _, cl := range clusters {
		if len(cl.Colors) > 0 {
			out = append(out, cl)
		}
	}
	return out, nil
}

// assignColors maps every color to its nearest centroid.
func assignColors(colors, centroids []color.NRGBA, assign []int) {
	for i, c := range colors {
		best, bestDist := 0, math.MaxFloat64
		for k, ct := range centroids {
			if d := colorDistance(c, ct); d < bestDist {
				best, bestDist = k, d
			}
		}
		assign[i] = best
	}
}

// moveCentroids recomputes every non-empty centroid as the rounded mean of
// its members and returns the largest centroid movement.
func moveCentroids(colors []color.NRGBA, assign []int, centroids []color.NRGBA) float64 {
	var move float64
	for k := range centroids {
		var members []color.NRGBA
		for i, a := range assign {
			if a == k {
				members = append(members, colors[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		next := averageColor(members)
		if d := colorDistance(next, centroids[k]); d > move {
			move = d
		}
		centroids[k] = next
	}
	return move
}

// uniquePalette deduplicates the raster colors: a color folds into the first
// seen representative lying within the similarity threshold. The returned
// boxes track where each representative's members occur in the raster.
func uniquePalette(img *image.NRGBA, similarity float64) ([]color.NRGBA, []image.Rectangle) {
	dx, dy := img.Bounds().Dx(), img.Bounds().Dy()

	var colors []color.NRGBA
	var boxes []image.Rectangle

	for y := 0; y < dy; y++ {
		for x := 0; x < dx; x++ {
			c := nrgbaAt(img, x, y)
			px := image.Rect(x, y, x+1, y+1)

			found := false
			for i, rep := range colors {
				if colorDistance(c, rep) <= similarity {
					boxes[i] = boxes[i].Union(px)
					found = true
					break
				}
			}
			if !found {
				colors = append(colors, c)
				boxes = append(boxes, px)
			}
		}
	}
	return colors, boxes
}
