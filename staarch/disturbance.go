/*
Copyright © 2026 the imagefusion authors.
This file is part of imagefusion.

imagefusion is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

imagefusion is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with imagefusion.  If not, see <http://www.gnu.org/licenses/>.
*/

package staarch

import (
	"math/rand"

	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// bgwn channel indices within the 4-channel standardized image built by
// buildBGWN: brightness, greenness, wetness, NDVI.
const (
	chBrightness = 0
	chGreenness  = 1
	chWetness    = 2
	chNDVI       = 3
)

// buildBGWN applies sensor's tasseled-cap transform and NDVI to img,
// combining brightness/greenness/wetness/NDVI into one 4-channel F64
// raster (spec §4.7 step 1).
func buildBGWN(img *raster.Raster, sensor SensorType, sourceChannels []int) (*raster.Raster, error) {
	tc, err := tasseledCap(img, sensor, sourceChannels)
	if err != nil {
		return nil, err
	}
	redIdx, ok := bandChannel(sensor, BandRed, sourceChannels)
	if !ok {
		return nil, imgerr.New(imgerr.InvalidArgument, "sensor has no default red band channel")
	}
	nirIdx, ok := bandChannel(sensor, BandNIR, sourceChannels)
	if !ok {
		return nil, imgerr.New(imgerr.InvalidArgument, "sensor has no default nir band channel")
	}
	nd, err := ndvi(img, redIdx, nirIdx)
	if err != nil {
		return nil, err
	}
	out := raster.New(img.Width(), img.Height(), 4, raster.F64)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			out.SetFast(x, y, chBrightness, tc.AtFast(x, y, 0))
			out.SetFast(x, y, chGreenness, tc.AtFast(x, y, 1))
			out.SetFast(x, y, chWetness, tc.AtFast(x, y, 2))
			out.SetFast(x, y, chNDVI, nd.AtFast(x, y, 0))
		}
	}
	return out, nil
}

// classify returns a per-pixel land-class label (row-major), using
// opts.ClusterImage when supplied (negative values there mark invalid
// pixels) or else k-means++ over tc's [B, G, W] triplet restricted to
// pixels valid is true for (spec §4.7 step 1, and §9's cluster_image
// override).
func classify(tc *raster.Raster, valid *raster.Raster, opts Options, rng *rand.Rand) ([]int, error) {
	w, h := tc.Width(), tc.Height()
	labels := make([]int, w*h)
	if opts.ClusterImage != nil {
		if opts.ClusterImage.Width() != w || opts.ClusterImage.Height() != h {
			return nil, imgerr.New(imgerr.Size, "cluster_image extent does not match the high-res endpoint")
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				labels[y*w+x] = int(opts.ClusterImage.AtFast(x, y, 0))
			}
		}
		return labels, nil
	}
	var points [][]float64
	var idx []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !maskValidAt(valid, x, y, 0) {
				labels[y*w+x] = -1
				continue
			}
			points = append(points, []float64{tc.AtFast(x, y, chBrightness), tc.AtFast(x, y, chGreenness), tc.AtFast(x, y, chWetness)})
			idx = append(idx, y*w+x)
		}
	}
	if len(points) == 0 {
		return labels, nil
	}
	k := opts.NumberLandClasses
	if k > len(points) {
		k = len(points)
	}
	pointLabels, err := kMeansPlusPlus(points, k, rng, 50)
	if err != nil {
		return nil, err
	}
	for i, l := range pointLabels {
		labels[idx[i]] = l
	}
	return labels, nil
}

// zscoreByClass standardises each of bgwn's 4 channels in place,
// independently per class, over the pixels where valid is true and
// labels >= 0 (spec §4.7 step 1).
func zscoreByClass(bgwn *raster.Raster, labels []int, valid *raster.Raster) {
	w, h := bgwn.Width(), bgwn.Height()
	classes := map[int]bool{}
	for _, l := range labels {
		if l >= 0 {
			classes[l] = true
		}
	}
	for class := range classes {
		var positions []int
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if labels[i] == class && maskValidAt(valid, x, y, 0) {
					positions = append(positions, i)
				}
			}
		}
		if len(positions) == 0 {
			continue
		}
		for c := 0; c < 4; c++ {
			values := make([]float64, len(positions))
			for n, i := range positions {
				x, y := i%w, i/w
				values[n] = bgwn.AtFast(x, y, c)
			}
			zscoreInPlace(values)
			for n, i := range positions {
				x, y := i%w, i/w
				bgwn.SetFast(x, y, c, values[n])
			}
		}
	}
}

// disturbanceIndex computes DI = B - G - W (in standardized space) for
// every pixel of bgwn.
func disturbanceIndex(bgwn *raster.Raster) *raster.Raster {
	w, h := bgwn.Width(), bgwn.Height()
	di := raster.New(w, h, 1, raster.F64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := bgwn.AtFast(x, y, chBrightness)
			g := bgwn.AtFast(x, y, chGreenness)
			wv := bgwn.AtFast(x, y, chWetness)
			di.SetFast(x, y, 0, b-g-wv)
		}
	}
	return di
}

// neighborOffsets returns the relative (dx, dy) offsets for shape.
func neighborOffsets(shape NeighborShape) [][2]int {
	cross := [][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	if shape == NeighborCross {
		return cross
	}
	return append(cross, [2]int{-1, -1}, [2]int{-1, 1}, [2]int{1, -1}, [2]int{1, 1})
}

// disturbedMask marks pixels disturbed at an endpoint: DI within range and
// at least one neighbour also in range, plus each of brightness,
// greenness, wetness and NDVI within their own ranges (spec §4.7 step 1).
func disturbedMask(bgwn, di *raster.Raster, opts Options) *raster.Raster {
	w, h := bgwn.Width(), bgwn.Height()
	out := raster.New(w, h, 1, raster.U8)
	offsets := neighborOffsets(opts.NeighborShape)
	diValid := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return opts.HighResDIRange.Contains(di.AtFast(x, y, 0), true)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !diValid(x, y) {
				continue
			}
			neighborOK := false
			for _, o := range offsets {
				if diValid(x+o[0], y+o[1]) {
					neighborOK = true
					break
				}
			}
			if !neighborOK {
				continue
			}
			if !opts.HighResBrightnessRange.Contains(bgwn.AtFast(x, y, chBrightness), true) {
				continue
			}
			if !opts.HighResGreennessRange.Contains(bgwn.AtFast(x, y, chGreenness), true) {
				continue
			}
			if !opts.HighResWetnessRange.Contains(bgwn.AtFast(x, y, chWetness), true) {
				continue
			}
			if !opts.HighResNDVIRange.Contains(bgwn.AtFast(x, y, chNDVI), true) {
				continue
			}
			out.SetFast(x, y, 0, 255)
		}
	}
	return out
}

// maskValidAt mirrors starfm's helper of the same purpose: nil/zero-extent
// masks are all-valid, single-channel masks broadcast across channels.
func maskValidAt(m *raster.Raster, x, y, c int) bool {
	if m == nil || m.Width() == 0 || m.Height() == 0 {
		return true
	}
	mc := c
	if m.Channels() == 1 {
		mc = 0
	}
	return m.AtFast(x, y, mc) != 0
}

// changeMask builds the high-resolution change mask: disturbed at the
// right endpoint but not at the left (spec §4.7 step 1).
func changeMask(leftImg, rightImg, validLeft, validRight *raster.Raster, opts Options, rng *rand.Rand) (*raster.Raster, error) {
	bgwnLeft, err := buildBGWN(leftImg, opts.HighResSensorType, opts.HighResSourceChannels)
	if err != nil {
		return nil, err
	}
	bgwnRight, err := buildBGWN(rightImg, opts.HighResSensorType, opts.HighResSourceChannels)
	if err != nil {
		return nil, err
	}
	labels, err := classify(bgwnLeft, validLeft, opts, rng)
	if err != nil {
		return nil, err
	}
	zscoreByClass(bgwnLeft, labels, validLeft)
	zscoreByClass(bgwnRight, labels, validRight)

	diLeft := disturbanceIndex(bgwnLeft)
	diRight := disturbanceIndex(bgwnRight)

	disturbedLeft := disturbedMask(bgwnLeft, diLeft, opts)
	disturbedRight := disturbedMask(bgwnRight, diRight, opts)

	w, h := leftImg.Width(), leftImg.Height()
	out := raster.New(w, h, 1, raster.U8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if disturbedRight.AtFast(x, y, 0) != 0 && disturbedLeft.AtFast(x, y, 0) == 0 {
				out.SetFast(x, y, 0, 255)
			}
		}
	}
	return out, nil
}
