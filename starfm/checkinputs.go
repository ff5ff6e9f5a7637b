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

package starfm

import (
	"math"

	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// pairRasters is the per-pair working set the core loop scans: a
// high-resolution reference Hk and its co-registered low-resolution
// counterpart Lk, both at date.
type pairRasters struct {
	date int
	H    *raster.Raster
	L    *raster.Raster
}

// checkInputs enforces presence, size, channel-count, and basetype equality
// across every image and mask before a single pixel is touched (spec §4.5
// "Failure semantics", §7). Passing this makes the hot loop infallible.
func checkInputs(pairs []pairRasters, l2 *raster.Raster, validityMask, predictionMask *raster.Raster) error {
	if len(pairs) == 0 {
		return imgerr.New(imgerr.InvalidArgument, "at least one reference pair is required")
	}
	ref := pairs[0].H
	for _, p := range pairs {
		if p.H == nil || p.L == nil {
			return imgerr.New(imgerr.NotFound, "pair at date %d is missing its high- or low-resolution raster", p.date).WithDate(p.date)
		}
		if !p.H.SameShape(ref) || p.H.ElementType() != ref.ElementType() {
			return imgerr.New(imgerr.ImageType, "high-res raster at date %d does not match the reference shape/type", p.date).WithDate(p.date)
		}
		if !p.L.SameShape(ref) || p.L.ElementType() != ref.ElementType() {
			return imgerr.New(imgerr.ImageType, "low-res raster at date %d does not match the reference shape/type", p.date).WithDate(p.date)
		}
	}
	if l2 == nil {
		return imgerr.New(imgerr.NotFound, "the prediction-date low-resolution raster is required")
	}
	if !l2.SameShape(ref) || l2.ElementType() != ref.ElementType() {
		return imgerr.New(imgerr.ImageType, "prediction-date low-res raster does not match the reference shape/type")
	}
	if validityMask != nil && validityMask.Width() > 0 && validityMask.Height() > 0 {
		if validityMask.Width() != ref.Width() || validityMask.Height() != ref.Height() {
			return imgerr.New(imgerr.Size, "validity mask extent does not match the reference rasters")
		}
		if validityMask.Channels() != 1 && validityMask.Channels() != ref.Channels() {
			return imgerr.New(imgerr.ImageType, "validity mask must have 1 or %d channels, got %d", ref.Channels(), validityMask.Channels())
		}
	}
	if predictionMask != nil && predictionMask.Width() > 0 && predictionMask.Height() > 0 {
		if predictionMask.Width() != ref.Width() || predictionMask.Height() != ref.Height() {
			return imgerr.New(imgerr.Size, "prediction mask extent does not match the reference rasters")
		}
		if predictionMask.Channels() != 1 {
			return imgerr.New(imgerr.ImageType, "prediction mask must be single-channel, got %d channels", predictionMask.Channels())
		}
	}
	return nil
}

// windowRect clips the W x W square centred on (xc, yc) to bounds.
func windowRect(xc, yc, half, width, height int) raster.Rect {
	x0, y0 := xc-half, yc-half
	x1, y1 := xc+half, yc+half
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width-1 {
		x1 = width - 1
	}
	if y1 > height-1 {
		y1 = height - 1
	}
	return raster.Rect{X: x0, Y: y0, W: x1 - x0 + 1, H: y1 - y0 + 1}
}

// windowStdDev computes the population standard deviation of channel c of r
// over window, restricted to locations valid in mask (spec §4.5 step 2). An
// empty sample returns 0, matching a degenerate window where every location
// is masked out (the ensuing zero tolerance simply admits no non-central
// candidate).
func windowStdDev(r *raster.Raster, mask *raster.Raster, window raster.Rect, c int) float64 {
	var sum float64
	var n int
	for y := window.Y; y < window.Y+window.H; y++ {
		for x := window.X; x < window.X+window.W; x++ {
			if maskValidAt(mask, x, y, c) {
				sum += r.AtFast(x, y, c)
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	var sq float64
	for y := window.Y; y < window.Y+window.H; y++ {
		for x := window.X; x < window.X+window.W; x++ {
			if maskValidAt(mask, x, y, c) {
				d := r.AtFast(x, y, c) - mean
				sq += d * d
			}
		}
	}
	return math.Sqrt(sq / float64(n))
}

// maskValidAt mirrors raster's internal maskAt (unexported across packages):
// nil or zero-extent masks are all-valid, single-channel masks broadcast.
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
