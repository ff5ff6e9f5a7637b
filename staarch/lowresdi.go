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
	"math"

	"github.com/johmast/imagefusion/collection"
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// DoDNeverDisturbed is the DoD sentinel for a pixel that never crosses its
// threshold within the interval (spec §4.7 step 2, "Initialise the DoD
// raster with the sentinel 'never disturbed'").
const DoDNeverDisturbed = math.MinInt32

// lowResDIEntry is one date's standardized disturbance index plus the
// validity mask it was computed from.
type lowResDIEntry struct {
	date int
	di   *raster.Raster
	mask *raster.Raster
}

// buildLowResDIStack computes a standardized DI raster for every low-res
// date in [left, right] inclusive (spec §4.7 step 2). dates must already
// be sorted ascending.
func buildLowResDIStack(col *collection.Collection, lowResTag, lowResMaskTag string, dates []int, opts Options) ([]lowResDIEntry, error) {
	stack := make([]lowResDIEntry, 0, len(dates))
	for _, d := range dates {
		img, err := col.Get(lowResTag, d)
		if err != nil {
			return nil, err
		}
		var mask *raster.Raster
		if lowResMaskTag != "" && col.Has(lowResMaskTag, d) {
			mask, err = col.Get(lowResMaskTag, d)
			if err != nil {
				return nil, err
			}
		}
		bgwn, err := buildBGWN(img, opts.LowResSensorType, opts.LowResSourceChannels)
		if err != nil {
			return nil, err
		}
		standardizeWholeImage(bgwn, mask)
		di := disturbanceIndex(bgwn)
		stack = append(stack, lowResDIEntry{date: d, di: di, mask: mask})
	}
	return stack, nil
}

// standardizeWholeImage z-scores each of bgwn's 4 channels over its own
// validity mask (spec §4.7 step 2: "standardise per-channel using that
// image's own validity mask", not per land-class).
func standardizeWholeImage(bgwn, mask *raster.Raster) {
	w, h := bgwn.Width(), bgwn.Height()
	for c := 0; c < 4; c++ {
		var values []float64
		var positions []int
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if maskValidAt(mask, x, y, 0) {
					values = append(values, bgwn.AtFast(x, y, c))
					positions = append(positions, y*w+x)
				}
			}
		}
		if !zscoreInPlace(values) {
			continue
		}
		for n, i := range positions {
			x, y := i%w, i/w
			bgwn.SetFast(x, y, c, values[n])
		}
	}
}

// windowBounds returns the inclusive [lo, hi] index range of stack indices
// contributing to the moving average centred/anchored at index i, per
// alignment (spec §4.7 step 2).
func windowBounds(i, n, length int, alignment Alignment) (int, int) {
	var lo, hi int
	switch alignment {
	case AlignForward:
		lo, hi = i, i+n-1
	case AlignBackward:
		lo, hi = i-n+1, i
	default: // AlignCentre
		lo, hi = i-(n-1)/2, i+n/2
	}
	if lo < 0 {
		lo = 0
	}
	if hi > length-1 {
		hi = length - 1
	}
	return lo, hi
}

// movingAverageDI applies a time-domain moving average of width n and the
// given alignment to stack's DI rasters, ORing the per-step masks across
// the window (spec §4.7 step 2).
func movingAverageDI(stack []lowResDIEntry, n int, alignment Alignment) []lowResDIEntry {
	out := make([]lowResDIEntry, len(stack))
	w, h := stack[0].di.Width(), stack[0].di.Height()
	for i := range stack {
		lo, hi := windowBounds(i, n, len(stack), alignment)
		avg := raster.New(w, h, 1, raster.F64)
		avgMask := raster.New(w, h, 1, raster.U8)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				var sum float64
				var count int
				anyValid := false
				for j := lo; j <= hi; j++ {
					if maskValidAt(stack[j].mask, x, y, 0) {
						sum += stack[j].di.AtFast(x, y, 0)
						count++
						anyValid = true
					}
				}
				if anyValid {
					avg.SetFast(x, y, 0, sum/float64(count))
					avgMask.SetFast(x, y, 0, 255)
				}
			}
		}
		out[i] = lowResDIEntry{date: stack[i].date, di: avg, mask: avgMask}
	}
	return out
}

// computeDoD assigns, for every pixel in change, the earliest date in
// averaged whose averaged DI exceeds its pixel-wise threshold, or
// DoDNeverDisturbed if none qualifies (spec §4.7 step 2).
func computeDoD(change *raster.Raster, averaged []lowResDIEntry, ratio float64) (*raster.Raster, error) {
	if len(averaged) == 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "computeDoD requires at least one low-res date")
	}
	w, h := change.Width(), change.Height()
	dod := raster.New(w, h, 1, raster.I32)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dod.SetFast(x, y, 0, DoDNeverDisturbed)
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if change.AtFast(x, y, 0) == 0 {
				continue
			}
			minV, maxV := math.Inf(1), math.Inf(-1)
			for _, e := range averaged {
				if !maskValidAt(e.mask, x, y, 0) {
					continue
				}
				v := e.di.AtFast(x, y, 0)
				minV = math.Min(minV, v)
				maxV = math.Max(maxV, v)
			}
			if math.IsInf(minV, 1) {
				continue // no contributing date at all: leave sentinel
			}
			threshold := minV + ratio*(maxV-minV)
			for _, e := range averaged {
				if !maskValidAt(e.mask, x, y, 0) {
					continue
				}
				if e.di.AtFast(x, y, 0) > threshold {
					dod.SetFast(x, y, 0, float64(e.date))
					break
				}
			}
		}
	}
	return dod, nil
}
