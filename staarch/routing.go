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
	"github.com/johmast/imagefusion/raster"
	"github.com/johmast/imagefusion/starfm"
)

// routingMasks builds the three STARFM prediction masks for prediction
// date predictionDate (spec §4.7, "Prediction routing"). A pixel is
// "disturbed" iff dod's value is not the sentinel; undisturbed pixels
// always route to both, and disturbed pixels route to left-only or
// right-only depending on whether the disturbance happened after or
// before/at predictionDate.
func routingMasks(dod *raster.Raster, predictionDate int) (both, leftOnly, rightOnly *raster.Raster) {
	w, h := dod.Width(), dod.Height()
	both = raster.New(w, h, 1, raster.U8)
	leftOnly = raster.New(w, h, 1, raster.U8)
	rightOnly = raster.New(w, h, 1, raster.U8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := int(dod.AtFast(x, y, 0))
			switch {
			case d == DoDNeverDisturbed:
				both.SetFast(x, y, 0, 255)
			case d > predictionDate:
				leftOnly.SetFast(x, y, 0, 255)
			default: // d <= predictionDate
				rightOnly.SetFast(x, y, 0, 255)
			}
		}
	}
	return both, leftOnly, rightOnly
}

// predictRouted invokes STARFM three times (both-pairs, left-only,
// right-only) against their respective prediction masks and composites
// the three outputs by overlay: both, then left-only overwrites, then
// right-only overwrites (spec §4.7, "Prediction routing" step 3). Each of
// the three runs fans out across numWorkers stripes through
// starfm.RunParallel (spec §2, §4.7, §5: "STAARCH invokes this driver
// internally").
func predictRouted(both, leftOnly, rightOnly *instanceSet, predictionDate int, validity *raster.Raster, numWorkers int) (*raster.Raster, error) {
	bothOut, err := starfm.RunParallel(both.instance, predictionDate, validity, both.mask, numWorkers)
	if err != nil {
		return nil, err
	}
	out := bothOut.Clone()
	if leftOnly.instance != nil {
		leftOut, err := starfm.RunParallel(leftOnly.instance, predictionDate, validity, leftOnly.mask, numWorkers)
		if err != nil {
			return nil, err
		}
		if err := out.CopyFrom(leftOut, leftOnly.mask); err != nil {
			return nil, err
		}
	}
	if rightOnly.instance != nil {
		rightOut, err := starfm.RunParallel(rightOnly.instance, predictionDate, validity, rightOnly.mask, numWorkers)
		if err != nil {
			return nil, err
		}
		if err := out.CopyFrom(rightOut, rightOnly.mask); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// instanceSet pairs a STARFM instance (nil if the corresponding pairing
// isn't applicable, e.g. left-only with a single-pair interval) with the
// prediction mask routingMasks computed for it.
type instanceSet struct {
	instance *starfm.Instance
	mask     *raster.Raster
}
