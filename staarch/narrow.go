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
	"github.com/johmast/imagefusion/collection"
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/mask"
	"github.com/johmast/imagefusion/raster"
)

// bandIndices resolves opts' output band names to channel indices for
// sensor, honoring the caller's SourceChannels permutation (spec §4.7,
// "Prediction routing" step 1: a user-supplied band-name list plus
// per-sensor default band-name -> channel-index maps).
func bandIndices(bands []string, sensor SensorType, sourceChannels []int) ([]int, error) {
	idxs := make([]int, len(bands))
	for i, b := range bands {
		idx, ok := bandChannel(sensor, b, sourceChannels)
		if !ok {
			return nil, imgerr.New(imgerr.InvalidArgument, "band %q has no channel for this sensor", b).WithOption("output_bands")
		}
		idxs[i] = idx
	}
	return idxs, nil
}

// selectChannels copies the named channels of img, in order, into a new
// owning raster of the same extent and element type.
func selectChannels(img *raster.Raster, idxs []int) (*raster.Raster, error) {
	for _, idx := range idxs {
		if idx < 0 || idx >= img.Channels() {
			return nil, imgerr.New(imgerr.ImageType, "channel %d out of range for a %d-channel image", idx, img.Channels())
		}
	}
	out := raster.New(img.Width(), img.Height(), len(idxs), img.ElementType())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			for c, idx := range idxs {
				out.SetFast(x, y, c, img.AtFast(x, y, idx))
			}
		}
	}
	return out, nil
}

// narrowToOutputBands derives a collection holding only opts.OutputBands'
// channels of the rasters the three routed STARFM runs read: the high-res
// endpoints and the low-res images at both endpoints plus predictionDate
// (spec §4.7, "Prediction routing" step 1). With no output_bands set the
// source collection is used as-is, so the common fast path allocates
// nothing.
func narrowToOutputBands(col *collection.Collection, opts Options, predictionDate int) (*collection.Collection, error) {
	if len(opts.OutputBands) == 0 {
		return col, nil
	}
	highIdx, err := bandIndices(opts.OutputBands, opts.HighResSensorType, opts.HighResSourceChannels)
	if err != nil {
		return nil, err
	}
	lowIdx, err := bandIndices(opts.OutputBands, opts.LowResSensorType, opts.LowResSourceChannels)
	if err != nil {
		return nil, err
	}
	narrowed := collection.New()
	for _, d := range []int{opts.IntervalLeft, opts.IntervalRight} {
		img, err := col.Get(opts.Inner.HighResTag, d)
		if err != nil {
			return nil, err
		}
		sel, err := selectChannels(img, highIdx)
		if err != nil {
			return nil, err
		}
		narrowed.Set(opts.Inner.HighResTag, d, sel)
	}
	for _, d := range []int{opts.IntervalLeft, opts.IntervalRight, predictionDate} {
		img, err := col.Get(opts.Inner.LowResTag, d)
		if err != nil {
			return nil, err
		}
		sel, err := selectChannels(img, lowIdx)
		if err != nil {
			return nil, err
		}
		narrowed.Set(opts.Inner.LowResTag, d, sel)
	}
	return narrowed, nil
}

// baseValidity composes the layered validity mask the three routed STARFM
// runs share: the per-pair high-res masks at both endpoints ANDed with the
// per-date low-res masks at both endpoints and predictionDate, each layer
// optional (spec §4.3, "Special semantics for the fusion driver"; §4.7
// step 3's "the same base validity"). A nil return means all-valid.
func baseValidity(col *collection.Collection, opts Options, predictionDate int) (*raster.Raster, error) {
	var layers []*mask.Mask
	if opts.HighResMaskTag != "" {
		for _, d := range []int{opts.IntervalLeft, opts.IntervalRight} {
			if col.Has(opts.HighResMaskTag, d) {
				m, err := col.Get(opts.HighResMaskTag, d)
				if err != nil {
					return nil, err
				}
				layers = append(layers, m)
			}
		}
	}
	if opts.LowResMaskTag != "" {
		for _, d := range []int{opts.IntervalLeft, opts.IntervalRight, predictionDate} {
			if col.Has(opts.LowResMaskTag, d) {
				m, err := col.Get(opts.LowResMaskTag, d)
				if err != nil {
					return nil, err
				}
				layers = append(layers, m)
			}
		}
	}
	if len(layers) == 0 {
		return nil, nil
	}
	combined, err := mask.DefaultValidity(layers...)
	if err != nil {
		return nil, err
	}
	return combined, nil
}
