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

package raster

import "github.com/johmast/imagefusion/imgerr"

// ColorMapping selects one of the fixed catalogue of linear channel
// combinations ConvertColor knows how to apply (spec §4.1).
type ColorMapping int

const (
	// TasseledCapMODIS maps 7 MODIS bands to brightness/greenness/wetness.
	TasseledCapMODIS ColorMapping = iota
	// TasseledCapLandsat maps 6 Landsat bands to brightness/greenness/wetness.
	TasseledCapLandsat
	// NDVI computes (NIR-Red)/(NIR+Red) from a 2-channel [Red, NIR] source.
	NDVI
	// BuildUpIndex computes a linear combination of red/NIR/SWIR.
	BuildUpIndex
)

// tasseled-cap coefficients, one row per output channel (brightness,
// greenness, wetness), one column per source band, in the canonical band
// order documented for each sensor.
var tcMODIS = [3][7]float64{
	{0.4395, 0.5945, 0.2460, 0.3918, 0.3506, 0.2136, 0.2678},
	{-0.4064, 0.5129, -0.2744, -0.2893, 0.4882, -0.0036, -0.4169},
	{0.1147, 0.2489, 0.2408, 0.3132, -0.3122, -0.6416, -0.5087},
}

var tcLandsat = [3][6]float64{
	{0.3037, 0.2793, 0.4743, 0.5585, 0.5082, 0.1863},
	{-0.2848, -0.2435, -0.5436, 0.7243, 0.0840, -0.1800},
	{0.1509, 0.1973, 0.3279, 0.3406, -0.7112, -0.4572},
}

// buildUpCoeffs weights [red, nir, swir1] into a single build-up index
// channel, following the documented linear combination in spec §4.1.
var buildUpCoeffs = [3]float64{-0.5, -0.5, 1.0}

func (m ColorMapping) sourceChannels() int {
	switch m {
	case TasseledCapMODIS:
		return 7
	case TasseledCapLandsat:
		return 6
	case NDVI:
		return 2
	case BuildUpIndex:
		return 3
	default:
		return 0
	}
}

func (m ColorMapping) resultChannels() int {
	switch m {
	case TasseledCapMODIS, TasseledCapLandsat:
		return 3
	case NDVI, BuildUpIndex:
		return 1
	default:
		return 0
	}
}

// ConvertColor applies mapping to r, producing a raster of resultType with
// mapping.resultChannels() channels. sourceChannelOrder, if non-nil, gives
// the source-raster channel index that carries each of the mapping's
// canonical input bands (e.g. letting a caller whose image stores bands in
// a non-standard order still drive the fixed tasseled-cap matrices).
func (r *Raster) ConvertColor(mapping ColorMapping, resultType ElementType, sourceChannelOrder []int) (*Raster, error) {
	want := mapping.sourceChannels()
	if want == 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "unknown color mapping %d", mapping)
	}
	if sourceChannelOrder == nil {
		sourceChannelOrder = make([]int, want)
		for i := range sourceChannelOrder {
			sourceChannelOrder[i] = i
		}
	}
	if len(sourceChannelOrder) != want {
		return nil, imgerr.New(imgerr.ImageType, "color mapping needs %d source bands, got %d channel indices", want, len(sourceChannelOrder))
	}
	if r.channels < want {
		return nil, imgerr.New(imgerr.ImageType, "raster has %d channels, color mapping needs %d", r.channels, want)
	}
	out := New(r.width, r.height, mapping.resultChannels(), resultType)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			src := make([]float64, want)
			for i, c := range sourceChannelOrder {
				src[i] = r.AtFast(x, y, c)
			}
			switch mapping {
			case TasseledCapMODIS:
				for o := 0; o < 3; o++ {
					var v float64
					for i := 0; i < 7; i++ {
						v += tcMODIS[o][i] * src[i]
					}
					out.SetFast(x, y, o, v)
				}
			case TasseledCapLandsat:
				for o := 0; o < 3; o++ {
					var v float64
					for i := 0; i < 6; i++ {
						v += tcLandsat[o][i] * src[i]
					}
					out.SetFast(x, y, o, v)
				}
			case NDVI:
				red, nir := src[0], src[1]
				denom := nir + red
				v := 0.0
				if denom != 0 {
					v = (nir - red) / denom
				}
				out.SetFast(x, y, 0, v)
			case BuildUpIndex:
				var v float64
				for i := 0; i < 3; i++ {
					v += buildUpCoeffs[i] * src[i]
				}
				out.SetFast(x, y, 0, v)
			}
		}
	}
	return out, nil
}
