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
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// defaultBandOrder is the canonical band-name order each sensor's
// tasseled-cap coefficients expect, used when the caller does not supply
// an explicit SourceChannels permutation (spec §6, "per-sensor default
// band-name->channel-index maps").
var defaultBandOrder = map[SensorType][]string{
	SensorMODIS:     {"red", "nir", "blue", "green", "swir1", "swir2", "swir3"},
	SensorLandsat:   {"blue", "green", "red", "nir", "swir1", "swir2"},
	SensorSentinel2: {"blue", "green", "red", "nir", "swir1", "swir2"},
	SensorSentinel3: {"red", "nir", "blue", "green", "swir1", "swir2", "swir3"},
}

// colorMappingFor returns the raster tasseled-cap ColorMapping matching
// sensor. MODIS and Sentinel-3 share the 7-band matrix (Sentinel-3's
// OLCI/SLSTR band set follows the same red/nir/blue/green/swir1/swir2/swir3
// order as MODIS, per defaultBandOrder); Landsat and Sentinel-2 share the
// 6-band coefficient structure, since the pack carries no sensor-specific
// Sentinel-2 tasseled-cap matrix and the published coefficients are
// themselves an adaptation of the Landsat ones onto the same 6 broad bands
// (documented approximation).
func colorMappingFor(sensor SensorType) raster.ColorMapping {
	if sensor == SensorMODIS || sensor == SensorSentinel3 {
		return raster.TasseledCapMODIS
	}
	return raster.TasseledCapLandsat
}

// bandCountFor returns the number of source bands sensor's tasseled-cap
// matrix expects, independent of any caller-supplied channel permutation
// (spec §6).
func bandCountFor(sensor SensorType) int {
	switch sensor {
	case SensorMODIS, SensorSentinel3:
		return 7
	default:
		return 6
	}
}

// tasseledCap applies sensor's tasseled-cap transform to img, honoring an
// explicit channel permutation when given. sourceChannels, if non-nil, must
// name exactly bandCountFor(sensor) source channels.
func tasseledCap(img *raster.Raster, sensor SensorType, sourceChannels []int) (*raster.Raster, error) {
	want := bandCountFor(sensor)
	if sourceChannels != nil && len(sourceChannels) != want {
		return nil, imgerr.New(imgerr.ImageType, "source_channels has %d entries, sensor's tasseled-cap matrix requires %d", len(sourceChannels), want)
	}
	if sourceChannels == nil && img.Channels() != want {
		return nil, imgerr.New(imgerr.ImageType, "image has %d channels, sensor's tasseled-cap matrix requires %d", img.Channels(), want)
	}
	return img.ConvertColor(colorMappingFor(sensor), raster.F64, sourceChannels)
}

// ndvi computes NDVI from img using the red/nir channels identified by
// redIdx/nirIdx.
func ndvi(img *raster.Raster, redIdx, nirIdx int) (*raster.Raster, error) {
	return img.ConvertColor(raster.NDVI, raster.F64, []int{redIdx, nirIdx})
}

// SensorBandMap returns sensor's canonical band-name order, the same
// default bandChannel consults when the caller supplies no explicit
// SourceChannels permutation (spec §6). The returned slice is a copy; the
// caller may freely mutate it.
func SensorBandMap(sensor SensorType) []string {
	order := defaultBandOrder[sensor]
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// bandChannel resolves a band name to a channel index for sensor, honoring
// an explicit permutation override.
func bandChannel(sensor SensorType, band string, sourceChannels []int) (int, bool) {
	order := defaultBandOrder[sensor]
	for i, b := range order {
		if b == band {
			if sourceChannels != nil && i < len(sourceChannels) {
				return sourceChannels[i], true
			}
			return i, true
		}
	}
	return 0, false
}
