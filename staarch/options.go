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

// Package staarch implements the disturbance-aware outer loop (C7):
// detecting the date a pixel's land cover changed between two
// high-resolution endpoint images, then routing each output pixel to the
// STARFM pairing (both endpoints, left-only, or right-only) that best
// respects that disturbance (spec §4.7).
package staarch

import (
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/interval"
	"github.com/johmast/imagefusion/raster"
	"github.com/johmast/imagefusion/starfm"
)

// SensorType selects the tasseled-cap coefficient matrix and the default
// band-name -> channel-index map a sensor's imagery uses (spec §6).
type SensorType int

const (
	SensorUnsupported SensorType = iota
	SensorMODIS
	SensorLandsat
	SensorSentinel2
	SensorSentinel3
)

// Alignment selects how the low-res DI moving-average window sits relative
// to the date it is centred/anchored on (spec §6).
type Alignment int

const (
	AlignForward Alignment = iota
	AlignCentre
	AlignBackward
)

// NeighborShape selects 4-connectivity ("cross") or 8-connectivity
// ("square") for the disturbance neighbour check (spec §4.7 step 1).
type NeighborShape int

const (
	NeighborCross NeighborShape = iota
	NeighborSquare
)

// Band names recognised by output_bands and the per-sensor default maps
// (spec §6).
const (
	BandRed   = "red"
	BandGreen = "green"
	BandBlue  = "blue"
	BandNIR   = "nir"
	BandSWIR1 = "swir1"
	BandSWIR2 = "swir2"
)

// Options configures a STAARCH run. It embeds the STARFM options applied
// inside each inner prediction call and adds the fields spec §6 documents
// under "Options surface (STAARCH)".
type Options struct {
	Inner starfm.Options

	IntervalLeft, IntervalRight int

	HighResMaskTag, LowResMaskTag string

	MovingAverageAlignment Alignment
	NImagesForAveraging    int
	NumberLandClasses      int
	ClusterImage           *raster.Raster
	NeighborShape          NeighborShape
	LowResDIRatio          float64

	HighResDIRange         *interval.Set
	HighResBrightnessRange *interval.Set
	HighResGreennessRange  *interval.Set
	HighResWetnessRange    *interval.Set
	HighResNDVIRange       *interval.Set

	LowResSensorType, HighResSensorType SensorType

	LowResSourceChannels, HighResSourceChannels []int

	OutputBands []string

	// NumWorkers is the stripe count each of the three routed STARFM
	// predictions fans out across via starfm.RunParallel (spec §4.7 step
	// 3's "large rasters" note, spec §5).
	NumWorkers int
}

// DefaultOptions returns the documented defaults (spec §6).
func DefaultOptions() Options {
	return Options{
		Inner:                  starfm.DefaultOptions(),
		MovingAverageAlignment: AlignForward,
		NImagesForAveraging:    3,
		NumberLandClasses:      10,
		NeighborShape:          NeighborCross,
		LowResDIRatio:          2.0 / 3.0,
		HighResDIRange:         interval.NewSet(interval.New(-2, 2)),
		HighResBrightnessRange: interval.NewSet(interval.New(-3, 3)),
		HighResGreennessRange:  interval.NewSet(interval.New(-3, 3)),
		HighResWetnessRange:    interval.NewSet(interval.New(-3, 3)),
		HighResNDVIRange:       interval.NewSet(interval.New(-1, 1)),
		NumWorkers:             4,
	}
}

// Validate checks internal consistency before any raster is touched (spec
// §7).
func (o Options) Validate() error {
	if o.IntervalLeft >= o.IntervalRight {
		return imgerr.New(imgerr.InvalidArgument, "interval_dates requires d_left < d_right, got %d >= %d", o.IntervalLeft, o.IntervalRight).WithOption("interval_dates")
	}
	if o.ClusterImage == nil && o.NumberLandClasses <= 0 {
		return imgerr.New(imgerr.InvalidArgument, "number_land_classes must be positive, got %d", o.NumberLandClasses).WithOption("number_land_classes")
	}
	if o.NImagesForAveraging <= 0 {
		return imgerr.New(imgerr.InvalidArgument, "n_images_for_averaging must be positive, got %d", o.NImagesForAveraging).WithOption("n_images_for_averaging")
	}
	if o.LowResDIRatio <= 0 || o.LowResDIRatio >= 1 {
		return imgerr.New(imgerr.InvalidArgument, "low_res_DI_ratio must be in (0, 1), got %v", o.LowResDIRatio).WithOption("low_res_DI_ratio")
	}
	if o.LowResSensorType == SensorUnsupported {
		return imgerr.New(imgerr.InvalidArgument, "low_res_sensor_type must be a supported sensor").WithOption("low_res_sensor_type")
	}
	if o.HighResSensorType == SensorUnsupported {
		return imgerr.New(imgerr.InvalidArgument, "high_res_sensor_type must be a supported sensor").WithOption("high_res_sensor_type")
	}
	if o.NumWorkers <= 0 {
		return imgerr.New(imgerr.InvalidArgument, "num_workers must be positive, got %d", o.NumWorkers).WithOption("num_workers")
	}
	for _, b := range o.OutputBands {
		if !isKnownBand(b) {
			return imgerr.New(imgerr.InvalidArgument, "unknown output band %q", b).WithOption("output_bands")
		}
	}
	return nil
}

func isKnownBand(b string) bool {
	switch b {
	case BandRed, BandGreen, BandBlue, BandNIR, BandSWIR1, BandSWIR2:
		return true
	default:
		return false
	}
}
