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

// Package starfm implements the windowed per-pixel fusion estimator (C5)
// and its parallel stripe driver (C6): combining a high-resolution
// reference pair with a low-resolution prediction-date image into a
// predicted high-resolution raster (spec §4.5, §4.6).
package starfm

import (
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// TemporalWeighting selects how the temporal term T enters the per-candidate
// composite weight (spec §6).
type TemporalWeighting int

const (
	// TempWeightOnDoublePair forces T=0 in single-pair mode and uses the
	// real temporal difference in two-pair mode. Default.
	TempWeightOnDoublePair TemporalWeighting = iota
	// TempWeightEnable always uses the real temporal difference.
	TempWeightEnable
	// TempWeightDisable always forces T=0.
	TempWeightDisable
)

// Options configures a single STARFM prediction (spec §6, "Options surface
// (STARFM)").
type Options struct {
	// PairDates holds one date (single-pair mode) or two distinct dates
	// (two-pair mode). Predict does not reject a prediction date equal to
	// a pair date (with L2 == Lk that pair's local estimate is Hk).
	PairDates []int

	HighResTag string
	LowResTag  string

	WindowSize     int     // odd, positive; default 51
	NumberClasses  float64 // positive; default 40
	TemporalUncertainty float64
	SpectralUncertainty float64

	UseStrictFiltering bool
	CopyOnZeroDiff     bool
	TempDiffWeighting  TemporalWeighting
	LogScaleFactor     float64 // 0 disables logarithmic weighting

	// PredictionArea restricts output to a sub-rectangle; the zero value
	// (Rect{}) means the full extent.
	PredictionArea raster.Rect
}

// DefaultUncertainty returns the documented default
// temporal/spectral uncertainty pair for a raster of the given element
// type (spec §6): 1 for 8-bit imagery, 50 for wider integer and
// floating-point element types, mirroring the distinction the original
// tool's option parser drew between byte and word/float rasters.
func DefaultUncertainty(elementType raster.ElementType) (temporal, spectral float64) {
	switch elementType {
	case raster.U8, raster.I8:
		return 1, 1
	default:
		return 50, 50
	}
}

// DefaultOptions returns the documented defaults for a byte (U8) image
// pair; TemporalUncertainty/SpectralUncertainty default to 1 for byte
// images and should be set via DefaultUncertainty(elementType) for
// wider element types per spec §6.
func DefaultOptions() Options {
	temporal, spectral := DefaultUncertainty(raster.U8)
	return Options{
		WindowSize:          51,
		NumberClasses:       40,
		TemporalUncertainty: temporal,
		SpectralUncertainty: spectral,
		TempDiffWeighting:   TempWeightOnDoublePair,
	}
}

// Validate checks internal consistency (spec §7: invalid-argument covers
// "window even, uncertainty negative, interval bounds reversed ...
// missing required dates"). It does not check against any collection;
// that is checkInputs' job once a Collection is known.
func (o Options) Validate() error {
	if len(o.PairDates) != 1 && len(o.PairDates) != 2 {
		return imgerr.New(imgerr.InvalidArgument, "pair_dates must contain exactly one or two dates, got %d", len(o.PairDates)).WithOption("pair_dates")
	}
	if len(o.PairDates) == 2 && o.PairDates[0] == o.PairDates[1] {
		return imgerr.New(imgerr.InvalidArgument, "pair_dates must be distinct in two-pair mode").WithOption("pair_dates")
	}
	if o.HighResTag == "" {
		return imgerr.New(imgerr.InvalidArgument, "high_res_tag is required").WithOption("high_res_tag")
	}
	if o.LowResTag == "" {
		return imgerr.New(imgerr.InvalidArgument, "low_res_tag is required").WithOption("low_res_tag")
	}
	if o.WindowSize <= 0 || o.WindowSize%2 == 0 {
		return imgerr.New(imgerr.InvalidArgument, "window_size must be a positive odd integer, got %d", o.WindowSize).WithOption("window_size")
	}
	if o.NumberClasses <= 0 {
		return imgerr.New(imgerr.InvalidArgument, "number_classes must be positive, got %v", o.NumberClasses).WithOption("number_classes")
	}
	if o.TemporalUncertainty < 0 {
		return imgerr.New(imgerr.InvalidArgument, "temporal_uncertainty must be non-negative").WithOption("temporal_uncertainty")
	}
	if o.SpectralUncertainty < 0 {
		return imgerr.New(imgerr.InvalidArgument, "spectral_uncertainty must be non-negative").WithOption("spectral_uncertainty")
	}
	if o.LogScaleFactor < 0 {
		return imgerr.New(imgerr.InvalidArgument, "log_scale_factor must be non-negative").WithOption("log_scale_factor")
	}
	if !o.PredictionArea.Empty() && (o.PredictionArea.W <= 0 || o.PredictionArea.H <= 0) {
		return imgerr.New(imgerr.InvalidArgument, "prediction_area must have positive width and height when non-empty").WithOption("prediction_area")
	}
	return nil
}

// twoPair reports whether o specifies two-pair mode.
func (o Options) twoPair() bool { return len(o.PairDates) == 2 }

// effectiveTemporalWeighting resolves TempDiffWeighting against the
// single/two-pair mode (spec §4.5 step 5, "If the temporal-weighting
// option is disabled (single-pair default)...").
func (o Options) effectiveTemporalWeighting() bool {
	switch o.TempDiffWeighting {
	case TempWeightEnable:
		return true
	case TempWeightDisable:
		return false
	default: // TempWeightOnDoublePair
		return o.twoPair()
	}
}
