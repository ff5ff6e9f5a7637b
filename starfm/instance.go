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
	"io"

	"github.com/johmast/imagefusion/collection"
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// Instance is a single fusion job bound to a source collection and a
// validated option set (spec §4.5 "Input contract"). It is cheap to copy
// with a narrowed PredictionArea, which is how the parallel driver (C6)
// hands each worker its own stripe.
type Instance struct {
	col      *collection.Collection
	opts     Options
	progress io.Writer
}

// NewInstance validates opts and returns an Instance bound to col. It does
// not itself touch the collection; per-prediction lookups happen in
// Predict, which takes the prediction date per call; the pairs it reads
// depend only on opts.
func NewInstance(col *collection.Collection, opts Options) (*Instance, error) {
	if col == nil {
		return nil, imgerr.New(imgerr.InvalidArgument, "NewInstance requires a non-nil collection")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Instance{col: col, opts: opts}, nil
}

// Options returns a copy of the instance's options, letting a caller derive
// a narrowed instance for a stripe.
func (inst *Instance) Options() Options { return inst.opts }

// SetProgress directs one coarse line per completed stripe to w during
// RunParallel. A nil writer (the default) disables progress output; the
// per-pixel loop never writes regardless.
func (inst *Instance) SetProgress(w io.Writer) { inst.progress = w }

// WithPredictionArea returns a new Instance sharing inst's collection and
// options except for a narrowed prediction area, for the parallel driver.
func (inst *Instance) WithPredictionArea(area raster.Rect) *Instance {
	o := inst.opts
	o.PredictionArea = area
	return &Instance{col: inst.col, opts: o, progress: inst.progress}
}

func (inst *Instance) gatherPairs() ([]pairRasters, error) {
	pairs := make([]pairRasters, len(inst.opts.PairDates))
	for i, d := range inst.opts.PairDates {
		h, err := inst.col.Get(inst.opts.HighResTag, d)
		if err != nil {
			return nil, err
		}
		l, err := inst.col.Get(inst.opts.LowResTag, d)
		if err != nil {
			return nil, err
		}
		pairs[i] = pairRasters{date: d, H: h, L: l}
	}
	return pairs, nil
}

// Predict fuses pairs in the instance's collection with the low-resolution
// raster at predictionDate, producing a raster of predictionDate's output
// (spec §4.5). validityMask and predictionMask are optional; an empty or
// nil mask is treated as all-valid / predict-everywhere.
func (inst *Instance) Predict(predictionDate int, validityMask, predictionMask *raster.Raster) (*raster.Raster, error) {
	pairs, err := inst.gatherPairs()
	if err != nil {
		return nil, err
	}
	l2, err := inst.col.Get(inst.opts.LowResTag, predictionDate)
	if err != nil {
		return nil, err
	}
	if err := checkInputs(pairs, l2, validityMask, predictionMask); err != nil {
		return nil, err
	}
	return runCore(pairs, l2, inst.opts, validityMask, predictionMask)
}
