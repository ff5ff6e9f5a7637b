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
	"fmt"
	"io"
	"math/rand"

	"github.com/google/uuid"

	"github.com/johmast/imagefusion/collection"
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
	"github.com/johmast/imagefusion/starfm"
)

// PredictionJob identifies one STAARCH prediction request; the id lets a
// caller correlate a failed or long-running request in logs, the way a
// batch driver tags each unit of work it submits to a worker pool
// (grounded on github.com/google/uuid, used the same way elsewhere in the
// retrieved pack for per-job identifiers).
type PredictionJob struct {
	ID             uuid.UUID
	Collection     *collection.Collection
	Options        Options
	PredictionDate int

	// Progress, when non-nil, receives one coarse line per completed
	// phase and per routed stripe. The per-pixel loops never write.
	Progress io.Writer
}

func (j *PredictionJob) logf(format string, args ...interface{}) {
	if j.Progress != nil {
		fmt.Fprintf(j.Progress, format+"\n", args...)
	}
}

// NewPredictionJob validates opts and returns a job ready for Run.
func NewPredictionJob(col *collection.Collection, opts Options, predictionDate int) (*PredictionJob, error) {
	if col == nil {
		return nil, imgerr.New(imgerr.InvalidArgument, "NewPredictionJob requires a non-nil collection")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if predictionDate <= opts.IntervalLeft || predictionDate >= opts.IntervalRight {
		return nil, imgerr.New(imgerr.InvalidArgument, "prediction date %d must lie strictly inside (%d, %d)", predictionDate, opts.IntervalLeft, opts.IntervalRight)
	}
	return &PredictionJob{ID: uuid.New(), Collection: col, Options: opts, PredictionDate: predictionDate}, nil
}

// DIStack exposes the standardized, un-averaged low-resolution disturbance
// index for every date in the job's interval, for callers that want to
// inspect the raw signal rather than just the final DoD raster
// (spec §4.7 step 2's "Supplemented Features": the distilled spec only
// documents the pixel-wise DoD output, but the original implementation's
// diagnostic tooling plots the DI stack directly).
type DIStack struct {
	Dates  []int
	Images []*raster.Raster
}

// Run builds the Date-of-Disturbance raster for j's interval and routes
// j.PredictionDate's STARFM prediction across the three sub-masks (spec
// §4.7). rngSeed drives the k-means++ initialisation when no ClusterImage
// override is supplied.
func (j *PredictionJob) Run(rngSeed int64) (*raster.Raster, error) {
	rng := rand.New(rand.NewSource(rngSeed))
	opts := j.Options
	col := j.Collection

	leftImg, err := col.Get(opts.Inner.HighResTag, opts.IntervalLeft)
	if err != nil {
		return nil, err
	}
	rightImg, err := col.Get(opts.Inner.HighResTag, opts.IntervalRight)
	if err != nil {
		return nil, err
	}
	var validLeft, validRight *raster.Raster
	if opts.HighResMaskTag != "" {
		if col.Has(opts.HighResMaskTag, opts.IntervalLeft) {
			validLeft, err = col.Get(opts.HighResMaskTag, opts.IntervalLeft)
			if err != nil {
				return nil, err
			}
		}
		if col.Has(opts.HighResMaskTag, opts.IntervalRight) {
			validRight, err = col.Get(opts.HighResMaskTag, opts.IntervalRight)
			if err != nil {
				return nil, err
			}
		}
	}

	change, err := changeMask(leftImg, rightImg, validLeft, validRight, opts, rng)
	if err != nil {
		return nil, err
	}
	j.logf("job %s: change mask built for [%d, %d]", j.ID, opts.IntervalLeft, opts.IntervalRight)

	lowDates := col.Dates(opts.Inner.LowResTag)
	var interval []int
	for _, d := range lowDates {
		if d >= opts.IntervalLeft && d <= opts.IntervalRight {
			interval = append(interval, d)
		}
	}
	if len(interval) == 0 {
		return nil, imgerr.New(imgerr.NotFound, "no low-resolution images found in [%d, %d]", opts.IntervalLeft, opts.IntervalRight)
	}

	stack, err := buildLowResDIStack(col, opts.Inner.LowResTag, opts.LowResMaskTag, interval, opts)
	if err != nil {
		return nil, err
	}
	averaged := movingAverageDI(stack, opts.NImagesForAveraging, opts.MovingAverageAlignment)

	dod, err := computeDoD(change, averaged, opts.LowResDIRatio)
	if err != nil {
		return nil, err
	}
	j.logf("job %s: date-of-disturbance raster built from %d low-res dates", j.ID, len(interval))

	both, leftOnly, rightOnly := routingMasks(dod, j.PredictionDate)

	// The routed STARFM runs see only the requested output bands, while
	// the DoD machinery above always works on the full band set the
	// tasseled-cap matrices need.
	routed, err := narrowToOutputBands(col, opts, j.PredictionDate)
	if err != nil {
		return nil, err
	}
	validity, err := baseValidity(col, opts, j.PredictionDate)
	if err != nil {
		return nil, err
	}

	bothInst, err := starfm.NewInstance(routed, withPairDates(opts.Inner, opts.IntervalLeft, opts.IntervalRight))
	if err != nil {
		return nil, err
	}
	leftInst, err := starfm.NewInstance(routed, withPairDates(opts.Inner, opts.IntervalLeft))
	if err != nil {
		return nil, err
	}
	rightInst, err := starfm.NewInstance(routed, withPairDates(opts.Inner, opts.IntervalRight))
	if err != nil {
		return nil, err
	}
	for _, inst := range []*starfm.Instance{bothInst, leftInst, rightInst} {
		inst.SetProgress(j.Progress)
	}
	j.logf("job %s: predicting date %d across %d workers", j.ID, j.PredictionDate, opts.NumWorkers)

	return predictRouted(
		&instanceSet{instance: bothInst, mask: both},
		&instanceSet{instance: leftInst, mask: leftOnly},
		&instanceSet{instance: rightInst, mask: rightOnly},
		j.PredictionDate,
		validity,
		opts.NumWorkers,
	)
}

// DIStack returns the un-averaged standardized low-res DI stack for j's
// interval, recomputed on demand (spec §4.7's supplemented diagnostic
// accessor).
func (j *PredictionJob) DIStack() (*DIStack, error) {
	col := j.Collection
	opts := j.Options
	lowDates := col.Dates(opts.Inner.LowResTag)
	var interval []int
	for _, d := range lowDates {
		if d >= opts.IntervalLeft && d <= opts.IntervalRight {
			interval = append(interval, d)
		}
	}
	stack, err := buildLowResDIStack(col, opts.Inner.LowResTag, opts.LowResMaskTag, interval, opts)
	if err != nil {
		return nil, err
	}
	out := &DIStack{Dates: make([]int, len(stack)), Images: make([]*raster.Raster, len(stack))}
	for i, e := range stack {
		out.Dates[i] = e.date
		out.Images[i] = e.di
	}
	return out, nil
}

// withPairDates returns a copy of inner with its pair_dates replaced.
func withPairDates(inner starfm.Options, dates ...int) starfm.Options {
	o := inner
	o.PairDates = dates
	return o
}
