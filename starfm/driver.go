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
	"fmt"
	"sync"

	"github.com/alitto/pond"

	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

// RunParallel splits inst's prediction area into numWorkers horizontal
// stripes (the last absorbing any remainder), predicts each stripe with an
// independent narrowed Instance, and joins the results into a single
// output raster (spec §4.6). Workers share read-only access to inst's
// collection; because stripes are disjoint, no synchronization guards the
// output writes themselves (spec §5).
//
// The worker pool is github.com/alitto/pond, the same library the other
// retrieved repo's batch file-conversion driver uses for a fixed-size
// fan-out over independent units of work.
func RunParallel(inst *Instance, predictionDate int, validityMask, predictionMask *raster.Raster, numWorkers int) (*raster.Raster, error) {
	if numWorkers <= 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "RunParallel requires a positive worker count")
	}
	opts := inst.Options()
	area := opts.PredictionArea
	if area.Empty() {
		ref, err := inst.refExtent()
		if err != nil {
			return nil, err
		}
		area = ref
	}

	stripeHeight := area.H / numWorkers
	if stripeHeight == 0 {
		stripeHeight = 1
		numWorkers = area.H
	}

	type stripeResult struct {
		rect   raster.Rect
		output *raster.Raster
	}

	results := make([]stripeResult, numWorkers)
	var (
		mu      sync.Mutex
		firstErr error
	)

	pool := pond.New(numWorkers, 0, pond.MinWorkers(numWorkers))
	for i := 0; i < numWorkers; i++ {
		i := i
		y0 := area.Y + i*stripeHeight
		h := stripeHeight
		if i == numWorkers-1 {
			h = area.H - stripeHeight*(numWorkers-1)
		}
		stripe := raster.Rect{X: area.X, Y: y0, W: area.W, H: h}
		pool.Submit(func() {
			stripeInst := inst.WithPredictionArea(stripe)
			out, err := stripeInst.Predict(predictionDate, validityMask, predictionMask)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[i] = stripeResult{rect: stripe, output: out}
			if inst.progress != nil {
				fmt.Fprintf(inst.progress, "stripe %d of %d done (rows %d-%d)\n", i+1, numWorkers, stripe.Y, stripe.Y+stripe.H-1)
			}
		})
	}
	pool.StopAndWait()

	if firstErr != nil {
		return nil, firstErr
	}

	// Each stripe's Predict call returns a full-extent raster (spec §4.5's
	// output equals the high-res reference's extent); only the stripe's own
	// rows were actually recomputed. Joining therefore copies each result's
	// stripe rectangle into the shared output, leaving the disjoint regions
	// untouched exactly as §4.6's "no synchronisation required on writes"
	// describes.
	full := results[0].output.Clone()
	for _, r := range results {
		if r.output == nil {
			continue
		}
		src, err := r.output.View(r.rect, true)
		if err != nil {
			return nil, err
		}
		dst, err := full.View(r.rect, false)
		if err != nil {
			return nil, err
		}
		if err := dst.CopyFrom(src, nil); err != nil {
			return nil, err
		}
	}
	return full, nil
}

// refExtent returns the full extent of inst's high-res reference, used
// when no explicit prediction area was set.
func (inst *Instance) refExtent() (raster.Rect, error) {
	pairs, err := inst.gatherPairs()
	if err != nil {
		return raster.Rect{}, err
	}
	return pairs[0].H.Bounds(), nil
}
