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
	"math"

	"github.com/johmast/imagefusion/raster"
)

// candidate is one accepted window location's contribution to the
// weighted aggregate for a single output channel (spec §4.5 steps 5-6).
type candidate struct {
	weight   float64
	estimate float64
}

// runCore implements the windowed per-pixel STARFM estimator (spec §4.5).
// It owns no state across pixels: every window's tolerance, candidate set,
// and weights are recomputed from scratch, so the loop parallelizes across
// disjoint stripes without coordination (spec §4.6, §5).
func runCore(pairs []pairRasters, l2 *raster.Raster, opts Options, validityMask, predictionMask *raster.Raster) (*raster.Raster, error) {
	ref := pairs[0].H
	width, height, channels := ref.Width(), ref.Height(), ref.Channels()
	dtype := ref.ElementType()

	area := opts.PredictionArea
	if area.Empty() {
		area = raster.Rect{X: 0, Y: 0, W: width, H: height}
	}

	out := pairs[0].H.Clone()

	half := opts.WindowSize / 2
	sigmaC := math.Sqrt(opts.SpectralUncertainty*opts.SpectralUncertainty + opts.TemporalUncertainty*opts.TemporalUncertainty)
	useTemporal := opts.effectiveTemporalWeighting()

	for yc := area.Y; yc < area.Y+area.H; yc++ {
		for xc := area.X; xc < area.X+area.W; xc++ {
			if !maskValidAt(predictionMask, xc, yc, 0) {
				continue
			}
			window := windowRect(xc, yc, half, width, height)
			for c := 0; c < channels; c++ {
				if !maskValidAt(validityMask, xc, yc, c) {
					continue
				}
				v, ok := predictPixel(pairs, l2, opts, validityMask, window, xc, yc, c, sigmaC, useTemporal)
				if !ok {
					continue
				}
				out.SetFast(xc, yc, c, dtype.Saturate(v))
			}
		}
	}
	return out, nil
}

// centralDiff holds, for one reference pair, the central spectral and
// temporal differences used both by candidate acceptance and by the
// zero-candidate fallback (spec §4.5 steps 3 and 7).
type centralDiff struct {
	spectral float64 // |Hk(xc,yc,c) - Lk(xc,yc,c)|
	temporal float64 // |Lk(xc,yc,c) - L2(xc,yc,c)|
}

// predictPixel runs steps 2-7 of spec §4.5 for a single output channel.
func predictPixel(pairs []pairRasters, l2 *raster.Raster, opts Options, validityMask *raster.Raster, window raster.Rect, xc, yc, c int, sigmaC float64, useTemporal bool) (float64, bool) {
	centrals := make([]centralDiff, len(pairs))
	for i, p := range pairs {
		hCenter := p.H.AtFast(xc, yc, c)
		lCenter := p.L.AtFast(xc, yc, c)
		l2Center := l2.AtFast(xc, yc, c)
		centrals[i] = centralDiff{
			spectral: math.Abs(hCenter - lCenter),
			temporal: math.Abs(lCenter - l2Center),
		}
	}
	minSpectral, minTemporal := centrals[0].spectral, centrals[0].temporal
	for _, ce := range centrals[1:] {
		minSpectral = math.Min(minSpectral, ce.spectral)
		minTemporal = math.Min(minTemporal, ce.temporal)
	}

	tol := make([]float64, len(pairs))
	for i, p := range pairs {
		sigma := windowStdDev(p.H, validityMask, window, c)
		tol[i] = 2 * sigma / opts.NumberClasses
	}

	var candidates []candidate
	for i, p := range pairs {
		hCenter := p.H.AtFast(xc, yc, c)
		for y := window.Y; y < window.Y+window.H; y++ {
			for x := window.X; x < window.X+window.W; x++ {
				if !maskValidAt(validityMask, x, y, c) {
					continue
				}
				hv := p.H.AtFast(x, y, c)
				if math.Abs(hv-hCenter) > tol[i] {
					continue
				}
				lv := p.L.AtFast(x, y, c)
				l2v := l2.AtFast(x, y, c)
				temporal := math.Abs(lv - l2v)
				spectral := math.Abs(hv - lv)
				temporalOK := temporal < minTemporal
				spectralOK := spectral < minSpectral
				accepted := spectralOK || temporalOK
				if opts.UseStrictFiltering {
					accepted = spectralOK && temporalOK
				}
				if !accepted {
					continue
				}
				S, T := spectral, temporal
				if !useTemporal {
					T = 0
				}
				dist := math.Hypot(float64(x-xc), float64(y-yc))
				D := 1 + dist/(float64(opts.WindowSize)/2)
				var s, t float64
				if opts.LogScaleFactor > 0 {
					b := opts.LogScaleFactor
					s = math.Log(S*b + 2)
					t = math.Log(T*b + 2)
				} else {
					s = S + 1
					t = T + 1
				}
				comp := s * t * D
				if s*t < sigmaC {
					comp = 1
				}
				w := 1 / comp
				hat := hv + l2v - lv
				candidates = append(candidates, candidate{weight: w, estimate: hat})
			}
		}
	}

	if len(candidates) == 0 {
		return zeroDiffFallback(pairs, l2, opts, centrals, xc, yc, c)
	}
	var sumW, sumWHat float64
	for _, cd := range candidates {
		sumW += cd.weight
		sumWHat += cd.weight * cd.estimate
	}
	if sumW == 0 {
		return zeroDiffFallback(pairs, l2, opts, centrals, xc, yc, c)
	}
	return sumWHat / sumW, true
}

// zeroDiffFallback implements spec §4.5 step 7's "no candidate" branch.
func zeroDiffFallback(pairs []pairRasters, l2 *raster.Raster, opts Options, centrals []centralDiff, xc, yc, c int) (float64, bool) {
	localEstimate := func(i int) float64 {
		p := pairs[i]
		return p.H.AtFast(xc, yc, c) + l2.AtFast(xc, yc, c) - p.L.AtFast(xc, yc, c)
	}
	if opts.CopyOnZeroDiff {
		best := 0
		bestMag := centrals[0].spectral + centrals[0].temporal
		for i := 1; i < len(centrals); i++ {
			mag := centrals[i].spectral + centrals[i].temporal
			if mag < bestMag {
				bestMag = mag
				best = i
			}
		}
		return localEstimate(best), true
	}
	if len(pairs) == 1 {
		return localEstimate(0), true
	}
	var sum float64
	for i := range pairs {
		sum += localEstimate(i)
	}
	return sum / float64(len(pairs)), true
}
