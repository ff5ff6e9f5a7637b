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
	"math"
	"math/rand"

	"github.com/johmast/imagefusion/imgerr"
)

// kMeansPlusPlus clusters the rows of data (each a point in R^dims) into k
// classes using Lloyd's algorithm seeded by k-means++ initialisation (spec
// §4.7 step 1, "k-means with k-means++ initialisation"). labels[i] is the
// class of data[i]; rng drives the seeding (ties in the assignment step go
// to the lowest center index), so a caller that fixes its seed gets
// reproducible output (spec §9's open
// question on k-means reproducibility, resolved in favor of an explicit
// seed parameter rather than requiring a pre-computed ClusterImage always).
//
// No clustering library appears anywhere in the retrieved example pack;
// this is plain math/rand + hand-rolled Lloyd iteration rather than an
// out-of-pack dependency pulled in for a single call site.
func kMeansPlusPlus(data [][]float64, k int, rng *rand.Rand, maxIter int) ([]int, error) {
	n := len(data)
	if n == 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "kMeansPlusPlus requires at least one point")
	}
	if k <= 0 || k > n {
		return nil, imgerr.New(imgerr.InvalidArgument, "kMeansPlusPlus: k=%d invalid for %d points", k, n)
	}
	centers := seedPlusPlus(data, k, rng)
	labels := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range data {
			best, bestDist := 0, sqDist(p, centers[0])
			for c := 1; c < k; c++ {
				d := sqDist(p, centers[c])
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		newCenters := make([][]float64, k)
		counts := make([]int, k)
		dims := len(data[0])
		for c := range newCenters {
			newCenters[c] = make([]float64, dims)
		}
		for i, p := range data {
			c := labels[i]
			counts[c]++
			for d := 0; d < dims; d++ {
				newCenters[c][d] += p[d]
			}
		}
		for c := range newCenters {
			if counts[c] == 0 {
				newCenters[c] = centers[c] // keep empty clusters in place
				continue
			}
			for d := range newCenters[c] {
				newCenters[c][d] /= float64(counts[c])
			}
		}
		centers = newCenters
		if !changed && iter > 0 {
			break
		}
	}
	return labels, nil
}

func seedPlusPlus(data [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(data)
	centers := make([][]float64, 0, k)
	centers = append(centers, data[rng.Intn(n)])
	dist := make([]float64, n)
	for len(centers) < k {
		var total float64
		for i, p := range data {
			d := sqDist(p, centers[len(centers)-1])
			if len(centers) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}
		if total == 0 {
			// all remaining points coincide with a chosen center; fill
			// out the remaining centers arbitrarily.
			centers = append(centers, data[rng.Intn(n)])
			continue
		}
		target := rng.Float64() * total
		var cum float64
		chosen := n - 1
		for i, d := range dist {
			cum += d
			if cum >= target {
				chosen = i
				break
			}
		}
		centers = append(centers, data[chosen])
	}
	return centers
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// zscoreInPlace standardises values in place using the population (N)
// standard deviation. It returns false, leaving values untouched, if fewer
// than 2 samples exist; if every value is equal (zero stddev) all of them
// become 0.
func zscoreInPlace(values []float64) bool {
	n := len(values)
	if n < 2 {
		return false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	sd := math.Sqrt(sq / float64(n))
	if sd == 0 {
		for i := range values {
			values[i] = 0
		}
		return true
	}
	for i := range values {
		values[i] = (values[i] - mean) / sd
	}
	return true
}
