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

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/johmast/imagefusion/imgerr"
)

type binOp func(a, b float64) float64

func addOp(a, b float64) float64 { return a + b }
func subOp(a, b float64) float64 { return a - b }
func mulOp(a, b float64) float64 { return a * b }
func minOp(a, b float64) float64 { return math.Min(a, b) }
func maxOp(a, b float64) float64 { return math.Max(a, b) }

func (r *Raster) binary(other *Raster, mask *Raster, op binOp) (*Raster, error) {
	if !r.SameShape(other) {
		return nil, imgerr.New(imgerr.Size, "arithmetic size mismatch: %dx%dx%d vs %dx%dx%d", r.width, r.height, r.channels, other.width, other.height, other.channels)
	}
	if err := checkMaskCompat(r, mask); err != nil {
		return nil, err
	}
	out := New(r.width, r.height, r.channels, r.dtype.Promoted())
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if maskAt(mask, x, y, c) {
					out.SetFast(x, y, c, op(r.AtFast(x, y, c), other.AtFast(x, y, c)))
				}
			}
		}
	}
	return out, nil
}

// Add returns r + other, promoting the element-type to avoid overflow and
// saturating the result, optionally gated by mask (spec §4.1).
func (r *Raster) Add(other *Raster, mask *Raster) (*Raster, error) { return r.binary(other, mask, addOp) }

// Subtract returns r - other.
func (r *Raster) Subtract(other *Raster, mask *Raster) (*Raster, error) {
	return r.binary(other, mask, subOp)
}

// Multiply returns r * other.
func (r *Raster) Multiply(other *Raster, mask *Raster) (*Raster, error) {
	return r.binary(other, mask, mulOp)
}

// Minimum returns the elementwise minimum of r and other.
func (r *Raster) Minimum(other *Raster, mask *Raster) (*Raster, error) {
	return r.binary(other, mask, minOp)
}

// Maximum returns the elementwise maximum of r and other.
func (r *Raster) Maximum(other *Raster, mask *Raster) (*Raster, error) {
	return r.binary(other, mask, maxOp)
}

// Abs returns the elementwise absolute value of r.
func (r *Raster) Abs(mask *Raster) (*Raster, error) {
	if err := checkMaskCompat(r, mask); err != nil {
		return nil, err
	}
	out := New(r.width, r.height, r.channels, r.dtype.Promoted())
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if maskAt(mask, x, y, c) {
					out.SetFast(x, y, c, math.Abs(r.AtFast(x, y, c)))
				}
			}
		}
	}
	return out, nil
}

func bitwiseCheck(dtype ElementType) error {
	if dtype.IsFloat() {
		return imgerr.New(imgerr.ImageType, "bitwise operations require an integer raster, got %s", dtype)
	}
	return nil
}

// BitwiseAnd returns the elementwise bitwise AND of r and other (integer
// rasters only).
func (r *Raster) BitwiseAnd(other *Raster, mask *Raster) (*Raster, error) {
	if err := bitwiseCheck(r.dtype); err != nil {
		return nil, err
	}
	return r.binary(other, mask, func(a, b float64) float64 { return float64(int64(a) & int64(b)) })
}

// BitwiseOr returns the elementwise bitwise OR of r and other.
func (r *Raster) BitwiseOr(other *Raster, mask *Raster) (*Raster, error) {
	if err := bitwiseCheck(r.dtype); err != nil {
		return nil, err
	}
	return r.binary(other, mask, func(a, b float64) float64 { return float64(int64(a) | int64(b)) })
}

// BitwiseNot returns the elementwise bitwise complement of r, truncated to
// the element-type's bit width.
func (r *Raster) BitwiseNot(mask *Raster) (*Raster, error) {
	if err := bitwiseCheck(r.dtype); err != nil {
		return nil, err
	}
	if err := checkMaskCompat(r, mask); err != nil {
		return nil, err
	}
	out := New(r.width, r.height, r.channels, r.dtype)
	bits := uint(8)
	switch r.dtype {
	case U16, I16:
		bits = 16
	case I32:
		bits = 32
	}
	maskBits := uint64(1)<<bits - 1
	signed := r.dtype == I8 || r.dtype == I16 || r.dtype == I32
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if maskAt(mask, x, y, c) {
					v := uint64(int64(r.AtFast(x, y, c))) & maskBits
					res := ^v & maskBits
					if signed {
						// reinterpret the complemented bit pattern as two's complement
						out.SetFast(x, y, c, float64(int64(res<<(64-bits))>>(64-bits)))
					} else {
						out.SetFast(x, y, c, float64(res))
					}
				}
			}
		}
	}
	return out, nil
}

// MeanStdDev computes, for each channel, the mean and population (N, not
// N-1) standard deviation over pixels allowed by mask. If every pixel of a
// channel is masked out, that channel's pair is (NaN, NaN) (spec §4.1).
//
// The mean is computed with gonum.org/v1/gonum/floats; the population
// variance is computed by hand from that mean, since gonum's stat.StdDev
// and stat.MeanStdDev apply Bessel's correction (N-1), which would violate
// the invariant this operation documents.
func (r *Raster) MeanStdDev(mask *Raster) ([]float64, []float64, error) {
	if err := checkMaskCompat(r, mask); err != nil {
		return nil, nil, err
	}
	means := make([]float64, r.channels)
	stddevs := make([]float64, r.channels)
	for c := 0; c < r.channels; c++ {
		var vals []float64
		for y := 0; y < r.height; y++ {
			for x := 0; x < r.width; x++ {
				if maskAt(mask, x, y, c) {
					vals = append(vals, r.AtFast(x, y, c))
				}
			}
		}
		if len(vals) == 0 {
			means[c] = math.NaN()
			stddevs[c] = math.NaN()
			continue
		}
		mean := floats.Sum(vals) / float64(len(vals))
		var sqSum float64
		for _, v := range vals {
			d := v - mean
			sqSum += d * d
		}
		means[c] = mean
		stddevs[c] = math.Sqrt(sqSum / float64(len(vals)))
	}
	return means, stddevs, nil
}
