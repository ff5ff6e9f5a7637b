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

import "math"

// ElementType is the pixel element-type of a Raster: a sum type over the
// seven numeric kinds the fusion core understands (spec §9).
type ElementType int

const (
	U8 ElementType = iota
	I8
	U16
	I16
	I32
	F32
	F64
)

func (t ElementType) String() string {
	switch t {
	case U8:
		return "u8"
	case I8:
		return "i8"
	case U16:
		return "u16"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether t is a floating-point element-type.
func (t ElementType) IsFloat() bool {
	return t == F32 || t == F64
}

// Promoted returns the element-type that arithmetic results are widened to,
// so that the operation cannot lose information to overflow (spec §4.1):
// signed 8→16, unsigned 8→16, 16→32, floats stay.
func (t ElementType) Promoted() ElementType {
	switch t {
	case U8:
		return U16
	case I8:
		return I16
	case U16, I16:
		return I32
	default:
		return t
	}
}

// valueRange returns the representable [min, max] of t, used to saturate
// arithmetic results and to clamp STARFM's predicted output.
func (t ElementType) valueRange() (lo, hi float64) {
	switch t {
	case U8:
		return 0, math.MaxUint8
	case I8:
		return math.MinInt8, math.MaxInt8
	case U16:
		return 0, math.MaxUint16
	case I16:
		return math.MinInt16, math.MaxInt16
	case I32:
		return math.MinInt32, math.MaxInt32
	case F32:
		return -math.MaxFloat32, math.MaxFloat32
	case F64:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return 0, 0
	}
}

// Saturate clamps v into t's representable range, rounding to the nearest
// integer for integral element-types. Callers outside the package (the
// STARFM compositor, in particular) use this to saturate a final predicted
// value into the output raster's element-type (spec §4.5, step 7).
func (t ElementType) Saturate(v float64) float64 { return t.saturate(v) }

// saturate clamps v into t's representable range, rounding to the nearest
// integer for integral element-types.
func (t ElementType) saturate(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	lo, hi := t.valueRange()
	if !t.IsFloat() {
		v = math.Round(v)
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
