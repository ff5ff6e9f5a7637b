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

// buffer is the typed backing store for a Raster. Every Raster, owning or
// a view, holds a reference to one buffer; the view additionally carries
// the row stride and offset needed to address a sub-rectangle of it.
//
// This mirrors bitbucket.org/ctessum/sparse's DenseArray (flat slice +
// bounds-checked Index1d addressing), generalized from float64-only N-d
// arrays to one typed slice per element-type with saturating writes.
type buffer interface {
	length() int
	get(i int) float64
	set(i int, v float64)
	elementType() ElementType
}

func newBuffer(t ElementType, n int) buffer {
	switch t {
	case U8:
		return &u8buf{make([]uint8, n)}
	case I8:
		return &i8buf{make([]int8, n)}
	case U16:
		return &u16buf{make([]uint16, n)}
	case I16:
		return &i16buf{make([]int16, n)}
	case I32:
		return &i32buf{make([]int32, n)}
	case F32:
		return &f32buf{make([]float32, n)}
	case F64:
		return &f64buf{make([]float64, n)}
	default:
		panic("raster: unknown element type")
	}
}

// wrapBuffer borrows an existing typed slice as a buffer, so the I/O
// collaborator can hand its pixel storage to the core without a copy. The
// second return is false when data is not one of the supported slice
// types.
func wrapBuffer(data interface{}) (buffer, bool) {
	switch d := data.(type) {
	case []uint8:
		return &u8buf{d}, true
	case []int8:
		return &i8buf{d}, true
	case []uint16:
		return &u16buf{d}, true
	case []int16:
		return &i16buf{d}, true
	case []int32:
		return &i32buf{d}, true
	case []float32:
		return &f32buf{d}, true
	case []float64:
		return &f64buf{d}, true
	default:
		return nil, false
	}
}

type u8buf struct{ d []uint8 }

func (b *u8buf) length() int             { return len(b.d) }
func (b *u8buf) get(i int) float64       { return float64(b.d[i]) }
func (b *u8buf) set(i int, v float64)    { b.d[i] = uint8(U8.saturate(v)) }
func (b *u8buf) elementType() ElementType { return U8 }

type i8buf struct{ d []int8 }

func (b *i8buf) length() int             { return len(b.d) }
func (b *i8buf) get(i int) float64       { return float64(b.d[i]) }
func (b *i8buf) set(i int, v float64)    { b.d[i] = int8(I8.saturate(v)) }
func (b *i8buf) elementType() ElementType { return I8 }

type u16buf struct{ d []uint16 }

func (b *u16buf) length() int             { return len(b.d) }
func (b *u16buf) get(i int) float64       { return float64(b.d[i]) }
func (b *u16buf) set(i int, v float64)    { b.d[i] = uint16(U16.saturate(v)) }
func (b *u16buf) elementType() ElementType { return U16 }

type i16buf struct{ d []int16 }

func (b *i16buf) length() int             { return len(b.d) }
func (b *i16buf) get(i int) float64       { return float64(b.d[i]) }
func (b *i16buf) set(i int, v float64)    { b.d[i] = int16(I16.saturate(v)) }
func (b *i16buf) elementType() ElementType { return I16 }

type i32buf struct{ d []int32 }

func (b *i32buf) length() int             { return len(b.d) }
func (b *i32buf) get(i int) float64       { return float64(b.d[i]) }
func (b *i32buf) set(i int, v float64)    { b.d[i] = int32(I32.saturate(v)) }
func (b *i32buf) elementType() ElementType { return I32 }

type f32buf struct{ d []float32 }

func (b *f32buf) length() int             { return len(b.d) }
func (b *f32buf) get(i int) float64       { return float64(b.d[i]) }
func (b *f32buf) set(i int, v float64)    { b.d[i] = float32(v) }
func (b *f32buf) elementType() ElementType { return F32 }

type f64buf struct{ d []float64 }

func (b *f64buf) length() int             { return len(b.d) }
func (b *f64buf) get(i int) float64       { return b.d[i] }
func (b *f64buf) set(i int, v float64)    { b.d[i] = v }
func (b *f64buf) elementType() ElementType { return F64 }
