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

// Package raster implements the typed pixel-buffer primitive shared by the
// rest of the fusion core (spec §3, §4.1, component C1): owning and shared
// views, masked arithmetic, per-channel statistics, and the fixed catalogue
// of color-space transforms STAARCH needs.
package raster

import (
	"sort"

	"github.com/johmast/imagefusion/imgerr"
)

// Rect is an axis-aligned pixel rectangle, used both to carve a view out of
// a Raster and to describe a prediction/processing area.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether r has zero area, meaning "use the full extent".
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Raster is a rectangular grid of pixels with width, height, channel-count
// and element-type. An owning Raster controls its storage; a view borrows
// another Raster's storage for a sub-rectangle and must not outlive it.
type Raster struct {
	buf        buffer
	dtype      ElementType
	channels   int
	width      int // extent of this view
	height     int
	ownerW     int // width of the raster that owns buf (row stride in pixels)
	x0, y0     int // offset of this view within the owner
	readOnly   bool
}

// New creates a zero-initialized, owning Raster.
func New(width, height, channels int, dtype ElementType) *Raster {
	if width <= 0 || height <= 0 || channels <= 0 {
		panic("raster: non-positive dimension")
	}
	return &Raster{
		buf:      newBuffer(dtype, width*height*channels),
		dtype:    dtype,
		channels: channels,
		width:    width,
		height:   height,
		ownerW:   width,
	}
}

// NewFromSlice wraps an existing pixel slice (channel-interleaved,
// row-major) as a Raster without copying; the caller's slice remains the
// backing storage and must not be resized while the Raster lives. data
// must be a []uint8, []int8, []uint16, []int16, []int32, []float32 or
// []float64 of exactly width*height*channels elements.
func NewFromSlice(width, height, channels int, data interface{}) (*Raster, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, imgerr.New(imgerr.Size, "non-positive raster dimension %dx%dx%d", width, height, channels)
	}
	buf, ok := wrapBuffer(data)
	if !ok {
		return nil, imgerr.New(imgerr.ImageType, "unsupported pixel slice type %T", data)
	}
	if buf.length() != width*height*channels {
		return nil, imgerr.New(imgerr.Size, "pixel slice has %d elements, extent %dx%dx%d needs %d", buf.length(), width, height, channels, width*height*channels)
	}
	return &Raster{
		buf:      buf,
		dtype:    buf.elementType(),
		channels: channels,
		width:    width,
		height:   height,
		ownerW:   width,
	}, nil
}

// Width, Height, Channels, and ElementType of the raster (its own view
// extent, not necessarily that of an owner it borrows from).
func (r *Raster) Width() int             { return r.width }
func (r *Raster) Height() int            { return r.height }
func (r *Raster) Channels() int          { return r.channels }
func (r *Raster) ElementType() ElementType { return r.dtype }
func (r *Raster) ReadOnly() bool         { return r.readOnly }

// SameShape reports whether r and other share width, height and channels.
func (r *Raster) SameShape(other *Raster) bool {
	return r.width == other.width && r.height == other.height && r.channels == other.channels
}

func (r *Raster) index(x, y, c int) int {
	return (r.y0+y)*r.ownerW*r.channels + (r.x0+x)*r.channels + c
}

func (r *Raster) inBounds(x, y, c int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height && c >= 0 && c < r.channels
}

// At returns the value at (x, y, c), bounds-checked.
func (r *Raster) At(x, y, c int) (float64, error) {
	if !r.inBounds(x, y, c) {
		return 0, imgerr.New(imgerr.Logic, "pixel (%d,%d,%d) out of bounds %dx%dx%d", x, y, c, r.width, r.height, r.channels)
	}
	return r.buf.get(r.index(x, y, c)), nil
}

// AtFast is the unchecked accessor used by hot loops once check_inputs
// has validated that all coordinates are in range (spec §4.5: "the
// per-pixel loop is infallible").
func (r *Raster) AtFast(x, y, c int) float64 {
	return r.buf.get(r.index(x, y, c))
}

// Set writes v at (x, y, c), bounds-checked.
func (r *Raster) Set(x, y, c int, v float64) error {
	if r.readOnly {
		return imgerr.New(imgerr.Logic, "write to read-only raster view")
	}
	if !r.inBounds(x, y, c) {
		return imgerr.New(imgerr.Logic, "pixel (%d,%d,%d) out of bounds %dx%dx%d", x, y, c, r.width, r.height, r.channels)
	}
	r.buf.set(r.index(x, y, c), v)
	return nil
}

// SetFast is the unchecked writer used by hot loops.
func (r *Raster) SetFast(x, y, c int, v float64) {
	r.buf.set(r.index(x, y, c), v)
}

// maskAt returns whether (x, y) is valid for channel c according to mask,
// treating a nil or zero-size mask as all-valid and broadcasting a
// single-channel mask across every image channel (spec §4.1).
func maskAt(m *Raster, x, y, c int) bool {
	if m == nil || m.width == 0 || m.height == 0 {
		return true
	}
	mc := c
	if m.channels == 1 {
		mc = 0
	}
	return m.AtFast(x, y, mc) != 0
}

func checkMaskCompat(r, m *Raster) error {
	if m == nil || m.width == 0 || m.height == 0 {
		return nil
	}
	if m.width != r.width || m.height != r.height {
		return imgerr.New(imgerr.Size, "mask size %dx%d does not match raster %dx%d", m.width, m.height, r.width, r.height)
	}
	if m.channels != 1 && m.channels != r.channels {
		return imgerr.New(imgerr.ImageType, "mask channel count %d incompatible with raster channel count %d", m.channels, r.channels)
	}
	return nil
}

// Fill writes value to every channel of every pixel allowed by mask.
func (r *Raster) Fill(value float64, mask *Raster) error {
	if err := checkMaskCompat(r, mask); err != nil {
		return err
	}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if maskAt(mask, x, y, c) {
					r.SetFast(x, y, c, value)
				}
			}
		}
	}
	return nil
}

// CopyFrom copies other's pixels into r wherever mask allows, in place.
func (r *Raster) CopyFrom(other *Raster, mask *Raster) error {
	if !r.SameShape(other) {
		return imgerr.New(imgerr.Size, "copy_from size mismatch: %dx%dx%d vs %dx%dx%d", r.width, r.height, r.channels, other.width, other.height, other.channels)
	}
	if err := checkMaskCompat(r, mask); err != nil {
		return err
	}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if maskAt(mask, x, y, c) {
					r.SetFast(x, y, c, other.AtFast(x, y, c))
				}
			}
		}
	}
	return nil
}

// Clone returns a deep, owning copy of r.
func (r *Raster) Clone() *Raster {
	out := New(r.width, r.height, r.channels, r.dtype)
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				out.SetFast(x, y, c, r.AtFast(x, y, c))
			}
		}
	}
	return out
}

// View returns a shared view over a sub-rectangle of r. The view must not
// outlive r, since it borrows r's storage. readOnly views reject Set.
func (r *Raster) View(rect Rect, readOnly bool) (*Raster, error) {
	if rect.X < 0 || rect.Y < 0 || rect.X+rect.W > r.width || rect.Y+rect.H > r.height {
		return nil, imgerr.New(imgerr.Size, "view rectangle %+v exceeds owner extent %dx%d", rect, r.width, r.height)
	}
	return &Raster{
		buf:      r.buf,
		dtype:    r.dtype,
		channels: r.channels,
		width:    rect.W,
		height:   rect.H,
		ownerW:   r.ownerW,
		x0:       r.x0 + rect.X,
		y0:       r.y0 + rect.Y,
		readOnly: readOnly || r.readOnly,
	}, nil
}

// Bounds returns the full-extent rectangle of r.
func (r *Raster) Bounds() Rect { return Rect{0, 0, r.width, r.height} }

// Unique returns the sorted set of distinct values present in channel c
// (integer rasters only).
func (r *Raster) Unique(c int) ([]float64, error) {
	if r.dtype.IsFloat() {
		return nil, imgerr.New(imgerr.ImageType, "unique() is only defined on integer rasters")
	}
	seen := map[float64]struct{}{}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			seen[r.AtFast(x, y, c)] = struct{}{}
		}
	}
	out := make([]float64, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out, nil
}
