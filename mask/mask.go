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

// Package mask implements the mask-algebra component (C3): building
// single- or multi-channel validity masks from value ranges or bit
// patterns, and combining masks with bitwise AND/OR/NOT.
package mask

import (
	"github.com/samber/lo"

	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/interval"
	"github.com/johmast/imagefusion/raster"
)

// A Mask is an ordinary 8-bit Raster whose values are 0 or 255; the type
// alias exists so call sites can document intent without a wrapper type
// that would need its own conversions.
type Mask = raster.Raster

// FromRange builds a mask of img's extent from a per-channel interval-set,
// single-channel if singleChannel is true (spec §4.3 path 1).
func FromRange(img *raster.Raster, sets []*interval.Set, singleChannel bool) (*Mask, error) {
	if singleChannel {
		return img.CreateSingleChannelMaskFromRange(sets)
	}
	return img.CreateMultiChannelMaskFromRange(sets)
}

// FromBits builds a mask from an integer quality-assurance raster: for
// each pixel, the bits at the given positions are extracted, shifted down
// to contiguous least-significant positions, and tested against set (spec
// §4.3 path 2). Negative positions, or positions beyond the element
// width, fail with invalid-argument.
func FromBits(img *raster.Raster, bitPositions []int, set *interval.Set) (*Mask, error) {
	width := elementBits(img.ElementType())
	for _, p := range bitPositions {
		if p < 0 || p >= width {
			return nil, imgerr.New(imgerr.InvalidArgument, "bit position %d out of range for %s (width %d)", p, img.ElementType(), width)
		}
	}
	if img.ElementType().IsFloat() {
		return nil, imgerr.New(imgerr.ImageType, "bit-pattern masks require an integer raster, got %s", img.ElementType())
	}
	sorted := append([]int(nil), bitPositions...)
	out := raster.New(img.Width(), img.Height(), 1, raster.U8)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			raw := int64(img.AtFast(x, y, 0))
			var extracted int64
			for i, p := range sorted {
				bit := (raw >> uint(p)) & 1
				extracted |= bit << uint(i)
			}
			if set.Contains(float64(extracted), false) {
				out.SetFast(x, y, 0, 255)
			}
		}
	}
	return out, nil
}

func elementBits(t raster.ElementType) int {
	switch t {
	case raster.U8, raster.I8:
		return 8
	case raster.U16, raster.I16:
		return 16
	case raster.I32:
		return 32
	default:
		return 0
	}
}

// And returns the pixelwise logical AND of masks (a pixel is valid in the
// result iff valid in all inputs). At least one mask must be given.
func And(masks ...*Mask) (*Mask, error) {
	if len(masks) == 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "And requires at least one mask")
	}
	nonEmpty := lo.Filter(masks, func(m *Mask, _ int) bool { return m != nil && m.Width() > 0 && m.Height() > 0 })
	if len(nonEmpty) == 0 {
		return &raster.Raster{}, nil // "no mask": all-valid
	}
	out := nonEmpty[0].Clone()
	for _, m := range nonEmpty[1:] {
		combined, err := out.BitwiseAnd(m, nil)
		if err != nil {
			return nil, err
		}
		out = clampToMask(combined)
	}
	return out, nil
}

// Or returns the pixelwise logical OR of masks.
func Or(masks ...*Mask) (*Mask, error) {
	if len(masks) == 0 {
		return nil, imgerr.New(imgerr.InvalidArgument, "Or requires at least one mask")
	}
	nonEmpty := lo.Filter(masks, func(m *Mask, _ int) bool { return m != nil && m.Width() > 0 && m.Height() > 0 })
	if len(nonEmpty) == 0 {
		return &raster.Raster{}, nil
	}
	out := nonEmpty[0].Clone()
	for _, m := range nonEmpty[1:] {
		combined, err := out.BitwiseOr(m, nil)
		if err != nil {
			return nil, err
		}
		out = clampToMask(combined)
	}
	return out, nil
}

// Not returns the pixelwise logical complement of m (0 becomes 255 and
// vice versa).
func Not(m *Mask) (*Mask, error) {
	out := raster.New(m.Width(), m.Height(), m.Channels(), raster.U8)
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			for c := 0; c < m.Channels(); c++ {
				if m.AtFast(x, y, c) == 0 {
					out.SetFast(x, y, c, 255)
				}
			}
		}
	}
	return out, nil
}

// clampToMask re-clamps a promoted-type AND/OR result back down to a
// canonical U8 0/255 mask.
func clampToMask(r *raster.Raster) *Mask {
	out := raster.New(r.Width(), r.Height(), r.Channels(), raster.U8)
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			for c := 0; c < r.Channels(); c++ {
				if r.AtFast(x, y, c) != 0 {
					out.SetFast(x, y, c, 255)
				}
			}
		}
	}
	return out
}

// DefaultValidity composes the fusion driver's layered default validity
// mask: base validity AND per-image nodata-exclusion AND any per-resolution
// user range AND any per-pair/per-prediction-date mask, each optional and
// simply skipped when nil (spec §4.3, "Special semantics for the fusion
// driver").
func DefaultValidity(layers ...*Mask) (*Mask, error) {
	present := lo.Filter(layers, func(m *Mask, _ int) bool { return m != nil })
	if len(present) == 0 {
		return &raster.Raster{}, nil
	}
	return And(present...)
}
