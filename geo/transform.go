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

// Package geo implements the Geo Registry (C4): per-raster affine
// transforms and CRS handles, coordinate conversion, and the
// intersection/padding math the fusion driver needs when inputs on
// different grids must be aligned (spec §4.4).
//
// Affine math is grounded on github.com/ctessum/geom's Point/Bounds
// transform methods; 2x2 inversion uses gonum.org/v1/gonum/mat, the way
// the teacher's grid-building code prefers gonum over hand-rolled linear
// algebra.
package geo

import (
	"math"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"

	"github.com/johmast/imagefusion/imgerr"
)

// Transform is the six-coefficient affine map from image (pixel) space to
// projection space: x_proj = OffsetX + XtoX*x_img + YtoX*y_img, and
// likewise for y_proj with XtoY/YtoY (spec §4.4). It is represented as
// scalar coefficients rather than a dense matrix object so every mutator
// is a simple in-place scalar update, per spec §9.
type Transform struct {
	OffsetX, OffsetY float64
	XtoX, XtoY       float64 // image-X contribution to (proj-X, proj-Y)
	YtoX, YtoY       float64 // image-Y contribution to (proj-X, proj-Y)
}

// Identity returns the identity transform (no offset, no scale).
func Identity() Transform {
	return Transform{XtoX: 1, YtoY: 1}
}

// ImgToProj maps an image-space point to projection space.
func (t Transform) ImgToProj(x, y float64) (geom.Point, error) {
	return geom.Point{
		X: t.OffsetX + t.XtoX*x + t.YtoX*y,
		Y: t.OffsetY + t.XtoY*x + t.YtoY*y,
	}, nil
}

// ProjToImg maps a projection-space point back to image space. It fails if
// the transform's 2x2 linear part is singular.
func (t Transform) ProjToImg(p geom.Point) (geom.Point, error) {
	a := mat.NewDense(2, 2, []float64{t.XtoX, t.YtoX, t.XtoY, t.YtoY})
	det := mat.Det(a)
	if det == 0 {
		return geom.Point{}, imgerr.New(imgerr.InvalidArgument, "affine transform is singular (det(A)==0)")
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return geom.Point{}, imgerr.New(imgerr.InvalidArgument, "affine transform has no inverse").Wrap(err)
	}
	dx, dy := p.X-t.OffsetX, p.Y-t.OffsetY
	x := inv.At(0, 0)*dx + inv.At(0, 1)*dy
	y := inv.At(1, 0)*dx + inv.At(1, 1)*dy
	return geom.Point{X: x, Y: y}, nil
}

// RectToProj converts an image-space rectangle to the axis-aligned
// bounding box of its four corners in projection space.
func (t Transform) RectToProj(minX, minY, maxX, maxY float64) (*geom.Bounds, error) {
	corners := [][2]float64{{minX, minY}, {maxX, minY}, {minX, maxY}, {maxX, maxY}}
	b := geom.NewBounds()
	for _, c := range corners {
		p, err := t.ImgToProj(c[0], c[1])
		if err != nil {
			return nil, err
		}
		b.Extend(geom.NewBoundsPoint(p))
	}
	return b, nil
}

// TranslateImage returns a new transform for an origin shifted by (dx, dy)
// in image space.
func (t Transform) TranslateImage(dx, dy float64) Transform {
	p, _ := t.ImgToProj(dx, dy)
	origin, _ := t.ImgToProj(0, 0)
	t.OffsetX += p.X - origin.X
	t.OffsetY += p.Y - origin.Y
	return t
}

// TranslateProj returns a new transform whose projected output is shifted
// by (dx, dy) in projection space.
func (t Transform) TranslateProj(dx, dy float64) Transform {
	t.OffsetX += dx
	t.OffsetY += dy
	return t
}

// ScaleImage returns a new transform with the image-X column scaled by sx
// and the image-Y column scaled by sy.
func (t Transform) ScaleImage(sx, sy float64) Transform {
	t.XtoX *= sx
	t.XtoY *= sx
	t.YtoX *= sy
	t.YtoY *= sy
	return t
}

// ScaleProj returns a new transform whose projected output is scaled by
// (sx, sy).
func (t Transform) ScaleProj(sx, sy float64) Transform {
	t.OffsetX *= sx
	t.XtoX *= sx
	t.YtoX *= sx
	t.OffsetY *= sy
	t.XtoY *= sy
	t.YtoY *= sy
	return t
}

// ShearImage returns a new transform with an additional image-space shear.
func (t Transform) ShearImage(shx, shy float64) Transform {
	newXtoX := t.XtoX + shy*t.YtoX
	newXtoY := t.XtoY + shy*t.YtoY
	newYtoX := t.YtoX + shx*t.XtoX
	newYtoY := t.YtoY + shx*t.XtoY
	t.XtoX, t.XtoY, t.YtoX, t.YtoY = newXtoX, newXtoY, newYtoX, newYtoY
	return t
}

// RotateImage returns a new transform rotated by theta radians (image
// space, counter-clockwise).
func (t Transform) RotateImage(theta float64) Transform {
	cos, sin := math.Cos(theta), math.Sin(theta)
	newXtoX := t.XtoX*cos - t.YtoX*sin
	newXtoY := t.XtoY*cos - t.YtoY*sin
	newYtoX := t.XtoX*sin + t.YtoX*cos
	newYtoY := t.XtoY*sin + t.YtoY*cos
	t.XtoX, t.XtoY, t.YtoX, t.YtoY = newXtoX, newXtoY, newYtoX, newYtoY
	return t
}

// FlipHorizontal returns a new transform with the image-X axis reversed.
func (t Transform) FlipHorizontal() Transform {
	return t.ScaleImage(-1, 1)
}

// FlipVertical returns a new transform with the image-Y axis reversed.
func (t Transform) FlipVertical() Transform {
	return t.ScaleImage(1, -1)
}
