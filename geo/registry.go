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

package geo

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"

	"github.com/johmast/imagefusion/imgerr"
)

// CRS wraps a parsed spatial reference, the way the teacher's grid-building
// code carries a *proj.SR alongside each grid rather than re-deriving it
// (vendored github.com/ctessum/geom/proj).
type CRS struct {
	sr *proj.SR
}

// ParseCRS parses a proj4-style definition string into a CRS.
func ParseCRS(code string) (*CRS, error) {
	sr, err := proj.Parse(code)
	if err != nil {
		return nil, imgerr.New(imgerr.InvalidArgument, "parse CRS %q", code).Wrap(err)
	}
	return &CRS{sr: sr}, nil
}

// SR exposes the underlying *proj.SR for callers that need to hand it to
// other github.com/ctessum/geom/proj-based code.
func (c *CRS) SR() *proj.SR { return c.sr }

// Reproject converts a point in c's projection space into dst's projection
// space, by composing c's inverse transformer (projection -> geographic)
// with dst's forward transformer (geographic -> projection).
func Reproject(c, dst *CRS, x, y float64) (float64, float64, error) {
	if c == nil || dst == nil {
		return 0, 0, imgerr.New(imgerr.InvalidArgument, "Reproject requires both a source and destination CRS")
	}
	if c.sr.Name == dst.sr.Name && c.sr.Equal(dst.sr, 6) {
		return x, y, nil
	}
	_, inverse, err := c.sr.Transformers()
	if err != nil {
		return 0, 0, imgerr.New(imgerr.InvalidArgument, "source CRS has no transformer").Wrap(err)
	}
	lon, lat, err := inverse(x, y)
	if err != nil {
		return 0, 0, imgerr.New(imgerr.Logic, "inverse-project source point").Wrap(err)
	}
	forward, _, err := dst.sr.Transformers()
	if err != nil {
		return 0, 0, imgerr.New(imgerr.InvalidArgument, "destination CRS has no transformer").Wrap(err)
	}
	px, py, err := forward(lon, lat)
	if err != nil {
		return 0, 0, imgerr.New(imgerr.Logic, "forward-project destination point").Wrap(err)
	}
	return px, py, nil
}

// ProjectRect reprojects an axis-aligned rectangle given in src's
// projection space into dst's projection space. Because reprojection is
// nonlinear in general, the true image of a rectangle need not be a
// rectangle; ProjectRect approximates it with the bounding box of n+1
// evenly spaced samples per edge (the edge split into n equal steps, both
// corners included; spec §4.4). n defaults to 4 when <= 0.
func ProjectRect(src, dst *CRS, b *geom.Bounds, n int) (*geom.Bounds, error) {
	if n <= 0 {
		n = 4
	}
	out := geom.NewBounds()
	addSample := func(x, y float64) error {
		px, py, err := Reproject(src, dst, x, y)
		if err != nil {
			return err
		}
		out.Extend(geom.NewBoundsPoint(geom.Point{X: px, Y: py}))
		return nil
	}
	w, h := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		if err := addSample(b.Min.X+t*w, b.Min.Y); err != nil {
			return nil, err
		}
		if err := addSample(b.Min.X+t*w, b.Max.Y); err != nil {
			return nil, err
		}
		if err := addSample(b.Min.X, b.Min.Y+t*h); err != nil {
			return nil, err
		}
		if err := addSample(b.Max.X, b.Min.Y+t*h); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Intersect returns the overlap of two projection-space rectangles, and
// false if they don't overlap (used by the fusion driver to crop all
// inputs to their common area, spec §4.4).
func Intersect(a, b *geom.Bounds) (*geom.Bounds, bool) {
	if !a.Overlaps(b) {
		return nil, false
	}
	return &geom.Bounds{
		Min: geom.Point{X: maxF(a.Min.X, b.Min.X), Y: maxF(a.Min.Y, b.Min.Y)},
		Max: geom.Point{X: minF(a.Max.X, b.Max.X), Y: minF(a.Max.Y, b.Max.Y)},
	}, true
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
