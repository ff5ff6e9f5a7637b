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

// ColorEntry is one row of an indexed color table: a palette index mapped
// to an RGBA quadruplet.
type ColorEntry struct {
	R, G, B, A uint8
}

// Info bundles the side information a georeferenced raster carries beyond
// its pixels: the affine transform, an optional CRS, optional ground
// control points, an optional color table, per-channel nodata sentinels,
// and free-form domain-grouped metadata (spec §4.4 "Supplemented
// Features": GCPs, color tables and nodata are present in the original
// GDAL-backed implementation but dropped from the distilled spec; they are
// restored here since the Geo Registry is the natural home for them).
type Info struct {
	Transform Transform
	CRS       *CRS

	// GCPs is an optional list of ground control points, used instead of a
	// simple affine transform when the source image wasn't delivered with
	// one (e.g. raw GCP-only product metadata).
	GCPs []GCP

	// ColorTable is an optional index->RGBA palette, non-nil only for
	// paletted (indexed) sources.
	ColorTable []ColorEntry

	// Nodata holds one optional sentinel value per channel; a nil entry
	// means "no nodata value declared" for that channel.
	Nodata []*float64

	// Metadata is free-form, grouped by domain (e.g. "EXIF", "TIFF"), the
	// way a GDAL-style reader surfaces driver-specific tags that don't fit
	// a typed field.
	Metadata map[string]map[string]string
}

// GCP is a single ground control point: a pixel coordinate paired with its
// known projection-space coordinate.
type GCP struct {
	PixelX, PixelY float64
	ProjX, ProjY   float64
	Elevation      float64
	ID, Info       string
}

// NewInfo returns an Info with the identity transform and no CRS, GCPs,
// color table, or nodata values set.
func NewInfo() *Info {
	return &Info{Transform: Identity()}
}

// NodataAt returns the nodata sentinel for channel c and whether one is
// declared.
func (i *Info) NodataAt(c int) (float64, bool) {
	if c < 0 || c >= len(i.Nodata) || i.Nodata[c] == nil {
		return 0, false
	}
	return *i.Nodata[c], true
}

// SetNodata declares a nodata sentinel for channel c, growing Nodata as
// needed.
func (i *Info) SetNodata(c int, value float64) {
	for len(i.Nodata) <= c {
		i.Nodata = append(i.Nodata, nil)
	}
	v := value
	i.Nodata[c] = &v
}

// MetadataValue returns metadata[domain][key] and whether it was present.
func (i *Info) MetadataValue(domain, key string) (string, bool) {
	if i.Metadata == nil {
		return "", false
	}
	d, ok := i.Metadata[domain]
	if !ok {
		return "", false
	}
	v, ok := d[key]
	return v, ok
}

// SetMetadataValue records metadata[domain][key] = value, allocating maps
// as needed.
func (i *Info) SetMetadataValue(domain, key, value string) {
	if i.Metadata == nil {
		i.Metadata = make(map[string]map[string]string)
	}
	if i.Metadata[domain] == nil {
		i.Metadata[domain] = make(map[string]string)
	}
	i.Metadata[domain][key] = value
}
