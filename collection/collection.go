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

// Package collection implements the Image Collection (C2): a keyed
// (resolution-tag, date) -> Raster store that owns its rasters while
// lending shared read-only access to consumers (spec §3, §4.2).
package collection

import (
	"sort"

	"github.com/samber/lo"

	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/raster"
)

type key struct {
	tag  string
	date int
}

// Collection is a (tag, date) -> Raster store. It owns its rasters, the
// way InMAPdata owns its []*Cell slice; callers only ever borrow from it.
// The zero value is ready to use.
type Collection struct {
	data map[key]*raster.Raster
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{data: make(map[key]*raster.Raster)}
}

// Set inserts or replaces the raster at (tag, date), taking ownership of it.
func (c *Collection) Set(tag string, date int, r *raster.Raster) {
	if c.data == nil {
		c.data = make(map[key]*raster.Raster)
	}
	c.data[key{tag, date}] = r
}

// Get returns the raster at (tag, date), or a not-found error.
func (c *Collection) Get(tag string, date int) (*raster.Raster, error) {
	r, ok := c.data[key{tag, date}]
	if !ok {
		return nil, imgerr.New(imgerr.NotFound, "no raster for tag/date").WithTag(tag).WithDate(date)
	}
	return r, nil
}

// Has reports whether (tag, date) is present.
func (c *Collection) Has(tag string, date int) bool {
	_, ok := c.data[key{tag, date}]
	return ok
}

// Remove deletes (tag, date), if present.
func (c *Collection) Remove(tag string, date int) {
	delete(c.data, key{tag, date})
}

// Dates returns the sorted ascending set of dates present for tag.
func (c *Collection) Dates(tag string) []int {
	var dates []int
	for k := range c.data {
		if k.tag == tag {
			dates = append(dates, k.date)
		}
	}
	dates = lo.Uniq(dates)
	sort.Ints(dates)
	return dates
}

// GetAny returns an arbitrary raster from the collection, used to probe
// common properties (width, height, channels, element-type) when the
// caller doesn't care which entry supplies them. The second return is
// false if the collection is empty.
func (c *Collection) GetAny() (*raster.Raster, bool) {
	for _, r := range c.data {
		return r, true
	}
	return nil, false
}

// Len reports the number of (tag, date) entries in the collection.
func (c *Collection) Len() int { return len(c.data) }
