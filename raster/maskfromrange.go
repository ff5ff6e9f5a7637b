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
	"github.com/johmast/imagefusion/imgerr"
	"github.com/johmast/imagefusion/interval"
)

const (
	maskValid   = 255
	maskInvalid = 0
)

// CreateSingleChannelMaskFromRange produces a single-channel mask where a
// pixel maps to 255 iff ALL of the raster's channels at that pixel lie
// within the corresponding interval-set in sets (one set per channel, or a
// single set broadcast across every channel). Closed bounds are inclusive;
// open bounds are honored on integer rasters and treated as closed on
// floating rasters (spec §4.1, the documented limitation).
func (r *Raster) CreateSingleChannelMaskFromRange(sets []*interval.Set) (*Raster, error) {
	sets, err := r.broadcastSets(sets)
	if err != nil {
		return nil, err
	}
	out := New(r.width, r.height, 1, U8)
	treatOpenAsClosed := r.dtype.IsFloat()
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			valid := true
			for c := 0; c < r.channels; c++ {
				if !sets[c].Contains(r.AtFast(x, y, c), treatOpenAsClosed) {
					valid = false
					break
				}
			}
			if valid {
				out.SetFast(x, y, 0, maskValid)
			}
		}
	}
	return out, nil
}

// CreateMultiChannelMaskFromRange produces a mask with the same channel
// count as r, where channel c of pixel (x, y) maps to 255 iff that
// channel's value lies within sets[c].
func (r *Raster) CreateMultiChannelMaskFromRange(sets []*interval.Set) (*Raster, error) {
	sets, err := r.broadcastSets(sets)
	if err != nil {
		return nil, err
	}
	out := New(r.width, r.height, r.channels, U8)
	treatOpenAsClosed := r.dtype.IsFloat()
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			for c := 0; c < r.channels; c++ {
				if sets[c].Contains(r.AtFast(x, y, c), treatOpenAsClosed) {
					out.SetFast(x, y, c, maskValid)
				}
			}
		}
	}
	return out, nil
}

func (r *Raster) broadcastSets(sets []*interval.Set) ([]*interval.Set, error) {
	if len(sets) == 1 {
		out := make([]*interval.Set, r.channels)
		for i := range out {
			out[i] = sets[0]
		}
		return out, nil
	}
	if len(sets) != r.channels {
		return nil, imgerr.New(imgerr.ImageType, "expected 1 or %d interval sets, got %d", r.channels, len(sets))
	}
	return sets, nil
}
