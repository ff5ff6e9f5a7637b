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

// Package interval implements closed/open/half-open real intervals and
// interval-sets, used to describe "valid"/"invalid" value ranges for mask
// synthesis (spec §3).
package interval

import "sort"

// Bound describes whether an endpoint is included in the interval.
type Bound int

const (
	Closed Bound = iota // endpoint included
	Open                // endpoint excluded
)

// Interval is a real interval [Lo, Hi] (or with open ends).
type Interval struct {
	Lo, Hi     float64
	LoB, HiB   Bound
}

// New builds a closed interval [lo, hi].
func New(lo, hi float64) Interval {
	return Interval{Lo: lo, Hi: hi, LoB: Closed, HiB: Closed}
}

// NewOpen builds an interval with the given bound kinds on each end.
func NewOpen(lo, hi float64, loB, hiB Bound) Interval {
	return Interval{Lo: lo, Hi: hi, LoB: loB, HiB: hiB}
}

// Contains reports whether v lies within the interval.
func (iv Interval) Contains(v float64) bool {
	if v < iv.Lo || v > iv.Hi {
		return false
	}
	if v == iv.Lo && iv.LoB == Open {
		return false
	}
	if v == iv.Hi && iv.HiB == Open {
		return false
	}
	return true
}

// ContainsClosed reports whether v lies within the interval, treating both
// ends as closed regardless of their declared bound kind. This implements
// the documented floating-point-raster limitation in spec §4.1/§9: open
// bounds are treated as closed on floating element-types.
func (iv Interval) ContainsClosed(v float64) bool {
	return v >= iv.Lo && v <= iv.Hi
}

func (iv Interval) overlaps(other Interval) bool {
	if iv.Hi < other.Lo || other.Hi < iv.Lo {
		return false
	}
	if iv.Hi == other.Lo && (iv.HiB == Open || other.LoB == Open) {
		return false
	}
	if other.Hi == iv.Lo && (other.HiB == Open || iv.LoB == Open) {
		return false
	}
	return true
}

// Set is a finite union of disjoint, non-adjacent intervals, kept sorted
// by lower bound.
type Set struct {
	ivs []Interval
}

// NewSet builds a Set from the given intervals, normalizing overlaps.
func NewSet(ivs ...Interval) *Set {
	s := &Set{}
	for _, iv := range ivs {
		s.ivs = append(s.ivs, iv)
	}
	s.normalize()
	return s
}

// Intervals returns the normalized, disjoint intervals making up the set.
func (s *Set) Intervals() []Interval {
	return append([]Interval(nil), s.ivs...)
}

// Contains reports whether v lies in any interval of the set.
// treatOpenAsClosed selects whether open bounds are honored (false) or treated as closed,
// per the floating-point-raster limitation (true).
func (s *Set) Contains(v float64, treatOpenAsClosed bool) bool {
	for _, iv := range s.ivs {
		if treatOpenAsClosed {
			if iv.ContainsClosed(v) {
				return true
			}
		} else if iv.Contains(v) {
			return true
		}
	}
	return false
}

func (s *Set) normalize() {
	if len(s.ivs) == 0 {
		return
	}
	sort.Slice(s.ivs, func(i, j int) bool { return s.ivs[i].Lo < s.ivs[j].Lo })
	merged := []Interval{s.ivs[0]}
	for _, iv := range s.ivs[1:] {
		last := &merged[len(merged)-1]
		adjacentClosed := last.Hi == iv.Lo && last.HiB == Closed && iv.LoB == Closed
		if last.overlaps(iv) || adjacentClosed {
			if iv.Hi > last.Hi || (iv.Hi == last.Hi && last.HiB == Open) {
				last.Hi = iv.Hi
				last.HiB = iv.HiB
			}
			if iv.Lo < last.Lo {
				last.Lo = iv.Lo
				last.LoB = iv.LoB
			}
		} else {
			merged = append(merged, iv)
		}
	}
	s.ivs = merged
}

// Union returns the union of s and other.
func (s *Set) Union(other *Set) *Set {
	return NewSet(append(s.Intervals(), other.Intervals()...)...)
}

// Intersection returns the intersection of s and other.
func (s *Set) Intersection(other *Set) *Set {
	out := &Set{}
	for _, a := range s.ivs {
		for _, b := range other.ivs {
			lo, loB := a.Lo, a.LoB
			if b.Lo > lo || (b.Lo == lo && b.LoB == Open) {
				lo, loB = b.Lo, b.LoB
			}
			hi, hiB := a.Hi, a.HiB
			if b.Hi < hi || (b.Hi == hi && b.HiB == Open) {
				hi, hiB = b.Hi, b.HiB
			}
			if lo < hi || (lo == hi && loB == Closed && hiB == Closed) {
				out.ivs = append(out.ivs, Interval{lo, hi, loB, hiB})
			}
		}
	}
	out.normalize()
	return out
}

// Difference returns the set of values in s but not in other.
func (s *Set) Difference(other *Set) *Set {
	out := &Set{ivs: append([]Interval(nil), s.ivs...)}
	out.normalize()
	for _, b := range other.ivs {
		var next []Interval
		for _, a := range out.ivs {
			next = append(next, subtract(a, b)...)
		}
		out.ivs = next
	}
	out.normalize()
	return out
}

// SymmetricDifference returns the values in exactly one of s or other.
func (s *Set) SymmetricDifference(other *Set) *Set {
	return s.Difference(other).Union(other.Difference(s))
}

func subtract(a, b Interval) []Interval {
	if !a.overlaps(b) {
		return []Interval{a}
	}
	var out []Interval
	if b.Lo > a.Lo || (b.Lo == a.Lo && b.LoB == Open && a.LoB == Closed) {
		hiB := Open
		if b.LoB == Open {
			hiB = Closed
		}
		out = append(out, Interval{a.Lo, b.Lo, a.LoB, hiB})
	}
	if b.Hi < a.Hi || (b.Hi == a.Hi && b.HiB == Open && a.HiB == Closed) {
		loB := Open
		if b.HiB == Open {
			loB = Closed
		}
		out = append(out, Interval{b.Hi, a.Hi, loB, a.HiB})
	}
	return out
}
