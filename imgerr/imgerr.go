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

// Package imgerr defines the typed errors surfaced by the fusion core.
//
// Every error returned by raster, mask, collection, geo, starfm and staarch
// is an *Error so that a caller can switch on Kind without parsing a
// message, while still getting a readable string and a wrapped cause.
package imgerr

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation failed.
type Kind int

const (
	// InvalidArgument marks a user-supplied option that is inconsistent.
	InvalidArgument Kind = iota
	// NotFound marks a failed collection lookup.
	NotFound
	// ImageType marks an element-type, channel-count, or color-table mismatch.
	ImageType
	// Size marks a raster-extent mismatch.
	Size
	// FileFormat marks a raster-metadata error raised by the I/O collaborator.
	FileFormat
	// Logic marks an internal contract violation (a defect, not a user error).
	Logic
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid-argument"
	case NotFound:
		return "not-found"
	case ImageType:
		return "image-type"
	case Size:
		return "size"
	case FileFormat:
		return "file-format"
	case Logic:
		return "logic"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every exported operation in this
// module. Attachments are optional and are only set when available.
type Error struct {
	Kind Kind
	Msg  string

	// Attachments, set when relevant.
	Tag    string // resolution tag
	Date   int    // acquisition date
	HasDate bool
	File   string // file name, when the failure came from the I/O collaborator
	Option string // the option name, for InvalidArgument errors
	Type   string // image element-type / channel description

	Cause error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	if e.Option != "" {
		msg += fmt.Sprintf(" (option %q)", e.Option)
	}
	if e.Tag != "" {
		msg += fmt.Sprintf(" (tag %q)", e.Tag)
	}
	if e.HasDate {
		msg += fmt.Sprintf(" (date %d)", e.Date)
	}
	if e.File != "" {
		msg += fmt.Sprintf(" (file %q)", e.File)
	}
	if e.Type != "" {
		msg += fmt.Sprintf(" (type %s)", e.Type)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so that
// errors.Is(err, imgerr.New(imgerr.NotFound, "")) matches any not-found
// error; callers can also use KindOf, or compare e.Kind after errors.As.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New creates an *Error of the given kind.
func New(k Kind, msg string, args ...interface{}) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(msg, args...)}
}

// WithOption attaches the name of the offending option.
func (e *Error) WithOption(name string) *Error {
	e.Option = name
	return e
}

// WithTag attaches a resolution tag.
func (e *Error) WithTag(tag string) *Error {
	e.Tag = tag
	return e
}

// WithDate attaches an acquisition date.
func (e *Error) WithDate(date int) *Error {
	e.Date = date
	e.HasDate = true
	return e
}

// WithFile attaches a file name.
func (e *Error) WithFile(file string) *Error {
	e.File = file
	return e
}

// WithType attaches a type description.
func (e *Error) WithType(t string) *Error {
	e.Type = t
	return e
}

// Wrap attaches an underlying cause.
func (e *Error) Wrap(cause error) *Error {
	e.Cause = cause
	return e
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and
// false as the second return otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
