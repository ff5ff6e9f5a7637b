package raster

import "testing"

func TestNewAndAccessors(t *testing.T) {
	r := New(3, 2, 1, U8)
	if r.Width() != 3 || r.Height() != 2 || r.Channels() != 1 || r.ElementType() != U8 {
		t.Fatalf("unexpected shape: %dx%dx%d %v", r.Width(), r.Height(), r.Channels(), r.ElementType())
	}
	if err := r.Set(1, 1, 0, 42); err != nil {
		t.Fatal(err)
	}
	v, err := r.At(1, 1, 0)
	if err != nil || v != 42 {
		t.Fatalf("At(1,1,0) = %v, %v, want 42, nil", v, err)
	}
	if _, err := r.At(5, 5, 0); err == nil {
		t.Error("out-of-bounds At should fail")
	}
}

func TestNewFromSliceBorrowsStorage(t *testing.T) {
	data := []int16{1, 2, 3, 4, 5, 6}
	r, err := NewFromSlice(3, 2, 1, data)
	if err != nil {
		t.Fatal(err)
	}
	if r.ElementType() != I16 {
		t.Fatalf("element type = %v, want I16", r.ElementType())
	}
	if r.AtFast(2, 1, 0) != 6 {
		t.Errorf("AtFast(2,1,0) = %v, want 6", r.AtFast(2, 1, 0))
	}
	r.SetFast(0, 0, 0, 42)
	if data[0] != 42 {
		t.Error("writes must land in the caller's slice (borrowed, not copied)")
	}
}

func TestNewFromSliceLengthMismatch(t *testing.T) {
	if _, err := NewFromSlice(2, 2, 1, []uint8{1, 2, 3}); err == nil {
		t.Error("a slice shorter than the extent should fail")
	}
}

func TestNewFromSliceUnsupportedType(t *testing.T) {
	if _, err := NewFromSlice(1, 1, 1, []uint32{1}); err == nil {
		t.Error("an unsupported slice element type should fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := New(2, 2, 1, U8)
	r.SetFast(0, 0, 0, 10)
	c := r.Clone()
	c.SetFast(0, 0, 0, 20)
	if r.AtFast(0, 0, 0) != 10 {
		t.Error("mutating a clone should not affect the original")
	}
}

func TestViewSharesStorage(t *testing.T) {
	r := New(4, 4, 1, U8)
	v, err := r.View(Rect{X: 1, Y: 1, W: 2, H: 2}, false)
	if err != nil {
		t.Fatal(err)
	}
	v.SetFast(0, 0, 0, 99)
	got, _ := r.At(1, 1, 0)
	if got != 99 {
		t.Errorf("write through view did not propagate: got %v", got)
	}
}

func TestViewReadOnlyRejectsSet(t *testing.T) {
	r := New(4, 4, 1, U8)
	v, err := r.View(Rect{X: 0, Y: 0, W: 2, H: 2}, true)
	if err != nil {
		t.Fatal(err)
	}
	if err := v.Set(0, 0, 0, 1); err == nil {
		t.Error("Set on a read-only view should fail")
	}
}

func TestViewOutOfBoundsRejected(t *testing.T) {
	r := New(2, 2, 1, U8)
	if _, err := r.View(Rect{X: 1, Y: 1, W: 5, H: 5}, false); err == nil {
		t.Error("a view exceeding the owner's extent should fail")
	}
}

func TestSaturateU8(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{-5, 0},
		{0, 0},
		{255, 255},
		{300, 255},
		{100.6, 101},
	}
	for _, c := range cases {
		if got := U8.Saturate(c.in); got != c.want {
			t.Errorf("U8.Saturate(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPromoted(t *testing.T) {
	cases := map[ElementType]ElementType{
		U8:  U16,
		I8:  I16,
		U16: I32,
		I16: I32,
		I32: I32,
		F32: F32,
		F64: F64,
	}
	for in, want := range cases {
		if got := in.Promoted(); got != want {
			t.Errorf("%v.Promoted() = %v, want %v", in, got, want)
		}
	}
}

func TestCopyFromWithMask(t *testing.T) {
	dst := New(2, 1, 1, U8)
	src := New(2, 1, 1, U8)
	src.SetFast(0, 0, 0, 1)
	src.SetFast(1, 0, 0, 2)
	mask := New(2, 1, 1, U8)
	mask.SetFast(0, 0, 0, 255)
	if err := dst.CopyFrom(src, mask); err != nil {
		t.Fatal(err)
	}
	if dst.AtFast(0, 0, 0) != 1 {
		t.Error("masked-in pixel should have copied")
	}
	if dst.AtFast(1, 0, 0) != 0 {
		t.Error("masked-out pixel should stay untouched")
	}
}
