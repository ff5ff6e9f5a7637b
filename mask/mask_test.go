package mask

import (
	"testing"

	"github.com/johmast/imagefusion/interval"
	"github.com/johmast/imagefusion/raster"
)

func buildMask(vals ...float64) *Mask {
	m := raster.New(len(vals), 1, 1, raster.U8)
	for i, v := range vals {
		m.SetFast(i, 0, 0, v)
	}
	return m
}

func TestAndMonotone(t *testing.T) {
	a := buildMask(255, 255, 0)
	b := buildMask(255, 0, 0)
	out, err := And(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{255, 0, 0}
	for i, w := range want {
		if out.AtFast(i, 0, 0) != w {
			t.Errorf("And()[%d] = %v, want %v", i, out.AtFast(i, 0, 0), w)
		}
	}
}

func TestOr(t *testing.T) {
	a := buildMask(255, 0, 0)
	b := buildMask(0, 255, 0)
	out, err := Or(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{255, 255, 0}
	for i, w := range want {
		if out.AtFast(i, 0, 0) != w {
			t.Errorf("Or()[%d] = %v, want %v", i, out.AtFast(i, 0, 0), w)
		}
	}
}

func TestNot(t *testing.T) {
	a := buildMask(255, 0)
	out, err := Not(a)
	if err != nil {
		t.Fatal(err)
	}
	if out.AtFast(0, 0, 0) != 0 || out.AtFast(1, 0, 0) != 255 {
		t.Errorf("Not() = [%v %v], want [0 255]", out.AtFast(0, 0, 0), out.AtFast(1, 0, 0))
	}
}

func TestFromBits(t *testing.T) {
	img := raster.New(1, 1, 1, raster.U16)
	img.SetFast(0, 0, 0, 0b0000_0000_0000_0110) // bits 1,2 set
	set := interval.NewSet(interval.New(1, 1))   // want extracted value == 1
	out, err := FromBits(img, []int{1, 2}, set)
	if err != nil {
		t.Fatal(err)
	}
	// bit1=1, bit2=1 -> extracted = bit1 | (bit2<<1) = 1 | 2 = 3, not 1
	if out.AtFast(0, 0, 0) != 0 {
		t.Errorf("expected no match for extracted value 3 against {1}, got %v", out.AtFast(0, 0, 0))
	}
}

func TestFromBitsRejectsOutOfRangePosition(t *testing.T) {
	img := raster.New(1, 1, 1, raster.U8)
	set := interval.NewSet(interval.New(0, 1))
	if _, err := FromBits(img, []int{8}, set); err == nil {
		t.Error("bit position 8 on a u8 raster should fail")
	}
}

func TestDefaultValidityAllNil(t *testing.T) {
	out, err := DefaultValidity(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 0 {
		t.Error("DefaultValidity with no layers should return the empty (all-valid) mask")
	}
}

func TestDefaultValiditySingleLayer(t *testing.T) {
	a := buildMask(255, 0)
	out, err := DefaultValidity(a, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.AtFast(0, 0, 0) != 255 || out.AtFast(1, 0, 0) != 0 {
		t.Error("DefaultValidity with one real layer should equal that layer")
	}
}
