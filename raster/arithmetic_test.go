package raster

import (
	"math"
	"testing"
)

func TestAddPromotesAndSaturates(t *testing.T) {
	a := New(2, 1, 1, U8)
	b := New(2, 1, 1, U8)
	a.SetFast(0, 0, 0, 200)
	b.SetFast(0, 0, 0, 100)
	a.SetFast(1, 0, 0, 10)
	b.SetFast(1, 0, 0, 20)
	out, err := a.Add(b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.ElementType() != U16 {
		t.Errorf("Add should promote u8+u8 to u16, got %v", out.ElementType())
	}
	if out.AtFast(0, 0, 0) != 300 {
		t.Errorf("200+100 = %v, want 300 (promoted, not saturated at u8)", out.AtFast(0, 0, 0))
	}
	if out.AtFast(1, 0, 0) != 30 {
		t.Errorf("10+20 = %v, want 30", out.AtFast(1, 0, 0))
	}
}

func TestAddSizeMismatch(t *testing.T) {
	a := New(2, 1, 1, U8)
	b := New(3, 1, 1, U8)
	if _, err := a.Add(b, nil); err == nil {
		t.Error("Add with mismatched shapes should fail")
	}
}

func TestBitwiseRejectsFloat(t *testing.T) {
	a := New(1, 1, 1, F32)
	b := New(1, 1, 1, F32)
	if _, err := a.BitwiseAnd(b, nil); err == nil {
		t.Error("BitwiseAnd on float rasters should fail")
	}
}

func TestMeanStdDevPopulation(t *testing.T) {
	r := New(4, 1, 1, U8)
	vals := []float64{2, 4, 4, 4}
	for i, v := range vals {
		r.SetFast(i, 0, 0, v)
	}
	means, stddevs, err := r.MeanStdDev(nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(means[0]-3.5) > 1e-9 {
		t.Errorf("mean = %v, want 3.5", means[0])
	}
	// population stddev of [2,4,4,4] = sqrt(((1.5^2)+(0.5^2)*3)/4) = sqrt(0.75) =~ 0.8660
	want := math.Sqrt(0.75)
	if math.Abs(stddevs[0]-want) > 1e-9 {
		t.Errorf("stddev = %v, want population stddev %v (not Bessel-corrected)", stddevs[0], want)
	}
}

func TestMeanStdDevAllMaskedOut(t *testing.T) {
	r := New(2, 1, 1, U8)
	mask := New(2, 1, 1, U8) // all zero: nothing valid
	means, stddevs, err := r.MeanStdDev(mask)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(means[0]) || !math.IsNaN(stddevs[0]) {
		t.Errorf("fully masked channel should report NaN, got mean=%v stddev=%v", means[0], stddevs[0])
	}
}
