package starfm

import (
	"testing"

	"github.com/johmast/imagefusion/collection"
	"github.com/johmast/imagefusion/raster"
)

// build2D fills a width x height single-channel raster row-major from vals.
func build2D(width, height int, vals ...float64) *raster.Raster {
	r := raster.New(width, height, 1, raster.F32)
	for i, v := range vals {
		r.SetFast(i%width, i/width, 0, v)
	}
	return r
}

func TestRunParallelMatchesSerialPrediction(t *testing.T) {
	const w, h = 6, 4
	col := collection.New()
	hi := make([]float64, w*h)
	lo := make([]float64, w*h)
	lo2 := make([]float64, w*h)
	for i := range hi {
		hi[i] = float64(i)
		lo[i] = float64(i) + 2
		lo2[i] = float64(i) + 5
	}
	col.Set("high", 1, build2D(w, h, hi...))
	col.Set("low", 1, build2D(w, h, lo...))
	col.Set("low", 2, build2D(w, h, lo2...))

	opts := DefaultOptions()
	opts.PairDates = []int{1}
	opts.HighResTag, opts.LowResTag = "high", "low"
	opts.WindowSize = 3

	inst, err := NewInstance(col, opts)
	if err != nil {
		t.Fatal(err)
	}

	serial, err := inst.Predict(2, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := RunParallel(inst, 2, nil, nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if serial.AtFast(x, y, 0) != parallel.AtFast(x, y, 0) {
				t.Errorf("pixel (%d,%d): serial=%v parallel=%v, want equal", x, y, serial.AtFast(x, y, 0), parallel.AtFast(x, y, 0))
			}
		}
	}
}

func TestRunParallelRejectsNonPositiveWorkerCount(t *testing.T) {
	col := collection.New()
	col.Set("high", 1, build2D(2, 2, 1, 2, 3, 4))
	col.Set("low", 1, build2D(2, 2, 1, 2, 3, 4))
	col.Set("low", 2, build2D(2, 2, 1, 2, 3, 4))
	opts := DefaultOptions()
	opts.PairDates = []int{1}
	opts.HighResTag, opts.LowResTag = "high", "low"
	inst, err := NewInstance(col, opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := RunParallel(inst, 2, nil, nil, 0); err == nil {
		t.Error("RunParallel with zero workers should fail")
	}
}

func TestRunParallelMoreWorkersThanRowsClampsStripeCount(t *testing.T) {
	col := collection.New()
	col.Set("high", 1, build2D(2, 2, 1, 2, 3, 4))
	col.Set("low", 1, build2D(2, 2, 1, 2, 3, 4))
	col.Set("low", 2, build2D(2, 2, 5, 6, 7, 8))
	opts := DefaultOptions()
	opts.PairDates = []int{1}
	opts.HighResTag, opts.LowResTag = "high", "low"
	inst, err := NewInstance(col, opts)
	if err != nil {
		t.Fatal(err)
	}
	out, err := RunParallel(inst, 2, nil, nil, 10) // 10 workers, only 2 rows
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 2 || out.Height() != 2 {
		t.Errorf("output shape = %dx%d, want 2x2", out.Width(), out.Height())
	}
}
