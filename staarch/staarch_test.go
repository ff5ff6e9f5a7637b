package staarch

import (
	"math"
	"math/rand"
	"testing"

	"github.com/johmast/imagefusion/raster"
)

func TestWindowBoundsForward(t *testing.T) {
	lo, hi := windowBounds(2, 3, 10, AlignForward)
	if lo != 2 || hi != 4 {
		t.Errorf("forward window at i=2,n=3 = [%d,%d], want [2,4]", lo, hi)
	}
}

func TestWindowBoundsBackward(t *testing.T) {
	lo, hi := windowBounds(2, 3, 10, AlignBackward)
	if lo != 0 || hi != 2 {
		t.Errorf("backward window at i=2,n=3 = [%d,%d], want [0,2]", lo, hi)
	}
}

func TestWindowBoundsCentre(t *testing.T) {
	lo, hi := windowBounds(4, 3, 10, AlignCentre)
	if lo != 3 || hi != 5 {
		t.Errorf("centre window at i=4,n=3 = [%d,%d], want [3,5]", lo, hi)
	}
}

func TestWindowBoundsClipsToStackEdges(t *testing.T) {
	lo, hi := windowBounds(0, 3, 5, AlignBackward)
	if lo != 0 || hi != 0 {
		t.Errorf("backward window at i=0 should clip to [0,0], got [%d,%d]", lo, hi)
	}
	lo, hi = windowBounds(4, 3, 5, AlignForward)
	if lo != 4 || hi != 4 {
		t.Errorf("forward window at the last index should clip to [4,4], got [%d,%d]", lo, hi)
	}
}

func buildDIEntry(date int, v float64) lowResDIEntry {
	di := raster.New(1, 1, 1, raster.F64)
	di.SetFast(0, 0, 0, v)
	mask := raster.New(1, 1, 1, raster.U8)
	mask.SetFast(0, 0, 0, 255)
	return lowResDIEntry{date: date, di: di, mask: mask}
}

func TestMovingAverageDI(t *testing.T) {
	stack := []lowResDIEntry{
		buildDIEntry(1, 10),
		buildDIEntry(2, 20),
		buildDIEntry(3, 30),
	}
	out := movingAverageDI(stack, 2, AlignForward)
	// i=0: window [0,1] -> avg(10,20)=15
	if v := out[0].di.AtFast(0, 0, 0); v != 15 {
		t.Errorf("averaged[0] = %v, want 15", v)
	}
	// i=2: window clipped to [2,2] -> avg(30)=30
	if v := out[2].di.AtFast(0, 0, 0); v != 30 {
		t.Errorf("averaged[2] = %v, want 30", v)
	}
}

func TestMovingAverageDISkipsInvalidDates(t *testing.T) {
	invalid := buildDIEntry(2, 999)
	invalid.mask.SetFast(0, 0, 0, 0) // mark invalid
	stack := []lowResDIEntry{
		buildDIEntry(1, 10),
		invalid,
		buildDIEntry(3, 30),
	}
	out := movingAverageDI(stack, 3, AlignCentre)
	// window for i=1 is [0,2], but date 2 is invalid -> avg(10,30)=20
	if v := out[1].di.AtFast(0, 0, 0); v != 20 {
		t.Errorf("averaged DI with one invalid date = %v, want 20", v)
	}
}

func TestComputeDoDFirstCrossing(t *testing.T) {
	change := raster.New(1, 1, 1, raster.U8)
	change.SetFast(0, 0, 0, 255)
	averaged := []lowResDIEntry{
		buildDIEntry(1, 0),
		buildDIEntry(2, 5),
		buildDIEntry(3, 10),
	}
	// min=0, max=10, ratio=0.5 -> threshold=5; date 2's DI(5) is not >5,
	// date 3's DI(10) is -> DoD = 3.
	dod, err := computeDoD(change, averaged, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if v := dod.AtFast(0, 0, 0); v != 3 {
		t.Errorf("DoD = %v, want 3 (the first date crossing the threshold)", v)
	}
}

func TestComputeDoDSentinelWhenNeverCrosses(t *testing.T) {
	change := raster.New(1, 1, 1, raster.U8)
	change.SetFast(0, 0, 0, 255)
	averaged := []lowResDIEntry{
		buildDIEntry(1, 5),
		buildDIEntry(2, 5),
		buildDIEntry(3, 5),
	}
	dod, err := computeDoD(change, averaged, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if v := dod.AtFast(0, 0, 0); v != DoDNeverDisturbed {
		t.Errorf("constant DI should never cross its own threshold, got DoD=%v", v)
	}
}

func TestComputeDoDSkipsPixelsOutsideChangeMask(t *testing.T) {
	change := raster.New(1, 1, 1, raster.U8) // all zero: no change anywhere
	averaged := []lowResDIEntry{buildDIEntry(1, 100)}
	dod, err := computeDoD(change, averaged, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if v := dod.AtFast(0, 0, 0); v != DoDNeverDisturbed {
		t.Errorf("pixel outside the change mask should keep the sentinel, got %v", v)
	}
}

func TestRoutingMasksPartition(t *testing.T) {
	dod := raster.New(3, 1, 1, raster.I32)
	dod.SetFast(0, 0, 0, DoDNeverDisturbed)
	dod.SetFast(1, 0, 0, 50) // > predictionDate: disturbed after prediction date
	dod.SetFast(2, 0, 0, 5)  // <= predictionDate: disturbed before/at prediction date

	both, leftOnly, rightOnly := routingMasks(dod, 10)
	if both.AtFast(0, 0, 0) == 0 || leftOnly.AtFast(0, 0, 0) != 0 || rightOnly.AtFast(0, 0, 0) != 0 {
		t.Error("never-disturbed pixel should route only to 'both'")
	}
	if leftOnly.AtFast(1, 0, 0) == 0 || both.AtFast(1, 0, 0) != 0 || rightOnly.AtFast(1, 0, 0) != 0 {
		t.Error("pixel disturbed after the prediction date should route only to 'left-only'")
	}
	if rightOnly.AtFast(2, 0, 0) == 0 || both.AtFast(2, 0, 0) != 0 || leftOnly.AtFast(2, 0, 0) != 0 {
		t.Error("pixel disturbed at/before the prediction date should route only to 'right-only'")
	}
}

func TestZscoreInPlace(t *testing.T) {
	values := []float64{2, 4, 4, 4}
	ok := zscoreInPlace(values)
	if !ok {
		t.Fatal("zscoreInPlace should succeed with >= 2 samples")
	}
	wantSD := math.Sqrt(0.75)
	wantMean := 3.5
	want := []float64{(2 - wantMean) / wantSD, (4 - wantMean) / wantSD, (4 - wantMean) / wantSD, (4 - wantMean) / wantSD}
	for i, w := range want {
		if math.Abs(values[i]-w) > 1e-9 {
			t.Errorf("values[%d] = %v, want %v", i, values[i], w)
		}
	}
}

func TestZscoreInPlaceConstantGivesZero(t *testing.T) {
	values := []float64{7, 7, 7}
	zscoreInPlace(values)
	for i, v := range values {
		if v != 0 {
			t.Errorf("values[%d] = %v, want 0 for a constant channel (zero stddev)", i, v)
		}
	}
}

func TestZscoreInPlaceTooFewSamples(t *testing.T) {
	if zscoreInPlace([]float64{1}) {
		t.Error("zscoreInPlace with a single sample should report failure")
	}
}

func TestDisturbanceIndexFormula(t *testing.T) {
	bgwn := raster.New(1, 1, 4, raster.F64)
	bgwn.SetFast(0, 0, chBrightness, 3)
	bgwn.SetFast(0, 0, chGreenness, 1)
	bgwn.SetFast(0, 0, chWetness, 0.5)
	bgwn.SetFast(0, 0, chNDVI, 0.9)
	di := disturbanceIndex(bgwn)
	if v := di.AtFast(0, 0, 0); v != 1.5 {
		t.Errorf("DI = %v, want 1.5 (B-G-W = 3-1-0.5)", v)
	}
}

func TestNeighborOffsetsShapeCounts(t *testing.T) {
	if len(neighborOffsets(NeighborCross)) != 4 {
		t.Error("cross neighbourhood should have 4 offsets")
	}
	if len(neighborOffsets(NeighborSquare)) != 8 {
		t.Error("square neighbourhood should have 8 offsets")
	}
}

func TestKMeansPlusPlusSeparatesDistinctClusters(t *testing.T) {
	data := [][]float64{
		{0, 0}, {0.1, 0.1}, {-0.1, 0.1}, // cluster A near origin
		{100, 100}, {100.1, 99.9}, {99.9, 100.1}, // cluster B far away
	}
	rng := rand.New(rand.NewSource(1))
	labels, err := kMeansPlusPlus(data, 2, rng, 50)
	if err != nil {
		t.Fatal(err)
	}
	a := labels[0]
	for i := 1; i < 3; i++ {
		if labels[i] != a {
			t.Errorf("point %d should share cluster A's label %d, got %d", i, a, labels[i])
		}
	}
	b := labels[3]
	if b == a {
		t.Fatal("the two well-separated groups should not share a label")
	}
	for i := 4; i < 6; i++ {
		if labels[i] != b {
			t.Errorf("point %d should share cluster B's label %d, got %d", i, b, labels[i])
		}
	}
}

func TestKMeansPlusPlusRejectsTooManyClusters(t *testing.T) {
	_, err := kMeansPlusPlus([][]float64{{0, 0}}, 2, rand.New(rand.NewSource(1)), 10)
	if err == nil {
		t.Error("k > number of points should fail")
	}
}
