package collection

import (
	"testing"

	"github.com/johmast/imagefusion/raster"
)

func TestSetGetHasRemove(t *testing.T) {
	c := New()
	r := raster.New(1, 1, 1, raster.U8)
	c.Set("high", 1, r)
	if !c.Has("high", 1) {
		t.Fatal("expected Has to report true after Set")
	}
	got, err := c.Get("high", 1)
	if err != nil || got != r {
		t.Fatalf("Get returned %v, %v, want the same raster pointer", got, err)
	}
	c.Remove("high", 1)
	if c.Has("high", 1) {
		t.Error("expected Has to report false after Remove")
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	c := New()
	if _, err := c.Get("high", 5); err == nil {
		t.Error("Get on a missing (tag,date) should fail")
	}
}

func TestDatesSortedAndUniquePerTag(t *testing.T) {
	c := New()
	r := raster.New(1, 1, 1, raster.U8)
	c.Set("low", 30, r)
	c.Set("low", 10, r)
	c.Set("low", 20, r)
	c.Set("high", 99, r)
	dates := c.Dates("low")
	want := []int{10, 20, 30}
	if len(dates) != len(want) {
		t.Fatalf("Dates(low) = %v, want %v", dates, want)
	}
	for i, w := range want {
		if dates[i] != w {
			t.Errorf("Dates(low)[%d] = %d, want %d", i, dates[i], w)
		}
	}
}

func TestLen(t *testing.T) {
	c := New()
	if c.Len() != 0 {
		t.Fatal("new collection should be empty")
	}
	c.Set("high", 1, raster.New(1, 1, 1, raster.U8))
	c.Set("high", 2, raster.New(1, 1, 1, raster.U8))
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}
