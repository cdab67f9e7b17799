package domain

import "testing"

func TestDefaultSiteIsValid(t *testing.T) {
	if err := DefaultSite().Validate(); err != nil {
		t.Fatalf("default site invalid: %v", err)
	}
}

func TestGarageWidthInvariant(t *testing.T) {
	g := DefaultSite().Garages[0]
	g.Width = 17
	if err := g.Validate(); err == nil {
		t.Fatalf("expected width mismatch error")
	}
}

func TestLaneXOffset(t *testing.T) {
	site := DefaultSite()

	want := []float64{1, 6, 11}
	for i, w := range want {
		got, ok := site.LaneXOffset(i, "B1")
		if !ok {
			t.Fatalf("lane %d not resolved", i)
		}
		if got != w {
			t.Errorf("lane %d x = %v, want %v", i, got, w)
		}
	}

	if _, ok := site.LaneXOffset(0, "B9"); ok {
		t.Errorf("unknown garage should not resolve")
	}
	if _, ok := site.LaneXOffset(3, "B1"); ok {
		t.Errorf("lane index 3 should not resolve")
	}
}

func TestLaneAt(t *testing.T) {
	g := DefaultSite().Garages[0]

	if i, ok := g.LaneAt(2.5); !ok || i != 0 {
		t.Errorf("LaneAt(2.5) = %d,%v want 0,true", i, ok)
	}
	if i, ok := g.LaneAt(11); !ok || i != 2 {
		t.Errorf("LaneAt(11) = %d,%v want 2,true", i, ok)
	}
	if _, ok := g.LaneAt(5.5); ok {
		t.Errorf("padding between lanes should not resolve")
	}
}

func TestYardWidthIgnoresTruckCount(t *testing.T) {
	y := DefaultSite().Yard
	if got := y.Width(); got != 26 {
		t.Fatalf("yard width = %v, want 26", got)
	}
}
