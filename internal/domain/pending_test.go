package domain

import "testing"

func TestPendingRecordCollapsesRoundTrip(t *testing.T) {
	p := PendingChanges{}

	p.Record("t1", "B1_F1_V1", "B1_F2_V1")
	if !p.Has("t1") {
		t.Fatalf("expected pending change for t1")
	}

	p.Record("t1", "B1_F2_V1", "B3_F1_V2")
	if got := p["t1"]; got.OriginalSpot != "B1_F1_V1" || got.NewSpot != "B3_F1_V2" {
		t.Fatalf("updated change = %+v", got)
	}

	p.Record("t1", "ignored", "B1_F1_V1")
	if len(p) != 0 {
		t.Fatalf("moving back to original should clear, got %v", p)
	}
}

func TestPendingYardFormsAreEqual(t *testing.T) {
	p := PendingChanges{}
	p.Record("t1", YardSpot, "junk")
	if len(p) != 0 {
		t.Fatalf("yard to unparseable spot is not a move, got %v", p)
	}
}

func TestPendingApplyDoesNotMutate(t *testing.T) {
	spot := "B1_F1_V1"
	base := []*Truck{{TruckID: "t1", Spot: &spot, Length: 5}, {TruckID: "t2", Length: 5}}

	p := PendingChanges{}
	p.Record("t1", spot, YardSpot)
	p.Record("t2", YardSpot, "B2_F1_V1")

	got := p.Apply(base)

	if base[0].SpotValue() != spot || base[1].Spot != nil {
		t.Fatalf("base trucks mutated")
	}
	if got[0].SpotValue() != YardSpot || got[1].SpotValue() != "B2_F1_V1" {
		t.Fatalf("applied = %s, %s", got[0].SpotValue(), got[1].SpotValue())
	}

	changes := p.Changes()
	if len(changes) != 2 || changes[0].TruckID != "t1" || changes[1].TruckID != "t2" {
		t.Fatalf("changes = %+v", changes)
	}
}
