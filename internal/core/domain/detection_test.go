package domain

import "testing"

func TestCategoryOf(t *testing.T) {
	cases := map[string]string{
		"elephant":       CategoryAnimal,
		"Person":         CategoryHuman,
		"human_activity": CategoryHuman,
		" poacher ":      CategoryHuman,
		"chainsaw":       CategoryThreat,
		"Vehicle":        CategoryThreat,
		"":               CategoryAnimal,
	}
	for in, want := range cases {
		if got := CategoryOf(in); got != want {
			t.Fatalf("CategoryOf(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDetectionKind_PrefersBackendType(t *testing.T) {
	d := Detection{DetectedObject: "person", Type: CategoryThreat}
	if d.Kind() != CategoryThreat {
		t.Fatalf("expected backend type to win, got %s", d.Kind())
	}
}

func TestFilterDetections_AnimalKeepsOrder(t *testing.T) {
	list := []Detection{
		{ID: "1", DetectedObject: "leopard"},
		{ID: "2", DetectedObject: "person"},
		{ID: "3", DetectedObject: "elephant"},
		{ID: "4", DetectedObject: "gunshot"},
		{ID: "5", DetectedObject: "zebra", Type: CategoryAnimal},
		{ID: "6", DetectedObject: "leopard", Type: CategoryHuman},
	}

	got := FilterDetections(list, DetectionFilter{Type: CategoryAnimal})

	want := []ID{"1", "3", "5"}
	if len(got) != len(want) {
		t.Fatalf("expected %d detections, got %d", len(want), len(got))
	}
	for i, d := range got {
		if d.ID != want[i] {
			t.Fatalf("position %d: expected id %s, got %s", i, want[i], d.ID)
		}
		if d.Kind() != CategoryAnimal {
			t.Fatalf("non-animal detection %s kept", d.ID)
		}
	}
	if list[1].ID != "2" || len(list) != 6 {
		t.Fatalf("input slice was modified")
	}
}

func TestFilterDetections_CombinedCriteria(t *testing.T) {
	verified := true
	list := []Detection{
		{ID: "1", CameraTrapID: "7", AlertLevel: "high", IsVerified: true, DetectedObject: "rhino", CameraName: "North Gate"},
		{ID: "2", CameraTrapID: "7", AlertLevel: "high", IsVerified: false, DetectedObject: "rhino"},
		{ID: "3", CameraTrapID: "8", AlertLevel: "high", IsVerified: true, DetectedObject: "rhino"},
		{ID: "4", CameraTrapID: "7", AlertLevel: "low", IsVerified: true, DetectedObject: "rhino"},
	}

	got := FilterDetections(list, DetectionFilter{AlertLevel: "HIGH", CameraID: "7", Verified: &verified, Search: "north"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestFilterDetections_ZeroFilterKeepsAll(t *testing.T) {
	list := []Detection{{ID: "1"}, {ID: "2"}}
	if !(DetectionFilter{}).IsZero() {
		t.Fatalf("expected zero filter")
	}
	if got := FilterDetections(list, DetectionFilter{}); len(got) != 2 {
		t.Fatalf("expected all detections, got %d", len(got))
	}
	if got := FilterDetections(nil, DetectionFilter{}); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
}
