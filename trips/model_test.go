package trips

import (
	"reflect"
	"testing"
)

func TestNumberOfDays_Inclusive(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2024-06-01", "2024-06-03", 3},
		{"2024-06-01", "2024-06-01", 1},
		{"2024-12-30", "2025-01-02", 4},
	}
	for _, c := range cases {
		got, err := NumberOfDays(c.from, c.to)
		if err != nil {
			t.Fatalf("%s..%s: %v", c.from, c.to, err)
		}
		if got != c.want {
			t.Fatalf("%s..%s: expected %d days, got %d", c.from, c.to, c.want, got)
		}
	}
}

func TestNumberOfDays_InvalidDate(t *testing.T) {
	if _, err := NumberOfDays("June 1st", "2024-06-03"); err == nil {
		t.Fatalf("expected error for non-ISO date")
	}
}

func TestSortActivities_CanonicalOrder(t *testing.T) {
	acts := []Activity{
		{Time: "Evening", Title: "dinner"},
		{Time: "morning", Title: "museum"},
		{Time: "Afternoon", Title: "park"},
	}
	SortActivities(acts)
	got := []string{acts[0].Title, acts[1].Title, acts[2].Title}
	if !reflect.DeepEqual(got, []string{"museum", "park", "dinner"}) {
		t.Fatalf("wrong order: %v", got)
	}
}

func TestSortActivities_UnknownLabelSortsFirst(t *testing.T) {
	// Labels outside the canonical three rank with Morning; the sort is
	// stable so they keep their relative position among rank-0 entries.
	acts := []Activity{
		{Time: "Evening", Title: "show"},
		{Time: "Late Night", Title: "bar"},
		{Time: "Morning", Title: "hike"},
	}
	SortActivities(acts)
	if acts[2].Title != "show" {
		t.Fatalf("evening should sort last, got %v", acts)
	}
	if acts[0].Title != "bar" || acts[1].Title != "hike" {
		t.Fatalf("unknown label should rank with morning, got %v", acts)
	}
}

func TestMissingSlots(t *testing.T) {
	day := DayPlan{Activities: []Activity{
		{Time: "Morning"},
		{Time: "evening"},
	}}
	missing := day.MissingSlots()
	if !reflect.DeepEqual(missing, []string{SlotAfternoon}) {
		t.Fatalf("expected [Afternoon], got %v", missing)
	}

	full := DayPlan{Activities: []Activity{
		{Time: "Morning"}, {Time: "Afternoon"}, {Time: "Evening"},
	}}
	if got := full.MissingSlots(); len(got) != 0 {
		t.Fatalf("complete day should have no missing slots, got %v", got)
	}
}
