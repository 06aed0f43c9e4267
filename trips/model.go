package trips

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Canonical time-of-day slots. Every generated day is expected to carry
// exactly one activity per slot; the contract is enforced at the prompt
// level, so incomplete days can still reach storage and are repaired via
// activity regeneration.
const (
	SlotMorning   = "Morning"
	SlotAfternoon = "Afternoon"
	SlotEvening   = "Evening"
)

// CanonicalSlots in display order.
var CanonicalSlots = []string{SlotMorning, SlotAfternoon, SlotEvening}

var slotRank = map[string]int{
	"morning":   0,
	"afternoon": 1,
	"evening":   2,
}

// SlotOrder returns the sort rank of a time-of-day label. Labels outside the
// canonical three sort together with Morning so future labels don't break
// ordering.
func SlotOrder(label string) int {
	if r, ok := slotRank[strings.ToLower(strings.TrimSpace(label))]; ok {
		return r
	}
	return 0
}

type Activity struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Cost        string `json:"cost,omitempty"`
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

type TransportTip struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FoodRecommendation struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type VideoRecommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	YoutubeURL  string `json:"youtubeUrl"`
}

// Trip is one generated itinerary owned by a single user.
type Trip struct {
	ID                   int                   `json:"id"`
	UserID               int                   `json:"userId"`
	Destination          string                `json:"destination"`
	FromDate             string                `json:"fromDate"`
	ToDate               string                `json:"toDate"`
	Budget               int                   `json:"budget"`
	TripType             string                `json:"tripType"`
	NumberOfTravelers    int                   `json:"numberOfTravelers"`
	Overview             string                `json:"overview"`
	Days                 []DayPlan             `json:"days"`
	TransportationTips   []TransportTip        `json:"transportationTips"`
	FoodRecommendations  []FoodRecommendation  `json:"foodRecommendations"`
	VideoRecommendations []VideoRecommendation `json:"videoRecommendations,omitempty"`
	CreatedAt            time.Time             `json:"createdAt"`
}

const dateLayout = "2006-01-02"

// NumberOfDays returns the inclusive day span between two YYYY-MM-DD dates,
// so 2024-06-01..2024-06-03 spans 3 days.
func NumberOfDays(fromDate, toDate string) (int, error) {
	from, err := time.Parse(dateLayout, fromDate)
	if err != nil {
		return 0, fmt.Errorf("invalid from date %q: %w", fromDate, err)
	}
	to, err := time.Parse(dateLayout, toDate)
	if err != nil {
		return 0, fmt.Errorf("invalid to date %q: %w", toDate, err)
	}
	diff := int(to.Sub(from).Hours() / 24)
	if diff < 0 {
		diff = -diff
	}
	return diff + 1, nil
}

// SortActivities orders a day's activities Morning, Afternoon, Evening.
func SortActivities(acts []Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		return SlotOrder(acts[i].Time) < SlotOrder(acts[j].Time)
	})
}

// MissingSlots lists the canonical slots that have no activity in the day,
// used by clients to offer the regenerate-activity repair flow.
func (d DayPlan) MissingSlots() []string {
	present := map[string]bool{}
	for _, a := range d.Activities {
		present[strings.ToLower(strings.TrimSpace(a.Time))] = true
	}
	missing := []string{}
	for _, slot := range CanonicalSlots {
		if !present[strings.ToLower(slot)] {
			missing = append(missing, slot)
		}
	}
	return missing
}
