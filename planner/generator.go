package planner

import (
	"context"

	"tripcraft-backend/trips"
)

// TripDetails are the parameters a traveler submits for a generation.
type TripDetails struct {
	Destination       string `json:"destination"`
	FromDate          string `json:"fromDate"`
	ToDate            string `json:"toDate"`
	Budget            int    `json:"budget"`
	TripType          string `json:"tripType"`
	NumberOfTravelers int    `json:"numberOfTravelers"`
	AdditionalNotes   string `json:"additionalNotes,omitempty"`
}

// GeneratedItinerary is the provider's full-itinerary payload before it is
// bound to a user and persisted as a Trip.
type GeneratedItinerary struct {
	Overview             string                      `json:"overview"`
	Days                 []trips.DayPlan             `json:"days"`
	TransportationTips   []trips.TransportTip        `json:"transportationTips"`
	FoodRecommendations  []trips.FoodRecommendation  `json:"foodRecommendations"`
	VideoRecommendations []trips.VideoRecommendation `json:"videoRecommendations,omitempty"`
}

// Generator is the external generation provider. The prompt contract asks
// for exactly one Morning, Afternoon and Evening activity per day; provider
// output is treated as authoritative and is not re-validated before
// persisting.
type Generator interface {
	GenerateItinerary(ctx context.Context, details TripDetails) (*GeneratedItinerary, error)
	GenerateActivity(ctx context.Context, trip *trips.Trip, dayIndex int, timeOfDay string) (*trips.Activity, error)
}
