package planner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/trips"
)

var (
	// ErrGenerationFailed covers provider faults (network, timeout,
	// malformed payload) during full generation. Nothing is persisted,
	// no credit is charged, safe to retry.
	ErrGenerationFailed = errors.New("itinerary generation failed")
	// ErrRegenerationFailed is the same class of fault during a single
	// activity regeneration; the stored trip is untouched.
	ErrRegenerationFailed = errors.New("activity regeneration failed")
	// ErrPersistenceFailed means the provider succeeded but the store
	// write failed. The credit is not charged and the generated content
	// is lost; the caller may resubmit.
	ErrPersistenceFailed = errors.New("failed to save itinerary")
	// ErrDayNotFound rejects a regeneration targeting a day index outside
	// the trip.
	ErrDayNotFound = errors.New("day not found in itinerary")
)

// Service orchestrates itinerary generation and single-activity
// regeneration against the ledger, the document store and the provider.
type Service struct {
	ledger *accounts.Ledger
	store  trips.Store
	gen    Generator
}

func NewService(ledger *accounts.Ledger, store trips.Store, gen Generator) *Service {
	return &Service{ledger: ledger, store: store, gen: gen}
}

// Generate runs the metered flow: entitlement check, provider call, persist,
// then charge. Persisting before charging is deliberate - a crash in between
// leaves the user with an unconsumed credit rather than a paid-for lost
// document.
func (s *Service) Generate(ctx context.Context, userID int, details TripDetails) (*trips.Trip, error) {
	allowed, credits, err := s.ledger.CheckEntitlement(userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &accounts.ExhaustedError{Remaining: credits.Remaining()}
	}
	trip, err := s.generateAndPersist(ctx, userID, details)
	if err != nil {
		return nil, err
	}
	if remaining, err := s.ledger.ConsumeCredit(userID); err != nil {
		// The trip is saved; an accounting hiccup here favors the user.
		log.Printf("[planner][consume] account=%d trip=%d err=%v", userID, trip.ID, err)
	} else if !remaining.IsUnlimited() {
		log.Printf("[planner][generate] account=%d trip=%d remaining=%s", userID, trip.ID, remaining)
	}
	return trip, nil
}

// GenerateUnmetered generates and persists without touching the ledger. Used
// by the session-based demo flow and the pay-per-itinerary flow, where the
// payment already happened.
func (s *Service) GenerateUnmetered(ctx context.Context, userID int, details TripDetails) (*trips.Trip, error) {
	return s.generateAndPersist(ctx, userID, details)
}

func (s *Service) generateAndPersist(ctx context.Context, userID int, details TripDetails) (*trips.Trip, error) {
	it, err := s.gen.GenerateItinerary(ctx, details)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	travelers := details.NumberOfTravelers
	if travelers <= 0 {
		travelers = 2
	}
	trip := &trips.Trip{
		UserID:               userID,
		Destination:          details.Destination,
		FromDate:             details.FromDate,
		ToDate:               details.ToDate,
		Budget:               details.Budget,
		TripType:             details.TripType,
		NumberOfTravelers:    travelers,
		Overview:             it.Overview,
		Days:                 it.Days,
		TransportationTips:   it.TransportationTips,
		FoodRecommendations:  it.FoodRecommendations,
		VideoRecommendations: it.VideoRecommendations,
		CreatedAt:            time.Now(),
	}
	if err := s.store.Create(trip); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return trip, nil
}

// RegenerateActivity replaces one time-of-day slot in one day of a stored
// trip. The merge-and-persist step only runs after a successful provider
// response, so a provider fault leaves the stored trip unchanged.
// Regeneration is unmetered: it never consumes a credit.
func (s *Service) RegenerateActivity(ctx context.Context, tripID, dayIndex int, timeOfDay string) (*trips.Trip, error) {
	trip, err := s.store.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, trips.ErrTripNotFound
	}
	if dayIndex < 0 || dayIndex >= len(trip.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrDayNotFound, dayIndex+1, len(trip.Days))
	}
	act, err := s.gen.GenerateActivity(ctx, trip, dayIndex, timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegenerationFailed, err)
	}
	merged := MergeActivity(trip, dayIndex, timeOfDay, *act)
	if err := s.store.Update(merged); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}
	return merged, nil
}

// MergeActivity returns a copy of the trip where the target day's slot is
// replaced by act: activities whose label matches timeOfDay
// case-insensitively are dropped, the new activity is appended, and the
// day's activities are re-sorted into canonical Morning/Afternoon/Evening
// order. All other days and all other slots of the target day are untouched.
func MergeActivity(t *trips.Trip, dayIndex int, timeOfDay string, act trips.Activity) *trips.Trip {
	merged := *t
	merged.Days = make([]trips.DayPlan, len(t.Days))
	copy(merged.Days, t.Days)

	day := merged.Days[dayIndex]
	kept := make([]trips.Activity, 0, len(day.Activities))
	for _, a := range day.Activities {
		if !strings.EqualFold(a.Time, timeOfDay) {
			kept = append(kept, a)
		}
	}
	day.Activities = append(kept, act)
	trips.SortActivities(day.Activities)
	merged.Days[dayIndex] = day
	return &merged
}
