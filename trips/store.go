package trips

import "errors"

// ErrTripNotFound is returned when an update targets an unknown trip id.
var ErrTripNotFound = errors.New("trip not found")

// Store persists itinerary documents. There is no delete: trips are
// append-only and mutated in place only by activity regeneration.
type Store interface {
	// Create assigns a new id to the trip and stores it.
	Create(t *Trip) error
	// GetByID returns (nil, nil) when the trip does not exist.
	GetByID(id int) (*Trip, error)
	// Update replaces the stored trip with the same id. Unknown ids fail
	// with ErrTripNotFound.
	Update(t *Trip) error
	// ListByUser returns the user's trips, newest first.
	ListByUser(userID int) ([]Trip, error)
	CountByUser(userID int) (int, error)
}
