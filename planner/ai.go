package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"

	"tripcraft-backend/trips"
)

// jsonCompleter abstracts the OpenAI client so handlers and the service can
// be unit tested with canned payloads.
type jsonCompleter interface {
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)
}

// AIGenerator produces itineraries and replacement activities through the
// OpenAI JSON-mode completion API.
type AIGenerator struct {
	ai jsonCompleter
}

func NewAIGenerator(ai jsonCompleter) *AIGenerator {
	return &AIGenerator{ai: ai}
}

func (g *AIGenerator) GenerateItinerary(ctx context.Context, details TripDetails) (*GeneratedItinerary, error) {
	numDays, err := trips.NumberOfDays(details.FromDate, details.ToDate)
	if err != nil {
		return nil, err
	}
	raw, err := g.ai.CompleteJSON(ctx, itinerarySystemPrompt, itineraryPrompt(details, numDays))
	if err != nil {
		return nil, err
	}
	var it GeneratedItinerary
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, fmt.Errorf("malformed itinerary payload: %w", err)
	}
	if len(it.Days) == 0 {
		return nil, fmt.Errorf("itinerary payload has no days")
	}
	// Video picks are best effort; a failure here never sinks the itinerary.
	it.VideoRecommendations = g.videoRecommendations(ctx, details.Destination, details.TripType)
	return &it, nil
}

func (g *AIGenerator) GenerateActivity(ctx context.Context, trip *trips.Trip, dayIndex int, timeOfDay string) (*trips.Activity, error) {
	day := trip.Days[dayIndex]
	raw, err := g.ai.CompleteJSON(ctx, activitySystemPrompt, activityPrompt(trip, day, dayIndex, timeOfDay))
	if err != nil {
		return nil, err
	}
	var act trips.Activity
	if err := json.Unmarshal([]byte(raw), &act); err != nil {
		return nil, fmt.Errorf("malformed activity payload: %w", err)
	}
	if act.Time == "" {
		act.Time = timeOfDay
	}
	return &act, nil
}

// videoRecommendations asks for real YouTube videos and rewrites every link
// into a search-query URL so stale or hallucinated video ids still land the
// user somewhere useful. On any failure it falls back to generic searches.
func (g *AIGenerator) videoRecommendations(ctx context.Context, destination, tripType string) []trips.VideoRecommendation {
	raw, err := g.ai.CompleteJSON(ctx, videoSystemPrompt, videoPrompt(destination, tripType))
	if err != nil {
		log.Printf("[planner][videos] provider error, using fallback: %v", err)
		return fallbackVideos(destination, tripType)
	}
	var payload struct {
		Recommendations []trips.VideoRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || len(payload.Recommendations) == 0 {
		log.Printf("[planner][videos] malformed payload, using fallback")
		return fallbackVideos(destination, tripType)
	}
	out := make([]trips.VideoRecommendation, 0, len(payload.Recommendations))
	for _, rec := range payload.Recommendations {
		out = append(out, trips.VideoRecommendation{
			Title:       rec.Title,
			Description: rec.Description,
			YoutubeURL:  searchURL(rec.Title),
		})
	}
	return out
}

func searchURL(query string) string {
	return "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)
}

func fallbackVideos(destination, tripType string) []trips.VideoRecommendation {
	return []trips.VideoRecommendation{
		{
			Title:       fmt.Sprintf("%s Travel Guide", destination),
			Description: fmt.Sprintf("Comprehensive travel guide covering the best attractions, activities, and tips for %s travelers visiting %s.", tripType, destination),
			YoutubeURL:  searchURL(fmt.Sprintf("%s travel guide %s", destination, tripType)),
		},
		{
			Title:       fmt.Sprintf("Best Places to Visit in %s", destination),
			Description: fmt.Sprintf("A curated list of must-visit locations in %s perfect for %s travelers looking for authentic experiences.", destination, tripType),
			YoutubeURL:  searchURL(fmt.Sprintf("best places to visit in %s", destination)),
		},
		{
			Title:       fmt.Sprintf("%s Food Guide", destination),
			Description: fmt.Sprintf("Delicious local cuisine and dining experiences in %s that every %s traveler should try.", destination, tripType),
			YoutubeURL:  searchURL(fmt.Sprintf("%s food guide", destination)),
		},
	}
}
