package planner

import (
	"fmt"

	"tripcraft-backend/trips"
)

const itinerarySystemPrompt = "You are a travel expert who creates detailed, personalized travel itineraries."

const activitySystemPrompt = "You are a travel expert who creates personalized travel activities that fit within an existing itinerary."

const videoSystemPrompt = "You are a travel expert who provides recommendations for authentic travel content from real travel YouTubers. You only recommend videos that actually exist with valid YouTube URLs."

func itineraryPrompt(d TripDetails, numDays int) string {
	travelers := d.NumberOfTravelers
	if travelers <= 0 {
		travelers = 2
	}
	notes := d.AdditionalNotes
	if notes == "" {
		notes = "None"
	}
	return fmt.Sprintf(`Create a detailed travel itinerary for a trip to %[1]s.
The trip is from %[2]s to %[3]s (%[4]d days).
The budget is $%[5]d.
The trip type is "%[6]s".
Number of travelers: %[7]d.
Additional notes: %[8]s

Make sure to customize the trip experience based on the number of travelers (%[7]d) and mention this in the overview.

IMPORTANT REQUIREMENTS:
1. For EACH day in the itinerary, you MUST include exactly ONE Morning activity, ONE Afternoon activity, and ONE Evening activity. No more, no less.
2. The overview should include 2-3 interesting and UNIQUE facts about %[1]s that most tourists don't know - these should be specific to this destination and NOT generic travel facts.
3. Each activity description should contain specific details relevant to %[1]s - avoid generic descriptions.
4. Make sure transportation tips are practical and specifically relevant to %[1]s.
5. Include local food specialties that are authentic to %[1]s in the food recommendations.

Please provide a response in JSON format with the following structure:
{
  "overview": "A paragraph overview of the trip that includes 2-3 unique and interesting facts about the destination...",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "title": "Day title",
      "activities": [
        {"time": "Morning", "title": "Activity title", "description": "Activity description with specific details about the place", "location": "Specific address or location name", "duration": "Approximate duration", "cost": "Approximate cost"},
        {"time": "Afternoon", "title": "Activity title", "description": "Activity description with specific details about the place", "location": "Specific address or location name", "duration": "Approximate duration", "cost": "Approximate cost"},
        {"time": "Evening", "title": "Activity title", "description": "Activity description with specific details about the place", "location": "Specific address or location name", "duration": "Approximate duration", "cost": "Approximate cost"}
      ]
    }
  ],
  "transportationTips": [
    {"icon": "fas fa-subway/fas fa-train/fas fa-walking", "title": "Tip title", "description": "Transportation tip description specific to %[1]s"}
  ],
  "foodRecommendations": [
    {"type": "food/drink", "name": "Food name", "description": "Description of the authentic local food/drink and specific places to find it in %[1]s"}
  ]
}

Ensure that the activities are appropriate for the %[6]s trip type and fit within the $%[5]d budget.`,
		d.Destination, d.FromDate, d.ToDate, numDays, d.Budget, d.TripType, travelers, notes)
}

func activityPrompt(t *trips.Trip, day trips.DayPlan, dayIndex int, timeOfDay string) string {
	travelers := t.NumberOfTravelers
	if travelers <= 0 {
		travelers = 2
	}
	return fmt.Sprintf(`I need a new %[1]s activity for day %[2]d (%[3]s) of a trip to %[4]s.

Trip details:
- Destination: %[4]s
- Trip type: %[5]s
- Budget: $%[6]d
- Number of travelers: %[7]d

Current day plan title: "%[8]s"

IMPORTANT REQUIREMENTS:
1. Please create a new %[1]s activity that fits with the theme of the day and the overall trip.
2. The activity should be DIFFERENT from the previous one but maintain the style and spirit of the trip.
3. Include specific details about the location that are unique to %[4]s - avoid generic descriptions.
4. Include at least one interesting or lesser-known fact about the activity or location.
5. Provide specific location details rather than generic descriptions.

Return only a single JSON object with this structure:
{
  "time": "%[1]s",
  "title": "Activity title",
  "description": "Activity description with specific details and an interesting fact about the place",
  "location": "Specific address or location name in %[4]s",
  "duration": "Approximate duration",
  "cost": "Approximate cost"
}`,
		timeOfDay, dayIndex+1, day.Date, t.Destination, t.TripType, t.Budget, travelers, day.Title)
}

func videoPrompt(destination, tripType string) string {
	return fmt.Sprintf(`I need recommendations for authentic, high-quality YouTube travel videos about %[1]s that fit with a %[2]s style trip.

Please provide 3 YouTube video recommendations that meet these criteria:
1. Must be from REAL, popular, and well-known travel YouTubers like Rick Steves, Mark Wiens, Drew Binsky, Kara and Nate, or similar
2. Must be focused specifically on %[1]s
3. Must be comprehensive travel guides or vlogs that actually exist
4. Should be engaging and have good production quality
5. Must have specific titles that match actual existing videos
6. Each recommendation should cover unique aspects of %[1]s

IMPORTANT: DO NOT MAKE UP VIDEOS. ONLY recommend videos from channels you are 100%% certain exist.

Return the recommendations in this JSON format:
{
  "recommendations": [
    {"title": "The exact title of a real YouTube video", "description": "A brief 1-2 sentence description of what the video covers and why it's useful for %[2]s travelers", "youtubeUrl": "https://www.youtube.com/watch?v=videoID"}
  ]
}`, destination, tripType)
}
