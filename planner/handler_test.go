package planner

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/login"
	"tripcraft-backend/pending"
	"tripcraft-backend/trips"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) (*gin.Engine, *accounts.MemoryStore, *trips.MemoryStore, *fakeGenerator, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := accounts.NewMemoryStore()
	u := &accounts.User{Username: "traveler", Password: "x"}
	if err := users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	store := trips.NewMemoryStore()
	gen := &fakeGenerator{itinerary: sampleItinerary()}
	ledger := accounts.NewLedger(users)
	svc := NewService(ledger, store, gen)

	r := gin.New()
	auth := login.NewHandler(users).Middleware()
	NewHandler(svc, ledger, pending.NewCache(time.Minute)).RegisterRoutes(r, auth)

	token, _ := login.SignToken(u.Username, time.Hour, false)
	return r, users, store, gen, token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateAuthenticated_Created(t *testing.T) {
	r, users, _, _, token := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/generate-authenticated-itinerary", token, TripDetails{
		Destination: "Lisbon", FromDate: "2024-06-01", ToDate: "2024-06-02",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var trip trips.Trip
	if err := json.Unmarshal(w.Body.Bytes(), &trip); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if trip.Destination != "Lisbon" || len(trip.Days) != 2 {
		t.Fatalf("unexpected trip payload: %+v", trip)
	}
	u, _ := users.GetByUsername("traveler")
	if u.Credits.Remaining() != accounts.StarterCredits-1 {
		t.Fatalf("expected one credit consumed, got %s", u.Credits)
	}
}

func TestGenerateAuthenticated_NoToken(t *testing.T) {
	r, _, _, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/generate-authenticated-itinerary", "", TripDetails{Destination: "Lisbon"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGenerateAuthenticated_ExhaustedReturns403(t *testing.T) {
	r, users, _, gen, token := newTestRouter(t)
	u, _ := users.GetByUsername("traveler")
	for i := 0; i < accounts.StarterCredits; i++ {
		if _, err := users.DecrementCredits(u.ID); err != nil {
			t.Fatalf("drain: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodPost, "/api/generate-authenticated-itinerary", token, TripDetails{Destination: "Lisbon"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Remaining *int   `json:"remaining"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Remaining == nil || *resp.Remaining != 0 {
		t.Fatalf("403 body must carry remaining=0: %s", w.Body.String())
	}
	if resp.Message == "" {
		t.Fatalf("403 body must carry an upgrade message")
	}
	if gen.calls != 0 {
		t.Fatalf("provider called for exhausted account")
	}
}

func TestGenerateAuthenticated_InvalidBody(t *testing.T) {
	r, _, _, _, token := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/generate-authenticated-itinerary", token, gin.H{"destination": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestRegenerateActivity_HTTPFlow(t *testing.T) {
	r, _, store, gen, _ := newTestRouter(t)
	trip := &trips.Trip{UserID: demoUserID, Destination: "Lisbon", Days: sampleItinerary().Days}
	if err := store.Create(trip); err != nil {
		t.Fatalf("seed: %v", err)
	}
	gen.activity = &trips.Activity{Time: "Morning", Title: "Castle climb"}

	w := doJSON(t, r, http.MethodPost, "/api/regenerate-activity", "", regeneratePayload{
		TripID: trip.ID, DayIndex: 0, Time: "Morning",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got trips.Trip
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Days[0].Activities[0].Title != "Castle climb" {
		t.Fatalf("morning slot not replaced: %+v", got.Days[0].Activities)
	}
}

func TestRegenerateActivity_UnknownTripReturns404(t *testing.T) {
	r, _, _, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/regenerate-activity", "", regeneratePayload{
		TripID: 404, DayIndex: 0, Time: "Morning",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestRegenerateActivity_BadDayReturns404(t *testing.T) {
	r, _, store, _, _ := newTestRouter(t)
	trip := &trips.Trip{UserID: demoUserID, Days: sampleItinerary().Days}
	if err := store.Create(trip); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w := doJSON(t, r, http.MethodPost, "/api/regenerate-activity", "", regeneratePayload{
		TripID: trip.ID, DayIndex: 9, Time: "Morning",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGenerateDemo_TiesTripToSession(t *testing.T) {
	r, _, _, _, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/generate-itinerary", "", TripDetails{
		Destination: "Lisbon", FromDate: "2024-06-01", ToDate: "2024-06-02",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Session-Id") == "" {
		t.Fatalf("demo flow must assign a session id")
	}
}

func TestCheckTripLimit(t *testing.T) {
	r, users, _, _, token := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/check-trip-limit", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["canCreateTrip"] != true || resp["remainingTrips"] != float64(accounts.StarterCredits) {
		t.Fatalf("fresh account: %v", resp)
	}

	u, _ := users.GetByUsername("traveler")
	ledger := accounts.NewLedger(users)
	if _, err := ledger.ApplyPackage(u.ID, accounts.PackageUltimate, 0); err != nil {
		t.Fatalf("apply ultimate: %v", err)
	}
	w = doJSON(t, r, http.MethodGet, "/api/check-trip-limit", token, nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["remainingTrips"] != "unlimited" {
		t.Fatalf("ultimate tier should report the string unlimited: %v", resp)
	}
}
