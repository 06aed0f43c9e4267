package trips

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/login"

	"github.com/gin-gonic/gin"
)

func newTripsRouter(t *testing.T) (*gin.Engine, *MemoryStore, string, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := accounts.NewMemoryStore()
	u := &accounts.User{Username: "traveler", Password: "x"}
	if err := users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	store := NewMemoryStore()

	r := gin.New()
	NewHandler(store).RegisterRoutes(r, login.NewHandler(users).Middleware())
	token, _ := login.SignToken(u.Username, time.Hour, false)
	return r, store, token, u.ID
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetTrip_PublicByID(t *testing.T) {
	r, store, _, userID := newTripsRouter(t)
	trip := &Trip{UserID: userID, Destination: "Lisbon"}
	if err := store.Create(trip); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := get(r, "/api/trips/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", w.Code)
	}
	var got Trip
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || got.Destination != "Lisbon" {
		t.Fatalf("bad payload: %s", w.Body.String())
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	r, _, _, _ := newTripsRouter(t)
	if w := get(r, "/api/trips/99", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetTrip_BadID(t *testing.T) {
	r, _, _, _ := newTripsRouter(t)
	if w := get(r, "/api/trips/abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListTrips_ScopedToCaller(t *testing.T) {
	r, store, token, userID := newTripsRouter(t)
	_ = store.Create(&Trip{UserID: userID, Destination: "Lisbon", CreatedAt: time.Now()})
	_ = store.Create(&Trip{UserID: userID + 1, Destination: "Oslo", CreatedAt: time.Now()})

	w := get(r, "/api/trips", token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var list []Trip
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Destination != "Lisbon" {
		t.Fatalf("list should only contain the caller's trips: %+v", list)
	}
}

func TestListTrips_RequiresAuth(t *testing.T) {
	r, _, _, _ := newTripsRouter(t)
	if w := get(r, "/api/trips", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
