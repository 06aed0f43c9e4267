package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tripcraft-backend/accounts"
	"tripcraft-backend/login"
	"tripcraft-backend/pending"
	"tripcraft-backend/planner"
	"tripcraft-backend/trips"

	"github.com/gin-gonic/gin"
)

type stubGenerator struct{}

func (stubGenerator) GenerateItinerary(ctx context.Context, details planner.TripDetails) (*planner.GeneratedItinerary, error) {
	return &planner.GeneratedItinerary{
		Overview: "stub",
		Days: []trips.DayPlan{{Day: 1, Activities: []trips.Activity{
			{Time: "Morning", Title: "walk"},
			{Time: "Afternoon", Title: "museum"},
			{Time: "Evening", Title: "dinner"},
		}}},
	}, nil
}

func (stubGenerator) GenerateActivity(ctx context.Context, trip *trips.Trip, dayIndex int, timeOfDay string) (*trips.Activity, error) {
	return &trips.Activity{Time: timeOfDay, Title: "replacement"}, nil
}

type stubStripe struct {
	verified  bool
	paidTier  string
	verifyErr error
	secret    string
	intentErr error
	lastTier  string
}

func (s *stubStripe) VerifyIntent(id string) (bool, string, error) {
	return s.verified, s.paidTier, s.verifyErr
}

func (s *stubStripe) CreatePackageIntent(packageType string) (string, error) {
	s.lastTier = packageType
	return s.secret, s.intentErr
}

func (s *stubStripe) CreateItineraryIntent() (string, error) {
	return s.secret, s.intentErr
}

func newPaymentsRouter(t *testing.T) (*gin.Engine, *accounts.MemoryStore, *trips.MemoryStore, *stubStripe, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := accounts.NewMemoryStore()
	u := &accounts.User{Username: "traveler", Password: "x"}
	if err := users.Create(u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	store := trips.NewMemoryStore()
	ledger := accounts.NewLedger(users)
	plannerSvc := planner.NewService(ledger, store, stubGenerator{})
	sessions := pending.NewCache(time.Minute)

	stripe := &stubStripe{verified: true, secret: "pi_secret"}
	h := NewHandler(nil, ledger, plannerSvc, sessions)
	h.intents = stripe
	h.verifier = stripe

	r := gin.New()
	h.RegisterRoutes(r, login.NewHandler(users).Middleware())

	token, _ := login.SignToken(u.Username, time.Hour, false)
	return r, users, store, stripe, token
}

func doPost(t *testing.T, r *gin.Engine, path, token, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if session != "" {
		req.Header.Set("X-Session-Id", session)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPurchasePackage(t *testing.T) {
	r, _, _, stripe, token := newPaymentsRouter(t)

	w := doPost(t, r, "/api/purchase-package", token, "", gin.H{"packageType": "premium"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if stripe.lastTier != "premium" {
		t.Fatalf("intent created for wrong tier: %q", stripe.lastTier)
	}
	var resp struct {
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.ClientSecret != "pi_secret" {
		t.Fatalf("missing client secret: %s", w.Body.String())
	}
}

func TestPurchasePackage_InvalidTier(t *testing.T) {
	r, _, _, _, token := newPaymentsRouter(t)
	w := doPost(t, r, "/api/purchase-package", token, "", gin.H{"packageType": "platinum"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPurchasePackage_RequiresAuth(t *testing.T) {
	r, _, _, _, _ := newPaymentsRouter(t)
	w := doPost(t, r, "/api/purchase-package", "", "", gin.H{"packageType": "basic"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestConfirmPackagePurchase_AppliesCredits(t *testing.T) {
	r, users, _, _, token := newPaymentsRouter(t)

	w := doPost(t, r, "/api/confirm-package-purchase", token, "", gin.H{
		"packageType": "basic", "paymentIntentId": "pi_123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := float64(accounts.StarterCredits + accounts.PackageCredits[accounts.PackageBasic])
	if resp["remainingTrips"] != want {
		t.Fatalf("expected %v remaining, got %v", want, resp["remainingTrips"])
	}
	u, _ := users.GetByUsername("traveler")
	if u.PackageType != accounts.PackageBasic {
		t.Fatalf("tier not applied: %s", u.PackageType)
	}
}

func TestConfirmPackagePurchase_Ultimate(t *testing.T) {
	r, users, _, _, token := newPaymentsRouter(t)

	w := doPost(t, r, "/api/confirm-package-purchase", token, "", gin.H{
		"packageType": "ultimate", "paymentIntentId": "pi_123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["remainingTrips"] != "unlimited" {
		t.Fatalf("ultimate should report unlimited, got %v", resp["remainingTrips"])
	}
	u, _ := users.GetByUsername("traveler")
	if !u.Credits.IsUnlimited() {
		t.Fatalf("balance not unlimited: %s", u.Credits)
	}
}

func TestConfirmPackagePurchase_VerificationFailed(t *testing.T) {
	r, users, _, stripe, token := newPaymentsRouter(t)
	stripe.verified = false

	w := doPost(t, r, "/api/confirm-package-purchase", token, "", gin.H{
		"packageType": "basic", "paymentIntentId": "pi_123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	u, _ := users.GetByUsername("traveler")
	if u.PackageType != accounts.PackageFree {
		t.Fatalf("package applied despite failed verification")
	}
}

func TestConfirmPackagePurchase_TierMismatch(t *testing.T) {
	r, users, _, stripe, token := newPaymentsRouter(t)
	stripe.paidTier = "basic"

	w := doPost(t, r, "/api/confirm-package-purchase", token, "", gin.H{
		"packageType": "ultimate", "paymentIntentId": "pi_123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("paid basic, claimed ultimate: expected 400, got %d", w.Code)
	}
	u, _ := users.GetByUsername("traveler")
	if u.PackageType != accounts.PackageFree {
		t.Fatalf("package applied despite tier mismatch")
	}
}

func TestConfirmPackagePurchase_VerifierError(t *testing.T) {
	r, _, _, stripe, token := newPaymentsRouter(t)
	stripe.verifyErr = errors.New("stripe down")

	w := doPost(t, r, "/api/confirm-package-purchase", token, "", gin.H{
		"packageType": "basic", "paymentIntentId": "pi_123",
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestPayPerItineraryFlow(t *testing.T) {
	r, users, store, _, _ := newPaymentsRouter(t)
	session := "sess-1"

	w := doPost(t, r, "/api/create-payment-intent", "", session, planner.TripDetails{
		Destination: "Lisbon", FromDate: "2024-06-01", ToDate: "2024-06-01",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("intent: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doPost(t, r, "/api/payment-success", "", session, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("success: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var trip trips.Trip
	if err := json.Unmarshal(w.Body.Bytes(), &trip); err != nil {
		t.Fatalf("decode: %v", err)
	}
	stored, _ := store.GetByID(trip.ID)
	if stored == nil || stored.Destination != "Lisbon" {
		t.Fatalf("trip not persisted: %+v", stored)
	}

	// Paid-for generation never touches the credit balance.
	u, _ := users.GetByUsername("traveler")
	if u.Credits.Remaining() != accounts.StarterCredits {
		t.Fatalf("pay-per-itinerary flow consumed a credit: %s", u.Credits)
	}

	// The parked details are single-use.
	w = doPost(t, r, "/api/payment-success", "", session, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("replay: expected 400, got %d", w.Code)
	}
}

func TestPaymentSuccess_NoPendingDetails(t *testing.T) {
	r, _, _, _, _ := newPaymentsRouter(t)
	w := doPost(t, r, "/api/payment-success", "", "sess-empty", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
