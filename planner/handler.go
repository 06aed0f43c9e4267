package planner

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"tripcraft-backend/accounts"
	"tripcraft-backend/files"
	"tripcraft-backend/login"
	"tripcraft-backend/pending"
	"tripcraft-backend/trips"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// demoUserID owns trips created through the unauthenticated demo flow.
const demoUserID = 1

type Handler struct {
	svc      *Service
	ledger   *accounts.Ledger
	sessions *pending.Cache
}

func NewHandler(svc *Service, ledger *accounts.Ledger, sessions *pending.Cache) *Handler {
	return &Handler{svc: svc, ledger: ledger, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.POST("/api/generate-itinerary", h.generateDemo)
	r.POST("/api/regenerate-activity", h.regenerateActivity)
	r.POST("/api/extract-notes", h.extractNotes)
	r.POST("/api/generate-authenticated-itinerary", auth, h.generateAuthenticated)
	r.GET("/api/check-trip-limit", auth, h.checkTripLimit)
}

// generateDemo is the unauthenticated, unmetered flow. Created trips are
// tied to the caller's session id so the demo client can list them.
func (h *Handler) generateDemo(c *gin.Context) {
	var details TripDetails
	if err := c.ShouldBindJSON(&details); err != nil || details.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip details"})
		return
	}
	trip, err := h.svc.GenerateUnmetered(c.Request.Context(), demoUserID, details)
	if err != nil {
		log.Printf("[planner][demo] generation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary"})
		return
	}
	h.sessions.AddTrip(pending.SessionID(c), trip.ID)
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) generateAuthenticated(c *gin.Context) {
	user := login.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var details TripDetails
	if err := c.ShouldBindJSON(&details); err != nil || details.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip details"})
		return
	}
	trip, err := h.svc.Generate(c.Request.Context(), user.ID, details)
	if err != nil {
		var exhausted *accounts.ExhaustedError
		switch {
		case errors.As(err, &exhausted):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     "No trip credits remaining",
				"remaining": exhausted.Remaining,
				"message":   "You've used all your trip credits. Please purchase a package to continue.",
			})
		case errors.Is(err, accounts.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("[planner][generate] account=%d error: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary"})
		}
		return
	}
	c.JSON(http.StatusCreated, trip)
}

type regeneratePayload struct {
	TripID   int    `json:"tripId"`
	DayIndex int    `json:"dayIndex"`
	Time     string `json:"time"`
}

func (h *Handler) regenerateActivity(c *gin.Context) {
	var p regeneratePayload
	if err := c.ShouldBindJSON(&p); err != nil || p.Time == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid regeneration request"})
		return
	}
	trip, err := h.svc.RegenerateActivity(c.Request.Context(), p.TripID, p.DayIndex, p.Time)
	if err != nil {
		switch {
		case errors.Is(err, trips.ErrTripNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		case errors.Is(err, ErrDayNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Day not found in itinerary"})
		default:
			log.Printf("[planner][regenerate] trip=%d error: %v", p.TripID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate activity"})
		}
		return
	}
	c.JSON(http.StatusOK, trip)
}

func (h *Handler) checkTripLimit(c *gin.Context) {
	user := login.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	allowed, credits, err := h.ledger.CheckEntitlement(user.ID)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check trip limit"})
		return
	}
	if credits.IsUnlimited() {
		c.JSON(http.StatusOK, gin.H{"canCreateTrip": true, "remainingTrips": "unlimited"})
		return
	}
	if !allowed {
		c.JSON(http.StatusOK, gin.H{
			"canCreateTrip":  false,
			"remainingTrips": 0,
			"message":        "You've used all your trip credits. Please purchase a package to continue.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"canCreateTrip":  true,
		"remainingTrips": credits.Remaining(),
		"packageType":    user.PackageType,
	})
}

// extractNotes pulls the text layer out of an uploaded PDF (a brochure or
// the traveler's own notes) so the client can attach it as additionalNotes
// on a generation request.
func (h *Handler) extractNotes(c *gin.Context) {
	upload, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PDF file required"})
		return
	}
	tmp := filepath.Join(os.TempDir(), uuid.NewString()+".pdf")
	if err := c.SaveUploadedFile(upload, tmp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store upload"})
		return
	}
	defer os.Remove(tmp)
	notes, err := files.ExtractNotes(tmp, 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read PDF"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}
