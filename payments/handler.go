package payments

import (
	"errors"
	"log"
	"net/http"

	"tripcraft-backend/accounts"
	"tripcraft-backend/login"
	"tripcraft-backend/pending"
	"tripcraft-backend/planner"

	"github.com/gin-gonic/gin"
)

// Verifier confirms that a payment handle reached the succeeded state and
// returns the package tier attached at creation. Satisfied by *Service;
// mocked in tests.
type Verifier interface {
	VerifyIntent(paymentIntentID string) (bool, string, error)
}

// IntentCreator opens payment intents. Satisfied by *Service.
type IntentCreator interface {
	CreatePackageIntent(packageType string) (string, error)
	CreateItineraryIntent() (string, error)
}

type Handler struct {
	intents  IntentCreator
	verifier Verifier
	ledger   *accounts.Ledger
	planner  *planner.Service
	sessions *pending.Cache
	stripe   *Service // nil when unconfigured; used for the raw webhook
}

func NewHandler(svc *Service, ledger *accounts.Ledger, plannerSvc *planner.Service, sessions *pending.Cache) *Handler {
	h := &Handler{ledger: ledger, planner: plannerSvc, sessions: sessions, stripe: svc}
	if svc != nil {
		h.intents = svc
		h.verifier = svc
	}
	return h
}

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.POST("/api/purchase-package", auth, h.purchasePackage)
	r.POST("/api/confirm-package-purchase", auth, h.confirmPackagePurchase)
	r.POST("/api/create-payment-intent", h.createPaymentIntent)
	r.POST("/api/payment-success", h.paymentSuccess)
	r.POST("/api/webhook", h.webhook)
}

type purchasePayload struct {
	PackageType string `json:"packageType"`
}

func (h *Handler) purchasePackage(c *gin.Context) {
	if login.UserFrom(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var p purchasePayload
	if err := c.ShouldBindJSON(&p); err != nil || !accounts.ValidPackage(p.PackageType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package type"})
		return
	}
	if h.intents == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payments not configured"})
		return
	}
	secret, err := h.intents.CreatePackageIntent(p.PackageType)
	if err != nil {
		log.Printf("[payments][purchase] package=%s error: %v", p.PackageType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent for package"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

type confirmPayload struct {
	PackageType     string `json:"packageType"`
	PaymentIntentID string `json:"paymentIntentId"`
}

// confirmPackagePurchase verifies the payment reached succeeded and applies
// the package through the ledger: ultimate switches the account to
// unlimited, the finite tiers stack their credits.
func (h *Handler) confirmPackagePurchase(c *gin.Context) {
	user := login.UserFrom(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	var p confirmPayload
	if err := c.ShouldBindJSON(&p); err != nil || !accounts.ValidPackage(p.PackageType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package type"})
		return
	}
	if p.PaymentIntentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing payment intent ID"})
		return
	}
	if h.verifier == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payments not configured"})
		return
	}
	ok, paidTier, err := h.verifier.VerifyIntent(p.PaymentIntentID)
	if err != nil {
		log.Printf("[payments][confirm] intent=%s error: %v", p.PaymentIntentID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
		return
	}
	if !ok || (paidTier != "" && paidTier != p.PackageType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
		return
	}
	updated, err := h.ledger.ApplyPackage(user.ID, p.PackageType, accounts.PackageCredits[p.PackageType])
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm package purchase"})
		return
	}
	remaining := any(updated.Credits.Remaining())
	if updated.Credits.IsUnlimited() {
		remaining = "unlimited"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"packageType":    updated.PackageType,
		"remainingTrips": remaining,
	})
}

// createPaymentIntent starts the pay-per-itinerary flow: the trip details
// are parked against the session until the payment completes.
func (h *Handler) createPaymentIntent(c *gin.Context) {
	var details planner.TripDetails
	if err := c.ShouldBindJSON(&details); err != nil || details.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip details"})
		return
	}
	if h.intents == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payments not configured"})
		return
	}
	h.sessions.Put(pending.SessionID(c), details)
	secret, err := h.intents.CreateItineraryIntent()
	if err != nil {
		log.Printf("[payments][intent] error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment intent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

// paymentSuccess completes the pay-per-itinerary flow: it recovers the
// parked trip details for the session and generates without touching any
// credit balance (the generation was paid for directly).
func (h *Handler) paymentSuccess(c *gin.Context) {
	session := pending.SessionID(c)
	v, ok := h.sessions.Take(session)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pending trip details found"})
		return
	}
	details, ok := v.(planner.TripDetails)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pending trip details found"})
		return
	}
	userID := 1
	if user := login.UserFrom(c); user != nil {
		userID = user.ID
	}
	trip, err := h.planner.GenerateUnmetered(c.Request.Context(), userID, details)
	if err != nil {
		log.Printf("[payments][success] generation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process payment"})
		return
	}
	h.sessions.AddTrip(session, trip.ID)
	c.JSON(http.StatusCreated, trip)
}

func (h *Handler) webhook(c *gin.Context) {
	if h.stripe == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Payments not configured"})
		return
	}
	if err := h.stripe.HandleWebhook(c.Writer, c.Request); err != nil {
		log.Printf("[payments][webhook] error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Webhook error"})
	}
}
