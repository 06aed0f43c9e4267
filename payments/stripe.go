package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// ItineraryPriceCents is the one-off price of a single pay-per-itinerary
// generation ($3.00).
const ItineraryPriceCents int64 = 300

// PackagePrices holds each package tier's fixed price in cents.
var PackagePrices = map[string]int64{
	"basic":    1499,
	"premium":  2499,
	"ultimate": 4999,
}

var ErrInvalidAPIKey = errors.New("stripe_invalid_api_key")

func maskKey(k string) string {
	if len(k) < 12 {
		return "****"
	}
	return k[:7] + "..." + k[len(k)-4:]
}

// Service is a thin abstraction over Stripe payment intents. If
// STRIPE_SECRET_KEY is not set the service is nil and payment endpoints
// report themselves unconfigured.
type Service struct {
	secretKey     string
	webhookSecret string
	sc            *client.API
	invalidKey    bool // once detected, short-circuit further remote calls
}

// NewFromEnv returns a configured service or nil when the secret key is
// missing.
func NewFromEnv() *Service {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil
	}
	sc := &client.API{}
	sc.Init(key, nil)
	return &Service{
		secretKey:     key,
		webhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		sc:            sc,
	}
}

func (s *Service) checkKeyErr(stage string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && (se.HTTPStatusCode == 401 || strings.Contains(strings.ToLower(se.Msg), "invalid api key")) {
		log.Printf("[stripe][%s] invalid api key (%s): %v", stage, maskKey(s.secretKey), se)
		s.invalidKey = true
		return ErrInvalidAPIKey
	}
	return err
}

// CreatePackageIntent opens a payment intent for a package tier and returns
// the client secret the frontend needs to collect the card. The tier rides
// in the intent metadata so confirmation can recover it.
func (s *Service) CreatePackageIntent(packageType string) (string, error) {
	if s == nil {
		return "", errors.New("stripe not configured")
	}
	if s.invalidKey {
		return "", ErrInvalidAPIKey
	}
	amount, ok := PackagePrices[packageType]
	if !ok {
		return "", fmt.Errorf("invalid package type %q", packageType)
	}
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("package_type", packageType)
	pi, err := s.sc.PaymentIntents.New(params)
	if err != nil {
		return "", s.checkKeyErr("package_intent", err)
	}
	return pi.ClientSecret, nil
}

// CreateItineraryIntent opens a payment intent for one pay-per-itinerary
// generation.
func (s *Service) CreateItineraryIntent() (string, error) {
	if s == nil {
		return "", errors.New("stripe not configured")
	}
	if s.invalidKey {
		return "", ErrInvalidAPIKey
	}
	pi, err := s.sc.PaymentIntents.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ItineraryPriceCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return "", s.checkKeyErr("itinerary_intent", err)
	}
	return pi.ClientSecret, nil
}

// VerifyIntent reports whether the payment intent reached the terminal
// succeeded state, plus the package tier attached at creation time.
func (s *Service) VerifyIntent(paymentIntentID string) (bool, string, error) {
	if s == nil {
		return false, "", errors.New("stripe not configured")
	}
	if paymentIntentID == "" {
		return false, "", errors.New("empty payment intent id")
	}
	pi, err := s.sc.PaymentIntents.Get(paymentIntentID, nil)
	if err != nil {
		return false, "", s.checkKeyErr("verify", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return false, "", nil
	}
	return true, pi.Metadata["package_type"], nil
}

// HandleWebhook consumes Stripe webhook payloads, verifying the signature
// when a webhook secret is configured. Fulfillment happens in the confirm
// endpoints; the webhook only acknowledges and logs.
func (s *Service) HandleWebhook(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return errors.New("stripe not configured")
	}
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	sig := r.Header.Get("Stripe-Signature")
	if s.webhookSecret != "" {
		if _, err := webhook.ConstructEvent(payload, sig, s.webhookSecret); err != nil {
			return fmt.Errorf("invalid signature: %w", err)
		}
	}
	var event struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return err
	}
	log.Printf("[stripe][webhook] event=%s", event.Type)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
	return nil
}
