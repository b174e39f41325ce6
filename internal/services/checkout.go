package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// CheckoutService creates Stripe checkout sessions for the paid plan. The
// client redirects itself with the returned session id; webhooks and plan
// entitlements live elsewhere.
type CheckoutService struct {
	priceID     string
	frontendURL string
	redis       *redis.Client
}

func NewCheckoutService(secretKey, priceID, frontendURL string, redisClient *redis.Client) *CheckoutService {
	stripe.Key = secretKey
	return &CheckoutService{
		priceID:     priceID,
		frontendURL: frontendURL,
		redis:       redisClient,
	}
}

type checkoutRecord struct {
	UserID    string    `json:"user_id"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSession creates a checkout session and returns its id. A record of
// the session is kept in Redis for a day so support can correlate sessions
// with users without a Stripe dashboard round trip.
func (s *CheckoutService) CreateSession(ctx context.Context, userID uuid.UUID, plan string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.frontendURL + "/result?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.frontendURL),
		ClientReferenceID: stripe.String(userID.String()),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	record, _ := json.Marshal(checkoutRecord{
		UserID:    userID.String(),
		Plan:      plan,
		CreatedAt: time.Now().UTC(),
	})
	s.redis.Set(ctx, "checkout_session:"+sess.ID, record, 24*time.Hour)

	return sess.ID, nil
}
