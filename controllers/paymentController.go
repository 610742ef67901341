package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cityfix-be/core"
	"cityfix-be/storage"
)

// Checkout prices in minor units (cents).
const (
	boostAmountCents        = 100 * 100
	subscriptionAmountCents = 1000 * 100
)

// PaymentController owns the Stripe checkout plumbing. The escalation
// handler is only ever invoked from the confirmation paths, after the
// session is verified as paid.
type PaymentController struct {
	escalation *core.Escalation
	users      *storage.UserStore
}

func NewPaymentController(escalation *core.Escalation, users *storage.UserStore) *PaymentController {
	return &PaymentController{escalation: escalation, users: users}
}

func frontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:5173"
}

// BoostCheckout creates a Stripe checkout session for boosting an issue
func (p *PaymentController) BoostCheckout(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	var input struct {
		IssueID string `json:"issueId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := p.users.FindByEmail(ctx, email); err != nil {
		respondError(c, err)
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(boostAmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Boost Issue " + input.IssueID),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(frontendURL() + "/boost-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontendURL() + "/issues"),
	}
	params.AddMetadata("issueId", input.IssueID)
	params.AddMetadata("userEmail", email)

	sess, err := session.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": sess.URL})
}

// BoostSuccess verifies a completed boost checkout and applies the
// priority escalation
func (p *PaymentController) BoostSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id missing"})
		return
	}

	sess, err := session.Get(sessionID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		respondError(c, core.ErrPaymentNotConfirmed)
		return
	}

	issueID, err := primitive.ObjectIDFromHex(sess.Metadata["issueId"])
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}
	payerEmail := sess.Metadata["userEmail"]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.escalation.ApplyBoost(ctx, issueID, payerEmail, sess.AmountTotal); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "issueId": issueID.Hex()})
}

// SubscribeCheckout creates a Stripe checkout session for the premium
// subscription
func (p *PaymentController) SubscribeCheckout(c *gin.Context) {
	email, ok := actorEmail(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := p.users.FindByEmail(ctx, email)
	if err != nil {
		respondError(c, err)
		return
	}
	if user.IsPremium {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already premium user"})
		return
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("bdt"),
					UnitAmount: stripe.Int64(subscriptionAmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("CityFix Premium Subscription"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(frontendURL() + "/subscribe-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontendURL() + "/dashboard/citizen-profile"),
	}
	params.AddMetadata("email", email)

	sess, err := session.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": sess.URL})
}

// SubscribeSuccess verifies a completed subscription checkout and flips
// the payer to premium
func (p *PaymentController) SubscribeSuccess(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id missing"})
		return
	}

	sess, err := session.Get(sessionID, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		respondError(c, core.ErrPaymentNotConfirmed)
		return
	}

	email := sess.Metadata["email"]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.escalation.ApplySubscription(ctx, email, sess.AmountTotal); err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, frontendURL()+"/dashboard/citizen-profile")
}
