package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/refund"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	infraconfig "github.com/marketplace/backend/internal/infrastructure/config"
)

// StripeGateway implements the payment.Gateway port against the Stripe API.
// Wholesale deposit and balance charges use PaymentIntents confirmed by the
// storefront; retail orders use hosted Checkout Sessions.
type StripeGateway struct {
	config *infraconfig.StripeConfig
	logger *zap.Logger
}

var _ payment.Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a new Stripe gateway adapter
func NewStripeGateway(config *infraconfig.StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	stripe.Key = config.SecretKey

	return &StripeGateway{
		config: config,
		logger: logger,
	}, nil
}

// CreateIntent creates a PaymentIntent for a deposit or balance charge
func (g *StripeGateway) CreateIntent(ctx context.Context, req *payment.CreateIntentRequest) (*payment.CreateIntentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.logger.Debug("Creating Stripe payment intent",
		zap.String("seller_id", req.SellerID.String()),
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("document_number", req.DocumentNumber))

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
		Amount: stripe.Int64(req.Amount.MinorUnits()),
		Currency: stripe.String(
			strings.ToLower(string(req.Amount.Currency()))),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}

	params.Metadata = map[string]string{
		"seller_id":       req.SellerID.String(),
		"payment_id":      req.PaymentID.String(),
		"document_number": req.DocumentNumber,
	}
	maps.Copy(params.Metadata, req.Metadata)

	intent, err := paymentintent.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe payment intent",
			zap.String("payment_id", req.PaymentID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create payment intent: %w", err)
	}

	g.logger.Info("Created Stripe payment intent",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("intent_id", intent.ID),
		zap.String("status", string(intent.Status)))

	return &payment.CreateIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
	}, nil
}

// CreateCheckout creates a hosted checkout session for a retail order
func (g *StripeGateway) CreateCheckout(ctx context.Context, req *payment.CreateCheckoutRequest) (*payment.CreateCheckoutResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.logger.Debug("Creating Stripe checkout session",
		zap.String("seller_id", req.SellerID.String()),
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("document_number", req.DocumentNumber))

	currency := strings.ToLower(string(req.Amount.Currency()))

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(item.UnitPrice.MinorUnits()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}

	metadata := map[string]string{
		"seller_id":       req.SellerID.String(),
		"payment_id":      req.PaymentID.String(),
		"document_number": req.DocumentNumber,
	}
	maps.Copy(metadata, req.Metadata)

	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems:  lineItems,
		Metadata:   metadata,
		// The session metadata is not copied onto the intent automatically,
		// and intent-succeeded webhooks need it to find the payment record.
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}

	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	if !req.ExpiresAt.IsZero() {
		params.ExpiresAt = stripe.Int64(req.ExpiresAt.Unix())
	}

	sess, err := session.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("payment_id", req.PaymentID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("payment_id", req.PaymentID.String()),
		zap.String("session_id", sess.ID))

	return &payment.CreateCheckoutResponse{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		ExpiresAt:   time.Unix(sess.ExpiresAt, 0),
	}, nil
}

// CancelIntent cancels a PaymentIntent that has not yet succeeded
func (g *StripeGateway) CancelIntent(ctx context.Context, intentID string) error {
	if intentID == "" {
		return fmt.Errorf("stripe: intent ID is required")
	}

	g.logger.Debug("Canceling Stripe payment intent", zap.String("intent_id", intentID))

	params := &stripe.PaymentIntentCancelParams{
		Params: stripe.Params{Context: ctx},
	}

	if _, err := paymentintent.Cancel(intentID, params); err != nil {
		g.logger.Error("Failed to cancel Stripe payment intent",
			zap.String("intent_id", intentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to cancel payment intent: %w", err)
	}

	g.logger.Info("Canceled Stripe payment intent", zap.String("intent_id", intentID))
	return nil
}

// CreateRefund refunds part or all of a succeeded charge
func (g *StripeGateway) CreateRefund(ctx context.Context, req *payment.RefundRequest) (*payment.RefundResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.logger.Debug("Creating Stripe refund",
		zap.String("seller_id", req.SellerID.String()),
		zap.String("intent_id", req.IntentID))

	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(req.IntentID),
		Amount:        stripe.Int64(req.Amount.MinorUnits()),
	}

	// Stripe only accepts its own reason codes; free-form reasons travel
	// in metadata instead.
	switch req.Reason {
	case string(stripe.RefundReasonDuplicate),
		string(stripe.RefundReasonFraudulent),
		string(stripe.RefundReasonRequestedByCustomer):
		params.Reason = stripe.String(req.Reason)
	case "":
	default:
		params.Metadata = map[string]string{"reason": req.Reason}
	}

	ref, err := refund.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe refund",
			zap.String("intent_id", req.IntentID),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create refund: %w", err)
	}

	g.logger.Info("Created Stripe refund",
		zap.String("intent_id", req.IntentID),
		zap.String("refund_id", ref.ID),
		zap.String("status", string(ref.Status)))

	return &payment.RefundResponse{
		RefundID: ref.ID,
		Status:   string(ref.Status),
		Amount:   minorUnitsToDecimal(ref.Amount, ref.Currency),
	}, nil
}

// VerifyWebhook checks the signature on a raw webhook payload and parses it
// into a domain WebhookEvent. Events the platform does not react to come back
// with their type set and no payment identifiers; callers skip those via
// Type.IsValid().
func (g *StripeGateway) VerifyWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.config.WebhookSecret)
	if err != nil {
		g.logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		return nil, fmt.Errorf("stripe: webhook signature verification failed: %w", err)
	}

	out := &payment.WebhookEvent{
		EventID:    event.ID,
		Type:       payment.WebhookEventType(event.Type),
		OccurredAt: time.Unix(event.Created, 0),
		RawPayload: payload,
	}

	switch out.Type {
	case payment.WebhookIntentSucceeded, payment.WebhookIntentFailed, payment.WebhookIntentCancelled:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("stripe: failed to unmarshal payment intent: %w", err)
		}
		out.IntentID = intent.ID
		out.Amount = minorUnitsToDecimal(intent.Amount, intent.Currency)
		out.Currency = valueobject.Currency(strings.ToUpper(string(intent.Currency)))
		if intent.LatestCharge != nil {
			out.ChargeID = intent.LatestCharge.ID
		}
		if intent.LastPaymentError != nil {
			out.FailureReason = intent.LastPaymentError.Msg
			if out.FailureReason == "" {
				out.FailureReason = string(intent.LastPaymentError.Code)
			}
		}

	case payment.WebhookSessionCompleted, payment.WebhookSessionExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("stripe: failed to unmarshal checkout session: %w", err)
		}
		out.SessionID = sess.ID
		out.Amount = minorUnitsToDecimal(sess.AmountTotal, sess.Currency)
		out.Currency = valueobject.Currency(strings.ToUpper(string(sess.Currency)))
		if sess.PaymentIntent != nil {
			out.IntentID = sess.PaymentIntent.ID
		}

	case payment.WebhookChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return nil, fmt.Errorf("stripe: failed to unmarshal charge: %w", err)
		}
		out.ChargeID = charge.ID
		out.Amount = minorUnitsToDecimal(charge.AmountRefunded, charge.Currency)
		out.Currency = valueobject.Currency(strings.ToUpper(string(charge.Currency)))
		if charge.PaymentIntent != nil {
			out.IntentID = charge.PaymentIntent.ID
		}
		if charge.Refunds != nil && len(charge.Refunds.Data) > 0 {
			out.RefundID = charge.Refunds.Data[0].ID
		}

	default:
		g.logger.Debug("Ignoring unhandled Stripe webhook event type",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}

	return out, nil
}

// minorUnitsToDecimal converts a Stripe minor-unit amount back to a decimal
// major-unit amount for the given currency.
func minorUnitsToDecimal(amount int64, cur stripe.Currency) decimal.Decimal {
	digits := valueobject.Currency(strings.ToUpper(string(cur))).MinorUnitDigits()
	return decimal.New(amount, -digits)
}
