package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
)

// webhookDedupeTTL is how long processed provider event IDs are remembered.
// Stripe retries deliveries for up to three days.
const webhookDedupeTTL = 72 * time.Hour

// PaymentService processes provider webhooks and reconciles the parent
// quotation and order documents, and handles refunds and the stale-pending
// payment sweep.
type PaymentService struct {
	paymentRepo    payment.Repository
	quotationRepo  trade.QuotationRepository
	orderRepo      trade.OrderRepository
	gateway        payment.Gateway
	eventStore     payment.WebhookEventStore
	eventPublisher shared.EventPublisher
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.Repository,
	quotationRepo trade.QuotationRepository,
	orderRepo trade.OrderRepository,
	gateway payment.Gateway,
	eventStore payment.WebhookEventStore,
) *PaymentService {
	return &PaymentService{
		paymentRepo:   paymentRepo,
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		gateway:       gateway,
		eventStore:    eventStore,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ProcessWebhook verifies and processes one provider webhook delivery.
// Deliveries are deduplicated on the provider event ID, so retries and
// duplicate deliveries are acknowledged without side effects.
func (s *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return shared.NewDomainError("INVALID_WEBHOOK_SIGNATURE", "Webhook signature verification failed")
	}
	if !event.Type.IsValid() {
		// Event types the platform does not react to are acknowledged
		// so the provider stops redelivering them.
		return nil
	}

	first, err := s.eventStore.MarkProcessed(ctx, event.EventID, webhookDedupeTTL)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	if err := s.dispatch(ctx, event); err != nil {
		// Release the dedupe claim so the provider's redelivery is not
		// dropped after a transient handling failure.
		_ = s.eventStore.Unmark(ctx, event.EventID)
		return err
	}
	return nil
}

func (s *PaymentService) dispatch(ctx context.Context, event *payment.WebhookEvent) error {
	switch event.Type {
	case payment.WebhookIntentSucceeded, payment.WebhookSessionCompleted:
		return s.handleSucceeded(ctx, event)
	case payment.WebhookIntentFailed:
		return s.handleFailed(ctx, event)
	case payment.WebhookIntentCancelled, payment.WebhookSessionExpired:
		return s.handleCancelled(ctx, event)
	case payment.WebhookChargeRefunded:
		return s.handleRefunded(ctx, event)
	}
	return nil
}

func (s *PaymentService) handleSucceeded(ctx context.Context, event *payment.WebhookEvent) error {
	pmt, err := s.resolvePayment(ctx, event)
	if err != nil {
		return err
	}
	if pmt.IsSettled() {
		// A success notification under a fresh event ID for a payment
		// already settled; the document was reconciled the first time.
		return nil
	}

	paidAt := event.OccurredAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	if err := pmt.MarkSucceeded(event.ChargeID, paidAt); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
		return err
	}
	s.publishEvents(ctx, pmt)

	return s.reconcileDocument(ctx, pmt)
}

func (s *PaymentService) handleFailed(ctx context.Context, event *payment.WebhookEvent) error {
	pmt, err := s.resolvePayment(ctx, event)
	if err != nil {
		return err
	}
	if err := pmt.MarkFailed(event.FailureReason); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
		return err
	}
	s.publishEvents(ctx, pmt)
	return nil
}

func (s *PaymentService) handleCancelled(ctx context.Context, event *payment.WebhookEvent) error {
	pmt, err := s.resolvePayment(ctx, event)
	if err != nil {
		return err
	}
	if err := pmt.Cancel(); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
		return err
	}
	s.publishEvents(ctx, pmt)
	return nil
}

func (s *PaymentService) handleRefunded(ctx context.Context, event *payment.WebhookEvent) error {
	pmt, err := s.resolvePayment(ctx, event)
	if err != nil {
		return err
	}

	amount, err := valueobject.NewMoney(event.Amount, event.Currency)
	if err != nil {
		return err
	}
	if err := pmt.MarkRefunded(event.RefundID, amount); err != nil {
		return err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
		return err
	}
	s.publishEvents(ctx, pmt)
	return nil
}

// resolvePayment locates the payment a webhook event refers to, by intent
// ID for PaymentIntent events or session ID for Checkout Session events.
func (s *PaymentService) resolvePayment(ctx context.Context, event *payment.WebhookEvent) (*payment.Payment, error) {
	if event.IntentID != "" {
		return s.paymentRepo.FindByIntentID(ctx, event.IntentID)
	}
	if event.SessionID != "" {
		return s.paymentRepo.FindBySessionID(ctx, event.SessionID)
	}
	return nil, shared.NewDomainError("UNRESOLVABLE_EVENT", "Webhook event carries neither an intent nor a session ID")
}

// reconcileDocument advances the parent quotation or order after a payment
// settles.
func (s *PaymentService) reconcileDocument(ctx context.Context, pmt *payment.Payment) error {
	switch pmt.DocumentType {
	case payment.DocumentTypeQuotation:
		return s.reconcileQuotation(ctx, pmt)
	case payment.DocumentTypeOrder:
		return s.reconcileOrder(ctx, pmt)
	}
	return nil
}

func (s *PaymentService) reconcileQuotation(ctx context.Context, pmt *payment.Payment) error {
	quotation, err := s.quotationRepo.FindByID(ctx, pmt.DocumentID)
	if err != nil {
		return err
	}

	switch pmt.Phase {
	case payment.PhaseDeposit:
		err = quotation.MarkDepositPaid()
	case payment.PhaseBalance:
		err = quotation.MarkBalancePaid()
	}
	if err != nil {
		return err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return err
	}
	s.publishEvents(ctx, quotation)

	s.syncLinkedOrder(ctx, quotation)
	return nil
}

// syncLinkedOrder mirrors quotation payment progress onto the fulfilment
// order created from it, if one exists. Best effort: the quotation is the
// document of record for quotation payments.
func (s *PaymentService) syncLinkedOrder(ctx context.Context, quotation *trade.Quotation) {
	order, err := s.orderRepo.FindByQuotation(ctx, quotation.SellerID, quotation.ID)
	if err != nil || order == nil {
		return
	}

	changed := false
	if order.Status == trade.OrderStatusPendingPayment {
		if err := order.MarkDepositPaid(); err == nil {
			changed = true
		}
	}
	if quotation.Status == trade.QuotationStatusFullyPaid && order.Status != trade.OrderStatusPaid {
		if err := order.MarkPaid(); err == nil {
			changed = true
		}
	}
	if changed {
		_ = s.orderRepo.SaveWithLock(ctx, order)
		s.publishEvents(ctx, order)
	}
}

func (s *PaymentService) reconcileOrder(ctx context.Context, pmt *payment.Payment) error {
	order, err := s.orderRepo.FindByID(ctx, pmt.DocumentID)
	if err != nil {
		return err
	}

	switch pmt.Phase {
	case payment.PhaseDeposit:
		err = order.MarkDepositPaid()
	case payment.PhaseBalance, payment.PhaseFull:
		err = order.MarkPaid()
	}
	if err != nil {
		return err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return err
	}
	s.publishEvents(ctx, order)
	return nil
}

// GetByID retrieves a payment by ID for a seller
func (s *PaymentService) GetByID(ctx context.Context, sellerID, paymentID uuid.UUID) (*PaymentResponse, error) {
	pmt, err := s.paymentRepo.FindByIDForSeller(ctx, sellerID, paymentID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(pmt)
	return &response, nil
}

// ListForDocument retrieves every payment recorded against a document
func (s *PaymentService) ListForDocument(ctx context.Context, sellerID uuid.UUID, docType payment.DocumentType, docID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.paymentRepo.FindByDocument(ctx, sellerID, docType, docID)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponses(payments), nil
}

// List retrieves payments with filtering and pagination
func (s *PaymentService) List(ctx context.Context, sellerID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if filter.Phase != nil {
		domainFilter.Filters["phase"] = string(*filter.Phase)
	}

	payments, err := s.paymentRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPaymentResponses(payments), total, nil
}

// Refund refunds part or all of a settled payment through the provider
func (s *PaymentService) Refund(ctx context.Context, sellerID, paymentID uuid.UUID, req RefundRequest) (*RefundResponse, error) {
	pmt, err := s.paymentRepo.FindByIDForSeller(ctx, sellerID, paymentID)
	if err != nil {
		return nil, err
	}
	if !pmt.IsSettled() {
		return nil, shared.NewDomainError("PAYMENT_NOT_REFUNDABLE", "Only succeeded payments can be refunded")
	}

	amount := pmt.GetAmountMoney()
	if req.Amount != nil {
		amount, err = valueobject.NewMoney(*req.Amount, pmt.Currency)
		if err != nil {
			return nil, err
		}
	}

	refund, err := s.gateway.CreateRefund(ctx, &payment.RefundRequest{
		SellerID:  sellerID,
		PaymentID: pmt.ID,
		IntentID:  pmt.IntentID,
		Amount:    amount,
		Reason:    req.Reason,
	})
	if err != nil {
		return nil, err
	}

	if err := pmt.MarkRefunded(refund.RefundID, amount); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, pmt)

	return &RefundResponse{
		PaymentID: pmt.ID,
		RefundID:  refund.RefundID,
		Amount:    amount.Amount(),
		Currency:  string(amount.Currency()),
	}, nil
}

// SweepStalePending cancels pending payments older than the cutoff, voiding
// their provider intents. Returns the number of payments cancelled.
func (s *PaymentService) SweepStalePending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	cutoff := time.Now().Add(-olderThan)
	stale, err := s.paymentRepo.FindStalePending(ctx, cutoff, batchSize)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range stale {
		pmt := &stale[i]
		if pmt.IntentID != "" {
			_ = s.gateway.CancelIntent(ctx, pmt.IntentID)
		}
		if err := pmt.Cancel(); err != nil {
			continue
		}
		if err := s.paymentRepo.SaveWithLock(ctx, pmt); err != nil {
			continue
		}
		s.publishEvents(ctx, pmt)
		cancelled++
	}
	return cancelled, nil
}

func (s *PaymentService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}
