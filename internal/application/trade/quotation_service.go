package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/partner"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/domain/wholesale"
)

// ComplianceError is returned when an order or quotation falls short of the
// seller's wholesale rules in a way the buyer can fix (MOQ shortfalls).
// Hard rule failures surface as plain domain errors instead.
type ComplianceError struct {
	Violations []ComplianceViolation
}

// Error implements the error interface
func (e *ComplianceError) Error() string {
	return fmt.Sprintf("order violates minimum order quantities on %d line(s)", len(e.Violations))
}

// Unwrap lets callers match the error with errors.Is
func (e *ComplianceError) Unwrap() error {
	return shared.ErrMOQNotMet
}

// DocumentRenderer renders an HTML document to PDF
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// AcceptQuotationResponse is the result of a buyer accepting a quotation:
// the updated quotation plus the deposit payment intent to settle next.
type AcceptQuotationResponse struct {
	Quotation QuotationResponse     `json:"quotation"`
	Payment   PaymentIntentResponse `json:"payment"`
}

// QuotationService drives the trade quotation lifecycle
type QuotationService struct {
	quotationRepo  trade.QuotationRepository
	buyerRepo      partner.BuyerRepository
	productRepo    catalog.ProductRepository
	termsRepo      wholesale.TermsRepository
	paymentRepo    payment.Repository
	gateway        payment.Gateway
	rules          *wholesale.RulesService
	renderer       DocumentRenderer
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo trade.QuotationRepository,
	buyerRepo partner.BuyerRepository,
	productRepo catalog.ProductRepository,
	termsRepo wholesale.TermsRepository,
	paymentRepo payment.Repository,
	gateway payment.Gateway,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		buyerRepo:     buyerRepo,
		productRepo:   productRepo,
		termsRepo:     termsRepo,
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		rules:         wholesale.NewRulesService(),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetDocumentRenderer sets the PDF renderer used by RenderPDF
func (s *QuotationService) SetDocumentRenderer(renderer DocumentRenderer) {
	s.renderer = renderer
}

// Create drafts a quotation for an approved wholesale buyer
func (s *QuotationService) Create(ctx context.Context, sellerID uuid.UUID, req CreateQuotationRequest) (*IssuedQuotationResponse, error) {
	terms, err := s.activeTerms(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, req.BuyerID)
	if err != nil {
		return nil, err
	}
	if !buyer.IsWholesaleApproved() {
		return nil, shared.NewDomainError("BUYER_NOT_WHOLESALE", "Quotations require an approved wholesale buyer")
	}

	number, err := s.quotationRepo.GenerateQuotationNumber(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var validUntil time.Time
	if req.ValidityDays > 0 {
		validUntil = time.Now().AddDate(0, 0, req.ValidityDays)
	}

	quotation, err := trade.NewQuotation(sellerID, number, buyer.ID, buyer.Name, buyer.Email, terms.Currency, validUntil)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		if err := s.addLine(ctx, quotation, terms, line.ProductID, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.PaymentTerm != "" {
		term := wholesale.PaymentTerm(req.PaymentTerm)
		if err := s.rules.ValidatePaymentTerm(term, terms); err != nil {
			return nil, err
		}
		if err := quotation.SetPaymentTerm(term); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		quotation.SetRemark(req.Remark)
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return s.issuedResponse(quotation), nil
}

func (s *QuotationService) addLine(ctx context.Context, q *trade.Quotation, terms *wholesale.Terms, productID uuid.UUID, quantity decimal.Decimal, override *decimal.Decimal) error {
	product, err := s.productRepo.FindByIDForSeller(ctx, q.SellerID, productID)
	if err != nil {
		return err
	}
	if !product.IsActive() {
		return shared.NewDomainError("PRODUCT_NOT_ACTIVE", fmt.Sprintf("Product %s is not available", product.SKU))
	}
	if !product.IsWholesaleOffered() && override == nil {
		return shared.NewDomainError("NOT_WHOLESALE_PRODUCT",
			fmt.Sprintf("Product %s has no wholesale price; quote a custom unit price", product.SKU))
	}

	unitPrice := product.WholesalePriceMoney()
	if override != nil {
		unitPrice, err = valueobject.NewMoney(*override, terms.Currency)
		if err != nil {
			return err
		}
	}

	_, err = q.AddItem(product.ID, product.Name, product.SKU, quantity, unitPrice, product.MOQ)
	return err
}

// GetByID retrieves a quotation for the issuing seller, view token included
func (s *QuotationService) GetByID(ctx context.Context, sellerID, quotationID uuid.UUID) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	return s.issuedResponse(quotation), nil
}

// GetByViewToken retrieves a quotation through its public link. The first
// view of a sent quotation is recorded.
func (s *QuotationService) GetByViewToken(ctx context.Context, token string) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByViewToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if quotation.Status == trade.QuotationStatusSent {
		if err := quotation.MarkViewed(); err == nil {
			if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
				return nil, err
			}
			s.publishEvents(ctx, quotation)
		}
	}

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, sellerID uuid.UUID, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
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
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	var (
		quotations []trade.Quotation
		err        error
	)
	switch {
	case filter.BuyerID != nil:
		quotations, err = s.quotationRepo.FindByBuyer(ctx, sellerID, *filter.BuyerID, domainFilter)
	case filter.Status != nil:
		quotations, err = s.quotationRepo.FindByStatus(ctx, sellerID, *filter.Status, domainFilter)
	default:
		quotations, err = s.quotationRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quotationRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToQuotationResponses(quotations), total, nil
}

// Update changes a draft quotation's commercial terms
func (s *QuotationService) Update(ctx context.Context, sellerID, quotationID uuid.UUID, req UpdateQuotationRequest) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}

	if req.FreightAmount != nil {
		freight, err := valueobject.NewMoney(*req.FreightAmount, quotation.Currency)
		if err != nil {
			return nil, err
		}
		if err := quotation.SetFreight(freight); err != nil {
			return nil, err
		}
	}
	if req.DiscountAmount != nil {
		discount, err := valueobject.NewMoney(*req.DiscountAmount, quotation.Currency)
		if err != nil {
			return nil, err
		}
		if err := quotation.ApplyDiscount(discount); err != nil {
			return nil, err
		}
	}
	if req.Incoterm != nil {
		port := quotation.DestinationPort
		country := quotation.DestinationCountry
		if req.DestinationPort != nil {
			port = *req.DestinationPort
		}
		if req.DestinationCountry != nil {
			country = *req.DestinationCountry
		}
		if err := quotation.SetIncoterm(trade.Incoterm(*req.Incoterm), port, country); err != nil {
			return nil, err
		}
	}
	if req.PaymentTerm != nil {
		terms, err := s.activeTerms(ctx, sellerID)
		if err != nil {
			return nil, err
		}
		term := wholesale.PaymentTerm(*req.PaymentTerm)
		if err := s.rules.ValidatePaymentTerm(term, terms); err != nil {
			return nil, err
		}
		if err := quotation.SetPaymentTerm(term); err != nil {
			return nil, err
		}
	}
	if req.ValidUntil != nil {
		if err := quotation.SetValidUntil(*req.ValidUntil); err != nil {
			return nil, err
		}
	}
	if req.Remark != nil {
		quotation.SetRemark(*req.Remark)
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return s.issuedResponse(quotation), nil
}

// AddItem adds a line to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, sellerID, quotationID uuid.UUID, req AddQuotationItemRequest) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	terms, err := s.activeTerms(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if err := s.addLine(ctx, quotation, terms, req.ProductID, req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return s.issuedResponse(quotation), nil
}

// UpdateItem changes a line's quantity or price on a draft quotation
func (s *QuotationService) UpdateItem(ctx context.Context, sellerID, quotationID, itemID uuid.UUID, req UpdateQuotationItemRequest) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}

	if req.Quantity != nil {
		if err := quotation.UpdateItemQuantity(itemID, *req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.UnitPrice != nil {
		price, err := valueobject.NewMoney(*req.UnitPrice, quotation.Currency)
		if err != nil {
			return nil, err
		}
		if err := quotation.UpdateItemPrice(itemID, price); err != nil {
			return nil, err
		}
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return s.issuedResponse(quotation), nil
}

// RemoveItem removes a line from a draft quotation
func (s *QuotationService) RemoveItem(ctx context.Context, sellerID, quotationID, itemID uuid.UUID) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	return s.issuedResponse(quotation), nil
}

// Send issues the quotation to the buyer. The wholesale rules are checked
// up front so sellers cannot send offers their own terms would reject.
func (s *QuotationService) Send(ctx context.Context, sellerID, quotationID uuid.UUID) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	terms, err := s.activeTerms(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	report, err := s.rules.EvaluateOrder(quotation.OrderLines(), quotation.PaymentTerm, terms)
	if err != nil {
		return nil, err
	}
	if !report.Compliant() {
		return nil, &ComplianceError{Violations: toComplianceViolations(report.MOQViolations)}
	}

	if err := quotation.Send(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return s.issuedResponse(quotation), nil
}

// AcceptByToken accepts a quotation through its public link. Acceptance
// re-checks the seller's wholesale rules, freezes the deposit/balance split
// and opens the deposit payment intent.
func (s *QuotationService) AcceptByToken(ctx context.Context, token string) (*AcceptQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByViewToken(ctx, token)
	if err != nil {
		return nil, err
	}

	terms, err := s.activeTerms(ctx, quotation.SellerID)
	if err != nil {
		return nil, err
	}

	report, err := s.rules.EvaluateOrder(quotation.OrderLines(), quotation.PaymentTerm, terms)
	if err != nil {
		return nil, err
	}
	if !report.Compliant() {
		return nil, &ComplianceError{Violations: toComplianceViolations(report.MOQViolations)}
	}

	// The split is computed over the full quotation total, freight and
	// discounts included, not just the line subtotal the rules checked.
	split, err := s.rules.ComputePaymentSplit(quotation.TotalAmountMoney(), terms)
	if err != nil {
		return nil, err
	}

	if err := quotation.Accept(split); err != nil {
		return nil, err
	}

	// A small deposit percentage can round to zero on a small total.
	// There is nothing to collect up front, so a single balance payment
	// covers the whole quotation.
	phase, amount := payment.PhaseDeposit, split.Deposit
	if split.Deposit.IsZero() {
		phase, amount = payment.PhaseBalance, split.Balance
	}

	intent, err := s.openPhasePayment(ctx, quotation, phase, amount)
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return &AcceptQuotationResponse{
		Quotation: ToQuotationResponse(quotation),
		Payment:   *intent,
	}, nil
}

// RequestBalance opens the balance payment phase on a deposit-paid quotation
func (s *QuotationService) RequestBalance(ctx context.Context, sellerID, quotationID uuid.UUID) (*PaymentIntentResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}

	if err := quotation.RequestBalance(); err != nil {
		return nil, err
	}

	intent, err := s.openPhasePayment(ctx, quotation, payment.PhaseBalance, quotation.BalanceAmountMoney())
	if err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return intent, nil
}

// Complete closes a fully paid quotation
func (s *QuotationService) Complete(ctx context.Context, sellerID, quotationID uuid.UUID) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.Complete(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return s.issuedResponse(quotation), nil
}

// Cancel cancels a quotation and voids any payment intents still open on it
func (s *QuotationService) Cancel(ctx context.Context, sellerID, quotationID uuid.UUID, req CancelRequest) (*IssuedQuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.Cancel(req.Reason); err != nil {
		return nil, err
	}

	s.cancelOpenPayments(ctx, quotation.SellerID, quotation.ID)

	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, quotation)

	return s.issuedResponse(quotation), nil
}

// ExpireSweep marks open quotations whose validity lapsed as expired.
// Returns the number of quotations expired.
func (s *QuotationService) ExpireSweep(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}

	now := time.Now()
	quotations, err := s.quotationRepo.FindExpiredOpen(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range quotations {
		quotation := &quotations[i]
		if err := quotation.MarkExpired(now); err != nil {
			continue
		}
		if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
			continue
		}
		s.publishEvents(ctx, quotation)
		expired++
	}
	return expired, nil
}

// RenderPDF renders the quotation document as a PDF
func (s *QuotationService) RenderPDF(ctx context.Context, sellerID, quotationID uuid.UUID) ([]byte, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("RENDERER_UNAVAILABLE", "PDF rendering is not configured")
	}

	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}

	html, err := renderQuotationHTML(quotation)
	if err != nil {
		return nil, err
	}

	return s.renderer.RenderPDF(ctx, html)
}

func (s *QuotationService) activeTerms(ctx context.Context, sellerID uuid.UUID) (*wholesale.Terms, error) {
	terms, err := s.termsRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("WHOLESALE_NOT_CONFIGURED", "Seller has not configured wholesale terms")
		}
		return nil, err
	}
	if !terms.Active {
		return nil, shared.NewDomainError("WHOLESALE_DISABLED", "Seller has disabled wholesale ordering")
	}
	return terms, nil
}

// openPhasePayment creates a payment record for a quotation phase and opens
// a gateway intent for it. Any pending intent for the same phase is voided
// first so retries never double-charge.
func (s *QuotationService) openPhasePayment(ctx context.Context, q *trade.Quotation, phase payment.Phase, amount valueobject.Money) (*PaymentIntentResponse, error) {
	stale, err := s.paymentRepo.FindPendingByDocument(ctx, q.SellerID, payment.DocumentTypeQuotation, q.ID, phase)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	for i := range stale {
		pmt := &stale[i]
		if pmt.IntentID != "" {
			_ = s.gateway.CancelIntent(ctx, pmt.IntentID)
		}
		if err := pmt.Cancel(); err == nil {
			_ = s.paymentRepo.SaveWithLock(ctx, pmt)
		}
	}

	pmt, err := payment.NewPayment(q.SellerID, payment.DocumentTypeQuotation, q.ID, q.QuotationNumber, q.BuyerID, phase, amount)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, &payment.CreateIntentRequest{
		SellerID:       q.SellerID,
		PaymentID:      pmt.ID,
		DocumentNumber: q.QuotationNumber,
		Amount:         amount,
		Description:    fmt.Sprintf("%s %s payment", q.QuotationNumber, phase),
		ReceiptEmail:   q.BuyerEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := pmt.AttachIntent(intent.IntentID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, pmt); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, pmt)

	return &PaymentIntentResponse{
		PaymentID:    pmt.ID,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		Phase:        string(phase),
		Amount:       amount.Amount(),
		Currency:     string(amount.Currency()),
	}, nil
}

func (s *QuotationService) cancelOpenPayments(ctx context.Context, sellerID, quotationID uuid.UUID) {
	for _, phase := range []payment.Phase{payment.PhaseDeposit, payment.PhaseBalance} {
		pending, err := s.paymentRepo.FindPendingByDocument(ctx, sellerID, payment.DocumentTypeQuotation, quotationID, phase)
		if err != nil {
			continue
		}
		for i := range pending {
			pmt := &pending[i]
			if pmt.IntentID != "" {
				_ = s.gateway.CancelIntent(ctx, pmt.IntentID)
			}
			if err := pmt.Cancel(); err == nil {
				_ = s.paymentRepo.SaveWithLock(ctx, pmt)
			}
		}
	}
}

func (s *QuotationService) issuedResponse(q *trade.Quotation) *IssuedQuotationResponse {
	return &IssuedQuotationResponse{
		QuotationResponse: ToQuotationResponse(q),
		ViewToken:         q.ViewToken,
	}
}

func (s *QuotationService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}
