package trade

import (
	"context"
	"errors"
	"fmt"

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

// OrderService drives retail and wholesale order lifecycles
type OrderService struct {
	orderRepo      trade.OrderRepository
	quotationRepo  trade.QuotationRepository
	buyerRepo      partner.BuyerRepository
	productRepo    catalog.ProductRepository
	termsRepo      wholesale.TermsRepository
	paymentRepo    payment.Repository
	gateway        payment.Gateway
	rules          *wholesale.RulesService
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	quotationRepo trade.QuotationRepository,
	buyerRepo partner.BuyerRepository,
	productRepo catalog.ProductRepository,
	termsRepo wholesale.TermsRepository,
	paymentRepo payment.Repository,
	gateway payment.Gateway,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
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
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts an order. Retail lines are priced at the retail price;
// wholesale lines at the wholesale price, which requires an approved
// wholesale buyer and active wholesale terms.
func (s *OrderService) Create(ctx context.Context, sellerID uuid.UUID, cur valueobject.Currency, req CreateOrderRequest) (*OrderResponse, error) {
	kind := trade.OrderKind(req.Kind)

	buyer, err := s.buyerRepo.FindByIDForSeller(ctx, sellerID, req.BuyerID)
	if err != nil {
		return nil, err
	}
	if buyer.IsBlocked() {
		return nil, shared.NewDomainError("BUYER_BLOCKED", "Buyer is blocked from ordering")
	}

	if kind == trade.OrderKindWholesale {
		if !buyer.IsWholesaleApproved() {
			return nil, shared.NewDomainError("BUYER_NOT_WHOLESALE", "Wholesale orders require an approved wholesale buyer")
		}
		terms, err := s.activeTerms(ctx, sellerID)
		if err != nil {
			return nil, err
		}
		cur = terms.Currency
	}

	number, err := s.orderRepo.GenerateOrderNumber(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(sellerID, number, kind, buyer.ID, buyer.Name, cur)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, err := s.productRepo.FindByIDForSeller(ctx, sellerID, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("PRODUCT_NOT_ACTIVE", fmt.Sprintf("Product %s is not available", product.SKU))
		}
		if !product.HasStock(line.Quantity) {
			return nil, shared.ErrInsufficientStock
		}

		unitPrice := product.RetailPriceMoney()
		if kind == trade.OrderKindWholesale {
			if !product.IsWholesaleOffered() {
				return nil, shared.NewDomainError("NOT_WHOLESALE_PRODUCT",
					fmt.Sprintf("Product %s is not offered at wholesale", product.SKU))
			}
			unitPrice = product.WholesalePriceMoney()
		}

		if _, err := order.AddItem(product.ID, product.Name, product.SKU, line.Quantity, unitPrice, product.MOQ); err != nil {
			return nil, err
		}
	}

	if req.ShippingAddress != nil {
		addr, err := valueobject.NewAddress(req.ShippingAddress.Line1, req.ShippingAddress.City, req.ShippingAddress.Country,
			valueobject.WithLine2(req.ShippingAddress.Line2),
			valueobject.WithRegion(req.ShippingAddress.Region),
			valueobject.WithPostalCode(req.ShippingAddress.PostalCode),
		)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
		}
		if err := order.SetShippingAddress(addr); err != nil {
			return nil, err
		}
	}
	if req.Remark != "" {
		order.SetRemark(req.Remark)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// CreateFromQuotation materialises an accepted quotation as a wholesale
// order for fulfilment. The order mirrors the quotation's lines and frozen
// payment split; only one order per quotation is allowed.
func (s *OrderService) CreateFromQuotation(ctx context.Context, sellerID, quotationID uuid.UUID) (*OrderResponse, error) {
	quotation, err := s.quotationRepo.FindByIDForSeller(ctx, sellerID, quotationID)
	if err != nil {
		return nil, err
	}

	switch quotation.Status {
	case trade.QuotationStatusAccepted, trade.QuotationStatusDepositPaid,
		trade.QuotationStatusBalanceDue, trade.QuotationStatusFullyPaid:
	default:
		return nil, shared.NewDomainError("QUOTATION_NOT_ACCEPTED", "Only accepted quotations can become orders")
	}

	existing, err := s.orderRepo.FindByQuotation(ctx, sellerID, quotationID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ORDER_EXISTS", "An order was already created from this quotation")
	}

	number, err := s.orderRepo.GenerateOrderNumber(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(sellerID, number, trade.OrderKindWholesale, quotation.BuyerID, quotation.BuyerName, quotation.Currency)
	if err != nil {
		return nil, err
	}
	order.SetQuotation(quotation.ID)

	for i := range quotation.Items {
		item := &quotation.Items[i]
		price, err := valueobject.NewMoney(item.UnitPrice, quotation.Currency)
		if err != nil {
			return nil, err
		}
		if _, err := order.AddItem(item.ProductID, item.ProductName, item.SKU, item.Quantity, price, item.MOQ); err != nil {
			return nil, err
		}
	}

	// Freight becomes its own line and the discount carries over unchanged,
	// so the order total matches the quotation total the split was frozen
	// against.
	if quotation.FreightAmount.IsPositive() {
		freight := mustMoney(quotation.FreightAmount, quotation.Currency)
		if _, err := order.AddItem(uuid.New(), "Freight", "FREIGHT", decimal.NewFromInt(1), freight, nil); err != nil {
			return nil, err
		}
	}
	if quotation.DiscountAmount.IsPositive() {
		discount := mustMoney(quotation.DiscountAmount, quotation.Currency)
		if err := order.ApplyDiscount(discount); err != nil {
			return nil, err
		}
	}

	split := wholesale.PaymentSplit{
		Deposit: mustMoney(quotation.DepositAmount, quotation.Currency),
		Balance: mustMoney(quotation.BalanceAmount, quotation.Currency),
	}
	if err := order.ApplyWholesaleSplit(split, quotation.PaymentTerm); err != nil {
		return nil, err
	}

	// Mirror the payment progress already made on the quotation. The buyer
	// pays against the quotation; the order tracks fulfilment.
	if err := order.Checkout(); err != nil {
		return nil, err
	}
	switch quotation.Status {
	case trade.QuotationStatusDepositPaid:
		if err := order.MarkDepositPaid(); err != nil {
			return nil, err
		}
	case trade.QuotationStatusBalanceDue:
		if err := order.MarkDepositPaid(); err != nil {
			return nil, err
		}
		if order.Status == trade.OrderStatusDepositPaid {
			if err := order.RequestBalance(); err != nil {
				return nil, err
			}
		}
	case trade.QuotationStatusFullyPaid:
		if err := order.MarkDepositPaid(); err != nil {
			return nil, err
		}
		if order.Status != trade.OrderStatusPaid {
			if err := order.MarkPaid(); err != nil {
				return nil, err
			}
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, sellerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, sellerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
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
	if filter.Kind != nil {
		domainFilter.Filters["kind"] = string(*filter.Kind)
	}

	var (
		orders []trade.Order
		err    error
	)
	switch {
	case filter.BuyerID != nil:
		orders, err = s.orderRepo.FindByBuyer(ctx, sellerID, *filter.BuyerID, domainFilter)
	case filter.Status != nil:
		orders, err = s.orderRepo.FindByStatus(ctx, sellerID, *filter.Status, domainFilter)
	default:
		orders, err = s.orderRepo.FindAllForSeller(ctx, sellerID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForSeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// StatusSummary counts the seller's orders per lifecycle state
func (s *OrderService) StatusSummary(ctx context.Context, sellerID uuid.UUID) (*OrderStatusSummary, error) {
	summary := &OrderStatusSummary{}
	counts := []struct {
		status trade.OrderStatus
		target *int64
	}{
		{trade.OrderStatusDraft, &summary.Draft},
		{trade.OrderStatusPendingPayment, &summary.PendingPayment},
		{trade.OrderStatusDepositPaid, &summary.DepositPaid},
		{trade.OrderStatusBalanceDue, &summary.BalanceDue},
		{trade.OrderStatusPaid, &summary.Paid},
		{trade.OrderStatusShipped, &summary.Shipped},
		{trade.OrderStatusCompleted, &summary.Completed},
		{trade.OrderStatusCancelled, &summary.Cancelled},
	}
	for _, c := range counts {
		count, err := s.orderRepo.CountByStatus(ctx, sellerID, c.status)
		if err != nil {
			return nil, err
		}
		*c.target = count
	}
	return summary, nil
}

// UpdateItemQuantity changes a line quantity on a draft order
func (s *OrderService) UpdateItemQuantity(ctx context.Context, sellerID, orderID, itemID uuid.UUID, req UpdateOrderItemRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, order)
}

// RemoveItem removes a line from a draft order
func (s *OrderService) RemoveItem(ctx context.Context, sellerID, orderID, itemID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveItem(itemID); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, order)
}

// CheckoutRetail checks out a retail order through hosted checkout.
// Stock is reserved at checkout; a cancelled order releases it.
func (s *OrderService) CheckoutRetail(ctx context.Context, sellerID, orderID uuid.UUID, req RetailCheckoutRequest) (*CheckoutSessionResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsWholesale() {
		return nil, shared.NewDomainError("NOT_RETAIL", "Use the wholesale checkout for wholesale orders")
	}

	if err := s.reserveStock(ctx, order); err != nil {
		return nil, err
	}

	if err := order.Checkout(); err != nil {
		return nil, err
	}

	pmt, err := payment.NewPayment(sellerID, payment.DocumentTypeOrder, order.ID, order.OrderNumber, order.BuyerID, payment.PhaseFull, order.TotalAmountMoney())
	if err != nil {
		return nil, err
	}

	lineItems := make([]payment.CheckoutLineItem, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		unitPrice, err := valueobject.NewMoney(item.UnitPrice, order.Currency)
		if err != nil {
			return nil, err
		}
		lineItems[i] = payment.CheckoutLineItem{
			Name:      item.ProductName,
			Quantity:  item.Quantity.IntPart(),
			UnitPrice: unitPrice,
		}
	}

	session, err := s.gateway.CreateCheckout(ctx, &payment.CreateCheckoutRequest{
		SellerID:       sellerID,
		PaymentID:      pmt.ID,
		DocumentNumber: order.OrderNumber,
		Amount:         order.TotalAmountMoney(),
		LineItems:      lineItems,
		SuccessURL:     req.SuccessURL,
		CancelURL:      req.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	if err := pmt.AttachSession(session.SessionID); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, pmt); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.publishEvents(ctx, pmt)

	return &CheckoutSessionResponse{
		PaymentID:   pmt.ID,
		SessionID:   session.SessionID,
		CheckoutURL: session.CheckoutURL,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// CheckoutWholesale checks out a wholesale order: the order is evaluated
// against the seller's wholesale rules, the deposit/balance split is frozen
// and the deposit payment intent is opened.
func (s *OrderService) CheckoutWholesale(ctx context.Context, sellerID, orderID uuid.UUID, req WholesaleCheckoutRequest) (*PaymentIntentResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsWholesale() {
		return nil, shared.NewDomainError("NOT_WHOLESALE", "Use the retail checkout for retail orders")
	}

	terms, err := s.activeTerms(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	term := wholesale.PaymentTerm(req.PaymentTerm)
	report, err := s.rules.EvaluateOrder(order.OrderLines(), term, terms)
	if err != nil {
		return nil, err
	}
	if !report.Compliant() {
		return nil, &ComplianceError{Violations: toComplianceViolations(report.MOQViolations)}
	}

	split, err := s.rules.ComputePaymentSplit(order.TotalAmountMoney(), terms)
	if err != nil {
		return nil, err
	}

	if err := order.ApplyWholesaleSplit(split, term); err != nil {
		return nil, err
	}

	if err := s.reserveStock(ctx, order); err != nil {
		return nil, err
	}

	if err := order.Checkout(); err != nil {
		return nil, err
	}

	pmt, err := payment.NewPayment(sellerID, payment.DocumentTypeOrder, order.ID, order.OrderNumber, order.BuyerID, payment.PhaseDeposit, split.Deposit)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, &payment.CreateIntentRequest{
		SellerID:       sellerID,
		PaymentID:      pmt.ID,
		DocumentNumber: order.OrderNumber,
		Amount:         split.Deposit,
		Description:    fmt.Sprintf("%s deposit payment", order.OrderNumber),
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
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.publishEvents(ctx, pmt)

	return &PaymentIntentResponse{
		PaymentID:    pmt.ID,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		Phase:        string(payment.PhaseDeposit),
		Amount:       split.Deposit.Amount(),
		Currency:     string(split.Deposit.Currency()),
	}, nil
}

// RequestBalance opens the balance payment phase on a deposit-paid order
func (s *OrderService) RequestBalance(ctx context.Context, sellerID, orderID uuid.UUID) (*PaymentIntentResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RequestBalance(); err != nil {
		return nil, err
	}

	pmt, err := payment.NewPayment(sellerID, payment.DocumentTypeOrder, order.ID, order.OrderNumber, order.BuyerID, payment.PhaseBalance, order.BalanceAmountMoney())
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.CreateIntent(ctx, &payment.CreateIntentRequest{
		SellerID:       sellerID,
		PaymentID:      pmt.ID,
		DocumentNumber: order.OrderNumber,
		Amount:         order.BalanceAmountMoney(),
		Description:    fmt.Sprintf("%s balance payment", order.OrderNumber),
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
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	s.publishEvents(ctx, pmt)

	return &PaymentIntentResponse{
		PaymentID:    pmt.ID,
		IntentID:     intent.IntentID,
		ClientSecret: intent.ClientSecret,
		Phase:        string(payment.PhaseBalance),
		Amount:       order.BalanceAmount,
		Currency:     string(order.Currency),
	}, nil
}

// Ship marks a paid order as shipped with carrier tracking info
func (s *OrderService) Ship(ctx context.Context, sellerID, orderID uuid.UUID, req ShipOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Ship(req.Carrier, req.TrackingNumber); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, order)
}

// Complete closes a shipped order
func (s *OrderService) Complete(ctx context.Context, sellerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}
	return s.saveAndRespond(ctx, order)
}

// Cancel cancels an order, voids open payment intents and releases the
// stock reserved at checkout.
func (s *OrderService) Cancel(ctx context.Context, sellerID, orderID uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForSeller(ctx, sellerID, orderID)
	if err != nil {
		return nil, err
	}

	wasCheckedOut := order.CheckedOutAt != nil

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}

	for _, phase := range []payment.Phase{payment.PhaseDeposit, payment.PhaseBalance, payment.PhaseFull} {
		pending, err := s.paymentRepo.FindPendingByDocument(ctx, sellerID, payment.DocumentTypeOrder, order.ID, phase)
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

	if wasCheckedOut {
		s.releaseStock(ctx, order)
	}

	return s.saveAndRespond(ctx, order)
}

func (s *OrderService) activeTerms(ctx context.Context, sellerID uuid.UUID) (*wholesale.Terms, error) {
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

// reserveStock deducts each line's quantity from product stock
func (s *OrderService) reserveStock(ctx context.Context, order *trade.Order) error {
	for i := range order.Items {
		item := &order.Items[i]
		product, err := s.productRepo.FindByIDForSeller(ctx, order.SellerID, item.ProductID)
		if err != nil {
			return err
		}
		if err := product.DeductStock(item.Quantity); err != nil {
			return err
		}
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// releaseStock returns cancelled quantities to product stock. Best effort:
// a missing product never blocks the cancellation.
func (s *OrderService) releaseStock(ctx context.Context, order *trade.Order) {
	for i := range order.Items {
		item := &order.Items[i]
		product, err := s.productRepo.FindByIDForSeller(ctx, order.SellerID, item.ProductID)
		if err != nil {
			continue
		}
		if err := product.AddStock(item.Quantity); err != nil {
			continue
		}
		_ = s.productRepo.SaveWithLock(ctx, product)
	}
}

func (s *OrderService) saveAndRespond(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range aggregate.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	aggregate.ClearDomainEvents()
}

func mustMoney(amount decimal.Decimal, cur valueobject.Currency) valueobject.Money {
	m, _ := valueobject.NewMoney(amount, cur)
	return m
}
