package usecase

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	catalogEntity "ventas/src/catalog/domain/entity"
	catalogPort "ventas/src/catalog/domain/port"
	notification "ventas/src/inventory/application/service"
	"ventas/src/sales/application/request"
	"ventas/src/sales/domain/entity"
	"ventas/src/sales/domain/port"
	"ventas/src/sales/infrastructure/gateway"
	"ventas/src/shared/domain/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fakes en memoria
// ---------------------------------------------------------------------------

type fakeUserRepo struct {
	users map[int]*catalogEntity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int) (*catalogEntity.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperror.NewNotFound("Usuario", id)
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int]*catalogEntity.Product
}

func (r *fakeProductRepo) WithTx(_ *sql.Tx) catalogPort.ProductRepository { return r }

func (r *fakeProductRepo) FindByID(_ context.Context, id int) (*catalogEntity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, apperror.NewNotFound("Producto", id)
}

func (r *fakeProductRepo) FindAll(_ context.Context) ([]*catalogEntity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*catalogEntity.Product
	for _, p := range r.products {
		clone := *p
		all = append(all, &clone)
	}
	return all, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalogEntity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DecrementIfSufficient(_ context.Context, id, qty int) (*catalogEntity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperror.NewNotFound("Producto", id)
	}
	if p.AvailableQuantity < qty {
		return nil, &apperror.InsufficientStockError{
			Product:   p.Description,
			Available: p.AvailableQuantity,
			Requested: qty,
		}
	}
	p.AvailableQuantity -= qty
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) IncrementQuantity(_ context.Context, id, qty int) (*catalogEntity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperror.NewNotFound("Producto", id)
	}
	p.AvailableQuantity += qty
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) stock(id int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].AvailableQuantity
}

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*entity.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[uuid.UUID]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) WithTx(_ *sql.Tx) port.InvoiceRepository { return r }

func (r *fakeInvoiceRepo) Save(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *invoice
	r.invoices[invoice.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		clone := *inv
		return &clone, nil
	}
	return nil, apperror.NewNotFound("Factura", id)
}

func (r *fakeInvoiceRepo) UpdatePayment(_ context.Context, invoiceID, paymentID uuid.UUID, externalRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return apperror.NewNotFound("Factura", invoiceID)
	}
	inv.PaymentID = &paymentID
	inv.ExternalPaymentRef = externalRef
	return nil
}

func (r *fakeInvoiceRepo) MarkRefunded(_ context.Context, invoiceID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok || inv.Refunded {
		return false, nil
	}
	inv.Refunded = true
	return true, nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*entity.Payment
}

func (r *fakePaymentRepo) WithTx(_ *sql.Tx) port.PaymentRepository { return r }

func (r *fakePaymentRepo) Save(_ context.Context, payment *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, payment)
	return nil
}

func (r *fakePaymentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payments)
}

// fakeTxRunner ejecuta la unidad de trabajo sin transacción real
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

// countingObserver cuenta eventos de agotamiento para los tests de venta
type countingObserver struct {
	mu       sync.Mutex
	outStock []int
}

func (o *countingObserver) Name() string { return "CountingObserver" }

func (o *countingObserver) OnStockChange(*catalogEntity.Product, int, int) error { return nil }
func (o *countingObserver) OnLowStock(*catalogEntity.Product, int) error         { return nil }
func (o *countingObserver) OnRestocked(*catalogEntity.Product, int) error        { return nil }

func (o *countingObserver) OnOutOfStock(p *catalogEntity.Product) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outStock = append(o.outStock, p.ID)
	return nil
}

func (o *countingObserver) outOfStockIDs() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.outStock...)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

type saleFixture struct {
	userRepo    *fakeUserRepo
	productRepo *fakeProductRepo
	invoiceRepo *fakeInvoiceRepo
	paymentRepo *fakePaymentRepo
	observer    *countingObserver
	uc          *ProcessSaleUseCase
}

func newSaleFixture(gw port.PaymentGateway) *saleFixture {
	f := &saleFixture{
		userRepo: &fakeUserRepo{users: map[int]*catalogEntity.User{
			1: {ID: 1, Name: "Juan Pérez", Email: "juan@example.com", Role: "Vendedor"},
		}},
		productRepo: &fakeProductRepo{products: map[int]*catalogEntity.Product{
			1: {ID: 1, Description: "Arroz Diana 500g", Category: "Alimentos", UnitPrice: price(2800), AvailableQuantity: 10},
			2: {ID: 2, Description: "Aceite Premier 1L", Category: "Alimentos", UnitPrice: price(5500), AvailableQuantity: 2},
			3: {ID: 3, Description: "Producto sin precio", Category: "General", UnitPrice: nil, AvailableQuantity: 50},
		}},
		invoiceRepo: newFakeInvoiceRepo(),
		paymentRepo: &fakePaymentRepo{},
		observer:    &countingObserver{},
	}

	if gw == nil {
		gw = gateway.NewSimulatedPaymentGateway(gateway.GatewayConfig{
			CreditDeclineRate: 0.05,
			Rand:              func() float64 { return 0.99 },
		})
	}

	notifications := notification.NewNotificationService(f.observer)
	f.uc = NewProcessSaleUseCase(
		f.userRepo, f.productRepo, f.invoiceRepo, f.paymentRepo, gw, notifications, fakeTxRunner{})
	return f
}

func cashSale(userID int, items ...request.SaleItemRequest) *request.SaleRequest {
	return &request.SaleRequest{
		UserID:  userID,
		Items:   items,
		Payment: entity.PaymentData{Method: entity.MethodCash},
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProcessSaleComputesTotalsAndDebitsStock(t *testing.T) {
	f := newSaleFixture(nil)

	resp, err := f.uc.Execute(context.Background(), cashSale(1,
		request.SaleItemRequest{ProductID: 1, Quantity: 1},
		request.SaleItemRequest{ProductID: 2, Quantity: 2},
	))
	require.NoError(t, err)

	// 2800*1 + 5500*2 = 13800; IVA 19% = 2622; total = 16422
	assert.Equal(t, "13800.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "2622.00", resp.Tax.StringFixed(2))
	assert.Equal(t, "16422.00", resp.Total.StringFixed(2))
	assert.Len(t, resp.Lines, 2)
	assert.Equal(t, "FAC-"+resp.InvoiceID.String(), resp.InvoiceNumber)

	// Stock debitado: 10-1=9 y 2-2=0
	assert.Equal(t, 9, f.productRepo.stock(1))
	assert.Equal(t, 0, f.productRepo.stock(2))

	// El producto agotado dispara el evento de agotamiento
	assert.Equal(t, []int{2}, f.observer.outOfStockIDs())

	// Factura persistida con el pago adjunto
	saved, err := f.invoiceRepo.FindByID(context.Background(), resp.InvoiceID)
	require.NoError(t, err)
	require.NotNil(t, saved.PaymentID)
	assert.Equal(t, resp.PaymentID, *saved.PaymentID)
	assert.Equal(t, 1, f.paymentRepo.count())
}

func TestProcessSaleUnknownUser(t *testing.T) {
	f := newSaleFixture(nil)

	_, err := f.uc.Execute(context.Background(), cashSale(99,
		request.SaleItemRequest{ProductID: 1, Quantity: 1}))

	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Usuario", notFound.Resource)
	assert.Equal(t, 10, f.productRepo.stock(1), "nada se debita si el usuario no existe")
}

func TestProcessSaleProductWithoutPrice(t *testing.T) {
	f := newSaleFixture(nil)

	_, err := f.uc.Execute(context.Background(), cashSale(1,
		request.SaleItemRequest{ProductID: 3, Quantity: 1}))

	var invalidState *apperror.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Contains(t, invalidState.Message, "no tiene precio configurado")
	assert.Equal(t, 0, f.paymentRepo.count(), "ningún pago se captura")
	assert.Equal(t, 50, f.productRepo.stock(3))
}

func TestProcessSaleInsufficientStock(t *testing.T) {
	f := newSaleFixture(nil)

	_, err := f.uc.Execute(context.Background(), cashSale(1,
		request.SaleItemRequest{ProductID: 2, Quantity: 5}))

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, f.productRepo.stock(2), "el stock queda intacto")
}

func TestProcessSaleDeclinedPaymentLeavesNoSideEffects(t *testing.T) {
	// Rand en 0.0 siempre queda bajo la tasa de rechazo: la tarjeta se rechaza
	declining := gateway.NewSimulatedPaymentGateway(gateway.GatewayConfig{
		CreditDeclineRate: 0.05,
		Rand:              func() float64 { return 0.0 },
	})
	f := newSaleFixture(declining)

	req := &request.SaleRequest{
		UserID: 1,
		Items:  []request.SaleItemRequest{{ProductID: 1, Quantity: 1}},
		Payment: entity.PaymentData{
			Method:       entity.MethodCreditCard,
			CardNumber:   "4111111111111111",
			CardHolder:   "Juan Pérez",
			SecurityCode: "123",
		},
	}

	_, err := f.uc.Execute(context.Background(), req)

	var payErr *apperror.PaymentError
	require.ErrorAs(t, err, &payErr)
	assert.Equal(t, entity.MethodCreditCard, payErr.Method)
	assert.Equal(t, 0, f.paymentRepo.count())
	assert.Equal(t, 10, f.productRepo.stock(1), "el rechazo no debita inventario")
}

func TestProcessSaleConcurrentSalesOnLastUnit(t *testing.T) {
	f := newSaleFixture(nil)
	f.productRepo.products[2].AvailableQuantity = 1

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), cashSale(1,
				request.SaleItemRequest{ProductID: 2, Quantity: 1}))
		}(i)
	}
	wg.Wait()

	successes := 0
	stockErrors := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var stockErr *apperror.InsufficientStockError
		if assert.ErrorAs(t, err, &stockErr) {
			stockErrors++
		}
	}

	assert.Equal(t, 1, successes, "exactamente una venta concurrente gana la última unidad")
	assert.Equal(t, 1, stockErrors)
	assert.Equal(t, 0, f.productRepo.stock(2))
}
