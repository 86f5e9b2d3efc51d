package usecase

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	catalogEntity "ventas/src/catalog/domain/entity"
	catalogPort "ventas/src/catalog/domain/port"
	notification "ventas/src/inventory/application/service"
	"ventas/src/refund/application/request"
	refundEntity "ventas/src/refund/domain/entity"
	"ventas/src/refund/domain/port"
	salesEntity "ventas/src/sales/domain/entity"
	salesPort "ventas/src/sales/domain/port"
	"ventas/src/shared/domain/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Fakes en memoria
// ---------------------------------------------------------------------------

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[uuid.UUID]*salesEntity.Invoice
}

func (r *fakeInvoiceRepo) WithTx(_ *sql.Tx) salesPort.InvoiceRepository { return r }

func (r *fakeInvoiceRepo) Save(_ context.Context, invoice *salesEntity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[invoice.ID] = invoice
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*salesEntity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv, ok := r.invoices[id]; ok {
		clone := *inv
		return &clone, nil
	}
	return nil, apperror.NewNotFound("Factura", id)
}

func (r *fakeInvoiceRepo) UpdatePayment(_ context.Context, invoiceID, paymentID uuid.UUID, externalRef string) error {
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

func (r *fakeInvoiceRepo) isRefunded(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.invoices[id].Refunded
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
	return nil, nil
}

func (r *fakeProductRepo) Save(_ context.Context, _ *catalogEntity.Product) error { return nil }
func (r *fakeProductRepo) Delete(_ context.Context, _ int) error                  { return nil }

func (r *fakeProductRepo) DecrementIfSufficient(_ context.Context, id, qty int) (*catalogEntity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.products[id]
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

type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds []*refundEntity.Refund
}

func (r *fakeRefundRepo) WithTx(_ *sql.Tx) port.RefundRepository { return r }

func (r *fakeRefundRepo) Save(_ context.Context, refund *refundEntity.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refunds = append(r.refunds, refund)
	return nil
}

func (r *fakeRefundRepo) FindByID(_ context.Context, id uuid.UUID) (*refundEntity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, refund := range r.refunds {
		if refund.ID == id {
			return refund, nil
		}
	}
	return nil, apperror.NewNotFound("Devolución", id)
}

func (r *fakeRefundRepo) FindByInvoiceID(_ context.Context, invoiceID uuid.UUID) (*refundEntity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, refund := range r.refunds {
		if refund.InvoiceID == invoiceID {
			return refund, nil
		}
	}
	return nil, apperror.NewNotFound("Devolución de factura", invoiceID)
}

func (r *fakeRefundRepo) FindAll(_ context.Context) ([]*refundEntity.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*refundEntity.Refund(nil), r.refunds...), nil
}

func (r *fakeRefundRepo) saved() []*refundEntity.Refund {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*refundEntity.Refund(nil), r.refunds...)
}

type fakeRefundClient struct {
	mu     sync.Mutex
	calls  []string
	result *port.ExternalRefundResult
	err    error
}

func (c *fakeRefundClient) Refund(_ context.Context, paymentRef string) (*port.ExternalRefundResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, paymentRef)
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *fakeRefundClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

// restockObserver registra los productos que cruzan el umbral hacia arriba
type restockObserver struct {
	mu        sync.Mutex
	restocked []int
}

func (o *restockObserver) Name() string                                        { return "RestockObserver" }
func (o *restockObserver) OnStockChange(*catalogEntity.Product, int, int) error { return nil }
func (o *restockObserver) OnLowStock(*catalogEntity.Product, int) error         { return nil }
func (o *restockObserver) OnOutOfStock(*catalogEntity.Product) error            { return nil }

func (o *restockObserver) OnRestocked(p *catalogEntity.Product, _ int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.restocked = append(o.restocked, p.ID)
	return nil
}

func (o *restockObserver) restockedIDs() []int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]int(nil), o.restocked...)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type refundFixture struct {
	invoiceRepo *fakeInvoiceRepo
	productRepo *fakeProductRepo
	refundRepo  *fakeRefundRepo
	client      *fakeRefundClient
	observer    *restockObserver
	invoice     *salesEntity.Invoice
	uc          *ProcessRefundUseCase
}

// newRefundFixture arma una factura pagada de 1x producto 1 y 2x producto 2
// con el stock ya debitado por la venta
func newRefundFixture(t *testing.T, externalPaymentRef string) *refundFixture {
	t.Helper()

	priceA := decimal.NewFromInt(2800)
	priceB := decimal.NewFromInt(5500)

	lineA, err := salesEntity.NewInvoiceLine(1, "Arroz Diana 500g", 1, priceA)
	require.NoError(t, err)
	lineB, err := salesEntity.NewInvoiceLine(2, "Aceite Premier 1L", 2, priceB)
	require.NoError(t, err)

	invoice, err := salesEntity.NewInvoice(1, []salesEntity.InvoiceLine{*lineA, *lineB})
	require.NoError(t, err)
	invoice.ExternalPaymentRef = externalPaymentRef

	f := &refundFixture{
		invoiceRepo: &fakeInvoiceRepo{invoices: map[uuid.UUID]*salesEntity.Invoice{invoice.ID: invoice}},
		productRepo: &fakeProductRepo{products: map[int]*catalogEntity.Product{
			1: {ID: 1, Description: "Arroz Diana 500g", Category: "Alimentos", UnitPrice: &priceA, AvailableQuantity: 9},
			2: {ID: 2, Description: "Aceite Premier 1L", Category: "Alimentos", UnitPrice: &priceB, AvailableQuantity: 0},
		}},
		refundRepo: &fakeRefundRepo{},
		client: &fakeRefundClient{
			result: &port.ExternalRefundResult{RefundID: "refund-9981", Status: "approved"},
		},
		observer: &restockObserver{},
		invoice:  invoice,
	}

	notifications := notification.NewNotificationService(f.observer)
	f.uc = NewProcessRefundUseCase(
		f.invoiceRepo, f.productRepo, f.refundRepo, f.client, notifications, fakeTxRunner{})
	return f
}

func refundRequest(invoiceID uuid.UUID) *request.RefundRequest {
	return &request.RefundRequest{
		InvoiceID: invoiceID.String(),
		Reason:    "producto defectuoso",
		Operator:  "vendedor1",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestProcessRefundRestoresInventoryAndRecordsRefund(t *testing.T) {
	f := newRefundFixture(t, "84930211456")

	resp, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	require.NoError(t, err)

	assert.Equal(t, refundEntity.StatusApproved, resp.Status)
	assert.Equal(t, f.invoice.Total.StringFixed(2), resp.Amount.StringFixed(2))
	assert.Equal(t, "refund-9981", resp.RefundRef)
	assert.Equal(t, 3, resp.ItemsRestock)

	// Inventario restaurado a los niveles previos a la venta
	assert.Equal(t, 10, f.productRepo.stock(1))
	assert.Equal(t, 2, f.productRepo.stock(2))

	// Factura marcada y devolución registrada
	assert.True(t, f.invoiceRepo.isRefunded(f.invoice.ID))
	saved := f.refundRepo.saved()
	require.Len(t, saved, 1)
	assert.Equal(t, refundEntity.StatusApproved, saved[0].Status)
	assert.True(t, saved[0].Amount.Equal(f.invoice.Total))

	// La pasarela fue llamada exactamente una vez con la referencia real
	assert.Equal(t, []string{"84930211456"}, f.client.calls)
}

func TestProcessRefundTestPaymentSkipsGateway(t *testing.T) {
	f := newRefundFixture(t, "TEST_12345")

	resp, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	require.NoError(t, err)

	assert.Equal(t, 0, f.client.callCount(), "pagos de prueba no van a la pasarela")
	assert.Empty(t, resp.RefundRef)
	assert.Equal(t, 10, f.productRepo.stock(1), "la devolución local sí restaura inventario")
}

func TestProcessRefundWithoutPaymentRefSkipsGateway(t *testing.T) {
	f := newRefundFixture(t, "")

	_, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	require.NoError(t, err)

	assert.Equal(t, 0, f.client.callCount())
	assert.True(t, f.invoiceRepo.isRefunded(f.invoice.ID))
}

func TestProcessRefundMalformedPaymentRef(t *testing.T) {
	f := newRefundFixture(t, "no-numerica-123x")

	_, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))

	var valErr *apperror.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, f.client.callCount())
	assert.False(t, f.invoiceRepo.isRefunded(f.invoice.ID))
	assert.Equal(t, 9, f.productRepo.stock(1), "nada se restaura")
}

func TestProcessRefundAlreadyRefunded(t *testing.T) {
	f := newRefundFixture(t, "84930211456")

	_, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	var stateErr *apperror.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Contains(t, stateErr.Message, "ya fue devuelta")

	assert.Equal(t, 1, f.client.callCount(), "la segunda devolución no vuelve a la pasarela")
	assert.Len(t, f.refundRepo.saved(), 1)
	assert.Equal(t, 10, f.productRepo.stock(1), "el inventario no se restaura dos veces")
}

func TestProcessRefundGatewayFailureLeavesInvoiceIntact(t *testing.T) {
	f := newRefundFixture(t, "84930211456")
	f.client.err = apperror.NewExternalService("MercadoPago", "refunds API returned status 500", nil)

	_, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))

	var extErr *apperror.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.False(t, f.invoiceRepo.isRefunded(f.invoice.ID))
	assert.Equal(t, 9, f.productRepo.stock(1))
	assert.Empty(t, f.refundRepo.saved())
}

func TestProcessRefundUnknownInvoice(t *testing.T) {
	f := newRefundFixture(t, "")

	_, err := f.uc.Execute(context.Background(), refundRequest(uuid.New()))

	var notFound *apperror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Factura", notFound.Resource)
}

func TestProcessRefundInvalidInvoiceID(t *testing.T) {
	f := newRefundFixture(t, "")

	_, err := f.uc.Execute(context.Background(), &request.RefundRequest{
		InvoiceID: "not-a-uuid",
		Reason:    "motivo",
	})

	var valErr *apperror.ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestProcessRefundEmitsRestockedEventOnThresholdCross(t *testing.T) {
	f := newRefundFixture(t, "")
	// Producto 1 queda en 4 unidades: restaurar 1 no cruza el umbral;
	// producto 2 en 4: restaurar 2 lo deja en 6, cruzando hacia arriba
	f.productRepo.products[1].AvailableQuantity = 9
	f.productRepo.products[2].AvailableQuantity = 4

	_, err := f.uc.Execute(context.Background(), refundRequest(f.invoice.ID))
	require.NoError(t, err)

	assert.Equal(t, []int{2}, f.observer.restockedIDs())
}
