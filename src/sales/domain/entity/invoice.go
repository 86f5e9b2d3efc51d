package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate IVA fijo aplicado sobre el subtotal (19%)
var TaxRate = decimal.NewFromFloat(0.19)

// Invoice representa una factura de venta (Aggregate Root).
// Inmutable una vez creada, salvo el flag Refunded y el PaymentID adjunto.
// Invariante: Total = Subtotal + Tax, con Tax = round(Subtotal * 0.19, 2).
type Invoice struct {
	ID                 uuid.UUID       `json:"id_factura"`
	UserID             int             `json:"id_usuario"`
	Date               time.Time       `json:"fecha"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Tax                decimal.Decimal `json:"iva"`
	Total              decimal.Decimal `json:"total"`
	Lines              []InvoiceLine   `json:"detalles"`
	PaymentID          *uuid.UUID      `json:"id_pago,omitempty"`
	ExternalPaymentRef string          `json:"payment_id,omitempty"` // referencia del procesador externo
	Refunded           bool            `json:"devuelta"`
}

// InvoiceLine representa un renglón de la factura (Entity dentro del Aggregate).
// El precio unitario es un snapshot capturado al momento de la venta, no el
// precio vivo del producto.
type InvoiceLine struct {
	ID          uuid.UUID       `json:"id_detalle"`
	InvoiceID   uuid.UUID       `json:"id_factura"`
	ProductID   int             `json:"id_producto"`
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewInvoiceLine crea un renglón calculando su subtotal = precio × cantidad
func NewInvoiceLine(productID int, description string, quantity int, unitPrice decimal.Decimal) (*InvoiceLine, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidUnitPrice
	}

	return &InvoiceLine{
		ID:          uuid.New(),
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewInvoice arma la factura con sus renglones y calcula los totales.
// Aritmética decimal de punto fijo: el IVA se redondea a 2 decimales.
func NewInvoice(userID int, lines []InvoiceLine) (*Invoice, error) {
	if len(lines) == 0 {
		return nil, ErrInvoiceMustHaveLines
	}

	invoiceID := uuid.New()

	subtotal := decimal.Zero
	for i := range lines {
		lines[i].InvoiceID = invoiceID
		subtotal = subtotal.Add(lines[i].Subtotal)
	}

	tax := subtotal.Mul(TaxRate).Round(2)
	total := subtotal.Add(tax)

	return &Invoice{
		ID:       invoiceID,
		UserID:   userID,
		Date:     time.Now(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
		Lines:    lines,
		Refunded: false,
	}, nil
}

// AttachPayment adjunta el pago capturado a la factura
func (f *Invoice) AttachPayment(paymentID uuid.UUID, externalRef string) {
	f.PaymentID = &paymentID
	if externalRef != "" {
		f.ExternalPaymentRef = externalRef
	}
}

// TotalLines retorna el número de renglones de la factura
func (f *Invoice) TotalLines() int {
	return len(f.Lines)
}
