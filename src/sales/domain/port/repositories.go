package port

import (
	"context"
	"database/sql"

	"ventas/src/sales/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceRepository define los métodos para persistir facturas (aggregate
// con sus renglones)
type InvoiceRepository interface {
	Save(ctx context.Context, invoice *entity.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)

	// UpdatePayment adjunta el pago a una factura ya persistida
	UpdatePayment(ctx context.Context, invoiceID, paymentID uuid.UUID, externalRef string) error

	// MarkRefunded marca la factura como devuelta solo si no lo estaba.
	// Retorna false si ya estaba devuelta (cierra la carrera de doble
	// devolución concurrente).
	MarkRefunded(ctx context.Context, invoiceID uuid.UUID) (bool, error)

	// WithTx retorna una vista del repositorio ligada a la transacción dada
	WithTx(tx *sql.Tx) InvoiceRepository
}

// PaymentRepository define los métodos para persistir pagos
type PaymentRepository interface {
	Save(ctx context.Context, payment *entity.Payment) error
	WithTx(tx *sql.Tx) PaymentRepository
}

// PaymentGateway captura pagos contra el procesador que corresponda al método.
// La implementación simulada es reemplazable por un procesador real.
type PaymentGateway interface {
	Capture(ctx context.Context, data *entity.PaymentData, amount decimal.Decimal, invoiceID uuid.UUID) (*entity.Payment, error)
}
