package port

import (
	"context"
	"database/sql"

	"ventas/src/refund/domain/entity"

	"github.com/google/uuid"
)

// RefundRepository define las operaciones de persistencia de devoluciones
type RefundRepository interface {
	Save(ctx context.Context, refund *entity.Refund) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error)
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Refund, error)
	FindAll(ctx context.Context) ([]*entity.Refund, error)
	WithTx(tx *sql.Tx) RefundRepository
}

// ExternalRefundResult es la respuesta de la pasarela a un reembolso
type ExternalRefundResult struct {
	RefundID string
	Status   string
}

// ExternalRefundClient ejecuta reembolsos contra la pasarela de pagos
type ExternalRefundClient interface {
	Refund(ctx context.Context, paymentRef string) (*ExternalRefundResult, error)
}
