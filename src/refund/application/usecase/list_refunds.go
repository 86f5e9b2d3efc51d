package usecase

import (
	"context"

	"ventas/src/refund/domain/entity"
	"ventas/src/refund/domain/port"
	"ventas/src/shared/domain/apperror"

	"github.com/google/uuid"
)

// ListRefundsUseCase consulta devoluciones registradas
type ListRefundsUseCase struct {
	refundRepo port.RefundRepository
}

func NewListRefundsUseCase(refundRepo port.RefundRepository) *ListRefundsUseCase {
	return &ListRefundsUseCase{refundRepo: refundRepo}
}

func (uc *ListRefundsUseCase) Execute(ctx context.Context) ([]*entity.Refund, error) {
	refunds, err := uc.refundRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.WrapTechnical(err)
	}
	return refunds, nil
}

// GetRefundUseCase obtiene una devolución por ID
type GetRefundUseCase struct {
	refundRepo port.RefundRepository
}

func NewGetRefundUseCase(refundRepo port.RefundRepository) *GetRefundUseCase {
	return &GetRefundUseCase{refundRepo: refundRepo}
}

func (uc *GetRefundUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	return uc.refundRepo.FindByID(ctx, id)
}

// ExecuteByInvoice obtiene la devolución asociada a una factura
func (uc *GetRefundUseCase) ExecuteByInvoice(ctx context.Context, invoiceID uuid.UUID) (*entity.Refund, error) {
	return uc.refundRepo.FindByInvoiceID(ctx, invoiceID)
}
