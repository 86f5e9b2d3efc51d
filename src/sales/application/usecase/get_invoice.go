package usecase

import (
	"context"

	"ventas/src/sales/domain/entity"
	"ventas/src/sales/domain/port"

	"github.com/google/uuid"
)

// GetInvoiceUseCase consulta de factura por ID
type GetInvoiceUseCase struct {
	invoiceRepo port.InvoiceRepository
}

// NewGetInvoiceUseCase crea una nueva instancia del caso de uso
func NewGetInvoiceUseCase(invoiceRepo port.InvoiceRepository) *GetInvoiceUseCase {
	return &GetInvoiceUseCase{invoiceRepo: invoiceRepo}
}

// Execute busca la factura con sus renglones
func (uc *GetInvoiceUseCase) Execute(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	return uc.invoiceRepo.FindByID(ctx, invoiceID)
}
