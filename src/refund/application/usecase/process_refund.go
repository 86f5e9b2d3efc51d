package usecase

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	catalogPort "ventas/src/catalog/domain/port"
	"ventas/src/inventory/application/service"
	"ventas/src/refund/application/request"
	"ventas/src/refund/application/response"
	"ventas/src/refund/domain/entity"
	"ventas/src/refund/domain/port"
	salesPort "ventas/src/sales/domain/port"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/metrics"

	"github.com/google/uuid"
)

// ProcessRefundUseCase ejecuta la devolución completa de una factura:
// verificación de elegibilidad, reembolso externo cuando aplica,
// restauración de inventario y registro de la devolución.
type ProcessRefundUseCase struct {
	invoiceRepo   salesPort.InvoiceRepository
	productRepo   catalogPort.ProductRepository
	refundRepo    port.RefundRepository
	refundClient  port.ExternalRefundClient
	notifications *service.NotificationService
	tx            salesPort.TxRunner
}

func NewProcessRefundUseCase(
	invoiceRepo salesPort.InvoiceRepository,
	productRepo catalogPort.ProductRepository,
	refundRepo port.RefundRepository,
	refundClient port.ExternalRefundClient,
	notifications *service.NotificationService,
	tx salesPort.TxRunner,
) *ProcessRefundUseCase {
	return &ProcessRefundUseCase{
		invoiceRepo:   invoiceRepo,
		productRepo:   productRepo,
		refundRepo:    refundRepo,
		refundClient:  refundClient,
		notifications: notifications,
		tx:            tx,
	}
}

// Execute procesa la devolución de la factura indicada en el request
func (uc *ProcessRefundUseCase) Execute(ctx context.Context, req *request.RefundRequest) (*response.RefundResponse, error) {
	resp, err := uc.execute(ctx, req)
	if err != nil {
		metrics.DevolucionesProcesadas.WithLabelValues("error").Inc()
		return nil, apperror.WrapTechnical(err)
	}
	metrics.DevolucionesProcesadas.WithLabelValues("success").Inc()
	return resp, nil
}

func (uc *ProcessRefundUseCase) execute(ctx context.Context, req *request.RefundRequest) (*response.RefundResponse, error) {
	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		return nil, apperror.NewValidation(fmt.Sprintf("ID de factura inválido: %s", req.InvoiceID))
	}

	log.Printf("↩️  Iniciando devolución de factura %s (motivo: %s)", invoiceID, req.Reason)

	// ========================================================================
	// PASO 1: RESOLVER FACTURA Y VERIFICAR ESTADO
	// ========================================================================
	invoice, err := uc.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.Refunded {
		return nil, apperror.NewInvalidState(
			fmt.Sprintf("La factura %s ya fue devuelta", invoiceID))
	}

	// ========================================================================
	// PASO 2: ELEGIBILIDAD Y REEMBOLSO EXTERNO
	// El reembolso en la pasarela ocurre antes de tocar la base de datos:
	// si la pasarela falla, la factura queda intacta.
	// ========================================================================
	refund, err := entity.NewRefund(invoiceID, invoice.ExternalPaymentRef, invoice.Total, req.Reason, req.Operator)
	if err != nil {
		return nil, apperror.NewValidation(err.Error())
	}

	// El reembolso externo ocurre antes de la transacción: dos devoluciones
	// concurrentes de la misma factura pueden llegar ambas al gateway, pero
	// solo una pasa MarkRefunded (UPDATE condicional + UNIQUE en id_factura).
	if entity.RequiresExternalRefund(invoice.ExternalPaymentRef) {
		if !entity.IsValidPaymentRef(invoice.ExternalPaymentRef) {
			return nil, apperror.NewValidation(
				fmt.Sprintf("Referencia de pago inválida: %s", invoice.ExternalPaymentRef))
		}

		log.Printf("💸 Solicitando reembolso externo para pago %s", invoice.ExternalPaymentRef)
		result, err := uc.refundClient.Refund(ctx, invoice.ExternalPaymentRef)
		if err != nil {
			return nil, err
		}
		refund.AttachExternalRef(result.RefundID)
		log.Printf("✅ Reembolso externo aprobado: %s (estado: %s)", result.RefundID, result.Status)
	} else {
		log.Printf("⚠️  Pago %q sin reembolso externo, devolución solo local",
			invoice.ExternalPaymentRef)
	}

	// ========================================================================
	// PASO 3: UNIDAD DE TRABAJO ÚNICA (commit al final o nada)
	// Marca la factura, restaura inventario y registra la devolución.
	// ========================================================================
	restored := 0
	err = uc.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		invoiceRepo := uc.invoiceRepo.WithTx(tx)
		productRepo := uc.productRepo.WithTx(tx)
		refundRepo := uc.refundRepo.WithTx(tx)

		// El UPDATE condicional garantiza que solo una devolución concurrente
		// gane: la perdedora ve 0 filas afectadas y aborta.
		marked, err := invoiceRepo.MarkRefunded(ctx, invoiceID)
		if err != nil {
			return err
		}
		if !marked {
			return apperror.NewInvalidState(
				fmt.Sprintf("La factura %s ya fue devuelta", invoiceID))
		}

		// Restaurar inventario renglón por renglón. Cada restauración
		// dispara las notificaciones de cambio de stock (incluido el
		// evento de reabastecimiento al cruzar el umbral).
		for _, line := range invoice.Lines {
			updated, err := productRepo.IncrementQuantity(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			restored += line.Quantity
			uc.notifications.NotifyStockChange(updated,
				updated.AvailableQuantity-line.Quantity, updated.AvailableQuantity)
		}

		return refundRepo.Save(ctx, refund)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Devolución %s completada: factura %s, %d unidades restauradas, monto $%s",
		refund.ID, invoiceID, restored, refund.Amount.StringFixed(2))

	return &response.RefundResponse{
		RefundID:     refund.ID.String(),
		InvoiceID:    invoiceID.String(),
		Amount:       refund.Amount,
		Status:       refund.Status,
		Date:         refund.Date,
		RefundRef:    refund.RefundRef,
		ItemsRestock: restored,
	}, nil
}
