package usecase

import (
	"context"
	"database/sql"
	"log"

	catalogPort "ventas/src/catalog/domain/port"
	notification "ventas/src/inventory/application/service"
	"ventas/src/sales/application/request"
	"ventas/src/sales/application/response"
	"ventas/src/sales/domain/entity"
	"ventas/src/sales/domain/port"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/metrics"
)

// ProcessSaleUseCase orquesta una venta completa (Facade sobre los servicios
// de catálogo, pagos, facturación e inventario):
// 1. Validar usuario
// 2. Validar items contra inventario vivo y calcular precios
// 3. Calcular totales (subtotal, IVA 19%, total)
// 4. Armar factura en memoria
// 5-8. En UNA única transacción: persistir factura, capturar pago, persistir
//
//	pago, adjuntar pago a la factura, debitar stock con re-chequeo atómico
//	y notificar observadores de inventario. Commit una sola vez al final:
//	cualquier falla revierte factura, pago y débitos en bloque.
type ProcessSaleUseCase struct {
	userRepo      catalogPort.UserRepository
	productRepo   catalogPort.ProductRepository
	invoiceRepo   port.InvoiceRepository
	paymentRepo   port.PaymentRepository
	gateway       port.PaymentGateway
	notifications *notification.NotificationService
	tx            port.TxRunner
}

// NewProcessSaleUseCase crea una nueva instancia del caso de uso
func NewProcessSaleUseCase(
	userRepo catalogPort.UserRepository,
	productRepo catalogPort.ProductRepository,
	invoiceRepo port.InvoiceRepository,
	paymentRepo port.PaymentRepository,
	gateway port.PaymentGateway,
	notifications *notification.NotificationService,
	tx port.TxRunner,
) *ProcessSaleUseCase {
	return &ProcessSaleUseCase{
		userRepo:      userRepo,
		productRepo:   productRepo,
		invoiceRepo:   invoiceRepo,
		paymentRepo:   paymentRepo,
		gateway:       gateway,
		notifications: notifications,
		tx:            tx,
	}
}

// Execute procesa la venta. Errores de negocio (usuario/producto inexistente,
// stock insuficiente, pago rechazado) se propagan tipados e intactos; errores
// inesperados se envuelven como técnicos.
func (uc *ProcessSaleUseCase) Execute(ctx context.Context, req *request.SaleRequest) (*response.SaleResponse, error) {
	log.Printf("🛒 === INICIANDO PROCESAMIENTO DE VENTA ===")
	log.Printf("Usuario: %d | Items: %d | Método de pago: %s", req.UserID, len(req.Items), req.Payment.Method)

	resp, err := uc.execute(ctx, req)
	if err != nil {
		log.Printf("❌ Error procesando venta: %v", err)
		metrics.VentasProcesadas.WithLabelValues("error").Inc()
		return nil, apperror.WrapTechnical(err)
	}

	metrics.VentasProcesadas.WithLabelValues("success").Inc()
	log.Printf("🎉 === VENTA PROCESADA EXITOSAMENTE === Factura: %s, Total: $%s", resp.InvoiceID, resp.Total)
	return resp, nil
}

func (uc *ProcessSaleUseCase) execute(ctx context.Context, req *request.SaleRequest) (*response.SaleResponse, error) {
	// ========================================================================
	// PASO 1: VALIDAR USUARIO
	// ========================================================================
	user, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		log.Printf("⚠️ Venta realizada por administrador: %s", user.Name)
	}
	log.Printf("✅ Usuario validado: %s", user.Name)

	// ========================================================================
	// PASO 2: VALIDAR ITEMS CONTRA INVENTARIO Y CALCULAR PRECIOS
	// El precio unitario queda capturado como snapshot en el renglón.
	// ========================================================================
	lines, err := uc.validateAndPriceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	// ========================================================================
	// PASO 3-4: ARMAR FACTURA CON TOTALES (subtotal, IVA 19%, total)
	// ========================================================================
	invoice, err := entity.NewInvoice(req.UserID, lines)
	if err != nil {
		return nil, apperror.NewValidation("%v", err)
	}
	log.Printf("✅ Productos validados - Subtotal: $%s, IVA: $%s, Total: $%s",
		invoice.Subtotal, invoice.Tax, invoice.Total)

	// ========================================================================
	// PASO 5-8: UNIDAD DE TRABAJO ÚNICA (commit al final o nada)
	// Orden: factura → captura de pago → pago → adjuntar pago → débito stock.
	// Persistir la factura antes de capturar da un ID durable para referenciar
	// desde el pago; si la captura falla, el rollback la descarta con todo.
	// ========================================================================
	var payment *entity.Payment

	err = uc.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		invoiceRepo := uc.invoiceRepo.WithTx(tx)
		paymentRepo := uc.paymentRepo.WithTx(tx)
		productRepo := uc.productRepo.WithTx(tx)

		// PASO 5: persistir factura (pre-pago)
		if err := invoiceRepo.Save(ctx, invoice); err != nil {
			return err
		}
		log.Printf("✅ Factura persistida - ID: %s", invoice.ID)

		// PASO 6: capturar pago
		payment, err = uc.gateway.Capture(ctx, &req.Payment, invoice.Total, invoice.ID)
		if err != nil {
			metrics.PagosRechazados.WithLabelValues(req.Payment.Method).Inc()
			return err
		}
		if err := paymentRepo.Save(ctx, payment); err != nil {
			return err
		}
		log.Printf("✅ Pago procesado - Método: %s", payment.Method)

		// PASO 7: adjuntar pago a la factura
		invoice.AttachPayment(payment.ID, req.Payment.ExternalPaymentID)
		if err := invoiceRepo.UpdatePayment(ctx, invoice.ID, payment.ID, invoice.ExternalPaymentRef); err != nil {
			return err
		}

		// PASO 8: debitar inventario renglón por renglón.
		// DecrementIfSufficient re-verifica suficiencia al escribir: cierra la
		// carrera con la lectura del PASO 2. Cada débito exitoso dispara la
		// notificación de cambio de stock en la misma unidad de trabajo.
		for _, line := range invoice.Lines {
			updated, err := productRepo.DecrementIfSufficient(ctx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			uc.notifications.NotifyStockChange(updated, updated.AvailableQuantity+line.Quantity, updated.AvailableQuantity)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Inventario actualizado y notificaciones enviadas")

	return buildSaleResponse(invoice, payment), nil
}

// validateAndPriceItems resuelve cada producto, valida precio y stock, y
// construye los renglones con el subtotal por item
func (uc *ProcessSaleUseCase) validateAndPriceItems(ctx context.Context, items []request.SaleItemRequest) ([]entity.InvoiceLine, error) {
	var lines []entity.InvoiceLine

	for _, item := range items {
		log.Printf("🔍 Procesando item - Producto ID: %d, Cantidad: %d", item.ProductID, item.Quantity)

		product, err := uc.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		if !product.HasValidPrice() {
			return nil, apperror.NewInvalidState(
				"El producto '%s' (ID: %d) no tiene precio configurado",
				product.Description, product.ID)
		}

		if !product.HasSufficientStock(item.Quantity) {
			return nil, &apperror.InsufficientStockError{
				Product:   product.Description,
				Available: product.AvailableQuantity,
				Requested: item.Quantity,
			}
		}

		line, err := entity.NewInvoiceLine(product.ID, product.Description, item.Quantity, *product.UnitPrice)
		if err != nil {
			return nil, apperror.NewValidation("%v", err)
		}

		log.Printf("   ✓ %s x%d = $%s", product.Description, item.Quantity, line.Subtotal)
		lines = append(lines, *line)
	}

	return lines, nil
}

func buildSaleResponse(invoice *entity.Invoice, payment *entity.Payment) *response.SaleResponse {
	linesResp := make([]response.SaleLineResponse, 0, len(invoice.Lines))
	for _, line := range invoice.Lines {
		linesResp = append(linesResp, response.SaleLineResponse{
			ProductID:   line.ProductID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	return &response.SaleResponse{
		InvoiceID:     invoice.ID,
		InvoiceNumber: "FAC-" + invoice.ID.String(),
		UserID:        invoice.UserID,
		Date:          invoice.Date,
		Lines:         linesResp,
		Subtotal:      invoice.Subtotal,
		Tax:           invoice.Tax,
		Total:         invoice.Total,
		PaymentID:     payment.ID,
		PaymentMethod: payment.Method,
	}
}
