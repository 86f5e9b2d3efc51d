package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ventas/src/sales/domain/entity"
	"ventas/src/sales/domain/port"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/database"

	"github.com/google/uuid"
)

// InvoicePostgresRepository implementa InvoiceRepository usando PostgreSQL
type InvoicePostgresRepository struct {
	db database.DBTX
}

// NewInvoicePostgresRepository crea una nueva instancia del repositorio
func NewInvoicePostgresRepository(db database.DBTX) *InvoicePostgresRepository {
	return &InvoicePostgresRepository{db: db}
}

// WithTx retorna una vista del repositorio ligada a la transacción dada
func (r *InvoicePostgresRepository) WithTx(tx *sql.Tx) port.InvoiceRepository {
	return &InvoicePostgresRepository{db: tx}
}

// Save persiste la factura con sus renglones (aggregate completo)
func (r *InvoicePostgresRepository) Save(ctx context.Context, invoice *entity.Invoice) error {
	queryInvoice := `
		INSERT INTO facturas (
			id_factura, id_usuario, fecha, subtotal, iva, total,
			id_pago, payment_id, devuelta
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.ExecContext(ctx, queryInvoice,
		invoice.ID,
		invoice.UserID,
		invoice.Date,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		invoice.PaymentID, // NULL permitido hasta capturar el pago
		nullableString(invoice.ExternalPaymentRef),
		invoice.Refunded,
	)
	if err != nil {
		return fmt.Errorf("error saving invoice: %w", err)
	}

	queryLine := `
		INSERT INTO detalles_factura (
			id_detalle, id_factura, id_producto, descripcion,
			cantidad, precio_unitario, subtotal
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	for _, line := range invoice.Lines {
		_, err = r.db.ExecContext(ctx, queryLine,
			line.ID,
			invoice.ID,
			line.ProductID,
			line.Description,
			line.Quantity,
			line.UnitPrice,
			line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("error saving invoice line for product %d: %w", line.ProductID, err)
		}
	}

	return nil
}

// FindByID carga la factura con sus renglones
func (r *InvoicePostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	queryInvoice := `
		SELECT id_factura, id_usuario, fecha, subtotal, iva, total,
			id_pago, COALESCE(payment_id, ''), devuelta
		FROM facturas
		WHERE id_factura = $1
	`

	invoice := &entity.Invoice{}
	var paymentID uuid.NullUUID
	err := r.db.QueryRowContext(ctx, queryInvoice, id).Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.Date,
		&invoice.Subtotal,
		&invoice.Tax,
		&invoice.Total,
		&paymentID,
		&invoice.ExternalPaymentRef,
		&invoice.Refunded,
	)

	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Factura", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding invoice: %w", err)
	}

	if paymentID.Valid {
		invoice.PaymentID = &paymentID.UUID
	}

	queryLines := `
		SELECT id_detalle, id_factura, id_producto, descripcion,
			cantidad, precio_unitario, subtotal
		FROM detalles_factura
		WHERE id_factura = $1
		ORDER BY id_detalle
	`

	rows, err := r.db.QueryContext(ctx, queryLines, id)
	if err != nil {
		return nil, fmt.Errorf("error finding invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []entity.InvoiceLine
	for rows.Next() {
		var line entity.InvoiceLine
		err := rows.Scan(
			&line.ID,
			&line.InvoiceID,
			&line.ProductID,
			&line.Description,
			&line.Quantity,
			&line.UnitPrice,
			&line.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning invoice line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoice lines: %w", err)
	}

	invoice.Lines = lines
	return invoice, nil
}

// UpdatePayment adjunta el pago capturado a la factura
func (r *InvoicePostgresRepository) UpdatePayment(ctx context.Context, invoiceID, paymentID uuid.UUID, externalRef string) error {
	query := `
		UPDATE facturas
		SET id_pago = $2, payment_id = $3
		WHERE id_factura = $1
	`

	result, err := r.db.ExecContext(ctx, query, invoiceID, paymentID, nullableString(externalRef))
	if err != nil {
		return fmt.Errorf("error updating invoice payment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperror.NewNotFound("Factura", invoiceID)
	}

	return nil
}

// MarkRefunded marca la factura como devuelta solo si no lo estaba.
// El UPDATE condicional serializa devoluciones concurrentes: solo una gana.
func (r *InvoicePostgresRepository) MarkRefunded(ctx context.Context, invoiceID uuid.UUID) (bool, error) {
	query := `
		UPDATE facturas
		SET devuelta = TRUE
		WHERE id_factura = $1 AND devuelta = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, invoiceID)
	if err != nil {
		return false, fmt.Errorf("error marking invoice as refunded: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
