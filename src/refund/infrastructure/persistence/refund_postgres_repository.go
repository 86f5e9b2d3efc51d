package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ventas/src/refund/domain/entity"
	"ventas/src/refund/domain/port"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/database"

	"github.com/google/uuid"
)

// RefundPostgresRepository persiste devoluciones en la tabla devoluciones.
// La restricción UNIQUE sobre id_factura garantiza a nivel de base de datos
// que una factura solo puede devolverse una vez.
type RefundPostgresRepository struct {
	db database.DBTX
}

func NewRefundPostgresRepository(db database.DBTX) *RefundPostgresRepository {
	return &RefundPostgresRepository{db: db}
}

func (r *RefundPostgresRepository) WithTx(tx *sql.Tx) port.RefundRepository {
	return &RefundPostgresRepository{db: tx}
}

func (r *RefundPostgresRepository) Save(ctx context.Context, refund *entity.Refund) error {
	query := `
		INSERT INTO devoluciones (id_devolucion, id_factura, payment_id, refund_id, monto_devuelto, motivo, estado, fecha_devolucion, usuario_devolucion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		refund.ID,
		refund.InvoiceID,
		nullableString(refund.PaymentRef),
		nullableString(refund.RefundRef),
		refund.Amount,
		refund.Reason,
		refund.Status,
		refund.Date,
		nullableString(refund.Operator),
	)
	if err != nil {
		return fmt.Errorf("error saving refund: %w", err)
	}
	return nil
}

func (r *RefundPostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Refund, error) {
	query := selectRefund + ` WHERE id_devolucion = $1`

	refund, err := r.scanRefund(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Devolución", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding refund: %w", err)
	}
	return refund, nil
}

func (r *RefundPostgresRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (*entity.Refund, error) {
	query := selectRefund + ` WHERE id_factura = $1`

	refund, err := r.scanRefund(r.db.QueryRowContext(ctx, query, invoiceID))
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Devolución de factura", invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding refund by invoice: %w", err)
	}
	return refund, nil
}

func (r *RefundPostgresRepository) FindAll(ctx context.Context) ([]*entity.Refund, error) {
	query := selectRefund + ` ORDER BY fecha_devolucion DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing refunds: %w", err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		refund, err := r.scanRefund(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning refund: %w", err)
		}
		refunds = append(refunds, refund)
	}
	return refunds, rows.Err()
}

const selectRefund = `
	SELECT id_devolucion, id_factura,
	       COALESCE(payment_id, ''), COALESCE(refund_id, ''),
	       monto_devuelto, COALESCE(motivo, ''), estado, fecha_devolucion,
	       COALESCE(usuario_devolucion, '')
	FROM devoluciones`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *RefundPostgresRepository) scanRefund(row rowScanner) (*entity.Refund, error) {
	refund := &entity.Refund{}
	err := row.Scan(
		&refund.ID,
		&refund.InvoiceID,
		&refund.PaymentRef,
		&refund.RefundRef,
		&refund.Amount,
		&refund.Reason,
		&refund.Status,
		&refund.Date,
		&refund.Operator,
	)
	if err != nil {
		return nil, err
	}
	return refund, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
