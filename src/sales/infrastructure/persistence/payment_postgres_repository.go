package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ventas/src/sales/domain/entity"
	"ventas/src/sales/domain/port"
	"ventas/src/shared/infrastructure/database"
)

// PaymentPostgresRepository persiste los pagos asociados a cada factura.
type PaymentPostgresRepository struct {
	db database.DBTX
}

func NewPaymentPostgresRepository(db database.DBTX) *PaymentPostgresRepository {
	return &PaymentPostgresRepository{db: db}
}

func (r *PaymentPostgresRepository) WithTx(tx *sql.Tx) port.PaymentRepository {
	return &PaymentPostgresRepository{db: tx}
}

func (r *PaymentPostgresRepository) Save(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO pagos (id_pago, id_factura, metodo_pago, monto, nombre_titular, numero_tarjeta)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		payment.ID,
		payment.InvoiceID,
		payment.Method,
		payment.Amount,
		nullableString(payment.CardHolder),
		nullableString(payment.MaskedCard),
	)
	if err != nil {
		return fmt.Errorf("error saving payment: %w", err)
	}
	return nil
}
