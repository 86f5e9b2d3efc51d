package port

import (
	"context"
	"database/sql"
)

// TxRunner ejecuta una unidad de trabajo dentro de una única transacción.
// Satisfecho por database.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}
