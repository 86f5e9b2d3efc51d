package database

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX abstrae *sql.DB y *sql.Tx para que los repositorios puedan operar
// dentro o fuera de una transacción sin cambiar su código
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxManager ejecuta unidades de trabajo dentro de una única transacción.
// La orquestación de venta/devolución comitea una sola vez al final;
// cualquier error en el camino hace rollback de todo.
type TxManager struct {
	db *sql.DB
}

// NewTxManager crea una nueva instancia del manager
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx ejecuta fn dentro de una transacción. Commit si fn retorna nil,
// rollback en caso contrario (o si fn hace panic).
func (m *TxManager) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
