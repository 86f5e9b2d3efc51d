package port

import (
	"context"
	"database/sql"

	"ventas/src/catalog/domain/entity"
)

// ProductRepository define los métodos para consultar y mutar productos.
// Las mutaciones de stock son atómicas a nivel de fila: DecrementIfSufficient
// re-verifica suficiencia en el momento de la escritura, cerrando la carrera
// check-then-act entre validación y débito.
type ProductRepository interface {
	FindByID(ctx context.Context, id int) (*entity.Product, error)
	FindAll(ctx context.Context) ([]*entity.Product, error)
	Save(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int) error

	// DecrementIfSufficient descuenta qty del stock solo si hay suficiente.
	// Retorna el producto actualizado, o apperror.InsufficientStockError.
	DecrementIfSufficient(ctx context.Context, id, qty int) (*entity.Product, error)

	// IncrementQuantity aumenta el stock (compras/devoluciones)
	IncrementQuantity(ctx context.Context, id, qty int) (*entity.Product, error)

	// WithTx retorna una vista del repositorio ligada a la transacción dada
	WithTx(tx *sql.Tx) ProductRepository
}

// UserRepository define los métodos para consultar usuarios
type UserRepository interface {
	FindByID(ctx context.Context, id int) (*entity.User, error)
}
