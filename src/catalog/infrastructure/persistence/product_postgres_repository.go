package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ventas/src/catalog/domain/entity"
	"ventas/src/catalog/domain/port"
	"ventas/src/shared/domain/apperror"
	"ventas/src/shared/infrastructure/database"

	"github.com/shopspring/decimal"
)

// ProductPostgresRepository implementa ProductRepository usando PostgreSQL
type ProductPostgresRepository struct {
	db database.DBTX
}

// NewProductPostgresRepository crea una nueva instancia del repositorio
func NewProductPostgresRepository(db database.DBTX) *ProductPostgresRepository {
	return &ProductPostgresRepository{db: db}
}

// WithTx retorna una vista del repositorio ligada a la transacción dada
func (r *ProductPostgresRepository) WithTx(tx *sql.Tx) port.ProductRepository {
	return &ProductPostgresRepository{db: tx}
}

// FindByID busca un producto por su ID
func (r *ProductPostgresRepository) FindByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `
		SELECT id_producto, descripcion, categoria, precio_unitario, cantidad_disponible
		FROM productos
		WHERE id_producto = $1
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Producto", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error finding product: %w", err)
	}

	return product, nil
}

// FindAll retorna todos los productos del catálogo
func (r *ProductPostgresRepository) FindAll(ctx context.Context) ([]*entity.Product, error) {
	query := `
		SELECT id_producto, descripcion, categoria, precio_unitario, cantidad_disponible
		FROM productos
		ORDER BY id_producto
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Save inserta o actualiza un producto (upsert por id_producto)
func (r *ProductPostgresRepository) Save(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO productos (id_producto, descripcion, categoria, precio_unitario, cantidad_disponible)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id_producto) DO UPDATE SET
			descripcion = EXCLUDED.descripcion,
			categoria = EXCLUDED.categoria,
			precio_unitario = EXCLUDED.precio_unitario,
			cantidad_disponible = EXCLUDED.cantidad_disponible
	`

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Description,
		product.Category,
		priceParam(product.UnitPrice),
		product.AvailableQuantity,
	)
	if err != nil {
		return fmt.Errorf("error saving product: %w", err)
	}

	return nil
}

// Delete elimina un producto por su ID
func (r *ProductPostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM productos WHERE id_producto = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting product: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperror.NewNotFound("Producto", id)
	}

	return nil
}

// DecrementIfSufficient descuenta stock en una sola operación atómica.
// El WHERE cantidad_disponible >= $2 re-verifica suficiencia al momento de
// escribir; el row lock del UPDATE serializa débitos concurrentes por producto.
func (r *ProductPostgresRepository) DecrementIfSufficient(ctx context.Context, id, qty int) (*entity.Product, error) {
	query := `
		UPDATE productos
		SET cantidad_disponible = cantidad_disponible - $2
		WHERE id_producto = $1 AND cantidad_disponible >= $2
		RETURNING id_producto, descripcion, categoria, precio_unitario, cantidad_disponible
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, qty))
	if err == sql.ErrNoRows {
		// Cero filas: el producto no existe o no alcanza el stock.
		// Releer para armar el error con disponible/solicitado.
		current, findErr := r.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, &apperror.InsufficientStockError{
			Product:   current.Description,
			Available: current.AvailableQuantity,
			Requested: qty,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error decrementing stock: %w", err)
	}

	return product, nil
}

// IncrementQuantity aumenta el stock de un producto
func (r *ProductPostgresRepository) IncrementQuantity(ctx context.Context, id, qty int) (*entity.Product, error) {
	query := `
		UPDATE productos
		SET cantidad_disponible = cantidad_disponible + $2
		WHERE id_producto = $1
		RETURNING id_producto, descripcion, categoria, precio_unitario, cantidad_disponible
	`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id, qty))
	if err == sql.ErrNoRows {
		return nil, apperror.NewNotFound("Producto", id)
	}
	if err != nil {
		return nil, fmt.Errorf("error incrementing stock: %w", err)
	}

	return product, nil
}

// rowScanner cubre *sql.Row y *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	product := &entity.Product{}
	var price decimal.NullDecimal

	err := row.Scan(
		&product.ID,
		&product.Description,
		&product.Category,
		&price,
		&product.AvailableQuantity,
	)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		product.UnitPrice = &price.Decimal
	}

	return product, nil
}

func priceParam(price *decimal.Decimal) interface{} {
	if price == nil {
		return nil
	}
	return *price
}
