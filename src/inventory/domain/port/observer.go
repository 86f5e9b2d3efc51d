package port

import "ventas/src/catalog/domain/entity"

// InventoryObserver es la interfaz que implementan los observadores de
// inventario. Nuevos observadores se registran en el bus sin modificarlo.
type InventoryObserver interface {
	// Name identifica al observador en logs y en el registro (idempotencia)
	Name() string

	OnStockChange(product *entity.Product, previousQty, newQty int) error
	OnLowStock(product *entity.Product, currentQty int) error
	OnOutOfStock(product *entity.Product) error
	OnRestocked(product *entity.Product, newQty int) error
}
