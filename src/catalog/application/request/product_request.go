package request

import "github.com/shopspring/decimal"

// ProductRequest request para crear o actualizar un producto
type ProductRequest struct {
	ID          int              `json:"id_producto" binding:"required"`
	Description string           `json:"descripcion" binding:"required"`
	Category    string           `json:"categoria" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"precio_unitario"`
	Quantity    int              `json:"cantidad_disponible" binding:"gte=0"`
}

// StockAdjustmentRequest request para ajustar stock de un producto.
// Delta positivo reabastece, negativo descuenta.
type StockAdjustmentRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"motivo,omitempty"`
}
