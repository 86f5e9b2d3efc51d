package request

import "ventas/src/sales/domain/entity"

// SaleItemRequest un item (producto + cantidad) dentro de la venta
type SaleItemRequest struct {
	ProductID int `json:"id_producto" binding:"required"`
	Quantity  int `json:"cantidad" binding:"required,gt=0"`
}

// SaleRequest solicitud de venta completa.
// La capa HTTP garantiza usuario presente, al menos un item y datos de pago.
type SaleRequest struct {
	UserID  int                `json:"id_usuario" binding:"required"`
	Items   []SaleItemRequest  `json:"items" binding:"required,min=1,dive"`
	Payment entity.PaymentData `json:"datos_pago" binding:"required"`
}
