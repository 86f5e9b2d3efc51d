package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLineResponse un renglón de la factura en la respuesta de venta
type SaleLineResponse struct {
	ProductID   int             `json:"id_producto"`
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse respuesta de una venta procesada: factura persistida + pago
type SaleResponse struct {
	InvoiceID     uuid.UUID          `json:"id_factura"`
	InvoiceNumber string             `json:"numero_factura"`
	UserID        int                `json:"id_usuario"`
	Date          time.Time          `json:"fecha"`
	Lines         []SaleLineResponse `json:"detalles"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"iva"`
	Total         decimal.Decimal    `json:"total"`
	PaymentID     uuid.UUID          `json:"id_pago"`
	PaymentMethod string             `json:"metodo_pago"`
}
