package response

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundResponse respuesta al procesar una devolución
type RefundResponse struct {
	RefundID     string          `json:"id_devolucion"`
	InvoiceID    string          `json:"id_factura"`
	Amount       decimal.Decimal `json:"monto"`
	Status       string          `json:"estado"`
	Date         time.Time       `json:"fecha"`
	RefundRef    string          `json:"referencia_reembolso,omitempty"`
	ItemsRestock int             `json:"unidades_restauradas"`
}
