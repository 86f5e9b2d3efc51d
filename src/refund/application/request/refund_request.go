package request

// RefundRequest request para procesar la devolución de una factura
type RefundRequest struct {
	InvoiceID string `json:"id_factura" binding:"required,uuid"`
	Reason    string `json:"motivo" binding:"required"`
	Operator  string `json:"operador,omitempty"`
}
