package entity

import "errors"

var (
	ErrInvalidQuantity       = errors.New("cantidad must be greater than 0")
	ErrInvalidUnitPrice      = errors.New("precio_unitario must be greater than 0")
	ErrInvoiceMustHaveLines  = errors.New("factura must have at least one line")
	ErrInvalidAmount         = errors.New("monto must be greater than 0")
	ErrPaymentMethodRequired = errors.New("metodo_pago is required")
)
