package entity

import "errors"

// Errores de dominio de devoluciones
var (
	ErrReasonRequired      = errors.New("el motivo de la devolución es obligatorio")
	ErrInvalidRefundAmount = errors.New("el monto de la devolución debe ser mayor a cero")
)
