package entity

import "errors"

var (
	ErrDescriptionRequired = errors.New("descripcion is required")
	ErrCategoryRequired    = errors.New("categoria is required")
	ErrNegativeQuantity    = errors.New("cantidad_disponible must be greater than or equal to 0")
	ErrInvalidPrice        = errors.New("precio_unitario must be greater than or equal to 0")
	ErrUnknownCategory     = errors.New("categoria is not a known category")
)
