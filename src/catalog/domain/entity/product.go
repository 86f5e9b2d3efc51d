package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Invariante: la cantidad disponible nunca es negativa; solo se muta a través
// de las operaciones de débito/crédito del repositorio, que verifican
// suficiencia en el momento de la escritura.
type Product struct {
	ID                int              `json:"id_producto"`
	Description       string           `json:"descripcion"`
	Category          string           `json:"categoria"`
	UnitPrice         *decimal.Decimal `json:"precio_unitario"` // NULL = precio no configurado
	AvailableQuantity int              `json:"cantidad_disponible"`
}

// NewProduct crea un producto validando sus invariantes básicos
func NewProduct(id int, description, category string, unitPrice *decimal.Decimal, quantity int) (*Product, error) {
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if category == "" {
		return nil, ErrCategoryRequired
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if unitPrice != nil && unitPrice.LessThan(decimal.Zero) {
		return nil, ErrInvalidPrice
	}

	return &Product{
		ID:                id,
		Description:       description,
		Category:          category,
		UnitPrice:         unitPrice,
		AvailableQuantity: quantity,
	}, nil
}

// HasSufficientStock reporta si hay stock disponible para la cantidad pedida
func (p *Product) HasSufficientStock(quantity int) bool {
	return p.AvailableQuantity >= quantity
}

// HasValidPrice reporta si el producto tiene un precio configurado y positivo
func (p *Product) HasValidPrice() bool {
	return p.UnitPrice != nil && p.UnitPrice.GreaterThan(decimal.Zero)
}
