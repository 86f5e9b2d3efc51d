package entity

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

// categoryRule define las reglas de validación por categoría.
// Tabla plana de reglas en lugar de jerarquías por categoría: agregar una
// categoría nueva es agregar una fila.
type categoryRule struct {
	RequiresPrice bool
	MaxUnitPrice  decimal.Decimal // cero = sin tope
	LogTag        string
}

var categoryRules = map[string]categoryRule{
	"Alimentos":   {RequiresPrice: true, MaxUnitPrice: decimal.NewFromInt(500000), LogTag: "🍚"},
	"Bebidas":     {RequiresPrice: true, MaxUnitPrice: decimal.NewFromInt(300000), LogTag: "🥤"},
	"Aseo":        {RequiresPrice: true, MaxUnitPrice: decimal.NewFromInt(200000), LogTag: "🧼"},
	"Electronica": {RequiresPrice: true, MaxUnitPrice: decimal.Zero, LogTag: "🔌"},
	"General":     {RequiresPrice: false, MaxUnitPrice: decimal.Zero, LogTag: "📦"},
}

// KnownCategories retorna las categorías registradas en la tabla de reglas
func KnownCategories() []string {
	categories := make([]string, 0, len(categoryRules))
	for cat := range categoryRules {
		categories = append(categories, cat)
	}
	return categories
}

// ValidateForCategory aplica las reglas de la categoría del producto
func ValidateForCategory(p *Product) error {
	rule, ok := categoryRules[p.Category]
	if !ok {
		return ErrUnknownCategory
	}

	if rule.RequiresPrice && !p.HasValidPrice() {
		return fmt.Errorf("producto de categoria %s requiere precio configurado: %w", p.Category, ErrInvalidPrice)
	}

	if !rule.MaxUnitPrice.IsZero() && p.UnitPrice != nil && p.UnitPrice.GreaterThan(rule.MaxUnitPrice) {
		return fmt.Errorf("precio %s excede el tope de la categoria %s (%s)",
			p.UnitPrice, p.Category, rule.MaxUnitPrice)
	}

	log.Printf("%s Producto validado para categoria %s: %s", rule.LogTag, p.Category, p.Description)
	return nil
}
