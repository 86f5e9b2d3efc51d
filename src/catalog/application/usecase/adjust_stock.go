package usecase

import (
	"context"
	"log"

	"ventas/src/catalog/domain/entity"
	"ventas/src/catalog/domain/port"
	"ventas/src/inventory/application/service"
	"ventas/src/shared/domain/apperror"
)

// AdjustStockUseCase modifica el inventario de un producto fuera del flujo
// de ventas (reabastecimientos, ajustes manuales) y notifica a los observadores.
type AdjustStockUseCase struct {
	productRepo   port.ProductRepository
	notifications *service.NotificationService
}

func NewAdjustStockUseCase(
	productRepo port.ProductRepository,
	notifications *service.NotificationService,
) *AdjustStockUseCase {
	return &AdjustStockUseCase{
		productRepo:   productRepo,
		notifications: notifications,
	}
}

// Execute aplica un delta de stock (positivo o negativo) al producto indicado.
func (uc *AdjustStockUseCase) Execute(ctx context.Context, productID int, delta int) error {
	if delta == 0 {
		return apperror.NewValidation("La cantidad de ajuste no puede ser cero")
	}

	var updated *entity.Product
	var err error
	if delta > 0 {
		updated, err = uc.productRepo.IncrementQuantity(ctx, productID, delta)
	} else {
		updated, err = uc.productRepo.DecrementIfSufficient(ctx, productID, -delta)
	}
	if err != nil {
		return apperror.WrapTechnical(err)
	}

	log.Printf("📦 Ajuste de inventario: producto '%s' (ID: %d) ahora con %d unidades",
		updated.Description, updated.ID, updated.AvailableQuantity)

	uc.notifications.NotifyStockChange(updated, updated.AvailableQuantity-delta, updated.AvailableQuantity)
	return nil
}
