package usecase

import (
	"context"
	"log"

	"ventas/src/catalog/application/request"
	"ventas/src/catalog/domain/entity"
	"ventas/src/catalog/domain/port"
	"ventas/src/shared/domain/apperror"
)

// ProductUseCase operaciones CRUD sobre el catálogo de productos.
// Capa delgada: validación por categoría + delegación al repositorio.
type ProductUseCase struct {
	productRepo port.ProductRepository
}

// NewProductUseCase crea una nueva instancia del caso de uso
func NewProductUseCase(productRepo port.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// List retorna todos los productos
func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	products, err := uc.productRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.WrapTechnical(err)
	}
	return products, nil
}

// Get busca un producto por ID
func (uc *ProductUseCase) Get(ctx context.Context, id int) (*entity.Product, error) {
	return uc.productRepo.FindByID(ctx, id)
}

// Save crea o actualiza un producto aplicando las reglas de su categoría
func (uc *ProductUseCase) Save(ctx context.Context, req *request.ProductRequest) (*entity.Product, error) {
	product, err := entity.NewProduct(req.ID, req.Description, req.Category, req.UnitPrice, req.Quantity)
	if err != nil {
		return nil, apperror.NewValidation("%v", err)
	}

	if err := entity.ValidateForCategory(product); err != nil {
		return nil, apperror.NewValidation("%v", err)
	}

	if err := uc.productRepo.Save(ctx, product); err != nil {
		return nil, apperror.WrapTechnical(err)
	}

	log.Printf("📦 Producto guardado: ID=%d, %s (%s)", product.ID, product.Description, product.Category)
	return product, nil
}

// Delete elimina un producto por ID
func (uc *ProductUseCase) Delete(ctx context.Context, id int) error {
	return uc.productRepo.Delete(ctx, id)
}
