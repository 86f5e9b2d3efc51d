package controller

import (
	"log"
	"net/http"
	"strconv"

	"ventas/src/catalog/application/request"
	"ventas/src/catalog/application/usecase"
	"ventas/src/shared/domain/apperror"

	"github.com/gin-gonic/gin"
)

// ProductController maneja las peticiones HTTP para productos
type ProductController struct {
	productUC     *usecase.ProductUseCase
	adjustStockUC *usecase.AdjustStockUseCase
}

// NewProductController crea una nueva instancia del controlador
func NewProductController(
	productUC *usecase.ProductUseCase,
	adjustStockUC *usecase.AdjustStockUseCase,
) *ProductController {
	return &ProductController{
		productUC:     productUC,
		adjustStockUC: adjustStockUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *ProductController) RegisterRoutes(router *gin.RouterGroup) {
	productos := router.Group("/productos")
	{
		productos.GET("", c.ListProducts)
		productos.GET("/:product_id", c.GetProduct)
		productos.POST("", c.SaveProduct)
		productos.PUT("", c.SaveProduct)
		productos.DELETE("/:product_id", c.DeleteProduct)
		productos.POST("/:product_id/stock", c.AdjustStock)
	}

	log.Println("Rutas Productos disponibles:")
	log.Println("  GET    /api/v1/productos")
	log.Println("  GET    /api/v1/productos/:product_id")
	log.Println("  POST   /api/v1/productos")
	log.Println("  PUT    /api/v1/productos")
	log.Println("  DELETE /api/v1/productos/:product_id")
	log.Println("  POST   /api/v1/productos/:product_id/stock")
}

// ListProducts lista todos los productos del catálogo
func (c *ProductController) ListProducts(ctx *gin.Context) {
	products, err := c.productUC.List(ctx.Request.Context())
	if err != nil {
		log.Printf("Error listing products: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":       products,
		"total_count": len(products),
	})
}

// GetProduct obtiene un producto por ID
func (c *ProductController) GetProduct(ctx *gin.Context) {
	productID, ok := parseProductID(ctx)
	if !ok {
		return
	}

	product, err := c.productUC.Get(ctx.Request.Context(), productID)
	if err != nil {
		log.Printf("Error getting product: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// SaveProduct crea o actualiza un producto
func (c *ProductController) SaveProduct(ctx *gin.Context) {
	var req request.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	product, err := c.productUC.Save(ctx.Request.Context(), &req)
	if err != nil {
		log.Printf("Error saving product: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// DeleteProduct elimina un producto por ID
func (c *ProductController) DeleteProduct(ctx *gin.Context) {
	productID, ok := parseProductID(ctx)
	if !ok {
		return
	}

	if err := c.productUC.Delete(ctx.Request.Context(), productID); err != nil {
		log.Printf("Error deleting product: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"deleted": productID})
}

// AdjustStock aplica un ajuste manual de inventario (reabastecimiento o merma)
func (c *ProductController) AdjustStock(ctx *gin.Context) {
	productID, ok := parseProductID(ctx)
	if !ok {
		return
	}

	var req request.StockAdjustmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := c.adjustStockUC.Execute(ctx.Request.Context(), productID, req.Delta); err != nil {
		log.Printf("Error adjusting stock: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"product_id": productID, "delta": req.Delta})
}

func parseProductID(ctx *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(ctx.Param("product_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id format"})
		return 0, false
	}
	return productID, true
}

func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperror.HTTPStatus(err), gin.H{
		"error": apperror.ClientMessage(err),
	})
}
