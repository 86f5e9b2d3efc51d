package controller

import (
	"log"
	"net/http"

	"ventas/src/sales/application/request"
	"ventas/src/sales/application/usecase"
	"ventas/src/shared/domain/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SaleController maneja las peticiones HTTP para ventas
type SaleController struct {
	processSaleUC *usecase.ProcessSaleUseCase
	getInvoiceUC  *usecase.GetInvoiceUseCase
}

// NewSaleController crea una nueva instancia del controlador
func NewSaleController(
	processSaleUC *usecase.ProcessSaleUseCase,
	getInvoiceUC *usecase.GetInvoiceUseCase,
) *SaleController {
	return &SaleController{
		processSaleUC: processSaleUC,
		getInvoiceUC:  getInvoiceUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *SaleController) RegisterRoutes(router *gin.RouterGroup) {
	ventas := router.Group("/ventas")
	{
		ventas.POST("", c.ProcessSale)
	}

	facturas := router.Group("/facturas")
	{
		facturas.GET("/:invoice_id", c.GetInvoice)
	}

	log.Println("Rutas Ventas disponibles:")
	log.Println("  POST   /api/v1/ventas")
	log.Println("  GET    /api/v1/facturas/:invoice_id")
}

// ProcessSale procesa una venta completa: validación, factura, pago e inventario
func (c *SaleController) ProcessSale(ctx *gin.Context) {
	// 1. Validar body
	var req request.SaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	// 2. Ejecutar use case
	resp, err := c.processSaleUC.Execute(ctx.Request.Context(), &req)
	if err != nil {
		log.Printf("Error processing sale: %v", err)
		respondError(ctx, err)
		return
	}

	// 3. Responder exitosamente con 201 Created
	ctx.JSON(http.StatusCreated, resp)
}

// GetInvoice obtiene una factura por ID
func (c *SaleController) GetInvoice(ctx *gin.Context) {
	invoiceID, err := uuid.Parse(ctx.Param("invoice_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice_id format"})
		return
	}

	invoice, err := c.getInvoiceUC.Execute(ctx.Request.Context(), invoiceID)
	if err != nil {
		log.Printf("Error getting invoice: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, invoice)
}

// respondError traduce errores de negocio a códigos HTTP según su tipo.
// Los errores técnicos nunca exponen detalles internos al cliente.
func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperror.HTTPStatus(err), gin.H{
		"error": apperror.ClientMessage(err),
	})
}
