package controller

import (
	"log"
	"net/http"

	"ventas/src/refund/application/request"
	"ventas/src/refund/application/usecase"
	"ventas/src/shared/domain/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RefundController maneja las peticiones HTTP para devoluciones
type RefundController struct {
	processRefundUC *usecase.ProcessRefundUseCase
	listRefundsUC   *usecase.ListRefundsUseCase
	getRefundUC     *usecase.GetRefundUseCase
}

// NewRefundController crea una nueva instancia del controlador
func NewRefundController(
	processRefundUC *usecase.ProcessRefundUseCase,
	listRefundsUC *usecase.ListRefundsUseCase,
	getRefundUC *usecase.GetRefundUseCase,
) *RefundController {
	return &RefundController{
		processRefundUC: processRefundUC,
		listRefundsUC:   listRefundsUC,
		getRefundUC:     getRefundUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *RefundController) RegisterRoutes(router *gin.RouterGroup) {
	devoluciones := router.Group("/devoluciones")
	{
		devoluciones.POST("", c.ProcessRefund)
		devoluciones.GET("", c.ListRefunds)
		devoluciones.GET("/:refund_id", c.GetRefund)
	}

	router.GET("/facturas/:invoice_id/devolucion", c.GetRefundByInvoice)

	log.Println("Rutas Devoluciones disponibles:")
	log.Println("  POST   /api/v1/devoluciones")
	log.Println("  GET    /api/v1/devoluciones")
	log.Println("  GET    /api/v1/devoluciones/:refund_id")
	log.Println("  GET    /api/v1/facturas/:invoice_id/devolucion")
}

// ProcessRefund procesa la devolución completa de una factura
func (c *RefundController) ProcessRefund(ctx *gin.Context) {
	var req request.RefundRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	resp, err := c.processRefundUC.Execute(ctx.Request.Context(), &req)
	if err != nil {
		log.Printf("Error processing refund: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, resp)
}

// ListRefunds lista todas las devoluciones registradas
func (c *RefundController) ListRefunds(ctx *gin.Context) {
	refunds, err := c.listRefundsUC.Execute(ctx.Request.Context())
	if err != nil {
		log.Printf("Error listing refunds: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":       refunds,
		"total_count": len(refunds),
	})
}

// GetRefund obtiene una devolución por ID
func (c *RefundController) GetRefund(ctx *gin.Context) {
	refundID, err := uuid.Parse(ctx.Param("refund_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refund_id format"})
		return
	}

	refund, err := c.getRefundUC.Execute(ctx.Request.Context(), refundID)
	if err != nil {
		log.Printf("Error getting refund: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, refund)
}

// GetRefundByInvoice obtiene la devolución asociada a una factura
func (c *RefundController) GetRefundByInvoice(ctx *gin.Context) {
	invoiceID, err := uuid.Parse(ctx.Param("invoice_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice_id format"})
		return
	}

	refund, err := c.getRefundUC.ExecuteByInvoice(ctx.Request.Context(), invoiceID)
	if err != nil {
		log.Printf("Error getting refund by invoice: %v", err)
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, refund)
}

func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperror.HTTPStatus(err), gin.H{
		"error": apperror.ClientMessage(err),
	})
}
