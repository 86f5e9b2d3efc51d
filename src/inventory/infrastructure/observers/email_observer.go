package observers

import (
	"log"
	"time"

	"ventas/src/catalog/domain/entity"
)

// EmailNotificationObserver envía alertas de inventario por email.
// La salida real está simulada; en producción delegaría a un servicio de correo.
type EmailNotificationObserver struct {
	AdminAddress string
}

// NewEmailNotificationObserver crea el observador de emails
func NewEmailNotificationObserver(adminAddress string) *EmailNotificationObserver {
	if adminAddress == "" {
		adminAddress = "admin@sistemaventas.com"
	}
	return &EmailNotificationObserver{AdminAddress: adminAddress}
}

// Name identifica al observador
func (o *EmailNotificationObserver) Name() string {
	return "EmailNotificationObserver"
}

// OnStockChange registra el cambio de stock
func (o *EmailNotificationObserver) OnStockChange(product *entity.Product, previousQty, newQty int) error {
	log.Printf("📧 [EMAIL] %s - Cambio de stock en %s (%d → %d)",
		timestamp(), product.Description, previousQty, newQty)
	return nil
}

// OnLowStock envía alerta de stock bajo a administradores
func (o *EmailNotificationObserver) OnLowStock(product *entity.Product, currentQty int) error {
	log.Printf("📧 [EMAIL ALERTA] %s - STOCK BAJO: %s (Quedan solo %d unidades)",
		timestamp(), product.Description, currentQty)
	log.Printf("   📤 Enviando email a: %s", o.AdminAddress)
	log.Printf("   📝 Asunto: [ALERTA] Stock bajo - %s", product.Description)
	return nil
}

// OnOutOfStock envía email urgente de producto agotado
func (o *EmailNotificationObserver) OnOutOfStock(product *entity.Product) error {
	log.Printf("📧 [EMAIL CRÍTICO] %s - PRODUCTO AGOTADO: %s", timestamp(), product.Description)
	log.Printf("   🚨 Enviando email URGENTE a: %s, compras@sistemaventas.com", o.AdminAddress)
	log.Printf("   📝 Asunto: [URGENTE] Producto agotado - %s", product.Description)
	return nil
}

// OnRestocked informa la reposición del producto
func (o *EmailNotificationObserver) OnRestocked(product *entity.Product, newQty int) error {
	log.Printf("📧 [EMAIL INFO] %s - Producto restockado: %s (Nuevo stock: %d)",
		timestamp(), product.Description, newQty)
	return nil
}

func timestamp() string {
	return time.Now().Format("02/01/2006 15:04:05")
}
