package observers

import (
	"log"

	"ventas/src/catalog/domain/entity"
)

// significantStockDelta cambio mínimo de unidades para notificar por push
const significantStockDelta = 10

// PushNotificationObserver envía notificaciones push y SMS.
// La integración real (Firebase/Twilio) está simulada.
type PushNotificationObserver struct {
	SMSRecipient string
}

// NewPushNotificationObserver crea el observador de push/SMS
func NewPushNotificationObserver(smsRecipient string) *PushNotificationObserver {
	if smsRecipient == "" {
		smsRecipient = "+573187425471"
	}
	return &PushNotificationObserver{SMSRecipient: smsRecipient}
}

// Name identifica al observador
func (o *PushNotificationObserver) Name() string {
	return "PushNotificationObserver"
}

// OnStockChange solo notifica cambios significativos
func (o *PushNotificationObserver) OnStockChange(product *entity.Product, previousQty, newQty int) error {
	delta := newQty - previousQty
	if delta < 0 {
		delta = -delta
	}
	if delta >= significantStockDelta {
		log.Printf("📱 [PUSH] Cambio significativo de stock: %s (Δ: %+d)",
			product.Description, newQty-previousQty)
	}
	return nil
}

// OnLowStock envía push de alerta
func (o *PushNotificationObserver) OnLowStock(product *entity.Product, currentQty int) error {
	log.Printf("📱 [PUSH ALERTA] Stock bajo en %s (%d unidades)", product.Description, currentQty)
	o.sendPush("Stock Bajo", "⚠️ "+product.Description+" tiene stock bajo")
	return nil
}

// OnOutOfStock envía push crítico y SMS
func (o *PushNotificationObserver) OnOutOfStock(product *entity.Product) error {
	log.Printf("📱 [PUSH CRÍTICO] Producto agotado: %s", product.Description)
	o.sendPush("Producto Agotado", "🚨 "+product.Description+" está agotado")
	o.sendSMS("Producto agotado: " + product.Description)
	return nil
}

// OnRestocked informa disponibilidad
func (o *PushNotificationObserver) OnRestocked(product *entity.Product, newQty int) error {
	log.Printf("📱 [PUSH INFO] ✅ %s restockado (%d unidades)", product.Description, newQty)
	o.sendPush("Restock Exitoso", "✅ "+product.Description+" disponible nuevamente")
	return nil
}

func (o *PushNotificationObserver) sendPush(title, message string) {
	log.Printf("   📱 Push → %s: %s", title, message)
}

func (o *PushNotificationObserver) sendSMS(message string) {
	log.Printf("   📲 SMS → %s: %s", o.SMSRecipient, message)
}
