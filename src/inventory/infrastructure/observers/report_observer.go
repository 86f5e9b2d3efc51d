package observers

import (
	"log"
	"sync"
	"time"

	"ventas/src/catalog/domain/entity"
)

// StockAuditEntry una entrada del registro de auditoría de inventario
type StockAuditEntry struct {
	ProductID   int       `json:"id_producto"`
	Description string    `json:"descripcion"`
	PreviousQty int       `json:"stock_anterior"`
	NewQty      int       `json:"nuevo_stock"`
	Timestamp   time.Time `json:"fecha"`
}

// ReportInventoryObserver registra movimientos de inventario para auditoría
// y reportes. Mantiene el historial en memoria.
type ReportInventoryObserver struct {
	mu      sync.Mutex
	history []StockAuditEntry
}

// NewReportInventoryObserver crea el observador de reportes
func NewReportInventoryObserver() *ReportInventoryObserver {
	return &ReportInventoryObserver{}
}

// Name identifica al observador
func (o *ReportInventoryObserver) Name() string {
	return "ReportInventoryObserver"
}

// OnStockChange registra el movimiento en el historial de auditoría
func (o *ReportInventoryObserver) OnStockChange(product *entity.Product, previousQty, newQty int) error {
	log.Printf("📊 [REPORTE] Registrando cambio de inventario: %s (ID: %d) %d → %d (Δ: %+d)",
		product.Description, product.ID, previousQty, newQty, newQty-previousQty)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, StockAuditEntry{
		ProductID:   product.ID,
		Description: product.Description,
		PreviousQty: previousQty,
		NewQty:      newQty,
		Timestamp:   time.Now(),
	})
	return nil
}

// OnLowStock agrega el producto al reporte de stock bajo
func (o *ReportInventoryObserver) OnLowStock(product *entity.Product, currentQty int) error {
	log.Printf("📊 [REPORTE ALERTA] %s (Stock actual: %d) - Estado: REQUIERE RESTOCK",
		product.Description, currentQty)
	return nil
}

// OnOutOfStock agrega el producto al reporte de agotados
func (o *ReportInventoryObserver) OnOutOfStock(product *entity.Product) error {
	log.Printf("📊 [REPORTE CRÍTICO] %s - Estado: AGOTADO", product.Description)
	return nil
}

// OnRestocked registra la reposición
func (o *ReportInventoryObserver) OnRestocked(product *entity.Product, newQty int) error {
	log.Printf("📊 [REPORTE INFO] %s restockado (Nuevo stock: %d) - Estado: DISPONIBLE",
		product.Description, newQty)
	return nil
}

// History retorna una copia del historial de auditoría registrado
func (o *ReportInventoryObserver) History() []StockAuditEntry {
	o.mu.Lock()
	defer o.mu.Unlock()
	entries := make([]StockAuditEntry, len(o.history))
	copy(entries, o.history)
	return entries
}
