package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"ventas/src/catalog/domain/entity"
	"ventas/src/inventory/domain/port"
)

const (
	// MinimumStockDefault umbral de stock mínimo recomendado
	MinimumStockDefault = 10
	// CriticalStock umbral bajo el cual se dispara la alerta de stock bajo
	CriticalStock = 5
	// DefaultObserverTimeout tiempo máximo por invocación a un observador.
	// Un observador lento o colgado no debe bloquear la venta.
	DefaultObserverTimeout = 2 * time.Second
)

// NotificationService es el bus de notificaciones de inventario.
// Mantiene un registro ordenado de observadores distintos y les despacha
// eventos de cambio de stock con aislamiento por observador: un observador
// que falla (error o panic) se loguea y no interrumpe el resto.
type NotificationService struct {
	mu        sync.RWMutex
	observers []port.InventoryObserver
	timeout   time.Duration
}

// NewNotificationService crea el bus y registra los observadores iniciales
func NewNotificationService(observers ...port.InventoryObserver) *NotificationService {
	s := &NotificationService{timeout: DefaultObserverTimeout}
	for _, obs := range observers {
		s.RegisterObserver(obs)
	}
	log.Printf("NotificationService inicializado con %d observadores", len(s.observers))
	return s
}

// SetObserverTimeout ajusta el tiempo máximo por invocación a un observador
func (s *NotificationService) SetObserverTimeout(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = timeout
}

// RegisterObserver agrega un observador. Idempotente por identidad:
// registrar dos veces el mismo observador no duplica notificaciones.
func (s *NotificationService) RegisterObserver(observer port.InventoryObserver) {
	if observer == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.observers {
		if existing == observer {
			return
		}
	}
	s.observers = append(s.observers, observer)
	log.Printf("Observador agregado: %s", observer.Name())
}

// RemoveObserver quita un observador del registro
func (s *NotificationService) RemoveObserver(observer port.InventoryObserver) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.observers {
		if existing == observer {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			log.Printf("Observador eliminado: %s", observer.Name())
			return
		}
	}
}

// RegisteredObservers retorna los nombres de los observadores registrados
func (s *NotificationService) RegisteredObservers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.observers))
	for _, obs := range s.observers {
		names = append(names, obs.Name())
	}
	return names
}

// NotifyStockChange notifica un cambio de stock a todos los observadores y
// deriva el evento secundario que corresponda según los umbrales.
// Exactamente uno de agotado/stock bajo/restockado se dispara por llamada
// (mutuamente excluyentes por construcción).
func (s *NotificationService) NotifyStockChange(product *entity.Product, previousQty, newQty int) {
	log.Printf("=== NOTIFICANDO CAMBIO DE STOCK ===")
	log.Printf("Producto: %s | Stock anterior: %d -> Nuevo stock: %d", product.Description, previousQty, newQty)

	s.broadcast("OnStockChange", func(obs port.InventoryObserver) error {
		return obs.OnStockChange(product, previousQty, newQty)
	})

	// Eventos secundarios por umbral
	switch {
	case newQty == 0:
		s.notifyOutOfStock(product)
	case newQty <= CriticalStock:
		s.notifyLowStock(product, newQty)
	case previousQty <= CriticalStock && newQty > CriticalStock:
		s.notifyRestocked(product, newQty)
	}
}

func (s *NotificationService) notifyLowStock(product *entity.Product, currentQty int) {
	log.Printf("⚠️  ALERTA: STOCK BAJO - %s (Stock: %d)", product.Description, currentQty)
	s.broadcast("OnLowStock", func(obs port.InventoryObserver) error {
		return obs.OnLowStock(product, currentQty)
	})
}

func (s *NotificationService) notifyOutOfStock(product *entity.Product) {
	log.Printf("🚨 CRÍTICO: PRODUCTO AGOTADO - %s", product.Description)
	s.broadcast("OnOutOfStock", func(obs port.InventoryObserver) error {
		return obs.OnOutOfStock(product)
	})
}

func (s *NotificationService) notifyRestocked(product *entity.Product, newQty int) {
	log.Printf("✅ RESTOCKADO: %s (Nuevo stock: %d)", product.Description, newQty)
	s.broadcast("OnRestocked", func(obs port.InventoryObserver) error {
		return obs.OnRestocked(product, newQty)
	})
}

// broadcast invoca a cada observador con aislamiento de errores/panics y
// timeout acotado por invocación
func (s *NotificationService) broadcast(event string, invoke func(port.InventoryObserver) error) {
	s.mu.RLock()
	observers := make([]port.InventoryObserver, len(s.observers))
	copy(observers, s.observers)
	timeout := s.timeout
	s.mu.RUnlock()

	for _, obs := range observers {
		s.invokeWithTimeout(obs, event, timeout, invoke)
	}
}

func (s *NotificationService) invokeWithTimeout(
	obs port.InventoryObserver,
	event string,
	timeout time.Duration,
	invoke func(port.InventoryObserver) error,
) {
	done := make(chan error, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- invoke(obs)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("Error en observador %s (%s): %v", obs.Name(), event, err)
		}
	case <-time.After(timeout):
		// El observador sigue corriendo en su goroutine; no se espera más
		log.Printf("Timeout en observador %s (%s) después de %s", obs.Name(), event, timeout)
	}
}
