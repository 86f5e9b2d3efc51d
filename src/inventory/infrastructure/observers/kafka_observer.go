package observers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ventas/src/catalog/domain/entity"

	"github.com/segmentio/kafka-go"
)

// StockEventMessage evento de inventario publicado en Kafka
type StockEventMessage struct {
	EventType   string    `json:"event_type"`
	ProductID   int       `json:"id_producto"`
	Description string    `json:"descripcion"`
	PreviousQty int       `json:"stock_anterior,omitempty"`
	NewQty      int       `json:"nuevo_stock"`
	Timestamp   time.Time `json:"timestamp"`
}

// KafkaEventsObserver publica eventos de inventario en un tópico Kafka para
// consumidores externos (reportes, reposición automática). Best-effort: los
// errores de publicación se loguean en el bus, nunca frenan la venta.
type KafkaEventsObserver struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewKafkaEventsObserver crea el observador con un writer hacia el broker dado
func NewKafkaEventsObserver(brokerAddress, topic string) *KafkaEventsObserver {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddress),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaEventsObserver{
		writer:  writer,
		timeout: 1500 * time.Millisecond,
	}
}

// Name identifica al observador
func (o *KafkaEventsObserver) Name() string {
	return "KafkaEventsObserver"
}

// OnStockChange publica el evento inventory.stock_changed
func (o *KafkaEventsObserver) OnStockChange(product *entity.Product, previousQty, newQty int) error {
	return o.publish(StockEventMessage{
		EventType:   "inventory.stock_changed",
		ProductID:   product.ID,
		Description: product.Description,
		PreviousQty: previousQty,
		NewQty:      newQty,
		Timestamp:   time.Now(),
	})
}

// OnLowStock publica el evento inventory.low_stock
func (o *KafkaEventsObserver) OnLowStock(product *entity.Product, currentQty int) error {
	return o.publish(StockEventMessage{
		EventType:   "inventory.low_stock",
		ProductID:   product.ID,
		Description: product.Description,
		NewQty:      currentQty,
		Timestamp:   time.Now(),
	})
}

// OnOutOfStock publica el evento inventory.out_of_stock
func (o *KafkaEventsObserver) OnOutOfStock(product *entity.Product) error {
	return o.publish(StockEventMessage{
		EventType:   "inventory.out_of_stock",
		ProductID:   product.ID,
		Description: product.Description,
		NewQty:      0,
		Timestamp:   time.Now(),
	})
}

// OnRestocked publica el evento inventory.restocked
func (o *KafkaEventsObserver) OnRestocked(product *entity.Product, newQty int) error {
	return o.publish(StockEventMessage{
		EventType:   "inventory.restocked",
		ProductID:   product.ID,
		Description: product.Description,
		NewQty:      newQty,
		Timestamp:   time.Now(),
	})
}

// Close cierra el writer subyacente
func (o *KafkaEventsObserver) Close() error {
	return o.writer.Close()
}

func (o *KafkaEventsObserver) publish(event StockEventMessage) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshalling stock event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	err = o.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("%d", event.ProductID)),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("error publishing %s to kafka: %w", event.EventType, err)
	}

	log.Printf("📨 [KAFKA] Evento publicado: %s (producto %d)", event.EventType, event.ProductID)
	return nil
}
