// Package kafka publica alertas de stock para consumidores externos (notificaciones, panel).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const eventTypeStockAlert = "inventory.stock_alert"

// alertEvent es el cuerpo publicado por cada alerta.
type alertEvent struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	Level       string    `json:"level"`
	ProductID   string    `json:"product_id"`
	VariantID   string    `json:"variant_id,omitempty"`
	Size        string    `json:"size,omitempty"`
	Color       string    `json:"color,omitempty"`
	WarehouseID string    `json:"warehouse_id"`
	Quantity    int       `json:"quantity"`
	Threshold   int       `json:"threshold"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageWriter subconjunto de *kafka.Writer usado por el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AlertPublisher sink de alertas que escribe un mensaje por alerta, con clave por producto.
type AlertPublisher struct {
	writer MessageWriter
}

// NewAlertPublisher crea el writer síncrono sobre los brokers y tópico indicados.
func NewAlertPublisher(brokers []string, topic string) *AlertPublisher {
	return NewAlertPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	})
}

// NewAlertPublisherWithWriter permite inyectar el writer (tests).
func NewAlertPublisherWithWriter(w MessageWriter) *AlertPublisher {
	return &AlertPublisher{writer: w}
}

// Emit publica el lote de alertas.
func (p *AlertPublisher) Emit(ctx context.Context, alerts []entity.StockAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(alerts))
	for _, a := range alerts {
		data, err := json.Marshal(alertEvent{
			Type:        eventTypeStockAlert,
			ID:          a.ID,
			Level:       a.Level,
			ProductID:   a.ProductID,
			VariantID:   a.VariantID,
			Size:        a.Size,
			Color:       a.Color,
			WarehouseID: a.WarehouseID,
			Quantity:    a.Quantity,
			Threshold:   a.Threshold,
			Message:     a.Message,
			CreatedAt:   a.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("serializar alerta %s: %w", a.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.ProductID),
			Value: data,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(eventTypeStockAlert)},
				{Key: "alert-level", Value: []byte(a.Level)},
			},
			Time: a.CreatedAt,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publicar alertas de stock: %w", err)
	}
	return nil
}

// Close cierra el writer.
func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}
