// Package kafka publica los eventos del ledger en un tópico de Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/storefront-api/internal/application/inventory"
	"github.com/jhoicas/storefront-api/pkg/config"
	kafkago "github.com/segmentio/kafka-go"
)

var _ inventory.TransactionPublisher = (*Publisher)(nil)

// messageWriter es la parte de *kafka.Writer que usa el publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher publica TransactionRecorded como JSON, con el productId como clave
// para que los eventos de un mismo producto conserven el orden en su partición.
type Publisher struct {
	w messageWriter
}

// NewPublisher construye el writer sobre los brokers configurados.
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	return &Publisher{w: &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}}
}

// Publish serializa y escribe el evento.
func (p *Publisher) Publish(ctx context.Context, evt inventory.TransactionRecorded) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("kafka: serializar evento: %w", err)
	}
	msg := kafkago.Message{
		Key:   []byte(evt.ProductID),
		Value: payload,
		Time:  evt.Date,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar %s: %w", evt.TransactionID, err)
	}
	return nil
}

// Close vacía y cierra el writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}
