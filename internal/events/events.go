// Package events publie les écritures panier sur Kafka pour les consommateurs
// en aval (analytics, relance de panier abandonné).
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/cart"
)

const (
	EventCartItemAdded   = "cart.item_added"
	EventCartItemUpdated = "cart.item_updated"
	EventCartItemRemoved = "cart.item_removed"
	EventCartCleared     = "cart.cleared"
)

type CartEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageWriter est la partie de *kafka.Writer utilisée ici.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
	log    *zap.Logger
}

// NewKafkaWriter construit un writer asynchrone : la publication ne retarde
// jamais la réponse au client.
func NewKafkaWriter(brokers []string, topic string, log *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Warn("⚠️ Publication Kafka échouée", zap.Int("messages", len(messages)), zap.Error(err))
			}
		},
	}
}

func NewPublisher(writer MessageWriter, log *zap.Logger) *Publisher {
	return &Publisher{writer: writer, log: log}
}

func eventType(op cart.Op) string {
	switch op {
	case cart.OpAdd:
		return EventCartItemAdded
	case cart.OpUpdate:
		return EventCartItemUpdated
	case cart.OpRemove:
		return EventCartItemRemoved
	default:
		return EventCartCleared
	}
}

// Hook convertit chaque écriture panier confirmée en événement. Les
// messages sont clés par utilisateur pour garder l'ordre par panier.
func (p *Publisher) Hook() cart.MutationHook {
	return func(ctx context.Context, m cart.Mutation) {
		ev := CartEvent{
			EventID:   uuid.NewString(),
			Type:      eventType(m.Op),
			UserID:    m.UserID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			CreatedAt: time.Now().UTC(),
		}
		data, err := json.Marshal(ev)
		if err != nil {
			p.log.Error("❌ Encodage événement panier", zap.Error(err))
			return
		}
		msg := kafka.Message{Key: []byte(m.UserID), Value: data, Time: ev.CreatedAt}
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.log.Warn("⚠️ Publication événement panier", zap.String("type", ev.Type), zap.Error(err))
		}
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
