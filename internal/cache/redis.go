package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"shopeasy_storefront/internal/cart"
)

const cartChannelPrefix = "cart:"

// CartMessage est publiée sur cart:<user_id> après chaque écriture panier.
type CartMessage struct {
	Instance string `json:"instance"`
	Event    string `json:"event"` // "updated" ou "cleared"
}

// CartBus diffuse les changements de panier entre instances via Redis
// pub/sub.
type CartBus struct {
	client   *redis.Client
	instance string
	log      *zap.Logger
}

func NewCartBus(client *redis.Client, log *zap.Logger) *CartBus {
	return &CartBus{
		client:   client,
		instance: uuid.NewString(),
		log:      log,
	}
}

func (b *CartBus) Instance() string {
	return b.instance
}

func CartChannel(userID string) string {
	return cartChannelPrefix + userID
}

// Publish notifie les autres instances qu'un panier a changé.
func (b *CartBus) Publish(ctx context.Context, userID, event string) error {
	payload, err := json.Marshal(CartMessage{Instance: b.instance, Event: event})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, CartChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("publication %s: %w", CartChannel(userID), err)
	}
	return nil
}

// Run écoute cart:* jusqu'à l'annulation de ctx et appelle onChange pour
// les messages émis par les autres instances.
func (b *CartBus) Run(ctx context.Context, onChange func(ctx context.Context, userID string)) error {
	pubsub := b.client.PSubscribe(ctx, cartChannelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("abonnement Redis: %w", err)
	}
	b.log.Info("✅ Synchronisation panier Redis activée", zap.String("instance", b.instance))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, own := b.decode(msg)
			if userID == "" || own {
				continue
			}
			onChange(ctx, userID)
		}
	}
}

// Hook publie un message après chaque écriture panier confirmée.
func (b *CartBus) Hook() cart.MutationHook {
	return func(ctx context.Context, m cart.Mutation) {
		event := "updated"
		if m.Op == cart.OpClear {
			event = "cleared"
		}
		if err := b.Publish(ctx, m.UserID, event); err != nil {
			b.log.Warn("⚠️ Notification panier non publiée", zap.String("user_id", m.UserID), zap.Error(err))
		}
	}
}

func (b *CartBus) decode(msg *redis.Message) (userID string, own bool) {
	userID = strings.TrimPrefix(msg.Channel, cartChannelPrefix)
	var m CartMessage
	if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
		// ancien format : "updated" / "cleared" en clair
		return userID, false
	}
	return userID, m.Instance == b.instance
}

// --- Rate Limiting ---

// RateLimiter compte les requêtes par clé sur une fenêtre glissante fixe.
type RateLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRateLimiter(client *redis.Client, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, window: window}
}

// Increment incrémente le compteur et renvoie la nouvelle valeur.
func (l *RateLimiter) Increment(ctx context.Context, key string) (int64, error) {
	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// TTL renvoie le temps restant avant la remise à zéro du compteur.
func (l *RateLimiter) TTL(ctx context.Context, key string) time.Duration {
	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return l.window
	}
	return ttl
}
