package cache

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCartBus_Decode(t *testing.T) {
	bus := NewCartBus(nil, zap.NewNop())
	other := NewCartBus(nil, zap.NewNop())
	assert.NotEqual(t, bus.Instance(), other.Instance())

	tests := []struct {
		name    string
		payload string
		user    string
		own     bool
	}{
		{"own message", `{"instance":"` + bus.Instance() + `","event":"updated"}`, "u1", true},
		{"other instance", `{"instance":"` + other.Instance() + `","event":"cleared"}`, "u1", false},
		{"legacy plain payload", "updated", "u1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, own := bus.decode(&redis.Message{Channel: CartChannel(tt.user), Payload: tt.payload})
			assert.Equal(t, tt.user, user)
			assert.Equal(t, tt.own, own)
		})
	}
}

func TestCartChannel(t *testing.T) {
	assert.Equal(t, "cart:abc", CartChannel("abc"))
}
