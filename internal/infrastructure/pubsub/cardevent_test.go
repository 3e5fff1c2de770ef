package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardImageMonitored(t *testing.T) {
	base := CardImage{
		Name:         "Alice",
		Email:        "alice@example.com",
		Balance:      12.5,
		StampCount:   4,
		DiscountTier: "silver",
	}

	t.Run("identical images are not monitored changes", func(t *testing.T) {
		other := base
		assert.False(t, base.Monitored(other))
	})

	t.Run("push token change alone is not monitored", func(t *testing.T) {
		other := base
		other.PushToken = "new-token"
		assert.False(t, base.Monitored(other))
	})

	t.Run("balance change is monitored", func(t *testing.T) {
		other := base
		other.Balance = 13.0
		assert.True(t, base.Monitored(other))
	})

	t.Run("stamp count change is monitored", func(t *testing.T) {
		other := base
		other.StampCount = 5
		assert.True(t, base.Monitored(other))
	})

	t.Run("tier change is monitored", func(t *testing.T) {
		other := base
		other.DiscountTier = "gold"
		assert.True(t, base.Monitored(other))
	})
}
