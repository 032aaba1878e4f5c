package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderDelivered, false},
		{OrderConfirmed, OrderDelivered, true},
		{OrderConfirmed, OrderCancelled, false},
		{OrderConfirmed, OrderPending, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderPending, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, CanTransition(c.from, c.to), "%s → %s", c.from, c.to)
	}
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{OrderPending, OrderConfirmed, OrderDelivered, OrderCancelled} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, OrderPending.Terminal())
	assert.False(t, OrderConfirmed.Terminal())
	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())
}
