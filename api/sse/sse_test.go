package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon4hz/yurei/engine"
)

func TestHubPublish(t *testing.T) {
	t.Run("delivers to all clients", func(t *testing.T) {
		hub := NewHub()
		first := hub.register(0)
		second := hub.register(0)
		defer hub.unregister(first)
		defer hub.unregister(second)

		hub.Publish(engine.Event{Type: engine.EventVoteUpdate, CategoryID: 1})

		require.Len(t, first.events, 1)
		require.Len(t, second.events, 1)
	})

	t.Run("category filter", func(t *testing.T) {
		hub := NewHub()
		interested := hub.register(1)
		other := hub.register(2)
		everything := hub.register(0)
		defer hub.unregister(interested)
		defer hub.unregister(other)
		defer hub.unregister(everything)

		hub.Publish(engine.Event{Type: engine.EventVoteUpdate, CategoryID: 1})

		assert.Len(t, interested.events, 1)
		assert.Len(t, other.events, 0)
		assert.Len(t, everything.events, 1)
	})

	t.Run("events without a category reach everyone", func(t *testing.T) {
		hub := NewHub()
		filtered := hub.register(7)
		defer hub.unregister(filtered)

		hub.Publish(engine.Event{Type: engine.EventAnnouncementNew})

		assert.Len(t, filtered.events, 1)
	})

	t.Run("slow clients drop events instead of blocking", func(t *testing.T) {
		hub := NewHub()
		slow := hub.register(0)
		defer hub.unregister(slow)

		for i := 0; i < clientBuffer+10; i++ {
			hub.Publish(engine.Event{Type: engine.EventVoteUpdate})
		}

		assert.Len(t, slow.events, clientBuffer)
	})
}

func TestClientCount(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ClientCount())

	client := hub.register(0)
	assert.Equal(t, 1, hub.ClientCount())

	hub.unregister(client)
	assert.Equal(t, 0, hub.ClientCount())
}
