package services

import (
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

func TestMetricsHubConcurrentClients(t *testing.T) {
	hub := NewMetricsHub()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &websocket.Conn{}
			hub.Add(conn)
			hub.Remove(conn)
		}()
	}
	wg.Wait()

	assert.Empty(t, hub.clients)
}

func TestMetricsHubSnapshot(t *testing.T) {
	hub := NewMetricsHub()
	a, b := &websocket.Conn{}, &websocket.Conn{}
	hub.Add(a)
	hub.Add(b)
	assert.Len(t, hub.snapshot(), 2)

	hub.Remove(a)
	snap := hub.snapshot()
	assert.Len(t, snap, 1)
	assert.Same(t, b, snap[0])
}
