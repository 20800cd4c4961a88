package live

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestTrySend_AfterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- client
	hub.Unregister <- client

	// A follow-up registration forces the hub loop past the unregister case,
	// so the client's channel is guaranteed closed by now.
	other := &Client{Hub: hub, Send: make(chan []byte, 1)}
	hub.Register <- other

	// The handshake snapshot races the disconnect: the send must be dropped,
	// not panic on the closed channel.
	check.True(t, !client.TrySend([]byte(`{"type":"AUCTION_STATE"}`)))
	check.True(t, other.TrySend([]byte(`{"type":"AUCTION_STATE"}`)))
}

func TestTrySend_FullBufferDropsFrame(t *testing.T) {
	client := &Client{Send: make(chan []byte, 1)}

	check.True(t, client.TrySend([]byte(`1`)))
	check.True(t, !client.TrySend([]byte(`2`)))
	check.Equal(t, 1, len(client.Send))
}
