package net

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SprayBoard/internal/engine"
)

func startHub(t *testing.T) (*Hub, string, chan Message) {
	t.Helper()
	received := make(chan Message, 16)
	hub := NewHub()
	hub.OnMessage = func(addr string, msg Message) { received <- msg }
	hub.OnJoin = func(addr string) []Message {
		return []Message{{Type: MsgStatus, Status: &engine.Signals{HasPainted: true}}}
	}
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	return hub, strings.TrimPrefix(srv.URL, "http://"), received
}

func TestRelayRoundTrip(t *testing.T) {
	hub, addr, received := startHub(t)

	client, err := Dial(addr)
	require.NoError(t, err)
	defer client.Close()
	assert.NotEmpty(t, client.LocalAddr())

	fromHost := make(chan Message, 16)
	go client.Listen(func(msg Message) { fromHost <- msg })

	select {
	case msg := <-fromHost:
		assert.Equal(t, MsgStatus, msg.Type)
		require.NotNil(t, msg.Status)
		assert.True(t, msg.Status.HasPainted)
	case <-time.After(2 * time.Second):
		t.Fatal("no greeting from host")
	}

	ev := engine.PointerEvent{Type: engine.Move, X: 12.5, Y: 40, Pressure: 0.3, Time: 250 * time.Millisecond}
	require.NoError(t, client.Send(Message{Type: MsgPointer, Pointer: &ev}))
	require.NoError(t, client.Send(Message{Type: MsgColor, Color: "#f1c40f"}))

	select {
	case msg := <-received:
		assert.Equal(t, MsgPointer, msg.Type)
		require.NotNil(t, msg.Pointer)
		assert.Equal(t, ev, *msg.Pointer)
	case <-time.After(2 * time.Second):
		t.Fatal("pointer never reached the host")
	}
	select {
	case msg := <-received:
		assert.Equal(t, Message{Type: MsgColor, Color: "#f1c40f"}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("color never reached the host")
	}

	require.Eventually(t, func() bool { return hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	hub.Broadcast(Message{Type: MsgPreview, Preview: []byte{0xff, 0xd8, 0xff}})
	select {
	case msg := <-fromHost:
		assert.Equal(t, MsgPreview, msg.Type)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, msg.Preview)
	case <-time.After(2 * time.Second):
		t.Fatal("preview never reached the client")
	}

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestDialFailure(t *testing.T) {
	_, err := Dial("127.0.0.1:1")
	assert.Error(t, err)
}

func TestOutgoingIP(t *testing.T) {
	assert.NotEmpty(t, OutgoingIP())
}
