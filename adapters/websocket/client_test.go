package websocket

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageRacesCloseWithoutPanic(t *testing.T) {
	server := newWSTestServer(t)
	client := server.dial(t)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			client.SendMessage([]byte("turn"))
		}
	}()
	go func() {
		defer wg.Done()
		client.Close()
	}()
	wg.Wait()

	require.Error(t, client.SendMessage([]byte("late")))
	assert.True(t, client.IsClosed())
}

func TestCloseIsIdempotentAndCancelsContext(t *testing.T) {
	server := newWSTestServer(t)
	client := server.dial(t)

	client.Close()
	client.Close()

	select {
	case <-client.Context().Done():
	default:
		t.Fatal("context not cancelled after close")
	}
	assert.True(t, client.IsClosed())
}
