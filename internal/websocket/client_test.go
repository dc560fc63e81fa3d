package websocket

import (
	"sync"
	"testing"
)

func TestClientQueueAfterShutdown(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hub, "alice")

	client.shutdown()

	if client.queue([]byte(`{"event":"message"}`)) {
		t.Error("queue accepted a frame after shutdown")
	}

	select {
	case <-client.ctx.Done():
	default:
		t.Error("shutdown did not release the pumps")
	}
}

func TestClientQueueFullBufferDropsClient(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hub, "alice")

	frame := []byte(`{"event":"message"}`)
	for i := 0; i < cap(client.send); i++ {
		if !client.queue(frame) {
			t.Fatalf("queue rejected frame %d below capacity", i)
		}
	}

	if client.queue(frame) {
		t.Error("queue accepted a frame past capacity")
	}
	if client.queue(frame) {
		t.Error("queue accepted a frame after the client was dropped")
	}

	select {
	case <-client.ctx.Done():
	default:
		t.Error("overflowing the buffer did not release the pumps")
	}
}

func TestClientQueueConcurrentWithShutdown(t *testing.T) {
	// Broadcasters share the hub's read lock, so an enqueue can run
	// concurrently with the teardown of the same client. Neither side may
	// panic, whichever order they land in.
	frame := []byte(`{"event":"message"}`)

	for i := 0; i < 200; i++ {
		hub := newTestHub()
		client := newTestClient(hub, "alice")

		for j := 0; j < cap(client.send); j++ {
			client.queue(frame)
		}

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(3)

		for g := 0; g < 2; g++ {
			go func() {
				defer wg.Done()
				<-start
				for k := 0; k < 5; k++ {
					client.queue(frame)
				}
			}()
		}
		go func() {
			defer wg.Done()
			<-start
			client.shutdown()
		}()

		close(start)
		wg.Wait()

		if client.queue(frame) {
			t.Fatal("queue accepted a frame after shutdown")
		}
	}
}

func TestHubBroadcastAfterUnregisterDoesNotPanic(t *testing.T) {
	hub := newTestHub()
	client := newTestClient(hub, "alice")

	hub.registerClient(client)
	hub.Join(client, "post:p1")
	hub.unregisterClient(client)

	hub.BroadcastRoom("post:p1", "newComment", map[string]string{"postID": "p1"})
	hub.BroadcastAll(EventUserConnected, PresenceCounts{})
}
