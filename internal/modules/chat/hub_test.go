package chat

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"growshare/internal/models"
)

// countingConn flags overlapping WriteJSON calls, which the websocket
// library forbids on a single connection.
type countingConn struct {
	inWrite    int32
	overlapped int32
	writes     int32
	closed     int32
	failWith   error
}

func (c *countingConn) WriteJSON(interface{}) error {
	if !atomic.CompareAndSwapInt32(&c.inWrite, 0, 1) {
		atomic.StoreInt32(&c.overlapped, 1)
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&c.writes, 1)
	atomic.StoreInt32(&c.inWrite, 0)
	return c.failWith
}

func (c *countingConn) Close() error {
	atomic.AddInt32(&c.closed, 1)
	return nil
}

func TestBroadcastSerializesWritesPerConnection(t *testing.T) {
	hub := NewHub()
	conn := &countingConn{}
	hub.Subscribe("fp-1", conn)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(&models.Message{FarmerID: "fp-1", Body: "hello"})
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&conn.overlapped) != 0 {
		t.Error("concurrent broadcasts wrote to the same connection simultaneously")
	}
	if got := atomic.LoadInt32(&conn.writes); got != n {
		t.Errorf("writes = %d, want %d", got, n)
	}
}

func TestBroadcastDropsDeadConnection(t *testing.T) {
	hub := NewHub()
	healthy := &countingConn{}
	dead := &countingConn{failWith: errors.New("broken pipe")}
	hub.Subscribe("fp-1", healthy)
	hub.Subscribe("fp-1", dead)

	hub.Broadcast(&models.Message{FarmerID: "fp-1", Body: "first"})
	hub.Broadcast(&models.Message{FarmerID: "fp-1", Body: "second"})

	if atomic.LoadInt32(&dead.closed) == 0 {
		t.Error("failing connection was not closed")
	}
	if got := atomic.LoadInt32(&dead.writes); got != 1 {
		t.Errorf("dead connection received %d writes after failing, want 1", got)
	}
	if got := atomic.LoadInt32(&healthy.writes); got != 2 {
		t.Errorf("healthy connection writes = %d, want 2", got)
	}
}

func TestUnsubscribeUnknownConnection(t *testing.T) {
	hub := NewHub()
	hub.Unsubscribe("fp-1", &countingConn{})
	hub.Broadcast(&models.Message{FarmerID: "fp-1", Body: "into the void"})
}
