package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"growshare/pkg/email"
)

type stubResolver struct {
	parties *OrderParties
}

func (s *stubResolver) ResolveOrderParties(context.Context, string) (*OrderParties, error) {
	return s.parties, nil
}

// flakySender reports every send on a channel and fails with err when set.
type flakySender struct {
	calls chan string // recipient of each attempted send
	err   error
}

func (s *flakySender) SendEmail(_ context.Context, to, _, _, _ string) error {
	s.calls <- to
	return s.err
}

func newTestDispatcher(t *testing.T, sender email.ServiceInterface) *Dispatcher {
	t.Helper()
	tm, err := email.NewTemplateManager()
	if err != nil {
		t.Fatalf("NewTemplateManager: %v", err)
	}
	resolver := &stubResolver{parties: &OrderParties{
		CustomerName:  "Priya",
		CustomerEmail: "priya@example.com",
		FarmName:      "Green Acres",
		FarmerEmail:   "farm@example.com",
		VegetableName: "Tomato",
	}}
	return NewDispatcher(resolver, sender, tm)
}

func TestRunSwallowsSendFailures(t *testing.T) {
	sender := &flakySender{calls: make(chan string, 4), err: errors.New("smtp down")}
	d := newTestDispatcher(t, sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Notify(Event{Type: email.TypeOrderAccepted, OrderID: "order-1"})
	d.Notify(Event{Type: email.TypeOrderDelivered, OrderID: "order-1"})

	// Both events must still be attempted: a failed send is logged and
	// dropped, it must not stop the worker.
	for i := 0; i < 2; i++ {
		select {
		case <-sender.calls:
		case <-time.After(2 * time.Second):
			t.Fatal("worker stopped processing after a failed send")
		}
	}
}

func TestOrderPlacedGoesToFarmer(t *testing.T) {
	sender := &flakySender{calls: make(chan string, 2)}
	d := newTestDispatcher(t, sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Notify(Event{Type: email.TypeOrderPlaced, OrderID: "order-1"})

	select {
	case to := <-sender.calls:
		if to != "farm@example.com" {
			t.Errorf("order_placed sent to %s, want the farmer", to)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no send attempted")
	}
}

func TestNotifyFullQueueDropsInsteadOfBlocking(t *testing.T) {
	// No worker running, so the queue only fills.
	d := newTestDispatcher(t, &flakySender{calls: make(chan string, 1)})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(d.queue)+50; i++ {
			d.Notify(Event{Type: email.TypeOrderAccepted, OrderID: "order-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}
	if len(d.queue) != cap(d.queue) {
		t.Errorf("queue length = %d, want %d", len(d.queue), cap(d.queue))
	}
}
