// Package notify delivers best-effort order lifecycle emails. Dispatch is
// decoupled from the request path by a buffered queue and a single worker
// goroutine; a send failure is logged and dropped, never surfaced to the
// operation that triggered it.
package notify

import (
	"context"
	"log"
	"time"

	"growshare/pkg/email"
)

// Event identifies a state-changing order event worth an email.
type Event struct {
	Type    string // one of the email.Type* notification types
	OrderID string
	Reason  string // optional, e.g. a rejection reason
}

// OrderParties holds the resolved names and addresses for an order's
// consumer and farmer.
type OrderParties struct {
	CustomerName  string
	CustomerEmail string
	FarmName      string
	FarmerEmail   string
	VegetableName string
}

// PartyResolver looks up who should receive an email about an order.
type PartyResolver interface {
	ResolveOrderParties(ctx context.Context, orderID string) (*OrderParties, error)
}

// Dispatcher queues events and emails the right party in the background.
type Dispatcher struct {
	queue    chan Event
	resolver PartyResolver
	emailer  email.ServiceInterface
	tm       *email.TemplateManager
}

// NewDispatcher creates a dispatcher with a bounded queue. Call Run to start
// the worker.
func NewDispatcher(resolver PartyResolver, emailer email.ServiceInterface, tm *email.TemplateManager) *Dispatcher {
	return &Dispatcher{
		queue:    make(chan Event, 256),
		resolver: resolver,
		emailer:  emailer,
		tm:       tm,
	}
}

// Notify enqueues an event without blocking. If the queue is full the event
// is dropped with a log line; order operations must never wait on email.
func (d *Dispatcher) Notify(evt Event) {
	select {
	case d.queue <- evt:
	default:
		log.Printf("notify: queue full, dropping %s for order %s", evt.Type, evt.OrderID)
	}
}

// Run consumes the queue until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-d.queue:
			if err := d.send(ctx, evt); err != nil {
				log.Printf("notify: %s for order %s failed: %v", evt.Type, evt.OrderID, err)
			}
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, evt Event) error {
	sendCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	parties, err := d.resolver.ResolveOrderParties(sendCtx, evt.OrderID)
	if err != nil {
		return err
	}

	data := email.TemplateData{
		CustomerName:  parties.CustomerName,
		FarmerName:    parties.FarmName,
		VegetableName: parties.VegetableName,
		Reason:        evt.Reason,
	}

	// order_placed goes to the farmer; everything else goes to the consumer.
	var to string
	if evt.Type == email.TypeOrderPlaced {
		to = parties.FarmerEmail
		data.RecipientName = parties.FarmName
	} else {
		to = parties.CustomerEmail
		data.RecipientName = parties.CustomerName
	}
	if to == "" {
		log.Printf("notify: no recipient email for order %s, skipping %s", evt.OrderID, evt.Type)
		return nil
	}

	subject, html, err := d.tm.Render(evt.Type, data)
	if err != nil {
		return err
	}
	return d.emailer.SendEmail(sendCtx, to, subject, "", html)
}
