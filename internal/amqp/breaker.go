package amqp

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// Publisher is anything that can publish ledger events. *Client implements it.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, event *LedgerEvent) error
}

// BreakerPublisher stops calling a failing broker for a while so writes are
// not slowed down by publish timeouts. While open, PublishLedgerEvent returns
// gobreaker.ErrOpenState without touching the broker.
type BreakerPublisher struct {
	next Publisher
	cb   *gobreaker.CircuitBreaker
}

// BreakerSettings holds the circuit breaker parameters.
type BreakerSettings struct {
	// MinRequests is the number of calls observed before the breaker may trip.
	MinRequests uint32
	// FailureRatio trips the breaker once reached.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  5,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
	}
}

func NewBreakerPublisher(next Publisher, s BreakerSettings) *BreakerPublisher {
	return &BreakerPublisher{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "amqp-publish",
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= s.MinRequests && ratio >= s.FailureRatio
			},
		}),
	}
}

func (p *BreakerPublisher) PublishLedgerEvent(ctx context.Context, event *LedgerEvent) error {
	_, err := p.cb.Execute(func() (any, error) {
		return nil, p.next.PublishLedgerEvent(ctx, event)
	})
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (p *BreakerPublisher) State() string {
	return p.cb.State().String()
}
