package metrics

import "time"

type Outcome string

const (
	OutcomePlaced            Outcome = "placed"
	OutcomeEmptyCart         Outcome = "empty_cart"
	OutcomeInsufficientStock Outcome = "insufficient_stock"
	OutcomeBusy              Outcome = "busy"
	OutcomeFailed            Outcome = "failed"
)

// Checkout counts checkout attempts by outcome and accumulates their latency.
type Checkout struct {
	placed            Counter
	emptyCart         Counter
	insufficientStock Counter
	busy              Counter
	failed            Counter

	attempts   Counter
	totalNanos Counter
}

func NewCheckout() *Checkout {
	return &Checkout{}
}

func (c *Checkout) Observe(outcome Outcome, d time.Duration) {
	switch outcome {
	case OutcomePlaced:
		c.placed.Inc()
	case OutcomeEmptyCart:
		c.emptyCart.Inc()
	case OutcomeInsufficientStock:
		c.insufficientStock.Inc()
	case OutcomeBusy:
		c.busy.Inc()
	default:
		c.failed.Inc()
	}

	c.attempts.Inc()
	if d > 0 {
		c.totalNanos.Add(uint64(d))
	}
}

type CheckoutSnapshot struct {
	Placed            uint64  `json:"placed"`
	EmptyCart         uint64  `json:"empty_cart"`
	InsufficientStock uint64  `json:"insufficient_stock"`
	Busy              uint64  `json:"busy"`
	Failed            uint64  `json:"failed"`
	AvgLatencyMs      float64 `json:"avg_latency_ms"`
}

func (c *Checkout) Snapshot() CheckoutSnapshot {
	s := CheckoutSnapshot{
		Placed:            c.placed.Load(),
		EmptyCart:         c.emptyCart.Load(),
		InsufficientStock: c.insufficientStock.Load(),
		Busy:              c.busy.Load(),
		Failed:            c.failed.Load(),
	}

	if n := c.attempts.Load(); n > 0 {
		s.AvgLatencyMs = float64(c.totalNanos.Load()) / float64(n) / float64(time.Millisecond)
	}
	return s
}
