// Package notify emits auction events to external channels. Publishing is
// fire-and-forget: a slow or failing channel must never block or roll back
// the state transition that produced the event.
package notify

// EventKind identifies what happened to an auction.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventBid       EventKind = "bid"
	EventFinalized EventKind = "finalized"
)

// Event describes a single auction occurrence for external delivery.
// Amount/PreviousBid are set for bid events, Winner/FinalPrice for
// finalization events.
type Event struct {
	Kind        EventKind `json:"kind"`
	AuctionID   string    `json:"auction_id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount,omitempty"`
	PreviousBid float64   `json:"previous_bid,omitempty"`
	Bidder      string    `json:"bidder,omitempty"`
	Winner      string    `json:"winner,omitempty"`
	FinalPrice  float64   `json:"final_price,omitempty"`
}

// Notifier delivers events to an external channel. Publish must return
// without waiting on delivery.
type Notifier interface {
	Publish(event Event)
}

// NopNotifier discards every event. Used in tests and when no webhook
// URL is configured.
type NopNotifier struct{}

func (NopNotifier) Publish(Event) {}
