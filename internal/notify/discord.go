package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"auction-house/utils"
)

const (
	defaultQueueSize   = 64
	defaultHTTPTimeout = 10 * time.Second
)

// DiscordWebhook posts auction events to a Discord channel webhook. Events
// are handed to a background worker through a buffered channel; when the
// buffer is full the event is dropped with a warning rather than blocking
// the caller.
type DiscordWebhook struct {
	webhookURL string
	client     *http.Client
	queue      chan Event
	done       chan struct{}
}

// NewDiscordWebhook creates a webhook notifier and starts its delivery worker.
func NewDiscordWebhook(webhookURL string) *DiscordWebhook {
	d := &DiscordWebhook{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultHTTPTimeout},
		queue:      make(chan Event, defaultQueueSize),
		done:       make(chan struct{}),
	}
	go d.deliverLoop()
	return d
}

// Publish enqueues an event for delivery. Never blocks.
func (d *DiscordWebhook) Publish(event Event) {
	select {
	case d.queue <- event:
	default:
		utils.Warn("discord notifier: queue full, dropping event", map[string]any{
			"kind":       string(event.Kind),
			"auction_id": event.AuctionID,
		})
	}
}

// Close stops the delivery worker after draining queued events.
func (d *DiscordWebhook) Close() {
	close(d.queue)
	<-d.done
}

func (d *DiscordWebhook) deliverLoop() {
	defer close(d.done)
	for event := range d.queue {
		if err := d.deliver(event); err != nil {
			utils.Warn("discord notifier: delivery failed", map[string]any{
				"kind":       string(event.Kind),
				"auction_id": event.AuctionID,
				"error":      err.Error(),
			})
		}
	}
}

func (d *DiscordWebhook) deliver(event Event) error {
	payload, err := json.Marshal(map[string]string{"content": formatContent(event)})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := d.client.Post(d.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("post webhook: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// formatContent renders the Discord message body for an event.
func formatContent(event Event) string {
	switch event.Kind {
	case EventCreated:
		return fmt.Sprintf("New auction: **%s**", event.Title)
	case EventBid:
		return fmt.Sprintf("**%s** bid %.2f on **%s** (was %.2f)", event.Bidder, event.Amount, event.Title, event.PreviousBid)
	case EventFinalized:
		if event.Winner == "" {
			return fmt.Sprintf("Auction **%s** ended with no bids", event.Title)
		}
		return fmt.Sprintf("Auction **%s** won by **%s** at %.2f", event.Title, event.Winner, event.FinalPrice)
	default:
		return fmt.Sprintf("Auction event %s for **%s**", event.Kind, event.Title)
	}
}
