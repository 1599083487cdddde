// Package events publishes lifecycle notifications so companion clients
// can follow a user's generation state. Events are rows in an events
// table; Supabase Realtime fans the table changes out to subscribers.
package events

import (
	"fmt"

	"github.com/supabase-community/supabase-go"
)

const eventsTable = "events"

type Publisher struct {
	client *supabase.Client
}

func NewPublisher(supabaseURL, anonKey string) (*Publisher, error) {
	client, err := supabase.NewClient(supabaseURL, anonKey, nil)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: client}, nil
}

// PublishEvent inserts the event into the events table. The Go client
// has no direct Realtime publish; the table change is what reaches
// subscribed clients.
func (p *Publisher) PublishEvent(channel, event string, payload map[string]interface{}) error {
	row := map[string]interface{}{
		"channel": channel,
		"event":   event,
		"payload": payload,
	}
	_, _, err := p.client.From(eventsTable).Insert(row, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to publish %s on %s: %w", event, channel, err)
	}
	return nil
}

func (p *Publisher) PublishUserEvent(userID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("user:%s", userID)
	return p.PublishEvent(channel, event, payload)
}

// Event payloads
func GenerationStartedPayload(jobID string, style string) map[string]interface{} {
	return map[string]interface{}{
		"job_id": jobID,
		"status": "queued",
		"style":  style,
	}
}

func GenerationProgressPayload(jobID string, progress int) map[string]interface{} {
	return map[string]interface{}{
		"job_id":   jobID,
		"status":   "processing",
		"progress": progress,
	}
}

func GenerationCompletedPayload(jobID, imageURL string) map[string]interface{} {
	return map[string]interface{}{
		"job_id":    jobID,
		"status":    "completed",
		"progress":  100,
		"image_url": imageURL,
	}
}

func GenerationFailedPayload(jobID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"job_id": jobID,
		"status": "failed",
		"error":  errorMsg,
	}
}

func ExportCompletedPayload(recordID, localURI string) map[string]interface{} {
	return map[string]interface{}{
		"record_id": recordID,
		"status":    "exported",
		"local_uri": localURI,
	}
}
