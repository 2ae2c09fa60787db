package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient pushes project lifecycle events to the front end so an
// open dashboard flips to "video is ready" without polling.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

type eventRow struct {
	Channel string                 `json:"channel"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// PublishEvent delivers an event by inserting it into project_events.
// Realtime rides on the Postgres change feed: clients subscribed to the
// table receive the insert, filtered by channel.
func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	row := eventRow{
		Channel: channel,
		Event:   event,
		Payload: payload,
	}

	_, _, err := r.client.From("project_events").Insert(row, false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to publish %s event on %s: %w", event, channel, err)
	}

	return nil
}

func (r *RealtimeClient) PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("project:%s", projectID.String())
	return r.PublishEvent(channel, event, payload)
}
