package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventVideoLinkUpdated EventType = "video_link.updated"
	EventVideoLinkCleared EventType = "video_link.cleared"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateVideoLink AggregateType = "video_link"
)

// OutboxDraft is the payload written to the event_outbox table.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is an OutboxDraft as stored, with its sequence id.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}

// NewVideoLinkUpdatedEvent creates the event emitted after the link is replaced.
func NewVideoLinkUpdatedEvent(link string) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{"link": link})
	return newVideoLinkEvent(EventVideoLinkUpdated, payload)
}

// NewVideoLinkClearedEvent creates the event emitted after the link is deleted.
func NewVideoLinkClearedEvent() OutboxDraft {
	return newVideoLinkEvent(EventVideoLinkCleared, json.RawMessage(`{}`))
}

func newVideoLinkEvent(eventType EventType, payload json.RawMessage) OutboxDraft {
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateVideoLink,
		AggregateID:   strconv.Itoa(VideoLinkID),
		EventType:     eventType,
		Payload:       payload,
		OccurredAt:    time.Now().UTC(),
	}
}
