package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// noopClient is used when no GCP project is configured. It logs instead of publishing.
type noopClient struct{}

// EventType represents the type of event/message sent via pubsub.
type EventType string

const (
	// EventUpdateRatings asks a subscriber to run a batch rating update.
	EventUpdateRatings EventType = "update-ratings"
	// EventRatingsUpdated is published after a batch has been committed.
	EventRatingsUpdated EventType = "ratings-updated"
)

// UpdateRatingsRequest is the payload of an EventUpdateRatings message.
type UpdateRatingsRequest struct {
	DryRun      bool   `msgpack:"dry_run" json:"dry_run"`
	RequestedBy string `msgpack:"requested_by" json:"requested_by"`
}
