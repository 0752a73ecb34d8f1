package model

import (
	"strings"
	"time"
)

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypePush             WebhookEventType = "push"
	EventTypePullRequest      WebhookEventType = "pull_request"
	EventTypeWorkflowDispatch WebhookEventType = "workflow_dispatch"
	EventTypeUnknown          WebhookEventType = "unknown"
)

// WebhookEvent represents a webhook event received from GitHub
type WebhookEvent struct {
	ID         string           // Retrieved from X-GitHub-Delivery header
	Type       WebhookEventType // Retrieved from X-GitHub-Event header
	Action     string           // Event action (e.g. opened, synchronize)
	Repository string           // Repository name
	Sender     string           // Sender username
	Ref        string           // Git ref (e.g. refs/tags/v1.2.0)
	Revision   string           // Commit SHA the event points at
	ReceivedAt time.Time        // Time when the event was received
	RawPayload []byte           // Raw JSON payload
}

// IsSupportedEvent checks if the event can start a pipeline run
func (e *WebhookEvent) IsSupportedEvent() bool {
	switch e.Type {
	case EventTypePush:
		return strings.HasPrefix(e.Ref, "refs/tags/")
	case EventTypePullRequest:
		return e.Action == "opened" || e.Action == "synchronize"
	case EventTypeWorkflowDispatch:
		return true
	default:
		return false
	}
}

// TagName returns the tag name for tag-push events, or an empty string
func (e *WebhookEvent) TagName() string {
	return strings.TrimPrefix(e.Ref, "refs/tags/")
}
