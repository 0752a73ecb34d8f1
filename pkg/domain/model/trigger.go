package model

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// TriggerKind is the tagged variant describing how the pipeline was
// invoked. Consumed once at run start and threaded read-only through
// every later stage.
type TriggerKind string

const (
	TriggerTagPush        TriggerKind = "tag-push"
	TriggerPullRequest    TriggerKind = "pull-request"
	TriggerManualDispatch TriggerKind = "manual"
)

// ParseTriggerKind converts a CLI/webhook string into a TriggerKind
func ParseTriggerKind(s string) (TriggerKind, error) {
	switch TriggerKind(s) {
	case TriggerTagPush, TriggerPullRequest, TriggerManualDispatch:
		return TriggerKind(s), nil
	default:
		return "", goerr.New("unknown trigger kind",
			goerr.T(types.TagConfiguration),
			goerr.V("kind", s),
		)
	}
}

// TriggerContext carries the trigger information supplied once at
// pipeline start. Read-only thereafter; drives the publish gate.
type TriggerContext struct {
	Kind    TriggerKind
	RefName string // Tag or branch name that triggered the run

	// PublishRequested opts a manual dispatch into publishing. Tag
	// pushes always publish; pull requests never do.
	PublishRequested bool
}

// ValidationOnly reports whether the run validates the pipeline
// definition without building real release artifacts.
func (t TriggerContext) ValidationOnly() bool {
	return t.Kind == TriggerPullRequest
}

// ShouldPublish reports whether the publish gate invokes the index
// publish operation for this trigger.
func (t TriggerContext) ShouldPublish() bool {
	switch t.Kind {
	case TriggerTagPush:
		return true
	case TriggerManualDispatch:
		return t.PublishRequested
	default:
		return false
	}
}
