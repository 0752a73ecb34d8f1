package github

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/utils/async"
)

// EventProcessor converts supported GitHub webhook events into trigger
// contexts and starts pipeline runs in the background.
type EventProcessor struct {
	pipelineUC interfaces.PipelineUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(pipelineUC interfaces.PipelineUseCase) *EventProcessor {
	return &EventProcessor{
		pipelineUC: pipelineUC,
	}
}

// ProcessEvent maps a webhook event onto a trigger context and
// dispatches the run. Unsupported events are acknowledged and ignored.
func (p *EventProcessor) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	if !event.IsSupportedEvent() {
		logger.Info("Ignoring unsupported event",
			"type", event.Type,
			"action", event.Action,
			"ref", event.Ref,
		)
		return nil
	}

	trigger, err := p.triggerFor(event)
	if err != nil {
		return err
	}

	if event.Revision == "" {
		return goerr.New("webhook event has no commit revision",
			goerr.V("type", event.Type),
			goerr.V("delivery_id", event.ID),
		)
	}

	logger.Info("Dispatching pipeline run",
		"trigger", trigger.Kind,
		"ref", trigger.RefName,
		"revision", event.Revision,
		"repository", event.Repository,
	)

	// Webhook deliveries must be acknowledged quickly; the run itself
	// proceeds in the background with a detached context.
	revision := event.Revision
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, err := p.pipelineUC.Execute(ctx, trigger, revision)
		return err
	})

	return nil
}

// triggerFor derives the trigger context from the event type
func (p *EventProcessor) triggerFor(event *model.WebhookEvent) (model.TriggerContext, error) {
	switch event.Type {
	case model.EventTypePush:
		return model.TriggerContext{
			Kind:    model.TriggerTagPush,
			RefName: event.TagName(),
		}, nil
	case model.EventTypePullRequest:
		return model.TriggerContext{
			Kind:    model.TriggerPullRequest,
			RefName: event.Ref,
		}, nil
	case model.EventTypeWorkflowDispatch:
		return model.TriggerContext{
			Kind:    model.TriggerManualDispatch,
			RefName: event.Ref,
		}, nil
	default:
		return model.TriggerContext{}, goerr.New("no trigger mapping for event",
			goerr.V("type", event.Type),
		)
	}
}
