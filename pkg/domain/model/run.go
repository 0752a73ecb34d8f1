package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// RunState is the pipeline's terminal state machine
type RunState string

const (
	RunPending         RunState = "pending"
	RunBuilt           RunState = "built"
	RunAttested        RunState = "attested"
	RunPublished       RunState = "published"
	RunSkippedByPolicy RunState = "skipped_by_policy"
	RunFailed          RunState = "failed"
)

// validTransitions defines the allowed state machine edges:
// Pending→Built→Attested→{Published,SkippedByPolicy}, with Failed
// reachable from any non-terminal state and SkippedByPolicy directly
// from Pending for validation-only runs. Terminal states have no
// outgoing edges; a failed run is re-triggered externally from
// Pending.
var validTransitions = map[RunState][]RunState{
	RunPending:         {RunBuilt, RunSkippedByPolicy, RunFailed},
	RunBuilt:           {RunAttested, RunFailed},
	RunAttested:        {RunPublished, RunSkippedByPolicy, RunFailed},
	RunPublished:       {},
	RunSkippedByPolicy: {},
	RunFailed:          {},
}

// Terminal reports whether the state allows no further transitions
func (s RunState) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransition reports whether the edge from→to is allowed
func CanTransition(from, to RunState) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StateTransition records one state machine edge taken by a run
type StateTransition struct {
	From RunState
	To   RunState
	At   time.Time
}

// RunRecord is the persisted bookkeeping of one pipeline run: trigger,
// per-target results, attestation and publish outcomes.
type RunRecord struct {
	ID          types.RunID
	Trigger     TriggerContext
	Revision    string
	State       RunState
	Transitions []StateTransition
	Results     []BuildResult
	Attestation *AttestationRecord
	Outcomes    []PublishOutcome
	StartedAt   time.Time
	FinishedAt  time.Time
}

// NewRunRecord creates a run record in the Pending state
func NewRunRecord(id types.RunID, trigger TriggerContext, revision string) *RunRecord {
	return &RunRecord{
		ID:        id,
		Trigger:   trigger,
		Revision:  revision,
		State:     RunPending,
		StartedAt: time.Now(),
	}
}

// Advance moves the run to the next state, enforcing the transition
// table. An invalid edge is a programming error in the orchestrator.
func (r *RunRecord) Advance(to RunState) error {
	if !CanTransition(r.State, to) {
		return goerr.New("invalid run state transition",
			goerr.V("run_id", r.ID),
			goerr.V("from", r.State),
			goerr.V("to", to),
		)
	}

	now := time.Now()
	r.Transitions = append(r.Transitions, StateTransition{From: r.State, To: to, At: now})
	r.State = to
	if to.Terminal() {
		r.FinishedAt = now
	}

	return nil
}
