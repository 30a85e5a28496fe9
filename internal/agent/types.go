package agent

import (
	"github.com/veloracrm/spade/internal/governance"
	"github.com/veloracrm/spade/internal/intent"
	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

// ProcessingState is the working state of one pipeline run. It is created
// fresh per input; only the history carries over between calls.
type ProcessingState struct {
	Actor      string
	Intent     intent.Intent
	History    []string
	Context    map[string]any
	Plan       plan.Plan
	Confidence float64
}

// ExecutedAction records one completed tool invocation.
type ExecutedAction struct {
	Tool   string         `json:"tool"`
	Inputs map[string]any `json:"inputs"`
	Result *tools.Result  `json:"result,omitempty"`
}

// Diff is the net observable effect of one execution run, kept in step
// order for audit fidelity.
type Diff struct {
	Created []tools.Record `json:"created"`
	Updated []tools.Record `json:"updated"`
	Deleted []tools.Record `json:"deleted"`
	Sources []string       `json:"sources"`
}

func newDiff() Diff {
	return Diff{
		Created: []tools.Record{},
		Updated: []tools.Record{},
		Deleted: []tools.Record{},
		Sources: []string{},
	}
}

func (d *Diff) merge(res *tools.Result) {
	if res == nil {
		return
	}
	d.Created = append(d.Created, res.Created...)
	d.Updated = append(d.Updated, res.Updated...)
	d.Deleted = append(d.Deleted, res.Deleted...)
	if res.Source != "" {
		d.Sources = append(d.Sources, res.Source)
	}
}

// PendingConfirmation surfaces a paused run's outbound draft to the caller.
type PendingConfirmation struct {
	RunID string                   `json:"run_id"`
	Draft governance.OutboundDraft `json:"draft"`
}

// Response is the per-call result of processing one input. Exactly one of
// two shapes holds: a pending confirmation with empty actions/diff, or a
// completed (possibly partially failed) execution with no pending
// confirmation.
type Response struct {
	Plan    plan.Plan            `json:"plan"`
	Actions []ExecutedAction     `json:"actions"`
	Diff    Diff                 `json:"diff"`
	Notes   []string             `json:"notes"`
	Pending *PendingConfirmation `json:"pending_confirmation,omitempty"`
}

func newResponse(p plan.Plan, notes ...string) *Response {
	return &Response{
		Plan:    p,
		Actions: []ExecutedAction{},
		Diff:    newDiff(),
		Notes:   append([]string{}, notes...),
	}
}
