package governance

import (
	"context"
	"fmt"
	"regexp"

	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

// Confirmer answers irreversible-action confirmation requests. The decision
// is awaited, not polled: implementations block until the external caller
// (or ctx) decides.
type Confirmer interface {
	ConfirmAction(ctx context.Context, req ActionRequest) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, req ActionRequest) (bool, error)

func (f ConfirmerFunc) ConfirmAction(ctx context.Context, req ActionRequest) (bool, error) {
	return f(ctx, req)
}

// ActionRequest describes one irreversible step awaiting approval.
type ActionRequest struct {
	SessionID   string
	Tool        string
	Kind        DraftKind
	Description string
	Inputs      map[string]any
}

// Decision is the outcome of gating a plan.
type Decision struct {
	Approved  bool
	Draft     *OutboundDraft // non-nil when an outbound step paused the run
	StepIndex int            // index of the step that halted the scan, -1 otherwise
	Reason    string
}

// Gate inspects plans before execution. Outbound steps always produce a
// reviewable draft; irreversible steps need an explicit approval; everything
// else passes unless a deny rule matches.
type Gate struct {
	Outbound     map[string]bool
	Irreversible map[string]bool
	DeniedTools  map[string]bool
	DeniedRegex  []*regexp.Regexp
}

func NewGate() *Gate {
	return &Gate{
		Outbound: map[string]bool{
			tools.NameSendEmail:        true,
			tools.NameSendSMS:          true,
			tools.NameSendChat:         true,
			tools.NameAPIPost:          true,
			tools.NameSendNotification: true,
		},
		Irreversible: map[string]bool{
			tools.NameDeleteData:     true,
			tools.NameBulkUpdate:     true,
			tools.NameCreatePayment:  true,
			tools.NamePublishContent: true,
		},
		DeniedTools: make(map[string]bool),
	}
}

func (g *Gate) DenyTool(name string) {
	g.DeniedTools[name] = true
}

func (g *Gate) DenyArguments(pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	g.DeniedRegex = append(g.DeniedRegex, re)
	return nil
}

// Evaluate gates a plan. Steps whose index is in exempt were already
// confirmed by the user and skip the outbound scan on re-evaluation.
//
// Scan order is load-bearing: denied rules are hard stops, the outbound scan
// preempts the irreversible scan, and the first outbound hit halts the pass
// without looking at later steps.
func (g *Gate) Evaluate(ctx context.Context, sessionID string, p plan.Plan, exempt map[int]bool, confirmer Confirmer) (Decision, error) {
	for i, step := range p.Steps {
		if g.DeniedTools[step.Tool] {
			return Decision{
				StepIndex: i,
				Reason:    fmt.Sprintf("Tool '%s' is restricted by system policy", step.Tool),
			}, nil
		}
		args := renderInputs(step.Inputs)
		for _, re := range g.DeniedRegex {
			if re.MatchString(args) {
				return Decision{
					StepIndex: i,
					Reason:    fmt.Sprintf("Step arguments match restricted pattern: %s", re.String()),
				}, nil
			}
		}
	}

	for i, step := range p.Steps {
		if exempt[i] || !g.Outbound[step.Tool] {
			continue
		}
		return Decision{
			Draft:     synthesizeDraft(step),
			StepIndex: i,
			Reason:    fmt.Sprintf("Outbound step '%s' requires a confirmed draft", step.Description),
		}, nil
	}

	for i, step := range p.Steps {
		if !g.Irreversible[step.Tool] {
			continue
		}
		if confirmer == nil {
			return Decision{StepIndex: i, Reason: "awaiting confirmation"}, nil
		}
		approved, err := confirmer.ConfirmAction(ctx, ActionRequest{
			SessionID:   sessionID,
			Tool:        step.Tool,
			Kind:        kindForIrreversible(step.Tool),
			Description: step.Description,
			Inputs:      step.Inputs,
		})
		if err != nil {
			return Decision{}, err
		}
		if !approved {
			return Decision{StepIndex: i, Reason: "awaiting confirmation"}, nil
		}
	}

	return Decision{Approved: true, StepIndex: -1, Reason: "Approved by policy"}, nil
}

func kindForIrreversible(tool string) DraftKind {
	switch tool {
	case tools.NameDeleteData:
		return KindDelete
	default:
		return KindBulkUpdate
	}
}

func renderInputs(inputs map[string]any) string {
	if len(inputs) == 0 {
		return ""
	}
	return fmt.Sprintf("%v", inputs)
}
