package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/veloracrm/spade/internal/governance"
	"github.com/veloracrm/spade/internal/intent"
	"github.com/veloracrm/spade/internal/observability"
	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

// HistoryStore persists conversation history and the executed-action audit
// trail. Implementations may be nil-free but the processor tolerates an
// unset store.
type HistoryStore interface {
	AddMessage(sessionID, role, content string) error
	RecordAction(sessionID, runID, tool, note string) error
}

// Options configures a Processor.
type Options struct {
	Registry  *tools.Registry
	Gate      *governance.Gate
	Confirmer governance.Confirmer
	Store     HistoryStore
	Logger    *observability.Logger

	// ClarificationThreshold defaults to DefaultClarificationThreshold
	// when zero.
	ClarificationThreshold float64
}

// Processor runs the pipeline for one session: classify, build a plan,
// validate confidence, gate on policy, execute. It is an explicit per-session
// object; concurrent sessions get their own processors and never share
// history or accumulators.
type Processor struct {
	sessionID string
	registry  *tools.Registry
	gate      *governance.Gate
	confirmer governance.Confirmer
	store     HistoryStore
	logger    *observability.Logger
	threshold float64

	mu      sync.Mutex
	history []string
	pending *pendingRun
}

// pendingRun is a run suspended at an outbound draft.
type pendingRun struct {
	runID     string
	state     *ProcessingState
	stepIndex int
	draft     *governance.OutboundDraft
	exempt    map[int]bool
}

func NewProcessor(sessionID string, opts Options) *Processor {
	threshold := opts.ClarificationThreshold
	if threshold == 0 {
		threshold = DefaultClarificationThreshold
	}
	registry := opts.Registry
	if registry == nil {
		registry = tools.NewStubRegistry()
	}
	gate := opts.Gate
	if gate == nil {
		gate = governance.NewGate()
	}
	return &Processor{
		sessionID: sessionID,
		registry:  registry,
		gate:      gate,
		confirmer: opts.Confirmer,
		store:     opts.Store,
		logger:    opts.Logger,
		threshold: threshold,
	}
}

// HasPending reports whether a draft is awaiting a confirm/decline decision.
func (p *Processor) HasPending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Process runs one input through the pipeline. The returned response either
// carries a pending confirmation (run suspended, nothing executed) or the
// results of a completed execution.
func (p *Processor) Process(ctx context.Context, text string, meta map[string]any) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var preface []string
	if p.pending != nil {
		preface = append(preface, fmt.Sprintf("Abandoned pending draft for '%s'; starting a new run.", p.pending.draft.ActionDescription))
		p.pending = nil
	}

	p.history = append(p.history, text)
	p.addMessage("user", text)

	observability.SetStatus(observability.RolePlanning, text)

	cls := intent.Classify(text, meta)
	p.logger.LogIntent(p.sessionID, string(cls.Intent), cls.Confidence)

	state := &ProcessingState{
		Actor:      p.sessionID,
		Intent:     cls.Intent,
		History:    append([]string(nil), p.history...),
		Context:    meta,
		Confidence: cls.Confidence,
	}

	if v := validateAssumptions(state, p.threshold); !v.ok {
		resp := clarificationResponse(v)
		resp.Notes = append(resp.Notes, preface...)
		p.addMessage("agent", strings.Join(resp.Notes, "\n"))
		observability.SetStatus(observability.RoleIdle, "")
		return resp, nil
	}

	runID := uuid.NewString()
	state.Plan = plan.Build(cls.Intent)
	hydrate(&state.Plan, text, meta, p.sessionID)
	p.logger.LogPlan(p.sessionID, runID, string(cls.Intent), len(state.Plan.Steps))

	return p.gateAndExecute(ctx, runID, state, nil, preface)
}

// Confirm resumes a suspended run. A non-empty edited string replaces the
// draft content before the outbound step executes.
func (p *Processor) Confirm(ctx context.Context, edited string) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr := p.pending
	if pr == nil {
		return nil, fmt.Errorf("no pending confirmation for session %s", p.sessionID)
	}
	p.pending = nil

	if edited != "" {
		pr.draft.Content = edited
	}
	applyDraftContent(&pr.state.Plan.Steps[pr.stepIndex], pr.draft)

	exempt := pr.exempt
	if exempt == nil {
		exempt = make(map[int]bool)
	}
	exempt[pr.stepIndex] = true

	preface := []string{fmt.Sprintf("Draft confirmed for %s.", pr.draft.Target)}
	return p.gateAndExecute(ctx, pr.runID, pr.state, exempt, preface)
}

// Decline terminates a suspended run without executing anything.
func (p *Processor) Decline(ctx context.Context) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr := p.pending
	if pr == nil {
		return nil, fmt.Errorf("no pending confirmation for session %s", p.sessionID)
	}
	p.pending = nil

	resp := newResponse(pr.state.Plan, fmt.Sprintf("Draft declined for '%s'. No actions were executed.", pr.draft.ActionDescription))
	p.addMessage("agent", resp.Notes[0])
	return resp, nil
}

// gateAndExecute runs the policy gate and, if approved, the executor.
// Callers hold p.mu.
func (p *Processor) gateAndExecute(ctx context.Context, runID string, state *ProcessingState, exempt map[int]bool, preface []string) (*Response, error) {
	dec, err := p.gate.Evaluate(ctx, p.sessionID, state.Plan, exempt, p.confirmer)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation failed: %w", err)
	}
	p.logger.LogPolicy(p.sessionID, runID, dec.Approved, dec.Reason)

	if !dec.Approved {
		if dec.Draft != nil {
			p.pending = &pendingRun{
				runID:     runID,
				state:     state,
				stepIndex: dec.StepIndex,
				draft:     dec.Draft,
				exempt:    exempt,
			}
			p.logger.LogDraft(p.sessionID, runID, string(dec.Draft.Kind), dec.Draft.Target)
			observability.SetStatus(observability.RoleAwaiting, dec.Draft.ActionDescription)

			resp := newResponse(state.Plan, append(preface,
				fmt.Sprintf("Pipeline paused: %s. Confirm or decline the draft to %s.", dec.Reason, dec.Draft.Target))...)
			resp.Pending = &PendingConfirmation{RunID: runID, Draft: *dec.Draft}
			return resp, nil
		}

		resp := newResponse(state.Plan, append(preface,
			"Execution blocked: awaiting confirmation. "+dec.Reason)...)
		p.addMessage("agent", strings.Join(resp.Notes, "\n"))
		observability.SetStatus(observability.RoleIdle, "")
		return resp, nil
	}

	return p.execute(ctx, runID, state, preface)
}

// execute runs the approved plan step by step. A failing step is noted and
// skipped, never fatal to the run; only a failure outside the per-step
// boundary (a broken dispatch layer) propagates as an error.
func (p *Processor) execute(ctx context.Context, runID string, state *ProcessingState, preface []string) (*Response, error) {
	observability.SetStatus(observability.RoleExecuting, string(state.Intent))

	resp := newResponse(state.Plan, preface...)
	for _, step := range state.Plan.Steps {
		tool := p.registry.Get(step.Tool)
		if tool == nil {
			note := fmt.Sprintf("✗ %s failed: no tool registered for %q", step.Description, step.Tool)
			resp.Notes = append(resp.Notes, note)
			p.recordAction(runID, step.Tool, note)
			continue
		}

		res, err := tool.Execute(ctx, step.Inputs)
		if err != nil {
			note := fmt.Sprintf("✗ %s failed: %v", step.Description, err)
			resp.Notes = append(resp.Notes, note)
			p.recordAction(runID, step.Tool, note)
			continue
		}

		resp.Actions = append(resp.Actions, ExecutedAction{
			Tool:   step.Tool,
			Inputs: step.Inputs,
			Result: res,
		})
		resp.Diff.merge(res)

		note := fmt.Sprintf("✓ %s completed successfully", step.Description)
		resp.Notes = append(resp.Notes, note)
		p.logger.LogStep(p.sessionID, runID, step.Tool, note)
		p.recordAction(runID, step.Tool, note)
	}

	p.addMessage("agent", strings.Join(resp.Notes, "\n"))
	observability.SetStatus(observability.RoleIdle, "")
	return resp, nil
}

// hydrate fills step inputs with the raw text and caller context. Declared
// template inputs win over context values of the same name.
func hydrate(p *plan.Plan, text string, meta map[string]any, sessionID string) {
	for i := range p.Steps {
		in := p.Steps[i].Inputs
		if in == nil {
			in = make(map[string]any)
			p.Steps[i].Inputs = in
		}
		in["text"] = text
		in["session_id"] = sessionID
		for k, v := range meta {
			if _, exists := in[k]; !exists {
				in[k] = v
			}
		}
	}
}

// applyDraftContent pushes confirmed (possibly edited) draft content back
// into the outbound step's inputs so execution reflects what the user saw.
func applyDraftContent(step *plan.Step, draft *governance.OutboundDraft) {
	if step.Inputs == nil {
		step.Inputs = make(map[string]any)
	}
	step.Inputs["content"] = draft.Content
	switch draft.Kind {
	case governance.KindEmail:
		step.Inputs["body"] = draft.Content
	case governance.KindSMS:
		step.Inputs["message"] = draft.Content
	default:
		step.Inputs["payload"] = draft.Content
	}
}

func (p *Processor) addMessage(role, content string) {
	if p.store == nil {
		return
	}
	if err := p.store.AddMessage(p.sessionID, role, content); err != nil {
		p.logger.Log(observability.Event{
			Type:      observability.EventTypeStep,
			SessionID: p.sessionID,
			Data:      map[string]string{"error": "failed to persist message: " + err.Error()},
		})
	}
}

func (p *Processor) recordAction(runID, tool, note string) {
	if p.store == nil {
		return
	}
	_ = p.store.RecordAction(p.sessionID, runID, tool, note)
}
