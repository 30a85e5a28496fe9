package governance

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

func step(tool string, inputs map[string]any) plan.Step {
	if inputs == nil {
		inputs = map[string]any{}
	}
	return plan.Step{Description: "step using " + tool, Tool: tool, Inputs: inputs}
}

func neverConfirm(t *testing.T) Confirmer {
	return ConfirmerFunc(func(ctx context.Context, req ActionRequest) (bool, error) {
		t.Fatalf("confirmer must not be called, got request for %s", req.Tool)
		return false, nil
	})
}

func TestEvaluateApprovesSafePlan(t *testing.T) {
	g := NewGate()
	p := plan.Plan{Steps: []plan.Step{
		step(tools.NameCreateRecord, nil),
		step(tools.NameFetchKnowledge, nil),
	}}

	dec, err := g.Evaluate(context.Background(), "s1", p, nil, neverConfirm(t))
	require.NoError(t, err)
	assert.True(t, dec.Approved)
	assert.Nil(t, dec.Draft)
	assert.Equal(t, -1, dec.StepIndex)
}

func TestEvaluateOutboundHaltsWithDraft(t *testing.T) {
	g := NewGate()
	p := plan.Plan{Steps: []plan.Step{
		step(tools.NameCreateRecord, nil),
		step(tools.NameSendEmail, map[string]any{
			"email":   "a@b.com",
			"subject": "Welcome aboard",
			"body":    "Thanks for your interest.",
		}),
		step(tools.NameSendSMS, map[string]any{"phone": "+15550100"}),
	}}

	dec, err := g.Evaluate(context.Background(), "s1", p, nil, neverConfirm(t))
	require.NoError(t, err)
	assert.False(t, dec.Approved)
	require.NotNil(t, dec.Draft)
	assert.Equal(t, 1, dec.StepIndex)
	assert.Equal(t, KindEmail, dec.Draft.Kind)
	assert.Equal(t, "a@b.com", dec.Draft.Target)
	assert.Equal(t, "Subject: Welcome aboard\n\nThanks for your interest.", dec.Draft.Content)
	assert.NotEmpty(t, dec.Draft.ID)
}

func TestEvaluateOutboundPreemptsIrreversible(t *testing.T) {
	g := NewGate()
	// Irreversible step comes first in plan order; the outbound draft must
	// still win and the confirmer must never be consulted.
	p := plan.Plan{Steps: []plan.Step{
		step(tools.NameDeleteData, nil),
		step(tools.NameSendSMS, map[string]any{"phone": "+15550100", "message": "heads up"}),
	}}

	dec, err := g.Evaluate(context.Background(), "s1", p, nil, neverConfirm(t))
	require.NoError(t, err)
	assert.False(t, dec.Approved)
	require.NotNil(t, dec.Draft)
	assert.Equal(t, KindSMS, dec.Draft.Kind)
	assert.Equal(t, 1, dec.StepIndex)
}

func TestEvaluateIrreversibleConfirmation(t *testing.T) {
	g := NewGate()
	p := plan.Plan{Steps: []plan.Step{
		step(tools.NameFetchKnowledge, nil),
		step(tools.NamePublishContent, nil),
	}}

	var got []ActionRequest
	approve := ConfirmerFunc(func(ctx context.Context, req ActionRequest) (bool, error) {
		got = append(got, req)
		return true, nil
	})

	dec, err := g.Evaluate(context.Background(), "s1", p, nil, approve)
	require.NoError(t, err)
	assert.True(t, dec.Approved)
	require.Len(t, got, 1)
	assert.Equal(t, tools.NamePublishContent, got[0].Tool)
	assert.Equal(t, KindBulkUpdate, got[0].Kind)
	assert.Equal(t, "s1", got[0].SessionID)

	deny := ConfirmerFunc(func(ctx context.Context, req ActionRequest) (bool, error) {
		return false, nil
	})
	dec, err = g.Evaluate(context.Background(), "s1", p, nil, deny)
	require.NoError(t, err)
	assert.False(t, dec.Approved)
	assert.Nil(t, dec.Draft)
	assert.Equal(t, "awaiting confirmation", dec.Reason)

	// No confirmer wired means the step cannot proceed.
	dec, err = g.Evaluate(context.Background(), "s1", p, nil, nil)
	require.NoError(t, err)
	assert.False(t, dec.Approved)
}

func TestEvaluateDeleteKind(t *testing.T) {
	g := NewGate()
	p := plan.Plan{Steps: []plan.Step{step(tools.NameDeleteData, nil)}}

	var kind DraftKind
	confirm := ConfirmerFunc(func(ctx context.Context, req ActionRequest) (bool, error) {
		kind = req.Kind
		return true, nil
	})

	_, err := g.Evaluate(context.Background(), "s1", p, nil, confirm)
	require.NoError(t, err)
	assert.Equal(t, KindDelete, kind)
}

func TestEvaluateExemptSkipsOutboundScan(t *testing.T) {
	g := NewGate()
	p := plan.Plan{Steps: []plan.Step{
		step(tools.NameCreateRecord, nil),
		step(tools.NameSendEmail, map[string]any{"email": "a@b.com"}),
	}}

	dec, err := g.Evaluate(context.Background(), "s1", p, map[int]bool{1: true}, neverConfirm(t))
	require.NoError(t, err)
	assert.True(t, dec.Approved)
}

func TestEvaluateDenyRules(t *testing.T) {
	g := NewGate()
	g.DenyTool(tools.NameCreatePayment)
	require.NoError(t, g.DenyArguments(`(?i)drop\s+table`))

	p := plan.Plan{Steps: []plan.Step{step(tools.NameCreatePayment, nil)}}
	dec, err := g.Evaluate(context.Background(), "s1", p, nil, nil)
	require.NoError(t, err)
	assert.False(t, dec.Approved)
	assert.Contains(t, dec.Reason, "restricted by system policy")

	p = plan.Plan{Steps: []plan.Step{
		step(tools.NameCreateRecord, map[string]any{"text": "please DROP TABLE leads"}),
	}}
	dec, err = g.Evaluate(context.Background(), "s1", p, nil, nil)
	require.NoError(t, err)
	assert.False(t, dec.Approved)
	assert.Contains(t, dec.Reason, "restricted pattern")

	assert.Error(t, g.DenyArguments(`([`))
}

func TestDraftFallbacks(t *testing.T) {
	d := synthesizeDraft(step(tools.NameSendEmail, map[string]any{"message": "hi there"}))
	assert.Equal(t, "[missing recipient]", d.Target)
	assert.Equal(t, "hi there", d.Content)

	d = synthesizeDraft(step(tools.NameAPIPost, map[string]any{
		"endpoint": "https://hooks.example.com/crm",
		"payload":  map[string]any{"event": "lead_created"},
	}))
	assert.Equal(t, KindAPIPost, d.Kind)
	assert.Equal(t, "https://hooks.example.com/crm", d.Target)
	assert.JSONEq(t, `{"event":"lead_created"}`, d.Content)

	d = synthesizeDraft(step(tools.NameSendNotification, map[string]any{"message": "meeting at 3"}))
	assert.Equal(t, KindAPIPost, d.Kind)
	assert.Equal(t, "[unspecified target]", d.Target)
	assert.Equal(t, "meeting at 3", d.Content)
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	rules := `
outbound:
  - broadcast_update
irreversible:
  - archive_account
deny_tools:
  - create_payment
deny_arguments:
  - '(?i)drop\s+table'
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	g := NewGate()
	require.NoError(t, g.LoadRules(path))
	assert.True(t, g.Outbound["broadcast_update"])
	assert.True(t, g.Irreversible["archive_account"])
	assert.True(t, g.DeniedTools["create_payment"])
	assert.Len(t, g.DeniedRegex, 1)

	assert.Error(t, g.LoadRules(filepath.Join(dir, "missing.yaml")))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("deny_arguments:\n  - '(['\n"), 0o644))
	assert.Error(t, g.LoadRules(bad))
}
