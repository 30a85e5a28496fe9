package plan

import (
	"testing"

	"github.com/veloracrm/spade/internal/intent"
	"github.com/veloracrm/spade/internal/tools"
)

func TestBuildTables(t *testing.T) {
	for _, it := range []intent.Intent{
		intent.CreateLead,
		intent.CreateTask,
		intent.ScheduleMeeting,
		intent.ProcessTranscript,
		intent.CreateSOP,
	} {
		p := Build(it)
		if len(p.Steps) < 3 || len(p.Steps) > 4 {
			t.Errorf("%s: expected 3-4 steps, got %d", it, len(p.Steps))
		}
		for i, s := range p.Steps {
			if s.Tool == "" || s.Description == "" || s.SuccessCriteria == "" {
				t.Errorf("%s step %d is incomplete: %+v", it, i, s)
			}
		}
	}
}

func TestBuildUnknownAsksQuestion(t *testing.T) {
	p := Build(intent.Unknown)
	if len(p.Steps) != 1 {
		t.Fatalf("expected single clarification step, got %d", len(p.Steps))
	}
	if p.Steps[0].Tool != tools.NameAskQuestion {
		t.Errorf("expected ask_question, got %s", p.Steps[0].Tool)
	}

	// Unmapped intents fall back to the clarification plan too.
	p = Build(intent.Intent("something_else"))
	if len(p.Steps) != 1 || p.Steps[0].Tool != tools.NameAskQuestion {
		t.Errorf("unexpected fallback plan: %+v", p)
	}
}

func TestBuildTranscriptStartsWithExtraction(t *testing.T) {
	p := Build(intent.ProcessTranscript)
	if p.Steps[0].Tool != tools.NameExtractActionItems {
		t.Errorf("transcript plan must start with extract_action_items, got %s", p.Steps[0].Tool)
	}
}

func TestBuildReturnsIsolatedCopies(t *testing.T) {
	first := Build(intent.CreateLead)
	first.Steps[1].Inputs["record_type"] = "mutated"
	first.Steps[0].Description = "mutated"

	second := Build(intent.CreateLead)
	if second.Steps[1].Inputs["record_type"] != "lead" {
		t.Error("template inputs leaked between builds")
	}
	if second.Steps[0].Description == "mutated" {
		t.Error("template steps leaked between builds")
	}
}
