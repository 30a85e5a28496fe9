package agent

import (
	"strings"

	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

// DefaultClarificationThreshold is the confidence below which the pipeline
// short-circuits to a clarification response.
const DefaultClarificationThreshold = 0.6

const clarificationQuestion = "I couldn't confidently determine what you need. Could you clarify your request?"

var clarificationOptions = []string{
	"Summarize options",
	"Pull docs",
	"Escalate to human",
}

type validation struct {
	ok       bool
	question string
	options  []string
}

// validateAssumptions gates on the classifier's confidence score.
func validateAssumptions(state *ProcessingState, threshold float64) validation {
	if state.Confidence >= threshold {
		return validation{ok: true}
	}
	return validation{
		question: clarificationQuestion,
		options:  clarificationOptions,
	}
}

// clarificationResponse is the terminal response for a low-confidence run:
// a synthetic single-step plan, no actions, no diff.
func clarificationResponse(v validation) *Response {
	p := plan.Plan{Steps: []plan.Step{{
		Description:     "Clarification needed",
		Tool:            tools.NameAskQuestion,
		Inputs:          map[string]any{"question": v.question},
		SuccessCriteria: "User provides additional detail",
	}}}

	resp := newResponse(p, v.question)
	resp.Notes = append(resp.Notes, "Options: "+strings.Join(v.options, " | "))
	return resp
}
