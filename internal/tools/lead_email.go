package tools

import (
	"context"
	"regexp"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// FirstEmail returns the first email-looking token in text, if any.
func FirstEmail(text string) (string, bool) {
	match := emailPattern.FindString(text)
	return match, match != ""
}

// LeadEmailTool detects a lead's email address in free text.
type LeadEmailTool struct{}

func NewLeadEmailTool() *LeadEmailTool {
	return &LeadEmailTool{}
}

func (l *LeadEmailTool) Name() string {
	return NameIdentifyLeadEmail
}

func (l *LeadEmailTool) Description() string {
	return "Identify the lead's email address in the input text."
}

func (l *LeadEmailTool) Execute(ctx context.Context, inputs map[string]any) (*Result, error) {
	text := stringInput(inputs, "text", "transcript")

	payload := map[string]any{"found": false}
	if email, ok := FirstEmail(text); ok {
		payload["found"] = true
		payload["email"] = email
	}

	return &Result{
		Source:  "Tool: " + NameIdentifyLeadEmail,
		Payload: payload,
	}, nil
}
