package tools

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StubTool stands in for a real integration. It produces a synthetic created
// record tagged with the tool name so the diff and audit trail stay truthful
// about what would have happened.
type StubTool struct {
	name        string
	description string
}

func NewStubTool(name, description string) *StubTool {
	return &StubTool{name: name, description: description}
}

func (s *StubTool) Name() string {
	return s.name
}

func (s *StubTool) Description() string {
	return s.description
}

func (s *StubTool) Execute(ctx context.Context, inputs map[string]any) (*Result, error) {
	rec := Record{
		"id":         uuid.NewString(),
		"type":       s.name,
		"created_at": time.Now().UTC().Format(time.RFC3339),
		"inputs":     inputs,
	}
	return &Result{
		Created: []Record{rec},
		Source:  "Tool: " + s.name,
	}, nil
}
