package tools

import (
	"context"
)

// Record is one CRM entity touched by a tool invocation.
type Record map[string]any

// Result is the typed outcome of a tool invocation. Created/Updated/Deleted
// feed the run's diff; Source is a provenance string for citation.
type Result struct {
	Created []Record       `json:"created,omitempty"`
	Updated []Record       `json:"updated,omitempty"`
	Deleted []Record       `json:"deleted,omitempty"`
	Source  string         `json:"source,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Tool defines the interface for all agent capabilities.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, inputs map[string]any) (*Result, error)
}

// Registry manages the set of available tools.
type Registry struct {
	Tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		Tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(t Tool) {
	r.Tools[t.Name()] = t
}

func (r *Registry) Get(name string) Tool {
	return r.Tools[name]
}

// NewStubRegistry returns a registry covering the full tool vocabulary:
// the bespoke extractors plus stubs for everything else. Callers swap in
// real integrations over the stubs without touching executor control flow.
func NewStubRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewActionItemsTool())
	r.Register(NewLeadEmailTool())

	for name, desc := range map[string]string{
		NameAskQuestion:      "Ask the user a clarifying question.",
		NameCreateRecord:     "Create a CRM record (lead, task, meeting or note).",
		NameCreateReminder:   "Schedule a reminder for a record.",
		NameFetchKnowledge:   "Search the knowledge base for relevant snippets.",
		NameCheckCalendar:    "Check calendar availability.",
		NameGenerateSummary:  "Summarize a conversation or document.",
		NameGenerateSOP:      "Draft a standard operating procedure.",
		NameSendEmail:        "Send an email to a recipient.",
		NameSendSMS:          "Send an SMS to a phone number.",
		NameSendChat:         "Post a chat message to a channel.",
		NameAPIPost:          "POST a payload to an external endpoint.",
		NameSendNotification: "Notify a user or group.",
		NameDeleteData:       "Delete records permanently.",
		NameBulkUpdate:       "Apply an update across many records.",
		NameCreatePayment:    "Create a payment or charge.",
		NamePublishContent:   "Publish content to a shared space.",
	} {
		r.Register(NewStubTool(name, desc))
	}
	return r
}

func stringInput(inputs map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := inputs[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
