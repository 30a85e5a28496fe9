package tools

import (
	"context"
	"fmt"
)

// ReminderStore persists reminders for the scheduler to pick up.
type ReminderStore interface {
	AddReminder(sessionID, description string, intervalSeconds int) error
}

// ReminderTool is the real create_reminder integration, backed by the store.
type ReminderTool struct {
	Store ReminderStore
}

func NewReminderTool(store ReminderStore) *ReminderTool {
	return &ReminderTool{Store: store}
}

func (r *ReminderTool) Name() string {
	return NameCreateReminder
}

func (r *ReminderTool) Description() string {
	return "Schedule a reminder; interval_seconds of 0 means a one-shot reminder."
}

func (r *ReminderTool) Execute(ctx context.Context, inputs map[string]any) (*Result, error) {
	sessionID := stringInput(inputs, "session_id")
	if sessionID == "" {
		return nil, fmt.Errorf("create_reminder requires a session_id input")
	}

	description := stringInput(inputs, "reminder", "text")
	interval := 0
	switch v := inputs["interval_seconds"].(type) {
	case int:
		interval = v
	case float64:
		interval = int(v)
	}

	if err := r.Store.AddReminder(sessionID, description, interval); err != nil {
		return nil, fmt.Errorf("failed to schedule reminder: %w", err)
	}

	return &Result{
		Created: []Record{{
			"type":             "reminder",
			"description":      description,
			"interval_seconds": interval,
		}},
		Source: "Tool: " + NameCreateReminder,
	}, nil
}
