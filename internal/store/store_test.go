package store

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHistoryRoundTrip(t *testing.T) {
	s := openTestStore(t)

	msgs := []Message{
		{Role: "user", Content: "create a task for the proposal"},
		{Role: "agent", Content: "✓ Create the task record completed successfully"},
		{Role: "user", Content: "thanks"},
	}
	for _, m := range msgs {
		if err := s.AddMessage("chat-1", m.Role, m.Content); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddMessage("chat-2", "user", "unrelated"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetHistory("chat-1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got))
	}
	for i, m := range msgs {
		if got[i] != m {
			t.Errorf("message %d = %+v, want %+v", i, got[i], m)
		}
	}

	// Limit keeps the most recent messages, still chronological.
	got, err = s.GetHistory("chat-1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Content != "thanks" {
		t.Errorf("unexpected limited history: %+v", got)
	}
}

func TestReminderLifecycle(t *testing.T) {
	s := openTestStore(t)

	if err := s.AddReminder("chat-1", "call Dana", 0); err != nil {
		t.Fatal(err)
	}
	if err := s.AddReminder("chat-1", "weekly pipeline review", 604800); err != nil {
		t.Fatal(err)
	}

	due, err := s.DueReminders()
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due reminders (last_run backdated), got %d", len(due))
	}

	// Marking a run pushes a recurring reminder out of the due window.
	if err := s.MarkReminderRun(due[1].ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteReminder(due[0].ID); err != nil {
		t.Fatal(err)
	}

	due, err = s.DueReminders()
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("expected no due reminders, got %+v", due)
	}

	if err := s.AddReminder("chat-1", "one more", 60); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearReminders("chat-1"); err != nil {
		t.Fatal(err)
	}
	due, _ = s.DueReminders()
	if len(due) != 0 {
		t.Errorf("expected cleared reminders, got %+v", due)
	}
}

func TestActionAudit(t *testing.T) {
	s := openTestStore(t)

	if err := s.RecordAction("chat-1", "run-1", "create_record", "✓ Create the task record completed successfully"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAction("chat-1", "run-1", "create_reminder", "✗ Schedule a reminder for the task failed: boom"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordAction("chat-1", "run-2", "fetch_knowledge", "✓ Attach related knowledge to the task completed successfully"); err != nil {
		t.Fatal(err)
	}

	records, err := s.ActionsForRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records for run-1, got %d", len(records))
	}
	if records[0].Tool != "create_record" || records[1].Tool != "create_reminder" {
		t.Errorf("audit order not preserved: %+v", records)
	}
}
