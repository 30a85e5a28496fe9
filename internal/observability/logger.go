package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeIntent      EventType = "intent"
	EventTypePlan        EventType = "plan"
	EventTypePolicyCheck EventType = "policy_check"
	EventTypeDraft       EventType = "draft"
	EventTypeStep        EventType = "step"
	EventTypeHeartbeat   EventType = "heartbeat"
)

// auditedEvents are additionally persisted to the audit file.
var auditedEvents = map[EventType]bool{
	EventTypePolicyCheck: true,
	EventTypeDraft:       true,
	EventTypeStep:        true,
}

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	auditLogPath string
	maxSize      int64
}

func NewLogger() *Logger {
	return &Logger{
		auditLogPath: filepath.Join("logs", "audit.jsonl"),
		maxSize:      10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout. Safe on a nil receiver so
// callers can run without observability wired.
func (l *Logger) Log(evt Event) {
	if l == nil {
		return
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if auditedEvents[evt.Type] {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.auditLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.auditLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.auditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.auditLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.auditLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogIntent(sessionID, detected string, confidence float64) {
	l.Log(Event{
		Type:      EventTypeIntent,
		SessionID: sessionID,
		Data: map[string]any{
			"intent":     detected,
			"confidence": confidence,
		},
	})
}

func (l *Logger) LogPlan(sessionID, runID, intent string, steps int) {
	l.Log(Event{
		Type:      EventTypePlan,
		SessionID: sessionID,
		RunID:     runID,
		Data: map[string]any{
			"intent": intent,
			"steps":  steps,
		},
	})
}

func (l *Logger) LogPolicy(sessionID, runID string, approved bool, reason string) {
	l.Log(Event{
		Type:      EventTypePolicyCheck,
		SessionID: sessionID,
		RunID:     runID,
		Data: map[string]any{
			"approved": approved,
			"reason":   reason,
		},
	})
}

func (l *Logger) LogDraft(sessionID, runID, kind, target string) {
	l.Log(Event{
		Type:      EventTypeDraft,
		SessionID: sessionID,
		RunID:     runID,
		Data: map[string]string{
			"kind":   kind,
			"target": target,
		},
	})
}

func (l *Logger) LogStep(sessionID, runID, tool, note string) {
	l.Log(Event{
		Type:      EventTypeStep,
		SessionID: sessionID,
		RunID:     runID,
		Data: map[string]string{
			"tool": tool,
			"note": note,
		},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]string{"status": "alive"},
	})
}
