package agent

import (
	"context"
	"log"
	"time"

	"github.com/veloracrm/spade/internal/observability"
	"github.com/veloracrm/spade/internal/store"
)

// Messenger is the outbound notification surface the scheduler needs. The
// Telegram gateway satisfies it.
type Messenger interface {
	Send(chatID string, text string) error
}

const schedulerInterval = 30 * time.Second

// Scheduler polls the reminder table and pushes due reminders out through
// the messenger. One-shot reminders (interval 0) are deleted after firing;
// recurring ones have their last-run timestamp advanced.
type Scheduler struct {
	Store     *store.Store
	Messenger Messenger
	Logger    *observability.Logger
}

func NewScheduler(st *store.Store, m Messenger, logger *observability.Logger) *Scheduler {
	return &Scheduler{Store: st, Messenger: m, Logger: logger}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(schedulerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	observability.Heartbeat()
	s.Logger.LogHeartbeat()

	due, err := s.Store.DueReminders()
	if err != nil {
		log.Printf("Scheduler: failed to query reminders: %v", err)
		return
	}

	for _, r := range due {
		if err := s.Messenger.Send(r.SessionID, "⏰ Reminder: "+r.Description); err != nil {
			log.Printf("Scheduler: failed to deliver reminder %d: %v", r.ID, err)
			continue
		}

		if r.IntervalSeconds == 0 {
			if err := s.Store.DeleteReminder(r.ID); err != nil {
				log.Printf("Scheduler: failed to delete reminder %d: %v", r.ID, err)
			}
			continue
		}
		if err := s.Store.MarkReminderRun(r.ID); err != nil {
			log.Printf("Scheduler: failed to mark reminder %d: %v", r.ID, err)
		}
	}
}
