package gateway

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/veloracrm/spade/internal/agent"
	"github.com/veloracrm/spade/internal/governance"
	"github.com/veloracrm/spade/internal/store"
)

// TelegramGateway routes chat messages into per-chat processors and relays
// draft confirmations back. Each chat ID is its own session.
type TelegramGateway struct {
	Bot      *tgbotapi.BotAPI
	Sessions *agent.Manager
	History  *store.Store

	mu        sync.Mutex
	decisions map[string]chan bool
}

func NewTelegramGateway(token string) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:       bot,
		decisions: make(map[string]chan bool),
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		// Each update gets its own goroutine. ConfirmAction blocks a run
		// until the user's next /approve or /deny, so the update loop must
		// never be the thing doing the waiting.
		go tg.handleMessage(update.Message)
	}
	return nil
}

func (tg *TelegramGateway) handleMessage(msg *tgbotapi.Message) {
	chatID := fmt.Sprintf("%d", msg.Chat.ID)
	ctx := context.Background()

	text := strings.TrimSpace(msg.Text)
	cmd, rest := splitCommand(text)

	switch cmd {
	case "/approve", "/deny":
		if tg.resolveDecision(chatID, cmd == "/approve") {
			return
		}
		tg.reply(msg.Chat.ID, "Nothing is waiting for approval.")
		return

	case "/confirm":
		proc := tg.Sessions.Session(chatID)
		resp, err := proc.Confirm(ctx, rest)
		tg.deliver(msg.Chat.ID, resp, err)
		return

	case "/decline":
		proc := tg.Sessions.Session(chatID)
		resp, err := proc.Decline(ctx)
		tg.deliver(msg.Chat.ID, resp, err)
		return

	case "/history":
		tg.reply(msg.Chat.ID, tg.renderHistory(chatID))
		return
	}

	proc := tg.Sessions.Session(chatID)
	resp, err := proc.Process(ctx, text, nil)
	tg.deliver(msg.Chat.ID, resp, err)
}

func splitCommand(text string) (cmd, rest string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	parts := strings.SplitN(text, " ", 2)
	if len(parts) == 2 {
		return parts[0], strings.TrimSpace(parts[1])
	}
	return parts[0], ""
}

func (tg *TelegramGateway) deliver(chatID int64, resp *agent.Response, err error) {
	if err != nil {
		tg.reply(chatID, "⚠️ "+err.Error())
		return
	}
	tg.reply(chatID, renderResponse(resp))
}

// renderResponse flattens a pipeline response into one chat message: notes,
// then the diff summary, then the draft preview when the run is paused.
func renderResponse(resp *agent.Response) string {
	var b strings.Builder

	for _, note := range resp.Notes {
		b.WriteString(note)
		b.WriteString("\n")
	}

	if n := len(resp.Diff.Created) + len(resp.Diff.Updated) + len(resp.Diff.Deleted); n > 0 {
		fmt.Fprintf(&b, "\nChanges: %d created, %d updated, %d deleted\n",
			len(resp.Diff.Created), len(resp.Diff.Updated), len(resp.Diff.Deleted))
	}
	for _, src := range resp.Diff.Sources {
		b.WriteString("  • " + src + "\n")
	}

	if resp.Pending != nil {
		d := resp.Pending.Draft
		fmt.Fprintf(&b, "\n📝 *Draft %s* to %s:\n%s\n", d.Kind, d.Target, d.Content)
		b.WriteString("\nReply /confirm to send as-is, /confirm <new text> to edit, or /decline to cancel.")
	}

	return strings.TrimRight(b.String(), "\n")
}

const historyLimit = 10

func (tg *TelegramGateway) renderHistory(chatID string) string {
	if tg.History == nil {
		return "History is not available."
	}
	msgs, err := tg.History.GetHistory(chatID, historyLimit)
	if err != nil {
		return "⚠️ " + err.Error()
	}
	if len(msgs) == 0 {
		return "No history for this chat yet."
	}

	var b strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&b, "*%s*: %s\n", m.Role, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ConfirmAction implements governance.Confirmer. It prompts the chat and
// blocks until the user replies /approve or /deny, or ctx expires.
func (tg *TelegramGateway) ConfirmAction(ctx context.Context, req governance.ActionRequest) (bool, error) {
	ch := make(chan bool, 1)

	tg.mu.Lock()
	if _, busy := tg.decisions[req.SessionID]; busy {
		tg.mu.Unlock()
		return false, fmt.Errorf("session %s already has a decision in flight", req.SessionID)
	}
	tg.decisions[req.SessionID] = ch
	tg.mu.Unlock()

	defer func() {
		tg.mu.Lock()
		delete(tg.decisions, req.SessionID)
		tg.mu.Unlock()
	}()

	prompt := fmt.Sprintf("⚠️ *%s* is irreversible (%s).\n%s\n\nReply /approve or /deny.",
		req.Tool, req.Kind, req.Description)
	if err := tg.Send(req.SessionID, prompt); err != nil {
		return false, err
	}

	select {
	case approved := <-ch:
		return approved, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (tg *TelegramGateway) resolveDecision(sessionID string, approved bool) bool {
	tg.mu.Lock()
	ch, ok := tg.decisions[sessionID]
	tg.mu.Unlock()
	if !ok {
		return false
	}
	ch <- approved
	return true
}

func (tg *TelegramGateway) reply(chatID int64, text string) {
	if text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := tg.Bot.Send(msg); err != nil {
		log.Printf("Failed to send message to %d: %v", chatID, err)
	}
}

func (tg *TelegramGateway) Send(chatID string, text string) error {
	id := 0
	fmt.Sscanf(chatID, "%d", &id)
	if id == 0 {
		return fmt.Errorf("invalid chat ID: %s", chatID)
	}

	msg := tgbotapi.NewMessage(int64(id), text)
	msg.ParseMode = "Markdown"
	_, err := tg.Bot.Send(msg)
	return err
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}
