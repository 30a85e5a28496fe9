package governance

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/veloracrm/spade/internal/plan"
	"github.com/veloracrm/spade/internal/tools"
)

// DraftKind labels what an outbound draft or confirmation request would do.
type DraftKind string

const (
	KindEmail      DraftKind = "email"
	KindSMS        DraftKind = "sms"
	KindAPIPost    DraftKind = "api_post"
	KindDelete     DraftKind = "delete"
	KindBulkUpdate DraftKind = "bulk_update"
)

// OutboundDraft is a staged, user-reviewable rendering of an outbound action.
// Nothing is sent until the caller confirms it, possibly after editing the
// content.
type OutboundDraft struct {
	ID                string         `json:"id"`
	Kind              DraftKind      `json:"kind"`
	Target            string         `json:"target"`
	Content           string         `json:"content"`
	ActionDescription string         `json:"action_description"`
	Inputs            map[string]any `json:"inputs"`
}

// synthesizeDraft derives a draft from an outbound step. Target and content
// fall back to visible placeholders rather than failing: the user reviews
// the draft either way.
func synthesizeDraft(step plan.Step) *OutboundDraft {
	in := step.Inputs
	d := &OutboundDraft{
		ID:                uuid.NewString(),
		ActionDescription: step.Description,
		Inputs:            in,
	}

	switch step.Tool {
	case tools.NameSendEmail:
		d.Kind = KindEmail
		d.Target = firstString(in, "email", "to")
		if d.Target == "" {
			d.Target = "[missing recipient]"
		}
		body := firstString(in, "body", "message", "text")
		if subject := firstString(in, "subject"); subject != "" {
			d.Content = fmt.Sprintf("Subject: %s\n\n%s", subject, body)
		} else {
			d.Content = body
		}

	case tools.NameSendSMS:
		d.Kind = KindSMS
		d.Target = firstString(in, "phone", "to")
		if d.Target == "" {
			d.Target = "[missing number]"
		}
		d.Content = firstString(in, "message", "text")

	case tools.NameAPIPost:
		d.Kind = KindAPIPost
		d.Target = firstString(in, "endpoint", "url")
		if d.Target == "" {
			d.Target = "[missing endpoint]"
		}
		if payload, ok := in["payload"]; ok {
			if data, err := json.Marshal(payload); err == nil {
				d.Content = string(data)
			}
		}
		if d.Content == "" {
			d.Content = firstString(in, "text")
		}

	default:
		// send_chat, send_notification and anything added by rule files.
		d.Kind = KindAPIPost
		d.Target = firstString(in, "channel", "to")
		if d.Target == "" {
			d.Target = "[unspecified target]"
		}
		d.Content = firstString(in, "message", "text")
	}

	return d
}

func firstString(inputs map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := inputs[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
