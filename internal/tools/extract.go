package tools

import (
	"context"
	"regexp"
	"strings"
	"unicode"
)

// Four regex families vote on candidate action items. The thresholds below
// (length bounds, cap of 7, minimum of 3 before trusting the extraction) are
// tested behavior; do not tune them casually.
var (
	sentenceSplit = regexp.MustCompile(`[.!?\n]+`)
	modalPhrase   = regexp.MustCompile(`(?i)\b(will|going to|need to|should|must|have to|action item|follow up|next step)\b`)
	actionLine    = regexp.MustCompile(`(?i)\b(action|todo|task|follow[ -]?up|next step)s?\b`)
	commitment    = regexp.MustCompile(`(?i)\b(?:I|we|they|he|she)'ll\b[^.!?\n]*`)
	ownership     = regexp.MustCompile(`(?i)\b(?:assigned(?: to)?|responsible(?: for)?|owner)\b[^.!?\n]*`)
)

const (
	actionItemMinLength = 10
	actionItemMaxLength = 150
	actionItemCap       = 7
	actionItemMinCount  = 3
)

// fallbackActionItems is returned whole when extraction finds too few
// candidates to be trustworthy. Never return a partial list.
var fallbackActionItems = []string{
	"Follow up on discussed items",
	"Review meeting outcomes",
	"Share relevant documentation",
	"Schedule next check-in",
}

// ExtractActionItems pulls likely commitments out of a transcript.
func ExtractActionItems(text string) []string {
	seen := make(map[string]struct{})
	var items []string

	add := func(candidate string) {
		candidate = strings.TrimFunc(candidate, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if len(candidate) <= actionItemMinLength || len(candidate) >= actionItemMaxLength {
			return
		}
		if _, dup := seen[candidate]; dup {
			return
		}
		seen[candidate] = struct{}{}
		items = append(items, candidate)
	}

	for _, sentence := range sentenceSplit.Split(text, -1) {
		if modalPhrase.MatchString(sentence) {
			add(sentence)
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if actionLine.MatchString(line) {
			add(line)
		}
	}
	for _, match := range commitment.FindAllString(text, -1) {
		add(match)
	}
	for _, match := range ownership.FindAllString(text, -1) {
		add(match)
	}

	if len(items) > actionItemCap {
		items = items[:actionItemCap]
	}
	if len(items) < actionItemMinCount {
		return append([]string(nil), fallbackActionItems...)
	}
	return items
}

// ActionItemsTool exposes the extraction heuristic as an executor tool.
type ActionItemsTool struct{}

func NewActionItemsTool() *ActionItemsTool {
	return &ActionItemsTool{}
}

func (a *ActionItemsTool) Name() string {
	return NameExtractActionItems
}

func (a *ActionItemsTool) Description() string {
	return "Extract action items and commitments from a transcript."
}

func (a *ActionItemsTool) Execute(ctx context.Context, inputs map[string]any) (*Result, error) {
	text := stringInput(inputs, "transcript", "text")
	items := ExtractActionItems(text)

	created := make([]Record, 0, len(items))
	for _, item := range items {
		created = append(created, Record{
			"type": "action_item",
			"text": item,
		})
	}

	return &Result{
		Created: created,
		Source:  "Tool: " + NameExtractActionItems,
		Payload: map[string]any{"action_items": items},
	}, nil
}
