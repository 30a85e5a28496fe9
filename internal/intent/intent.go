package intent

import (
	"regexp"
	"strings"
)

// Intent is the closed-vocabulary classification of a user request.
type Intent string

const (
	CreateLead        Intent = "create_lead"
	CreateTask        Intent = "create_task"
	ScheduleMeeting   Intent = "schedule_meeting"
	ProcessTranscript Intent = "process_transcript"
	CreateSOP         Intent = "create_sop"
	Unknown           Intent = "unknown"
)

// Classification is the result of classifying one input.
type Classification struct {
	Intent     Intent
	Confidence float64
}

// Confidence tiers. These are coarse heuristics, not probabilities;
// the exact values are part of the engine's observable contract.
const (
	confidenceUnknown    = 0.3
	confidenceShortInput = 0.5
	confidenceRecognized = 0.8

	shortInputLength = 10
)

var (
	sopWord         = regexp.MustCompile(`(?i)\bsop\b`)
	leadKeywords    = regexp.MustCompile(`(?i)\b(lead|contact|prospect)s?\b`)
	taskKeywords    = regexp.MustCompile(`(?i)\b(task|todo|reminder)s?\b`)
	meetingKeywords = regexp.MustCompile(`(?i)\b(meeting|schedule|appointment)s?\b`)
)

// Classify maps free text to an intent with a confidence score.
// It is a pure function of its arguments: the same text and context
// always produce the same result.
func Classify(text string, context map[string]any) Classification {
	it := detect(text)

	confidence := confidenceRecognized
	switch {
	case it == Unknown:
		confidence = confidenceUnknown
	case len(strings.TrimSpace(text)) < shortInputLength:
		confidence = confidenceShortInput
	}

	return Classification{Intent: it, Confidence: confidence}
}

// detect applies the detection rules in priority order; first match wins.
func detect(text string) Intent {
	lower := strings.ToLower(text)

	if isSOPRequest(text, lower) {
		return CreateSOP
	}
	if looksLikeTranscript(text) {
		return ProcessTranscript
	}
	if leadKeywords.MatchString(text) {
		return CreateLead
	}
	if taskKeywords.MatchString(text) {
		return CreateTask
	}
	if meetingKeywords.MatchString(text) {
		return ScheduleMeeting
	}
	return Unknown
}

func isSOPRequest(text, lower string) bool {
	if sopWord.MatchString(text) {
		return true
	}
	if strings.Contains(lower, "standard operating procedure") {
		return true
	}
	if strings.Contains(lower, "process document") {
		return true
	}
	// "turn this doc into ..." style requests.
	return strings.Contains(lower, "turn") && strings.Contains(lower, "doc")
}
