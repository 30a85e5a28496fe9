package intent

import (
	"regexp"
	"strings"
)

// Transcript detection is an OR of several weak signals. Any single strong
// marker (timestamps, bracket speakers, explicit labels) is enough; plain
// "Name:" turns additionally require enough text to rule out short notes.
var (
	speakerTurn       = regexp.MustCompile(`^\s*[A-Z][\w .'-]{0,30}:\s*\S`)
	timestampLine     = regexp.MustCompile(`(?m)^\s*\d{1,2}:\d{2}(?::\d{2})?\b.*:`)
	bracketSpeaker    = regexp.MustCompile(`\[[^\]\n]+\]:`)
	speakerLabel      = regexp.MustCompile(`(?i)\b(?:speaker|participant)\s*\d+\s*:`)
	transcriptMention = regexp.MustCompile(`(?i)\b(?:meeting|call|conversation)\s+transcript\b`)
)

const transcriptMinLength = 200

func looksLikeTranscript(text string) bool {
	if countDistinctSpeakers(text) >= 2 && len(text) > transcriptMinLength {
		return true
	}
	if timestampLine.MatchString(text) {
		return true
	}
	if bracketSpeaker.MatchString(text) {
		return true
	}
	if speakerLabel.MatchString(text) {
		return true
	}
	if hasConsecutiveSpeakerLines(text) {
		return true
	}
	return transcriptMention.MatchString(text)
}

// countDistinctSpeakers counts unique "Name:" prefixes across lines.
func countDistinctSpeakers(text string) int {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(text, "\n") {
		if !speakerTurn.MatchString(line) {
			continue
		}
		name := strings.TrimSpace(line[:strings.Index(line, ":")])
		seen[name] = struct{}{}
	}
	return len(seen)
}

// hasConsecutiveSpeakerLines reports whether two adjacent lines both look
// like speaker turns, the usual shape of a pasted dialogue.
func hasConsecutiveSpeakerLines(text string) bool {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if speakerTurn.MatchString(lines[i-1]) && speakerTurn.MatchString(lines[i]) {
			return true
		}
	}
	return false
}
