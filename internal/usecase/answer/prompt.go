package answer

import (
	"strings"
	"time"
)

const lastUpdatedPrefix = "Last updated from sources: "

// placeholder of the same length as a rendered date, used for budgeting
const datePlaceholder = "0000-00-00"

const systemInstructionBase = `You are a factual FAQ assistant for HDFC mutual fund schemes.

Rules:
- Answer ONLY from the provided context. If the context does not contain the answer, say so.
- Answer factual questions only: expense ratio, minimum SIP, exit load, NAV, tax implications.
- Keep the answer to at most 3 sentences.
- Cite the source URL from the context.
- Do not speculate, compare performance, or give investment advice.`

// SystemInstruction renders the instruction for a context last updated on date
func SystemInstruction(date string) string {
	if date == "" {
		return systemInstructionBase
	}
	return systemInstructionBase + "\n- End with \"" + lastUpdatedPrefix + date + "\"."
}

// FormatDate reduces an extraction timestamp to YYYY-MM-DD
func FormatDate(extractedAt string) string {
	extractedAt = strings.TrimSpace(extractedAt)
	if extractedAt == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, extractedAt); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	if len(extractedAt) >= len(time.DateOnly) {
		return extractedAt[:len(time.DateOnly)]
	}
	return extractedAt
}

func withLastUpdated(text, date string) string {
	if date == "" || strings.Contains(strings.ToLower(text), "last updated") {
		return text
	}
	return text + "\n\n" + lastUpdatedPrefix + date
}
