package render

import (
	"fmt"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
)

const (
	MsgWelcome = `👋 Hi! I answer factual questions about HDFC mutual fund schemes.

Ask me about:
• Expense ratio
• Minimum SIP
• Exit load
• NAV
• Tax implications

Every answer cites its sources. I do not give investment advice.`

	MsgHelp = `🤖 Commands:

/start - Show the welcome message
/help - Show this help
/schemes - Browse the schemes I know about

Or just type a question, for example:
"What is the minimum SIP for HDFC Large Cap Fund?"`

	MsgPickScheme = `📁 Pick a scheme:`
	MsgPickField  = `📌 %s (%s)

What would you like to know?`
	MsgNoSchemes = `📭 The index is empty right now. Please try again later.`

	MsgTruncated = `ℹ️ Some retrieved information was left out to fit the answer size limit.`

	MsgRateLimited      = `⚠️ Too many questions. Please wait a little.`
	MsgRateLimitedAgain = `🛑 You are sending questions too often. Please wait a minute.`

	ErrGeneric        = `❌ Something went wrong. Please try again or press /start`
	ErrUnknownCommand = `❌ Unknown command. Use /help`
	ErrStaleButton    = `❌ That button is out of date. Use /schemes again.`
	ErrTextOnly       = `❌ I can only read text questions.`
)

// Answer renders an answer as a chat reply
func Answer(a *entity.Answer) string {
	var b strings.Builder

	if a.Degraded && !strings.HasPrefix(a.Text, entity.DegradedMarker) {
		b.WriteString(entity.DegradedMarker)
		b.WriteString("\n")
	}
	b.WriteString(a.Text)

	// the fallback already cites a source per line
	if len(a.Sources) > 0 && !a.Degraded {
		b.WriteString("\n\n📎 Sources:")
		for _, src := range a.Sources {
			b.WriteString("\n• ")
			b.WriteString(src)
		}
	}

	if a.HasWarning(entity.ErrorKindContextTruncated) {
		b.WriteString("\n\n")
		b.WriteString(MsgTruncated)
	}
	return b.String()
}

// FieldQuestion is the question asked when a field button is pressed
func FieldQuestion(scheme string, field entity.FieldName) string {
	return fmt.Sprintf("What is the %s of %s?", field.Label(), scheme)
}

func PickField(s entity.Scheme) string {
	category := s.Category
	if category == "" {
		category = "Mutual Fund"
	}
	return fmt.Sprintf(MsgPickField, s.Name, category)
}

// RateLimited escalates the warning after the first one
func RateLimited(warnings int) string {
	if warnings <= 1 {
		return MsgRateLimited
	}
	return MsgRateLimitedAgain
}
