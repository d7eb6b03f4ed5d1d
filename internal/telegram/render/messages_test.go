package render

import (
	"testing"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestAnswerWithSources(t *testing.T) {
	out := Answer(&entity.Answer{
		Text:    "The exit load is 1% if redeemed within 1 year.",
		Sources: []string{"https://groww.in/a", "https://groww.in/b"},
	})

	assert.Equal(t, "The exit load is 1% if redeemed within 1 year.\n\n📎 Sources:\n• https://groww.in/a\n• https://groww.in/b", out)
}

func TestAnswerDegradedKeepsSingleMarker(t *testing.T) {
	fallback := entity.DegradedMarker + "\n- HDFC Mid Cap Fund Exit Load: 1% (Source: https://groww.in/a)"
	out := Answer(&entity.Answer{Text: fallback, Sources: []string{"https://groww.in/a"}, Degraded: true})
	assert.Equal(t, fallback, out)

	out = Answer(&entity.Answer{Text: "facts", Degraded: true})
	assert.Equal(t, entity.DegradedMarker+"\nfacts", out)
}

func TestAnswerTruncationWarning(t *testing.T) {
	out := Answer(&entity.Answer{
		Text:     "answer",
		Warnings: []entity.ErrorKind{entity.ErrorKindContextTruncated},
	})
	assert.Contains(t, out, MsgTruncated)
}

func TestFieldQuestion(t *testing.T) {
	assert.Equal(t, "What is the Minimum SIP of HDFC Large Cap Fund?", FieldQuestion("HDFC Large Cap Fund", entity.FieldMinimumSIP))
}

func TestRateLimited(t *testing.T) {
	assert.Equal(t, MsgRateLimited, RateLimited(1))
	assert.Equal(t, MsgRateLimitedAgain, RateLimited(3))
}
