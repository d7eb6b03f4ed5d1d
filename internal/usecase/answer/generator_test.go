package answer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const largeCapURL = "https://groww.in/mutual-funds/hdfc-large-cap-fund-direct-growth"

type scriptedCompleter struct {
	text  string
	err   error
	calls int
	last  *entity.GenerationRequest
}

func (s *scriptedCompleter) Generate(_ context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &entity.GenerationResponse{Text: s.text}, nil
}

func (s *scriptedCompleter) Model() string { return "scripted" }

func sipContext() entity.Context {
	ch := entity.Chunk{
		ID:          "hdfc-large-cap-fund:minimum_sip",
		Text:        "Minimum SIP: ₹100",
		SchemeName:  "HDFC Large Cap Fund",
		FieldName:   entity.FieldMinimumSIP,
		SourceURL:   largeCapURL,
		ExtractedAt: "2025-11-20T10:15:00.123456",
	}
	return entity.Context{
		ChunksUsed: []entity.ScoredChunk{{Chunk: ch, Score: 0.9}},
		Text:       "HDFC Large Cap Fund - Minimum SIP: Minimum SIP: ₹100\n\nSources:\n- " + largeCapURL,
		Sources:    []string{largeCapURL},
	}
}

func sipQuery() entity.Query {
	return entity.Query{RawText: "What is the minimum SIP for HDFC Large Cap Fund?", Validated: true}
}

func TestGenerateSuccess(t *testing.T) {
	c := &scriptedCompleter{text: "  The minimum SIP is ₹100. Source: " + largeCapURL + "  "}
	g := NewGenerator(c, Config{MaxOutputTokens: 200, Temperature: 0.1})

	ans := g.Generate(context.Background(), sipQuery(), sipContext())

	assert.Equal(t, "The minimum SIP is ₹100. Source: "+largeCapURL+"\n\nLast updated from sources: 2025-11-20", ans.Text)
	assert.Equal(t, []string{largeCapURL}, ans.Sources)
	assert.False(t, ans.Degraded)
	assert.Equal(t, entity.ErrorKindNone, ans.Error)
	assert.Equal(t, "2025-11-20", ans.LastUpdated)
	assert.Empty(t, ans.Warnings)

	require.Equal(t, 1, c.calls)
	assert.Contains(t, c.last.SystemInstruction, "Last updated from sources: 2025-11-20")
	assert.Equal(t, int32(200), c.last.MaxOutputTokens)
	assert.InDelta(t, 0.1, c.last.Temperature, 1e-6)
	assert.Equal(t, sipQuery().RawText, c.last.Question)
}

func TestGenerateKeepsModelLastUpdatedLine(t *testing.T) {
	c := &scriptedCompleter{text: "₹100.\n\nLast updated from sources: 2025-11-20"}
	ans := NewGenerator(c, Config{}).Generate(context.Background(), sipQuery(), sipContext())
	assert.Equal(t, "₹100.\n\nLast updated from sources: 2025-11-20", ans.Text)
}

func TestGenerateFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		text string
		kind entity.ErrorKind
	}{
		{"transient", fmt.Errorf("gemini: %w", entity.ErrGenerationTransient), "", entity.ErrorKindGenerationTransient},
		{"fatal", fmt.Errorf("gemini: %w", entity.ErrGenerationFatal), "", entity.ErrorKindGenerationFatal},
		{"timeout", context.DeadlineExceeded, "", entity.ErrorKindGenerationTransient},
		{"unclassified", errors.New("boom"), "", entity.ErrorKindGenerationTransient},
		{"empty", nil, "   ", entity.ErrorKindGenerationTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &scriptedCompleter{text: tt.text, err: tt.err}
			ans := NewGenerator(c, Config{}).Generate(context.Background(), sipQuery(), sipContext())

			assert.True(t, ans.Degraded)
			assert.Equal(t, tt.kind, ans.Error)
			assert.Equal(t, []string{largeCapURL}, ans.Sources)
			assert.Equal(t,
				entity.DegradedMarker+"\n- Minimum SIP: ₹100 (Source: "+largeCapURL+")",
				ans.Text,
			)
		})
	}
}

func TestGenerateEmptyContextSkipsModel(t *testing.T) {
	c := &scriptedCompleter{text: "should not be used"}
	ans := NewGenerator(c, Config{}).Generate(context.Background(), sipQuery(), entity.Context{})

	assert.Zero(t, c.calls)
	assert.Equal(t, entity.NoInformationMessage, ans.Text)
	assert.Equal(t, entity.ErrorKindNoRelevantInformation, ans.Error)
	assert.Empty(t, ans.Sources)
}

func TestGenerateTruncatedWarns(t *testing.T) {
	ctx := sipContext()
	ctx.Truncated = true

	ans := NewGenerator(&scriptedCompleter{text: "₹100."}, Config{}).Generate(context.Background(), sipQuery(), ctx)
	assert.True(t, ans.HasWarning(entity.ErrorKindContextTruncated))
	assert.False(t, ans.Degraded)

	ans = NewGenerator(&scriptedCompleter{err: entity.ErrGenerationTransient}, Config{}).Generate(context.Background(), sipQuery(), ctx)
	assert.True(t, ans.HasWarning(entity.ErrorKindContextTruncated))
	assert.True(t, ans.Degraded)
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"":                           "",
		"2025-11-20":                 "2025-11-20",
		"2025-11-20T10:15:00Z":       "2025-11-20",
		"2025-11-20T10:15:00.123456": "2025-11-20",
		"2025-11-20 garbage":         "2025-11-20",
		"soon":                       "soon",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatDate(in), in)
	}
}

func TestSystemInstruction(t *testing.T) {
	assert.NotContains(t, SystemInstruction(""), "Last updated")
	assert.Contains(t, SystemInstruction("2025-11-20"), "Last updated from sources: 2025-11-20")
	assert.Contains(t, SystemInstruction(""), "at most 3 sentences")
}

func TestGenerateSendsUserWordsNotEnhancedText(t *testing.T) {
	c := &scriptedCompleter{text: "₹100."}
	q := sipQuery()
	q.EnhancedText = q.RawText + " about HDFC Large Cap Fund regarding minimum sip"

	NewGenerator(c, Config{}).Generate(context.Background(), q, sipContext())

	require.Equal(t, 1, c.calls)
	assert.Equal(t, q.RawText, c.last.Question)
}

func TestPromptOverheadCountsUserTurnWrapper(t *testing.T) {
	g := NewGenerator(&scriptedCompleter{}, Config{})
	question := sipQuery().RawText
	req := &entity.GenerationRequest{
		SystemInstruction: SystemInstruction(datePlaceholder),
		Question:          question,
	}

	assert.Equal(t, tokens.Estimate(req.SystemInstruction)+tokens.Estimate(req.UserPrompt()), g.PromptOverhead(question))
	assert.Greater(t, g.PromptOverhead(question), tokens.Estimate(req.SystemInstruction)+tokens.Estimate(question))
}
