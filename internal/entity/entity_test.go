package entity

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorKind
	}{
		{nil, ErrorKindNone},
		{ErrInvalidQuery, ErrorKindInvalidQuery},
		{fmt.Errorf("search: %w", ErrNoRelevantInformation), ErrorKindNoRelevantInformation},
		{fmt.Errorf("gemini: %w: bad key", ErrGenerationFatal), ErrorKindGenerationFatal},
		{fmt.Errorf("gemini: %w: 503", ErrGenerationTransient), ErrorKindGenerationTransient},
		{ErrEmbeddingMismatch, ErrorKindIndexUnavailable},
		{context.DeadlineExceeded, ErrorKindGenerationTransient},
		{errors.New("something odd"), ErrorKindGenerationTransient},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}

	assert.True(t, IsTransient(ErrEmptyGeneration))
	assert.False(t, IsTransient(ErrGenerationFatal))
	assert.False(t, IsTransient(nil))
}

func TestSlugifyAndChunkID(t *testing.T) {
	assert.Equal(t, "hdfc-elss-tax-saver-fund", Slugify("HDFC ELSS  Tax-Saver Fund!"))
	assert.Equal(t, "", Slugify("  --  "))
	assert.Equal(t, "hdfc-mid-cap-fund:exit_load", ChunkID("HDFC Mid Cap Fund", FieldExitLoad))
}

func TestParseFieldName(t *testing.T) {
	f, err := ParseFieldName(" Minimum_SIP ")
	require.NoError(t, err)
	assert.Equal(t, FieldMinimumSIP, f)
	assert.Equal(t, "Minimum SIP", f.Label())

	_, err = ParseFieldName("aum")
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, "aum", FieldName("aum").Label())
}

func TestSchemeRecordValue(t *testing.T) {
	r := SchemeRecord{ExpenseRatio: "0.98%", NAV: "₹1,100.25"}
	assert.Equal(t, "0.98%", r.Value(FieldExpenseRatio))
	assert.Equal(t, "₹1,100.25", r.Value(FieldNAV))
	assert.Empty(t, r.Value(FieldExitLoad))
	assert.Empty(t, r.Value(FieldOther))
}

func TestContextLastUpdated(t *testing.T) {
	c := Context{ChunksUsed: []ScoredChunk{
		{Chunk: Chunk{ExtractedAt: "2025-11-18T10:00:00"}},
		{Chunk: Chunk{ExtractedAt: "2025-11-20T09:30:00"}},
		{Chunk: Chunk{}},
	}}
	assert.Equal(t, "2025-11-20T09:30:00", c.LastUpdated())
	assert.Empty(t, (&Context{}).LastUpdated())
}

func TestCannedAnswers(t *testing.T) {
	refusal := RefusalAnswer()
	assert.Equal(t, ErrorKindInvalidQuery, refusal.Error)
	assert.Equal(t, []string{}, refusal.Sources)

	none := NoInformationAnswer()
	assert.Equal(t, ErrorKindNoRelevantInformation, none.Error)
	assert.False(t, none.HasWarning(ErrorKindContextTruncated))
	none.Warnings = append(none.Warnings, ErrorKindContextTruncated)
	assert.True(t, none.HasWarning(ErrorKindContextTruncated))
}

func TestGenerationRequestUserPrompt(t *testing.T) {
	req := &GenerationRequest{Context: "Minimum SIP: ₹100", Question: "What is the minimum SIP?"}
	assert.Equal(t, "Context:\nMinimum SIP: ₹100\n\nQuestion: What is the minimum SIP?\n\nAnswer:", req.UserPrompt())
}
