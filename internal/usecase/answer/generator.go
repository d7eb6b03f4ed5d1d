package answer

import (
	"context"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/tokens"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Config struct {
	MaxOutputTokens int32
	Temperature     float32
}

// Generator produces answers from assembled contexts and never fails
type Generator struct {
	completer Completer
	cfg       Config
}

func NewGenerator(completer Completer, cfg Config) *Generator {
	return &Generator{
		completer: completer,
		cfg:       cfg,
	}
}

// PromptOverhead estimates the tokens sent besides the context itself,
// counting the user turn wrapper around the question
func (g *Generator) PromptOverhead(question string) int {
	wrapped := (&entity.GenerationRequest{Question: question}).UserPrompt()
	return tokens.Estimate(SystemInstruction(datePlaceholder)) + tokens.Estimate(wrapped)
}

func (g *Generator) Generate(ctx context.Context, query entity.Query, c entity.Context) *entity.Answer {
	if len(c.ChunksUsed) == 0 {
		ans := entity.NoInformationAnswer()
		if c.Truncated {
			ans.Warnings = append(ans.Warnings, entity.ErrorKindContextTruncated)
		}
		return ans
	}

	date := FormatDate(c.LastUpdated())
	req := &entity.GenerationRequest{
		SystemInstruction: SystemInstruction(date),
		Context:           c.Text,
		// enhanced text only steers retrieval, the model answers the user's words
		Question:          query.RawText,
		MaxOutputTokens:   g.cfg.MaxOutputTokens,
		Temperature:       g.cfg.Temperature,
	}

	ans := &entity.Answer{
		Sources:     c.Sources,
		LastUpdated: date,
		Model:       g.completer.Model(),
	}
	if c.Truncated {
		ans.Warnings = append(ans.Warnings, entity.ErrorKindContextTruncated)
	}

	resp, err := g.completer.Generate(ctx, req)
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = entity.ErrEmptyGeneration
	}
	if err != nil {
		kind := entity.KindOf(err)
		if kind != entity.ErrorKindGenerationFatal {
			kind = entity.ErrorKindGenerationTransient
		}
		if kind == entity.ErrorKindGenerationFatal {
			ctxzap.Error(ctx, "generation failed, check model configuration", zap.Error(err))
		} else {
			ctxzap.Warn(ctx, "generation unavailable, falling back to retrieved facts", zap.Error(err))
		}

		ans.Text = Fallback(c)
		ans.Degraded = true
		ans.Error = kind
		return ans
	}

	ans.Text = withLastUpdated(strings.TrimSpace(resp.Text), date)
	if resp.Model != "" {
		ans.Model = resp.Model
	}
	return ans
}

// Fallback lists the retrieved facts verbatim under the degraded marker
func Fallback(c entity.Context) string {
	var b strings.Builder
	b.WriteString(entity.DegradedMarker)
	for _, sc := range c.ChunksUsed {
		b.WriteString("\n- ")
		b.WriteString(sc.Chunk.Text)
		if sc.Chunk.SourceURL != "" {
			b.WriteString(" (Source: ")
			b.WriteString(sc.Chunk.SourceURL)
			b.WriteString(")")
		}
	}
	return b.String()
}
