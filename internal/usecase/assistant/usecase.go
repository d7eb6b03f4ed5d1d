package assistant

import (
	"context"
	"time"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Config struct {
	TopK                int
	SimilarityThreshold float64
	ContextBudget       int
	OverallBudget       int
}

// Usecase answers fund questions end to end
type Usecase struct {
	processor QueryProcessor
	embedder  Embedder
	searcher  Searcher
	assembler ContextAssembler
	generator AnswerGenerator
	cfg       Config
}

func NewUsecase(
	processor QueryProcessor,
	embedder Embedder,
	searcher Searcher,
	assembler ContextAssembler,
	generator AnswerGenerator,
	cfg Config,
) *Usecase {
	return &Usecase{
		processor: processor,
		embedder:  embedder,
		searcher:  searcher,
		assembler: assembler,
		generator: generator,
		cfg:       cfg,
	}
}

// Ask always returns an answer. Failures are reported through Answer.Error.
func (u *Usecase) Ask(ctx context.Context, raw string) *entity.Answer {
	ctx = logger.WithQuestion(logger.WithAction(ctx, "ask"), raw)
	start := time.Now()

	ans := u.ask(ctx, raw)

	ctxzap.Info(ctx, "question answered",
		zap.String("error_kind", string(ans.Error)),
		zap.Bool("degraded", ans.Degraded),
		zap.Int("sources", len(ans.Sources)),
		zap.Duration("latency", time.Since(start)),
	)
	return ans
}

func (u *Usecase) ask(ctx context.Context, raw string) *entity.Answer {
	q := u.processor.Process(ctx, raw)
	if !q.Validated {
		return entity.RefusalAnswer()
	}
	ctx = logger.AddFields(ctx,
		zap.String("scheme_filter", q.SchemeFilter),
		zap.String("field", string(q.Field)),
	)

	vector, err := u.embedder.Embed(ctx, q.EnhancedText)
	if err != nil {
		ctxzap.Error(ctx, "embedding query failed", zap.Error(err))
		return entity.NoInformationAnswer()
	}

	results, err := u.searcher.Search(ctx, vector, u.cfg.TopK, q.SchemeFilter)
	if err != nil {
		ctxzap.Error(ctx, "index search failed", zap.Error(err))
		return entity.NoInformationAnswer()
	}
	results = u.applyThreshold(results)

	ctxzap.Debug(ctx, "chunks retrieved", zap.Int("count", results.Len()), zap.Float64s("scores", scores(results)))
	if results.Len() == 0 {
		return entity.NoInformationAnswer()
	}

	budget := u.contextBudget(q.RawText)
	assembled := u.assembler.Assemble(results, budget)
	if assembled.Truncated {
		ctxzap.Warn(ctx, "context truncated to budget",
			zap.Int("budget", budget),
			zap.Int("chunks_used", len(assembled.ChunksUsed)),
			zap.Int("candidates", results.Len()),
		)
	}

	return u.generator.Generate(ctx, q, assembled)
}

// applyThreshold keeps chunks scoring strictly above the threshold, so
// unrelated and opposite vectors never reach the prompt even at 0
func (u *Usecase) applyThreshold(results entity.RetrievalResult) entity.RetrievalResult {
	threshold := max(u.cfg.SimilarityThreshold, 0)
	kept := make([]entity.ScoredChunk, 0, results.Len())
	for _, it := range results.Items {
		if it.Score > threshold {
			kept = append(kept, it)
		}
	}
	return entity.RetrievalResult{Items: kept}
}

// contextBudget leaves room for the instruction and question inside the overall budget
func (u *Usecase) contextBudget(question string) int {
	return max(0, min(u.cfg.ContextBudget, u.cfg.OverallBudget-u.generator.PromptOverhead(question)))
}

func scores(results entity.RetrievalResult) []float64 {
	out := make([]float64, 0, results.Len())
	for _, it := range results.Items {
		out = append(out, it.Score)
	}
	return out
}
