package query

import (
	"context"
	"strings"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	RejectEmpty      = "empty question"
	RejectOpinion    = "opinion or recommendation request"
	RejectOutOfScope = "question is not about fund facts"
)

// Processor validates, tags and enhances raw questions
type Processor struct {
	catalogs CatalogSource
}

func NewProcessor(catalogs CatalogSource) *Processor {
	return &Processor{catalogs: catalogs}
}

// Process never fails: a rejected question comes back with Validated=false
func (p *Processor) Process(ctx context.Context, raw string) entity.Query {
	q := entity.Query{
		RawText: raw,
		Intent:  entity.IntentGeneral,
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		q.RejectReason = RejectEmpty
		return q
	}

	if containsAny(text, opinionRules) {
		q.RejectReason = RejectOpinion
		ctxzap.Info(ctx, "question rejected", zap.String("reason", q.RejectReason))
		return q
	}

	cat := p.catalogs.Catalog()
	if cat == nil {
		cat = catalog.Empty()
	}

	schemes := cat.MatchSchemes(text)
	q.Field = detectField(cat.StripSchemes(text))

	if len(schemes) == 0 && q.Field == "" && !containsAny(text, domainRules) {
		q.RejectReason = RejectOutOfScope
		ctxzap.Info(ctx, "question rejected", zap.String("reason", q.RejectReason))
		return q
	}

	q.Validated = true
	if len(schemes) == 1 {
		q.SchemeFilter = schemes[0]
	}

	switch {
	case len(schemes) > 1:
		q.Intent = entity.IntentComparison
	case q.Field != "":
		q.Intent = "query_" + string(q.Field)
	}

	q.EnhancedText = enhance(text, q.SchemeFilter, q.Field)

	ctxzap.Debug(ctx, "question processed",
		zap.String("scheme_filter", q.SchemeFilter),
		zap.String("field", string(q.Field)),
		zap.String("intent", q.Intent),
		zap.Int("schemes_matched", len(schemes)),
	)

	return q
}

func enhance(text, scheme string, field entity.FieldName) string {
	var b strings.Builder
	b.WriteString(text)
	if scheme != "" {
		b.WriteString(" about ")
		b.WriteString(scheme)
	}
	if field != "" {
		b.WriteString(" regarding ")
		b.WriteString(strings.ToLower(field.Label()))
		if extra, ok := fieldExpansions[field]; ok {
			b.WriteString(" ")
			b.WriteString(extra)
		}
	}
	return b.String()
}
