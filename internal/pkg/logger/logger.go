package logger

import (
	"context"
	"unicode/utf8"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// questionPreview keeps log lines short when users paste long text
const questionPreview = 120

// AddFields attaches fields to the context logger
func AddFields(ctx context.Context, fields ...zap.Field) context.Context {
	return ctxzap.ToContext(ctx, ctxzap.Extract(ctx).With(fields...))
}

// WithAction names the flow the following log lines belong to
func WithAction(ctx context.Context, action string) context.Context {
	return AddFields(ctx, zap.String("action", action))
}

// WithQuestion attaches a bounded preview of the user question
func WithQuestion(ctx context.Context, question string) context.Context {
	preview := question
	if utf8.RuneCountInString(preview) > questionPreview {
		preview = string([]rune(preview)[:questionPreview]) + "…"
	}
	return AddFields(ctx,
		zap.String("question", preview),
		zap.Int("question_len", len(question)),
	)
}
