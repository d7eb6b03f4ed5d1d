package llm

import (
	"context"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockModel = "mock"

// MockConnector answers from the first context line so the pipeline runs without a provider
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Model() string {
	return mockModel
}

func (m *MockConnector) Generate(ctx context.Context, req *entity.GenerationRequest) (*entity.GenerationResponse, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer via LLM")

	fact, _, _ := strings.Cut(req.Context, "\n")
	text := "[MOCK] " + strings.TrimSpace(fact)

	ctxzap.Info(ctx, "[MOCK] answer generated", zap.Int("result_length", len(text)))
	return &entity.GenerationResponse{Text: text, Model: mockModel}, nil
}
