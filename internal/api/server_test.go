package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	faqapi "github.com/futig/fund-faq/internal/api/faq"
	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/formatter"
	"github.com/futig/fund-faq/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type refuser struct{}

func (refuser) Ask(context.Context, string) *entity.Answer { return entity.RefusalAnswer() }

type emptyCatalog struct{}

func (emptyCatalog) Catalog() *catalog.Catalog { return catalog.Empty() }

func TestSetupRouter(t *testing.T) {
	h := faqapi.NewHandler(refuser{}, emptyCatalog{}, nil, formatter.NewFactory(false), validator.New())
	router := SetupRouter(h, 5*time.Second, zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/ask", strings.NewReader(`{"question":"which fund is best?"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Body.String(), string(entity.ErrorKindInvalidQuery))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}
