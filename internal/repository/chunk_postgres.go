package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/index"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ChunkRepository is a vector index persisted in PostgreSQL with pgvector
type ChunkRepository interface {
	Search(ctx context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error)
	Catalog() *catalog.Catalog
	Reload(ctx context.Context) (int, error)
	Exists(ctx context.Context) (bool, error)
	Publish(ctx context.Context, snap *index.Snapshot) error
}

var _ ChunkRepository = &ChunkPostgres{}

type generation struct {
	id        uuid.UUID
	dimension int
	chunks    int
	catalog   *catalog.Catalog
}

// ChunkPostgres searches the active index generation
type ChunkPostgres struct {
	db     *pgxpool.Pool
	model  string
	active atomic.Pointer[generation]
	logger *zap.Logger
}

func NewChunkPostgres(db *pgxpool.Pool, embeddingModel string, logger *zap.Logger) *ChunkPostgres {
	return &ChunkPostgres{
		db:     db,
		model:  embeddingModel,
		logger: logger,
	}
}

const activeGenerationQuery = `
	SELECT id, embedding_model, dimension
	FROM index_generations
	WHERE active`

const catalogQuery = `
	SELECT id, text, scheme_name, category, field_name, source_url, extracted_at
	FROM chunks
	WHERE generation_id = $1
	ORDER BY id`

// Reload reads the active generation and rebuilds its catalog
func (r *ChunkPostgres) Reload(ctx context.Context) (int, error) {
	var (
		id    uuid.UUID
		model string
		dim   int
	)
	err := r.db.QueryRow(ctx, activeGenerationQuery).Scan(&id, &model, &dim)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: no active index generation", entity.ErrIndexUnavailable)
		}
		return 0, fmt.Errorf("%w: get active generation: %w", entity.ErrIndexUnavailable, err)
	}

	if model != r.model {
		return 0, fmt.Errorf("%w: index built with %q, embedder is %q", entity.ErrEmbeddingMismatch, model, r.model)
	}

	rows, err := r.db.Query(ctx, catalogQuery, id)
	if err != nil {
		return 0, fmt.Errorf("list chunks: %w", err)
	}
	chunks, err := pgx.CollectRows(rows, scanChunk)
	if err != nil {
		return 0, fmt.Errorf("scan chunks: %w", err)
	}

	r.active.Store(&generation{
		id:        id,
		dimension: dim,
		chunks:    len(chunks),
		catalog:   catalog.New(chunks, catalog.DefaultAliases),
	})

	r.logger.Info("vector index loaded",
		zap.String("generation", id.String()),
		zap.String("embedding_model", model),
		zap.Int("chunks", len(chunks)),
	)
	return len(chunks), nil
}

func (r *ChunkPostgres) Catalog() *catalog.Catalog {
	gen := r.active.Load()
	if gen == nil {
		return catalog.Empty()
	}
	return gen.catalog
}

// searchQuery resolves the active generation itself so a publish from another
// process is visible without a reload
const searchQuery = `
	SELECT c.id, c.text, c.scheme_name, c.category, c.field_name, c.source_url, c.extracted_at,
	       1 - (c.embedding <=> $1::vector) AS score
	FROM chunks c
	JOIN index_generations g ON g.id = c.generation_id
	WHERE g.active
	  AND g.embedding_model = $2
	  AND ($3 = '' OR lower(c.scheme_name) = lower($3))
	ORDER BY c.embedding <=> $1::vector, c.id
	LIMIT $4`

func (r *ChunkPostgres) Search(ctx context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error) {
	gen := r.active.Load()
	if gen == nil {
		return entity.RetrievalResult{}, fmt.Errorf("%w: index not loaded", entity.ErrIndexUnavailable)
	}
	if len(vector) != gen.dimension {
		return entity.RetrievalResult{}, fmt.Errorf("%w: query has %d values, index dimension is %d",
			entity.ErrDimensionMismatch, len(vector), gen.dimension)
	}
	if topK <= 0 {
		return entity.RetrievalResult{}, nil
	}

	rows, err := r.db.Query(ctx, searchQuery, vectorLiteral(vector), r.model, schemeFilter, topK)
	if err != nil {
		return entity.RetrievalResult{}, fmt.Errorf("search chunks: %w", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.ScoredChunk, error) {
		var sc entity.ScoredChunk
		err := row.Scan(&sc.Chunk.ID, &sc.Chunk.Text, &sc.Chunk.SchemeName, &sc.Chunk.Category,
			&sc.Chunk.FieldName, &sc.Chunk.SourceURL, &sc.Chunk.ExtractedAt, &sc.Score)
		return sc, err
	})
	if err != nil {
		return entity.RetrievalResult{}, fmt.Errorf("scan search results: %w", err)
	}

	return entity.RetrievalResult{Items: items}, nil
}

func (r *ChunkPostgres) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM index_generations WHERE active)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active generation: %w", err)
	}
	return exists, nil
}

const insertChunkQuery = `
	INSERT INTO chunks (generation_id, id, text, scheme_name, category, field_name, source_url, extracted_at, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::vector)`

// Publish stores snap as a new generation and activates it in the same transaction
func (r *ChunkPostgres) Publish(ctx context.Context, snap *index.Snapshot) error {
	if snap.EmbeddingModel != r.model {
		return fmt.Errorf("%w: snapshot built with %q, repository expects %q",
			entity.ErrEmbeddingMismatch, snap.EmbeddingModel, r.model)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin publish: %w", err)
	}
	defer tx.Rollback(ctx)

	genID := uuid.New()
	builtAt := snap.BuiltAt
	if builtAt.IsZero() {
		builtAt = time.Now().UTC()
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO index_generations (id, embedding_model, dimension, built_at) VALUES ($1, $2, $3, $4)`,
		genID, snap.EmbeddingModel, snap.Dimension, builtAt,
	)
	if err != nil {
		return fmt.Errorf("create generation: %w", err)
	}

	batch := &pgx.Batch{}
	for _, ch := range snap.Chunks {
		batch.Queue(insertChunkQuery, genID, ch.ID, ch.Text, ch.SchemeName, ch.Category,
			string(ch.FieldName), ch.SourceURL, ch.ExtractedAt, vectorLiteral(ch.Embedding))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}

	var previous *uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM index_generations WHERE active FOR UPDATE`).Scan(&previous)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("lock active generation: %w", err)
	}

	// deactivate first, the partial unique index allows one active row
	if _, err := tx.Exec(ctx, `UPDATE index_generations SET active = FALSE WHERE active`); err != nil {
		return fmt.Errorf("deactivate generation: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE index_generations SET active = TRUE WHERE id = $1`, genID); err != nil {
		return fmt.Errorf("activate generation: %w", err)
	}

	// the previous generation stays until the next publish so in-flight readers keep their rows
	prune := `DELETE FROM index_generations WHERE NOT active`
	args := []any{}
	if previous != nil {
		prune += ` AND id <> $1`
		args = append(args, *previous)
	}
	if _, err := tx.Exec(ctx, prune, args...); err != nil {
		return fmt.Errorf("prune generations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit publish: %w", err)
	}

	r.logger.Info("index generation published",
		zap.String("generation", genID.String()),
		zap.Int("chunks", len(snap.Chunks)),
	)

	_, err = r.Reload(ctx)
	return err
}

func scanChunk(row pgx.CollectableRow) (entity.Chunk, error) {
	var ch entity.Chunk
	err := row.Scan(&ch.ID, &ch.Text, &ch.SchemeName, &ch.Category, &ch.FieldName, &ch.SourceURL, &ch.ExtractedAt)
	return ch, err
}

// vectorLiteral renders v in pgvector text form
func vectorLiteral(v []float32) string {
	var sb strings.Builder
	sb.Grow(len(v) * 10)
	sb.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	sb.WriteByte(']')
	return sb.String()
}
