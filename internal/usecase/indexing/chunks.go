package indexing

import (
	"fmt"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
)

// BuildChunks makes one chunk per filled in fact plus an overview chunk per scheme
func BuildChunks(ds *entity.SchemeDataset) ([]entity.Chunk, error) {
	var chunks []entity.Chunk
	seen := make(map[string]string, len(ds.Schemes))

	for i := range ds.Schemes {
		rec := &ds.Schemes[i]
		name := strings.TrimSpace(rec.SchemeName)
		if name == "" {
			return nil, fmt.Errorf("%w: scheme_name of record %d", entity.ErrMissingField, i)
		}
		// chunk ids are built from the slug, so names that slug alike collide
		key := entity.Slugify(name)
		if key == "" {
			return nil, fmt.Errorf("%w: scheme_name %q of record %d has no letters or digits", entity.ErrMissingField, name, i)
		}
		if first, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: scheme %q collides with %q on id %q", entity.ErrDuplicateChunk, name, first, key)
		}
		seen[key] = name

		extractedAt := rec.ExtractedAt
		if extractedAt == "" {
			extractedAt = ds.ExtractedAt
		}
		base := entity.Chunk{
			SchemeName:  name,
			Category:    strings.TrimSpace(rec.Category),
			SourceURL:   strings.TrimSpace(rec.SourceURL),
			ExtractedAt: extractedAt,
		}

		var facts []string
		for _, field := range entity.FactFields {
			value := strings.TrimSpace(rec.Value(field))
			if value == "" {
				continue
			}
			ch := base
			ch.ID = entity.ChunkID(name, field)
			ch.FieldName = field
			ch.Text = factText(name, base.Category, field, value)
			chunks = append(chunks, ch)
			facts = append(facts, field.Label()+": "+value)
		}

		overview := base
		overview.ID = entity.ChunkID(name, entity.FieldOther)
		overview.FieldName = entity.FieldOther
		overview.Text = overviewText(name, base.Category, facts)
		chunks = append(chunks, overview)
	}

	return chunks, nil
}

func factText(scheme, category string, field entity.FieldName, value string) string {
	if category == "" {
		return fmt.Sprintf("%s %s: %s", scheme, field.Label(), value)
	}
	return fmt.Sprintf("%s (%s) %s: %s", scheme, category, field.Label(), value)
}

func overviewText(scheme, category string, facts []string) string {
	intro := scheme + " is a mutual fund scheme"
	if category != "" {
		intro = fmt.Sprintf("%s is a %s mutual fund scheme", scheme, category)
	}
	return strings.Join(append([]string{intro}, facts...), ". ")
}
