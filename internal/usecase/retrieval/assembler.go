package retrieval

import (
	"strings"
	"unicode"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/futig/fund-faq/internal/pkg/tokens"
)

const DefaultDedupThreshold = 0.9

// Assembler turns ranked chunks into a token bounded generation context
type Assembler struct {
	dedupThreshold float64
}

func NewAssembler(dedupThreshold float64) *Assembler {
	if dedupThreshold <= 0 || dedupThreshold > 1 {
		dedupThreshold = DefaultDedupThreshold
	}
	return &Assembler{dedupThreshold: dedupThreshold}
}

// Assemble keeps candidates in rank order until the next one would push the
// formatted context over budget. Truncated is set only when a candidate was
// dropped for budget reasons, never for duplicates.
func (a *Assembler) Assemble(results entity.RetrievalResult, budget int) entity.Context {
	var (
		ctx      entity.Context
		entries  []string
		included []tokenSet
		seenIDs  = make(map[string]struct{}, results.Len())
	)

	for _, candidate := range results.Items {
		ch := candidate.Chunk
		if _, dup := seenIDs[ch.ID]; dup {
			continue
		}

		words := wordSet(ch.Text)
		if a.nearDuplicate(ch, words, ctx.ChunksUsed, included) {
			continue
		}

		nextEntries := append(entries[:len(entries):len(entries)], formatEntry(ch))
		nextSources := appendSource(ctx.Sources, ch.SourceURL)
		if tokens.Estimate(render(nextEntries, nextSources)) > budget {
			ctx.Truncated = true
			break
		}

		seenIDs[ch.ID] = struct{}{}
		entries = nextEntries
		included = append(included, words)
		ctx.Sources = nextSources
		ctx.ChunksUsed = append(ctx.ChunksUsed, candidate)
	}

	if ctx.Sources == nil {
		ctx.Sources = []string{}
	}
	ctx.Text = render(entries, ctx.Sources)
	ctx.TokenCountEstimate = tokens.Estimate(ctx.Text)

	return ctx
}

func (a *Assembler) nearDuplicate(ch entity.Chunk, words tokenSet, used []entity.ScoredChunk, included []tokenSet) bool {
	for i, prev := range used {
		if prev.Chunk.SourceURL != ch.SourceURL {
			continue
		}
		if jaccard(words, included[i]) >= a.dedupThreshold {
			return true
		}
	}
	return false
}

func formatEntry(ch entity.Chunk) string {
	return ch.SchemeName + " - " + ch.FieldName.Label() + ": " + ch.Text
}

func render(entries, sources []string) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(entries, "\n\n"))
	if len(sources) > 0 {
		b.WriteString("\n\nSources:")
		for _, src := range sources {
			b.WriteString("\n- ")
			b.WriteString(src)
		}
	}
	return b.String()
}

func appendSource(sources []string, url string) []string {
	if url == "" {
		return sources
	}
	for _, s := range sources {
		if s == url {
			return sources
		}
	}
	return append(sources[:len(sources):len(sources)], url)
}

type tokenSet map[string]struct{}

func wordSet(text string) tokenSet {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '%'
	})
	set := make(tokenSet, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func jaccard(a, b tokenSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
