package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const bigramWeight = 0.5

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "for": true, "to": true, "in": true,
	"on": true, "is": true, "are": true, "was": true, "what": true, "whats": true, "s": true,
	"and": true, "or": true, "me": true, "tell": true, "about": true, "regarding": true,
	"how": true, "much": true, "does": true, "do": true, "it": true, "this": true, "that": true,
	"with": true, "by": true, "at": true, "i": true, "my": true, "please": true,
}

// HashingEmbedder maps text to a fixed length vector by signed feature
// hashing of word unigrams and bigrams. It needs no model download and is a
// pure function of its input, so an index built with it is reproducible.
type HashingEmbedder struct {
	dim int
}

func NewHashingEmbedder(dim int) (*HashingEmbedder, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("hashing embedder: dimension must be positive, got %d", dim)
	}
	return &HashingEmbedder{dim: dim}, nil
}

func (e *HashingEmbedder) ModelID() string {
	return fmt.Sprintf("hashing-v1/%d", e.dim)
}

func (e *HashingEmbedder) Dimension() int {
	return e.dim
}

func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float64, e.dim)

	terms := tokenize(text)
	for i, t := range terms {
		e.add(vec, "u:"+t, 1)
		if i > 0 {
			e.add(vec, "b:"+terms[i-1]+" "+t, bigramWeight)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	out := make([]float32, e.dim)
	if norm == 0 {
		return out, nil
	}
	norm = math.Sqrt(norm)
	for i, v := range vec {
		out[i] = float32(v / norm)
	}
	return out, nil
}

func (e *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize lowercases text, splits it on anything that is not a letter or
// digit and drops stopwords
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, f := range fields {
		if stopwords[f] {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}
