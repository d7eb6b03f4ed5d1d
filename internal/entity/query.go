package entity

const (
	IntentGeneral    = "general_inquiry"
	IntentComparison = "comparison"
)

// Query is the processed form of a raw question
type Query struct {
	RawText      string
	Validated    bool
	RejectReason string
	EnhancedText string
	SchemeFilter string
	Field        FieldName
	Intent       string
}

// ScoredChunk pairs a chunk with its similarity to the query, higher is better
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is ordered by score descending, ties by chunk id ascending
type RetrievalResult struct {
	Items []ScoredChunk
}

func (r RetrievalResult) Len() int {
	return len(r.Items)
}

// Context is the token bounded text handed to generation
type Context struct {
	ChunksUsed         []ScoredChunk
	Text               string
	Sources            []string
	TokenCountEstimate int
	Truncated          bool
}

// LastUpdated returns the most recent extraction date among the used chunks
func (c *Context) LastUpdated() string {
	latest := ""
	for _, sc := range c.ChunksUsed {
		if sc.Chunk.ExtractedAt > latest {
			latest = sc.Chunk.ExtractedAt
		}
	}
	return latest
}
