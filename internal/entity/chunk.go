package entity

import (
	"fmt"
	"strings"
	"unicode"
)

// FieldName identifies which fact about a scheme a chunk carries
type FieldName string

const (
	FieldExpenseRatio   FieldName = "expense_ratio"
	FieldMinimumSIP     FieldName = "minimum_sip"
	FieldExitLoad       FieldName = "exit_load"
	FieldNAV            FieldName = "nav"
	FieldTaxImplication FieldName = "tax_implication"
	FieldOther          FieldName = "other"
)

// FactFields lists the per-scheme facts in display order
var FactFields = []FieldName{
	FieldExpenseRatio,
	FieldMinimumSIP,
	FieldExitLoad,
	FieldNAV,
	FieldTaxImplication,
}

var fieldLabels = map[FieldName]string{
	FieldExpenseRatio:   "Expense Ratio",
	FieldMinimumSIP:     "Minimum SIP",
	FieldExitLoad:       "Exit Load",
	FieldNAV:            "NAV",
	FieldTaxImplication: "Tax Implication",
	FieldOther:          "Overview",
}

func (f FieldName) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Label returns the human readable name of the field
func (f FieldName) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

func ParseFieldName(s string) (FieldName, error) {
	f := FieldName(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: field_name %q", ErrInvalidParameter, s)
	}
	return f, nil
}

// Chunk is one retrievable fact about one scheme
type Chunk struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	SchemeName  string    `json:"scheme_name"`
	Category    string    `json:"category"`
	FieldName   FieldName `json:"field_name"`
	SourceURL   string    `json:"source_url"`
	ExtractedAt string    `json:"extracted_at,omitempty"`
	Embedding   []float32 `json:"embedding"`
}

// ChunkID derives the stable chunk identifier from scheme and field
func ChunkID(schemeName string, field FieldName) string {
	return Slugify(schemeName) + ":" + string(field)
}

// Slugify lowercases s and joins its alphanumeric runs with dashes
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
