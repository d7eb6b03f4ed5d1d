package entity

// SchemeRecord is the extracted fact sheet of one scheme
type SchemeRecord struct {
	SchemeName     string `json:"scheme_name"`
	Category       string `json:"category"`
	SourceURL      string `json:"source_url"`
	ExpenseRatio   string `json:"expense_ratio"`
	MinimumSIP     string `json:"minimum_sip"`
	ExitLoad       string `json:"exit_load"`
	NAV            string `json:"nav"`
	TaxImplication string `json:"tax_implication"`
	ExtractedAt    string `json:"extracted_at"`
}

// Value returns the raw value stored for field, empty when missing
func (r *SchemeRecord) Value(field FieldName) string {
	switch field {
	case FieldExpenseRatio:
		return r.ExpenseRatio
	case FieldMinimumSIP:
		return r.MinimumSIP
	case FieldExitLoad:
		return r.ExitLoad
	case FieldNAV:
		return r.NAV
	case FieldTaxImplication:
		return r.TaxImplication
	default:
		return ""
	}
}

// SchemeDataset is the file produced by the extraction step
type SchemeDataset struct {
	ExtractedAt  string         `json:"extracted_at"`
	TotalSchemes int            `json:"total_schemes"`
	Schemes      []SchemeRecord `json:"schemes"`
}

// Scheme is a catalog entry derived from the indexed chunks
type Scheme struct {
	Name      string      `json:"scheme_name"`
	Category  string      `json:"category"`
	SourceURL string      `json:"source_url"`
	Fields    []FieldName `json:"fields"`
}
