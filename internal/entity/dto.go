package entity

import "time"

// AskRequest represents request to ask a question
type AskRequest struct {
	Question string `json:"question" validate:"required,notblank,max=1000"`
}

// AnswerDTO is the wire form of an Answer
type AnswerDTO struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	Degraded    bool     `json:"degraded"`
	Error       string   `json:"error,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	LastUpdated string   `json:"last_updated,omitempty"`
	Model       string   `json:"model,omitempty"`
}

type SchemeDTO struct {
	SchemeName string   `json:"scheme_name"`
	Category   string   `json:"category"`
	SourceURL  string   `json:"source_url"`
	Fields     []string `json:"fields"`
}

type ReloadIndexResponse struct {
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunk_count"`
	ReloadedAt time.Time `json:"reloaded_at"`
}

// ExportFormat names a document format an answer can be exported as
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportPDF      ExportFormat = "pdf"
	ExportDOCX     ExportFormat = "docx"
)
