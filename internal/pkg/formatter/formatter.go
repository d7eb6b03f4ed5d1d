package formatter

import (
	"fmt"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
)

const baseTitle = "HDFC Mutual Fund FAQ"

// Document is an answered question ready for rendering
type Document struct {
	Question    string
	Answer      string
	Sources     []string
	LastUpdated string
	Degraded    bool
}

// NewDocument pairs a question with its answer
func NewDocument(question string, ans *entity.Answer) *Document {
	return &Document{
		Question:    strings.TrimSpace(question),
		Answer:      ans.Text,
		Sources:     ans.Sources,
		LastUpdated: ans.LastUpdated,
		Degraded:    ans.Degraded,
	}
}

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct {
	docx bool
}

// NewFactory returns the available formatters. DOCX output needs an activated unioffice license.
func NewFactory(docxEnabled bool) *Factory {
	return &Factory{docx: docxEnabled}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.ExportMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.ExportDOCX:
		if !f.docx {
			return nil, fmt.Errorf("%w: docx export requires UNIOFFICE_LICENSE_KEY", entity.ErrFormatDisabled)
		}
		return NewDOCXFormatter(), nil
	case entity.ExportPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidFormat, format)
	}
}
