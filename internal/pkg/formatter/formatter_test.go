package formatter

import (
	"bytes"
	"os"
	"testing"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return NewDocument("  What is the minimum SIP for HDFC Large Cap Fund? ", &entity.Answer{
		Text:        "The minimum SIP is ₹100.\n\nLast updated from sources: 2025-11-20",
		Sources:     []string{"https://groww.in/mutual-funds/hdfc-large-cap-fund-direct-growth"},
		LastUpdated: "2025-11-20",
	})
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory(true)

	tests := []struct {
		format entity.ExportFormat
		ext    string
	}{
		{entity.ExportMarkdown, ".md"},
		{entity.ExportPDF, ".pdf"},
		{entity.ExportDOCX, ".docx"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			fm, err := f.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.ext, fm.FileExtension())
			assert.NotEmpty(t, fm.ContentType())
		})
	}

	_, err := f.Create("html")
	assert.ErrorIs(t, err, entity.ErrInvalidFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(sampleDocument())
	require.NoError(t, err)

	want := "# HDFC Mutual Fund FAQ\n\n" +
		"**Question:** What is the minimum SIP for HDFC Large Cap Fund?\n\n" +
		"The minimum SIP is ₹100.\n\nLast updated from sources: 2025-11-20\n" +
		"\n## Sources\n\n" +
		"- <https://groww.in/mutual-funds/hdfc-large-cap-fund-direct-growth>\n"
	assert.Equal(t, want, string(out))
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFactoryWithoutDOCXLicense(t *testing.T) {
	f := NewFactory(false)

	_, err := f.Create(entity.ExportDOCX)
	assert.ErrorIs(t, err, entity.ErrFormatDisabled)

	_, err = f.Create(entity.ExportMarkdown)
	assert.NoError(t, err)
}

func TestDOCXFormatter(t *testing.T) {
	key := os.Getenv("UNIOFFICE_LICENSE_KEY")
	if key == "" {
		t.Skip("UNIOFFICE_LICENSE_KEY is not set")
	}
	require.NoError(t, ActivateDOCX(key))

	out, err := NewDOCXFormatter().Format(sampleDocument())
	require.NoError(t, err)
	// docx is a zip container
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}
