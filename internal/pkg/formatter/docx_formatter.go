package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/common/license"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

// ActivateDOCX registers a metered unioffice key. Saving a document fails without one.
func ActivateDOCX(key string) error {
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("activate unioffice license: %w", err)
	}
	return nil
}

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(doc *Document) ([]byte, error) {
	d := document.New()
	defer d.Close()

	heading(d, "Heading1", baseTitle)

	if doc.Question != "" {
		par := d.AddParagraph()
		label := par.AddRun()
		label.Properties().SetBold(true)
		label.AddText("Question: ")
		par.AddRun().AddText(doc.Question)
	}

	// one paragraph per answer line keeps fallback bullets readable
	for _, line := range strings.Split(doc.Answer, "\n") {
		d.AddParagraph().AddRun().AddText(line)
	}

	if len(doc.Sources) > 0 {
		heading(d, "Heading2", "Sources")
		for _, src := range doc.Sources {
			d.AddParagraph().AddRun().AddText("• " + src)
		}
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(d *document.Document, style, text string) {
	par := d.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(text)
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
