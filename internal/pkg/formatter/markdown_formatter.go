package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", baseTitle)
	if doc.Question != "" {
		fmt.Fprintf(&buf, "**Question:** %s\n\n", doc.Question)
	}
	fmt.Fprintf(&buf, "%s\n", doc.Answer)

	if len(doc.Sources) > 0 {
		buf.WriteString("\n## Sources\n\n")
		for _, src := range doc.Sources {
			fmt.Fprintf(&buf, "- <%s>\n", src)
		}
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
