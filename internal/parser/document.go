package parser

import (
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

var (
	// ErrUnsupportedFormat is returned for any document that is not PDF or
	// DOCX. Fatal for that single document, never for a batch.
	ErrUnsupportedFormat = errors.New("unsupported file format, only PDF and DOCX are supported")

	// ErrExtractionFailed means the file had a supported format but yielded
	// no usable text. Callers treat it as empty text and continue.
	ErrExtractionFailed = errors.New("no text content could be extracted")
)

type DocumentParser interface {
	ExtractText(filePath string) (string, error)
}

type documentParser struct{}

func NewDocumentParser() DocumentParser {
	return &documentParser{}
}

func (d *documentParser) ExtractText(filePath string) (string, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return d.extractPDF(filePath)
	case ".docx":
		return d.extractDOCX(filePath)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filePath))
	}
}

func (d *documentParser) extractPDF(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF: %v", ErrExtractionFailed, err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s", ErrExtractionFailed, filePath)
	}

	return text, nil
}

var docxTagPattern = regexp.MustCompile(`<[^>]+>`)

func (d *documentParser) extractDOCX(filePath string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open DOCX: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()

	// The raw content is WordprocessingML; turn paragraph boundaries into
	// newlines before stripping the remaining tags.
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTagPattern.ReplaceAllString(content, "")
	content = html.UnescapeString(content)

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: %s", ErrExtractionFailed, filePath)
	}

	return content, nil
}

// CleanText normalizes extracted document text: lines are trimmed and runs
// of blank lines collapse to a single one. Paragraph boundaries survive, the
// section extractor depends on them.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string
	blank := false

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(cleanedLines) > 0 {
				cleanedLines = append(cleanedLines, "")
			}
			blank = true
			continue
		}
		blank = false
		cleanedLines = append(cleanedLines, line)
	}

	return strings.Join(cleanedLines, "\n")
}
