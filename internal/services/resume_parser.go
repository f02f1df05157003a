package services

import (
	"bytes"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/skillpilot/internal/models"
)

// MinResumeTextLength is the shortest extracted text accepted as a resume.
const MinResumeTextLength = 50

type ResumeParserService interface {
	ExtractText(filename string, data []byte) (*models.ParsedResume, error)
}

type resumeParserService struct{}

func NewResumeParserService() ResumeParserService {
	return &resumeParserService{}
}

// ExtractText dispatches on the file extension. Unsupported formats and
// text shorter than MinResumeTextLength are ErrInvalidInput.
func (p *resumeParserService) ExtractText(filename string, data []byte) (*models.ParsedResume, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", models.ErrInvalidInput)
	}

	var (
		text string
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	case ".txt":
		text = string(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q, use PDF, DOCX or TXT", models.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	text = CleanText(text)
	if len([]rune(text)) < MinResumeTextLength {
		return nil, fmt.Errorf("%w: could not extract sufficient text from file", models.ErrInvalidInput)
	}

	return &models.ParsedResume{Filename: filename, Text: text}, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var xmlTag = regexp.MustCompile(`<[^>]+>`)

// extractDocxText strips the document XML down to its text runs.
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = strings.NewReplacer("</w:p>", "\n", "<w:tab/>", "\t", "<w:br/>", "\n").Replace(content)
	return html.UnescapeString(xmlTag.ReplaceAllString(content, "")), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
