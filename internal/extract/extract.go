// Package extract turns uploaded resume bytes into sanitized plain text.
package extract

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported mime types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
	MimeDOC  = "application/msword"
)

// MinTextLength is the shortest sanitized text accepted as a successful parse.
const MinTextLength = 40

var (
	docxTags   = regexp.MustCompile(`<[^>]+>`)
	docxBreaks = strings.NewReplacer("</w:p>", "\n", "<w:br/>", "\n", "<w:tab/>", "\t")
)

// NormalizeMime lowercases a content type and drops its parameters.
func NormalizeMime(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// Document extracts and sanitizes the text of a resume. Output shorter than
// MinTextLength is a ParsingError.
func Document(mimeType string, data []byte) (string, error) {
	raw, err := Text(mimeType, data)
	if err != nil {
		return "", err
	}

	text := Sanitize(raw)
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", &ParsingError{Message: fmt.Sprintf("extracted text too short (%d characters)", utf8.RuneCountInString(text))}
	}
	return text, nil
}

// Text dispatches on mime type and returns the raw extracted text.
func Text(mimeType string, data []byte) (string, error) {
	switch NormalizeMime(mimeType) {
	case MimeText:
		return strings.ToValidUTF8(string(data), ""), nil

	case MimePDF:
		return pdfText(data)

	case MimeDOCX:
		return docxText(data)

	case MimeDOC:
		return "", &UnsupportedFormatError{MimeType: MimeDOC}

	default:
		return "", &ParsingError{Message: fmt.Sprintf("unrecognized mime type %q", mimeType)}
	}
}

func pdfText(data []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed streams.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ParsingError{Message: "malformed pdf", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParsingError{Message: "failed to read pdf", Cause: err}
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	if strings.TrimSpace(textBuilder.String()) == "" {
		return "", &ParsingError{Message: "pdf contains no extractable text"}
	}
	return textBuilder.String(), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ParsingError{Message: "failed to parse docx", Cause: err}
	}
	defer doc.Close()

	content := docxBreaks.Replace(doc.Editable().GetContent())
	content = html.UnescapeString(docxTags.ReplaceAllString(content, ""))

	if strings.TrimSpace(content) == "" {
		return "", &ParsingError{Message: "docx contains no text"}
	}
	return content, nil
}

