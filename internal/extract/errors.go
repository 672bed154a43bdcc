package extract

import "fmt"

// ParsingError is a failed or empty text extraction. Cause holds the
// underlying library error when there is one.
type ParsingError struct {
	Message string
	Cause   error
}

func (e *ParsingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("resume parsing failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("resume parsing failed: %s", e.Message)
}

func (e *ParsingError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError is a known document format that cannot be extracted,
// such as the legacy binary Word format.
type UnsupportedFormatError struct {
	MimeType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported resume format %s: convert the document to PDF or DOCX", e.MimeType)
}
