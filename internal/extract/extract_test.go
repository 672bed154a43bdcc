package extract

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/hireflow/internal/extract/extracttest"
)

const sampleResume = "Jane Doe\r\nSenior Go Engineer\r\n\r\n\r\n\r\nBuilt   distributed systems at scale for eight years."

func TestDocument_PlainText(t *testing.T) {
	text, err := Document("text/plain; charset=utf-8", []byte(sampleResume))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Go Engineer\n\nBuilt distributed systems at scale for eight years.", text)
}

func TestDocument_TooShort(t *testing.T) {
	_, err := Document(MimeText, []byte("  hi \n\n there  "))
	require.Error(t, err)

	var parsingErr *ParsingError
	require.ErrorAs(t, err, &parsingErr)
	assert.Contains(t, parsingErr.Message, "too short")
}

func TestDocument_Formats(t *testing.T) {
	docxResume, err := extracttest.DOCX(`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Senior Go Engineer &amp; mentor</w:t><w:br/><w:t>Built distributed systems for eight years.</w:t></w:r></w:p>`)
	require.NoError(t, err)
	docxEmpty, err := extracttest.DOCX("")
	require.NoError(t, err)

	tests := []struct {
		name    string
		mime    string
		data    []byte
		want    string
		wantErr string
	}{
		{
			name: "pdf",
			mime: MimePDF,
			data: extracttest.PDFText("Jane Doe Senior Go Engineer with eight years building systems"),
			want: "Jane Doe Senior Go Engineer with eight years building systems",
		},
		{
			name:    "pdf without text",
			mime:    MimePDF,
			data:    extracttest.PDF("BT ET"),
			wantErr: "pdf contains no extractable text",
		},
		{
			name: "docx",
			mime: MimeDOCX,
			data: docxResume,
			want: "Jane Doe\nSenior Go Engineer & mentor\nBuilt distributed systems for eight years.",
		},
		{
			name:    "docx without text",
			mime:    MimeDOCX,
			data:    docxEmpty,
			wantErr: "docx contains no text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Document(tt.mime, tt.data)
			if tt.wantErr != "" {
				var parsingErr *ParsingError
				require.ErrorAs(t, err, &parsingErr)
				assert.Equal(t, tt.wantErr, parsingErr.Message)
				assert.Empty(t, text)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestText_LegacyWordIsUnsupported(t *testing.T) {
	_, err := Text(MimeDOC, []byte{0xD0, 0xCF, 0x11, 0xE0})

	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, MimeDOC, unsupported.MimeType)
}

func TestText_UnknownMime(t *testing.T) {
	_, err := Text("image/png", []byte("not a resume"))

	var parsingErr *ParsingError
	require.ErrorAs(t, err, &parsingErr)
	assert.Contains(t, parsingErr.Error(), "image/png")
}

func TestText_CorruptPDF(t *testing.T) {
	_, err := Text(MimePDF, []byte("%PDF-1.4 definitely not a pdf body"))

	var parsingErr *ParsingError
	require.ErrorAs(t, err, &parsingErr)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestText_CorruptDOCX(t *testing.T) {
	_, err := Text(MimeDOCX, []byte("PK not really a zip"))

	var parsingErr *ParsingError
	require.ErrorAs(t, err, &parsingErr)
	assert.NotNil(t, parsingErr.Cause)
}

func TestText_InvalidUTF8IsDropped(t *testing.T) {
	text, err := Text(MimeText, []byte("caf\xffe"))
	require.NoError(t, err)
	assert.Equal(t, "cafe", text)
}

func TestNormalizeMime(t *testing.T) {
	assert.Equal(t, MimePDF, NormalizeMime("Application/PDF"))
	assert.Equal(t, MimeText, NormalizeMime("text/plain; charset=UTF-8"))
	assert.Equal(t, "", NormalizeMime(""))
	assert.True(t, strings.HasPrefix(NormalizeMime(MimeDOCX), "application/vnd"))
}
