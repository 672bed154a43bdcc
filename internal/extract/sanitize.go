package extract

import (
	"regexp"
	"strings"
)

// TruncationMarker is appended to parsed text cut at the configured maximum.
const TruncationMarker = "\n…[truncated]"

// SummaryParagraphs is how many leading paragraphs make up a summary.
const SummaryParagraphs = 6

var (
	inlineSpace  = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	paragraphGap = regexp.MustCompile(`\n\s*\n`)
)

// Sanitize normalizes line endings to LF, collapses whitespace runs inside
// each line, squeezes runs of blank lines down to a single blank line and
// trims the result.
func Sanitize(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpace.ReplaceAllString(line, " "))
	}

	content = blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(content)
}

// Truncate cuts text to at most limit runes. When it cuts, the suffix is
// appended inside the limit.
func Truncate(text string, limit int, suffix string) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	marker := []rune(suffix)
	if len(marker) >= limit {
		return string(runes[:limit])
	}
	return strings.TrimRight(string(runes[:limit-len(marker)]), " \n") + suffix
}

// Summarize joins the first SummaryParagraphs blank-line separated paragraphs
// and truncates them to limit runes. Text without paragraphs is summarized
// whole.
func Summarize(text string, limit int) string {
	var paragraphs []string
	for _, p := range paragraphGap.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
		if len(paragraphs) == SummaryParagraphs {
			break
		}
	}

	source := text
	if len(paragraphs) > 0 {
		source = strings.Join(paragraphs, "\n\n")
	}
	return Truncate(strings.TrimSpace(source), limit, "…")
}
