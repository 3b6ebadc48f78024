package pipeline

import (
	"regexp"
	"strings"
)

var (
	scriptRe    = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	dangerTagRe = regexp.MustCompile(`(?i)</?(?:script|iframe|object|embed|link|meta)\b[^>]*>`)
	anyTagRe    = regexp.MustCompile(`<[^>]+>`)
	controlRe   = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// sanitizeHTML strips script content and dangerous tags, opening and
// closing, from generated markup and normalizes line endings. The provider
// is asked for clean paragraphs, but its output is still treated as
// untrusted.
func sanitizeHTML(content string) string {
	content = scriptRe.ReplaceAllString(content, "")
	content = dangerTagRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.TrimSpace(content)
}

// renderParagraphs wraps bare text blocks in <p> tags. Text that already
// carries markup is left alone apart from sanitization.
func renderParagraphs(text string) string {
	text = sanitizeHTML(text)
	if strings.Contains(text, "<p") || strings.Contains(text, "<h") {
		return text
	}

	var b strings.Builder
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
		if block == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(block)
		b.WriteString("</p>\n")
	}
	return strings.TrimSpace(b.String())
}

// plainText reduces markup to a whitespace-normalized text variant.
func plainText(content string) string {
	content = anyTagRe.ReplaceAllString(content, " ")
	content = controlRe.ReplaceAllString(content, " ")
	return strings.Join(strings.Fields(content), " ")
}

func truncateToWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
