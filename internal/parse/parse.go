// Package parse extracts structured fields from loosely formatted provider
// output. It never panics on garbage input; failures surface as nil results
// so the orchestrator can decide whether they are fatal.
package parse

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var (
	fenceOpenRe = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$")
	bulletRe    = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

// StripFences removes Markdown code fence lines, keeping the fenced content.
func StripFences(raw string) string {
	if !strings.Contains(raw, "```") {
		return strings.TrimSpace(raw)
	}
	lines := strings.Split(raw, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if fenceOpenRe.MatchString(line) || strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// JSONObject parses raw as a single JSON object into v, tolerating code
// fences and surrounding prose. When the direct parse fails it retries on
// the substring between the first '{' and the last '}'. Returns false when
// no object could be decoded.
func JSONObject(raw string, v any) bool {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return false
	}

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return true
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return false
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), v) == nil
}

// Sections splits raw into label-delimited sections. Each recognized label
// owns the text between it and the next recognized label (or end of text).
// Matching is case-insensitive; missing labels are simply absent from the
// result.
func Sections(raw string, labels []string) map[string]string {
	cleaned := StripFences(raw)
	lowered := strings.ToLower(cleaned)

	type mark struct {
		label string
		start int // first byte of the label
		body  int // first byte after the label
	}

	marks := make([]mark, 0, len(labels))
	for _, label := range labels {
		idx := strings.Index(lowered, strings.ToLower(label))
		if idx < 0 {
			continue
		}
		marks = append(marks, mark{label: label, start: idx, body: idx + len(label)})
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	sections := make(map[string]string, len(marks))
	for i, m := range marks {
		end := len(cleaned)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		sections[m.label] = strings.TrimSpace(cleaned[m.body:end])
	}
	return sections
}

// ListItems splits a list-valued section into items, one per line, with
// leading bullet and number markers stripped. Blank lines are dropped.
func ListItems(section string) []string {
	var items []string
	for _, line := range strings.Split(section, "\n") {
		item := strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// CommaList splits a section into items on commas or newlines, whichever the
// model chose to emit.
func CommaList(section string) []string {
	if strings.Contains(section, "\n") && !strings.Contains(section, ",") {
		return ListItems(section)
	}
	var items []string
	for _, part := range strings.Split(section, ",") {
		item := strings.TrimSpace(bulletRe.ReplaceAllString(part, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
