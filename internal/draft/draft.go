// Package draft produces the short-form condensation of a work item,
// retrying generation until the word-count constraint converges and falling
// back to a deterministic truncation when it never does.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/janavarta/news-platform/internal/parse"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// GenerateFunc is a single provider invocation for a given prompt.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

type Options struct {
	MinWords        int
	MaxWords        int
	MaxAttempts     int
	MaxTitleChars   int
	DefaultCategory string
}

// Draft is the short-form candidate. Attempts, FallbackUsed, and RawOutput
// are recorded on the work item state for observability; RawOutput holds the
// last provider text even when it never parsed.
type Draft struct {
	Title        string
	SubTitle     string
	Body         string
	CategoryName string
	RawOutput    string
	Attempts     int
	FallbackUsed bool
}

const amendment = "\n\nIMPORTANT CORRECTION: your previous answer had %d words of content. " +
	"Rewrite it so the content field has between %d and %d words. Keep the same JSON shape."

// Generate runs the retry loop. The first attempt uses basePrompt verbatim;
// each subsequent attempt appends a correction naming the previous word
// count. A draft under MinWords is accepted once attempts are exhausted. If
// no attempt ever parses, the deterministic fallback is synthesized from
// sourceText.
func Generate(ctx context.Context, sourceText, basePrompt string, gen GenerateFunc, opts Options) *Draft {
	log := zap.S().Named("draft")

	var accepted *parse.ShortDraftResponse
	attempts := 0
	prevWords := 0
	lastRaw := ""

	for attempts < opts.MaxAttempts {
		if ctx.Err() != nil {
			break
		}
		attempts++

		prompt := basePrompt
		if attempts > 1 {
			prompt += fmt.Sprintf(amendment, prevWords, opts.MinWords, opts.MaxWords)
		}

		raw, err := gen(ctx, prompt)
		if err != nil {
			log.Warnf("short draft attempt %d failed: %v", attempts, err)
			continue
		}
		lastRaw = raw

		candidate := parse.ShortDraft(raw)
		if candidate == nil {
			log.Warnf("short draft attempt %d: unparseable output", attempts)
			continue
		}

		accepted = candidate
		prevWords = wordCount(candidate.Content)
		if prevWords >= opts.MinWords {
			break
		}
		log.Debugf("short draft attempt %d under minimum: %d < %d words", attempts, prevWords, opts.MinWords)
	}

	draft := &Draft{Attempts: attempts, RawOutput: lastRaw}
	if accepted != nil {
		draft.Title = accepted.Title
		draft.SubTitle = accepted.SubTitle
		draft.Body = accepted.Content
		draft.CategoryName = accepted.SuggestedCategoryName
	} else {
		fallbackInto(draft, sourceText, opts)
	}

	clamp(draft, opts)
	return draft
}

// fallbackInto fills the draft deterministically from the source text: the
// first MaxWords words become the body, the first six words (title-cased)
// become the title.
func fallbackInto(draft *Draft, sourceText string, opts Options) {
	draft.FallbackUsed = true
	draft.Body = truncateWords(sourceText, opts.MaxWords)
	title := cases.Title(language.Und).String(truncateWords(sourceText, 6))
	draft.Title = truncateRunes(title, opts.MaxTitleChars)
}

// clamp enforces the hard limits regardless of which path produced the draft.
func clamp(draft *Draft, opts Options) {
	draft.Title = truncateRunes(strings.TrimSpace(draft.Title), opts.MaxTitleChars)
	draft.Body = truncateWords(draft.Body, opts.MaxWords)
	if strings.TrimSpace(draft.CategoryName) == "" {
		draft.CategoryName = opts.DefaultCategory
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
