package genai

import "context"

// Purpose tags recorded on usage rows and metrics.
const (
	PurposeDerivation  = "derivation"
	PurposeShortDraft  = "short_draft"
	PurposeSEOOnly     = "seo_only"
	PurposeTranslation = "translation"
)

// Usage is the provider's token accounting for a single call. Optional;
// providers that do not report usage leave it nil.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
	Provider         string
}

// Result is the outcome of one generation call. Text may be empty; callers
// decide whether that is fatal.
type Result struct {
	Text  string
	Usage *Usage
}

// Provider generates text from a prompt. Implementations must tolerate
// garbage output and honor the context deadline.
type Provider interface {
	Generate(ctx context.Context, prompt string, purpose string) (*Result, error)
}
