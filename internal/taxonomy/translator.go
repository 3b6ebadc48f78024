package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/genai"
	"github.com/janavarta/news-platform/internal/parse"
	"github.com/janavarta/news-platform/internal/store"
	"go.uber.org/zap"
)

// Translator is the provider-backed TranslationHook: it asks the model for a
// per-language rendering of a new category's name and upserts each result.
type Translator struct {
	categories store.Category
	provider   genai.Provider
	languages  []string
	log        *zap.SugaredLogger
}

var _ TranslationHook = (*Translator)(nil)

func NewTranslator(categories store.Category, provider genai.Provider, languages []string) *Translator {
	return &Translator{
		categories: categories,
		provider:   provider,
		languages:  languages,
		log:        zap.S().Named("translator"),
	}
}

func (t *Translator) TranslateAndUpsert(ctx context.Context, categoryID uuid.UUID, baseText string) error {
	for _, lang := range t.languages {
		name, err := t.translate(ctx, baseText, lang)
		if err != nil {
			t.log.Warnf("translating %q to %s: %v", baseText, lang, err)
			continue
		}
		if name == "" || name == baseText {
			continue
		}
		if err := t.categories.UpsertTranslation(ctx, categoryID, lang, name); err != nil {
			return fmt.Errorf("storing %s translation: %w", lang, err)
		}
	}
	return nil
}

func (t *Translator) translate(ctx context.Context, text, lang string) (string, error) {
	prompt := fmt.Sprintf(
		"Translate the news category name %q into the language with ISO code %q. "+
			"Respond with only the translated name, nothing else.", text, lang)

	result, err := t.provider.Generate(ctx, prompt, genai.PurposeTranslation)
	if err != nil {
		return "", err
	}

	name := strings.TrimSpace(parse.StripFences(result.Text))
	if idx := strings.IndexByte(name, '\n'); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	return name, nil
}
