// Package taxonomy resolves AI-suggested category names against the existing
// taxonomy, creating new entries under guardrails that keep free-text
// suggestions from exploding the category tree.
package taxonomy

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/janavarta/news-platform/internal/notify"
	"github.com/janavarta/news-platform/internal/store"
	"github.com/janavarta/news-platform/internal/store/model"
	"go.uber.org/zap"
)

const maxSlugAttempts = 50

// TranslationHook localizes a freshly created category's display names.
// Invoked fire-and-forget; the resolver never waits on it.
type TranslationHook interface {
	TranslateAndUpsert(ctx context.Context, categoryID uuid.UUID, baseText string) error
}

type Options struct {
	SimilarityThreshold float64
	AutoCreate          bool
	MinChars            int
	MaxChars            int
	MaxWords            int
	// Languages whose display names are seeded with the suggested text on
	// create, pending the translation hook.
	Languages []string
}

// Match is the resolution outcome. The ID always exists in the store at the
// moment of return: create-then-return, never return-then-create.
type Match struct {
	ID      uuid.UUID
	Name    string
	Created bool
	Score   float64
}

type Resolver struct {
	categories store.Category
	hook       TranslationHook
	opts       Options
	log        *zap.SugaredLogger
}

func NewResolver(categories store.Category, hook TranslationHook, opts Options) *Resolver {
	return &Resolver{
		categories: categories,
		hook:       hook,
		opts:       opts,
		log:        zap.S().Named("taxonomy"),
	}
}

// ResolveOrCreate finds the existing category closest to the suggested name,
// or creates one when nothing clears the similarity threshold. Returns nil
// (no error) when the suggestion is unusable or blocked by guardrails.
func (r *Resolver) ResolveOrCreate(ctx context.Context, suggested, lang string) (*Match, error) {
	normalized := Normalize(suggested)
	if normalized == "" {
		return nil, nil
	}

	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	var best *Match
	for _, category := range categories {
		for _, name := range category.DisplayNames() {
			score := DiceSimilarity(normalized, Normalize(name))
			if best == nil || score > best.Score {
				best = &Match{ID: category.ID, Name: category.Name, Score: score}
			}
		}
	}

	if best != nil && best.Score >= r.opts.SimilarityThreshold {
		r.log.Debugf("category %q matched %q (score %.2f)", suggested, best.Name, best.Score)
		return best, nil
	}

	if !r.opts.AutoCreate {
		return nil, nil
	}

	// guardrails: sentence fragments never become categories
	if len([]rune(normalized)) < r.opts.MinChars || len([]rune(normalized)) > r.opts.MaxChars {
		r.log.Debugf("category %q rejected: length out of bounds", suggested)
		return nil, nil
	}
	if len(strings.Fields(normalized)) > r.opts.MaxWords {
		r.log.Debugf("category %q rejected: too many words", suggested)
		return nil, nil
	}

	created, err := r.create(ctx, suggested, lang)
	if err != nil {
		return nil, err
	}

	score := 0.0
	if best != nil {
		score = best.Score
	}
	return &Match{ID: created.ID, Name: created.Name, Created: true, Score: score}, nil
}

func (r *Resolver) create(ctx context.Context, suggested, lang string) (*model.Category, error) {
	slug, err := r.uniqueSlug(ctx, Slugify(suggested))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(suggested)
	translations := map[string]string{lang: name}
	for _, l := range r.opts.Languages {
		if _, ok := translations[l]; !ok {
			// placeholder until the translation hook refines it
			translations[l] = name
		}
	}

	category, err := r.categories.Create(ctx, &model.Category{
		Name:         name,
		Slug:         slug,
		Translations: model.MakeJSONField(translations),
	})
	if err != nil {
		return nil, fmt.Errorf("creating category %q: %w", name, err)
	}

	r.log.Infof("created category %q (slug %s)", name, slug)

	if r.hook != nil {
		id := category.ID
		notify.Detach("category-translation", func(ctx context.Context) error {
			return r.hook.TranslateAndUpsert(ctx, id, name)
		})
	}

	return category, nil
}

func (r *Resolver) uniqueSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		exists, err := r.categories.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", fmt.Errorf("no free slug for %q after %d attempts", base, maxSlugAttempts)
}
