// Package prompt resolves generation prompt templates. Precedence per key:
// runtime override, persisted template row, built-in default.
package prompt

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/janavarta/news-platform/internal/store"
	"go.uber.org/zap"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

type cacheEntry struct {
	text      string
	found     bool
	expiresAt time.Time
}

// Store serves templates with a time-boxed cache over the persisted rows.
// Constructed once at process start and injected wherever prompts are built.
type Store struct {
	repo      store.PromptTemplate
	ttl       time.Duration
	overrides map[string]string

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewStore(repo store.PromptTemplate, ttl time.Duration, overrides map[string]string) *Store {
	return &Store{
		repo:      repo,
		ttl:       ttl,
		overrides: overrides,
		cache:     make(map[string]cacheEntry),
	}
}

// Get returns the template text for key. The prompt text is opaque here;
// lookup failures fall through to the built-in default.
func (s *Store) Get(ctx context.Context, key string) string {
	if text, ok := s.overrides[key]; ok && text != "" {
		// an override may also redirect to another key
		if redirected := defaultTemplates[text]; redirected != "" {
			return redirected
		}
		return text
	}

	if text, ok := s.cachedRow(ctx, key); ok {
		return text
	}

	return Default(key)
}

func (s *Store) cachedRow(ctx context.Context, key string) (string, bool) {
	s.mu.Lock()
	entry, ok := s.cache[key]
	s.mu.Unlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.text, entry.found
	}

	row, err := s.repo.GetByKey(ctx, key)
	found := err == nil
	text := ""
	if found {
		text = row.Text
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		// storage trouble: serve the default, try again after the TTL
		zap.S().Named("prompt").Warnf("template lookup failed for %q: %v", key, err)
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{text: text, found: found, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return text, found
}

// Render substitutes {{name}} placeholders with the given variables. Unknown
// placeholders are replaced with the empty string. No escaping: the template
// text is opaque.
func Render(template string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(token string) string {
		name := placeholderRe.FindStringSubmatch(token)[1]
		return vars[name]
	})
}
