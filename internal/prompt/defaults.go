package prompt

// Template keys. Operators may override any of these with a prompt_templates
// row; the constants below are the built-in fallbacks.
const (
	KeyFullDerivation = "derive_full"
	KeySEOOnly        = "derive_seo_only"
	KeyShortDraft     = "short_draft"
)

var defaultTemplates = map[string]string{
	KeyFullDerivation: `You are a senior news editor for a regional news publication.
Rewrite the following field report into publication-ready formats, in {{language}}.

Respond with EXACTLY these labeled sections, in this order, no other text:

WEB TITLE:
A clear, factual headline for the web article.

WEB BODY:
The full rewritten article, well structured paragraphs, neutral tone.

SEO TITLE:
Search-optimized title, under 60 characters.

SEO DESCRIPTION:
1-2 sentences, under 160 characters.

SEO KEYWORDS:
5-7 comma separated keywords.

PRINT HEADLINE:
Newspaper headline, 6 words or fewer.

KICKER:
Optional one-line kicker above the headline.

KEY POINTS:
3 to 5 bullet points, 5 words or fewer each.

DATELINE:
The place name for the dateline.

PRINT BODY:
Newspaper article body, 150 to 200 words.

Original report:
Title: {{title}}

{{body}}`,

	KeySEOOnly: `You are an SEO specialist for a regional news publication.
For the following article, produce ONLY search metadata. Do not rewrite the article.

Respond with a single valid JSON object with these fields:
- seoTitle (string, under 60 characters)
- seoDescription (string, under 160 characters)
- seoKeywords (array of 5-7 strings)

Article:
Title: {{title}}

{{body}}`,

	KeyShortDraft: `You are a news editor condensing a report into a short social-style item, in {{language}}.
The content must be between {{min_words}} and {{max_words}} words. This limit is strict.

Respond with a single valid JSON object with these fields:
- title (string, short and factual)
- subTitle (string, optional)
- content (string, {{min_words}}-{{max_words}} words)
- suggestedCategoryName (string, 1-2 words naming the news category)

Report:
Title: {{title}}

{{body}}`,
}

// Default returns the built-in template for key, empty when unknown.
func Default(key string) string {
	return defaultTemplates[key]
}
