package parse

import "strings"

// Section labels the full-derivation prompt instructs the model to emit.
// Kept label-delimited rather than JSON: long multi-block completions
// reliably break out of JSON, labels survive.
const (
	LabelWebTitle       = "WEB TITLE:"
	LabelWebBody        = "WEB BODY:"
	LabelSEOTitle       = "SEO TITLE:"
	LabelSEODescription = "SEO DESCRIPTION:"
	LabelSEOKeywords    = "SEO KEYWORDS:"
	LabelPrintHeadline  = "PRINT HEADLINE:"
	LabelKicker         = "KICKER:"
	LabelKeyPoints      = "KEY POINTS:"
	LabelDateline       = "DATELINE:"
	LabelPrintBody      = "PRINT BODY:"
)

var fullLabels = []string{
	LabelWebTitle,
	LabelWebBody,
	LabelSEOTitle,
	LabelSEODescription,
	LabelSEOKeywords,
	LabelPrintHeadline,
	LabelKicker,
	LabelKeyPoints,
	LabelDateline,
	LabelPrintBody,
}

// SEOBlock is the metadata the limited mode asks for on its own, and the
// full mode embeds in its labeled response.
type SEOBlock struct {
	Title       string   `json:"seoTitle"`
	Description string   `json:"seoDescription"`
	Keywords    []string `json:"seoKeywords"`
}

// PrintBlock holds the newspaper-shaped fields of a full response.
type PrintBlock struct {
	Headline  string
	Kicker    string
	KeyPoints []string
	Dateline  string
	Body      string
}

// FullResponse is the parsed multi-block output of a full-mode derivation.
type FullResponse struct {
	WebTitle string
	WebBody  string
	SEO      SEOBlock
	Print    PrintBlock
}

// ShortDraftResponse is the JSON shape of the short-form condensation.
type ShortDraftResponse struct {
	Title                 string `json:"title"`
	SubTitle              string `json:"subTitle"`
	Content               string `json:"content"`
	SuggestedCategoryName string `json:"suggestedCategoryName"`
}

// FullDerivation extracts the label-delimited full response. Returns nil
// when the required web title or body is missing so the caller records a
// parse failure instead of persisting an empty artifact.
func FullDerivation(raw string) *FullResponse {
	sections := Sections(raw, fullLabels)

	webTitle := sections[LabelWebTitle]
	webBody := sections[LabelWebBody]
	if webTitle == "" || webBody == "" {
		return nil
	}

	return &FullResponse{
		WebTitle: webTitle,
		WebBody:  webBody,
		SEO: SEOBlock{
			Title:       sections[LabelSEOTitle],
			Description: sections[LabelSEODescription],
			Keywords:    CommaList(sections[LabelSEOKeywords]),
		},
		Print: PrintBlock{
			Headline:  sections[LabelPrintHeadline],
			Kicker:    sections[LabelKicker],
			KeyPoints: ListItems(sections[LabelKeyPoints]),
			Dateline:  sections[LabelDateline],
			Body:      sections[LabelPrintBody],
		},
	}
}

// SEOOnly extracts the JSON-shaped limited-mode response. Returns nil when
// the SEO title is missing.
func SEOOnly(raw string) *SEOBlock {
	var block SEOBlock
	if !JSONObject(raw, &block) {
		return nil
	}
	if strings.TrimSpace(block.Title) == "" {
		return nil
	}
	return &block
}

// ShortDraft extracts the JSON-shaped short-form draft. Returns nil when
// either required field is missing.
func ShortDraft(raw string) *ShortDraftResponse {
	var draft ShortDraftResponse
	if !JSONObject(raw, &draft) {
		return nil
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return nil
	}
	return &draft
}
