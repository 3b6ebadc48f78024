package taxonomy

import "strings"

// Slugify builds a URL-safe slug from a name: the normalized comparison
// form with spaces turned into hyphens. Names that normalize to nothing get
// a generic stem so slug suffixing still works.
func Slugify(name string) string {
	normalized := Normalize(name)
	if normalized == "" {
		return "category"
	}
	return strings.ReplaceAll(normalized, " ", "-")
}
