package capture

import (
	"fmt"
	"strings"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// renderBody applies the kind-specific body template from spec.md §6.1:
// title becomes a leading H1 for knowledge-category kinds; event and
// entity kinds render the body as-is.
func renderBody(category coreutil.Category, title, body string) string {
	body = strings.TrimRight(body, "\n")
	if category == coreutil.CategoryKnowledge && title != "" {
		return fmt.Sprintf("# %s\n\n%s\n", title, body)
	}
	return body + "\n"
}

// buildFrontmatter assembles the ordered frontmatter fields for an
// entry: id, title (if set), identity_key (if set), flattened meta (in
// map iteration order), tags (if any), source, created, and expires_at
// (if set).
func buildFrontmatter(e *Entry) []coreutil.FrontmatterField {
	fields := []coreutil.FrontmatterField{
		{Key: "id", Value: e.ID},
	}
	if e.Title != "" {
		fields = append(fields, coreutil.FrontmatterField{Key: "title", Value: e.Title})
	}
	if e.IdentityKey != "" {
		fields = append(fields, coreutil.FrontmatterField{Key: "identity_key", Value: e.IdentityKey})
	}
	for k, v := range e.Meta {
		fields = append(fields, coreutil.FrontmatterField{Key: k, Value: v})
	}
	if len(e.Tags) > 0 {
		fields = append(fields, coreutil.FrontmatterField{Key: "tags", Value: e.Tags})
	}
	fields = append(fields, coreutil.FrontmatterField{Key: "source", Value: e.Source})
	fields = append(fields, coreutil.FrontmatterField{Key: "created", Value: e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")})
	if e.ExpiresAt != nil {
		fields = append(fields, coreutil.FrontmatterField{Key: "expires_at", Value: e.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z")})
	}
	return fields
}
