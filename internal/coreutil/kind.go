package coreutil

import "regexp"

// Category is the coarse class driving decay and upsert policy.
type Category string

const (
	CategoryKnowledge Category = "knowledge"
	CategoryEntity    Category = "entity"
	CategoryEvent     Category = "event"
)

// Dir returns the on-disk directory name for a category.
func (c Category) Dir() string {
	switch c {
	case CategoryKnowledge:
		return "knowledge"
	case CategoryEntity:
		return "entities"
	case CategoryEvent:
		return "events"
	default:
		return "unknown"
	}
}

// kindCategory is the static kind→category table from the glossary. Kinds
// not present here fall back to CategoryKnowledge, matching the teacher's
// permissive "unknown extension" handling elsewhere in the pack.
var kindCategory = map[string]Category{
	"insight":   CategoryKnowledge,
	"decision":  CategoryKnowledge,
	"pattern":   CategoryKnowledge,
	"note":      CategoryKnowledge,
	"document":  CategoryKnowledge,
	"reference": CategoryKnowledge,
	"prompt":    CategoryKnowledge,

	"contact": CategoryEntity,
	"project": CategoryEntity,
	"tool":    CategoryEntity,
	"source":  CategoryEntity,
	"bucket":  CategoryEntity,

	"conversation": CategoryEvent,
	"message":      CategoryEvent,
	"session":      CategoryEvent,
	"task":         CategoryEvent,
	"log":          CategoryEvent,
	"feedback":     CategoryEvent,
}

// kindPattern is the kind grammar: lowercase, starts with a letter,
// continues with letters, digits, underscore or hyphen.
var kindPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidKind reports whether kind matches the kind grammar.
func ValidKind(kind string) bool {
	return kindPattern.MatchString(kind)
}

// CategoryForKind derives the category for a kind via the fixed table.
// Unregistered-but-grammatically-valid kinds default to knowledge, so
// callers may introduce new kinds without a code change breaking capture.
func CategoryForKind(kind string) Category {
	if c, ok := kindCategory[kind]; ok {
		return c
	}
	return CategoryKnowledge
}

// RegisteredKinds returns every kind known to the static table, grouped
// under its category, each group listed in the glossary's order (e.g. for
// reindex's per-kind directory walk). The kinds are not sorted, and
// ranging over the returned map visits the categories in no fixed order.
func RegisteredKinds() map[Category][]string {
	out := map[Category][]string{
		CategoryKnowledge: {"insight", "decision", "pattern", "note", "document", "reference", "prompt"},
		CategoryEntity:    {"contact", "project", "tool", "source", "bucket"},
		CategoryEvent:     {"conversation", "message", "session", "task", "log", "feedback"},
	}
	return out
}
