package capture

import (
	"encoding/json"
	"strings"

	"github.com/mvp-joe/contextvault/internal/coreutil"
)

const (
	maxTitleLen       = 500
	maxBodyBytes      = 100 * 1024
	maxTags           = 20
	maxTagLen         = 100
	maxMetaBytes      = 10 * 1024
	maxSourceLen      = 200
	maxIdentityKeyLen = 200
)

// Validate checks an input against the size and grammar limits of
// spec.md §3.1, returning the first violation as a *coreutil.Error with
// the matching code from §7.
func Validate(in *WriteEntryInput) error {
	if !coreutil.ValidKind(in.Kind) {
		return coreutil.NewError(coreutil.CodeInvalidKind, "kind must match ^[a-z][a-z0-9_-]*$")
	}
	if strings.TrimSpace(in.Body) == "" {
		return coreutil.NewError(coreutil.CodeBodyRequired, "body must not be empty")
	}
	if len(in.Body) > maxBodyBytes {
		return coreutil.NewError(coreutil.CodeBodyTooLarge, "body exceeds 100 KiB")
	}
	if len(in.Title) > maxTitleLen {
		return coreutil.NewError(coreutil.CodeTitleTooLong, "title exceeds 500 characters")
	}
	if len(in.Tags) > maxTags {
		return coreutil.NewError(coreutil.CodeTagsTooMany, "tags exceeds 20 entries")
	}
	for _, tag := range in.Tags {
		if len(tag) > maxTagLen {
			return coreutil.NewError(coreutil.CodeTagTooLong, "tag exceeds 100 characters")
		}
	}
	if len(in.Source) > maxSourceLen {
		return coreutil.NewError(coreutil.CodeSourceTooLong, "source exceeds 200 characters")
	}
	if len(in.IdentityKey) > maxIdentityKeyLen {
		return coreutil.NewError(coreutil.CodeIdentityKeyTooLong, "identity_key exceeds 200 characters")
	}
	if in.Meta != nil {
		raw, err := json.Marshal(in.Meta)
		if err != nil {
			return coreutil.WrapError(coreutil.CodeMetaTooLarge, "meta must serialize to JSON", err)
		}
		if len(raw) > maxMetaBytes {
			return coreutil.NewError(coreutil.CodeMetaTooLarge, "meta exceeds 10 KiB serialized")
		}
	}
	return nil
}

// DedupTags removes duplicate tags while preserving first-occurrence
// order, per spec.md §3.1 ("deduplicated at write; order preserved for
// display").
func DedupTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
