package vaultstate

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/mvp-joe/contextvault/internal/coreutil"
)

// ExcludedFolderNames are top-level vault folders never walked by reindex
// (spec.md §4.3.4 step 1, §6.1).
var ExcludedFolderNames = map[string]bool{
	"projects": true,
	"_archive": true,
}

// ExcludedEntryFiles are filenames within a kind directory that are never
// treated as entries even though they end in .md (spec.md §4.3.4 step 2).
var ExcludedEntryFiles = map[string]bool{
	"README.md":  true,
	"context.md": true,
	"memory.md":  true,
}

// entryGlob matches markdown files eligible to be entries; used alongside
// ExcludedEntryFiles so a reindex walk can short-circuit non-matching
// files without a stat call.
var entryGlob = glob.MustCompile("*.md")

// IsExcludedFolder reports whether name should be skipped entirely during
// the top-level vault walk: it starts with "_" or is in the explicit
// exclude list.
func IsExcludedFolder(name string) bool {
	return strings.HasPrefix(name, "_") || ExcludedFolderNames[name]
}

// IsEntryFile reports whether base (a file's base name) is a candidate
// entry file: it matches *.md and is not one of the reserved non-entry
// names.
func IsEntryFile(base string) bool {
	if !entryGlob.Match(base) {
		return false
	}
	return !ExcludedEntryFiles[base]
}

// KindDir returns the absolute directory for a kind beneath vaultRoot,
// e.g. <vault>/knowledge/insight.
func KindDir(vaultRoot, kind string) string {
	category := coreutil.CategoryForKind(kind)
	return filepath.Join(vaultRoot, category.Dir(), kind)
}

// EntryPath computes the on-disk path for a new entry, per spec.md §6.1:
// <vault>/<category-dir>/<kind>/[<folder>/]<slug>-<id-suffix>.md
func EntryPath(vaultRoot, kind, folder, slug, id string) (string, error) {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	suffix = strings.ToLower(suffix)

	filename := slug + "-" + suffix + ".md"

	base := KindDir(vaultRoot, kind)
	if folder != "" {
		return coreutil.SafeJoin(base, folder, filename)
	}
	return coreutil.SafeJoin(base, filename)
}
