package coreutil

import (
	"path/filepath"
	"strings"
)

// SafeJoin resolves base and the joined parts to absolute form and requires
// the resolved child to be equal to base or nested beneath it. It rejects
// path traversal (".." components, absolute re-roots) before any I/O is
// attempted by the caller.
func SafeJoin(base string, parts ...string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", WrapError(CodePathEscape, "resolve base path", err)
	}
	absBase = filepath.Clean(absBase)

	joined := filepath.Join(append([]string{absBase}, parts...)...)
	absChild, err := filepath.Abs(joined)
	if err != nil {
		return "", WrapError(CodePathEscape, "resolve child path", err)
	}
	absChild = filepath.Clean(absChild)

	if absChild == absBase {
		return absChild, nil
	}
	if strings.HasPrefix(absChild, absBase+string(filepath.Separator)) {
		return absChild, nil
	}
	return "", NewError(CodePathEscape, "path escapes base directory: "+joined)
}
