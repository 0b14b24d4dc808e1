package linkverify

import (
	"path/filepath"
	"strings"
)

// skippedPrefixes are reference schemes the validator never resolves.
var skippedPrefixes = []string{
	"mailto:", "tel:", "javascript:", "data:", "http://", "https://",
}

// Skippable reports whether a reference is out of validation scope.
func Skippable(href string) bool {
	for _, prefix := range skippedPrefixes {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// SplitFragment separates a reference into its path and fragment parts.
func SplitFragment(href string) (path, fragment string) {
	path, fragment, _ = strings.Cut(href, "#")
	return path, fragment
}

// resolutionCandidates returns the ordered base paths a reference may
// resolve against. The precedence is a load-bearing contract, kept as an
// explicit list rather than branch soup:
//
//  1. absolute-rooted paths resolve against the output root;
//  2. parent-traversal paths resolve against the referencing document's
//     directory;
//  3. all other relative paths try the output root first (root-relative
//     asset references authored without a leading slash), then the
//     document's own directory.
func resolutionCandidates(ref, docDir, outputRoot string) []string {
	switch {
	case strings.HasPrefix(ref, "/"):
		return []string{filepath.Join(outputRoot, filepath.FromSlash(ref))}
	case strings.HasPrefix(ref, "../") || ref == "..":
		return []string{filepath.Join(docDir, filepath.FromSlash(ref))}
	default:
		return []string{
			filepath.Join(outputRoot, filepath.FromSlash(ref)),
			filepath.Join(docDir, filepath.FromSlash(ref)),
		}
	}
}

// pathVariations returns the on-disk spellings tried for one candidate
// path: the literal path, the path with .html appended, and the path as a
// directory with an index document.
func pathVariations(candidate string) []string {
	return []string{
		candidate,
		candidate + ".html",
		filepath.Join(candidate, "index.html"),
	}
}
