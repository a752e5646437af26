// Package fieldpath folds flat dotted paths into a nested field mapping.
package fieldpath

import "strings"

// Fold groups sibling leaf paths under their first segment:
//
//	Fold([]string{"stats.days", "stats.weeks", "history"})
//	  -> {"stats": ["days", "weeks"], "history": []}
//
// Only the first separator splits; deeper segments stay joined so each
// consumer can fold its own sub-paths recursively.
func Fold(paths []string) map[string][]string {
	folded := make(map[string][]string, len(paths))
	for _, path := range paths {
		head, rest, found := strings.Cut(path, ".")
		if found && rest != "" {
			folded[head] = append(folded[head], rest)
			continue
		}
		if _, ok := folded[head]; !ok {
			folded[head] = nil
		}
	}
	return folded
}
