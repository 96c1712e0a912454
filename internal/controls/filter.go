package controls

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
)

// Filter returns the names matching a case-insensitive glob such as
// "*network*" or "win?*". An empty pattern matches everything. Both the
// name and its safe form are tried.
func Filter(names []string, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return append([]string(nil), names...), nil
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid filter %q", pattern)
	}
	out := []string{}
	for _, n := range names {
		lower := strings.ToLower(n)
		if g.Match(lower) || g.Match(SafeName(lower)) {
			out = append(out, n)
		}
	}
	return out, nil
}
