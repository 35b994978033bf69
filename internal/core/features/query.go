package features

import (
	"fmt"
	"strings"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// DefaultTimeoutSeconds is the server-side budget requested from Overpass.
const DefaultTimeoutSeconds = 30

// BuildQuery renders the Overpass QL union for every Taxonomy rule inside b.
// Full geometry is requested so road lengths can be measured.
func BuildQuery(b domain.Bounds, timeoutSeconds int) string {
	if timeoutSeconds <= 0 {
		timeoutSeconds = DefaultTimeoutSeconds
	}
	bbox := b.String()

	var sb strings.Builder
	fmt.Fprintf(&sb, "[out:json][timeout:%d];\n(\n", timeoutSeconds)
	for _, r := range Taxonomy {
		fmt.Fprintf(&sb, "  // %s\n", r.Category)
		for _, m := range r.Match {
			for _, k := range r.Kinds {
				fmt.Fprintf(&sb, "  %s%s(%s);\n", k, m.filter(), bbox)
			}
		}
	}
	sb.WriteString(");\nout body geom;\n")
	return sb.String()
}
