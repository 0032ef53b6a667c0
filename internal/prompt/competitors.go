package prompt

import (
	"regexp"
	"strings"
)

var competitorsRe = regexp.MustCompile(`(?i)competitors`)

// RewriteCompetitors expands every occurrence of "competitors" (any case) to
// "<match> including X, Y", listing the tracked identifiers other than operator.
// The query is returned unchanged when there is nothing to list.
func RewriteCompetitors(query string, tracked []string, operator string) string {
	if !competitorsRe.MatchString(query) {
		return query
	}
	var others []string
	for _, id := range tracked {
		if id != operator {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return query
	}
	suffix := " including " + strings.Join(others, ", ")
	return competitorsRe.ReplaceAllStringFunc(query, func(m string) string {
		return m + suffix
	})
}
