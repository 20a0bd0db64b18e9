package graphql

import "regexp"

var variablePattern = regexp.MustCompile(`\$(\w+)`)

// ExtractVariables returns the distinct `$name` variables referenced by a
// query in first-occurrence order. It is purely lexical and never fails.
func ExtractVariables(query string) []string {
	matches := variablePattern.FindAllStringSubmatch(query, -1)
	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}
