// ABOUTME: SQL helper functions for query construction.
// ABOUTME: LIKE escaping shared by the request log filters.

package store

import "strings"

// likeEscaper escapes the LIKE wildcards % and _ plus the escape character
// itself. Callers must pair the result with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeSQLLike makes pattern match literally inside a LIKE expression.
func escapeSQLLike(pattern string) string {
	return likeEscaper.Replace(pattern)
}
