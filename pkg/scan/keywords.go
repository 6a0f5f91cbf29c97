package scan

import "strings"

// keywords is the SQL keyword set recognized by the assist engine. The
// dialect is a pragmatic SELECT subset, so this list stays small on
// purpose.
var keywords = map[string]bool{
	"select": true, "from": true, "where": true, "join": true,
	"inner": true, "left": true, "right": true, "full": true,
	"outer": true, "cross": true, "on": true, "as": true,
	"and": true, "or": true, "not": true, "in": true,
	"exists": true, "between": true, "like": true, "is": true,
	"null": true, "group": true, "order": true, "by": true,
	"having": true, "distinct": true, "top": true, "union": true,
	"all": true, "case": true, "when": true, "then": true,
	"else": true, "end": true, "asc": true, "desc": true,
}

// controlKeywords are keywords that can legitimately precede a bare '('
// without forming a function call (WHERE (a = 1), IN (1, 2), ...).
var controlKeywords = map[string]bool{
	"select": true, "where": true, "case": true, "exists": true,
	"in": true, "on": true, "and": true, "or": true, "not": true,
	"from": true, "join": true, "when": true, "then": true,
	"else": true, "having": true, "by": true, "all": true,
	"union": true, "between": true, "like": true, "as": true,
	"top": true, "distinct": true,
}

// IsKeyword reports whether word is a SQL keyword, case-insensitively.
func IsKeyword(word string) bool {
	return keywords[strings.ToLower(word)]
}

// IsControlKeyword reports whether word is a control keyword that does not
// start a function call when followed by '('.
func IsControlKeyword(word string) bool {
	return controlKeywords[strings.ToLower(word)]
}
