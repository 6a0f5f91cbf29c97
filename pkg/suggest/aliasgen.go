package suggest

import (
	"strconv"
	"strings"
	"unicode"
)

// GenerateAlias derives a short alias for a table name that does not
// collide with the lowercase keys in existing. It tries, in order, the
// lowercase initials of the name's words, the first four characters of the
// name, and finally a numeric suffix. Returns "" only for names with no
// alphanumeric content.
func GenerateAlias(name string, existing map[string]bool) string {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "ENT."), "ent.")

	words := splitNameWords(name)
	if len(words) == 0 {
		return ""
	}

	var initials strings.Builder
	for _, w := range words {
		initials.WriteRune(unicode.ToLower([]rune(w)[0]))
	}
	if alias := initials.String(); !existing[alias] {
		return alias
	}

	flat := stripNonAlnum(name)
	abbrev := flat
	if len(abbrev) > 4 {
		abbrev = abbrev[:4]
	}
	if !existing[abbrev] {
		return abbrev
	}

	for n := 2; ; n++ {
		candidate := abbrev + strconv.Itoa(n)
		if !existing[candidate] {
			return candidate
		}
	}
}

// splitNameWords splits a table name on spaces, underscores, hyphens and
// CamelCase humps. "OrderDetails" becomes ["Order", "Details"].
func splitNameWords(name string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	prevLower := false
	for _, r := range name {
		switch {
		case r == ' ' || r == '_' || r == '-':
			flush()
			prevLower = false
		case unicode.IsUpper(r) && prevLower:
			flush()
			cur = append(cur, r)
			prevLower = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			cur = append(cur, r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		default:
			flush()
			prevLower = false
		}
	}
	flush()
	return words
}
