package suggest

import "strings"

// IdentityCatalog records groups of column names known to represent the
// same logical identity across tables, such as the several subscriber-key
// spellings the platform uses. It is injected configuration, not logic;
// loaders can swap the default set for a project-specific one.
type IdentityCatalog struct {
	group map[string]int
}

// NewIdentityCatalog builds a catalog from equivalence groups. Names are
// compared case-insensitively; a name listed in several groups keeps its
// first group.
func NewIdentityCatalog(groups [][]string) *IdentityCatalog {
	c := &IdentityCatalog{group: map[string]int{}}
	for i, names := range groups {
		for _, name := range names {
			key := strings.ToLower(name)
			if _, ok := c.group[key]; !ok {
				c.group[key] = i
			}
		}
	}
	return c
}

// DefaultIdentityCatalog covers the platform's common identity-column
// naming conventions.
func DefaultIdentityCatalog() *IdentityCatalog {
	return NewIdentityCatalog([][]string{
		{"SubscriberKey", "_SubscriberKey", "ContactKey", "ContactID"},
		{"EmailAddress", "Email", "EmailAddr"},
		{"CustomerID", "CustomerKey", "CustomerNumber"},
		{"AccountID", "AccountKey"},
	})
}

// Equivalent reports whether two differently-named columns belong to the
// same identity group. Identical names are not "equivalent"; exact matches
// rank above identity matches and are handled separately.
func (c *IdentityCatalog) Equivalent(a, b string) bool {
	if strings.EqualFold(a, b) {
		return false
	}
	ga, ok := c.group[strings.ToLower(a)]
	if !ok {
		return false
	}
	gb, ok := c.group[strings.ToLower(b)]
	return ok && ga == gb
}
