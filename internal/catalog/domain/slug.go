package domain

import (
	"strings"
	"unicode"
)

// IsUnsetSlug reports whether a path segment carries no usable slug. Clients
// that render before their data arrives request the literal "undefined".
func IsUnsetSlug(slug string) bool {
	s := strings.TrimSpace(slug)
	return s == "" || s == "undefined" || s == "null"
}

// NameFromSlug turns "barrel-born-digital-menu" into "barrel born digital menu",
// the form matched case-insensitively against stored project names.
func NameFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// DisplayNameFromSlug title-cases the slug-derived name for new records:
// "barrel-born-digital-menu" becomes "Barrel Born Digital Menu".
func DisplayNameFromSlug(slug string) string {
	name := []rune(NameFromSlug(slug))
	atWordStart := true
	for i, r := range name {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && atWordStart {
			name[i] = unicode.ToUpper(r)
		}
		atWordStart = !isWord
	}
	return string(name)
}

// ProjectFilter lists the OR-ed conditions under which a project belongs to a
// service. ServiceID and ServiceName are set only when the service itself was
// found in the store.
type ProjectFilter struct {
	ServiceID   string
	ServiceSlug string
	ServiceName string
}

// Matches evaluates the filter in process, for backends without a query language.
func (f ProjectFilter) Matches(d ProjectDocument) bool {
	if f.ServiceID != "" && d.ServiceID.String() == f.ServiceID {
		return true
	}
	if f.ServiceSlug != "" && (d.ServiceSlug == f.ServiceSlug || d.Category == f.ServiceSlug) {
		return true
	}
	if f.ServiceName != "" && d.ServiceName == f.ServiceName {
		return true
	}
	return false
}

// MatchesSlugOrName reports whether d is addressed by slug, either directly or
// through its case-insensitive slug-derived name.
func MatchesSlugOrName(d ProjectDocument, slug string) bool {
	if slug == "" {
		return false
	}
	if d.Slug == slug {
		return true
	}
	return d.Name != "" && strings.EqualFold(d.Name, NameFromSlug(slug))
}
