package message

import (
	"fmt"
	"regexp"
	"strings"
)

// A request relation comes in one of two encodings: a bare name, or a
// class URL of the form {appCellURL}__relation/{__|box}/{name} (roles
// use __role). The class-URL form pins the relation to the box whose
// registered schema matches the app cell.
var (
	relationClassURL = regexp.MustCompile(
		`^(.+?)/__relation/(__|[a-zA-Z0-9][a-zA-Z0-9-_]{0,127})/([a-zA-Z0-9\-+][a-zA-Z0-9\-_+:]{0,127})/?$`)
	roleClassURL = regexp.MustCompile(
		`^(.+?)/__role/(__|[a-zA-Z0-9][a-zA-Z0-9-_]{0,127})/([a-zA-Z0-9][a-zA-Z0-9\-_]{0,127})/?$`)

	relationName = regexp.MustCompile(`^[a-zA-Z0-9\-+][a-zA-Z0-9\-_+:]{0,127}$`)
	roleName     = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_]{0,127}$`)
)

// reference is a parsed requestRelation value.
type reference struct {
	// name of the Relation or Role.
	name string
	// schemaURL is the app cell URL a class-URL reference names,
	// trailing slash included. Empty for bare names.
	schemaURL string
	// classURL marks the encoding that was used.
	classURL bool
}

// parseReference resolves the requestRelation field for the given
// message type.
func parseReference(t Type, raw string) (reference, error) {
	pattern, namePattern := relationClassURL, relationName
	if t.isRole() {
		pattern, namePattern = roleClassURL, roleName
	}
	if m := pattern.FindStringSubmatch(raw); m != nil {
		return reference{
			name:      m[3],
			schemaURL: m[1] + "/",
			classURL:  true,
		}, nil
	}
	// Anything URL-shaped that failed the grammar is malformed, not a
	// bare name.
	if strings.Contains(raw, "/") || !namePattern.MatchString(raw) {
		return reference{}, fmt.Errorf("%w: %q", ErrMalformedReference, raw)
	}
	return reference{name: raw}, nil
}

// canonicalCellURL normalises an external cell URL to its
// trailing-slash form.
func canonicalCellURL(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
