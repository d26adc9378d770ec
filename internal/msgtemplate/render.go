// Package msgtemplate holds the message template editor: placeholder
// substitution, the custom variable list and the draft being edited.
package msgtemplate

import (
	"regexp"
	"strings"
)

// Binding is one user-defined variable: a placeholder name and its value.
type Binding struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

var standardFields = []Binding{
	{Key: "first_name", Value: "John"},
	{Key: "last_name", Value: "Doe"},
	{Key: "email", Value: "john.doe@example.com"},
	{Key: "phone", Value: "+1234567890"},
}

// StandardFields returns the reserved lead fields with the sample values used
// for previews. They are never persisted.
func StandardFields() []Binding {
	out := make([]Binding, len(standardFields))
	copy(out, standardFields)
	return out
}

// IsStandardField reports whether name is one of the reserved lead fields.
func IsStandardField(name string) bool {
	for _, f := range standardFields {
		if f.Key == name {
			return true
		}
	}
	return false
}

// Token returns the placeholder text for name, e.g. {{first_name}}.
func Token(name string) string {
	return "{{" + name + "}}"
}

// Render substitutes placeholders in body. Standard fields are replaced
// first, then bindings in list order; a binding with an empty key or value is
// skipped. Once a standard field has been substituted its token is gone, so a
// binding with the same name has no effect. Unknown tokens are left as is.
func Render(body string, bindings []Binding) string {
	out := body
	for _, f := range standardFields {
		out = strings.ReplaceAll(out, Token(f.Key), f.Value)
	}
	for _, b := range bindings {
		if b.Key == "" || b.Value == "" {
			continue
		}
		out = strings.ReplaceAll(out, Token(b.Key), b.Value)
	}
	return out
}

var placeholderRe = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Placeholders lists the distinct word-named placeholders in body in order of
// first appearance.
func Placeholders(body string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, m := range placeholderRe.FindAllStringSubmatch(body, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}
