package prompts

import (
	"regexp"
	"sort"
)

// Placeholder represents a single {{name}} occurrence in user prompt text.
type Placeholder struct {
	Raw   string
	Name  string
	Start int
	End   int
}

// Matches {{name}} with optional inner whitespace; capture 1 = name.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*}}`)

// ParsePlaceholders returns all placeholder occurrences in order of appearance.
func ParsePlaceholders(body string) []Placeholder {
	matches := placeholderPattern.FindAllStringSubmatchIndex(body, -1)
	out := make([]Placeholder, 0, len(matches))
	for _, idx := range matches {
		// [fullStart, fullEnd, nameStart, nameEnd]
		out = append(out, Placeholder{
			Raw:   body[idx[0]:idx[1]],
			Name:  body[idx[2]:idx[3]],
			Start: idx[0],
			End:   idx[1],
		})
	}
	return out
}

// ExtractTemplateVariables lists distinct placeholder names in order of first appearance.
func ExtractTemplateVariables(body string) []string {
	seen := map[string]bool{}
	names := []string{}
	for _, ph := range ParsePlaceholders(body) {
		if !seen[ph.Name] {
			seen[ph.Name] = true
			names = append(names, ph.Name)
		}
	}
	return names
}

// SubstituteVariables replaces every literal {{key}} with its value.
//
// Keys are used as regular-expression source without escaping, matching how
// templates have always been filled in; a key with metacharacters may match
// more or less than its literal text. A key that does not compile is skipped.
// Keys are applied in sorted order so repeated calls produce identical output.
func SubstituteVariables(body string, vars map[string]string) string {
	if len(vars) == 0 {
		return body
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := body
	for _, key := range keys {
		re, err := regexp.Compile(`\{\{` + key + `\}\}`)
		if err != nil {
			continue
		}
		out = re.ReplaceAllLiteralString(out, vars[key])
	}
	return out
}
