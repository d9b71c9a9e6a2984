package interpreter

import (
	"regexp"
)

// Pre-compiled patterns for digging a JSON object out of model text.
var (
	// jsonBlockPattern matches JSON inside a markdown code fence.
	jsonBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	// jsonObjectPattern greedily matches any JSON object.
	jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSON returns the first JSON-object-looking substring of content,
// preferring a fenced code block over a bare object, with trailing commas
// stripped. Returns "" when nothing object-shaped is present. Models are
// instructed to answer with bare JSON but routinely wrap it in prose or
// fences anyway.
func ExtractJSON(content string) string {
	raw := ""
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		raw = matches[1]
	} else if match := jsonObjectPattern.FindString(content); match != "" {
		raw = match
	}
	if raw == "" {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
