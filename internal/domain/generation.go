package domain

import "strings"

// RoleAssistant tags a GenerationResult as an assistant-produced artifact.
const RoleAssistant = "assistant"

// DefaultStyle is preselected in the client style picker.
const DefaultStyle = "modern"

// Styles is the closed set of style labels offered to users. The relay itself
// accepts any style string.
var Styles = []string{"modern", "vintage", "abstract", "realistic"}

// GenerationRequest is the request-scoped input of one generation.
type GenerationRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style"`
}

// GenerationResult references the produced image.
type GenerationResult struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// IsKnownStyle reports whether style belongs to Styles.
func IsKnownStyle(style string) bool {
	style = strings.TrimSpace(style)
	for _, s := range Styles {
		if s == style {
			return true
		}
	}
	return false
}
