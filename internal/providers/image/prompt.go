package image

import "fmt"

// ComposePrompt folds the style into the prompt text sent to the model. Both
// values are interpolated verbatim.
func ComposePrompt(prompt, style string) string {
	return fmt.Sprintf("%s in %s style", prompt, style)
}
