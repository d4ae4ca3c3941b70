// Package prompts manages the instruction text sent to model providers.
//
// Embedded .tmpl files are the source of truth: each stage package
// registers its prompt with the Resolver during startup, and the server
// exposes the registered set read-only for inspection. Instruction text
// is versioned as data, so changing a prompt is a file edit rather than
// a code change, and the hash recorded per call identifies exactly
// which wording produced a given result.
package prompts

// EmbeddedPrompt is a prompt loaded from an embedded .tmpl file.
type EmbeddedPrompt struct {
	Key         string   // Hierarchical key: stages.describe.system
	Text        string   // The prompt text
	Description string   // Human-readable description
	Variables   []string // Extracted template variables
	Hash        string   // SHA256 hash of the text for change detection
}
