package describe

import (
	_ "embed"

	"github.com/jackzampolin/fitcheck/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

// SystemPrompt returns the system prompt for the vision description stage.
func SystemPrompt() string {
	return systemPrompt
}

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.describe.system"

// UserText is the fixed user message that accompanies the uploaded image.
const UserText = "Describe the visible outfit."

// RegisterPrompts registers the describe prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         PromptKey,
		Text:        systemPrompt,
		Description: "Vision stage system prompt - constrains output to factual descriptions of visible clothing with a not_detected sentinel for unseen items",
	})
}
