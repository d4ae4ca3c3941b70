package structure

import (
	_ "embed"

	"github.com/jackzampolin/fitcheck/internal/prompts"
)

//go:embed system.tmpl
var systemPrompt string

// SystemPrompt returns the system prompt for the JSON structuring stage.
func SystemPrompt() string {
	return systemPrompt
}

// PromptKey is the hierarchical key for this prompt.
const PromptKey = "stages.structure.system"

// RegisterPrompts registers the structure prompts with the resolver.
func RegisterPrompts(r *prompts.Resolver) {
	r.Register(prompts.EmbeddedPrompt{
		Key:         PromptKey,
		Text:        systemPrompt,
		Description: "Structuring stage system prompt - coerces a free-text clothing description into the fixed report JSON shape",
	})
}
