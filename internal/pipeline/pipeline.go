// Package pipeline runs the two-stage outfit analysis: a vision model
// describes the clothing visible in an uploaded photo, then a text
// model coerces that description into the fixed report shape.
//
// The two calls are strictly sequential and each gets exactly one
// attempt. A transport or provider failure at either stage is terminal
// for the request; the caller receives a sentinel error plus whatever
// raw model output was produced before the failure.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/fitcheck/internal/llmcall"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/prompts"
	"github.com/jackzampolin/fitcheck/internal/prompts/describe"
	"github.com/jackzampolin/fitcheck/internal/prompts/structure"
	"github.com/jackzampolin/fitcheck/internal/providers"
)

// Sentinel errors for the pipeline package.
var (
	// ErrVisionCallFailed means the stage-1 vision call did not return
	// a usable response.
	ErrVisionCallFailed = errors.New("vision call failed")

	// ErrStructuringCallFailed means the stage-2 structuring call did
	// not return a usable response.
	ErrStructuringCallFailed = errors.New("structuring call failed")

	// ErrUnstructurableOutput means the structuring model produced text
	// with no parseable JSON object in it.
	ErrUnstructurableOutput = errors.New("unstructurable model output")
)

// Stage names used in call records and metrics.
const (
	StageDescribe  = "describe"
	StageStructure = "structure"
)

// Default per-stage output token bounds. The describe stage is kept
// short; the structuring stage needs room for the full report JSON.
const (
	DefaultVisionMaxTokens = 400
	DefaultTextMaxTokens   = 600
)

// Config assembles a Pipeline.
type Config struct {
	// Client executes both stage calls. Required.
	Client providers.LLMClient

	// Model identifiers per stage. Empty uses the client default.
	VisionModel string
	TextModel   string

	// Per-stage output token bounds. Zero or negative uses the defaults.
	VisionMaxTokens int
	TextMaxTokens   int

	// Strict enables the sanitization pass on the normalized report.
	Strict bool

	// Calls records per-stage call traces. Optional.
	Calls *llmcall.Recorder

	// Metrics records per-stage cost and usage. Optional.
	Metrics *metrics.Recorder

	// Prompts, when set, receives the stage prompt registrations so the
	// prompt endpoints can serve the texts and hashes. Optional.
	Prompts *prompts.Resolver

	// Logger for pipeline events. Nil uses slog.Default().
	Logger *slog.Logger
}

// Pipeline executes outfit analyses.
type Pipeline struct {
	client          providers.LLMClient
	visionModel     string
	textModel       string
	visionMaxTokens int
	textMaxTokens   int
	strict          bool

	calls   *llmcall.Recorder
	metrics *metrics.Recorder
	logger  *slog.Logger

	// Hashes of the stage instructions, recorded per call so a stored
	// trace identifies exactly which wording produced it.
	describeHash  string
	structureHash string
}

// New creates a Pipeline from the config.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("pipeline requires an LLM client")
	}

	if cfg.VisionMaxTokens <= 0 {
		cfg.VisionMaxTokens = DefaultVisionMaxTokens
	}
	if cfg.TextMaxTokens <= 0 {
		cfg.TextMaxTokens = DefaultTextMaxTokens
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	calls := cfg.Calls
	if calls == nil {
		calls = llmcall.NewRecorder(nil)
	}
	mets := cfg.Metrics
	if mets == nil {
		mets = metrics.NewRecorder(nil)
	}

	if cfg.Prompts != nil {
		describe.RegisterPrompts(cfg.Prompts)
		structure.RegisterPrompts(cfg.Prompts)
	}

	return &Pipeline{
		client:          cfg.Client,
		visionModel:     cfg.VisionModel,
		textModel:       cfg.TextModel,
		visionMaxTokens: cfg.VisionMaxTokens,
		textMaxTokens:   cfg.TextMaxTokens,
		strict:          cfg.Strict,
		calls:           calls,
		metrics:         mets,
		logger:          logger.With("component", "pipeline"),
		describeHash:    prompts.HashText(describe.SystemPrompt()),
		structureHash:   prompts.HashText(structure.SystemPrompt()),
	}, nil
}

// Strict reports whether the sanitization pass is enabled.
func (p *Pipeline) Strict() bool {
	return p.strict
}

// Provider returns the name of the backing LLM client.
func (p *Pipeline) Provider() string {
	return p.client.Name()
}

// VisionModel returns the stage-1 model identifier ("" means the client
// default).
func (p *Pipeline) VisionModel() string {
	return p.visionModel
}

// TextModel returns the stage-2 model identifier ("" means the client
// default).
func (p *Pipeline) TextModel() string {
	return p.textModel
}
