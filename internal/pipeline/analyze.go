package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/fitcheck/internal/llmcall"
	"github.com/jackzampolin/fitcheck/internal/metrics"
	"github.com/jackzampolin/fitcheck/internal/outfit"
	"github.com/jackzampolin/fitcheck/internal/prompts/describe"
	"github.com/jackzampolin/fitcheck/internal/prompts/structure"
	"github.com/jackzampolin/fitcheck/internal/providers"
)

// Analysis is the outcome of one pipeline run. On a fatal error the
// partial Analysis still carries the raw text of whatever stage
// produced output, so the caller never loses the offending model text.
type Analysis struct {
	ID string `json:"id"`

	Report *outfit.Report `json:"report,omitempty"`

	// Raw stage outputs, kept for traceability.
	VisionRaw     string `json:"vision_raw,omitempty"`
	StructuredRaw string `json:"structured_raw,omitempty"`

	// Timings
	VisionSeconds      float64 `json:"vision_seconds"`
	StructuringSeconds float64 `json:"structuring_seconds"`
	TotalSeconds       float64 `json:"total_seconds"`

	// Provider info
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Strict records whether the sanitization pass ran.
	Strict bool `json:"strict"`
}

// Analyze runs the two-stage analysis on an uploaded image. An empty
// mimeType is treated as image/jpeg.
func (p *Pipeline) Analyze(ctx context.Context, image []byte, mimeType string) (*Analysis, error) {
	start := time.Now()

	analysis := &Analysis{
		ID:       uuid.New().String(),
		Provider: p.client.Name(),
		Strict:   p.strict,
	}
	logger := p.logger.With("analysis_id", analysis.ID)

	// Stage 1: describe the visible clothing.
	visionRes, err := p.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: describe.SystemPrompt()},
			{
				Role:    "user",
				Content: describe.UserText,
				Images:  []providers.ImageAttachment{{Data: image, MimeType: mimeType}},
			},
		},
		Model:       p.visionModel,
		Temperature: 0,
		MaxTokens:   p.visionMaxTokens,
	})
	p.record(analysis.ID, StageDescribe, describe.PromptKey, p.describeHash, visionRes)
	if visionRes != nil {
		analysis.VisionSeconds = visionRes.ExecutionTime.Seconds()
		analysis.VisionRaw = visionRes.Content
		if visionRes.ModelUsed != "" {
			analysis.Model = visionRes.ModelUsed
		}
	}
	if err != nil {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("vision call failed", "error", err)
		return analysis, fmt.Errorf("%w: %v", ErrVisionCallFailed, err)
	}
	if !visionRes.Success {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("vision call failed", "error_type", visionRes.ErrorType, "error", visionRes.ErrorMessage)
		return analysis, fmt.Errorf("%w: %s", ErrVisionCallFailed, visionRes.ErrorMessage)
	}

	// The describe instruction asks for JSON, but vision models often
	// wrap it in prose or ignore the shape entirely. Either way the
	// structuring stage gets something to work with: the re-serialized
	// object when one parses out, the raw text when it does not.
	stageTwoInput := visionRes.Content
	if obj, extractErr := outfit.Extract(visionRes.Content); extractErr == nil {
		if data, marshalErr := json.Marshal(obj); marshalErr == nil {
			stageTwoInput = string(data)
		}
	} else {
		logger.Debug("vision output carried no parseable JSON, passing raw text through", "error", extractErr)
	}

	// Stage 2: coerce the description into the report shape.
	structRes, err := p.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: structure.SystemPrompt()},
			{Role: "user", Content: stageTwoInput},
		},
		Model:       p.textModel,
		Temperature: 0,
		MaxTokens:   p.textMaxTokens,
	})
	p.record(analysis.ID, StageStructure, structure.PromptKey, p.structureHash, structRes)
	if structRes != nil {
		analysis.StructuringSeconds = structRes.ExecutionTime.Seconds()
		analysis.StructuredRaw = structRes.Content
		if structRes.ModelUsed != "" {
			analysis.Model = structRes.ModelUsed
		}
	}
	if err != nil {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("structuring call failed", "error", err)
		return analysis, fmt.Errorf("%w: %v", ErrStructuringCallFailed, err)
	}
	if !structRes.Success {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("structuring call failed", "error_type", structRes.ErrorType, "error", structRes.ErrorMessage)
		return analysis, fmt.Errorf("%w: %s", ErrStructuringCallFailed, structRes.ErrorMessage)
	}

	obj, err := outfit.Extract(structRes.Content)
	if err != nil {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("structuring output carried no parseable JSON", "error", err)
		return analysis, fmt.Errorf("%w: %v", ErrUnstructurableOutput, err)
	}

	report, err := outfit.Normalize(obj)
	if err != nil {
		analysis.TotalSeconds = time.Since(start).Seconds()
		logger.Warn("structured output missing required fields", "error", err)
		return analysis, err
	}

	if p.strict {
		report = outfit.Sanitize(report)
	}

	// Consistency check against the published schema. Normalize already
	// guarantees the shape, so a failure here is a bug worth logging,
	// not a reason to fail the request.
	if err := outfit.ValidateReport(report); err != nil {
		logger.Warn("normalized report failed schema validation", "error", err)
	}

	analysis.Report = report
	analysis.TotalSeconds = time.Since(start).Seconds()

	logger.Info("analysis complete",
		"model", analysis.Model,
		"vision_seconds", analysis.VisionSeconds,
		"structuring_seconds", analysis.StructuringSeconds,
		"total_seconds", analysis.TotalSeconds)

	return analysis, nil
}

// record stores the call trace and metric for one stage. Both stage
// calls run at temperature zero, and the recorded trace says so
// explicitly rather than leaving the field unset.
func (p *Pipeline) record(analysisID, stage, promptKey, promptHash string, res *providers.ChatResult) {
	if res == nil {
		return
	}

	temp := 0.0
	p.calls.Record(res, llmcall.RecordOptions{
		AnalysisID:  analysisID,
		Stage:       stage,
		PromptKey:   promptKey,
		PromptHash:  promptHash,
		Temperature: &temp,
	})

	if _, err := p.metrics.RecordLLMCall(metrics.RecordOpts{AnalysisID: analysisID, Stage: stage}, res); err != nil {
		p.logger.Warn("failed to record metric", "stage", stage, "error", err)
	}
}
