package endpoints

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/fitcheck/internal/api"
	"github.com/jackzampolin/fitcheck/internal/pipeline"
	"github.com/jackzampolin/fitcheck/internal/svcctx"
)

// AnalyzeErrorResponse is returned when the pipeline fails mid-run.
// RawOutput carries whatever text the failing stage produced so the
// caller can see what the model actually said.
type AnalyzeErrorResponse struct {
	Error     string `json:"error"`
	Stage     string `json:"stage,omitempty"`
	RawOutput string `json:"raw_output,omitempty"`
}

// AnalyzeEndpoint handles POST /api/analyze with a multipart image upload.
type AnalyzeEndpoint struct{}

var _ api.Endpoint = (*AnalyzeEndpoint)(nil)

func (e *AnalyzeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/analyze", e.handler
}

func (e *AnalyzeEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Analyze an outfit photo
//	@Description	Run the two-stage analysis on an uploaded photo and return the structured outfit report
//	@Tags			analyze
//	@Accept			mpfd
//	@Produce		json
//	@Param			image	formData	file	true	"JPEG or PNG photo to analyze"
//	@Success		200		{object}	pipeline.Analysis
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	AnalyzeErrorResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/api/analyze [post]
func (e *AnalyzeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form with 20MB max memory
	const maxMemory = 20 << 20 // 20MB
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != "" && ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not a JPEG or PNG", header.Filename))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read uploaded file: %v", err))
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded image is empty")
		return
	}

	// The extension only covers files that carry one; the sniffed
	// content type is what actually gates the upload.
	mimeType := http.DetectContentType(data)
	if mimeType != "image/jpeg" && mimeType != "image/png" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported image content type %s (want image/jpeg or image/png)", mimeType))
		return
	}

	p := svcctx.PipelineFrom(r.Context())
	if p == nil {
		writeError(w, http.StatusServiceUnavailable, "pipeline not initialized")
		return
	}

	analysis, err := p.Analyze(r.Context(), data, mimeType)
	if err != nil {
		resp := AnalyzeErrorResponse{Error: err.Error()}
		if analysis != nil {
			if errors.Is(err, pipeline.ErrVisionCallFailed) {
				resp.Stage = pipeline.StageDescribe
				resp.RawOutput = analysis.VisionRaw
			} else {
				resp.Stage = pipeline.StageStructure
				resp.RawOutput = analysis.StructuredRaw
			}
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (e *AnalyzeEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <image>",
		Short: "Analyze an outfit photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			client := api.NewClient(getServerURL())
			var resp pipeline.Analysis
			if err := client.PostFile(ctx, "/api/analyze", "image", filepath.Base(args[0]), f, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
