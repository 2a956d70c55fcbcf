package tool

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/polyglotkit/polyglot/pptx"
)

// TranslatePPT is a tool that translates a PowerPoint file between
// languages while preserving its formatting. Files cross the tool
// boundary base64-encoded inside a JSON envelope, so the tool stays
// usable over a plain string channel.
type TranslatePPT struct {
	job *pptx.Job
}

// NewTranslatePPT creates the tool around a configured translation job.
func NewTranslatePPT(job *pptx.Job) *TranslatePPT {
	return &TranslatePPT{job: job}
}

// translatePPTRequest is the JSON envelope accepted by Call.
type translatePPTRequest struct {
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
}

// translatePPTResponse is the JSON envelope returned by Call.
type translatePPTResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FileName    string `json:"file_name,omitempty"`
	FileContent string `json:"file_content,omitempty"`
}

// Name returns the name of the tool.
func (t *TranslatePPT) Name() string {
	return "translate_ppt"
}

// Description returns the description of the tool.
func (t *TranslatePPT) Description() string {
	return "Translate a PowerPoint file from one language to another while preserving the original formatting. " +
		`Input must be a JSON object: {"source_lang": "zh-TW", "target_lang": "en", ` +
		`"file_name": "deck.pptx", "file_content": "<base64 of the .pptx file>"}. ` +
		"Returns a JSON object with the translated file as base64 in file_content."
}

// Call translates the presentation carried in the request envelope.
// Request-level problems (bad JSON, missing content) are reported inside
// the response envelope so the model can relay them to the user.
func (t *TranslatePPT) Call(ctx context.Context, input string) (string, error) {
	var req translatePPTRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		return failureResponse(fmt.Sprintf("invalid request: %v", err))
	}
	if req.FileContent == "" {
		return failureResponse("a base64-encoded PowerPoint file is required in file_content")
	}
	if req.SourceLang == "" || req.TargetLang == "" {
		return failureResponse("both source_lang and target_lang are required")
	}

	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return failureResponse(fmt.Sprintf("file_content is not valid base64: %v", err))
	}

	translated, err := t.job.Translate(ctx, data, req.SourceLang, req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("presentation translation failed: %w", err)
	}

	resp := translatePPTResponse{
		Success:     true,
		Message:     "Translation complete!",
		FileName:    translatedFileName(req.FileName),
		FileContent: base64.StdEncoding.EncodeToString(translated),
	}
	out, err := json.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to encode response: %w", err)
	}
	return string(out), nil
}

func failureResponse(message string) (string, error) {
	out, err := json.Marshal(translatePPTResponse{Success: false, Message: message})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// translatedFileName derives the output name from the uploaded one.
func translatedFileName(name string) string {
	if name == "" {
		name = "presentation.pptx"
	}
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".ppt") && !strings.HasSuffix(lower, ".pptx") {
		name += ".pptx"
	}
	return "translated_" + name
}
