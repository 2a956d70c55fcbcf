package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tmc/langchaingo/tools"

	"github.com/polyglotkit/polyglot/assistant"
	"github.com/polyglotkit/polyglot/log"
	"github.com/polyglotkit/polyglot/pptx"
)

// maxUploadBytes caps presentation uploads.
const maxUploadBytes = 32 << 20

// Config configures a Server.
type Config struct {
	// Assistant handles chat turns and owns the tool set.
	Assistant *assistant.Assistant
	// TranslateJob serves /api/translate. Optional; the endpoint
	// returns 404 when absent.
	TranslateJob *pptx.Job
	// Logger defaults to the package default logger.
	Logger log.Logger
}

// Server is the HTTP front-end.
type Server struct {
	assistant *assistant.Assistant
	job       *pptx.Job
	sessions  *assistant.SessionStore
	logger    log.Logger
	mux       *http.ServeMux
}

// New creates a Server from the config.
func New(cfg Config) (*Server, error) {
	if cfg.Assistant == nil {
		return nil, fmt.Errorf("server requires an assistant")
	}

	s := &Server{
		assistant: cfg.Assistant,
		job:       cfg.TranslateJob,
		sessions:  assistant.NewSessionStore(),
		logger:    cfg.Logger,
		mux:       http.NewServeMux(),
	}
	if s.logger == nil {
		s.logger = log.GetDefaultLogger()
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/tools", s.handleTools)
	s.mux.HandleFunc("/api/call", s.handleCall)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	if s.job != nil {
		s.mux.HandleFunc("/api/translate", s.handleTranslate)
	}
	return s, nil
}

// Handler returns the route multiplexer.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves on addr until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting server on %s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSONResponse(w, map[string]any{
		"status":   "ok",
		"tools":    len(s.assistant.Tools()),
		"sessions": s.sessions.Len(),
	})
}

// toolInfo describes one tool in /api/tools responses.
type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	infos := make([]toolInfo, 0, len(s.assistant.Tools()))
	for _, t := range s.assistant.Tools() {
		infos = append(infos, toolInfo{Name: t.Name(), Description: t.Description()})
	}
	sendJSONResponse(w, map[string]any{"tools": infos})
}

// callRequest invokes a single tool directly, bypassing the model.
type callRequest struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

type callResponse struct {
	Tool   string `json:"tool"`
	Output string `json:"output"`
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req callRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var target tools.Tool
	for _, t := range s.assistant.Tools() {
		if t.Name() == req.Tool {
			target = t
			break
		}
	}
	if target == nil {
		sendJSONError(w, fmt.Sprintf("unknown tool %q", req.Tool), http.StatusNotFound)
		return
	}

	output, err := target.Call(r.Context(), req.Input)
	if err != nil {
		s.logger.Warn("tool %s failed: %v", req.Tool, err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSONResponse(w, callResponse{Tool: req.Tool, Output: output})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID  string `json:"session_id"`
	Answer     string `json:"answer"`
	AnswerHTML string `json:"answer_html"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session := s.sessions.GetOrCreate(req.SessionID)
	answer, err := s.assistant.Chat(r.Context(), session, req.Message)
	if err != nil {
		s.logger.Warn("chat failed for session %s: %v", session.ID, err)
		sendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	sendJSONResponse(w, chatResponse{
		SessionID:  session.ID,
		Answer:     answer,
		AnswerHTML: renderMarkdown(answer),
	})
}

// translateResult is the payload of the final SSE "result" event.
type translateResult struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
}

// handleTranslate accepts a multipart upload and streams translation
// progress as server-sent events, ending with the translated file.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendJSONError(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	sourceLang := r.FormValue("source_lang")
	targetLang := r.FormValue("target_lang")
	if sourceLang == "" || targetLang == "" {
		sendJSONError(w, "source_lang and target_lang are required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendJSONError(w, "a presentation file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		sendJSONError(w, "failed to read upload", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Per-request copy so the progress callback does not race other
	// uploads sharing the configured job.
	job := *s.job
	job.Progress = func(slideIndex, totalSlides int) {
		sseEvent(w, flusher, "progress", map[string]int{
			"slide": slideIndex,
			"total": totalSlides,
		})
	}

	translated, err := job.Translate(r.Context(), data, sourceLang, targetLang)
	if err != nil {
		s.logger.Warn("translation failed: %v", err)
		sseEvent(w, flusher, "error", map[string]string{"message": err.Error()})
		sseEvent(w, flusher, "done", nil)
		return
	}

	sseEvent(w, flusher, "result", translateResult{
		FileName:    "translated_" + header.Filename,
		FileContent: base64.StdEncoding.EncodeToString(translated),
	})
	sseEvent(w, flusher, "done", nil)
}

// sseEvent sends a server-sent event.
func sseEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) {
	jsonData := "{}"
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return
		}
		jsonData = string(bytes)
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	flusher.Flush()
}

// sendJSONResponse sends a JSON response.
func sendJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// sendJSONError sends a JSON error response.
func sendJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": message})
}
