package server

import (
	"encoding/json"
	"errors"
	"net/http"
	goruntime "runtime"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonwraymond/codeplay/backend"
	"github.com/jonwraymond/codeplay/backend/local"
	"github.com/jonwraymond/codeplay/history"
	"github.com/jonwraymond/toolfoundation/model"
)

// maxBodyBytes caps the size of an execute request.
const maxBodyBytes = 1 << 20

type healthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Languages map[string]string `json:"languages"`
	History   string            `json:"history"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	langs := make(map[string]string)
	for _, info := range s.agg.Describe() {
		switch {
		case !info.Enabled:
			langs[info.Name] = "disabled"
		case info.State != "":
			langs[info.Name] = info.State
		default:
			langs[info.Name] = "available"
		}
	}
	hist := "disabled"
	if s.history != nil {
		hist = "enabled"
	}

	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   Version,
		GoVersion: goruntime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Languages: langs,
		History:   hist,
	})
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), s.agg.Describe())
}

// executeRequest is the body of POST /execute.
type executeRequest struct {
	Language string  `json:"language"`
	Code     *string `json:"code"`
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req executeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, ErrValidation, "invalid JSON: "+err.Error())
		return
	}
	if req.Code == nil {
		respondError(w, reqID, http.StatusBadRequest, ErrValidation, "code is required")
		return
	}
	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = s.defaultLanguage
	}
	if lang == "" {
		respondError(w, reqID, http.StatusBadRequest, ErrValidation, "language is required")
		return
	}

	toolID := backend.FormatToolID(lang, local.ToolExecute)
	result, err := s.agg.Execute(r.Context(), toolID, map[string]any{"code": *req.Code})
	if err != nil {
		s.respondBackendError(w, reqID, lang, err)
		return
	}
	respondOK(w, reqID, result)
}

func (s *Server) respondBackendError(w http.ResponseWriter, reqID, lang string, err error) {
	switch {
	case errors.Is(err, backend.ErrBackendNotFound), errors.Is(err, backend.ErrInvalidToolID):
		respondError(w, reqID, http.StatusNotFound, ErrNotFound, "unknown language: "+lang)
	case errors.Is(err, backend.ErrBackendDisabled):
		respondError(w, reqID, http.StatusNotFound, ErrNotFound, "language is disabled: "+lang)
	case errors.Is(err, backend.ErrInvalidArguments):
		respondError(w, reqID, http.StatusBadRequest, ErrValidation, err.Error())
	default:
		s.logger.Error("execute failed", "language", lang, "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
	}
}

// toolSummary is one entry of GET /tools.
type toolSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Namespace   string   `json:"namespace"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		tools, err := s.agg.ListAllTools(r.Context())
		if err != nil {
			respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
			return
		}
		respondOK(w, reqID, summarize(tools))
		return
	}

	limit, ok := intParam(w, r, reqID, "limit", 10)
	if !ok {
		return
	}
	idx, err := s.agg.BuildIndex(r.Context())
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}
	results, err := idx.Search(query, limit)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}
	out := make([]toolSummary, 0, len(results))
	for _, res := range results {
		out = append(out, toolSummary{
			ID:          res.ID,
			Name:        res.Name,
			Namespace:   res.Namespace,
			Description: res.ShortDescription,
			Tags:        res.Tags,
		})
	}
	respondOK(w, reqID, out)
}

func summarize(tools []model.Tool) []toolSummary {
	out := make([]toolSummary, 0, len(tools))
	for _, t := range tools {
		out = append(out, toolSummary{
			ID:          backend.FormatToolID(t.Namespace, t.Name),
			Name:        t.Name,
			Namespace:   t.Namespace,
			Description: t.Description,
			Tags:        t.Tags,
		})
	}
	return out
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.history == nil {
		respondError(w, reqID, http.StatusNotFound, ErrNotFound, "execution history is disabled")
		return
	}

	limit, ok := intParam(w, r, reqID, "limit", history.DefaultListLimit)
	if !ok {
		return
	}
	if limit == 0 {
		limit = history.DefaultListLimit
	}
	offset, ok := intParam(w, r, reqID, "offset", 0)
	if !ok {
		return
	}

	records, err := s.history.List(r.Context(), history.ListOptions{
		Language: r.URL.Query().Get("language"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		s.logger.Error("list executions", "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}
	respondList(w, reqID, records, &Pagination{
		Limit:   limit,
		Offset:  offset,
		Count:   len(records),
		HasMore: len(records) == limit,
	})
}

func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	if s.history == nil {
		respondError(w, reqID, http.StatusNotFound, ErrNotFound, "execution history is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.history.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		respondError(w, reqID, http.StatusNotFound, ErrNotFound, "execution not found: "+id)
		return
	}
	if err != nil {
		s.logger.Error("get execution", "id", id, "error", err, "request_id", reqID)
		respondError(w, reqID, http.StatusInternalServerError, ErrInternal, err.Error())
		return
	}
	respondOK(w, reqID, rec)
}

// intParam reads a non-negative integer query parameter, writing a 400 and
// returning false when it is malformed.
func intParam(w http.ResponseWriter, r *http.Request, reqID, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondError(w, reqID, http.StatusBadRequest, ErrValidation, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
