package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/clintrovert/scopesync/internal/analysis"
	"github.com/clintrovert/scopesync/internal/po"
	"github.com/clintrovert/scopesync/internal/project"
	"github.com/clintrovert/scopesync/internal/synth"
	"github.com/clintrovert/scopesync/internal/temporal"
	"github.com/clintrovert/scopesync/pkg/types"
)

// Service is the product-owner service behind the handlers
type Service interface {
	ProcessAnalysis(ctx context.Context, text, projectID string) (types.SyncReport, error)
	Parse(text string) (*analysis.Result, error)
	CredentialStatus(ctx context.Context, projectID string) (po.CredentialStatus, error)
	StartAsync(ctx context.Context, text, projectID string) (string, error)
	JobStatus(ctx context.Context, workflowID string) (types.JobStatus, error)
	CancelJob(ctx context.Context, workflowID string) error
	Dashboard(ctx context.Context, projectID string) (*po.Dashboard, error)
}

// Handler handles REST API requests
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new REST handler
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ProcessAnalysisRequest represents a request to synthesize an analysis document
type ProcessAnalysisRequest struct {
	AnalysisText string `json:"analysisText"`
	ProjectID    string `json:"projectId"`
}

// ParseAnalysisRequest represents a request to preview an extraction
type ParseAnalysisRequest struct {
	AnalysisText string `json:"analysisText"`
}

// StartJobResponse represents the response from starting an asynchronous synthesis
type StartJobResponse struct {
	WorkflowID string `json:"workflowId"`
	Status     string `json:"status"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProcessAnalysis handles POST /po/process-analysis
func (h *Handler) ProcessAnalysis(w http.ResponseWriter, r *http.Request) {
	var req ProcessAnalysisRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AnalysisText == "" || req.ProjectID == "" {
		h.writeError(w, http.StatusBadRequest, "analysisText e projectId são obrigatórios")
		return
	}

	report, err := h.service.ProcessAnalysis(r.Context(), req.AnalysisText, req.ProjectID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// ProcessAnalysisAsync handles POST /po/process-analysis/async
func (h *Handler) ProcessAnalysisAsync(w http.ResponseWriter, r *http.Request) {
	var req ProcessAnalysisRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.AnalysisText == "" || req.ProjectID == "" {
		h.writeError(w, http.StatusBadRequest, "analysisText e projectId são obrigatórios")
		return
	}

	workflowID, err := h.service.StartAsync(r.Context(), req.AnalysisText, req.ProjectID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, StartJobResponse{WorkflowID: workflowID, Status: "started"})
}

// GetJob handles GET /po/jobs/{id}
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.JobStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// CancelJob handles DELETE /po/jobs/{id}
func (h *Handler) CancelJob(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelJob(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ErrorResponse{Success: true, Message: "cancelado"})
}

// ParseAnalysis handles POST /po/parse-analysis
func (h *Handler) ParseAnalysis(w http.ResponseWriter, r *http.Request) {
	var req ParseAnalysisRequest
	if !h.decode(w, r, &req) {
		return
	}

	parsed, err := h.service.Parse(req.AnalysisText)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, parsed)
}

// JiraStatus handles GET /po/projects/{projectId}/jira-status
func (h *Handler) JiraStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.CredentialStatus(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, status)
}

// Dashboard handles GET /jira/projects/{projectId}/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Dashboard(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, dashboard)
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/po", func(r chi.Router) {
		r.Post("/process-analysis", h.ProcessAnalysis)
		r.Post("/process-analysis/async", h.ProcessAnalysisAsync)
		r.Post("/parse-analysis", h.ParseAnalysis)
		r.Get("/jobs/{id}", h.GetJob)
		r.Delete("/jobs/{id}", h.CancelJob)
		r.Get("/projects/{projectId}/jira-status", h.JiraStatus)
	})
	r.Get("/jira/projects/{projectId}/dashboard", h.Dashboard)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, "corpo da requisição inválido: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var parseErr *analysis.ParseError
	var readErr *po.TrackerReadError

	switch {
	case errors.As(err, &parseErr):
		h.writeError(w, http.StatusBadRequest, parseErr.Error())
	case errors.Is(err, project.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "projeto não encontrado")
	case errors.Is(err, temporal.ErrWorkflowNotFound):
		h.writeError(w, http.StatusNotFound, "job não encontrado")
	case errors.Is(err, synth.ErrMissingCredentials):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &readErr):
		h.writeError(w, http.StatusBadRequest, readErr.Message)
	case errors.Is(err, po.ErrAsyncDisabled):
		h.writeError(w, http.StatusNotImplemented, err.Error())
	default:
		h.logger.Error("request failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "erro interno")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}
