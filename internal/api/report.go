package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"solana-token-scanner/internal/domain"
)

// ReportBuilder validates addresses and builds reports.
type ReportBuilder interface {
	Validate(ctx context.Context, text string) (domain.AssetIdentifier, error)
	Build(ctx context.Context, id domain.AssetIdentifier) (string, error)
	BuildPairs(ctx context.Context, id domain.AssetIdentifier) (string, error)
}

// ReportHandler serves token reports over HTTP.
type ReportHandler struct {
	reports ReportBuilder
	logger  *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports ReportBuilder, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// ReportResponse is the JSON body of a successful report request.
type ReportResponse struct {
	Address string `json:"address"`
	Report  string `json:"report"`
}

// RegisterRoutes registers the report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tokens/{address}/report", h.GetReport)
	r.Get("/tokens/{address}/pairs", h.GetPairs)
}

// GetReport handles GET /api/v1/tokens/{address}/report
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.reports.Build)
}

// GetPairs handles GET /api/v1/tokens/{address}/pairs
func (h *ReportHandler) GetPairs(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.reports.BuildPairs)
}

func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, build func(context.Context, domain.AssetIdentifier) (string, error)) {
	ctx := r.Context()

	id, err := h.reports.Validate(ctx, chi.URLParam(r, "address"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := build(ctx, id)
	if err != nil {
		status, msg := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Failed to build report", zap.String("address", id.String()), zap.Error(err))
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{Address: id.String(), Report: report})
}

// errorStatus maps pipeline errors to HTTP status codes.
func errorStatus(err error) (int, string) {
	var mErr *domain.MissingDataError
	var fErr *domain.UpstreamFetchError
	switch {
	case errors.As(err, &mErr):
		return http.StatusNotFound, "no data for token"
	case errors.As(err, &fErr):
		return http.StatusBadGateway, "upstream lookup failed"
	default:
		return http.StatusInternalServerError, "failed to build report"
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
