package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/eixo/medical-scribe/internal/config"
	"github.com/eixo/medical-scribe/internal/core/domain"
	"github.com/eixo/medical-scribe/internal/core/engine/clinical"
	"github.com/eixo/medical-scribe/internal/core/ports"
	"github.com/eixo/medical-scribe/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg           config.Config
	analyzer      ports.TranscriptAnalyzer
	ingestor      ports.ConsultationIngestor
	consultations ports.ConsultationReader
	metrics       *metrics.HTTPServerMetrics
}

type Option func(*Router)

// WithMetrics enables request metrics and mounts /metrics.
func WithMetrics(m *metrics.HTTPServerMetrics) Option {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(
	cfg config.Config,
	analyzer ports.TranscriptAnalyzer,
	ingestor ports.ConsultationIngestor,
	consultations ports.ConsultationReader,
	opts ...Option,
) *Router {
	rt := &Router{
		cfg:           cfg,
		analyzer:      analyzer,
		ingestor:      ingestor,
		consultations: consultations,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /v1/cid10", rt.listCID10)
	mux.HandleFunc("POST /v1/transcripts/analyze", rt.analyzeTranscript)
	mux.HandleFunc("POST /v1/consultations", rt.uploadConsultation)
	mux.HandleFunc("GET /v1/consultations", rt.listConsultations)
	mux.HandleFunc("GET /v1/consultations/{id}", rt.getConsultationByID)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if openAPIRouter, err := loadOpenAPIRouter(); err != nil {
		slog.Error("openapi_validation_disabled", "error", err)
	} else {
		handler = requestValidationMiddleware(handler, openAPIRouter)
	}

	var onReject func(string)
	if rt.metrics != nil {
		onReject = func(reason string) { rt.metrics.RecordRejection(serviceName, reason) }
	}
	handler = backpressureMiddlewareWithHook(
		handler,
		rt.cfg.APIMaxInFlight,
		time.Duration(rt.cfg.APIQueueTimeoutMS)*time.Millisecond,
		onReject,
	)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, onReject)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listCID10(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"entries": clinical.CIDTable()})
}

type analyzeRequest struct {
	Transcript string `json:"transcript"`
}

type analyzeResponse struct {
	Success     bool                       `json:"success"`
	Dialog      []domain.Utterance         `json:"dialog"`
	Record      *domain.ClinicalRecord     `json:"record"`
	Note        *domain.SOAPNote           `json:"note"`
	SummaryView *domain.SummaryView        `json:"summary_view"`
	Metadata    *domain.ProcessingMetadata `json:"metadata"`
	VitalAlerts []domain.VitalAlert        `json:"vital_alerts"`
}

func (rt *Router) analyzeTranscript(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.analyzer.Analyze(r.Context(), req.Transcript)
	if err != nil {
		if domain.IsKind(err, domain.ErrInsufficientInput) {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}
		writeError(w, err)
		return
	}

	dialog := result.Dialog
	if dialog == nil {
		dialog = []domain.Utterance{}
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Success:     true,
		Dialog:      dialog,
		Record:      result.Record,
		Note:        result.Note,
		SummaryView: result.SummaryView,
		Metadata:    result.Metadata,
		VitalAlerts: result.Record.Vitals.Alerts(),
	})
}

func (rt *Router) uploadConsultation(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, rt.cfg.MaxUploadBytes)
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	consultation, err := rt.ingestor.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, consultation)
}

func (rt *Router) listConsultations(w http.ResponseWriter, r *http.Request) {
	var limit int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
		return
	}

	items, err := rt.consultations.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []domain.Consultation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"consultations": items})
}

func (rt *Router) getConsultationByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "consultation id is required"})
		return
	}

	consultation, err := rt.consultations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, consultation)
}

func writeError(w http.ResponseWriter, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request_failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
